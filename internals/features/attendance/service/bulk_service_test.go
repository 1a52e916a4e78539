// internals/features/attendance/service/bulk_service_test.go
package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presensiku_backend/internals/events"
	dto "presensiku_backend/internals/features/attendance/dto"
	model "presensiku_backend/internals/features/attendance/model"
)

func bulkReq(contextID uuid.UUID, date, contextType string, entries ...dto.UserAttendanceEntry) *dto.BulkAttendanceRequest {
	req := &dto.BulkAttendanceRequest{
		AttendanceDate: date,
		ContextID:      contextID,
		UserAttendance: entries,
	}
	if contextType != "" {
		req.Context = &contextType
	}
	return req
}

func TestBulkUpsert_AllSucceed(t *testing.T) {
	s, _, p := newTestService()

	entries := []dto.UserAttendanceEntry{
		{UserID: uuid.New(), Attendance: "present"},
		{UserID: uuid.New(), Attendance: "absent"},
		{UserID: uuid.New(), Attendance: "on-leave"},
	}
	out, err := s.BulkUpsert(context.Background(), uuid.New(), nil,
		bulkReq(uuid.New(), "2024-05-10", "cohort", entries...))
	require.NoError(t, err)

	assert.Len(t, out.Results, 3)
	assert.Empty(t, out.Errors)
	assert.True(t, out.FullSuccess())
	for _, r := range out.Results {
		assert.Equal(t, "created", r.Status)
	}
	assert.Equal(t, 3, p.count(events.EventCreated))
}

func TestBulkUpsert_PartialFailureKeepsSiblings(t *testing.T) {
	s, r, _ := newTestService()

	bad := uuid.New()
	r.failUsers[bad] = true

	entries := []dto.UserAttendanceEntry{
		{UserID: uuid.New(), Attendance: "present"},
		{UserID: bad, Attendance: "present"},
		{UserID: uuid.New(), Attendance: "absent"},
	}
	out, err := s.BulkUpsert(context.Background(), uuid.New(), nil,
		bulkReq(uuid.New(), "2024-05-10", "cohort", entries...))
	require.NoError(t, err)

	assert.Len(t, out.Results, 2)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, bad, out.Errors[0].Attendance.UserID)
	assert.False(t, out.AllFailed())
	assert.False(t, out.FullSuccess())
}

func TestBulkUpsert_InvalidStatusIsPerEntryError(t *testing.T) {
	s, _, _ := newTestService()

	out, err := s.BulkUpsert(context.Background(), uuid.New(), nil,
		bulkReq(uuid.New(), "2024-05-10", "cohort",
			dto.UserAttendanceEntry{UserID: uuid.New(), Attendance: "present"},
			dto.UserAttendanceEntry{UserID: uuid.New(), Attendance: "sick"},
		))
	require.NoError(t, err)
	assert.Len(t, out.Results, 1)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "attendance must be one of present, absent, on-leave", out.Errors[0].Error)
}

func TestBulkUpsert_AllFail(t *testing.T) {
	s, r, _ := newTestService()

	a, b := uuid.New(), uuid.New()
	r.failUsers[a] = true
	r.failUsers[b] = true

	out, err := s.BulkUpsert(context.Background(), uuid.New(), nil,
		bulkReq(uuid.New(), "2024-05-10", "cohort",
			dto.UserAttendanceEntry{UserID: a, Attendance: "present"},
			dto.UserAttendanceEntry{UserID: b, Attendance: "present"},
		))
	require.NoError(t, err)
	assert.True(t, out.AllFailed())
}

func TestBulkUpsertByDate_TodaySkipsSync(t *testing.T) {
	s, r, _ := newTestService()
	fixClock(s, "2024-05-10")

	out, err := s.BulkUpsertByDate(context.Background(), uuid.New(), nil,
		bulkReq(uuid.New(), "2024-05-10", "event",
			dto.UserAttendanceEntry{UserID: uuid.New(), Attendance: "present"},
		))
	require.NoError(t, err)
	assert.Len(t, out.Results, 1)
	// plain path: one lookup per entry, no batched sync read
	assert.Equal(t, 1, r.findCalls)
}

func TestBulkUpsertByDate_PastEventSyncsCohort(t *testing.T) {
	s, r, p := newTestService()
	fixClock(s, "2024-05-11")

	tenantID := uuid.New()
	userID := uuid.New()
	cohortID := uuid.New()

	// existing same-day cohort fact, currently absent
	r.seed(model.AttendanceModel{
		TenantID:       tenantID,
		UserID:         userID,
		ContextID:      cohortID,
		AttendanceDate: mustDate("2024-05-10"),
		Attendance:     "absent",
		Context:        "cohort",
	})

	out, err := s.BulkUpsertByDate(context.Background(), tenantID, nil,
		bulkReq(uuid.New(), "2024-05-10", "event",
			dto.UserAttendanceEntry{UserID: userID, Attendance: "present"},
		))
	require.NoError(t, err)
	require.True(t, out.FullSuccess())

	var updated int
	for i := range r.records {
		if r.records[i].ContextID == cohortID {
			assert.Equal(t, "present", r.records[i].Attendance, "present event propagates into cohort")
			updated++
		}
	}
	assert.Equal(t, 1, updated)
	// one update event from the sync plus nothing for untouched rows
	assert.Equal(t, 1, p.count(events.EventUpdated))
}

func TestBulkUpsertByDate_AllAbsentLeavesCohortUntouched(t *testing.T) {
	s, r, p := newTestService()
	fixClock(s, "2024-05-11")

	tenantID := uuid.New()
	userID := uuid.New()
	cohortID := uuid.New()

	r.seed(model.AttendanceModel{
		TenantID:       tenantID,
		UserID:         userID,
		ContextID:      cohortID,
		AttendanceDate: mustDate("2024-05-10"),
		Attendance:     "absent",
		Context:        "cohort",
	})

	out, err := s.BulkUpsertByDate(context.Background(), tenantID, nil,
		bulkReq(uuid.New(), "2024-05-10", "event",
			dto.UserAttendanceEntry{UserID: userID, Attendance: "absent"},
		))
	require.NoError(t, err)
	require.True(t, out.FullSuccess())

	for i := range r.records {
		if r.records[i].ContextID == cohortID {
			assert.Equal(t, "absent", r.records[i].Attendance)
		}
	}
	// derived == current: no cohort write, no update event
	assert.Equal(t, 0, p.count(events.EventUpdated))
}

func TestBulkUpsertByDate_MixedEventsDerivePresent(t *testing.T) {
	s, r, _ := newTestService()
	fixClock(s, "2024-05-11")

	tenantID := uuid.New()
	userID := uuid.New()
	cohortID := uuid.New()
	eventA := uuid.New()

	r.seed(
		model.AttendanceModel{
			TenantID: tenantID, UserID: userID, ContextID: cohortID,
			AttendanceDate: mustDate("2024-05-10"), Attendance: "absent", Context: "cohort",
		},
		model.AttendanceModel{
			TenantID: tenantID, UserID: userID, ContextID: eventA,
			AttendanceDate: mustDate("2024-05-10"), Attendance: "present", Context: "event",
		},
	)

	// submit an absent event; the earlier present event still wins
	out, err := s.BulkUpsertByDate(context.Background(), tenantID, nil,
		bulkReq(uuid.New(), "2024-05-10", "event",
			dto.UserAttendanceEntry{UserID: userID, Attendance: "absent"},
		))
	require.NoError(t, err)
	require.True(t, out.FullSuccess())

	for i := range r.records {
		if r.records[i].ContextID == cohortID {
			assert.Equal(t, "present", r.records[i].Attendance)
		}
	}
}

func TestBulkUpsertByDate_PastCohortContextDoesNotSync(t *testing.T) {
	s, r, _ := newTestService()
	fixClock(s, "2024-05-11")

	out, err := s.BulkUpsertByDate(context.Background(), uuid.New(), nil,
		bulkReq(uuid.New(), "2024-05-10", "cohort",
			dto.UserAttendanceEntry{UserID: uuid.New(), Attendance: "present"},
		))
	require.NoError(t, err)
	assert.True(t, out.FullSuccess())
	// no sync read beyond the per-entry lookup
	assert.Equal(t, 1, r.findCalls)
}

func TestBulkUpsertByDate_SyncFailureIsAggregateError(t *testing.T) {
	s, r, _ := newTestService()
	fixClock(s, "2024-05-11")

	// the per-entry lookup (call 1) works, the batched sync read (call 2)
	// fails; the upserts must stand and the sync failure becomes one entry
	r.failFindAfter = 1

	out, err := s.BulkUpsertByDate(context.Background(), uuid.New(), nil,
		bulkReq(uuid.New(), "2024-05-10", "event",
			dto.UserAttendanceEntry{UserID: uuid.New(), Attendance: "present"},
		))
	require.NoError(t, err)

	assert.Len(t, out.Results, 1, "upserts are never rolled back by a sync failure")
	require.Len(t, out.Errors, 1)
	assert.Nil(t, out.Errors[0].Attendance, "aggregate error carries no single entry")
	assert.Contains(t, out.Errors[0].Error, "Cohort sync failed for 1 users")
	assert.Len(t, r.records, 1)
}
