// internals/features/attendance/service/bulk_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"presensiku_backend/internals/events"
	dto "presensiku_backend/internals/features/attendance/dto"
	model "presensiku_backend/internals/features/attendance/model"
	repo "presensiku_backend/internals/features/attendance/repository"
)

/* =========================================================
   Bulk upsert orchestrator
   Per-entry failures never abort siblings; they accumulate
   and the caller applies the zero/partial/full rule.
   ========================================================= */

type BulkEntryResult struct {
	Status     string                 `json:"status"` // created | updated
	Attendance *model.AttendanceModel `json:"attendance"`
}

type BulkEntryError struct {
	// nil for batch-level entries (cohort sync failure)
	Attendance *dto.UserAttendanceEntry `json:"attendance,omitempty"`
	Error      string                   `json:"error"`
}

type BulkOutcome struct {
	Results []BulkEntryResult
	Errors  []BulkEntryError
}

func (o *BulkOutcome) AllFailed() bool   { return len(o.Results) == 0 && len(o.Errors) > 0 }
func (o *BulkOutcome) FullSuccess() bool { return len(o.Errors) == 0 }

func (s *AttendanceService) BulkUpsert(
	ctx context.Context,
	tenantID uuid.UUID,
	loginUserID *uuid.UUID,
	in *dto.BulkAttendanceRequest,
) (*BulkOutcome, error) {
	out := &BulkOutcome{}
	for i := range in.UserAttendance {
		entry := in.UserAttendance[i]
		res, err := s.UpsertAttendance(ctx, tenantID, loginUserID, in.EntryRequest(&entry))
		if err != nil {
			out.Errors = append(out.Errors, BulkEntryError{Attendance: &entry, Error: err.Error()})
			continue
		}
		status := "updated"
		if res.Created {
			status = "created"
		}
		out.Results = append(out.Results, BulkEntryResult{Status: status, Attendance: res.Fact})
	}
	return out, nil
}

// BulkUpsertByDate: today goes through the plain orchestrator, past dates
// through the cohort-event sync path.
func (s *AttendanceService) BulkUpsertByDate(
	ctx context.Context,
	tenantID uuid.UUID,
	loginUserID *uuid.UUID,
	in *dto.BulkAttendanceRequest,
) (*BulkOutcome, error) {
	date, err := in.ParsedDate()
	if err != nil {
		return nil, badRequest("attendanceDate invalid, expected yyyy-mm-dd")
	}
	if date.Format(dto.DateLayout) == s.now().Format(dto.DateLayout) {
		return s.BulkUpsert(ctx, tenantID, loginUserID, in)
	}
	return s.bulkUpsertWithCohortSync(ctx, tenantID, loginUserID, in, date)
}

/* =========================================================
   Cohort-event sync engine
   Past-dated event submissions propagate presence into the
   same-day cohort facts: one batched read, one batched write.
   ========================================================= */

func (s *AttendanceService) bulkUpsertWithCohortSync(
	ctx context.Context,
	tenantID uuid.UUID,
	loginUserID *uuid.UUID,
	in *dto.BulkAttendanceRequest,
	date time.Time,
) (*BulkOutcome, error) {
	isEvent := in.IsEventContext()

	out := &BulkOutcome{}
	var syncUserIDs []uuid.UUID
	seen := map[uuid.UUID]struct{}{}

	for i := range in.UserAttendance {
		entry := in.UserAttendance[i]
		res, err := s.UpsertAttendance(ctx, tenantID, loginUserID, in.EntryRequest(&entry))
		if err != nil {
			out.Errors = append(out.Errors, BulkEntryError{Attendance: &entry, Error: err.Error()})
			continue
		}
		status := "updated"
		if res.Created {
			status = "created"
		}
		out.Results = append(out.Results, BulkEntryResult{Status: status, Attendance: res.Fact})

		if isEvent {
			if _, ok := seen[entry.UserID]; !ok {
				seen[entry.UserID] = struct{}{}
				syncUserIDs = append(syncUserIDs, entry.UserID)
			}
		}
	}

	// Sync never rolls back the upserts above; a failure becomes one
	// aggregate error entry.
	if isEvent && len(syncUserIDs) > 0 {
		if err := s.syncCohortFromEvents(ctx, tenantID, syncUserIDs, date, loginUserID); err != nil {
			log.Printf("[ERROR] cohort sync: %v", err)
			out.Errors = append(out.Errors, BulkEntryError{
				Error: fmt.Sprintf("Cohort sync failed for %d users: %s", len(syncUserIDs), err.Error()),
			})
		}
	}

	return out, nil
}

// syncCohortFromEvents derives cohort status from the same-day event facts of
// every touched user. Cohort must read "present" iff at least one event fact
// is present, else "absent". One find, one batched save.
func (s *AttendanceService) syncCohortFromEvents(
	ctx context.Context,
	tenantID uuid.UUID,
	userIDs []uuid.UUID,
	date time.Time,
	loginUserID *uuid.UUID,
) error {
	if len(userIDs) == 0 {
		return nil
	}

	records, err := s.repo.Find(ctx, repo.Query{Conds: []repo.Cond{
		repo.Eq("tenant_id", tenantID),
		repo.In("user_id", userIDs),
		repo.Eq("attendance_date", date),
	}})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		log.Printf("[INFO] no attendance records found for %d users on %s", len(userIDs), date.Format(dto.DateLayout))
		return nil
	}

	type userRecords struct {
		events  []*model.AttendanceModel
		cohorts []*model.AttendanceModel
	}
	byUser := map[uuid.UUID]*userRecords{}
	var order []uuid.UUID

	for i := range records {
		rec := &records[i]
		ur, ok := byUser[rec.UserID]
		if !ok {
			ur = &userRecords{}
			byUser[rec.UserID] = ur
			order = append(order, rec.UserID)
		}
		switch {
		case rec.IsEventContext():
			ur.events = append(ur.events, rec)
		case rec.IsCohortContext():
			ur.cohorts = append(ur.cohorts, rec)
		}
	}

	var toUpdate []model.AttendanceModel
	for _, userID := range order {
		ur := byUser[userID]
		if len(ur.events) == 0 {
			continue // nothing to derive from
		}

		derived := string(model.AttendanceAbsent)
		for _, ev := range ur.events {
			if ev.IsPresent() {
				derived = string(model.AttendancePresent)
				break
			}
		}

		for _, cohort := range ur.cohorts {
			if cohort.Attendance != derived {
				cohort.Attendance = derived
				cohort.UpdatedBy = loginUserID
				toUpdate = append(toUpdate, *cohort)
			}
		}
	}

	if len(toUpdate) == 0 {
		log.Printf("[INFO] no cohort attendance updates needed for %d users", len(byUser))
		return nil
	}

	saved, err := s.repo.SaveAll(ctx, toUpdate)
	if err != nil {
		return err
	}
	for i := range saved {
		s.publishFact(events.EventUpdated, &saved[i])
	}
	log.Printf("[INFO] synced cohort attendance, %d records across %d users", len(saved), len(byUser))
	return nil
}
