// internals/features/attendance/service/bulk_delete.go
package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	dto "presensiku_backend/internals/features/attendance/dto"
	model "presensiku_backend/internals/features/attendance/model"
	repo "presensiku_backend/internals/features/attendance/repository"
)

/* =========================================================
   Bulk delete orchestrator
   Validate → flatten contextIds → one superset find →
   struct-keyed lookup → one batched delete.
   ========================================================= */

type DeleteRecordRef struct {
	UserID    string `json:"userId"`
	ContextID string `json:"contextId"`
	Date      string `json:"date"`
}

type DeletedAttendanceRef struct {
	UserID       string    `json:"userId"`
	ContextID    string    `json:"contextId"`
	Date         string    `json:"date"`
	AttendanceID uuid.UUID `json:"attendanceId"`
}

type DeleteResult struct {
	Status     string               `json:"status"` // deleted
	Attendance DeletedAttendanceRef `json:"attendance"`
}

type DeleteError struct {
	Record DeleteRecordRef `json:"record"`
	Index  int             `json:"index"`
	Error  string          `json:"error"`
}

type DeleteOutcome struct {
	Results []DeleteResult
	Errors  []DeleteError
	Count   int64
}

func (o *DeleteOutcome) AllFailed() bool   { return len(o.Results) == 0 && len(o.Errors) > 0 }
func (o *DeleteOutcome) FullSuccess() bool { return len(o.Errors) == 0 }

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// deleteKey is the batch-correlation key. A struct key, so no delimiter can
// collide with field content.
type deleteKey struct {
	userID    string
	contextID string
	date      string // normalized yyyy-mm-dd
}

// flattened delete target, one per (record, contextId)
type deleteTarget struct {
	userID    string
	contextID string
	date      string
	index     int // position of the parent record, for error reporting

	userUUID uuid.UUID
	ctxUUID  uuid.UUID
	dateTime time.Time
	resolved bool // both uuids and the date parsed
}

func validateDeleteRecord(userID, contextID, date string, index int) []string {
	var errs []string

	if strings.TrimSpace(userID) == "" {
		errs = append(errs, fmt.Sprintf("attendanceRecords[%d].userId: userId is required and must be a non-empty string", index))
	}
	if strings.TrimSpace(contextID) == "" {
		errs = append(errs, fmt.Sprintf("attendanceRecords[%d].contextId: contextId is required and must be a non-empty string", index))
	}

	switch {
	case strings.TrimSpace(date) == "":
		errs = append(errs, fmt.Sprintf("attendanceRecords[%d].date: date is required and must be a string", index))
	case !dateRe.MatchString(date):
		errs = append(errs, fmt.Sprintf("attendanceRecords[%d].date: Please provide a valid date in the format yyyy-mm-dd", index))
	default:
		// round-trip through the calendar, rejects 2024-02-30 and friends
		if t, err := time.Parse(dto.DateLayout, date); err != nil || t.Format(dto.DateLayout) != date {
			errs = append(errs, fmt.Sprintf("attendanceRecords[%d].date: The date provided is not a valid calendar date", index))
		}
	}

	return errs
}

func (s *AttendanceService) BulkDelete(
	ctx context.Context,
	tenantID uuid.UUID,
	in *dto.BulkDeleteAttendanceRequest,
) (*DeleteOutcome, error) {
	if len(in.AttendanceRecords) == 0 {
		return nil, badRequest("At least one record must be provided for deletion")
	}

	out := &DeleteOutcome{}

	// ── validate + flatten ──
	var targets []deleteTarget
	for index, record := range in.AttendanceRecords {
		hasSingle := strings.TrimSpace(record.ContextID) != ""
		hasMany := len(record.ContextIDs) > 0

		if !hasSingle && !hasMany {
			out.Errors = append(out.Errors, DeleteError{
				Record: DeleteRecordRef{UserID: record.UserID, ContextID: "missing", Date: record.Date},
				Index:  index,
				Error:  "Either contextId or contextIds must be provided",
			})
			continue
		}
		if hasSingle && hasMany {
			out.Errors = append(out.Errors, DeleteError{
				Record: DeleteRecordRef{UserID: record.UserID, ContextID: "ambiguous", Date: record.Date},
				Index:  index,
				Error:  "Cannot provide both contextId and contextIds. Use one or the other.",
			})
			continue
		}

		contextIDs := record.ContextIDs
		if hasSingle {
			contextIDs = []string{record.ContextID}
		}

		for _, contextID := range contextIDs {
			if verrs := validateDeleteRecord(record.UserID, contextID, record.Date, index); len(verrs) > 0 {
				out.Errors = append(out.Errors, DeleteError{
					Record: DeleteRecordRef{UserID: record.UserID, ContextID: contextID, Date: record.Date},
					Index:  index,
					Error:  strings.Join(verrs, "; "),
				})
				continue
			}
			t := deleteTarget{userID: record.UserID, contextID: contextID, date: record.Date, index: index}
			if uid, err := uuid.Parse(record.UserID); err == nil {
				if cid, err := uuid.Parse(contextID); err == nil {
					if d, err := time.Parse(dto.DateLayout, record.Date); err == nil {
						t.userUUID, t.ctxUUID, t.dateTime, t.resolved = uid, cid, d, true
					}
				}
			}
			targets = append(targets, t)
		}
	}

	if len(targets) == 0 {
		return nil, badRequest("No valid records provided for deletion")
	}

	// ── one superset find over the distinct IN sets ──
	// Cross terms that were never requested can match here; the keyed lookup
	// below filters them out.
	userIDs := distinctUUIDs(targets, func(t deleteTarget) uuid.UUID { return t.userUUID })
	contextIDs := distinctUUIDs(targets, func(t deleteTarget) uuid.UUID { return t.ctxUUID })
	dates := distinctDates(targets)

	var records []model.AttendanceModel
	if len(userIDs) > 0 && len(contextIDs) > 0 && len(dates) > 0 {
		var err error
		records, err = s.repo.Find(ctx, repo.Query{Conds: []repo.Cond{
			repo.Eq("tenant_id", tenantID),
			repo.In("user_id", userIDs),
			repo.In("context_id", contextIDs),
			repo.In("attendance_date", dates),
		}})
		if err != nil {
			return nil, err
		}
	}

	lookup := map[deleteKey]int{} // → index into records
	for i := range records {
		rec := &records[i]
		lookup[deleteKey{
			userID:    rec.UserID.String(),
			contextID: rec.ContextID.String(),
			date:      rec.AttendanceDate.Format(dto.DateLayout),
		}] = i
	}

	// ── match targets against the fetch ──
	type resolvedDelete struct {
		ref   DeletedAttendanceRef
		index int
	}
	var toDelete []resolvedDelete
	var attendanceIDs []uuid.UUID

	for _, t := range targets {
		idx, ok := -1, false
		if t.resolved {
			idx, ok = lookupKey(lookup, deleteKey{userID: t.userID, contextID: t.contextID, date: t.date})
		}
		if !ok {
			out.Errors = append(out.Errors, DeleteError{
				Record: DeleteRecordRef{UserID: t.userID, ContextID: t.contextID, Date: t.date},
				Index:  t.index,
				Error:  "Attendance record not found",
			})
			continue
		}
		rec := &records[idx]
		toDelete = append(toDelete, resolvedDelete{
			ref: DeletedAttendanceRef{
				UserID:       t.userID,
				ContextID:    t.contextID,
				Date:         t.date,
				AttendanceID: rec.AttendanceID,
			},
			index: t.index,
		})
		attendanceIDs = append(attendanceIDs, rec.AttendanceID)
	}

	// ── one batched delete ──
	if len(toDelete) > 0 {
		affected, err := s.repo.Delete(ctx, repo.In("attendance_id", attendanceIDs))
		if err != nil {
			// no partial delete credit, every resolved record goes to errors
			for _, rd := range toDelete {
				out.Errors = append(out.Errors, DeleteError{
					Record: DeleteRecordRef{UserID: rd.ref.UserID, ContextID: rd.ref.ContextID, Date: rd.ref.Date},
					Index:  rd.index,
					Error:  err.Error(),
				})
			}
			return out, nil
		}
		if affected > 0 {
			out.Count = affected
			for _, rd := range toDelete {
				out.Results = append(out.Results, DeleteResult{Status: "deleted", Attendance: rd.ref})
				s.publishDeleted(rd.ref.AttendanceID)
			}
		}
	}

	return out, nil
}

func lookupKey(m map[deleteKey]int, k deleteKey) (int, bool) {
	idx, ok := m[k]
	return idx, ok
}

func distinctUUIDs(targets []deleteTarget, pick func(deleteTarget) uuid.UUID) []uuid.UUID {
	seen := map[uuid.UUID]struct{}{}
	var out []uuid.UUID
	for _, t := range targets {
		if !t.resolved {
			continue
		}
		id := pick(t)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func distinctDates(targets []deleteTarget) []time.Time {
	seen := map[string]struct{}{}
	var out []time.Time
	for _, t := range targets {
		if !t.resolved {
			continue
		}
		if _, ok := seen[t.date]; ok {
			continue
		}
		seen[t.date] = struct{}{}
		out = append(out, t.dateTime)
	}
	return out
}
