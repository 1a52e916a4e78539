// internals/features/attendance/service/attendance_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"presensiku_backend/internals/events"
	dto "presensiku_backend/internals/features/attendance/dto"
	model "presensiku_backend/internals/features/attendance/model"
	repo "presensiku_backend/internals/features/attendance/repository"
)

/* =========================================================
   Service errors
   Controllers map these straight onto the JSON envelope.
   ========================================================= */

type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func badRequest(format string, args ...any) *ServiceError {
	return &ServiceError{Status: fiber.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// ErrInvalidFacetSortKey: the facet sort field is not an observed status and
// not the present/absent literal.
var ErrInvalidFacetSortKey = &ServiceError{
	Status:  fiber.StatusBadRequest,
	Message: "Invalid Sort Key for facets it has to be present_percentage or absent_percentage",
}

/* =========================================================
   Service
   ========================================================= */

type AttendanceService struct {
	repo repo.AttendanceRepository
	pub  events.Publisher

	// injectable clock, the date-aware bulk path compares against "today"
	now func() time.Time
}

func NewAttendanceService(r repo.AttendanceRepository, p events.Publisher) *AttendanceService {
	return &AttendanceService{repo: r, pub: p, now: time.Now}
}

/* =========================================================
   Upsert engine
   One logical fact per (tenant, user, context, date). The
   store has no unique constraint; read-before-write owns the
   invariant and a concurrent-insert race window is accepted.
   ========================================================= */

type UpsertResult struct {
	Fact    *model.AttendanceModel
	Created bool
}

func (s *AttendanceService) UpsertAttendance(
	ctx context.Context,
	tenantID uuid.UUID,
	loginUserID *uuid.UUID,
	in *dto.AttendanceRequest,
) (*UpsertResult, error) {
	date, err := in.ParsedDate()
	if err != nil {
		return nil, badRequest("attendanceDate invalid, expected yyyy-mm-dd")
	}

	// bulk entries skip the DTO validator, so the engine owns this check
	switch strings.ToLower(strings.TrimSpace(in.Attendance)) {
	case string(model.AttendancePresent), string(model.AttendanceAbsent), string(model.AttendanceOnLeave):
	default:
		return nil, badRequest("attendance must be one of present, absent, on-leave")
	}

	existing, err := s.repo.FindOne(ctx,
		repo.Eq("tenant_id", tenantID),
		repo.Eq("user_id", in.UserID),
		repo.Eq("context_id", in.ContextID),
		repo.Eq("attendance_date", date),
	)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		mergeCandidate(existing, in, loginUserID)
		saved, err := s.repo.Save(ctx, existing)
		if err != nil {
			return nil, err
		}
		s.publishFact(events.EventUpdated, saved)
		return &UpsertResult{Fact: saved, Created: false}, nil
	}

	m := in.ToModel(tenantID, date)
	if strings.TrimSpace(m.Scope) == "" {
		m.Scope = string(model.ScopeStudent)
	}
	m.CreatedBy = loginUserID
	m.UpdatedBy = loginUserID
	saved, err := s.repo.Save(ctx, m)
	if err != nil {
		return nil, err
	}
	s.publishFact(events.EventCreated, saved)
	return &UpsertResult{Fact: saved, Created: true}, nil
}

// mergeCandidate lays the candidate over the stored fact: provided fields
// override, absent fields keep their stored value.
func mergeCandidate(m *model.AttendanceModel, in *dto.AttendanceRequest, loginUserID *uuid.UUID) {
	m.Attendance = strings.ToLower(strings.TrimSpace(in.Attendance))
	if in.Context != nil {
		m.Context = strings.ToLower(strings.TrimSpace(*in.Context))
	}
	if in.Scope != nil {
		m.Scope = strings.ToLower(strings.TrimSpace(*in.Scope))
	}
	if in.Remark != nil {
		m.Remark = in.Remark
	}
	if in.Latitude != nil {
		m.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		m.Longitude = in.Longitude
	}
	if in.Image != nil {
		m.Image = in.Image
	}
	if len(in.MetaData) > 0 {
		m.MetaData = in.MetaData
	}
	if in.SyncTime != nil {
		m.SyncTime = in.SyncTime
	}
	if in.Session != nil {
		m.Session = in.Session
	}
	m.UpdatedBy = loginUserID
}

// publishFact hands the committed fact to the sink. Publish is fire-and-
// forget: the queue never blocks and its failures never reach the caller.
func (s *AttendanceService) publishFact(eventType string, fact *model.AttendanceModel) {
	s.pub.PublishAttendanceEvent(eventType, fact, fact.AttendanceID.String())
}

type deletedEventPayload struct {
	AttendanceID uuid.UUID `json:"attendanceId"`
	DeletedAt    time.Time `json:"deletedAt"`
}

func (s *AttendanceService) publishDeleted(attendanceID uuid.UUID) {
	s.pub.PublishAttendanceEvent(events.EventDeleted, deletedEventPayload{
		AttendanceID: attendanceID,
		DeletedAt:    s.now(),
	}, attendanceID.String())
}
