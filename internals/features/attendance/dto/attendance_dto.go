// internals/features/attendance/dto/attendance_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	model "presensiku_backend/internals/features/attendance/model"
)

const DateLayout = "2006-01-02"

/* =========================================================
   Single upsert
   ========================================================= */

type AttendanceRequest struct {
	UserID         uuid.UUID `json:"userId" validate:"required"`
	ContextID      uuid.UUID `json:"contextId" validate:"required"`
	AttendanceDate string    `json:"attendanceDate" validate:"required,datetime=2006-01-02"`

	// case-insensitive on write, stored lowercase
	Attendance string  `json:"attendance" validate:"required,oneof=present absent on-leave Present Absent On-Leave PRESENT ABSENT ON-LEAVE"`
	Context    *string `json:"context" validate:"omitempty"`
	Scope      *string `json:"scope" validate:"omitempty"`

	Remark    *string        `json:"remark"`
	Latitude  *float64       `json:"latitude"`
	Longitude *float64       `json:"longitude"`
	Image     *string        `json:"image"`
	MetaData  datatypes.JSON `json:"metaData"`
	SyncTime  *string        `json:"syncTime"`
	Session   *string        `json:"session"`
}

func (in *AttendanceRequest) ParsedDate() (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(in.AttendanceDate))
}

// ToModel builds a fresh fact (create path). Status lowercased at the
// boundary, scope defaulting happens in the engine.
func (in *AttendanceRequest) ToModel(tenantID uuid.UUID, date time.Time) *model.AttendanceModel {
	m := &model.AttendanceModel{
		TenantID:       tenantID,
		UserID:         in.UserID,
		ContextID:      in.ContextID,
		AttendanceDate: date,
		Attendance:     strings.ToLower(strings.TrimSpace(in.Attendance)),
		Remark:         trimPtr(in.Remark),
		Latitude:       in.Latitude,
		Longitude:      in.Longitude,
		Image:          trimPtr(in.Image),
		MetaData:       in.MetaData,
		SyncTime:       trimPtr(in.SyncTime),
		Session:        trimPtr(in.Session),
	}
	if in.Context != nil {
		m.Context = strings.ToLower(strings.TrimSpace(*in.Context))
	}
	if in.Scope != nil {
		m.Scope = strings.ToLower(strings.TrimSpace(*in.Scope))
	}
	return m
}

/* =========================================================
   Bulk upsert
   ========================================================= */

type UserAttendanceEntry struct {
	UserID     uuid.UUID `json:"userId" validate:"required"`
	Attendance string    `json:"attendance" validate:"required"`

	Remark    *string        `json:"remark"`
	Latitude  *float64       `json:"latitude"`
	Longitude *float64       `json:"longitude"`
	Image     *string        `json:"image"`
	MetaData  datatypes.JSON `json:"metaData"`
	SyncTime  *string        `json:"syncTime"`
	Session   *string        `json:"session"`
}

type BulkAttendanceRequest struct {
	AttendanceDate string                `json:"attendanceDate" validate:"required,datetime=2006-01-02"`
	ContextID      uuid.UUID             `json:"contextId" validate:"required"`
	Context        *string               `json:"context" validate:"omitempty"`
	Scope          *string               `json:"scope" validate:"omitempty"`
	UserAttendance []UserAttendanceEntry `json:"userAttendance" validate:"required,min=1,dive"`
}

func (in *BulkAttendanceRequest) ParsedDate() (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(in.AttendanceDate))
}

// EntryRequest expands one batch entry into the single-upsert shape the
// engine consumes (shared batch fields + per-user fields).
func (in *BulkAttendanceRequest) EntryRequest(e *UserAttendanceEntry) *AttendanceRequest {
	return &AttendanceRequest{
		UserID:         e.UserID,
		ContextID:      in.ContextID,
		AttendanceDate: in.AttendanceDate,
		Attendance:     e.Attendance,
		Context:        in.Context,
		Scope:          in.Scope,
		Remark:         e.Remark,
		Latitude:       e.Latitude,
		Longitude:      e.Longitude,
		Image:          e.Image,
		MetaData:       e.MetaData,
		SyncTime:       e.SyncTime,
		Session:        e.Session,
	}
}

// IsEventContext: batch targets "event" context (case-insensitive).
func (in *BulkAttendanceRequest) IsEventContext() bool {
	return in.Context != nil && strings.EqualFold(strings.TrimSpace(*in.Context), string(model.ContextEvent))
}

/* =========================================================
   Bulk delete
   ========================================================= */

type DeleteAttendanceRecord struct {
	UserID     string   `json:"userId"`
	ContextID  string   `json:"contextId,omitempty"`
	ContextIDs []string `json:"contextIds,omitempty"`
	Date       string   `json:"date"`
}

type BulkDeleteAttendanceRequest struct {
	AttendanceRecords []DeleteAttendanceRecord `json:"attendanceRecords"`
}

/* =========================================================
   Search
   ========================================================= */

type AttendanceSearchRequest struct {
	Limit   int            `json:"limit"`
	Page    int            `json:"page"`
	Filters map[string]any `json:"filters"`
	Facets  []string       `json:"facets"`
	// [field, "asc"|"desc"]
	Sort []string `json:"sort" validate:"omitempty,len=2"`
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
