// internals/features/attendance/model/attendance_model.go
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceOnLeave AttendanceStatus = "on-leave"
)

type AttendanceContext string

const (
	ContextCohort AttendanceContext = "cohort"
	ContextEvent  AttendanceContext = "event"
)

type AttendanceScope string

const (
	ScopeSelf    AttendanceScope = "self"
	ScopeStudent AttendanceScope = "student"
)

type AttendanceModel struct {
	// PK
	AttendanceID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:attendance_id" json:"attendanceId"`

	// Identity key (no unique constraint, read-before-write owns it)
	TenantID       uuid.UUID `gorm:"type:uuid;not null;column:tenant_id;index:idx_attendance_tenant" json:"tenantId"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;column:user_id;index:idx_attendance_user" json:"userId"`
	ContextID      uuid.UUID `gorm:"type:uuid;not null;column:context_id;index:idx_attendance_context" json:"contextId"`
	AttendanceDate time.Time `gorm:"type:date;not null;column:attendance_date;index:idx_attendance_date" json:"attendanceDate"`

	// Status & classification
	Attendance string `gorm:"type:varchar(16);not null;column:attendance" json:"attendance"`
	Context    string `gorm:"type:varchar(16);column:context" json:"context"`
	Scope      string `gorm:"type:varchar(16);column:scope" json:"scope"`

	// Detail (nullable)
	Remark    *string        `gorm:"type:text;column:remark" json:"remark,omitempty"`
	Latitude  *float64       `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude *float64       `gorm:"column:longitude" json:"longitude,omitempty"`
	Image     *string        `gorm:"type:text;column:image" json:"image,omitempty"`
	MetaData  datatypes.JSON `gorm:"type:jsonb;column:meta_data" json:"metaData,omitempty"`
	SyncTime  *string        `gorm:"type:varchar(64);column:sync_time" json:"syncTime,omitempty"`
	Session   *string        `gorm:"type:varchar(64);column:session" json:"session,omitempty"`

	// Audit
	CreatedBy *uuid.UUID `gorm:"type:uuid;column:created_by" json:"createdBy,omitempty"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid;column:updated_by" json:"updatedBy,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (AttendanceModel) TableName() string {
	return "attendance"
}

// IsPresent: compare status case-insensitively (stored value is lowercased at
// the write boundary, reads stay tolerant).
func (m *AttendanceModel) IsPresent() bool {
	return strings.EqualFold(m.Attendance, string(AttendancePresent))
}

func (m *AttendanceModel) IsEventContext() bool {
	return strings.EqualFold(m.Context, string(ContextEvent))
}

func (m *AttendanceModel) IsCohortContext() bool {
	return strings.EqualFold(m.Context, string(ContextCohort))
}

// AttendanceColumns: JSON column names accepted as search filter / facet /
// sort keys. Mirrors the entity metadata lookup on the search path.
var AttendanceColumns = map[string]struct{}{
	"attendanceId":   {},
	"tenantId":       {},
	"userId":         {},
	"contextId":      {},
	"attendanceDate": {},
	"attendance":     {},
	"context":        {},
	"scope":          {},
	"remark":         {},
	"latitude":       {},
	"longitude":      {},
	"image":          {},
	"metaData":       {},
	"syncTime":       {},
	"session":        {},
	"createdBy":      {},
	"updatedBy":      {},
	"createdAt":      {},
	"updatedAt":      {},
}

// FieldValue returns the string form of a column for in-memory grouping.
// Unknown keys return "" (callers validate against AttendanceColumns first).
func (m *AttendanceModel) FieldValue(key string) string {
	switch key {
	case "attendanceId":
		return m.AttendanceID.String()
	case "tenantId":
		return m.TenantID.String()
	case "userId":
		return m.UserID.String()
	case "contextId":
		return m.ContextID.String()
	case "attendanceDate":
		return m.AttendanceDate.Format("2006-01-02")
	case "attendance":
		return m.Attendance
	case "context":
		return m.Context
	case "scope":
		return m.Scope
	case "remark":
		return strDeref(m.Remark)
	case "image":
		return strDeref(m.Image)
	case "syncTime":
		return strDeref(m.SyncTime)
	case "session":
		return strDeref(m.Session)
	case "createdBy":
		return uuidDeref(m.CreatedBy)
	case "updatedBy":
		return uuidDeref(m.UpdatedBy)
	default:
		return ""
	}
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func uuidDeref(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

// ColumnName maps a JSON key to its DB column (used when a filter/sort key
// has to reach the store).
var ColumnName = map[string]string{
	"attendanceId":   "attendance_id",
	"tenantId":       "tenant_id",
	"userId":         "user_id",
	"contextId":      "context_id",
	"attendanceDate": "attendance_date",
	"attendance":     "attendance",
	"context":        "context",
	"scope":          "scope",
	"remark":         "remark",
	"latitude":       "latitude",
	"longitude":      "longitude",
	"image":          "image",
	"metaData":       "meta_data",
	"syncTime":       "sync_time",
	"session":        "session",
	"createdBy":      "created_by",
	"updatedBy":      "updated_by",
	"createdAt":      "created_at",
	"updatedAt":      "updated_at",
}
