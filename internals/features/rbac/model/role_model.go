// internals/features/rbac/model/role_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type RoleModel struct {
	RoleID   uuid.UUID `gorm:"column:role_id;type:uuid;default:gen_random_uuid();primaryKey" json:"roleId"`
	RoleName string    `gorm:"column:role_name;type:varchar(50);not null" json:"roleName"`
	Code     *string   `gorm:"column:code;type:varchar(50)" json:"code,omitempty"`
	Title    *string   `gorm:"column:title;type:varchar(100)" json:"title,omitempty"`
	TenantID uuid.UUID `gorm:"column:tenant_id;type:uuid;not null" json:"tenantId"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (RoleModel) TableName() string {
	return "roles"
}

// RoleColumns: JSON keys accepted as search filters → DB columns.
var RoleColumns = map[string]string{
	"roleId":   "role_id",
	"roleName": "role_name",
	"code":     "code",
	"title":    "title",
	"tenantId": "tenant_id",
}
