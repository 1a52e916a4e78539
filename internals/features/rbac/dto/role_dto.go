// internals/features/rbac/dto/role_dto.go
package dto

import "strings"

type RoleRequest struct {
	RoleName string  `json:"roleName" validate:"required,min=2,max=50"`
	Code     *string `json:"code,omitempty" validate:"omitempty,max=50"`
	Title    *string `json:"title,omitempty" validate:"omitempty,max=100"`
}

// NormalizedName: role names are stored lowercase so the existing-name
// check stays case-insensitive.
func (r *RoleRequest) NormalizedName() string {
	return strings.ToLower(strings.TrimSpace(r.RoleName))
}

type RoleUpdateRequest struct {
	RoleName *string `json:"roleName,omitempty" validate:"omitempty,min=2,max=50"`
	Code     *string `json:"code,omitempty" validate:"omitempty,max=50"`
	Title    *string `json:"title,omitempty" validate:"omitempty,max=100"`
}

type RoleSearchRequest struct {
	Limit   int               `json:"limit" validate:"omitempty,min=0,max=200"`
	Page    int               `json:"page" validate:"omitempty,min=0"`
	Filters map[string]string `json:"filters,omitempty"`
}
