// internals/features/rbac/controller/role_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "presensiku_backend/internals/features/rbac/dto"
	model "presensiku_backend/internals/features/rbac/model"
	helper "presensiku_backend/internals/helpers"
)

type RoleController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewRoleController(db *gorm.DB) *RoleController {
	return &RoleController{DB: db, Validator: validator.New()}
}

/* =========================================================
   POST /roles
   ========================================================= */

func (ctl *RoleController) Create(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var req dto.RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	name := req.NormalizedName()

	var existing model.RoleModel
	err = ctl.DB.WithContext(c.UserContext()).
		Where("tenant_id = ? AND role_name = ?", tenantID, name).
		First(&existing).Error
	if err == nil {
		// name already taken: report the existing row, no duplicate insert
		return helper.JsonOK(c, "Role already exists", existing)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	role := model.RoleModel{
		RoleName: name,
		Code:     req.Code,
		Title:    req.Title,
		TenantID: tenantID,
	}
	if err := ctl.DB.WithContext(c.UserContext()).Create(&role).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "Role created successfully", role)
}

/* =========================================================
   GET /roles/:id
   ========================================================= */

func (ctl *RoleController) GetByID(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	roleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Role ID is not valid")
	}

	var role model.RoleModel
	err = ctl.DB.WithContext(c.UserContext()).
		Where("tenant_id = ? AND role_id = ?", tenantID, roleID).
		First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "Role not found")
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonWithTotal(c, fiber.StatusOK, "Role fetched successfully", role, 1)
}

/* =========================================================
   PUT /roles/:id
   ========================================================= */

func (ctl *RoleController) Update(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	roleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Role ID is not valid")
	}

	var req dto.RoleUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	updates := map[string]any{}
	if req.RoleName != nil {
		updates["role_name"] = strings.ToLower(strings.TrimSpace(*req.RoleName))
	}
	if req.Code != nil {
		updates["code"] = *req.Code
	}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "No fields to update")
	}

	tx := ctl.DB.WithContext(c.UserContext()).
		Model(&model.RoleModel{}).
		Where("tenant_id = ? AND role_id = ?", tenantID, roleID).
		Updates(updates)
	if tx.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, tx.Error.Error())
	}
	if tx.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Role not found")
	}
	return helper.JsonOK(c, "Role updated successfully", fiber.Map{"rowCount": tx.RowsAffected})
}

/* =========================================================
   DELETE /roles/:id
   ========================================================= */

func (ctl *RoleController) Delete(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	roleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Role ID is not valid")
	}

	tx := ctl.DB.WithContext(c.UserContext()).
		Where("tenant_id = ? AND role_id = ?", tenantID, roleID).
		Delete(&model.RoleModel{})
	if tx.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, tx.Error.Error())
	}
	if tx.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Role not found")
	}
	return helper.JsonDeleted(c, "Role deleted successfully", fiber.Map{"rowCount": tx.RowsAffected})
}

/* =========================================================
   POST /roles/search
   ========================================================= */

func (ctl *RoleController) Search(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var req dto.RoleSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}

	q := ctl.DB.WithContext(c.UserContext()).
		Model(&model.RoleModel{}).
		Where("tenant_id = ?", tenantID)
	for key, value := range req.Filters {
		col, ok := model.RoleColumns[key]
		if !ok {
			return helper.JsonError(c, fiber.StatusBadRequest,
				"Please Enter Valid Key to Search. Invalid Key entered Is "+key)
		}
		if col == "role_name" {
			q = q.Where("role_name = ?", strings.ToLower(strings.TrimSpace(value)))
			continue
		}
		q = q.Where(col+" = ?", value)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var roles []model.RoleModel
	if err := q.Order("created_at DESC").
		Limit(limit).Offset(limit * (page - 1)).
		Find(&roles).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonList(c, "Roles fetched successfully", roles,
		helper.BuildPaginationFromPage(total, page, limit))
}
