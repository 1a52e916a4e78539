// internals/features/attendance/controller/attendance_controller.go
package controller

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"presensiku_backend/internals/events"
	dto "presensiku_backend/internals/features/attendance/dto"
	repository "presensiku_backend/internals/features/attendance/repository"
	service "presensiku_backend/internals/features/attendance/service"
	helper "presensiku_backend/internals/helpers"
)

type AttendanceController struct {
	DB        *gorm.DB
	Service   *service.AttendanceService
	Validator *validator.Validate
}

func NewAttendanceController(db *gorm.DB, pub events.Publisher) *AttendanceController {
	return &AttendanceController{
		DB:        db,
		Service:   service.NewAttendanceService(repository.NewGormAttendanceRepository(db), pub),
		Validator: validator.New(),
	}
}

// jsonServiceError maps typed service errors to the envelope; anything else
// is a 500 with the underlying message.
func jsonServiceError(c *fiber.Ctx, err error) error {
	var se *service.ServiceError
	if errors.As(err, &se) {
		return helper.JsonError(c, se.Status, se.Message)
	}
	return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
}

func (ctl *AttendanceController) parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Empty payload")
	}
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	return nil
}

/* =========================================================
   POST /attendance
   Single upsert: 200 on update, 201 on create.
   ========================================================= */

func (ctl *AttendanceController) CreateOrUpdate(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	loginUserID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var req dto.AttendanceRequest
	if err := ctl.parseBody(c, &req); err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	res, err := ctl.Service.UpsertAttendance(c.UserContext(), tenantID, &loginUserID, &req)
	if err != nil {
		return jsonServiceError(c, err)
	}
	if res.Created {
		return helper.JsonCreated(c, "Attendance created successfully", res.Fact)
	}
	return helper.JsonOK(c, "Attendance updated successfully", res.Fact)
}

/* =========================================================
   POST /attendance/bulk
   POST /attendance/bulk/v2 (date-aware)
   ========================================================= */

func (ctl *AttendanceController) Bulk(c *fiber.Ctx) error {
	return ctl.bulk(c, false)
}

func (ctl *AttendanceController) BulkByDate(c *fiber.Ctx) error {
	return ctl.bulk(c, true)
}

func (ctl *AttendanceController) bulk(c *fiber.Ctx, dateAware bool) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	loginUserID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var req dto.BulkAttendanceRequest
	if err := ctl.parseBody(c, &req); err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var out *service.BulkOutcome
	if dateAware {
		out, err = ctl.Service.BulkUpsertByDate(c.UserContext(), tenantID, &loginUserID, &req)
	} else {
		out, err = ctl.Service.BulkUpsert(c.UserContext(), tenantID, &loginUserID, &req)
	}
	if err != nil {
		return jsonServiceError(c, err)
	}

	// zero successes + errors → 400 carrying the first error;
	// mixed → 201 partial; clean → 201 full success
	if out.AllFailed() {
		return helper.JsonError(c, fiber.StatusBadRequest,
			fmt.Sprintf("Attendance cannot be created or updated. Error: %s", out.Errors[0].Error))
	}
	if !out.FullSuccess() {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success":        true,
			"message":        "Bulk Attendance Processed with some errors",
			"count":          len(out.Results),
			"errors":         out.Errors,
			"successresults": out.Results,
		})
	}
	return helper.JsonWithTotal(c, fiber.StatusCreated,
		"Bulk Attendance Updated successfully", out.Results, int64(len(out.Results)))
}

/* =========================================================
   DELETE /attendance/bulk
   ========================================================= */

func (ctl *AttendanceController) BulkDelete(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var req dto.BulkDeleteAttendanceRequest
	if err := ctl.parseBody(c, &req); err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	out, err := ctl.Service.BulkDelete(c.UserContext(), tenantID, &req)
	if err != nil {
		return jsonServiceError(c, err)
	}

	if out.AllFailed() {
		return helper.JsonError(c, fiber.StatusBadRequest,
			fmt.Sprintf("Attendance records cannot be deleted. Error: %s", out.Errors[0].Error))
	}
	if !out.FullSuccess() {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success":             true,
			"message":             "Bulk Attendance Delete processed with some errors",
			"totalCount":          out.Count,
			"errors":              out.Errors,
			"successfulDeletions": out.Results,
		})
	}
	return helper.JsonWithTotal(c, fiber.StatusOK,
		"Bulk Attendance Deleted successfully", out.Results, out.Count)
}

/* =========================================================
   POST /attendance/search
   Filters + optional facets + optional sort pair.
   ========================================================= */

func (ctl *AttendanceController) Search(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var req dto.AttendanceSearchRequest
	if err := ctl.parseBody(c, &req); err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	out, err := ctl.Service.SearchAttendance(c.UserContext(), tenantID, &req)
	if err != nil {
		return jsonServiceError(c, err)
	}

	if out.Facets != nil {
		return helper.JsonOK(c, "Attendance List Fetched Successfully", fiber.Map{
			"result": out.Facets,
		})
	}
	return helper.JsonWithTotal(c, fiber.StatusOK, "Attendance List Fetched Successfully",
		fiber.Map{"attendanceList": out.List}, int64(out.TotalCount))
}
