// file: internals/route/index.go
package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"presensiku_backend/internals/events"
	attendanceRoute "presensiku_backend/internals/features/attendance/route"
	roleRoute "presensiku_backend/internals/features/rbac/route"
	middlewares "presensiku_backend/internals/middlewares"
	authMiddleware "presensiku_backend/internals/middlewares/auth"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, pub events.Publisher) {
	// ===================== API V1 (JWT) =====================
	log.Println("[INFO] Setting up /api/v1 group...")
	v1 := app.Group("/api/v1", authMiddleware.AuthMiddleware())

	// bulk endpoints share the group auth but get the tighter limiter
	v1.Use("/attendance/bulk", middlewares.BulkRateLimiter())

	log.Println("[INFO] Mounting Attendance routes...")
	attendanceRoute.AttendanceRoutes(v1, db, pub)

	log.Println("[INFO] Mounting Role routes...")
	roleRoute.RoleRoutes(v1, db)
}
