// internals/features/attendance/route/attendance_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"presensiku_backend/internals/events"
	attendanceCtrl "presensiku_backend/internals/features/attendance/controller"
)

func AttendanceRoutes(r fiber.Router, db *gorm.DB, pub events.Publisher) {
	h := attendanceCtrl.NewAttendanceController(db, pub)

	g := r.Group("/attendance")
	g.Post("/", h.CreateOrUpdate)    // single upsert (200 update / 201 create)
	g.Post("/bulk", h.Bulk)          // bulk upsert
	g.Post("/bulk/v2", h.BulkByDate) // date-aware bulk (past dates trigger cohort sync)
	g.Post("/search", h.Search)      // filters + facets
	g.Delete("/bulk", h.BulkDelete)  // bulk delete
}
