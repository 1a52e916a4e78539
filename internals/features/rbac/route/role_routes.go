// internals/features/rbac/route/role_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	roleCtrl "presensiku_backend/internals/features/rbac/controller"
)

func RoleRoutes(r fiber.Router, db *gorm.DB) {
	h := roleCtrl.NewRoleController(db)

	g := r.Group("/roles")
	g.Post("/", h.Create)
	g.Post("/search", h.Search)
	g.Get("/:id", h.GetByID)
	g.Put("/:id", h.Update)
	g.Delete("/:id", h.Delete)
}
