// file: internals/features/exams/stable_groups/route/stable_group_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"examku_backend/internals/features/exams/stable_groups/controller"
	"examku_backend/internals/middlewares"
)

// StableGroupAdminRoutes: pembentukan & mutasi kelompok tetap (admin only).
func StableGroupAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewStableGroupController(db)

	r.Post("/exam-terms/:termId/grades/:grade/groups", middlewares.AllocationRateLimiter(), ctl.Assign)
	r.Delete("/exam-terms/:termId/grades/:grade/groups", ctl.Reset)

	groups := r.Group("/exam-terms/:termId/groups")
	groups.Get("/", ctl.List)
	groups.Post("/move", ctl.Move)
	groups.Get("/:groupId/members", ctl.Members)
}
