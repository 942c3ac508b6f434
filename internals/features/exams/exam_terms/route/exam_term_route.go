// file: internals/features/exams/exam_terms/route/exam_term_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"examku_backend/internals/features/exams/exam_terms/controller"
	"examku_backend/internals/middlewares"
)

// ExamTermAdminRoutes: CRUD + status + stats term (admin only).
func ExamTermAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewExamTermController(db)

	terms := r.Group("/exam-terms")
	terms.Post("/", ctl.Create)
	terms.Get("/", ctl.List)
	terms.Get("/:id", ctl.GetByID)
	terms.Patch("/:id", ctl.Update)
	terms.Delete("/:id", ctl.Delete)

	terms.Patch("/:id/status", middlewares.AllocationRateLimiter(), ctl.ChangeStatus)
	terms.Get("/:id/stats", ctl.Stats)
}
