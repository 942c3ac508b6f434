// file: internals/features/exams/exam_sessions/route/exam_session_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"examku_backend/internals/features/exams/exam_sessions/controller"
	"examku_backend/internals/middlewares"
)

// ExamSessionAdminRoutes: builder + listing session per term (admin only).
func ExamSessionAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewExamSessionController(db)

	sessions := r.Group("/exam-terms/:termId/sessions")
	sessions.Post("/", middlewares.AllocationRateLimiter(), ctl.Build)
	sessions.Get("/", ctl.List)
	sessions.Get("/:sessionId", ctl.GetByID)
	sessions.Get("/:sessionId/stats", ctl.Stats)
	sessions.Delete("/:sessionId", ctl.Delete)
}
