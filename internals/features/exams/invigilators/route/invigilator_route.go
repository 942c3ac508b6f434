// file: internals/features/exams/invigilators/route/invigilator_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"examku_backend/internals/features/exams/invigilators/controller"
	"examku_backend/internals/middlewares"
)

// InvigilatorAdminRoutes: penugasan pengawas (admin only).
func InvigilatorAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewInvigilatorController(db)

	r.Post("/exam-terms/:termId/sessions/:sessionId/invigilators", middlewares.AllocationRateLimiter(), ctl.StaffSession)
	r.Post("/exam-terms/:termId/invigilators", middlewares.AllocationRateLimiter(), ctl.StaffTerm)
	r.Delete("/exam-terms/:termId/invigilators", ctl.RemoveAll)
	r.Post("/exam-terms/:termId/rooms/:roomId/invigilators", ctl.AssignManual)
	r.Get("/exam-terms/:termId/teachers/:teacherId/slots", ctl.TeacherRoster)
}
