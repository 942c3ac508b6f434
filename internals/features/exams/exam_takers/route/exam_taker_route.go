// file: internals/features/exams/exam_takers/route/exam_taker_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"examku_backend/internals/features/exams/exam_takers/controller"
	"examku_backend/internals/middlewares"
)

// ExamTakerAdminRoutes: registrasi & pengelolaan roster (admin only).
func ExamTakerAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewExamTakerController(db)

	takers := r.Group("/exam-terms/:termId/takers")
	takers.Post("/", middlewares.AllocationRateLimiter(), ctl.Register)
	takers.Get("/", ctl.List)
	takers.Delete("/:takerId", ctl.Remove)
}

// ExamTakerUserRoutes: kartu ujian / jadwal peserta (login user).
func ExamTakerUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewExamTakerController(db)

	r.Get("/exam-terms/:termId/takers/:takerId/itinerary", ctl.Itinerary)
}
