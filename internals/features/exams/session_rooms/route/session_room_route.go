// file: internals/features/exams/session_rooms/route/session_room_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"examku_backend/internals/features/exams/session_rooms/controller"
	"examku_backend/internals/middlewares"
)

// SessionRoomAdminRoutes: mapping ruang + penomoran kursi (admin only).
func SessionRoomAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewSessionRoomController(db)

	// mapping per session & term-wide
	r.Post("/exam-terms/:termId/sessions/:sessionId/rooms", middlewares.AllocationRateLimiter(), ctl.MapSession)
	r.Get("/exam-terms/:termId/sessions/:sessionId/rooms", ctl.ListRooms)
	r.Delete("/exam-terms/:termId/sessions/:sessionId/rooms", ctl.ResetSession)
	r.Post("/exam-terms/:termId/rooms", middlewares.AllocationRateLimiter(), ctl.MapTerm)

	// kursi
	r.Post("/exam-terms/:termId/rooms/:roomId/seats", ctl.AssignSeats)
	r.Get("/exam-terms/:termId/rooms/:roomId/seats", ctl.ListSeats)
	r.Post("/exam-terms/:termId/sessions/:sessionId/seats", middlewares.AllocationRateLimiter(), ctl.AssignSessionSeats)
}
