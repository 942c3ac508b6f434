// file: internals/features/exams/session_rooms/controller/session_room_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"examku_backend/internals/features/exams/allocation"
	termModel "examku_backend/internals/features/exams/exam_terms/model"
	"examku_backend/internals/features/exams/session_rooms/model"
	"examku_backend/internals/features/exams/session_rooms/service"
	helper "examku_backend/internals/helpers"
)

type SessionRoomController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewSessionRoomController(db *gorm.DB) *SessionRoomController {
	return &SessionRoomController{
		DB:       db,
		Validate: validator.New(),
	}
}

/* =========================
   Room mapping
========================= */

// POST /api/a/exam-terms/:termId/sessions/:sessionId/rooms
func (ctl *SessionRoomController) MapSession(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}
	sessionID, ok := ctl.parseUUID(c, "sessionId", "ID session tidak valid")
	if !ok {
		return nil
	}

	var req service.MapSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	svc := service.NewRoomMapperService(ctl.DB)
	result, err := svc.MapSession(c.Context(), term, sessionID, req)
	if err != nil {
		return allocation.JsonError(c, err)
	}
	return helper.JsonCreated(c, "Mapping ruang berhasil", result)
}

// POST /api/a/exam-terms/:termId/rooms (term-wide, laporan per session)
func (ctl *SessionRoomController) MapTerm(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}

	var req service.MapSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	svc := service.NewRoomMapperService(ctl.DB)
	report, err := svc.MapTerm(c.Context(), term, req)
	if err != nil {
		return allocation.JsonError(c, err)
	}
	if report.AllFailed() {
		return helper.JsonErrorCode(c, fiber.StatusConflict, allocation.CodeConflict, "Semua session gagal dipetakan")
	}
	return helper.JsonOK(c, "Mapping term selesai", report)
}

// DELETE /api/a/exam-terms/:termId/sessions/:sessionId/rooms?cascade=true
func (ctl *SessionRoomController) ResetSession(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}
	sessionID, ok := ctl.parseUUID(c, "sessionId", "ID session tidak valid")
	if !ok {
		return nil
	}

	svc := service.NewRoomMapperService(ctl.DB)
	if err := svc.ResetSession(c.Context(), term, sessionID, c.Query("cascade") == "true"); err != nil {
		return allocation.JsonError(c, err)
	}
	return helper.JsonDeleted(c, "Mapping ruang session di-reset", fiber.Map{"exam_session_id": sessionID})
}

// GET /api/a/exam-terms/:termId/sessions/:sessionId/rooms
func (ctl *SessionRoomController) ListRooms(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}
	sessionID, ok := ctl.parseUUID(c, "sessionId", "ID session tidak valid")
	if !ok {
		return nil
	}

	var rooms []model.SessionRoomModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("session_room_session_id = ? AND session_room_term_id = ?", sessionID, term.ExamTermID).
		Order("session_room_room_code ASC, session_room_part ASC").
		Find(&rooms).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memuat ruang session")
	}
	return helper.JsonOK(c, "Ruang session", rooms)
}

/* =========================
   Seats
========================= */

// POST /api/a/exam-terms/:termId/rooms/:roomId/seats
func (ctl *SessionRoomController) AssignSeats(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}
	roomID, ok := ctl.parseUUID(c, "roomId", "ID ruang tidak valid")
	if !ok {
		return nil
	}

	var req service.AssignSeatsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}

	svc := service.NewSeatService(ctl.DB)
	result, err := svc.AssignSeats(c.Context(), term, roomID, req)
	if err != nil {
		return allocation.JsonError(c, err)
	}
	return helper.JsonCreated(c, "Kursi berhasil diassign", result)
}

// POST /api/a/exam-terms/:termId/sessions/:sessionId/seats?reset=true
func (ctl *SessionRoomController) AssignSessionSeats(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}
	sessionID, ok := ctl.parseUUID(c, "sessionId", "ID session tidak valid")
	if !ok {
		return nil
	}

	svc := service.NewSeatService(ctl.DB)
	report, err := svc.AssignSessionSeats(c.Context(), term, sessionID, c.Query("reset") == "true")
	if err != nil {
		return allocation.JsonError(c, err)
	}
	return helper.JsonOK(c, "Penomoran kursi session selesai", report)
}

// GET /api/a/exam-terms/:termId/rooms/:roomId/seats
func (ctl *SessionRoomController) ListSeats(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}
	roomID, ok := ctl.parseUUID(c, "roomId", "ID ruang tidak valid")
	if !ok {
		return nil
	}

	var room model.SessionRoomModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&room, "session_room_id = ? AND session_room_term_id = ?", roomID, term.ExamTermID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.JsonError(c, fiber.StatusNotFound, "Ruang tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memuat ruang")
	}

	var seats []model.SeatAssignmentModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("seat_assignment_session_room_id = ?", roomID).
		Order("seat_assignment_seat_number ASC").
		Find(&seats).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memuat denah kursi")
	}

	return helper.JsonOK(c, "Denah kursi", fiber.Map{
		"room":  room,
		"seats": seats,
	})
}

/* =========================
   Internal
========================= */

func (ctl *SessionRoomController) parseUUID(c *fiber.Ctx, param, msg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		_ = helper.JsonError(c, fiber.StatusBadRequest, msg)
		return uuid.Nil, false
	}
	return id, true
}

func (ctl *SessionRoomController) loadTerm(c *fiber.Ctx) (*termModel.ExamTermModel, bool) {
	id, err := uuid.Parse(c.Params("termId"))
	if err != nil {
		_ = helper.JsonError(c, fiber.StatusBadRequest, "ID term tidak valid")
		return nil, false
	}
	var term termModel.ExamTermModel
	if err := ctl.DB.WithContext(c.Context()).First(&term, "exam_term_id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			_ = helper.JsonError(c, fiber.StatusNotFound, "Exam term tidak ditemukan")
		} else {
			_ = helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memuat exam term")
		}
		return nil, false
	}
	return &term, true
}
