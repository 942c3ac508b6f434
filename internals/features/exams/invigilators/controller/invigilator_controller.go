// file: internals/features/exams/invigilators/controller/invigilator_controller.go
package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"examku_backend/internals/features/exams/allocation"
	termModel "examku_backend/internals/features/exams/exam_terms/model"
	"examku_backend/internals/features/exams/invigilators/model"
	"examku_backend/internals/features/exams/invigilators/service"
	helper "examku_backend/internals/helpers"
)

type InvigilatorController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewInvigilatorController(db *gorm.DB) *InvigilatorController {
	return &InvigilatorController{
		DB:       db,
		Validate: validator.New(),
	}
}

// POST /api/a/exam-terms/:termId/sessions/:sessionId/invigilators
func (ctl *InvigilatorController) StaffSession(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID session tidak valid")
	}

	var req service.StaffSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	svc := service.NewStaffingService(ctl.DB)
	result, err := svc.StaffSession(c.Context(), term, sessionID, req)
	if err != nil {
		return allocation.JsonError(c, err)
	}
	return helper.JsonCreated(c, "Pengawas session berhasil diassign", result)
}

// POST /api/a/exam-terms/:termId/invigilators (term-wide, laporan per session)
func (ctl *InvigilatorController) StaffTerm(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}

	var req service.StaffSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	svc := service.NewStaffingService(ctl.DB)
	report, err := svc.StaffTerm(c.Context(), term, req)
	if err != nil {
		return allocation.JsonError(c, err)
	}
	return helper.JsonOK(c, "Penugasan pengawas term selesai", report)
}

// POST /api/a/exam-terms/:termId/rooms/:roomId/invigilators (manual, opsional force)
func (ctl *InvigilatorController) AssignManual(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}
	roomID, err := uuid.Parse(c.Params("roomId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID ruang tidak valid")
	}

	var req service.ManualAssignRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	svc := service.NewStaffingService(ctl.DB)
	slot, err := svc.AssignManual(c.Context(), term, roomID, req)
	if err != nil {
		return allocation.JsonError(c, err)
	}
	return helper.JsonCreated(c, "Pengawas berhasil ditugaskan", slot)
}

// DELETE /api/a/exam-terms/:termId/invigilators
func (ctl *InvigilatorController) RemoveAll(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}

	svc := service.NewStaffingService(ctl.DB)
	removed, err := svc.RemoveAll(c.Context(), term)
	if err != nil {
		return allocation.JsonError(c, err)
	}
	return helper.JsonDeleted(c, "Semua slot pengawas term dihapus", fiber.Map{"removed": removed})
}

// GET /api/a/exam-terms/:termId/teachers/:teacherId/slots
// Jadwal mengawas satu guru selama term.
func (ctl *InvigilatorController) TeacherRoster(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}
	teacherID, err := uuid.Parse(c.Params("teacherId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID guru tidak valid")
	}

	var rows []struct {
		SlotID      uuid.UUID `json:"slot_id" gorm:"column:slot_id"`
		Role        string    `json:"role" gorm:"column:role"`
		IsForced    bool      `json:"is_forced" gorm:"column:is_forced"`
		RoomCode    string    `json:"room_code" gorm:"column:room_code"`
		SubjectCode string    `json:"subject_code" gorm:"column:subject_code"`
		Grade       int       `json:"grade" gorm:"column:grade"`
		StartAt     time.Time `json:"start_at" gorm:"column:start_at"`
		EndAt       time.Time `json:"end_at" gorm:"column:end_at"`
	}
	if err := ctl.DB.WithContext(c.Context()).
		Model(&model.InvigilatorSlotModel{}).
		Select(`invigilator_slots.invigilator_slot_id AS slot_id,
			invigilator_slots.invigilator_slot_role AS role,
			invigilator_slots.invigilator_slot_is_forced AS is_forced,
			session_rooms.session_room_room_code AS room_code,
			exam_sessions.exam_session_subject_code AS subject_code,
			exam_sessions.exam_session_grade AS grade,
			exam_sessions.exam_session_start_at AS start_at,
			exam_sessions.exam_session_end_at AS end_at`).
		Joins("JOIN session_rooms ON session_rooms.session_room_id = invigilator_slots.invigilator_slot_session_room_id").
		Joins("JOIN exam_sessions ON exam_sessions.exam_session_id = invigilator_slots.invigilator_slot_session_id").
		Where("invigilator_slots.invigilator_slot_term_id = ? AND invigilator_slots.invigilator_slot_teacher_id = ?",
			term.ExamTermID, teacherID).
		Order("exam_sessions.exam_session_start_at ASC").
		Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memuat jadwal guru")
	}
	return helper.JsonOK(c, "Jadwal mengawas guru", rows)
}

func (ctl *InvigilatorController) loadTerm(c *fiber.Ctx) (*termModel.ExamTermModel, bool) {
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
