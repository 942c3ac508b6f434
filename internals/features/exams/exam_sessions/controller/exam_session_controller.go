// file: internals/features/exams/exam_sessions/controller/exam_session_controller.go
package controller

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"examku_backend/internals/features/exams/allocation"
	"examku_backend/internals/features/exams/exam_sessions/dto"
	sessModel "examku_backend/internals/features/exams/exam_sessions/model"
	"examku_backend/internals/features/exams/exam_sessions/service"
	termModel "examku_backend/internals/features/exams/exam_terms/model"
	helper "examku_backend/internals/helpers"
)

type ExamSessionController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewExamSessionController(db *gorm.DB) *ExamSessionController {
	return &ExamSessionController{
		DB:       db,
		Validate: validator.New(),
	}
}

// POST /api/a/exam-terms/:termId/sessions
func (ctl *ExamSessionController) Build(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}

	var req dto.BuildSessionsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	svc := service.NewSessionBuilderService(ctl.DB)
	report, created, err := svc.Build(c.Context(), term, req)
	if err != nil {
		return allocation.JsonError(c, err)
	}

	items := make([]dto.ExamSessionResponse, 0, len(created))
	for i := range created {
		items = append(items, dto.ToExamSessionResponse(&created[i]))
	}
	return helper.JsonCreated(c, "Session berhasil dibangun", fiber.Map{
		"report":   report,
		"sessions": items,
	})
}

// GET /api/a/exam-terms/:termId/sessions?grade=&status=
func (ctl *ExamSessionController) List(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}
	grade, _ := strconv.Atoi(c.Query("grade", "0"))

	svc := service.NewSessionBuilderService(ctl.DB)
	sessions, err := svc.List(c.Context(), term.ExamTermID, grade, c.Query("status"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memuat session")
	}

	items := make([]dto.ExamSessionResponse, 0, len(sessions))
	for i := range sessions {
		items = append(items, dto.ToExamSessionResponse(&sessions[i]))
	}
	return helper.JsonOK(c, "Daftar session", items)
}

// GET /api/a/exam-terms/:termId/sessions/:sessionId
func (ctl *ExamSessionController) GetByID(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID session tidak valid")
	}

	var sess sessModel.ExamSessionModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&sess, "exam_session_id = ? AND exam_session_term_id = ?", sessionID, term.ExamTermID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.JsonError(c, fiber.StatusNotFound, "Session tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memuat session")
	}
	return helper.JsonOK(c, "Detail session", dto.ToExamSessionResponse(&sess))
}

// GET /api/a/exam-terms/:termId/sessions/:sessionId/stats
func (ctl *ExamSessionController) Stats(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID session tidak valid")
	}
	db := ctl.DB.WithContext(c.Context())

	var sess sessModel.ExamSessionModel
	if err := db.First(&sess, "exam_session_id = ? AND exam_session_term_id = ?", sessionID, term.ExamTermID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.JsonError(c, fiber.StatusNotFound, "Session tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memuat session")
	}

	var stats struct {
		Rooms       int64 `json:"rooms"`
		Takers      int64 `json:"takers"`
		Seats       int64 `json:"seats"`
		Invigilator int64 `json:"invigilators"`
		Unstaffed   int64 `json:"unstaffed_rooms"`
	}
	if err := db.Table("session_rooms").
		Where("session_room_session_id = ?", sessionID).
		Count(&stats.Rooms).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung ruang")
	}
	if err := db.Table("session_rooms").
		Where("session_room_session_id = ?", sessionID).
		Select("COALESCE(SUM(session_room_assigned_count), 0)").
		Scan(&stats.Takers).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung peserta")
	}
	if err := db.Table("seat_assignments").
		Where("seat_assignment_session_id = ?", sessionID).
		Count(&stats.Seats).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung kursi")
	}
	if err := db.Table("invigilator_slots").
		Where("invigilator_slot_session_id = ?", sessionID).
		Count(&stats.Invigilator).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung pengawas")
	}
	if err := db.Table("session_rooms").
		Where("session_room_session_id = ? AND session_room_invigilator_count = 0", sessionID).
		Count(&stats.Unstaffed).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung ruang tanpa pengawas")
	}

	return helper.JsonOK(c, "Statistik session", fiber.Map{
		"session": dto.ToExamSessionResponse(&sess),
		"stats":   stats,
	})
}

// DELETE /api/a/exam-terms/:termId/sessions/:sessionId
func (ctl *ExamSessionController) Delete(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID session tidak valid")
	}

	svc := service.NewSessionBuilderService(ctl.DB)
	if err := svc.Delete(c.Context(), term, sessionID); err != nil {
		return allocation.JsonError(c, err)
	}
	return helper.JsonDeleted(c, "Session berhasil dihapus", fiber.Map{"exam_session_id": sessionID})
}

func (ctl *ExamSessionController) loadTerm(c *fiber.Ctx) (*termModel.ExamTermModel, bool) {
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
