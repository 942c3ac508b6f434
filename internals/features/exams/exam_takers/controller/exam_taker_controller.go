// file: internals/features/exams/exam_takers/controller/exam_taker_controller.go
package controller

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"examku_backend/internals/features/exams/allocation"
	"examku_backend/internals/features/exams/exam_takers/dto"
	"examku_backend/internals/features/exams/exam_takers/service"
	termModel "examku_backend/internals/features/exams/exam_terms/model"
	helper "examku_backend/internals/helpers"
)

type ExamTakerController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewExamTakerController(db *gorm.DB) *ExamTakerController {
	return &ExamTakerController{
		DB:       db,
		Validate: validator.New(),
	}
}

// POST /api/a/exam-terms/:termId/takers
func (ctl *ExamTakerController) Register(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}

	var req dto.RegisterRosterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	svc := service.NewRosterService(ctl.DB)
	report, created, err := svc.RegisterRoster(c.Context(), term, req)
	if err != nil {
		return allocation.JsonError(c, err)
	}

	items := make([]dto.ExamTakerResponse, 0, len(created))
	for i := range created {
		items = append(items, dto.ToExamTakerResponse(&created[i]))
	}
	return helper.JsonCreated(c, "Roster berhasil diproses", fiber.Map{
		"report": report,
		"takers": items,
	})
}

// GET /api/a/exam-terms/:termId/takers?grade=&page=&per_page=
func (ctl *ExamTakerController) List(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}
	paging := helper.ResolvePaging(c, 50, 200)
	grade, _ := strconv.Atoi(c.Query("grade", "0"))

	svc := service.NewRosterService(ctl.DB)
	takers, total, err := svc.ListTakers(c.Context(), term.ExamTermID, grade, paging.Limit, paging.Offset)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memuat roster")
	}

	items := make([]dto.ExamTakerResponse, 0, len(takers))
	for i := range takers {
		items = append(items, dto.ToExamTakerResponse(&takers[i]))
	}
	pagination := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "Roster peserta", items, &pagination)
}

// DELETE /api/a/exam-terms/:termId/takers/:takerId
func (ctl *ExamTakerController) Remove(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}
	takerID, err := uuid.Parse(c.Params("takerId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID taker tidak valid")
	}

	svc := service.NewRosterService(ctl.DB)
	if err := svc.RemoveTaker(c.Context(), term, takerID); err != nil {
		return allocation.JsonError(c, err)
	}
	return helper.JsonDeleted(c, "Peserta berhasil dicabut", fiber.Map{"exam_taker_id": takerID})
}

// GET /api/u/exam-terms/:termId/takers/:takerId/itinerary
// Kartu ujian: nomor peserta, kelompok, ruang & kursi per session.
func (ctl *ExamTakerController) Itinerary(c *fiber.Ctx) error {
	termID, err := uuid.Parse(c.Params("termId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID term tidak valid")
	}
	takerID, err := uuid.Parse(c.Params("takerId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID taker tidak valid")
	}

	svc := service.NewRosterService(ctl.DB)
	resp, err := svc.Itinerary(c.Context(), termID, takerID)
	if err != nil {
		return allocation.JsonError(c, err)
	}
	return helper.JsonOK(c, "Jadwal peserta", resp)
}

func (ctl *ExamTakerController) loadTerm(c *fiber.Ctx) (*termModel.ExamTermModel, bool) {
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
