// file: internals/features/exams/exam_terms/controller/exam_term_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"examku_backend/internals/features/exams/allocation"
	"examku_backend/internals/features/exams/exam_terms/dto"
	"examku_backend/internals/features/exams/exam_terms/model"
	"examku_backend/internals/features/exams/exam_terms/service"
	helper "examku_backend/internals/helpers"
)

type ExamTermController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewExamTermController(db *gorm.DB) *ExamTermController {
	return &ExamTermController{
		DB:       db,
		Validate: validator.New(),
	}
}

/* =========================
   CRUD
========================= */

// POST /api/a/exam-terms
func (ctl *ExamTermController) Create(c *fiber.Ctx) error {
	var req dto.CreateExamTermRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	m := req.ToModel()
	if err := ctl.DB.WithContext(c.Context()).Create(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat exam term")
	}
	return helper.JsonCreated(c, "Exam term berhasil dibuat", dto.ToExamTermResponse(m))
}

// GET /api/a/exam-terms
func (ctl *ExamTermController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.Context()).Model(&model.ExamTermModel{})
	if status := c.Query("status"); status != "" {
		q = q.Where("exam_term_status = ?", status)
	}
	if year := c.Query("academic_year"); year != "" {
		q = q.Where("exam_term_academic_year = ?", year)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung exam term")
	}

	var terms []model.ExamTermModel
	if err := q.Order("exam_term_start_date DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&terms).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memuat exam term")
	}

	items := make([]dto.ExamTermResponse, 0, len(terms))
	for i := range terms {
		items = append(items, dto.ToExamTermResponse(&terms[i]))
	}
	pagination := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "Daftar exam term", items, &pagination)
}

// GET /api/a/exam-terms/:id
func (ctl *ExamTermController) GetByID(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}
	return helper.JsonOK(c, "Detail exam term", dto.ToExamTermResponse(term))
}

// PATCH /api/a/exam-terms/:id
func (ctl *ExamTermController) Update(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}
	if !term.IsEditable() {
		return helper.JsonError(c, fiber.StatusConflict, "Term berstatus "+term.ExamTermStatus+", tidak bisa diedit")
	}

	var req dto.UpdateExamTermRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	req.ApplyToModel(term)
	if term.ExamTermEndDate.Before(term.ExamTermStartDate) {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Tanggal selesai sebelum tanggal mulai")
	}
	if err := ctl.DB.WithContext(c.Context()).Save(term).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan exam term")
	}
	return helper.JsonUpdated(c, "Exam term berhasil diperbarui", dto.ToExamTermResponse(term))
}

// DELETE /api/a/exam-terms/:id (soft delete, hanya draft)
func (ctl *ExamTermController) Delete(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}
	if term.ExamTermStatus != model.TermStatusDraft {
		return helper.JsonError(c, fiber.StatusConflict, "Hanya term draft yang bisa dihapus")
	}
	if err := ctl.DB.WithContext(c.Context()).Delete(term).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus exam term")
	}
	return helper.JsonDeleted(c, "Exam term berhasil dihapus", fiber.Map{"exam_term_id": term.ExamTermID})
}

/* =========================
   Status
========================= */

// PATCH /api/a/exam-terms/:id/status
func (ctl *ExamTermController) ChangeStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID term tidak valid")
	}

	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	svc := service.NewStatusSyncService(ctl.DB)
	term, err := svc.Transition(c.Context(), id, req.Status, req.AdminOverride)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.JsonError(c, fiber.StatusNotFound, "Exam term tidak ditemukan")
		}
		return allocation.JsonError(c, err)
	}
	return helper.JsonUpdated(c, "Status term berhasil diubah", dto.ToExamTermResponse(term))
}

/* =========================
   Stats
========================= */

type termStats struct {
	Takers struct {
		Total     int64 `json:"total"`
		Grouped   int64 `json:"grouped"`
		Ungrouped int64 `json:"ungrouped"`
	} `json:"takers"`
	Groups   int64            `json:"groups"`
	Sessions map[string]int64 `json:"sessions_by_status"`
	Rooms    struct {
		Total     int64 `json:"total"`
		Unstaffed int64 `json:"unstaffed"`
		Seated    int64 `json:"seated"`
	} `json:"rooms"`
}

// GET /api/a/exam-terms/:id/stats
func (ctl *ExamTermController) Stats(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}
	db := ctl.DB.WithContext(c.Context())
	var st termStats
	st.Sessions = map[string]int64{}

	if err := db.Table("exam_takers").
		Where("exam_taker_term_id = ? AND exam_taker_deleted_at IS NULL", term.ExamTermID).
		Count(&st.Takers.Total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung peserta")
	}
	if err := db.Table("exam_takers").
		Where("exam_taker_term_id = ? AND exam_taker_group_id IS NOT NULL AND exam_taker_deleted_at IS NULL", term.ExamTermID).
		Count(&st.Takers.Grouped).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung peserta terkelompok")
	}
	st.Takers.Ungrouped = st.Takers.Total - st.Takers.Grouped

	if err := db.Table("stable_groups").
		Where("stable_group_term_id = ? AND stable_group_deleted_at IS NULL", term.ExamTermID).
		Count(&st.Groups).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung kelompok")
	}

	var sessRows []struct {
		Status string `gorm:"column:status"`
		N      int64  `gorm:"column:n"`
	}
	if err := db.Table("exam_sessions").
		Select("exam_session_status AS status, COUNT(*) AS n").
		Where("exam_session_term_id = ? AND exam_session_deleted_at IS NULL", term.ExamTermID).
		Group("exam_session_status").
		Scan(&sessRows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung session")
	}
	for _, r := range sessRows {
		st.Sessions[r.Status] = r.N
	}

	if err := db.Table("session_rooms").
		Where("session_room_term_id = ?", term.ExamTermID).
		Count(&st.Rooms.Total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung ruang")
	}
	if err := db.Table("session_rooms").
		Where("session_room_term_id = ? AND session_room_invigilator_count = 0", term.ExamTermID).
		Count(&st.Rooms.Unstaffed).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung ruang tanpa pengawas")
	}
	if err := db.Table("session_rooms").
		Where("session_room_term_id = ? AND session_room_seat_count > 0", term.ExamTermID).
		Count(&st.Rooms.Seated).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung ruang berkursi")
	}

	return helper.JsonOK(c, "Statistik term", st)
}

/* =========================
   Internal
========================= */

// loadTerm memuat term dari :id. Bila gagal, response error sudah ditulis
// dan ok=false — handler cukup `return nil`.
func (ctl *ExamTermController) loadTerm(c *fiber.Ctx) (*model.ExamTermModel, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		_ = helper.JsonError(c, fiber.StatusBadRequest, "ID term tidak valid")
		return nil, false
	}
	var term model.ExamTermModel
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
