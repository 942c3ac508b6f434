// file: internals/features/exams/stable_groups/controller/stable_group_controller.go
package controller

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"examku_backend/internals/features/exams/allocation"
	termModel "examku_backend/internals/features/exams/exam_terms/model"
	"examku_backend/internals/features/exams/stable_groups/model"
	"examku_backend/internals/features/exams/stable_groups/service"
	helper "examku_backend/internals/helpers"
)

type StableGroupController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewStableGroupController(db *gorm.DB) *StableGroupController {
	return &StableGroupController{
		DB:       db,
		Validate: validator.New(),
	}
}

// POST /api/a/exam-terms/:termId/grades/:grade/groups
func (ctl *StableGroupController) Assign(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}
	grade, ok := ctl.parseGrade(c)
	if !ok {
		return nil
	}

	svc := service.NewGroupingService(ctl.DB)
	result, err := svc.Assign(c.Context(), term, grade)
	if err != nil {
		return allocation.JsonError(c, err)
	}
	if result.Idempotent {
		return helper.JsonOK(c, "Roster grade ini sudah terkelompok", result)
	}
	return helper.JsonCreated(c, "Kelompok berhasil dibentuk", result)
}

// DELETE /api/a/exam-terms/:termId/grades/:grade/groups?cascade=true
func (ctl *StableGroupController) Reset(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}
	grade, ok := ctl.parseGrade(c)
	if !ok {
		return nil
	}
	cascade := c.Query("cascade") == "true"

	svc := service.NewGroupingService(ctl.DB)
	if err := svc.Reset(c.Context(), term, grade, cascade); err != nil {
		return allocation.JsonError(c, err)
	}
	return helper.JsonDeleted(c, "Kelompok grade ini berhasil di-reset", fiber.Map{
		"grade":   grade,
		"cascade": cascade,
	})
}

type moveTakerRequest struct {
	TakerID   uuid.UUID `json:"taker_id" validate:"required"`
	ToGroupID uuid.UUID `json:"to_group_id" validate:"required"`
}

// POST /api/a/exam-terms/:termId/groups/move
func (ctl *StableGroupController) Move(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}

	var req moveTakerRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	svc := service.NewGroupingService(ctl.DB)
	result, err := svc.Move(c.Context(), term, req.TakerID, req.ToGroupID)
	if err != nil {
		return allocation.JsonError(c, err)
	}
	return helper.JsonUpdated(c, "Peserta berhasil dipindah kelompok", result)
}

// GET /api/a/exam-terms/:termId/groups?grade=
func (ctl *StableGroupController) List(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}
	q := ctl.DB.WithContext(c.Context()).
		Where("stable_group_term_id = ?", term.ExamTermID)
	if grade, _ := strconv.Atoi(c.Query("grade", "0")); grade > 0 {
		q = q.Where("stable_group_grade = ?", grade)
	}

	var groups []model.StableGroupModel
	if err := q.Order("stable_group_grade ASC, stable_group_index ASC").
		Find(&groups).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memuat kelompok")
	}
	return helper.JsonOK(c, "Daftar kelompok", groups)
}

// GET /api/a/exam-terms/:termId/groups/:groupId/members
func (ctl *StableGroupController) Members(c *fiber.Ctx) error {
	term, ok := ctl.loadTerm(c)
	if !ok {
		return nil
	}
	groupID, err := uuid.Parse(c.Params("groupId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID kelompok tidak valid")
	}

	var group model.StableGroupModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&group, "stable_group_id = ? AND stable_group_term_id = ?", groupID, term.ExamTermID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.JsonError(c, fiber.StatusNotFound, "Kelompok tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memuat kelompok")
	}

	var members []struct {
		Position    int       `json:"position" gorm:"column:position"`
		TakerID     uuid.UUID `json:"taker_id" gorm:"column:taker_id"`
		RegNumber   string    `json:"reg_number" gorm:"column:reg_number"`
		StudentName string    `json:"student_name" gorm:"column:student_name"`
	}
	if err := ctl.DB.WithContext(c.Context()).
		Table("stable_group_members").
		Select(`stable_group_members.stable_group_member_position AS position,
			stable_group_members.stable_group_member_taker_id AS taker_id,
			exam_takers.exam_taker_reg_number AS reg_number,
			exam_takers.exam_taker_student_name AS student_name`).
		Joins("JOIN exam_takers ON exam_takers.exam_taker_id = stable_group_members.stable_group_member_taker_id").
		Where("stable_group_members.stable_group_member_group_id = ?", groupID).
		Order("stable_group_members.stable_group_member_position ASC").
		Scan(&members).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memuat anggota kelompok")
	}

	return helper.JsonOK(c, "Anggota kelompok", fiber.Map{
		"group":   group,
		"members": members,
	})
}

func (ctl *StableGroupController) parseGrade(c *fiber.Ctx) (int, bool) {
	grade, err := strconv.Atoi(c.Params("grade"))
	if err != nil || grade < 1 {
		_ = helper.JsonError(c, fiber.StatusBadRequest, "Grade tidak valid")
		return 0, false
	}
	return grade, true
}

func (ctl *StableGroupController) loadTerm(c *fiber.Ctx) (*termModel.ExamTermModel, bool) {
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
