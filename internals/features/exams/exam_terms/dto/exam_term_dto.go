// file: internals/features/exams/exam_terms/dto/exam_term_dto.go
package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"

	"examku_backend/internals/features/exams/exam_terms/model"
)

func MarshalPolicy(p model.ExamTermPolicy) datatypes.JSON {
	b, err := json.Marshal(p)
	if err != nil {
		return datatypes.JSON([]byte(`{}`))
	}
	return datatypes.JSON(b)
}

/* =========================
   Request
========================= */

type CreateExamTermRequest struct {
	Name         string `json:"name" validate:"required,min=3,max=100"`
	AcademicYear string `json:"academic_year" validate:"required,len=9"` // contoh: 2025/2026
	Semester     int    `json:"semester" validate:"required,oneof=1 2"`
	Grades       []int  `json:"grades" validate:"required,min=1,dive,min=1,max=13"`

	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtfield=StartDate"`

	GroupSizeCap int                   `json:"group_size_cap" validate:"omitempty,min=1,max=100"`
	AutoSplit    *bool                 `json:"auto_split"`
	Policy       *model.ExamTermPolicy `json:"policy"`
}

type UpdateExamTermRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=3,max=100"`
	AcademicYear *string `json:"academic_year" validate:"omitempty,len=9"`
	Semester     *int    `json:"semester" validate:"omitempty,oneof=1 2"`
	Grades       []int   `json:"grades" validate:"omitempty,min=1,dive,min=1,max=13"`

	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	GroupSizeCap *int                  `json:"group_size_cap" validate:"omitempty,min=1,max=100"`
	AutoSplit    *bool                 `json:"auto_split"`
	Policy       *model.ExamTermPolicy `json:"policy"`
}

type ChangeStatusRequest struct {
	Status        string `json:"status" validate:"required,oneof=draft published locked archived"`
	AdminOverride bool   `json:"admin_override"`
}

/* =========================
   Response
========================= */

type ExamTermResponse struct {
	ExamTermID           uuid.UUID            `json:"exam_term_id"`
	ExamTermName         string               `json:"exam_term_name"`
	ExamTermAcademicYear string               `json:"exam_term_academic_year"`
	ExamTermSemester     int                  `json:"exam_term_semester"`
	ExamTermGrades       []int                `json:"exam_term_grades"`
	ExamTermStartDate    time.Time            `json:"exam_term_start_date"`
	ExamTermEndDate      time.Time            `json:"exam_term_end_date"`
	ExamTermStatus       string               `json:"exam_term_status"`
	ExamTermGroupSizeCap int                  `json:"exam_term_group_size_cap"`
	ExamTermAutoSplit    bool                 `json:"exam_term_auto_split"`
	ExamTermPolicy       model.ExamTermPolicy `json:"exam_term_policy"`
	ExamTermCreatedAt    time.Time            `json:"exam_term_created_at"`
	ExamTermUpdatedAt    time.Time            `json:"exam_term_updated_at"`
}

func (r *CreateExamTermRequest) ToModel() *model.ExamTermModel {
	grades := make(pq.Int64Array, 0, len(r.Grades))
	for _, g := range r.Grades {
		grades = append(grades, int64(g))
	}
	m := &model.ExamTermModel{
		ExamTermName:         r.Name,
		ExamTermAcademicYear: r.AcademicYear,
		ExamTermSemester:     r.Semester,
		ExamTermGrades:       grades,
		ExamTermStartDate:    r.StartDate,
		ExamTermEndDate:      r.EndDate,
		ExamTermStatus:       model.TermStatusDraft,
		ExamTermGroupSizeCap: 24,
		ExamTermAutoSplit:    true,
		ExamTermPolicy:       datatypes.JSON([]byte(`{}`)),
	}
	if r.GroupSizeCap > 0 {
		m.ExamTermGroupSizeCap = r.GroupSizeCap
	}
	if r.AutoSplit != nil {
		m.ExamTermAutoSplit = *r.AutoSplit
	}
	if r.Policy != nil {
		m.ExamTermPolicy = MarshalPolicy(*r.Policy)
	}
	return m
}

// ApplyToModel menerapkan field non-nil ke model (partial update).
func (r *UpdateExamTermRequest) ApplyToModel(m *model.ExamTermModel) {
	if r.Name != nil {
		m.ExamTermName = *r.Name
	}
	if r.AcademicYear != nil {
		m.ExamTermAcademicYear = *r.AcademicYear
	}
	if r.Semester != nil {
		m.ExamTermSemester = *r.Semester
	}
	if len(r.Grades) > 0 {
		grades := make(pq.Int64Array, 0, len(r.Grades))
		for _, g := range r.Grades {
			grades = append(grades, int64(g))
		}
		m.ExamTermGrades = grades
	}
	if r.StartDate != nil {
		m.ExamTermStartDate = *r.StartDate
	}
	if r.EndDate != nil {
		m.ExamTermEndDate = *r.EndDate
	}
	if r.GroupSizeCap != nil {
		m.ExamTermGroupSizeCap = *r.GroupSizeCap
	}
	if r.AutoSplit != nil {
		m.ExamTermAutoSplit = *r.AutoSplit
	}
	if r.Policy != nil {
		m.ExamTermPolicy = MarshalPolicy(*r.Policy)
	}
}

func ToExamTermResponse(m *model.ExamTermModel) ExamTermResponse {
	grades := make([]int, 0, len(m.ExamTermGrades))
	for _, g := range m.ExamTermGrades {
		grades = append(grades, int(g))
	}
	return ExamTermResponse{
		ExamTermID:           m.ExamTermID,
		ExamTermName:         m.ExamTermName,
		ExamTermAcademicYear: m.ExamTermAcademicYear,
		ExamTermSemester:     m.ExamTermSemester,
		ExamTermGrades:       grades,
		ExamTermStartDate:    m.ExamTermStartDate,
		ExamTermEndDate:      m.ExamTermEndDate,
		ExamTermStatus:       m.ExamTermStatus,
		ExamTermGroupSizeCap: m.ExamTermGroupSizeCap,
		ExamTermAutoSplit:    m.ExamTermAutoSplit,
		ExamTermPolicy:       m.Policy(),
		ExamTermCreatedAt:    m.ExamTermCreatedAt,
		ExamTermUpdatedAt:    m.ExamTermUpdatedAt,
	}
}
