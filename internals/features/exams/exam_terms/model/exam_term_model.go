// file: internals/features/exams/exam_terms/model/exam_term_model.go
package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Status term. locked & archived terminal untuk edit.
const (
	TermStatusDraft     = "draft"
	TermStatusPublished = "published"
	TermStatusLocked    = "locked"
	TermStatusArchived  = "archived"
)

// ExamTermPolicy: knob kebijakan engine, disimpan sebagai JSONB.
type ExamTermPolicy struct {
	// Lebar band fairness pengawas: |beban - mean| <= band. 0 = default (2).
	FairnessBand int `json:"fairness_band"`
	// Tolak guru mengawas mapel yang dia ajar ke grade di ruang itu.
	CheckTeachingConflict bool `json:"check_teaching_conflict"`
	// Pindah siswa antar kelompok ikut menghapus kursi di session draft.
	InvalidateSeatsOnMove bool `json:"invalidate_seats_on_move"`
}

const DefaultFairnessBand = 2

// ExamTermModel merepresentasikan tabel exam_terms
type ExamTermModel struct {
	ExamTermID uuid.UUID `json:"exam_term_id" gorm:"type:uuid;primaryKey;column:exam_term_id;default:gen_random_uuid()"`

	ExamTermName         string        `json:"exam_term_name" gorm:"type:text;not null;column:exam_term_name"`
	ExamTermAcademicYear string        `json:"exam_term_academic_year" gorm:"type:varchar(9);not null;column:exam_term_academic_year"`
	ExamTermSemester     int           `json:"exam_term_semester" gorm:"not null;column:exam_term_semester"`
	ExamTermGrades       pq.Int64Array `json:"exam_term_grades" gorm:"type:integer[];not null;column:exam_term_grades"`

	ExamTermStartDate time.Time `json:"exam_term_start_date" gorm:"type:date;not null;column:exam_term_start_date"`
	ExamTermEndDate   time.Time `json:"exam_term_end_date" gorm:"type:date;not null;column:exam_term_end_date"`

	ExamTermStatus string `json:"exam_term_status" gorm:"type:varchar(20);not null;default:'draft';column:exam_term_status"`

	ExamTermGroupSizeCap int            `json:"exam_term_group_size_cap" gorm:"not null;default:24;column:exam_term_group_size_cap"`
	ExamTermAutoSplit    bool           `json:"exam_term_auto_split" gorm:"not null;default:true;column:exam_term_auto_split"`
	ExamTermPolicy       datatypes.JSON `json:"exam_term_policy" gorm:"type:jsonb;not null;default:'{}';column:exam_term_policy"`

	ExamTermCreatedAt time.Time      `json:"exam_term_created_at" gorm:"column:exam_term_created_at;autoCreateTime"`
	ExamTermUpdatedAt time.Time      `json:"exam_term_updated_at" gorm:"column:exam_term_updated_at;autoUpdateTime"`
	ExamTermDeletedAt gorm.DeletedAt `json:"exam_term_deleted_at,omitempty" gorm:"column:exam_term_deleted_at;index"`
}

func (ExamTermModel) TableName() string { return "exam_terms" }

// Policy membaca kolom JSONB jadi struct; kolom kosong → default.
func (m *ExamTermModel) Policy() ExamTermPolicy {
	p := ExamTermPolicy{}
	if len(m.ExamTermPolicy) > 0 {
		_ = json.Unmarshal(m.ExamTermPolicy, &p)
	}
	if p.FairnessBand <= 0 {
		p.FairnessBand = DefaultFairnessBand
	}
	return p
}

// IsEditable: locked/archived terminal untuk semua mutasi alokasi.
func (m *ExamTermModel) IsEditable() bool {
	return m.ExamTermStatus == TermStatusDraft || m.ExamTermStatus == TermStatusPublished
}

// HasGrade cek grade termasuk cakupan term.
func (m *ExamTermModel) HasGrade(grade int) bool {
	for _, g := range m.ExamTermGrades {
		if int(g) == grade {
			return true
		}
	}
	return false
}
