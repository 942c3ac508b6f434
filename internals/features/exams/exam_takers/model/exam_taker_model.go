// file: internals/features/exams/exam_takers/model/exam_taker_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExamTakerModel merepresentasikan tabel exam_takers.
// Satu baris per (term, student). Nomor peserta (SBD) dibangkitkan sekali
// per term dan stabil untuk semua session siswa itu.
type ExamTakerModel struct {
	ExamTakerID     uuid.UUID `json:"exam_taker_id" gorm:"type:uuid;primaryKey;column:exam_taker_id;default:gen_random_uuid()"`
	ExamTakerTermID uuid.UUID `json:"exam_taker_term_id" gorm:"type:uuid;not null;index;column:exam_taker_term_id;uniqueIndex:uq_exam_takers_student;uniqueIndex:uq_exam_takers_reg"`

	ExamTakerStudentID   uuid.UUID `json:"exam_taker_student_id" gorm:"type:uuid;not null;column:exam_taker_student_id;uniqueIndex:uq_exam_takers_student"`
	ExamTakerStudentName string    `json:"exam_taker_student_name" gorm:"type:text;not null;column:exam_taker_student_name"`
	ExamTakerGrade       int       `json:"exam_taker_grade" gorm:"not null;index;column:exam_taker_grade"`

	ExamTakerRegNumber string `json:"exam_taker_reg_number" gorm:"type:varchar(12);not null;column:exam_taker_reg_number;uniqueIndex:uq_exam_takers_reg"`

	// Back-reference ke StableGroup; kepemilikan urutan ada di group.
	ExamTakerGroupID *uuid.UUID `json:"exam_taker_group_id,omitempty" gorm:"type:uuid;index;column:exam_taker_group_id"`

	ExamTakerCreatedAt time.Time      `json:"exam_taker_created_at" gorm:"column:exam_taker_created_at;autoCreateTime"`
	ExamTakerUpdatedAt time.Time      `json:"exam_taker_updated_at" gorm:"column:exam_taker_updated_at;autoUpdateTime"`
	ExamTakerDeletedAt gorm.DeletedAt `json:"exam_taker_deleted_at,omitempty" gorm:"column:exam_taker_deleted_at;index"`
}

func (ExamTakerModel) TableName() string { return "exam_takers" }

// ExamTakerSubjectModel: sub-registrasi per mapel, opsional terikat session.
type ExamTakerSubjectModel struct {
	ExamTakerSubjectID      uuid.UUID `json:"exam_taker_subject_id" gorm:"type:uuid;primaryKey;column:exam_taker_subject_id;default:gen_random_uuid()"`
	ExamTakerSubjectTakerID uuid.UUID `json:"exam_taker_subject_taker_id" gorm:"type:uuid;not null;column:exam_taker_subject_taker_id;uniqueIndex:uq_exam_taker_subjects"`

	ExamTakerSubjectCode      string     `json:"exam_taker_subject_code" gorm:"type:varchar(20);not null;column:exam_taker_subject_code;uniqueIndex:uq_exam_taker_subjects"`
	ExamTakerSubjectSessionID *uuid.UUID `json:"exam_taker_subject_session_id,omitempty" gorm:"type:uuid;index;column:exam_taker_subject_session_id"`

	ExamTakerSubjectCreatedAt time.Time `json:"exam_taker_subject_created_at" gorm:"column:exam_taker_subject_created_at;autoCreateTime"`
}

func (ExamTakerSubjectModel) TableName() string { return "exam_taker_subjects" }
