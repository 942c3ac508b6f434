// file: internals/features/exams/exam_sessions/model/exam_session_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"examku_backend/internals/features/exams/allocation"
)

// Status session = proyeksi denormalized dari status term.
const (
	SessionStatusDraft     = "draft"
	SessionStatusConfirmed = "confirmed"
	SessionStatusCompleted = "completed"
)

// ExamSessionModel merepresentasikan tabel exam_sessions.
// Key bisnis: (term, grade, subject_code, start_at). Counter ruang/siswa/
// pengawas hanyalah cache turunan, tidak pernah otoritatif.
type ExamSessionModel struct {
	ExamSessionID     uuid.UUID `json:"exam_session_id" gorm:"type:uuid;primaryKey;column:exam_session_id;default:gen_random_uuid()"`
	ExamSessionTermID uuid.UUID `json:"exam_session_term_id" gorm:"type:uuid;not null;index;column:exam_session_term_id;uniqueIndex:uq_exam_sessions_key"`

	ExamSessionGrade       int    `json:"exam_session_grade" gorm:"not null;column:exam_session_grade;uniqueIndex:uq_exam_sessions_key"`
	ExamSessionSubjectCode string `json:"exam_session_subject_code" gorm:"type:varchar(20);not null;column:exam_session_subject_code;uniqueIndex:uq_exam_sessions_key"`
	ExamSessionSubjectName string `json:"exam_session_subject_name" gorm:"type:text;not null;column:exam_session_subject_name"`

	ExamSessionDate            time.Time `json:"exam_session_date" gorm:"type:date;not null;column:exam_session_date"`
	ExamSessionStartAt         time.Time `json:"exam_session_start_at" gorm:"not null;column:exam_session_start_at;uniqueIndex:uq_exam_sessions_key"`
	ExamSessionEndAt           time.Time `json:"exam_session_end_at" gorm:"not null;column:exam_session_end_at"`
	ExamSessionDurationMinutes int       `json:"exam_session_duration_minutes" gorm:"not null;column:exam_session_duration_minutes"`

	ExamSessionStatus string `json:"exam_session_status" gorm:"type:varchar(20);not null;default:'draft';column:exam_session_status"`

	// Cache turunan (di-recount, bukan sumber kebenaran)
	ExamSessionRoomCount        int `json:"exam_session_room_count" gorm:"not null;default:0;column:exam_session_room_count"`
	ExamSessionStudentCount     int `json:"exam_session_student_count" gorm:"not null;default:0;column:exam_session_student_count"`
	ExamSessionInvigilatorCount int `json:"exam_session_invigilator_count" gorm:"not null;default:0;column:exam_session_invigilator_count"`

	ExamSessionCreatedAt time.Time      `json:"exam_session_created_at" gorm:"column:exam_session_created_at;autoCreateTime"`
	ExamSessionUpdatedAt time.Time      `json:"exam_session_updated_at" gorm:"column:exam_session_updated_at;autoUpdateTime"`
	ExamSessionDeletedAt gorm.DeletedAt `json:"exam_session_deleted_at,omitempty" gorm:"column:exam_session_deleted_at;index"`
}

func (ExamSessionModel) TableName() string { return "exam_sessions" }

func (m *ExamSessionModel) Interval() allocation.Interval {
	return allocation.Interval{Start: m.ExamSessionStartAt, End: m.ExamSessionEndAt}
}
