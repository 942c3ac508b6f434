// file: internals/features/exams/exam_takers/dto/exam_taker_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"examku_backend/internals/features/exams/exam_takers/model"
)

/* =========================
   Request
========================= */

type RosterStudentRequest struct {
	StudentID   uuid.UUID `json:"student_id" validate:"required"`
	StudentName string    `json:"student_name" validate:"required,min=1"`
	Grade       int       `json:"grade" validate:"required,min=1,max=13"`
	// Kode mapel yang diikuti siswa; kosong = ikut semua session grade-nya.
	Subjects []string `json:"subjects" validate:"omitempty,dive,min=1,max=20"`
}

type RegisterRosterRequest struct {
	Students []RosterStudentRequest `json:"students" validate:"required,min=1,dive"`
}

/* =========================
   Response
========================= */

type ExamTakerResponse struct {
	ExamTakerID          uuid.UUID  `json:"exam_taker_id"`
	ExamTakerTermID      uuid.UUID  `json:"exam_taker_term_id"`
	ExamTakerStudentID   uuid.UUID  `json:"exam_taker_student_id"`
	ExamTakerStudentName string     `json:"exam_taker_student_name"`
	ExamTakerGrade       int        `json:"exam_taker_grade"`
	ExamTakerRegNumber   string     `json:"exam_taker_reg_number"`
	ExamTakerGroupID     *uuid.UUID `json:"exam_taker_group_id,omitempty"`
	ExamTakerCreatedAt   time.Time  `json:"exam_taker_created_at"`
}

func ToExamTakerResponse(m *model.ExamTakerModel) ExamTakerResponse {
	return ExamTakerResponse{
		ExamTakerID:          m.ExamTakerID,
		ExamTakerTermID:      m.ExamTakerTermID,
		ExamTakerStudentID:   m.ExamTakerStudentID,
		ExamTakerStudentName: m.ExamTakerStudentName,
		ExamTakerGrade:       m.ExamTakerGrade,
		ExamTakerRegNumber:   m.ExamTakerRegNumber,
		ExamTakerGroupID:     m.ExamTakerGroupID,
		ExamTakerCreatedAt:   m.ExamTakerCreatedAt,
	}
}

// ItineraryEntry: jadwal satu siswa di satu session (untuk kartu ujian).
type ItineraryEntry struct {
	SessionID   uuid.UUID  `json:"session_id"`
	SubjectCode string     `json:"subject_code"`
	SubjectName string     `json:"subject_name"`
	StartAt     time.Time  `json:"start_at"`
	EndAt       time.Time  `json:"end_at"`
	RoomCode    *string    `json:"room_code,omitempty"`
	SeatNumber  *int       `json:"seat_number,omitempty"`
	GroupCode   string     `json:"group_code"`
	GroupID     *uuid.UUID `json:"group_id,omitempty"`
}

type TakerItineraryResponse struct {
	Taker   ExamTakerResponse `json:"taker"`
	Entries []ItineraryEntry  `json:"entries"`
}
