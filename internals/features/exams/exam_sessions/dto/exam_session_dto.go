// file: internals/features/exams/exam_sessions/dto/exam_session_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"examku_backend/internals/features/exams/exam_sessions/model"
)

/* =========================
   Request
========================= */

// SessionSlotRequest: satu slot jadwal ujian (grade × mapel × waktu).
type SessionSlotRequest struct {
	Grade           int       `json:"grade" validate:"required,min=1,max=13"`
	SubjectCode     string    `json:"subject_code" validate:"required,min=1,max=20"`
	SubjectName     string    `json:"subject_name" validate:"required,min=1"`
	Date            time.Time `json:"date" validate:"required"`
	StartTime       string    `json:"start_time" validate:"required"` // "07:30"
	DurationMinutes int       `json:"duration_minutes" validate:"required,min=30,max=240"`
}

type BuildSessionsRequest struct {
	Slots []SessionSlotRequest `json:"slots" validate:"required,min=1,dive"`
}

/* =========================
   Response
========================= */

type ExamSessionResponse struct {
	ExamSessionID               uuid.UUID `json:"exam_session_id"`
	ExamSessionTermID           uuid.UUID `json:"exam_session_term_id"`
	ExamSessionGrade            int       `json:"exam_session_grade"`
	ExamSessionSubjectCode      string    `json:"exam_session_subject_code"`
	ExamSessionSubjectName      string    `json:"exam_session_subject_name"`
	ExamSessionDate             time.Time `json:"exam_session_date"`
	ExamSessionStartAt          time.Time `json:"exam_session_start_at"`
	ExamSessionEndAt            time.Time `json:"exam_session_end_at"`
	ExamSessionDurationMinutes  int       `json:"exam_session_duration_minutes"`
	ExamSessionStatus           string    `json:"exam_session_status"`
	ExamSessionRoomCount        int       `json:"exam_session_room_count"`
	ExamSessionStudentCount     int       `json:"exam_session_student_count"`
	ExamSessionInvigilatorCount int       `json:"exam_session_invigilator_count"`
}

func ToExamSessionResponse(m *model.ExamSessionModel) ExamSessionResponse {
	return ExamSessionResponse{
		ExamSessionID:               m.ExamSessionID,
		ExamSessionTermID:           m.ExamSessionTermID,
		ExamSessionGrade:            m.ExamSessionGrade,
		ExamSessionSubjectCode:      m.ExamSessionSubjectCode,
		ExamSessionSubjectName:      m.ExamSessionSubjectName,
		ExamSessionDate:             m.ExamSessionDate,
		ExamSessionStartAt:          m.ExamSessionStartAt,
		ExamSessionEndAt:            m.ExamSessionEndAt,
		ExamSessionDurationMinutes:  m.ExamSessionDurationMinutes,
		ExamSessionStatus:           m.ExamSessionStatus,
		ExamSessionRoomCount:        m.ExamSessionRoomCount,
		ExamSessionStudentCount:     m.ExamSessionStudentCount,
		ExamSessionInvigilatorCount: m.ExamSessionInvigilatorCount,
	}
}
