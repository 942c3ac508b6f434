// file: internals/features/exams/exam_sessions/service/session_builder_service.go
package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"examku_backend/internals/features/exams/allocation"
	"examku_backend/internals/features/exams/exam_sessions/dto"
	"examku_backend/internals/features/exams/exam_sessions/model"
	termModel "examku_backend/internals/features/exams/exam_terms/model"
)

/* =========================
   Slot expansion (pure)
========================= */

// SessionPlan: satu session hasil ekspansi slot, siap disimpan.
type SessionPlan struct {
	Grade           int
	SubjectCode     string
	SubjectName     string
	Date            time.Time
	StartAt         time.Time
	EndAt           time.Time
	DurationMinutes int
}

// parseClock membaca "HH:MM" 24 jam.
func parseClock(s string) (h, m int, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("format jam %q bukan HH:MM", s)
	}
	h, err = strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("jam %q tidak valid", s)
	}
	m, err = strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("menit %q tidak valid", s)
	}
	return h, m, nil
}

// PlanSessions memvalidasi dan mengekspansi slot jadwal jadi SessionPlan.
// end_at diturunkan dari start + durasi; grade wajib tercakup term dan
// tanggal wajib di dalam rentang term. Slot kembar di payload ditolak.
func PlanSessions(term *termModel.ExamTermModel, slots []dto.SessionSlotRequest) ([]SessionPlan, error) {
	if len(slots) == 0 {
		return nil, allocation.Validationf("payload tidak berisi slot")
	}

	seen := map[string]bool{}
	plans := make([]SessionPlan, 0, len(slots))
	for i, slot := range slots {
		if !term.HasGrade(slot.Grade) {
			return nil, allocation.Validationf("slot #%d: grade %d di luar cakupan term", i+1, slot.Grade)
		}
		date := time.Date(slot.Date.Year(), slot.Date.Month(), slot.Date.Day(), 0, 0, 0, 0, time.UTC)
		if date.Before(truncateDate(term.ExamTermStartDate)) || date.After(truncateDate(term.ExamTermEndDate)) {
			return nil, allocation.Validationf("slot #%d: tanggal %s di luar rentang term", i+1, date.Format("2006-01-02"))
		}
		h, m, err := parseClock(slot.StartTime)
		if err != nil {
			return nil, allocation.Validationf("slot #%d: %v", i+1, err)
		}

		startAt := date.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
		subject := strings.ToUpper(strings.TrimSpace(slot.SubjectCode))

		key := fmt.Sprintf("%d|%s|%s", slot.Grade, subject, startAt.Format(time.RFC3339))
		if seen[key] {
			return nil, allocation.Validationf("slot #%d: duplikat (grade %d, %s, %s)", i+1, slot.Grade, subject, slot.StartTime)
		}
		seen[key] = true

		plans = append(plans, SessionPlan{
			Grade:           slot.Grade,
			SubjectCode:     subject,
			SubjectName:     strings.TrimSpace(slot.SubjectName),
			Date:            date,
			StartAt:         startAt,
			EndAt:           startAt.Add(time.Duration(slot.DurationMinutes) * time.Minute),
			DurationMinutes: slot.DurationMinutes,
		})
	}
	return plans, nil
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

/* =========================
   Service
========================= */

type SessionBuilderService struct {
	DB *gorm.DB
}

func NewSessionBuilderService(db *gorm.DB) *SessionBuilderService {
	return &SessionBuilderService{DB: db}
}

// Build membuat session dari slot jadwal. Tiap slot unit independen:
// slot yang menabrak key unik (term, grade, mapel, start) dilaporkan
// Conflict tanpa menggagalkan slot lain.
func (s *SessionBuilderService) Build(ctx context.Context, term *termModel.ExamTermModel, req dto.BuildSessionsRequest) (*allocation.BatchReport, []model.ExamSessionModel, error) {
	if !term.IsEditable() {
		return nil, nil, allocation.Conflictf("term berstatus %s, jadwal tidak bisa diubah", term.ExamTermStatus)
	}

	plans, err := PlanSessions(term, req.Slots)
	if err != nil {
		return nil, nil, err
	}

	report := allocation.NewBatchReport()
	var created []model.ExamSessionModel

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range plans {
			unit := fmt.Sprintf("slot:%d-%s-%s", p.Grade, p.SubjectCode, p.StartAt.Format("2006-01-02T15:04"))

			var dup int64
			if err := tx.Model(&model.ExamSessionModel{}).
				Where("exam_session_term_id = ? AND exam_session_grade = ? AND exam_session_subject_code = ? AND exam_session_start_at = ?",
					term.ExamTermID, p.Grade, p.SubjectCode, p.StartAt).
				Count(&dup).Error; err != nil {
				return err
			}
			if dup > 0 {
				report.Add(unit, allocation.Conflictf("session dengan key yang sama sudah ada"))
				continue
			}

			sess := model.ExamSessionModel{
				ExamSessionTermID:          term.ExamTermID,
				ExamSessionGrade:           p.Grade,
				ExamSessionSubjectCode:     p.SubjectCode,
				ExamSessionSubjectName:     p.SubjectName,
				ExamSessionDate:            p.Date,
				ExamSessionStartAt:         p.StartAt,
				ExamSessionEndAt:           p.EndAt,
				ExamSessionDurationMinutes: p.DurationMinutes,
				ExamSessionStatus:          model.SessionStatusDraft,
			}
			if err := tx.Create(&sess).Error; err != nil {
				return err
			}
			created = append(created, sess)
			report.Add(unit, nil)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return report, created, nil
}

// List membaca session term, opsional difilter grade/status.
func (s *SessionBuilderService) List(ctx context.Context, termID uuid.UUID, grade int, status string) ([]model.ExamSessionModel, error) {
	q := s.DB.WithContext(ctx).
		Where("exam_session_term_id = ?", termID)
	if grade > 0 {
		q = q.Where("exam_session_grade = ?", grade)
	}
	if status != "" {
		q = q.Where("exam_session_status = ?", status)
	}

	var sessions []model.ExamSessionModel
	err := q.Order("exam_session_start_at ASC, exam_session_grade ASC, exam_session_subject_code ASC").
		Find(&sessions).Error
	return sessions, err
}

// Delete menghapus satu session draft beserta mapping ruang, kursi, dan
// slot pengawasnya (cascade dalam satu transaksi).
func (s *SessionBuilderService) Delete(ctx context.Context, term *termModel.ExamTermModel, sessionID uuid.UUID) error {
	if !term.IsEditable() {
		return allocation.Conflictf("term berstatus %s, jadwal tidak bisa diubah", term.ExamTermStatus)
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sess model.ExamSessionModel
		if err := tx.First(&sess, "exam_session_id = ? AND exam_session_term_id = ?", sessionID, term.ExamTermID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return allocation.Validationf("session %s tidak ditemukan pada term ini", sessionID)
			}
			return err
		}
		if sess.ExamSessionStatus != model.SessionStatusDraft {
			return allocation.Conflictf("hanya session draft yang bisa dihapus")
		}
		if err := tx.Exec("DELETE FROM seat_assignments WHERE seat_assignment_session_id = ?", sessionID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM invigilator_slots WHERE invigilator_slot_session_id = ?", sessionID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM session_rooms WHERE session_room_session_id = ?", sessionID).Error; err != nil {
			return err
		}
		return tx.Delete(&sess).Error
	})
}
