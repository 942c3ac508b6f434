// file: internals/features/exams/exam_terms/service/status_sync_service.go
package service

import (
	"context"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"examku_backend/internals/features/exams/allocation"
	sessModel "examku_backend/internals/features/exams/exam_sessions/model"
	termModel "examku_backend/internals/features/exams/exam_terms/model"
)

/* =========================
   State machine (pure)
========================= */

// Alur normal: draft → published → locked → archived.
// published → draft hanya lewat admin override.
var termFlow = map[string]string{
	termModel.TermStatusDraft:     termModel.TermStatusPublished,
	termModel.TermStatusPublished: termModel.TermStatusLocked,
	termModel.TermStatusLocked:    termModel.TermStatusArchived,
}

func isTermStatus(s string) bool {
	switch s {
	case termModel.TermStatusDraft, termModel.TermStatusPublished,
		termModel.TermStatusLocked, termModel.TermStatusArchived:
		return true
	}
	return false
}

// CanTransition memvalidasi perpindahan status term.
func CanTransition(from, to string, adminOverride bool) error {
	if !isTermStatus(from) {
		return allocation.Validationf("status term tidak dikenal: %q", from)
	}
	if !isTermStatus(to) {
		return allocation.Validationf("status tujuan tidak dikenal: %q", to)
	}
	if from == to {
		return nil // no-op, cascade tetap jalan (idempotent)
	}
	if termFlow[from] == to {
		return nil
	}
	// Revert published → draft: hanya dengan override eksplisit.
	if from == termModel.TermStatusPublished && to == termModel.TermStatusDraft {
		if adminOverride {
			return nil
		}
		return allocation.Conflictf("revert published → draft butuh admin override")
	}
	return allocation.Conflictf("transisi status %s → %s tidak diizinkan", from, to)
}

// SessionStatusFor: mapping tetap status term → status session.
func SessionStatusFor(termStatus string) string {
	switch termStatus {
	case termModel.TermStatusPublished:
		return sessModel.SessionStatusConfirmed
	case termModel.TermStatusLocked, termModel.TermStatusArchived:
		return sessModel.SessionStatusCompleted
	default:
		return sessModel.SessionStatusDraft
	}
}

/* =========================
   Service (tx + cascade)
========================= */

type StatusSyncService struct {
	DB *gorm.DB
}

func NewStatusSyncService(db *gorm.DB) *StatusSyncService {
	return &StatusSyncService{DB: db}
}

// Transition mengubah status term lalu meng-cascade status session.
// Update term atomik; cascade best-effort setelah commit karena status
// session hanyalah proyeksi denormalized dari status term.
func (s *StatusSyncService) Transition(ctx context.Context, termID uuid.UUID, to string, adminOverride bool) (*termModel.ExamTermModel, error) {
	var term termModel.ExamTermModel

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&term, "exam_term_id = ?", termID).Error; err != nil {
			return err
		}
		if err := CanTransition(term.ExamTermStatus, to, adminOverride); err != nil {
			return err
		}
		if term.ExamTermStatus == to {
			return nil
		}
		term.ExamTermStatus = to
		return tx.Model(&termModel.ExamTermModel{}).
			Where("exam_term_id = ?", termID).
			Update("exam_term_status", to).Error
	})
	if err != nil {
		return nil, err
	}

	s.Cascade(ctx, termID, term.ExamTermStatus)
	return &term, nil
}

// Cascade menyamakan status semua session milik term (idempotent; aman
// dipanggil ulang). Kegagalan satu session dicatat dan tidak menggagalkan
// session lain maupun transisi term-nya.
func (s *StatusSyncService) Cascade(ctx context.Context, termID uuid.UUID, termStatus string) {
	want := SessionStatusFor(termStatus)

	var ids []uuid.UUID
	if err := s.DB.WithContext(ctx).
		Model(&sessModel.ExamSessionModel{}).
		Where("exam_session_term_id = ? AND exam_session_status <> ?", termID, want).
		Pluck("exam_session_id", &ids).Error; err != nil {
		log.Printf("[STATUS-SYNC] gagal memuat session term %s: %v", termID, err)
		return
	}

	for _, id := range ids {
		if err := s.DB.WithContext(ctx).
			Model(&sessModel.ExamSessionModel{}).
			Where("exam_session_id = ?", id).
			Update("exam_session_status", want).Error; err != nil {
			log.Printf("[STATUS-SYNC] gagal update session %s → %s: %v", id, want, err)
		}
	}
}
