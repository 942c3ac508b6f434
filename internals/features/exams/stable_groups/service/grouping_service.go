// file: internals/features/exams/stable_groups/service/grouping_service.go
package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"examku_backend/internals/features/exams/allocation"
	takerModel "examku_backend/internals/features/exams/exam_takers/model"
	termModel "examku_backend/internals/features/exams/exam_terms/model"
	roomModel "examku_backend/internals/features/exams/session_rooms/model"
	"examku_backend/internals/features/exams/stable_groups/model"
)

/* =========================
   Planner (pure)
========================= */

type TakerRef struct {
	ID        uuid.UUID
	RegNumber string
}

type GroupPlan struct {
	Index   int
	Code    string
	Members []TakerRef
}

// PlanGroups mempartisi peserta satu grade jadi ⌈N/G⌉ kelompok dengan
// selisih ukuran maksimal 1. Urutan stabil berdasarkan nomor peserta;
// sisa pembagian (largest remainder) jatuh ke kelompok-kelompok awal.
func PlanGroups(grade int, takers []TakerRef, size int) ([]GroupPlan, error) {
	if size <= 0 {
		return nil, allocation.Validationf("ukuran kelompok harus > 0, dapat %d", size)
	}
	if grade <= 0 {
		return nil, allocation.Validationf("grade tidak valid: %d", grade)
	}

	n := len(takers)
	if n == 0 {
		return []GroupPlan{}, nil
	}

	ordered := make([]TakerRef, n)
	copy(ordered, takers)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].RegNumber != ordered[j].RegNumber {
			return ordered[i].RegNumber < ordered[j].RegNumber
		}
		return ordered[i].ID.String() < ordered[j].ID.String()
	})

	k := (n + size - 1) / size // ⌈N/G⌉
	base := n / k
	rem := n % k // kelompok 1..rem dapat base+1

	plans := make([]GroupPlan, 0, k)
	offset := 0
	for i := 0; i < k; i++ {
		sz := base
		if i < rem {
			sz++
		}
		plans = append(plans, GroupPlan{
			Index:   i + 1,
			Code:    fmt.Sprintf("%d-%d", grade, i+1),
			Members: ordered[offset : offset+sz],
		})
		offset += sz
	}
	return plans, nil
}

/* =========================
   Service (tx apply)
========================= */

type GroupingService struct {
	DB *gorm.DB
}

func NewGroupingService(db *gorm.DB) *GroupingService {
	return &GroupingService{DB: db}
}

type AssignResult struct {
	Groups     []model.StableGroupModel `json:"groups"`
	TakerCount int                      `json:"taker_count"`
	Idempotent bool                     `json:"idempotent"`
}

// Assign membentuk stable groups untuk satu grade dalam satu transaksi.
// Idempotent: roster yang sudah tergabung penuh dikembalikan apa adanya.
func (s *GroupingService) Assign(ctx context.Context, term *termModel.ExamTermModel, grade int) (*AssignResult, error) {
	if !term.IsEditable() {
		return nil, allocation.Conflictf("term berstatus %s, kelompok tidak bisa diubah", term.ExamTermStatus)
	}
	if !term.HasGrade(grade) {
		return nil, allocation.Validationf("grade %d tidak termasuk cakupan term", grade)
	}

	size := term.ExamTermGroupSizeCap
	var out AssignResult

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var takers []takerModel.ExamTakerModel
		if err := tx.
			Where("exam_taker_term_id = ? AND exam_taker_grade = ?", term.ExamTermID, grade).
			Order("exam_taker_reg_number ASC").
			Find(&takers).Error; err != nil {
			return err
		}
		if len(takers) == 0 {
			return allocation.Validationf("tidak ada peserta grade %d pada term ini", grade)
		}

		var existing []model.StableGroupModel
		if err := tx.
			Where("stable_group_term_id = ? AND stable_group_grade = ?", term.ExamTermID, grade).
			Order("stable_group_index ASC").
			Find(&existing).Error; err != nil {
			return err
		}

		// Sudah tergabung penuh & tidak ada peserta baru → idempotent.
		if len(existing) > 0 && fullyGrouped(takers) {
			out = AssignResult{Groups: existing, TakerCount: len(takers), Idempotent: true}
			return nil
		}

		// Re-grouping menyentuh keanggotaan: tolak bila sudah dipakai mapping
		// ruang (data kursi yang sudah terbit tidak boleh bergeser diam-diam).
		if len(existing) > 0 {
			if err := ensureGroupsUnreferenced(tx, term.ExamTermID, grade); err != nil {
				return err
			}
			if err := clearGroups(tx, term.ExamTermID, grade); err != nil {
				return err
			}
		}

		refs := make([]TakerRef, 0, len(takers))
		for _, t := range takers {
			refs = append(refs, TakerRef{ID: t.ExamTakerID, RegNumber: t.ExamTakerRegNumber})
		}
		plans, err := PlanGroups(grade, refs, size)
		if err != nil {
			return err
		}

		groups := make([]model.StableGroupModel, 0, len(plans))
		for _, p := range plans {
			g := model.StableGroupModel{
				StableGroupID:          uuid.New(),
				StableGroupTermID:      term.ExamTermID,
				StableGroupGrade:       grade,
				StableGroupCode:        p.Code,
				StableGroupIndex:       p.Index,
				StableGroupMemberCount: len(p.Members),
			}
			groups = append(groups, g)

			members := make([]model.StableGroupMemberModel, 0, len(p.Members))
			for pos, m := range p.Members {
				members = append(members, model.StableGroupMemberModel{
					StableGroupMemberGroupID:  g.StableGroupID,
					StableGroupMemberTakerID:  m.ID,
					StableGroupMemberPosition: pos + 1,
				})
			}
			if err := tx.Create(&g).Error; err != nil {
				return err
			}
			if err := tx.Create(&members).Error; err != nil {
				return err
			}
			// Back-reference di taker (kepemilikan urutan tetap di group).
			memberIDs := make([]uuid.UUID, 0, len(p.Members))
			for _, m := range p.Members {
				memberIDs = append(memberIDs, m.ID)
			}
			if err := tx.Model(&takerModel.ExamTakerModel{}).
				Where("exam_taker_id IN ?", memberIDs).
				Update("exam_taker_group_id", g.StableGroupID).Error; err != nil {
				return err
			}
		}

		out = AssignResult{Groups: groups, TakerCount: len(takers)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Reset menghapus seluruh kelompok satu grade. Gagal dengan ConflictError
// bila ada session room yang masih mereferensikan kelompok, kecuali cascade.
func (s *GroupingService) Reset(ctx context.Context, term *termModel.ExamTermModel, grade int, cascade bool) error {
	if !term.IsEditable() {
		return allocation.Conflictf("term berstatus %s, kelompok tidak bisa diubah", term.ExamTermStatus)
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !cascade {
			if err := ensureGroupsUnreferenced(tx, term.ExamTermID, grade); err != nil {
				return err
			}
		} else {
			// Cascade: kursi & mapping ruang grade ini ikut dibersihkan.
			var roomIDs []uuid.UUID
			if err := referencingRoomIDs(tx, term.ExamTermID, grade, &roomIDs); err != nil {
				return err
			}
			if len(roomIDs) > 0 {
				if err := tx.Where("seat_assignment_session_room_id IN ?", roomIDs).
					Delete(&roomModel.SeatAssignmentModel{}).Error; err != nil {
					return err
				}
				if err := tx.Exec("DELETE FROM invigilator_slots WHERE invigilator_slot_session_room_id IN ?", roomIDs).Error; err != nil {
					return err
				}
				if err := tx.Where("session_room_id IN ?", roomIDs).
					Delete(&roomModel.SessionRoomModel{}).Error; err != nil {
					return err
				}
			}
		}
		return clearGroups(tx, term.ExamTermID, grade)
	})
}

type MoveResult struct {
	TakerID          uuid.UUID `json:"taker_id"`
	FromGroupCode    string    `json:"from_group_code"`
	ToGroupCode      string    `json:"to_group_code"`
	SeatsInvalidated int64     `json:"seats_invalidated"`
}

// Move memindahkan satu taker ke kelompok lain. CapacityError bila tujuan
// penuh. Data kursi/ruang yang sudah terbit tidak disentuh kecuali policy
// invalidate_seats_on_move aktif (itu pun hanya session berstatus draft).
func (s *GroupingService) Move(ctx context.Context, term *termModel.ExamTermModel, takerID, toGroupID uuid.UUID) (*MoveResult, error) {
	if !term.IsEditable() {
		return nil, allocation.Conflictf("term berstatus %s, kelompok tidak bisa diubah", term.ExamTermStatus)
	}
	var out MoveResult

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var member model.StableGroupMemberModel
		if err := tx.First(&member, "stable_group_member_taker_id = ?", takerID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return allocation.Validationf("taker %s belum tergabung di kelompok manapun", takerID)
			}
			return err
		}

		var from, to model.StableGroupModel
		if err := tx.First(&from, "stable_group_id = ?", member.StableGroupMemberGroupID).Error; err != nil {
			return err
		}
		if err := tx.First(&to, "stable_group_id = ? AND stable_group_term_id = ?", toGroupID, term.ExamTermID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return allocation.Validationf("kelompok tujuan %s tidak ditemukan", toGroupID)
			}
			return err
		}
		if from.StableGroupID == to.StableGroupID {
			return allocation.Validationf("taker sudah berada di kelompok %s", to.StableGroupCode)
		}
		if from.StableGroupGrade != to.StableGroupGrade {
			return allocation.Validationf("pindah antar grade tidak diizinkan (%d → %d)", from.StableGroupGrade, to.StableGroupGrade)
		}
		if to.StableGroupMemberCount >= term.ExamTermGroupSizeCap {
			return &allocation.CapacityError{
				Msg:        fmt.Sprintf("kelompok %s sudah penuh (%d/%d)", to.StableGroupCode, to.StableGroupMemberCount, term.ExamTermGroupSizeCap),
				Unassigned: []string{to.StableGroupCode},
			}
		}

		// Pindah di akhir kelompok tujuan supaya posisi lama tidak bergeser.
		// Posisi bisa bolong setelah move-out, jadi acuannya MAX posisi
		// yang masih terpakai, bukan member_count.
		var positions []int
		if err := tx.Model(&model.StableGroupMemberModel{}).
			Where("stable_group_member_group_id = ?", to.StableGroupID).
			Pluck("stable_group_member_position", &positions).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.StableGroupMemberModel{}).
			Where("stable_group_member_id = ?", member.StableGroupMemberID).
			Updates(map[string]any{
				"stable_group_member_group_id": to.StableGroupID,
				"stable_group_member_position": nextMemberPosition(positions),
			}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.StableGroupModel{}).
			Where("stable_group_id = ?", from.StableGroupID).
			Update("stable_group_member_count", gorm.Expr("stable_group_member_count - 1")).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.StableGroupModel{}).
			Where("stable_group_id = ?", to.StableGroupID).
			Update("stable_group_member_count", gorm.Expr("stable_group_member_count + 1")).Error; err != nil {
			return err
		}
		if err := tx.Model(&takerModel.ExamTakerModel{}).
			Where("exam_taker_id = ?", takerID).
			Update("exam_taker_group_id", to.StableGroupID).Error; err != nil {
			return err
		}

		out = MoveResult{
			TakerID:       takerID,
			FromGroupCode: from.StableGroupCode,
			ToGroupCode:   to.StableGroupCode,
		}

		if term.Policy().InvalidateSeatsOnMove {
			res := tx.
				Where("seat_assignment_taker_id = ? AND seat_assignment_session_id IN (?)",
					takerID,
					tx.Session(&gorm.Session{NewDB: true}).
						Table("exam_sessions").
						Select("exam_session_id").
						Where("exam_session_term_id = ? AND exam_session_status = ?", term.ExamTermID, "draft"),
				).
				Delete(&roomModel.SeatAssignmentModel{})
			if res.Error != nil {
				return res.Error
			}
			out.SeatsInvalidated = res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

/* =========================
   Internal
========================= */

// nextMemberPosition mengembalikan slot posisi berikutnya: satu di atas
// posisi tertinggi yang masih terpakai (1 bila kelompok kosong).
func nextMemberPosition(positions []int) int {
	max := 0
	for _, p := range positions {
		if p > max {
			max = p
		}
	}
	return max + 1
}

func fullyGrouped(takers []takerModel.ExamTakerModel) bool {
	for _, t := range takers {
		if t.ExamTakerGroupID == nil {
			return false
		}
	}
	return true
}

func referencingRoomIDs(tx *gorm.DB, termID uuid.UUID, grade int, out *[]uuid.UUID) error {
	return tx.Model(&roomModel.SessionRoomModel{}).
		Joins("JOIN stable_groups ON stable_groups.stable_group_id = session_rooms.session_room_group_id").
		Where("stable_groups.stable_group_term_id = ? AND stable_groups.stable_group_grade = ?", termID, grade).
		Pluck("session_rooms.session_room_id", out).Error
}

func ensureGroupsUnreferenced(tx *gorm.DB, termID uuid.UUID, grade int) error {
	var roomIDs []uuid.UUID
	if err := referencingRoomIDs(tx, termID, grade, &roomIDs); err != nil {
		return err
	}
	if len(roomIDs) > 0 {
		return allocation.Conflictf(
			"kelompok grade %d masih direferensikan %d session room; reset dengan cascade=true",
			grade, len(roomIDs))
	}
	return nil
}

func clearGroups(tx *gorm.DB, termID uuid.UUID, grade int) error {
	var groupIDs []uuid.UUID
	if err := tx.Model(&model.StableGroupModel{}).
		Where("stable_group_term_id = ? AND stable_group_grade = ?", termID, grade).
		Pluck("stable_group_id", &groupIDs).Error; err != nil {
		return err
	}
	if len(groupIDs) == 0 {
		return nil
	}
	if err := tx.Where("stable_group_member_group_id IN ?", groupIDs).
		Delete(&model.StableGroupMemberModel{}).Error; err != nil {
		return err
	}
	if err := tx.Model(&takerModel.ExamTakerModel{}).
		Where("exam_taker_group_id IN ?", groupIDs).
		Update("exam_taker_group_id", nil).Error; err != nil {
		return err
	}
	return tx.Unscoped().Where("stable_group_id IN ?", groupIDs).
		Delete(&model.StableGroupModel{}).Error
}
