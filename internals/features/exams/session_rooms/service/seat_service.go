// file: internals/features/exams/session_rooms/service/seat_service.go
package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"examku_backend/internals/features/exams/allocation"
	sessModel "examku_backend/internals/features/exams/exam_sessions/model"
	termModel "examku_backend/internals/features/exams/exam_terms/model"
	groupModel "examku_backend/internals/features/exams/stable_groups/model"
	"examku_backend/internals/features/exams/session_rooms/model"
)

/* =========================
   Planner (pure)
========================= */

type SeatTaker struct {
	TakerID   uuid.UUID
	RegNumber string
}

type SeatPlan struct {
	TakerID    uuid.UUID
	RegNumber  string
	SeatNumber int
}

// PlanSeats memberi nomor kursi 1..k. Default urut nomor peserta naik;
// override (bila ada) wajib permutasi persis dari penghuni ruang.
func PlanSeats(takers []SeatTaker, override []uuid.UUID) ([]SeatPlan, error) {
	if len(takers) == 0 {
		return nil, allocation.Validationf("ruang tidak punya peserta untuk dikursikan")
	}

	byID := make(map[uuid.UUID]SeatTaker, len(takers))
	for _, t := range takers {
		if _, dup := byID[t.TakerID]; dup {
			return nil, allocation.Conflictf("taker %s muncul dua kali di ruang", t.TakerID)
		}
		byID[t.TakerID] = t
	}

	ordered := make([]SeatTaker, 0, len(takers))
	if len(override) > 0 {
		if len(override) != len(takers) {
			return nil, allocation.Validationf("override ordering berisi %d taker, ruang berisi %d", len(override), len(takers))
		}
		seen := map[uuid.UUID]bool{}
		for _, id := range override {
			t, ok := byID[id]
			if !ok {
				return nil, allocation.Validationf("override ordering memuat taker %s yang bukan penghuni ruang", id)
			}
			if seen[id] {
				return nil, allocation.Validationf("override ordering memuat taker %s dua kali", id)
			}
			seen[id] = true
			ordered = append(ordered, t)
		}
	} else {
		ordered = append(ordered, takers...)
		sort.Slice(ordered, func(i, j int) bool {
			if ordered[i].RegNumber != ordered[j].RegNumber {
				return ordered[i].RegNumber < ordered[j].RegNumber
			}
			return ordered[i].TakerID.String() < ordered[j].TakerID.String()
		})
	}

	plans := make([]SeatPlan, 0, len(ordered))
	for i, t := range ordered {
		plans = append(plans, SeatPlan{TakerID: t.TakerID, RegNumber: t.RegNumber, SeatNumber: i + 1})
	}
	return plans, nil
}

/* =========================
   Service (tx apply)
========================= */

type SeatService struct {
	DB *gorm.DB
}

func NewSeatService(db *gorm.DB) *SeatService {
	return &SeatService{DB: db}
}

type AssignSeatsRequest struct {
	Order []uuid.UUID `json:"order"` // opsional: override ordering
	Reset bool        `json:"reset"`
}

type AssignSeatsResult struct {
	SessionRoomID uuid.UUID                   `json:"session_room_id"`
	Seats         []model.SeatAssignmentModel `json:"seats"`
}

// AssignSeats mengkursikan satu session room secara atomik. Ruang yang
// sudah berkursi ditolak dengan AlreadyAssignedError tanpa reset=true —
// denah yang sudah dicetak tidak boleh bergeser diam-diam.
func (s *SeatService) AssignSeats(ctx context.Context, term *termModel.ExamTermModel, roomID uuid.UUID, req AssignSeatsRequest) (*AssignSeatsResult, error) {
	if !term.IsEditable() {
		return nil, allocation.Conflictf("term berstatus %s, kursi tidak bisa diubah", term.ExamTermStatus)
	}
	var out AssignSeatsResult

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room model.SessionRoomModel
		if err := tx.First(&room, "session_room_id = ? AND session_room_term_id = ?", roomID, term.ExamTermID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return allocation.Validationf("session room %s tidak ditemukan pada term ini", roomID)
			}
			return err
		}

		var existing int64
		if err := tx.Model(&model.SeatAssignmentModel{}).
			Where("seat_assignment_session_room_id = ?", roomID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			if !req.Reset {
				return &allocation.AlreadyAssignedError{
					Msg: fmt.Sprintf("ruang %s sudah punya %d kursi; ulangi dengan reset=true", room.SessionRoomRoomCode, existing),
				}
			}
			if err := tx.Where("seat_assignment_session_room_id = ?", roomID).
				Delete(&model.SeatAssignmentModel{}).Error; err != nil {
				return err
			}
		}

		occupants, err := roomOccupants(tx, &room)
		if err != nil {
			return err
		}
		if len(occupants) > room.SessionRoomCapacity {
			return &allocation.CapacityError{
				Msg:        fmt.Sprintf("penghuni (%d) melebihi kapasitas ruang %s (%d)", len(occupants), room.SessionRoomRoomCode, room.SessionRoomCapacity),
				Unassigned: []string{room.SessionRoomGroupCode},
			}
		}

		plans, err := PlanSeats(occupants, req.Order)
		if err != nil {
			return err
		}

		// Invariant (session, taker): satu siswa satu kursi per session.
		takerIDs := make([]uuid.UUID, 0, len(plans))
		for _, p := range plans {
			takerIDs = append(takerIDs, p.TakerID)
		}
		var clash int64
		if err := tx.Model(&model.SeatAssignmentModel{}).
			Where("seat_assignment_session_id = ? AND seat_assignment_taker_id IN ?", room.SessionRoomSessionID, takerIDs).
			Count(&clash).Error; err != nil {
			return err
		}
		if clash > 0 {
			return allocation.Conflictf("%d taker sudah punya kursi di session ini", clash)
		}

		seats := make([]model.SeatAssignmentModel, 0, len(plans))
		for _, p := range plans {
			seats = append(seats, model.SeatAssignmentModel{
				SeatAssignmentSessionRoomID: roomID,
				SeatAssignmentSessionID:     room.SessionRoomSessionID,
				SeatAssignmentTakerID:       p.TakerID,
				SeatAssignmentSeatNumber:    p.SeatNumber,
				SeatAssignmentRegNumber:     p.RegNumber,
			})
		}
		if err := tx.Create(&seats).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.SessionRoomModel{}).
			Where("session_room_id = ?", roomID).
			Updates(map[string]any{
				"session_room_seat_count": len(seats),
				"session_room_is_full":    len(seats) >= room.SessionRoomCapacity,
			}).Error; err != nil {
			return err
		}

		out = AssignSeatsResult{SessionRoomID: roomID, Seats: seats}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AssignSessionSeats mengkursikan semua ruang satu session; tiap ruang unit
// independen dengan laporan per unit.
func (s *SeatService) AssignSessionSeats(ctx context.Context, term *termModel.ExamTermModel, sessionID uuid.UUID, reset bool) (*allocation.BatchReport, error) {
	var rooms []model.SessionRoomModel
	if err := s.DB.WithContext(ctx).
		Where("session_room_session_id = ? AND session_room_term_id = ?", sessionID, term.ExamTermID).
		Order("session_room_room_code ASC").
		Find(&rooms).Error; err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, allocation.Validationf("session belum punya mapping ruang")
	}

	report := allocation.NewBatchReport()
	for _, room := range rooms {
		unit := fmt.Sprintf("room:%s", room.SessionRoomRoomCode)
		_, err := s.AssignSeats(ctx, term, room.SessionRoomID, AssignSeatsRequest{Reset: reset})
		report.Add(unit, err)
	}

	// segarkan counter cache session dari data nyata
	if err := RecountSession(s.DB.WithContext(ctx), sessionID); err != nil {
		return nil, err
	}
	return report, nil
}

/* =========================
   Internal
========================= */

// roomOccupants: penghuni ruang = slice keanggotaan group menurut posisi.
// Group yang dipecah: part ke-n mengambil jatah setelah part-part sebelumnya.
func roomOccupants(tx *gorm.DB, room *model.SessionRoomModel) ([]SeatTaker, error) {
	var parts []model.SessionRoomModel
	if err := tx.
		Where("session_room_session_id = ? AND session_room_group_id = ?",
			room.SessionRoomSessionID, room.SessionRoomGroupID).
		Order("session_room_part ASC").
		Find(&parts).Error; err != nil {
		return nil, err
	}

	offset := 0
	count := room.SessionRoomAssignedCount
	for _, p := range parts {
		if p.SessionRoomID == room.SessionRoomID {
			break
		}
		offset += p.SessionRoomAssignedCount
	}

	var rows []struct {
		TakerID   uuid.UUID `gorm:"column:taker_id"`
		RegNumber string    `gorm:"column:reg_number"`
	}
	if err := tx.Model(&groupModel.StableGroupMemberModel{}).
		Select("stable_group_members.stable_group_member_taker_id AS taker_id, exam_takers.exam_taker_reg_number AS reg_number").
		Joins("JOIN exam_takers ON exam_takers.exam_taker_id = stable_group_members.stable_group_member_taker_id").
		Where("stable_group_members.stable_group_member_group_id = ?", room.SessionRoomGroupID).
		Order("stable_group_members.stable_group_member_position ASC").
		Offset(offset).Limit(count).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]SeatTaker, 0, len(rows))
	for _, r := range rows {
		out = append(out, SeatTaker{TakerID: r.TakerID, RegNumber: r.RegNumber})
	}
	return out, nil
}

// RecountSession menyegarkan counter cache session dari data nyata.
func RecountSession(tx *gorm.DB, sessionID uuid.UUID) error {
	var roomCount, invCount int64
	var studentCount int64
	if err := tx.Model(&model.SessionRoomModel{}).
		Where("session_room_session_id = ?", sessionID).
		Count(&roomCount).Error; err != nil {
		return err
	}
	if err := tx.Model(&model.SessionRoomModel{}).
		Where("session_room_session_id = ?", sessionID).
		Select("COALESCE(SUM(session_room_assigned_count), 0)").
		Scan(&studentCount).Error; err != nil {
		return err
	}
	if err := tx.Table("invigilator_slots").
		Where("invigilator_slot_session_id = ?", sessionID).
		Count(&invCount).Error; err != nil {
		return err
	}
	return tx.Model(&sessModel.ExamSessionModel{}).
		Where("exam_session_id = ?", sessionID).
		Updates(map[string]any{
			"exam_session_room_count":        roomCount,
			"exam_session_student_count":     studentCount,
			"exam_session_invigilator_count": invCount,
		}).Error
}
