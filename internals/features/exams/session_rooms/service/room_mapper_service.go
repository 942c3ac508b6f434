// file: internals/features/exams/session_rooms/service/room_mapper_service.go
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
   Planner (pure, best-fit greedy)
========================= */

type GroupSize struct {
	ID   uuid.UUID
	Code string
	Size int
}

type RoomInput struct {
	Code     string `json:"code" validate:"required"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
}

type RoomBinding struct {
	GroupID   uuid.UUID
	GroupCode string
	Part      int
	RoomCode  string
	RoomName  string
	RoomType  string
	Capacity  int
	Assigned  int
}

// PlanRoomMapping memetakan stable groups ke ruang fisik dengan best-fit
// greedy: kelompok terbesar dulu, masing-masing ke ruang terkecil yang
// masih muat (kapasitas efektif = min(kapasitas, maxPerRoom)). Kelompok
// yang lebih besar dari semua ruang dipecah jadi beberapa part bila
// autoSplit aktif. Tie-break: kode ruang naik, lalu kode kelompok naik.
func PlanRoomMapping(groups []GroupSize, rooms []RoomInput, maxPerRoom int, requiredType string, autoSplit bool) ([]RoomBinding, error) {
	if len(groups) == 0 {
		return nil, allocation.Validationf("tidak ada kelompok untuk dipetakan")
	}
	if maxPerRoom < 0 {
		return nil, allocation.Validationf("max_per_room tidak boleh negatif")
	}

	seen := map[string]bool{}
	candidates := make([]RoomInput, 0, len(rooms))
	for _, r := range rooms {
		if r.Code == "" || r.Capacity <= 0 {
			return nil, allocation.Validationf("katalog ruang tidak valid: code=%q capacity=%d", r.Code, r.Capacity)
		}
		if seen[r.Code] {
			return nil, allocation.Validationf("kode ruang ganda di katalog: %s", r.Code)
		}
		seen[r.Code] = true
		if requiredType != "" && r.Type != requiredType {
			continue
		}
		candidates = append(candidates, r)
	}
	if len(candidates) == 0 {
		return nil, &allocation.CapacityError{Msg: "tidak ada ruang kandidat yang memenuhi syarat"}
	}

	effCap := func(r RoomInput) int {
		if maxPerRoom > 0 && maxPerRoom < r.Capacity {
			return maxPerRoom
		}
		return r.Capacity
	}

	ordered := make([]GroupSize, len(groups))
	copy(ordered, groups)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Size != ordered[j].Size {
			return ordered[i].Size > ordered[j].Size
		}
		return ordered[i].Code < ordered[j].Code
	})

	used := map[string]bool{}

	// bestFit: ruang belum terpakai dengan kapasitas efektif terkecil yang
	// masih ≥ need; tie kode ruang naik.
	bestFit := func(need int) (RoomInput, bool) {
		var pick RoomInput
		found := false
		for _, r := range candidates {
			if used[r.Code] || effCap(r) < need {
				continue
			}
			if !found || effCap(r) < effCap(pick) ||
				(effCap(r) == effCap(pick) && r.Code < pick.Code) {
				pick = r
				found = true
			}
		}
		return pick, found
	}

	// largest: ruang belum terpakai terbesar (untuk memecah kelompok jumbo).
	largest := func() (RoomInput, bool) {
		var pick RoomInput
		found := false
		for _, r := range candidates {
			if used[r.Code] {
				continue
			}
			if !found || effCap(r) > effCap(pick) ||
				(effCap(r) == effCap(pick) && r.Code < pick.Code) {
				pick = r
				found = true
			}
		}
		return pick, found
	}

	bindings := []RoomBinding{}
	var unassigned []string

	for _, g := range ordered {
		if g.Size <= 0 {
			continue
		}
		remaining := g.Size
		part := 1
		failed := false

		for remaining > 0 {
			if room, ok := bestFit(remaining); ok {
				used[room.Code] = true
				bindings = append(bindings, RoomBinding{
					GroupID: g.ID, GroupCode: g.Code, Part: part,
					RoomCode: room.Code, RoomName: room.Name, RoomType: room.Type,
					Capacity: room.Capacity, Assigned: remaining,
				})
				remaining = 0
				break
			}
			if !autoSplit {
				failed = true
				break
			}
			room, ok := largest()
			if !ok {
				failed = true
				break
			}
			used[room.Code] = true
			take := effCap(room)
			bindings = append(bindings, RoomBinding{
				GroupID: g.ID, GroupCode: g.Code, Part: part,
				RoomCode: room.Code, RoomName: room.Name, RoomType: room.Type,
				Capacity: room.Capacity, Assigned: take,
			})
			remaining -= take
			part++
		}

		if failed {
			unassigned = append(unassigned, g.Code)
		}
	}

	if len(unassigned) > 0 {
		sort.Strings(unassigned)
		return nil, &allocation.CapacityError{
			Msg:        "ruang tidak cukup untuk semua kelompok",
			Unassigned: unassigned,
		}
	}
	return bindings, nil
}

/* =========================
   Service (tx apply)
========================= */

type RoomMapperService struct {
	DB *gorm.DB
}

func NewRoomMapperService(db *gorm.DB) *RoomMapperService {
	return &RoomMapperService{DB: db}
}

type MapSessionRequest struct {
	Rooms        []RoomInput `json:"rooms" validate:"required,min=1,dive"`
	MaxPerRoom   int         `json:"max_per_room" validate:"omitempty,min=1"`
	RequiredType string      `json:"required_type"`
	Reset        bool        `json:"reset"`
}

type MapSessionResult struct {
	SessionID uuid.UUID                `json:"session_id"`
	Rooms     []model.SessionRoomModel `json:"rooms"`
}

// MapSession memetakan seluruh kelompok grade session ini ke ruang fisik.
// All-or-nothing: konflik/kapasitas terdeteksi sebelum ada baris ditulis.
func (s *RoomMapperService) MapSession(ctx context.Context, term *termModel.ExamTermModel, sessionID uuid.UUID, req MapSessionRequest) (*MapSessionResult, error) {
	if !term.IsEditable() {
		return nil, allocation.Conflictf("term berstatus %s, mapping ruang tidak bisa diubah", term.ExamTermStatus)
	}
	var out MapSessionResult

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sess sessModel.ExamSessionModel
		if err := tx.First(&sess, "exam_session_id = ? AND exam_session_term_id = ?", sessionID, term.ExamTermID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return allocation.Validationf("session %s tidak ditemukan pada term ini", sessionID)
			}
			return err
		}

		var existingCount int64
		if err := tx.Model(&model.SessionRoomModel{}).
			Where("session_room_session_id = ?", sessionID).
			Count(&existingCount).Error; err != nil {
			return err
		}
		if existingCount > 0 {
			if !req.Reset {
				return &allocation.AlreadyAssignedError{
					Msg: fmt.Sprintf("session sudah punya %d mapping ruang; ulangi dengan reset=true", existingCount),
				}
			}
			if err := clearSessionRooms(tx, sessionID); err != nil {
				return err
			}
		}

		var groups []groupModel.StableGroupModel
		if err := tx.
			Where("stable_group_term_id = ? AND stable_group_grade = ?", term.ExamTermID, sess.ExamSessionGrade).
			Order("stable_group_index ASC").
			Find(&groups).Error; err != nil {
			return err
		}
		if len(groups) == 0 {
			return allocation.Validationf("grade %d belum punya stable group; jalankan grouping dulu", sess.ExamSessionGrade)
		}

		sizes := make([]GroupSize, 0, len(groups))
		for _, g := range groups {
			sizes = append(sizes, GroupSize{ID: g.StableGroupID, Code: g.StableGroupCode, Size: g.StableGroupMemberCount})
		}

		bindings, err := PlanRoomMapping(sizes, req.Rooms, req.MaxPerRoom, req.RequiredType, term.ExamTermAutoSplit)
		if err != nil {
			return err
		}

		// Pool ruang fisik dibagi antar session pada slot waktu yang sama:
		// ruang yang sudah dipakai session lain yang overlap → ConflictError,
		// sebelum ada baris ditulis.
		if err := ensureRoomsFreeInSlot(tx, term.ExamTermID, &sess, bindings); err != nil {
			return err
		}

		rows := make([]model.SessionRoomModel, 0, len(bindings))
		students := 0
		for _, b := range bindings {
			row := model.SessionRoomModel{
				SessionRoomSessionID:     sessionID,
				SessionRoomTermID:        term.ExamTermID,
				SessionRoomGroupID:       b.GroupID,
				SessionRoomGroupCode:     b.GroupCode,
				SessionRoomPart:          b.Part,
				SessionRoomRoomCode:      b.RoomCode,
				SessionRoomRoomName:      b.RoomName,
				SessionRoomCapacity:      b.Capacity,
				SessionRoomAssignedCount: b.Assigned,
			}
			if b.RoomType != "" {
				rt := b.RoomType
				row.SessionRoomRoomType = &rt
			}
			rows = append(rows, row)
			students += b.Assigned
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}

		if err := tx.Model(&sessModel.ExamSessionModel{}).
			Where("exam_session_id = ?", sessionID).
			Updates(map[string]any{
				"exam_session_room_count":    len(rows),
				"exam_session_student_count": students,
			}).Error; err != nil {
			return err
		}

		out = MapSessionResult{SessionID: sessionID, Rooms: rows}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// MapTerm menjalankan mapping per session sebagai unit independen; session
// gagal tidak memblokir session lain (laporan per unit).
func (s *RoomMapperService) MapTerm(ctx context.Context, term *termModel.ExamTermModel, req MapSessionRequest) (*allocation.BatchReport, error) {
	if !term.IsEditable() {
		return nil, allocation.Conflictf("term berstatus %s, mapping ruang tidak bisa diubah", term.ExamTermStatus)
	}
	var sessions []sessModel.ExamSessionModel
	if err := s.DB.WithContext(ctx).
		Where("exam_session_term_id = ?", term.ExamTermID).
		Order("exam_session_start_at ASC, exam_session_grade ASC, exam_session_subject_code ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, allocation.Validationf("term belum punya session")
	}

	report := allocation.NewBatchReport()
	for _, sess := range sessions {
		unit := fmt.Sprintf("session:%s", sess.ExamSessionID)
		_, err := s.MapSession(ctx, term, sess.ExamSessionID, req)
		report.Add(unit, err)
	}
	return report, nil
}

// ResetSession menghapus mapping ruang satu session. Kursi yang sudah ada
// menolak reset kecuali cascade (lindungi denah yang sudah dicetak).
func (s *RoomMapperService) ResetSession(ctx context.Context, term *termModel.ExamTermModel, sessionID uuid.UUID, cascade bool) error {
	if !term.IsEditable() {
		return allocation.Conflictf("term berstatus %s, mapping ruang tidak bisa diubah", term.ExamTermStatus)
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sess sessModel.ExamSessionModel
		if err := tx.First(&sess, "exam_session_id = ? AND exam_session_term_id = ?", sessionID, term.ExamTermID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return allocation.Validationf("session %s tidak ditemukan pada term ini", sessionID)
			}
			return err
		}
		if !cascade {
			var seatCount int64
			if err := tx.Model(&model.SeatAssignmentModel{}).
				Where("seat_assignment_session_id = ?", sessionID).
				Count(&seatCount).Error; err != nil {
				return err
			}
			if seatCount > 0 {
				return allocation.Conflictf("session masih punya %d kursi; reset dengan cascade=true", seatCount)
			}
		}
		if err := clearSessionRooms(tx, sessionID); err != nil {
			return err
		}
		return tx.Model(&sessModel.ExamSessionModel{}).
			Where("exam_session_id = ?", sessionID).
			Updates(map[string]any{
				"exam_session_room_count":        0,
				"exam_session_student_count":     0,
				"exam_session_invigilator_count": 0,
			}).Error
	})
}

/* =========================
   Internal
========================= */

func clearSessionRooms(tx *gorm.DB, sessionID uuid.UUID) error {
	if err := tx.Where("seat_assignment_session_id = ?", sessionID).
		Delete(&model.SeatAssignmentModel{}).Error; err != nil {
		return err
	}
	if err := tx.Exec(
		"DELETE FROM invigilator_slots WHERE invigilator_slot_session_id = ?", sessionID,
	).Error; err != nil {
		return err
	}
	return tx.Unscoped().Where("session_room_session_id = ?", sessionID).
		Delete(&model.SessionRoomModel{}).Error
}

// ensureRoomsFreeInSlot: tolak bila ruang rencana sudah dipakai session lain
// yang interval-nya overlap, atau sudah terpakai di session ini.
func ensureRoomsFreeInSlot(tx *gorm.DB, termID uuid.UUID, sess *sessModel.ExamSessionModel, bindings []RoomBinding) error {
	codes := make([]string, 0, len(bindings))
	for _, b := range bindings {
		codes = append(codes, b.RoomCode)
	}

	var busy []string
	if err := tx.Model(&model.SessionRoomModel{}).
		Joins("JOIN exam_sessions ON exam_sessions.exam_session_id = session_rooms.session_room_session_id").
		Where("session_rooms.session_room_term_id = ?", termID).
		Where("session_rooms.session_room_session_id <> ?", sess.ExamSessionID).
		Where("session_rooms.session_room_room_code IN ?", codes).
		Where("exam_sessions.exam_session_start_at < ? AND ? < exam_sessions.exam_session_end_at",
			sess.ExamSessionEndAt, sess.ExamSessionStartAt).
		Distinct().
		Pluck("session_rooms.session_room_room_code", &busy).Error; err != nil {
		return err
	}
	if len(busy) > 0 {
		sort.Strings(busy)
		return allocation.Conflictf("ruang sudah dipakai session lain pada slot waktu sama: %v", busy)
	}

	var dup []string
	if err := tx.Model(&model.SessionRoomModel{}).
		Where("session_room_session_id = ? AND session_room_room_code IN ?", sess.ExamSessionID, codes).
		Distinct().
		Pluck("session_room_room_code", &dup).Error; err != nil {
		return err
	}
	if len(dup) > 0 {
		sort.Strings(dup)
		return allocation.Conflictf("mapping (session, room) ganda: %v", dup)
	}
	return nil
}
