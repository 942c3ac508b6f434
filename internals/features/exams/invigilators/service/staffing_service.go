// file: internals/features/exams/invigilators/service/staffing_service.go
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"examku_backend/internals/features/exams/allocation"
	sessModel "examku_backend/internals/features/exams/exam_sessions/model"
	termModel "examku_backend/internals/features/exams/exam_terms/model"
	"examku_backend/internals/features/exams/invigilators/model"
	roomModel "examku_backend/internals/features/exams/session_rooms/model"
)

/* =========================
   Planner (pure, min-load greedy)
========================= */

type TeacherInput struct {
	ID     uuid.UUID `json:"id" validate:"required"`
	Name   string    `json:"name" validate:"required"`
	Weight float64   `json:"weight"` // opsional; >1 = beban dihitung lebih berat
	// subject_code → daftar grade yang dia ajar (untuk cek konflik mengajar)
	Teaching map[string][]int `json:"teaching"`
}

type RoomToStaff struct {
	RoomID      uuid.UUID
	RoomCode    string
	SessionID   uuid.UUID
	SubjectCode string
	Grade       int
	Interval    allocation.Interval
	Assistants  int
}

type SlotPlan struct {
	RoomID      uuid.UUID
	SessionID   uuid.UUID
	TeacherID   uuid.UUID
	TeacherName string
	Role        string
}

// StaffingState: beban & interval sibuk yang sudah ada (slot term berjalan).
type StaffingState struct {
	Load map[uuid.UUID]int
	Busy map[uuid.UUID][]allocation.Interval
}

// PlanStaffing menugaskan 1 main + n assistant per ruang, session diproses
// kronologis. Pilihan: guru eligible dengan beban terkecil (min-load greedy,
// weight pluggable), tie-break id guru naik. Eligible = tidak overlap,
// tidak konflik mengajar (bila dicek), dan beban tetap di dalam band
// fairness di sekitar mean. Ruang yang tak bisa distaf dikembalikan utuh
// di failedRooms — tidak pernah dibiarkan kosong diam-diam.
func PlanStaffing(rooms []RoomToStaff, teachers []TeacherInput, state StaffingState, band int, checkTeaching bool) (slots []SlotPlan, failedRooms []string) {
	if len(rooms) == 0 || len(teachers) == 0 {
		for _, r := range rooms {
			failedRooms = append(failedRooms, r.RoomCode)
		}
		return nil, failedRooms
	}
	if band <= 0 {
		band = termModel.DefaultFairnessBand
	}

	ordered := make([]RoomToStaff, len(rooms))
	copy(ordered, rooms)
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].Interval.Start.Equal(ordered[j].Interval.Start) {
			return ordered[i].Interval.Start.Before(ordered[j].Interval.Start)
		}
		return ordered[i].RoomCode < ordered[j].RoomCode
	})

	load := map[uuid.UUID]int{}
	busy := map[uuid.UUID][]allocation.Interval{}
	total := 0
	for id, n := range state.Load {
		load[id] = n
		total += n
	}
	for id, ivs := range state.Busy {
		busy[id] = append(busy[id], ivs...)
	}

	weight := func(t TeacherInput) float64 {
		if t.Weight > 0 {
			return t.Weight
		}
		return 1
	}

	teaches := func(t TeacherInput, subject string, grade int) bool {
		for _, g := range t.Teaching[subject] {
			if g == grade {
				return true
			}
		}
		return false
	}

	overlaps := func(id uuid.UUID, iv allocation.Interval) bool {
		for _, b := range busy[id] {
			if b.Overlaps(iv) {
				return true
			}
		}
		return false
	}

	for _, room := range ordered {
		need := 1 + room.Assistants
		picked := map[uuid.UUID]bool{}
		roomSlots := make([]SlotPlan, 0, need)

		for slot := 0; slot < need; slot++ {
			var best *TeacherInput
			for i := range teachers {
				t := &teachers[i]
				if picked[t.ID] || overlaps(t.ID, room.Interval) {
					continue
				}
				if checkTeaching && teaches(*t, room.SubjectCode, room.Grade) {
					continue
				}
				// fairness band di sekitar mean beban term
				mean := float64(total+1) / float64(len(teachers))
				if float64(load[t.ID]+1)-mean > float64(band) {
					continue
				}
				if best == nil ||
					float64(load[t.ID])*weight(*t) < float64(load[best.ID])*weight(*best) ||
					(float64(load[t.ID])*weight(*t) == float64(load[best.ID])*weight(*best) &&
						t.ID.String() < best.ID.String()) {
					best = t
				}
			}
			if best == nil {
				break
			}
			role := model.RoleAssistant
			if slot == 0 {
				role = model.RoleMain
			}
			roomSlots = append(roomSlots, SlotPlan{
				RoomID: room.RoomID, SessionID: room.SessionID,
				TeacherID: best.ID, TeacherName: best.Name, Role: role,
			})
			picked[best.ID] = true
			load[best.ID]++
			total++
			busy[best.ID] = append(busy[best.ID], room.Interval)
		}

		if len(roomSlots) < need {
			// rollback pilihan ruang ini supaya ruang berikutnya tetap fair
			for _, sp := range roomSlots {
				load[sp.TeacherID]--
				total--
				ivs := busy[sp.TeacherID]
				busy[sp.TeacherID] = ivs[:len(ivs)-1]
			}
			failedRooms = append(failedRooms, room.RoomCode)
			continue
		}
		slots = append(slots, roomSlots...)
	}
	return slots, failedRooms
}

/* =========================
   Service (tx apply)
========================= */

type StaffingService struct {
	DB *gorm.DB
}

func NewStaffingService(db *gorm.DB) *StaffingService {
	return &StaffingService{DB: db}
}

type StaffSessionRequest struct {
	Teachers   []TeacherInput `json:"teachers" validate:"required,min=1,dive"`
	Assistants int            `json:"assistants" validate:"omitempty,min=0"`
}

type StaffSessionResult struct {
	SessionID uuid.UUID                    `json:"session_id"`
	Slots     []model.InvigilatorSlotModel `json:"slots"`
}

// StaffSession menstaf seluruh ruang satu session. All-or-nothing: satu
// ruang gagal → InsufficientStaffError dan tidak ada slot ditulis.
func (s *StaffingService) StaffSession(ctx context.Context, term *termModel.ExamTermModel, sessionID uuid.UUID, req StaffSessionRequest) (*StaffSessionResult, error) {
	if !term.IsEditable() {
		return nil, allocation.Conflictf("term berstatus %s, penugasan pengawas tidak bisa diubah", term.ExamTermStatus)
	}
	var out StaffSessionResult

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sess sessModel.ExamSessionModel
		if err := tx.First(&sess, "exam_session_id = ? AND exam_session_term_id = ?", sessionID, term.ExamTermID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return allocation.Validationf("session %s tidak ditemukan pada term ini", sessionID)
			}
			return err
		}

		var rooms []roomModel.SessionRoomModel
		if err := tx.
			Where("session_room_session_id = ?", sessionID).
			Order("session_room_room_code ASC").
			Find(&rooms).Error; err != nil {
			return err
		}
		if len(rooms) == 0 {
			return allocation.Validationf("session belum punya mapping ruang")
		}

		var staffedCount int64
		roomIDs := make([]uuid.UUID, 0, len(rooms))
		for _, r := range rooms {
			roomIDs = append(roomIDs, r.SessionRoomID)
		}
		if err := tx.Model(&model.InvigilatorSlotModel{}).
			Where("invigilator_slot_session_room_id IN ?", roomIDs).
			Count(&staffedCount).Error; err != nil {
			return err
		}
		if staffedCount > 0 {
			return &allocation.AlreadyAssignedError{
				Msg: fmt.Sprintf("session sudah punya %d slot pengawas; hapus dulu sebelum auto-assign ulang", staffedCount),
			}
		}

		state, err := loadStaffingState(tx, term.ExamTermID)
		if err != nil {
			return err
		}

		toStaff := make([]RoomToStaff, 0, len(rooms))
		for _, r := range rooms {
			toStaff = append(toStaff, RoomToStaff{
				RoomID:      r.SessionRoomID,
				RoomCode:    r.SessionRoomRoomCode,
				SessionID:   sessionID,
				SubjectCode: sess.ExamSessionSubjectCode,
				Grade:       sess.ExamSessionGrade,
				Interval:    sess.Interval(),
				Assistants:  req.Assistants,
			})
		}

		policy := term.Policy()
		plans, failed := PlanStaffing(toStaff, req.Teachers, state, policy.FairnessBand, policy.CheckTeachingConflict)
		if len(failed) > 0 {
			sort.Strings(failed)
			return &allocation.InsufficientStaffError{
				Msg:   "ada ruang yang tidak bisa distaf",
				Rooms: failed,
			}
		}

		slots := make([]model.InvigilatorSlotModel, 0, len(plans))
		perRoom := map[uuid.UUID]int{}
		for _, p := range plans {
			slots = append(slots, model.InvigilatorSlotModel{
				InvigilatorSlotSessionRoomID: p.RoomID,
				InvigilatorSlotSessionID:     p.SessionID,
				InvigilatorSlotTermID:        term.ExamTermID,
				InvigilatorSlotTeacherID:     p.TeacherID,
				InvigilatorSlotTeacherName:   p.TeacherName,
				InvigilatorSlotRole:          p.Role,
			})
			perRoom[p.RoomID]++
		}
		if err := tx.Create(&slots).Error; err != nil {
			return err
		}
		for roomID, n := range perRoom {
			if err := tx.Model(&roomModel.SessionRoomModel{}).
				Where("session_room_id = ?", roomID).
				Update("session_room_invigilator_count", n).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&sessModel.ExamSessionModel{}).
			Where("exam_session_id = ?", sessionID).
			Update("exam_session_invigilator_count", len(slots)).Error; err != nil {
			return err
		}

		out = StaffSessionResult{SessionID: sessionID, Slots: slots}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// StaffTerm menstaf session demi session (kronologis) sebagai unit
// independen dengan laporan per unit.
func (s *StaffingService) StaffTerm(ctx context.Context, term *termModel.ExamTermModel, req StaffSessionRequest) (*allocation.BatchReport, error) {
	if !term.IsEditable() {
		return nil, allocation.Conflictf("term berstatus %s, penugasan pengawas tidak bisa diubah", term.ExamTermStatus)
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
		_, err := s.StaffSession(ctx, term, sess.ExamSessionID, req)
		report.Add(unit, err)
	}
	return report, nil
}

type ManualAssignRequest struct {
	TeacherID   uuid.UUID `json:"teacher_id" validate:"required"`
	TeacherName string    `json:"teacher_name" validate:"required"`
	Role        string    `json:"role" validate:"required,oneof=main assistant"`
	Force       bool      `json:"force"`
}

// AssignManual menugaskan satu guru ke satu ruang secara langsung.
// Overlap interval ditolak dengan ConflictError kecuali force=true;
// dengan force, konflik dicatat sebagai warning di slot, bukan diblok.
func (s *StaffingService) AssignManual(ctx context.Context, term *termModel.ExamTermModel, roomID uuid.UUID, req ManualAssignRequest) (*model.InvigilatorSlotModel, error) {
	if !term.IsEditable() {
		return nil, allocation.Conflictf("term berstatus %s, penugasan pengawas tidak bisa diubah", term.ExamTermStatus)
	}
	var out model.InvigilatorSlotModel

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room roomModel.SessionRoomModel
		if err := tx.First(&room, "session_room_id = ? AND session_room_term_id = ?", roomID, term.ExamTermID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return allocation.Validationf("session room %s tidak ditemukan pada term ini", roomID)
			}
			return err
		}
		var sess sessModel.ExamSessionModel
		if err := tx.First(&sess, "exam_session_id = ?", room.SessionRoomSessionID).Error; err != nil {
			return err
		}

		var dup int64
		if err := tx.Model(&model.InvigilatorSlotModel{}).
			Where("invigilator_slot_session_room_id = ? AND invigilator_slot_teacher_id = ?", roomID, req.TeacherID).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return allocation.Conflictf("guru sudah punya slot di ruang %s", room.SessionRoomRoomCode)
		}
		if req.Role == model.RoleMain {
			var mains int64
			if err := tx.Model(&model.InvigilatorSlotModel{}).
				Where("invigilator_slot_session_room_id = ? AND invigilator_slot_role = ?", roomID, model.RoleMain).
				Count(&mains).Error; err != nil {
				return err
			}
			if mains > 0 {
				return allocation.Conflictf("ruang %s sudah punya pengawas utama", room.SessionRoomRoomCode)
			}
		}

		overlapRooms, err := teacherOverlaps(tx, term.ExamTermID, req.TeacherID, sess.Interval())
		if err != nil {
			return err
		}

		slot := model.InvigilatorSlotModel{
			InvigilatorSlotSessionRoomID: roomID,
			InvigilatorSlotSessionID:     room.SessionRoomSessionID,
			InvigilatorSlotTermID:        term.ExamTermID,
			InvigilatorSlotTeacherID:     req.TeacherID,
			InvigilatorSlotTeacherName:   req.TeacherName,
			InvigilatorSlotRole:          req.Role,
		}
		if len(overlapRooms) > 0 {
			if !req.Force {
				return allocation.Conflictf("guru sudah bertugas di slot waktu yang sama (ruang %v)", overlapRooms)
			}
			slot.InvigilatorSlotIsForced = true
			note := fmt.Sprintf("overlap dengan ruang %v, dipaksa oleh admin", overlapRooms)
			slot.InvigilatorSlotConflictNote = &note
		}

		if err := tx.Create(&slot).Error; err != nil {
			return err
		}
		if err := tx.Model(&roomModel.SessionRoomModel{}).
			Where("session_room_id = ?", roomID).
			Update("session_room_invigilator_count", gorm.Expr("session_room_invigilator_count + 1")).Error; err != nil {
			return err
		}
		if err := tx.Model(&sessModel.ExamSessionModel{}).
			Where("exam_session_id = ?", room.SessionRoomSessionID).
			Update("exam_session_invigilator_count", gorm.Expr("exam_session_invigilator_count + 1")).Error; err != nil {
			return err
		}

		out = slot
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveAll menghapus semua slot pengawas satu term tanpa menyentuh
// mapping ruang maupun kursi.
func (s *StaffingService) RemoveAll(ctx context.Context, term *termModel.ExamTermModel) (int64, error) {
	if !term.IsEditable() {
		return 0, allocation.Conflictf("term berstatus %s, penugasan pengawas tidak bisa diubah", term.ExamTermStatus)
	}
	termID := term.ExamTermID
	var removed int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("invigilator_slot_term_id = ?", termID).
			Delete(&model.InvigilatorSlotModel{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected

		if err := tx.Model(&roomModel.SessionRoomModel{}).
			Where("session_room_term_id = ?", termID).
			Update("session_room_invigilator_count", 0).Error; err != nil {
			return err
		}
		return tx.Model(&sessModel.ExamSessionModel{}).
			Where("exam_session_term_id = ?", termID).
			Update("exam_session_invigilator_count", 0).Error
	})
	return removed, err
}

/* =========================
   Internal
========================= */

// loadStaffingState menghitung beban & interval sibuk dari slot term yang
// sudah ada, supaya auto-assign session berikutnya tetap fair.
func loadStaffingState(tx *gorm.DB, termID uuid.UUID) (StaffingState, error) {
	state := StaffingState{
		Load: map[uuid.UUID]int{},
		Busy: map[uuid.UUID][]allocation.Interval{},
	}

	var rows []struct {
		TeacherID uuid.UUID `gorm:"column:teacher_id"`
		StartAt   time.Time `gorm:"column:start_at"`
		EndAt     time.Time `gorm:"column:end_at"`
	}
	if err := tx.Model(&model.InvigilatorSlotModel{}).
		Select("invigilator_slots.invigilator_slot_teacher_id AS teacher_id, exam_sessions.exam_session_start_at AS start_at, exam_sessions.exam_session_end_at AS end_at").
		Joins("JOIN exam_sessions ON exam_sessions.exam_session_id = invigilator_slots.invigilator_slot_session_id").
		Where("invigilator_slots.invigilator_slot_term_id = ?", termID).
		Scan(&rows).Error; err != nil {
		return state, err
	}

	for _, r := range rows {
		state.Load[r.TeacherID]++
		state.Busy[r.TeacherID] = append(state.Busy[r.TeacherID], allocation.Interval{Start: r.StartAt, End: r.EndAt})
	}
	return state, nil
}

func teacherOverlaps(tx *gorm.DB, termID, teacherID uuid.UUID, iv allocation.Interval) ([]string, error) {
	var rooms []string
	err := tx.Model(&model.InvigilatorSlotModel{}).
		Joins("JOIN exam_sessions ON exam_sessions.exam_session_id = invigilator_slots.invigilator_slot_session_id").
		Joins("JOIN session_rooms ON session_rooms.session_room_id = invigilator_slots.invigilator_slot_session_room_id").
		Where("invigilator_slots.invigilator_slot_term_id = ? AND invigilator_slots.invigilator_slot_teacher_id = ?", termID, teacherID).
		Where("exam_sessions.exam_session_start_at < ? AND ? < exam_sessions.exam_session_end_at", iv.End, iv.Start).
		Distinct().
		Pluck("session_rooms.session_room_room_code", &rooms).Error
	return rooms, err
}
