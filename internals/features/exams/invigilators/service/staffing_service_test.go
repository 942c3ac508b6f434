package service

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"examku_backend/internals/features/exams/allocation"
	"examku_backend/internals/features/exams/invigilators/model"
)

func iv(startHour, endHour int) allocation.Interval {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return allocation.Interval{
		Start: day.Add(time.Duration(startHour) * time.Hour),
		End:   day.Add(time.Duration(endHour) * time.Hour),
	}
}

func teacher(name string) TeacherInput {
	return TeacherInput{ID: uuid.New(), Name: name}
}

func emptyState() StaffingState {
	return StaffingState{Load: map[uuid.UUID]int{}, Busy: map[uuid.UUID][]allocation.Interval{}}
}

func TestPlanStaffing_NoOverlapPerTeacher(t *testing.T) {
	// Guru X dapat 07:00–09:00; ruang kedua 08:00–10:00 overlap → tanpa
	// guru lain, ruang kedua gagal, tidak dibiarkan dobel tugas.
	x := teacher("Pak X")
	rooms := []RoomToStaff{
		{RoomID: uuid.New(), RoomCode: "A101", SessionID: uuid.New(), Interval: iv(7, 9)},
		{RoomID: uuid.New(), RoomCode: "B202", SessionID: uuid.New(), Interval: iv(8, 10)},
	}

	slots, failed := PlanStaffing(rooms, []TeacherInput{x}, emptyState(), 10, false)
	if len(slots) != 1 || slots[0].TeacherID != x.ID {
		t.Fatalf("slots = %+v, want 1 slot untuk guru X", slots)
	}
	if !reflect.DeepEqual(failed, []string{"B202"}) {
		t.Errorf("failedRooms = %v, want [B202]", failed)
	}
}

func TestPlanStaffing_SecondTeacherTakesOverlap(t *testing.T) {
	x := teacher("Pak X")
	y := teacher("Bu Y")
	rooms := []RoomToStaff{
		{RoomID: uuid.New(), RoomCode: "A101", SessionID: uuid.New(), Interval: iv(7, 9)},
		{RoomID: uuid.New(), RoomCode: "B202", SessionID: uuid.New(), Interval: iv(8, 10)},
	}

	slots, failed := PlanStaffing(rooms, []TeacherInput{x, y}, emptyState(), 10, false)
	if len(failed) != 0 {
		t.Fatalf("failedRooms = %v, want kosong", failed)
	}
	if len(slots) != 2 {
		t.Fatalf("slots = %d, want 2", len(slots))
	}
	if slots[0].TeacherID == slots[1].TeacherID {
		t.Errorf("kedua ruang overlap dipegang guru yang sama: %s", slots[0].TeacherID)
	}
}

func TestPlanStaffing_MinLoadGreedy(t *testing.T) {
	// 3 ruang berurutan tanpa overlap, 2 guru → beban 2-1, bukan 3-0
	a := teacher("A")
	b := teacher("B")
	rooms := []RoomToStaff{
		{RoomID: uuid.New(), RoomCode: "R1", Interval: iv(7, 9)},
		{RoomID: uuid.New(), RoomCode: "R2", Interval: iv(9, 11)},
		{RoomID: uuid.New(), RoomCode: "R3", Interval: iv(13, 15)},
	}

	slots, failed := PlanStaffing(rooms, []TeacherInput{a, b}, emptyState(), 2, false)
	if len(failed) != 0 {
		t.Fatalf("failedRooms = %v", failed)
	}
	load := map[uuid.UUID]int{}
	for _, s := range slots {
		load[s.TeacherID]++
	}
	for id, n := range load {
		if n > 2 {
			t.Errorf("guru %s memikul %d slot, want ≤2 (spread min-load)", id, n)
		}
	}
	if len(load) != 2 {
		t.Errorf("hanya %d guru terpakai, want 2", len(load))
	}
}

func TestPlanStaffing_TieBreakTeacherID(t *testing.T) {
	a := teacher("A")
	b := teacher("B")
	rooms := []RoomToStaff{{RoomID: uuid.New(), RoomCode: "R1", Interval: iv(7, 9)}}

	slots, _ := PlanStaffing(rooms, []TeacherInput{a, b}, emptyState(), 2, false)
	wantID := a.ID
	if b.ID.String() < a.ID.String() {
		wantID = b.ID
	}
	if slots[0].TeacherID != wantID {
		t.Errorf("teacher = %s, want %s (tie-break id naik)", slots[0].TeacherID, wantID)
	}
}

func TestPlanStaffing_MainThenAssistants(t *testing.T) {
	a := teacher("A")
	b := teacher("B")
	c := teacher("C")
	rooms := []RoomToStaff{{RoomID: uuid.New(), RoomCode: "R1", Interval: iv(7, 9), Assistants: 2}}

	slots, failed := PlanStaffing(rooms, []TeacherInput{a, b, c}, emptyState(), 3, false)
	if len(failed) != 0 {
		t.Fatalf("failedRooms = %v", failed)
	}
	if len(slots) != 3 {
		t.Fatalf("slots = %d, want 3 (1 main + 2 assistant)", len(slots))
	}
	if slots[0].Role != model.RoleMain {
		t.Errorf("slot pertama role = %s, want %s", slots[0].Role, model.RoleMain)
	}
	for _, s := range slots[1:] {
		if s.Role != model.RoleAssistant {
			t.Errorf("slot lanjutan role = %s, want %s", s.Role, model.RoleAssistant)
		}
	}
	seen := map[uuid.UUID]bool{}
	for _, s := range slots {
		if seen[s.TeacherID] {
			t.Errorf("guru %s dobel dalam satu ruang", s.TeacherID)
		}
		seen[s.TeacherID] = true
	}
}

func TestPlanStaffing_TeachingConflictSkipped(t *testing.T) {
	math := teacher("Guru MTK")
	math.Teaching = map[string][]int{"MAT": {10}}
	other := teacher("Guru Lain")

	rooms := []RoomToStaff{
		{RoomID: uuid.New(), RoomCode: "R1", SubjectCode: "MAT", Grade: 10, Interval: iv(7, 9)},
	}

	slots, failed := PlanStaffing(rooms, []TeacherInput{math, other}, emptyState(), 2, true)
	if len(failed) != 0 {
		t.Fatalf("failedRooms = %v", failed)
	}
	if slots[0].TeacherID != other.ID {
		t.Errorf("pengawas = %s, want guru non-pengampu", slots[0].TeacherID)
	}

	// cek dimatikan → guru mapel boleh mengawas
	slots, _ = PlanStaffing(rooms, []TeacherInput{math}, emptyState(), 2, false)
	if len(slots) != 1 || slots[0].TeacherID != math.ID {
		t.Errorf("dengan cek mati, guru mapel harus boleh ditugaskan")
	}
}

func TestPlanStaffing_ExistingStateCounts(t *testing.T) {
	a := teacher("A")
	b := teacher("B")
	state := emptyState()
	state.Load[a.ID] = 3 // sudah banyak bertugas di session sebelumnya

	rooms := []RoomToStaff{{RoomID: uuid.New(), RoomCode: "R1", Interval: iv(7, 9)}}
	slots, _ := PlanStaffing(rooms, []TeacherInput{a, b}, state, 2, false)
	if slots[0].TeacherID != b.ID {
		t.Errorf("teacher = %s, want guru dengan beban awal lebih ringan", slots[0].TeacherID)
	}
}

func TestPlanStaffing_NoTeachers(t *testing.T) {
	rooms := []RoomToStaff{{RoomID: uuid.New(), RoomCode: "R1", Interval: iv(7, 9)}}
	slots, failed := PlanStaffing(rooms, nil, emptyState(), 2, false)
	if len(slots) != 0 {
		t.Errorf("slots = %v, want kosong", slots)
	}
	if !reflect.DeepEqual(failed, []string{"R1"}) {
		t.Errorf("failedRooms = %v, want [R1]", failed)
	}
}

func TestPlanStaffing_ChronologicalOrder(t *testing.T) {
	// input acak, ruang tetap diproses urut waktu lalu kode ruang
	rooms := []RoomToStaff{
		{RoomID: uuid.New(), RoomCode: "Z9", Interval: iv(10, 12)},
		{RoomID: uuid.New(), RoomCode: "A1", Interval: iv(7, 9)},
		{RoomID: uuid.New(), RoomCode: "B2", Interval: iv(7, 9)},
	}
	teachers := []TeacherInput{teacher("A"), teacher("B"), teacher("C")}

	slots, failed := PlanStaffing(rooms, teachers, emptyState(), 3, false)
	if len(failed) != 0 {
		t.Fatalf("failedRooms = %v", failed)
	}
	byRoom := map[uuid.UUID]uuid.UUID{}
	for _, s := range slots {
		byRoom[s.RoomID] = s.TeacherID
	}
	// dua ruang 07:00 overlap → guru berbeda
	if byRoom[rooms[1].RoomID] == byRoom[rooms[2].RoomID] {
		t.Errorf("ruang A1 dan B2 overlap tapi dipegang guru yang sama")
	}
}
