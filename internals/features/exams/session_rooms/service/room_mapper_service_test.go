package service

import (
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/google/uuid"

	"examku_backend/internals/features/exams/allocation"
)

func group(code string, size int) GroupSize {
	return GroupSize{ID: uuid.New(), Code: code, Size: size}
}

func bindingsByGroup(bindings []RoomBinding) map[string][]string {
	out := map[string][]string{}
	for _, b := range bindings {
		out[b.GroupCode] = append(out[b.GroupCode], b.RoomCode)
	}
	return out
}

func TestPlanRoomMapping_BestFit(t *testing.T) {
	// Scenario: groups {24,18,10}, rooms {25,20,10} → 24→25, 18→20, 10→10
	groups := []GroupSize{group("10-1", 24), group("10-2", 18), group("10-3", 10)}
	rooms := []RoomInput{
		{Code: "A101", Name: "A101", Capacity: 25},
		{Code: "A102", Name: "A102", Capacity: 20},
		{Code: "A103", Name: "A103", Capacity: 10},
	}

	bindings, err := PlanRoomMapping(groups, rooms, 0, "", true)
	if err != nil {
		t.Fatalf("PlanRoomMapping() error = %v", err)
	}
	want := map[string][]string{
		"10-1": {"A101"},
		"10-2": {"A102"},
		"10-3": {"A103"},
	}
	if got := bindingsByGroup(bindings); !reflect.DeepEqual(got, want) {
		t.Errorf("bindings = %v, want %v", got, want)
	}
}

func TestPlanRoomMapping_TieBreakRoomCode(t *testing.T) {
	groups := []GroupSize{group("10-1", 18)}
	rooms := []RoomInput{
		{Code: "B201", Capacity: 20},
		{Code: "A101", Capacity: 20},
	}
	bindings, err := PlanRoomMapping(groups, rooms, 0, "", true)
	if err != nil {
		t.Fatal(err)
	}
	if bindings[0].RoomCode != "A101" {
		t.Errorf("room = %s, want A101 (tie-break kode ruang naik)", bindings[0].RoomCode)
	}
}

func TestPlanRoomMapping_SplitLargeGroup(t *testing.T) {
	// Kelompok 60 > semua ruang → dipecah: 30 (R1) + 30 sisanya best-fit
	groups := []GroupSize{group("10-1", 60)}
	rooms := []RoomInput{
		{Code: "R1", Capacity: 30},
		{Code: "R2", Capacity: 30},
		{Code: "R3", Capacity: 40},
	}
	bindings, err := PlanRoomMapping(groups, rooms, 0, "", true)
	if err != nil {
		t.Fatalf("PlanRoomMapping() error = %v", err)
	}

	total := 0
	parts := []int{}
	for _, b := range bindings {
		total += b.Assigned
		parts = append(parts, b.Part)
	}
	if total != 60 {
		t.Errorf("total assigned = %d, want 60", total)
	}
	sort.Ints(parts)
	if !reflect.DeepEqual(parts, []int{1, 2}) {
		t.Errorf("parts = %v, want [1 2]", parts)
	}
	// part pertama ke ruang terbesar (R3 cap 40), sisa 20 best-fit (R1/R2=30, kode R1)
	if bindings[0].RoomCode != "R3" || bindings[0].Assigned != 40 {
		t.Errorf("part 1 = %s/%d, want R3/40", bindings[0].RoomCode, bindings[0].Assigned)
	}
	if bindings[1].RoomCode != "R1" || bindings[1].Assigned != 20 {
		t.Errorf("part 2 = %s/%d, want R1/20", bindings[1].RoomCode, bindings[1].Assigned)
	}
}

func TestPlanRoomMapping_NoSplitWhenDisabled(t *testing.T) {
	groups := []GroupSize{group("10-1", 60)}
	rooms := []RoomInput{{Code: "R1", Capacity: 30}}

	_, err := PlanRoomMapping(groups, rooms, 0, "", false)
	var ce *allocation.CapacityError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want CapacityError", err)
	}
	if !reflect.DeepEqual(ce.Unassigned, []string{"10-1"}) {
		t.Errorf("Unassigned = %v, want [10-1]", ce.Unassigned)
	}
}

func TestPlanRoomMapping_CapacityErrorNamesGroups(t *testing.T) {
	groups := []GroupSize{group("10-1", 24), group("10-2", 24), group("10-3", 24)}
	rooms := []RoomInput{
		{Code: "A101", Capacity: 25},
		{Code: "A102", Capacity: 25},
	}
	_, err := PlanRoomMapping(groups, rooms, 0, "", false)
	var ce *allocation.CapacityError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want CapacityError", err)
	}
	if !reflect.DeepEqual(ce.Unassigned, []string{"10-3"}) {
		t.Errorf("Unassigned = %v, want [10-3]", ce.Unassigned)
	}
}

func TestPlanRoomMapping_MaxPerRoomCapsCapacity(t *testing.T) {
	groups := []GroupSize{group("10-1", 25)}
	rooms := []RoomInput{{Code: "AULA", Capacity: 100}}

	// cap per ruang 20 → kelompok 25 harus dipecah walau aula muat 100
	bindings, err := PlanRoomMapping(groups, rooms, 20, "", true)
	var ce *allocation.CapacityError
	if errors.As(err, &ce) {
		// satu ruang, cap 20, butuh 25 → part kedua tidak kebagian ruang
		if !reflect.DeepEqual(ce.Unassigned, []string{"10-1"}) {
			t.Errorf("Unassigned = %v, want [10-1]", ce.Unassigned)
		}
		return
	}
	t.Fatalf("bindings = %v, err = %v; want CapacityError", bindings, err)
}

func TestPlanRoomMapping_RoomTypeFilter(t *testing.T) {
	groups := []GroupSize{group("10-1", 10)}
	rooms := []RoomInput{
		{Code: "LAB1", Capacity: 30, Type: "lab"},
		{Code: "K101", Capacity: 30, Type: "classroom"},
	}
	bindings, err := PlanRoomMapping(groups, rooms, 0, "lab", true)
	if err != nil {
		t.Fatal(err)
	}
	if bindings[0].RoomCode != "LAB1" {
		t.Errorf("room = %s, want LAB1", bindings[0].RoomCode)
	}
}

func TestPlanRoomMapping_Validation(t *testing.T) {
	tests := []struct {
		name   string
		groups []GroupSize
		rooms  []RoomInput
	}{
		{"tanpa kelompok", nil, []RoomInput{{Code: "A", Capacity: 10}}},
		{"kapasitas nol", []GroupSize{group("10-1", 5)}, []RoomInput{{Code: "A", Capacity: 0}}},
		{"kode ruang ganda", []GroupSize{group("10-1", 5)}, []RoomInput{{Code: "A", Capacity: 10}, {Code: "A", Capacity: 20}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlanRoomMapping(tt.groups, tt.rooms, 0, "", true)
			if got := allocation.ErrorCode(err); got != allocation.CodeValidation {
				t.Errorf("error code = %q, want %q", got, allocation.CodeValidation)
			}
		})
	}
}

func TestPlanRoomMapping_Deterministic(t *testing.T) {
	groups := []GroupSize{group("10-2", 20), group("10-1", 20), group("10-3", 15)}
	rooms := []RoomInput{
		{Code: "C3", Capacity: 20},
		{Code: "C1", Capacity: 25},
		{Code: "C2", Capacity: 20},
	}
	a, err := PlanRoomMapping(groups, rooms, 0, "", true)
	if err != nil {
		t.Fatal(err)
	}
	// ukuran sama → urut kode kelompok; ruang sama kapasitas → kode naik
	wantOrder := []struct{ g, r string }{
		{"10-1", "C2"}, // 20 → best fit 20, tie C2 < C3
		{"10-2", "C3"},
		{"10-3", "C1"}, // 15 → sisa hanya C1
	}
	for i, w := range wantOrder {
		if a[i].GroupCode != w.g || a[i].RoomCode != w.r {
			t.Errorf("binding[%d] = %s→%s, want %s→%s", i, a[i].GroupCode, a[i].RoomCode, w.g, w.r)
		}
	}
}
