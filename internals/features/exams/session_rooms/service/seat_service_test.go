package service

import (
	"testing"

	"github.com/google/uuid"

	"examku_backend/internals/features/exams/allocation"
)

func seatTakers(regs ...string) []SeatTaker {
	out := make([]SeatTaker, 0, len(regs))
	for _, r := range regs {
		out = append(out, SeatTaker{TakerID: uuid.New(), RegNumber: r})
	}
	return out
}

func TestPlanSeats_OrderedByRegNumber(t *testing.T) {
	takers := seatTakers("26100003", "26100001", "26100002")

	plans, err := PlanSeats(takers, nil)
	if err != nil {
		t.Fatalf("PlanSeats() error = %v", err)
	}

	wantRegs := []string{"26100001", "26100002", "26100003"}
	for i, p := range plans {
		if p.SeatNumber != i+1 {
			t.Errorf("seat[%d] number = %d, want %d", i, p.SeatNumber, i+1)
		}
		if p.RegNumber != wantRegs[i] {
			t.Errorf("seat[%d] reg = %s, want %s", i, p.RegNumber, wantRegs[i])
		}
	}
}

func TestPlanSeats_ContiguousRange(t *testing.T) {
	takers := seatTakers("05", "03", "01", "04", "02", "07", "06")
	plans, err := PlanSeats(takers, nil)
	if err != nil {
		t.Fatal(err)
	}
	seen := map[int]bool{}
	for _, p := range plans {
		if p.SeatNumber < 1 || p.SeatNumber > len(takers) {
			t.Errorf("seat number %d di luar 1..%d", p.SeatNumber, len(takers))
		}
		if seen[p.SeatNumber] {
			t.Errorf("seat number %d ganda", p.SeatNumber)
		}
		seen[p.SeatNumber] = true
	}
	if len(seen) != len(takers) {
		t.Errorf("seat count = %d, want %d (range 1..k tanpa celah)", len(seen), len(takers))
	}
}

func TestPlanSeats_OverrideOrdering(t *testing.T) {
	takers := seatTakers("01", "02", "03")
	override := []uuid.UUID{takers[2].TakerID, takers[0].TakerID, takers[1].TakerID}

	plans, err := PlanSeats(takers, override)
	if err != nil {
		t.Fatalf("PlanSeats() error = %v", err)
	}
	if plans[0].TakerID != takers[2].TakerID || plans[0].SeatNumber != 1 {
		t.Errorf("kursi 1 = %s, want taker urutan override pertama", plans[0].TakerID)
	}
	if plans[2].TakerID != takers[1].TakerID {
		t.Errorf("kursi 3 = %s, want taker urutan override terakhir", plans[2].TakerID)
	}
}

func TestPlanSeats_OverrideErrors(t *testing.T) {
	takers := seatTakers("01", "02", "03")
	outsider := uuid.New()

	tests := []struct {
		name     string
		override []uuid.UUID
	}{
		{"kurang anggota", []uuid.UUID{takers[0].TakerID}},
		{"bukan penghuni", []uuid.UUID{takers[0].TakerID, takers[1].TakerID, outsider}},
		{"taker ganda", []uuid.UUID{takers[0].TakerID, takers[0].TakerID, takers[1].TakerID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlanSeats(takers, tt.override)
			if got := allocation.ErrorCode(err); got != allocation.CodeValidation {
				t.Errorf("error code = %q, want %q", got, allocation.CodeValidation)
			}
		})
	}
}

func TestPlanSeats_EmptyRoom(t *testing.T) {
	_, err := PlanSeats(nil, nil)
	if got := allocation.ErrorCode(err); got != allocation.CodeValidation {
		t.Errorf("error code = %q, want %q", got, allocation.CodeValidation)
	}
}

func TestPlanSeats_DuplicateOccupant(t *testing.T) {
	dup := SeatTaker{TakerID: uuid.New(), RegNumber: "01"}
	_, err := PlanSeats([]SeatTaker{dup, dup}, nil)
	if got := allocation.ErrorCode(err); got != allocation.CodeConflict {
		t.Errorf("error code = %q, want %q", got, allocation.CodeConflict)
	}
}
