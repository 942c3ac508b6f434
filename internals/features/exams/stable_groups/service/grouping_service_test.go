package service

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"examku_backend/internals/features/exams/allocation"
)

func makeTakers(n int) []TakerRef {
	out := make([]TakerRef, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, TakerRef{
			ID:        uuid.New(),
			RegNumber: fmt.Sprintf("26100%03d", i+1),
		})
	}
	return out
}

func sizesOf(plans []GroupPlan) []int {
	out := make([]int, 0, len(plans))
	for _, p := range plans {
		out = append(out, len(p.Members))
	}
	return out
}

func TestPlanGroups_SizesAndCodes(t *testing.T) {
	tests := []struct {
		name      string
		grade     int
		n         int
		size      int
		wantSizes []int
		wantCodes []string
	}{
		// Scenario: 50 peserta grade 10, cap 24 → 3 kelompok {17,17,16}
		{"50 takers cap 24", 10, 50, 24, []int{17, 17, 16}, []string{"10-1", "10-2", "10-3"}},
		{"exact fit", 11, 48, 24, []int{24, 24}, []string{"11-1", "11-2"}},
		{"single group", 12, 10, 24, []int{10}, []string{"12-1"}},
		{"one extra", 10, 25, 24, []int{13, 12}, []string{"10-1", "10-2"}},
		{"one taker", 10, 1, 24, []int{1}, []string{"10-1"}},
		{"seven by three", 10, 7, 3, []int{3, 2, 2}, []string{"10-1", "10-2", "10-3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			takers := makeTakers(tt.n)
			plans, err := PlanGroups(tt.grade, takers, tt.size)
			if err != nil {
				t.Fatalf("PlanGroups() error = %v", err)
			}
			if got := sizesOf(plans); !reflect.DeepEqual(got, tt.wantSizes) {
				t.Errorf("sizes = %v, want %v", got, tt.wantSizes)
			}
			codes := make([]string, 0, len(plans))
			for _, p := range plans {
				codes = append(codes, p.Code)
			}
			if !reflect.DeepEqual(codes, tt.wantCodes) {
				t.Errorf("codes = %v, want %v", codes, tt.wantCodes)
			}
		})
	}
}

func TestPlanGroups_Invariants(t *testing.T) {
	for _, n := range []int{1, 23, 24, 25, 49, 100, 997} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			takers := makeTakers(n)
			plans, err := PlanGroups(10, takers, 24)
			if err != nil {
				t.Fatalf("PlanGroups() error = %v", err)
			}

			wantK := (n + 23) / 24
			if len(plans) != wantK {
				t.Errorf("group count = %d, want %d", len(plans), wantK)
			}

			// max-min ≤ 1 dan union = roster tanpa duplikat/omisi.
			minSz, maxSz := n, 0
			seen := map[uuid.UUID]bool{}
			for _, p := range plans {
				sz := len(p.Members)
				if sz < minSz {
					minSz = sz
				}
				if sz > maxSz {
					maxSz = sz
				}
				for _, m := range p.Members {
					if seen[m.ID] {
						t.Fatalf("taker %s muncul dua kali", m.ID)
					}
					seen[m.ID] = true
				}
			}
			if maxSz-minSz > 1 {
				t.Errorf("size spread = %d, want <= 1", maxSz-minSz)
			}
			if len(seen) != n {
				t.Errorf("union size = %d, want %d", len(seen), n)
			}
		})
	}
}

func TestPlanGroups_Deterministic(t *testing.T) {
	takers := makeTakers(50)
	// input diacak urutan: hasil tetap sama karena sort by reg number
	shuffled := make([]TakerRef, len(takers))
	copy(shuffled, takers)
	for i := range shuffled {
		j := (i * 7) % len(shuffled)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	a, err := PlanGroups(10, takers, 24)
	if err != nil {
		t.Fatal(err)
	}
	b, err := PlanGroups(10, shuffled, 24)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("PlanGroups tidak deterministik terhadap urutan input")
	}
}

func TestPlanGroups_Errors(t *testing.T) {
	tests := []struct {
		name  string
		grade int
		size  int
	}{
		{"size nol", 10, 0},
		{"size negatif", 10, -5},
		{"grade nol", 0, 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlanGroups(tt.grade, makeTakers(10), tt.size)
			if got := allocation.ErrorCode(err); got != allocation.CodeValidation {
				t.Errorf("error code = %q, want %q", got, allocation.CodeValidation)
			}
		})
	}
}

func TestPlanGroups_EmptyRoster(t *testing.T) {
	plans, err := PlanGroups(10, nil, 24)
	if err != nil {
		t.Fatalf("PlanGroups() error = %v", err)
	}
	if len(plans) != 0 {
		t.Errorf("plans = %d, want 0", len(plans))
	}
}

func TestNextMemberPosition(t *testing.T) {
	tests := []struct {
		name      string
		positions []int
		want      int
	}{
		{"kelompok kosong", nil, 1},
		{"posisi rapat", []int{1, 2, 3}, 4},
		// Anggota posisi 1 sudah pindah keluar: posisi bolong, jumlah
		// anggota (2) tidak boleh dipakai karena 3 masih terisi.
		{"posisi bolong setelah move-out", []int{2, 3}, 4},
		{"satu anggota di posisi tinggi", []int{7}, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextMemberPosition(tt.positions); got != tt.want {
				t.Errorf("nextMemberPosition(%v) = %d, want %d", tt.positions, got, tt.want)
			}
		})
	}
}
