package allocation

import (
	"testing"
	"time"
)

func at(h, m int) time.Time {
	return time.Date(2026, 4, 6, h, m, 0, 0, time.UTC)
}

func TestInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"identical", Interval{at(7, 0), at(9, 0)}, Interval{at(7, 0), at(9, 0)}, true},
		{"partial overlap", Interval{at(7, 0), at(9, 0)}, Interval{at(8, 0), at(10, 0)}, true},
		{"contained", Interval{at(7, 0), at(11, 0)}, Interval{at(8, 0), at(9, 0)}, true},
		{"back to back", Interval{at(7, 0), at(9, 0)}, Interval{at(9, 0), at(11, 0)}, false},
		{"disjoint", Interval{at(7, 0), at(8, 0)}, Interval{at(10, 0), at(11, 0)}, false},
		{"reversed args", Interval{at(8, 0), at(10, 0)}, Interval{at(7, 0), at(9, 0)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps() not symmetric: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorCodeBasic(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", Validationf("ukuran kelompok %d tidak valid", 0), CodeValidation},
		{"capacity", &CapacityError{Msg: "ruang habis", Unassigned: []string{"10-3"}}, CodeCapacity},
		{"conflict", Conflictf("kursi ganda"), CodeConflict},
		{"staff", &InsufficientStaffError{Msg: "guru kurang", Rooms: []string{"A101"}}, CodeInsufficientStaff},
		{"already", &AlreadyAssignedError{Msg: "sudah ada kursi"}, CodeAlreadyAssigned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.want {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBatchReport_Add(t *testing.T) {
	r := NewBatchReport()
	r.Add("grade:10", nil)
	r.Add("grade:11", &CapacityError{Msg: "ruang habis"})
	r.Add("grade:12", nil)

	if r.Total != 3 || r.Succeeded != 2 || r.Failed != 1 {
		t.Fatalf("report counters = %d/%d/%d, want 3/2/1", r.Total, r.Succeeded, r.Failed)
	}
	if r.Units[1].ErrorCode != CodeCapacity {
		t.Errorf("failed unit code = %q, want %q", r.Units[1].ErrorCode, CodeCapacity)
	}
	if r.AllFailed() {
		t.Error("AllFailed() = true, want false")
	}
}
