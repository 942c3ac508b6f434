// file: internals/features/exams/allocation/interval.go
package allocation

import "time"

// Interval waktu half-open [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps: dua interval bertabrakan jika saling memotong.
// Back-to-back (A berakhir tepat saat B mulai) bukan tabrakan.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

func (iv Interval) IsValid() bool {
	return iv.End.After(iv.Start)
}
