package service

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func TestBuildRegNumber(t *testing.T) {
	tests := []struct {
		year, grade, seq int
		want             string
	}{
		{2026, 10, 7, "26100007"},
		{2026, 7, 1, "26070001"},
		{2025, 12, 1234, "25121234"},
		{2030, 9, 9999, "30099999"},
	}
	for _, tt := range tests {
		if got := BuildRegNumber(tt.year, tt.grade, tt.seq); got != tt.want {
			t.Errorf("BuildRegNumber(%d, %d, %d) = %s, want %s", tt.year, tt.grade, tt.seq, got, tt.want)
		}
	}
}

func TestSortRoster_CanonicalOrder(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	b := uuid.MustParse("00000000-0000-0000-0000-00000000000b")

	rows := []rosterRow{
		{StudentID: uuid.New(), Name: "Citra", Grade: 11},
		{StudentID: b, Name: "Andi", Grade: 10},
		{StudentID: uuid.New(), Name: "Budi", Grade: 10},
		{StudentID: a, Name: "Andi", Grade: 10},
	}
	sortRoster(rows)

	// grade dulu, lalu nama, lalu student_id sebagai pemecah seri
	if rows[0].Name != "Andi" || rows[0].StudentID != a {
		t.Errorf("rows[0] = %s/%s, want Andi/%s", rows[0].Name, rows[0].StudentID, a)
	}
	if rows[1].Name != "Andi" || rows[1].StudentID != b {
		t.Errorf("rows[1] = %s/%s, want Andi/%s", rows[1].Name, rows[1].StudentID, b)
	}
	if rows[2].Name != "Budi" {
		t.Errorf("rows[2] = %s, want Budi", rows[2].Name)
	}
	if rows[3].Grade != 11 {
		t.Errorf("rows[3].Grade = %d, want 11 (grade tertinggi terakhir)", rows[3].Grade)
	}
}

func TestNextSeqAfter(t *testing.T) {
	tests := []struct {
		name   string
		maxReg string
		want   int
	}{
		{"grade belum punya taker", "", 1},
		{"lanjut dari nomor tertinggi", "26100001", 2},
		// Taker "26100002" dicabut: nomor tertinggi yang pernah terbit
		// tetap "26100003", jadi urutan berikutnya 4 — nomor 3 tidak
		// pernah diterbitkan ulang.
		{"nomor hangus tidak dipakai ulang", "26100003", 4},
		{"ekor bukan angka", "26XX", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextSeqAfter(tt.maxReg); got != tt.want {
				t.Errorf("NextSeqAfter(%q) = %d, want %d", tt.maxReg, got, tt.want)
			}
		})
	}
}

func TestDedupSubjects(t *testing.T) {
	got := dedupSubjects([]string{" mat ", "IPA", "MAT", "", "ipa", "BIN"})
	want := []string{"BIN", "IPA", "MAT"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("dedupSubjects = %v, want %v", got, want)
	}
}
