package service

import (
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"

	"examku_backend/internals/features/exams/allocation"
	"examku_backend/internals/features/exams/exam_sessions/dto"
	termModel "examku_backend/internals/features/exams/exam_terms/model"
)

func testTerm() *termModel.ExamTermModel {
	return &termModel.ExamTermModel{
		ExamTermName:      "PAS Ganjil",
		ExamTermGrades:    pq.Int64Array{10, 11, 12},
		ExamTermStartDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		ExamTermEndDate:   time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC),
		ExamTermStatus:    termModel.TermStatusDraft,
	}
}

func slot(grade int, subject, start string, day int, dur int) dto.SessionSlotRequest {
	return dto.SessionSlotRequest{
		Grade:           grade,
		SubjectCode:     subject,
		SubjectName:     subject,
		Date:            time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
		StartTime:       start,
		DurationMinutes: dur,
	}
}

func TestPlanSessions_DerivesEndAt(t *testing.T) {
	plans, err := PlanSessions(testTerm(), []dto.SessionSlotRequest{
		slot(10, "MAT", "07:30", 2, 90),
	})
	if err != nil {
		t.Fatalf("PlanSessions() error = %v", err)
	}
	p := plans[0]
	wantStart := time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC)
	if !p.StartAt.Equal(wantStart) {
		t.Errorf("StartAt = %v, want %v", p.StartAt, wantStart)
	}
	if !p.EndAt.Equal(wantStart.Add(90 * time.Minute)) {
		t.Errorf("EndAt = %v, want start+90m", p.EndAt)
	}
}

func TestPlanSessions_NormalizesSubjectCode(t *testing.T) {
	plans, err := PlanSessions(testTerm(), []dto.SessionSlotRequest{
		slot(10, " mat ", "07:30", 2, 90),
	})
	if err != nil {
		t.Fatal(err)
	}
	if plans[0].SubjectCode != "MAT" {
		t.Errorf("SubjectCode = %q, want MAT", plans[0].SubjectCode)
	}
}

func TestPlanSessions_Validation(t *testing.T) {
	tests := []struct {
		name string
		s    dto.SessionSlotRequest
		frag string
	}{
		{"grade di luar term", slot(9, "MAT", "07:30", 2, 90), "grade 9"},
		{"tanggal sebelum term", slot(10, "MAT", "07:30", 1, 90), "di luar rentang"},
		{"tanggal setelah term", slot(10, "MAT", "07:30", 14, 90), "di luar rentang"},
		{"jam rusak", slot(10, "MAT", "7.30", 2, 90), "HH:MM"},
		{"jam di luar 24h", slot(10, "MAT", "25:00", 2, 90), "tidak valid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlanSessions(testTerm(), []dto.SessionSlotRequest{tt.s})
			if got := allocation.ErrorCode(err); got != allocation.CodeValidation {
				t.Fatalf("error code = %q, want %q (err=%v)", got, allocation.CodeValidation, err)
			}
			if !strings.Contains(err.Error(), tt.frag) {
				t.Errorf("error %q tidak memuat %q", err.Error(), tt.frag)
			}
		})
	}
}

func TestPlanSessions_DuplicateSlotRejected(t *testing.T) {
	_, err := PlanSessions(testTerm(), []dto.SessionSlotRequest{
		slot(10, "MAT", "07:30", 2, 90),
		slot(10, "mat", "07:30", 2, 120), // key sama walau kode belum dinormalisasi
	})
	if got := allocation.ErrorCode(err); got != allocation.CodeValidation {
		t.Errorf("error code = %q, want %q", got, allocation.CodeValidation)
	}
}

func TestPlanSessions_SameTimeDifferentGradeOK(t *testing.T) {
	plans, err := PlanSessions(testTerm(), []dto.SessionSlotRequest{
		slot(10, "MAT", "07:30", 2, 90),
		slot(11, "MAT", "07:30", 2, 90),
	})
	if err != nil {
		t.Fatalf("PlanSessions() error = %v", err)
	}
	if len(plans) != 2 {
		t.Errorf("plans = %d, want 2 (grade beda boleh bentrok waktu)", len(plans))
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		h, m    int
		wantErr bool
	}{
		{"07:30", 7, 30, false},
		{"23:59", 23, 59, false},
		{"0:05", 0, 5, false},
		{"24:00", 0, 0, true},
		{"07:60", 0, 0, true},
		{"pagi", 0, 0, true},
	}
	for _, tt := range tests {
		h, m, err := parseClock(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseClock(%q) = %d:%d, want error", tt.in, h, m)
			}
			continue
		}
		if err != nil || h != tt.h || m != tt.m {
			t.Errorf("parseClock(%q) = %d:%d, %v; want %d:%d", tt.in, h, m, err, tt.h, tt.m)
		}
	}
}
