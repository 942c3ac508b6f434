package service

import (
	"testing"

	"examku_backend/internals/features/exams/allocation"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		override bool
		wantCode string // "" = boleh
	}{
		{name: "draft ke published", from: "draft", to: "published"},
		{name: "published ke locked", from: "published", to: "locked"},
		{name: "locked ke archived", from: "locked", to: "archived"},
		{name: "no-op draft", from: "draft", to: "draft"},
		{name: "lompat draft ke locked", from: "draft", to: "locked", wantCode: allocation.CodeConflict},
		{name: "revert tanpa override", from: "published", to: "draft", wantCode: allocation.CodeConflict},
		{name: "revert dengan override", from: "published", to: "draft", override: true},
		{name: "locked terminal", from: "locked", to: "published", wantCode: allocation.CodeConflict},
		{name: "archived terminal", from: "archived", to: "draft", wantCode: allocation.CodeConflict},
		{name: "status asing", from: "pending", to: "draft", wantCode: allocation.CodeValidation},
		{name: "tujuan asing", from: "draft", to: "final", wantCode: allocation.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransition(tt.from, tt.to, tt.override)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("CanTransition(%s→%s) = %v, want nil", tt.from, tt.to, err)
				}
				return
			}
			if got := allocation.ErrorCode(err); got != tt.wantCode {
				t.Errorf("CanTransition(%s→%s) code = %q, want %q", tt.from, tt.to, got, tt.wantCode)
			}
		})
	}
}

func TestSessionStatusFor(t *testing.T) {
	tests := []struct {
		termStatus string
		want       string
	}{
		{"draft", "draft"},
		{"published", "confirmed"},
		{"locked", "completed"},
		{"archived", "completed"},
	}
	for _, tt := range tests {
		t.Run(tt.termStatus, func(t *testing.T) {
			if got := SessionStatusFor(tt.termStatus); got != tt.want {
				t.Errorf("SessionStatusFor(%q) = %q, want %q", tt.termStatus, got, tt.want)
			}
		})
	}
}
