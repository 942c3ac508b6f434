package allocation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", Validationf("grade kosong"), CodeValidation},
		{"conflict", Conflictf("kursi ganda"), CodeConflict},
		{"capacity", &CapacityError{Msg: "penuh"}, CodeCapacity},
		{"staff", &InsufficientStaffError{Msg: "kurang"}, CodeInsufficientStaff},
		{"already", &AlreadyAssignedError{Msg: "sudah"}, CodeAlreadyAssigned},
		{"wrapped", fmt.Errorf("konteks: %w", Conflictf("kursi ganda")), CodeConflict},
		{"bukan error alokasi", errors.New("boom"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.want {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTranslateDB_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "uq_seat_assignments_seat"}
	got := TranslateDB(fmt.Errorf("gagal insert: %w", pgErr))

	if code := ErrorCode(got); code != CodeConflict {
		t.Fatalf("error code = %q, want %q", code, CodeConflict)
	}
	if status := HTTPStatus(got); status != fiber.StatusConflict {
		t.Errorf("status = %d, want %d", status, fiber.StatusConflict)
	}
}

func TestTranslateDB_PassThrough(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"pg error lain", &pgconn.PgError{Code: "23503"}},
		{"error biasa", errors.New("koneksi putus")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TranslateDB(tt.err)
			if !errors.Is(got, tt.err) {
				t.Errorf("TranslateDB() mengubah error: %v", got)
			}
			if code := ErrorCode(got); code != "" {
				t.Errorf("error code = %q, want kosong", code)
			}
		})
	}
}
