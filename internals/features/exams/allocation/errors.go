// file: internals/features/exams/allocation/errors.go
//
// Taxonomy error untuk seluruh engine alokasi. Semua service alokasi
// mengembalikan salah satu tipe di bawah; controller memetakan ke HTTP
// lewat JsonError tanpa perlu tahu detail per-fitur.
package allocation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"

	helper "examku_backend/internals/helpers"
)

// Kode SQLSTATE Postgres untuk pelanggaran unique constraint.
const pgUniqueViolation = "23505"

const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeCapacity          = "CAPACITY_ERROR"
	CodeConflict          = "CONFLICT_ERROR"
	CodeInsufficientStaff = "INSUFFICIENT_STAFF"
	CodeAlreadyAssigned   = "ALREADY_ASSIGNED"
)

// ValidationError: input malformed (mis. group size <= 0).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// CapacityError: suplai ruang/guru tidak cukup. Unassigned menyebut
// entitas yang gagal dialokasikan supaya operator bisa retry terarah.
type CapacityError struct {
	Msg        string
	Unassigned []string
}

func (e *CapacityError) Error() string {
	if len(e.Unassigned) == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s (belum teralokasi: %s)", e.Msg, strings.Join(e.Unassigned, ", "))
}

// ConflictError: pelanggaran invariant keunikan (kursi ganda, mapping
// (session, room) ganda, nomor peserta ganda).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func Conflictf(format string, args ...any) *ConflictError {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// InsufficientStaffError: ada ruang yang tidak bisa distaf.
type InsufficientStaffError struct {
	Msg   string
	Rooms []string
}

func (e *InsufficientStaffError) Error() string {
	if len(e.Rooms) == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s (ruang: %s)", e.Msg, strings.Join(e.Rooms, ", "))
}

// AlreadyAssignedError: overwrite tanpa flag reset eksplisit.
type AlreadyAssignedError struct {
	Msg string
}

func (e *AlreadyAssignedError) Error() string { return e.Msg }

// ErrorCode mengembalikan kode taxonomy; string kosong jika bukan error alokasi.
func ErrorCode(err error) string {
	var (
		ve *ValidationError
		ce *CapacityError
		fe *ConflictError
		se *InsufficientStaffError
		ae *AlreadyAssignedError
	)
	switch {
	case errors.As(err, &ve):
		return CodeValidation
	case errors.As(err, &ce):
		return CodeCapacity
	case errors.As(err, &fe):
		return CodeConflict
	case errors.As(err, &se):
		return CodeInsufficientStaff
	case errors.As(err, &ae):
		return CodeAlreadyAssigned
	default:
		return ""
	}
}

// HTTPStatus memetakan error alokasi ke status HTTP.
func HTTPStatus(err error) int {
	switch ErrorCode(err) {
	case CodeValidation:
		return fiber.StatusUnprocessableEntity
	case CodeCapacity, CodeConflict, CodeInsufficientStaff, CodeAlreadyAssigned:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// TranslateDB memetakan pelanggaran unique index Postgres ke ConflictError.
// Race dua penulis bisa menembus cek aplikasi dan baru tertangkap di index;
// itu tetap konflik invariant, bukan kegagalan internal.
func TranslateDB(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return Conflictf("data duplikat melanggar batasan unik %s", pgErr.ConstraintName)
	}
	return err
}

// JsonError: satu pintu keluar error untuk controller alokasi.
func JsonError(c *fiber.Ctx, err error) error {
	err = TranslateDB(err)
	if code := ErrorCode(err); code != "" {
		return helper.JsonErrorCode(c, HTTPStatus(err), code, err.Error())
	}
	return helper.FromFiberError(c, err)
}
