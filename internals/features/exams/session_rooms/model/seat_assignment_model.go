// file: internals/features/exams/session_rooms/model/seat_assignment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// SeatAssignmentModel merepresentasikan tabel seat_assignments.
// Dua invariant keras sekaligus:
//   - (session_room, seat_number) unik
//   - (session, taker) unik — satu siswa satu kursi per session
type SeatAssignmentModel struct {
	SeatAssignmentID            uuid.UUID `json:"seat_assignment_id" gorm:"type:uuid;primaryKey;column:seat_assignment_id;default:gen_random_uuid()"`
	SeatAssignmentSessionRoomID uuid.UUID `json:"seat_assignment_session_room_id" gorm:"type:uuid;not null;index;column:seat_assignment_session_room_id;uniqueIndex:uq_seat_per_room"`
	SeatAssignmentSessionID     uuid.UUID `json:"seat_assignment_session_id" gorm:"type:uuid;not null;index;column:seat_assignment_session_id;uniqueIndex:uq_seat_per_taker"`

	SeatAssignmentTakerID    uuid.UUID `json:"seat_assignment_taker_id" gorm:"type:uuid;not null;column:seat_assignment_taker_id;uniqueIndex:uq_seat_per_taker"`
	SeatAssignmentSeatNumber int       `json:"seat_assignment_seat_number" gorm:"not null;column:seat_assignment_seat_number;uniqueIndex:uq_seat_per_room"`

	// Snapshot SBD: read-only di sini, dibangkitkan di registrasi taker.
	SeatAssignmentRegNumber string `json:"seat_assignment_reg_number" gorm:"type:varchar(12);not null;column:seat_assignment_reg_number"`

	SeatAssignmentCreatedAt time.Time `json:"seat_assignment_created_at" gorm:"column:seat_assignment_created_at;autoCreateTime"`
}

func (SeatAssignmentModel) TableName() string { return "seat_assignments" }
