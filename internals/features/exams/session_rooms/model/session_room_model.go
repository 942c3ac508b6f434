// file: internals/features/exams/session_rooms/model/session_room_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionRoomModel merepresentasikan tabel session_rooms:
// binding satu stable group (atau pecahannya) ke satu ruang fisik
// untuk satu session. Invariant keras: unik per (session, room_code).
type SessionRoomModel struct {
	SessionRoomID        uuid.UUID `json:"session_room_id" gorm:"type:uuid;primaryKey;column:session_room_id;default:gen_random_uuid()"`
	SessionRoomSessionID uuid.UUID `json:"session_room_session_id" gorm:"type:uuid;not null;index;column:session_room_session_id;uniqueIndex:uq_session_rooms_key"`
	SessionRoomTermID    uuid.UUID `json:"session_room_term_id" gorm:"type:uuid;not null;index;column:session_room_term_id"`

	SessionRoomGroupID   uuid.UUID `json:"session_room_group_id" gorm:"type:uuid;not null;index;column:session_room_group_id"`
	SessionRoomGroupCode string    `json:"session_room_group_code" gorm:"type:varchar(20);not null;column:session_room_group_code"`
	SessionRoomPart      int       `json:"session_room_part" gorm:"not null;default:1;column:session_room_part"`

	SessionRoomRoomCode string  `json:"session_room_room_code" gorm:"type:varchar(20);not null;column:session_room_room_code;uniqueIndex:uq_session_rooms_key"`
	SessionRoomRoomName string  `json:"session_room_room_name" gorm:"type:text;not null;column:session_room_room_name"`
	SessionRoomRoomType *string `json:"session_room_room_type,omitempty" gorm:"type:varchar(30);column:session_room_room_type"`
	SessionRoomCapacity int     `json:"session_room_capacity" gorm:"not null;column:session_room_capacity"`

	// Jatah peserta hasil mapper (slice keanggotaan untuk group yang dipecah).
	SessionRoomAssignedCount int `json:"session_room_assigned_count" gorm:"not null;default:0;column:session_room_assigned_count"`

	SessionRoomIsFull           bool `json:"session_room_is_full" gorm:"not null;default:false;column:session_room_is_full"`
	SessionRoomSeatCount        int  `json:"session_room_seat_count" gorm:"not null;default:0;column:session_room_seat_count"`
	SessionRoomInvigilatorCount int  `json:"session_room_invigilator_count" gorm:"not null;default:0;column:session_room_invigilator_count"`

	SessionRoomCreatedAt time.Time      `json:"session_room_created_at" gorm:"column:session_room_created_at;autoCreateTime"`
	SessionRoomUpdatedAt time.Time      `json:"session_room_updated_at" gorm:"column:session_room_updated_at;autoUpdateTime"`
	SessionRoomDeletedAt gorm.DeletedAt `json:"session_room_deleted_at,omitempty" gorm:"column:session_room_deleted_at;index"`
}

func (SessionRoomModel) TableName() string { return "session_rooms" }
