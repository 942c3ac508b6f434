// file: internals/features/exams/invigilators/model/invigilator_slot_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleMain      = "main"
	RoleAssistant = "assistant"
)

// InvigilatorSlotModel merepresentasikan tabel invigilator_slots:
// satu guru + satu peran untuk satu session room. Session & term
// di-denormalisasi supaya cek overlap dan beban per term murah.
type InvigilatorSlotModel struct {
	InvigilatorSlotID            uuid.UUID `json:"invigilator_slot_id" gorm:"type:uuid;primaryKey;column:invigilator_slot_id;default:gen_random_uuid()"`
	InvigilatorSlotSessionRoomID uuid.UUID `json:"invigilator_slot_session_room_id" gorm:"type:uuid;not null;index;column:invigilator_slot_session_room_id;uniqueIndex:uq_slot_room_teacher"`
	InvigilatorSlotSessionID     uuid.UUID `json:"invigilator_slot_session_id" gorm:"type:uuid;not null;index;column:invigilator_slot_session_id"`
	InvigilatorSlotTermID        uuid.UUID `json:"invigilator_slot_term_id" gorm:"type:uuid;not null;index;column:invigilator_slot_term_id"`

	InvigilatorSlotTeacherID   uuid.UUID `json:"invigilator_slot_teacher_id" gorm:"type:uuid;not null;column:invigilator_slot_teacher_id;uniqueIndex:uq_slot_room_teacher"`
	InvigilatorSlotTeacherName string    `json:"invigilator_slot_teacher_name" gorm:"type:text;not null;column:invigilator_slot_teacher_name"`
	InvigilatorSlotRole        string    `json:"invigilator_slot_role" gorm:"type:varchar(10);not null;column:invigilator_slot_role"`

	// Penugasan manual dengan force: konflik dicatat, bukan diblok.
	InvigilatorSlotIsForced     bool    `json:"invigilator_slot_is_forced" gorm:"not null;default:false;column:invigilator_slot_is_forced"`
	InvigilatorSlotConflictNote *string `json:"invigilator_slot_conflict_note,omitempty" gorm:"type:text;column:invigilator_slot_conflict_note"`

	InvigilatorSlotCreatedAt time.Time `json:"invigilator_slot_created_at" gorm:"column:invigilator_slot_created_at;autoCreateTime"`
}

func (InvigilatorSlotModel) TableName() string { return "invigilator_slots" }
