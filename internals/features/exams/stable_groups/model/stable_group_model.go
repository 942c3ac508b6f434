// file: internals/features/exams/stable_groups/model/stable_group_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StableGroupModel merepresentasikan tabel stable_groups.
// Partisi session-agnostic: kode kelompok tetap untuk seluruh term walau
// ruang fisiknya berganti-ganti per mapel.
type StableGroupModel struct {
	StableGroupID     uuid.UUID `json:"stable_group_id" gorm:"type:uuid;primaryKey;column:stable_group_id;default:gen_random_uuid()"`
	StableGroupTermID uuid.UUID `json:"stable_group_term_id" gorm:"type:uuid;not null;index;column:stable_group_term_id;uniqueIndex:uq_stable_groups_code"`

	StableGroupGrade int    `json:"stable_group_grade" gorm:"not null;index;column:stable_group_grade"`
	StableGroupCode  string `json:"stable_group_code" gorm:"type:varchar(20);not null;column:stable_group_code;uniqueIndex:uq_stable_groups_code"`
	StableGroupIndex int    `json:"stable_group_index" gorm:"not null;column:stable_group_index"`

	StableGroupMemberCount int `json:"stable_group_member_count" gorm:"not null;default:0;column:stable_group_member_count"`

	StableGroupCreatedAt time.Time      `json:"stable_group_created_at" gorm:"column:stable_group_created_at;autoCreateTime"`
	StableGroupUpdatedAt time.Time      `json:"stable_group_updated_at" gorm:"column:stable_group_updated_at;autoUpdateTime"`
	StableGroupDeletedAt gorm.DeletedAt `json:"stable_group_deleted_at,omitempty" gorm:"column:stable_group_deleted_at;index"`
}

func (StableGroupModel) TableName() string { return "stable_groups" }

// StableGroupMemberModel: keanggotaan terurut milik group.
// Satu taker hanya boleh ada di satu kelompok (unique index taker).
type StableGroupMemberModel struct {
	StableGroupMemberID      uuid.UUID `json:"stable_group_member_id" gorm:"type:uuid;primaryKey;column:stable_group_member_id;default:gen_random_uuid()"`
	StableGroupMemberGroupID uuid.UUID `json:"stable_group_member_group_id" gorm:"type:uuid;not null;column:stable_group_member_group_id;uniqueIndex:uq_group_member_position"`

	StableGroupMemberTakerID  uuid.UUID `json:"stable_group_member_taker_id" gorm:"type:uuid;not null;uniqueIndex;column:stable_group_member_taker_id"`
	StableGroupMemberPosition int       `json:"stable_group_member_position" gorm:"not null;column:stable_group_member_position;uniqueIndex:uq_group_member_position"`

	StableGroupMemberCreatedAt time.Time `json:"stable_group_member_created_at" gorm:"column:stable_group_member_created_at;autoCreateTime"`
}

func (StableGroupMemberModel) TableName() string { return "stable_group_members" }
