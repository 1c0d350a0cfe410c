package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of board roles. Privileges are granted by set
// membership only; there is no ordering between roles.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleEditor, RoleViewer:
		return true
	}
	return false
}

type BoardParticipant struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	BoardID   uuid.UUID `json:"boardId" gorm:"type:uuid;not null;uniqueIndex:idx_board_user"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_board_user;index"`
	Role      Role      `json:"role" gorm:"type:varchar(16);not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Board *Board `json:"-" gorm:"foreignKey:BoardID;constraint:OnDelete:RESTRICT"`
	User  *User  `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}

func (bp *BoardParticipant) BeforeCreate(tx *gorm.DB) error {
	if bp.ID == uuid.Nil {
		bp.ID = uuid.New()
	}
	return nil
}
