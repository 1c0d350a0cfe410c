package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Board is the top-level container. Deleted boards keep their rows with
// IsDeleted set; their categories and goals are cascaded, never removed.
type Board struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title     string    `json:"title" gorm:"not null"`
	IsDeleted bool      `json:"isDeleted" gorm:"not null;default:false;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Board) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Board DTOs
// BoardDetail is a board together with its participant list.
type BoardDetail struct {
	Board
	Participants []BoardParticipant `json:"participants"`
}

type CreateBoardRequest struct {
	Title string `json:"title"`
}

// UpdateBoardRequest replaces the title and, when Participants is present,
// the whole non-owner participant list.
type UpdateBoardRequest struct {
	Title        *string             `json:"title"`
	Participants *[]ParticipantInput `json:"participants"`
}

type ParticipantInput struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
