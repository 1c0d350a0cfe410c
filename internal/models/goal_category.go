package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GoalCategory groups goals inside one board. BoardID is fixed at creation.
type GoalCategory struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	BoardID   uuid.UUID `json:"boardId" gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	Title     string    `json:"title" gorm:"not null"`
	IsDeleted bool      `json:"isDeleted" gorm:"not null;default:false;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Board *Board `json:"-" gorm:"foreignKey:BoardID;constraint:OnDelete:RESTRICT"`
	User  *User  `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}

func (gc *GoalCategory) BeforeCreate(tx *gorm.DB) error {
	if gc.ID == uuid.Nil {
		gc.ID = uuid.New()
	}
	return nil
}

type CreateCategoryRequest struct {
	BoardID uuid.UUID `json:"board"`
	Title   string    `json:"title"`
}

type UpdateCategoryRequest struct {
	Title *string `json:"title"`
}
