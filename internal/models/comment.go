package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment rows are removed together with their goal; everything else in
// the schema is protected on delete.
type Comment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	GoalID    uuid.UUID `json:"goalId" gorm:"type:uuid;index;not null"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Goal *Goal `json:"-" gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE"`
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type CreateCommentRequest struct {
	GoalID uuid.UUID `json:"goal"`
	Text   string    `json:"text"`
}

type UpdateCommentRequest struct {
	Text string `json:"text"`
}
