package models

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	verificationCodeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	verificationCodeLength   = 12
)

// TgUser is a Telegram chat that may be linked to an account. UserID stays
// nil until the owner of the chat submits its verification code.
type TgUser struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	ChatID           int64      `json:"chatId" gorm:"not null"`
	TgUserID         int64      `json:"tgUserId" gorm:"uniqueIndex;not null"`
	Username         *string    `json:"username" gorm:"size:512"`
	UserID           *uuid.UUID `json:"userId" gorm:"type:uuid;index"`
	VerificationCode string     `json:"-" gorm:"size:32;index"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}

func (t *TgUser) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Linked reports whether the chat already belongs to an account.
func (t *TgUser) Linked() bool {
	return t.UserID != nil && *t.UserID != uuid.Nil
}

// SetVerificationCode replaces the code with a fresh random one.
func (t *TgUser) SetVerificationCode() error {
	code, err := newVerificationCode()
	if err != nil {
		return err
	}
	t.VerificationCode = code
	return nil
}

func newVerificationCode() (string, error) {
	max := big.NewInt(int64(len(verificationCodeAlphabet)))
	buf := make([]byte, verificationCodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = verificationCodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

type VerifyRequest struct {
	VerificationCode string `json:"verificationCode"`
}
