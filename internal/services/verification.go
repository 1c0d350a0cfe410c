package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/arnold/goalboards-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const VerificationCompleted = "[verification has been completed]"

// RegisterChat records a Telegram chat that wrote to the bot. Unlinked chats
// get a fresh verification code on every call.
func (s *Service) RegisterChat(ctx context.Context, chatID, tgUserID int64, username string) (*models.TgUser, error) {
	var tg models.TgUser
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("tg_user_id = ?", tgUserID).Take(&tg).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			tg = models.TgUser{TgUserID: tgUserID}
		case err != nil:
			return fmt.Errorf("find tg user: %w", err)
		}

		tg.ChatID = chatID
		tg.Username = nil
		if username != "" {
			tg.Username = &username
		}
		if !tg.Linked() {
			if err := tg.SetVerificationCode(); err != nil {
				return fmt.Errorf("generate verification code: %w", err)
			}
		}
		if err := tx.Save(&tg).Error; err != nil {
			return fmt.Errorf("save tg user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tg, nil
}

// Verify links the chat holding code to the caller. The chat is told about
// it once the link is committed.
func (s *Service) Verify(ctx context.Context, caller uuid.UUID, code string) (*models.TgUser, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, invalid("verification_code", "field is incorrect")
	}

	var tg models.TgUser
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("verification_code = ?", code).Take(&tg).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalid("verification_code", "field is incorrect")
		}
		if err != nil {
			return fmt.Errorf("find tg user: %w", err)
		}
		if err := tx.Model(&tg).Updates(map[string]interface{}{
			"user_id":           caller,
			"verification_code": "",
		}).Error; err != nil {
			return fmt.Errorf("link tg user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	tg.UserID = &caller
	tg.VerificationCode = ""

	s.log.Info().Str("user", caller.String()).Int64("tg_user", tg.TgUserID).Msg("telegram chat linked")
	if err := s.telegram.Notify(ctx, strconv.FormatInt(tg.ChatID, 10), VerificationCompleted); err != nil {
		s.log.Warn().Err(err).Int64("chat", tg.ChatID).Msg("telegram notification failed")
	}
	return &tg, nil
}
