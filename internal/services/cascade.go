package services

import (
	"context"
	"fmt"

	"github.com/arnold/goalboards-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArchiveBoard marks the board and its categories deleted and archives every
// goal under them, in one transaction. Running it again changes nothing.
func (s *Service) ArchiveBoard(ctx context.Context, boardID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return archiveBoard(tx, boardID)
	})
}

// ArchiveCategory marks the category deleted and archives its goals, in one
// transaction. Running it again changes nothing.
func (s *Service) ArchiveCategory(ctx context.Context, categoryID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return archiveCategory(tx, categoryID)
	})
}

func archiveBoard(tx *gorm.DB, boardID uuid.UUID) error {
	if err := tx.Model(&models.Board{}).
		Where("id = ? AND is_deleted = ?", boardID, false).
		Update("is_deleted", true).Error; err != nil {
		return fmt.Errorf("delete board: %w", err)
	}
	if err := tx.Model(&models.GoalCategory{}).
		Where("board_id = ? AND is_deleted = ?", boardID, false).
		Update("is_deleted", true).Error; err != nil {
		return fmt.Errorf("delete board categories: %w", err)
	}
	categories := tx.Session(&gorm.Session{NewDB: true}).
		Model(&models.GoalCategory{}).
		Select("id").
		Where("board_id = ?", boardID)
	if err := tx.Model(&models.Goal{}).
		Where("category_id IN (?) AND status <> ?", categories, models.StatusArchived).
		Update("status", models.StatusArchived).Error; err != nil {
		return fmt.Errorf("archive board goals: %w", err)
	}
	return nil
}

func archiveCategory(tx *gorm.DB, categoryID uuid.UUID) error {
	if err := tx.Model(&models.GoalCategory{}).
		Where("id = ? AND is_deleted = ?", categoryID, false).
		Update("is_deleted", true).Error; err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if err := tx.Model(&models.Goal{}).
		Where("category_id = ? AND status <> ?", categoryID, models.StatusArchived).
		Update("status", models.StatusArchived).Error; err != nil {
		return fmt.Errorf("archive category goals: %w", err)
	}
	return nil
}
