package services

import (
	"context"
	"fmt"

	"github.com/arnold/goalboards-api/internal/authz"
	"github.com/arnold/goalboards-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryFilter struct {
	Page
	BoardID  *uuid.UUID
	UserID   *uuid.UUID
	Search   string
	Ordering string
}

var categoryOrdering = map[string]string{
	"title":      "title",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// CreateCategory adds a category to a live board. The caller must be its
// owner or an editor.
func (s *Service) CreateCategory(ctx context.Context, caller uuid.UUID, req models.CreateCategoryRequest) (*models.GoalCategory, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	title, err := validTitle(req.Title)
	if err != nil {
		return nil, err
	}

	category := models.GoalCategory{BoardID: req.BoardID, UserID: caller, Title: title}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var board models.Board
		if err := tx.Where("id = ?", req.BoardID).Take(&board).Error; err != nil {
			return missingParent(err, "board")
		}
		role, err := roleOn(tx, board.ID, caller)
		if err != nil {
			return err
		}
		if role == nil {
			return invalid("board", "board does not exist")
		}
		if board.IsDeleted {
			return invalid("board", "not allowed on a deleted board")
		}
		if err := authorize(role, authz.CreateChild, authz.Board); err != nil {
			return err
		}
		if err := tx.Create(&category).Error; err != nil {
			return fmt.Errorf("create category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.loadCategory(s.db.WithContext(ctx), category.ID)
}

// ListCategories returns live categories on the caller's boards.
func (s *Service) ListCategories(ctx context.Context, caller uuid.UUID, f CategoryFilter) (*List[models.GoalCategory], error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	scope := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("is_deleted = ?", false).Scopes(participantBoards(caller, "board_id"))
		if f.BoardID != nil {
			tx = tx.Where("board_id = ?", *f.BoardID)
		}
		if f.UserID != nil {
			tx = tx.Where("user_id = ?", *f.UserID)
		}
		return tx.Scopes(search(f.Search, "title"))
	}

	var out List[models.GoalCategory]
	if err := s.db.WithContext(ctx).Model(&models.GoalCategory{}).Scopes(scope).Count(&out.Count).Error; err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	if err := s.db.WithContext(ctx).
		Preload("User").
		Scopes(scope, orderBy(f.Ordering, categoryOrdering, "title"), f.Page.scope).
		Find(&out.Results).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return &out, nil
}

func (s *Service) GetCategory(ctx context.Context, caller, id uuid.UUID) (*models.GoalCategory, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	category, err := visibleCategory(db, id)
	if err != nil {
		return nil, err
	}
	role, err := roleOn(db, category.BoardID, caller)
	if err != nil {
		return nil, err
	}
	if err := authorize(role, authz.Read, authz.Category); err != nil {
		return nil, err
	}
	return s.loadCategory(db, category.ID)
}

// UpdateCategory renames a category. The board a category belongs to never
// changes.
func (s *Service) UpdateCategory(ctx context.Context, caller, id uuid.UUID, req models.UpdateCategoryRequest) (*models.GoalCategory, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	var title string
	if req.Title != nil {
		t, err := validTitle(*req.Title)
		if err != nil {
			return nil, err
		}
		title = t
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		category, err := visibleCategory(tx, id)
		if err != nil {
			return err
		}
		role, err := roleOn(tx, category.BoardID, caller)
		if err != nil {
			return err
		}
		if err := authorize(role, authz.Update, authz.Category); err != nil {
			return err
		}
		if req.Title == nil || title == category.Title {
			return nil
		}
		if err := tx.Model(category).Update("title", title).Error; err != nil {
			return fmt.Errorf("update category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.loadCategory(s.db.WithContext(ctx), id)
}

// DeleteCategory soft-deletes the category and archives its goals.
func (s *Service) DeleteCategory(ctx context.Context, caller, id uuid.UUID) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		category, err := visibleCategory(tx, id)
		if err != nil {
			return err
		}
		role, err := roleOn(tx, category.BoardID, caller)
		if err != nil {
			return err
		}
		if err := authorize(role, authz.Delete, authz.Category); err != nil {
			return err
		}
		return archiveCategory(tx, category.ID)
	})
}

func (s *Service) loadCategory(tx *gorm.DB, id uuid.UUID) (*models.GoalCategory, error) {
	var c models.GoalCategory
	if err := tx.Preload("User").Where("id = ?", id).Take(&c).Error; err != nil {
		return nil, notFound(err, "category")
	}
	return &c, nil
}
