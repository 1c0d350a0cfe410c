package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arnold/goalboards-api/internal/authz"
	"github.com/arnold/goalboards-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentFilter struct {
	Page
	GoalID   *uuid.UUID
	Ordering string
}

var commentOrdering = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
}

func validText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", invalid("text", "this field may not be blank")
	}
	return text, nil
}

func (s *Service) CreateComment(ctx context.Context, caller uuid.UUID, req models.CreateCommentRequest) (*models.Comment, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	text, err := validText(req.Text)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{GoalID: req.GoalID, UserID: caller, Text: text}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, boardID, err := goalWithBoard(tx, req.GoalID)
		if errors.Is(err, ErrNotFound) {
			return invalid("goal", "goal does not exist")
		}
		if err != nil {
			return err
		}
		role, err := roleOn(tx, boardID, caller)
		if err != nil {
			return err
		}
		if role == nil {
			return invalid("goal", "goal does not exist")
		}
		if err := authorize(role, authz.CreateChild, authz.Goal); err != nil {
			return err
		}
		if err := tx.Create(&comment).Error; err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.loadComment(s.db.WithContext(ctx), comment.ID)
}

// ListComments returns comments on the caller's boards, newest first by
// default.
func (s *Service) ListComments(ctx context.Context, caller uuid.UUID, f CommentFilter) (*List[models.Comment], error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	scope := func(tx *gorm.DB) *gorm.DB {
		boards := tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.BoardParticipant{}).Select("board_id").Where("user_id = ?", caller)
		categories := tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.GoalCategory{}).Select("id").Where("board_id IN (?)", boards)
		goals := tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.Goal{}).Select("id").Where("category_id IN (?)", categories)
		tx = tx.Where("goal_id IN (?)", goals)
		if f.GoalID != nil {
			tx = tx.Where("goal_id = ?", *f.GoalID)
		}
		return tx
	}

	var out List[models.Comment]
	if err := s.db.WithContext(ctx).Model(&models.Comment{}).Scopes(scope).Count(&out.Count).Error; err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	if err := s.db.WithContext(ctx).
		Preload("User").
		Scopes(scope, orderBy(f.Ordering, commentOrdering, "created_at DESC"), f.Page.scope).
		Find(&out.Results).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return &out, nil
}

func (s *Service) GetComment(ctx context.Context, caller, id uuid.UUID) (*models.Comment, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	comment, boardID, err := commentWithBoard(db, id)
	if err != nil {
		return nil, err
	}
	role, err := roleOn(db, boardID, caller)
	if err != nil {
		return nil, err
	}
	if err := authorize(role, authz.Read, authz.Comment); err != nil {
		return nil, err
	}
	return s.loadComment(db, comment.ID)
}

func (s *Service) UpdateComment(ctx context.Context, caller, id uuid.UUID, req models.UpdateCommentRequest) (*models.Comment, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	text, err := validText(req.Text)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comment, boardID, err := commentWithBoard(tx, id)
		if err != nil {
			return err
		}
		role, err := roleOn(tx, boardID, caller)
		if err != nil {
			return err
		}
		if err := authorize(role, authz.Update, authz.Comment); err != nil {
			return err
		}
		if err := tx.Model(comment).Update("text", text).Error; err != nil {
			return fmt.Errorf("update comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.loadComment(s.db.WithContext(ctx), id)
}

// DeleteComment removes the comment row.
func (s *Service) DeleteComment(ctx context.Context, caller, id uuid.UUID) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comment, boardID, err := commentWithBoard(tx, id)
		if err != nil {
			return err
		}
		role, err := roleOn(tx, boardID, caller)
		if err != nil {
			return err
		}
		if err := authorize(role, authz.Delete, authz.Comment); err != nil {
			return err
		}
		if err := tx.Delete(&models.Comment{}, "id = ?", comment.ID).Error; err != nil {
			return fmt.Errorf("delete comment: %w", err)
		}
		return nil
	})
}

func (s *Service) loadComment(tx *gorm.DB, id uuid.UUID) (*models.Comment, error) {
	var c models.Comment
	if err := tx.Preload("User").Where("id = ?", id).Take(&c).Error; err != nil {
		return nil, notFound(err, "comment")
	}
	return &c, nil
}
