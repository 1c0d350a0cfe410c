package services

import (
	"context"
	"fmt"
	"time"

	"github.com/arnold/goalboards-api/internal/authz"
	"github.com/arnold/goalboards-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GoalFilter struct {
	Page
	CategoryIDs []uuid.UUID
	Statuses    []models.GoalStatus
	Priorities  []models.Priority
	DueFrom     *time.Time
	DueTo       *time.Time
	Search      string
	Ordering    string
}

var goalOrdering = map[string]string{
	"priority":   "priority",
	"due_date":   "due_date",
	"title":      "title",
	"status":     "status",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

func validateGoalFields(status *models.GoalStatus, priority *models.Priority) error {
	verr := &ValidationError{}
	if status != nil && !status.Valid() {
		verr.Add("status", fmt.Sprintf("%q is not a valid choice", *status))
	}
	if priority != nil && !priority.Valid() {
		verr.Add("priority", "not a valid choice")
	}
	return verr.Err()
}

// targetCategory checks that a category can receive goals from the caller.
func targetCategory(tx *gorm.DB, id uuid.UUID) (*models.GoalCategory, error) {
	var c models.GoalCategory
	if err := tx.Where("id = ?", id).Take(&c).Error; err != nil {
		return nil, missingParent(err, "category")
	}
	if c.IsDeleted {
		return nil, invalid("category", "not allowed in a deleted category")
	}
	return &c, nil
}

// CreateGoal adds a goal to a live category. The caller must be owner or
// editor of the category's board.
func (s *Service) CreateGoal(ctx context.Context, caller uuid.UUID, req models.CreateGoalRequest) (*models.Goal, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	title, err := validTitle(req.Title)
	if err != nil {
		return nil, err
	}
	goal := models.Goal{
		CategoryID:  req.CategoryID,
		UserID:      caller,
		Title:       title,
		Description: req.Description,
		DueDate:     req.DueDate.Time,
		Status:      req.Status,
		Priority:    req.Priority,
	}
	if goal.Status == "" {
		goal.Status = models.StatusToDo
	}
	if goal.Priority == 0 {
		goal.Priority = models.PriorityMedium
	}
	if err := validateGoalFields(&goal.Status, &goal.Priority); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.GoalCategory
		if err := tx.Where("id = ?", req.CategoryID).Take(&category).Error; err != nil {
			return missingParent(err, "category")
		}
		role, err := roleOn(tx, category.BoardID, caller)
		if err != nil {
			return err
		}
		if role == nil {
			return invalid("category", "category does not exist")
		}
		if category.IsDeleted {
			return invalid("category", "not allowed in a deleted category")
		}
		if err := authorize(role, authz.CreateChild, authz.Category); err != nil {
			return err
		}
		if err := tx.Create(&goal).Error; err != nil {
			return fmt.Errorf("create goal: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.loadGoal(s.db.WithContext(ctx), goal.ID)
}

// ListGoals returns goals, archived ones included, on the caller's boards.
func (s *Service) ListGoals(ctx context.Context, caller uuid.UUID, f GoalFilter) (*List[models.Goal], error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	scope := func(tx *gorm.DB) *gorm.DB {
		boards := tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.BoardParticipant{}).Select("board_id").Where("user_id = ?", caller)
		categories := tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.GoalCategory{}).Select("id").Where("board_id IN (?)", boards)
		tx = tx.Where("category_id IN (?)", categories)
		if len(f.CategoryIDs) > 0 {
			tx = tx.Where("category_id IN ?", f.CategoryIDs)
		}
		if len(f.Statuses) > 0 {
			tx = tx.Where("status IN ?", f.Statuses)
		}
		if len(f.Priorities) > 0 {
			tx = tx.Where("priority IN ?", f.Priorities)
		}
		if f.DueFrom != nil {
			tx = tx.Where("due_date >= ?", *f.DueFrom)
		}
		if f.DueTo != nil {
			tx = tx.Where("due_date <= ?", *f.DueTo)
		}
		return tx.Scopes(search(f.Search, "title", "description"))
	}

	var out List[models.Goal]
	if err := s.db.WithContext(ctx).Model(&models.Goal{}).Scopes(scope).Count(&out.Count).Error; err != nil {
		return nil, fmt.Errorf("count goals: %w", err)
	}
	if err := s.db.WithContext(ctx).
		Preload("User").
		Scopes(scope, orderBy(f.Ordering, goalOrdering, "priority", "due_date"), f.Page.scope).
		Find(&out.Results).Error; err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return &out, nil
}

func (s *Service) GetGoal(ctx context.Context, caller, id uuid.UUID) (*models.Goal, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	goal, boardID, err := goalWithBoard(db, id)
	if err != nil {
		return nil, err
	}
	role, err := roleOn(db, boardID, caller)
	if err != nil {
		return nil, err
	}
	if err := authorize(role, authz.Read, authz.Goal); err != nil {
		return nil, err
	}
	return s.loadGoal(db, goal.ID)
}

// UpdateGoal applies the fields present in req. A new category must be live
// and on the same board as the current one.
func (s *Service) UpdateGoal(ctx context.Context, caller, id uuid.UUID, req models.UpdateGoalRequest) (*models.Goal, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Title != nil {
		title, err := validTitle(*req.Title)
		if err != nil {
			return nil, err
		}
		updates["title"] = title
	}
	if err := validateGoalFields(req.Status, req.Priority); err != nil {
		return nil, err
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.DueDate.Set {
		updates["due_date"] = req.DueDate.Time
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		goal, boardID, err := goalWithBoard(tx, id)
		if err != nil {
			return err
		}
		role, err := roleOn(tx, boardID, caller)
		if err != nil {
			return err
		}
		if err := authorize(role, authz.Update, authz.Goal); err != nil {
			return err
		}
		// goals under a deleted category stay archived
		if _, err := targetCategory(tx, goal.CategoryID); err != nil {
			return err
		}
		if req.CategoryID != nil && *req.CategoryID != goal.CategoryID {
			target, err := targetCategory(tx, *req.CategoryID)
			if err != nil {
				return err
			}
			if target.BoardID != boardID {
				return invalid("category", "category must belong to the goal's board")
			}
			updates["category_id"] = target.ID
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(goal).Updates(updates).Error; err != nil {
			return fmt.Errorf("update goal: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.loadGoal(s.db.WithContext(ctx), id)
}

// DeleteGoal archives the goal. Goals are never removed.
func (s *Service) DeleteGoal(ctx context.Context, caller, id uuid.UUID) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		goal, boardID, err := goalWithBoard(tx, id)
		if err != nil {
			return err
		}
		role, err := roleOn(tx, boardID, caller)
		if err != nil {
			return err
		}
		if err := authorize(role, authz.Delete, authz.Goal); err != nil {
			return err
		}
		if goal.Status == models.StatusArchived {
			return nil
		}
		if err := tx.Model(goal).Update("status", models.StatusArchived).Error; err != nil {
			return fmt.Errorf("archive goal: %w", err)
		}
		return nil
	})
}

func (s *Service) loadGoal(tx *gorm.DB, id uuid.UUID) (*models.Goal, error) {
	var g models.Goal
	if err := tx.Preload("User").Where("id = ?", id).Take(&g).Error; err != nil {
		return nil, notFound(err, "goal")
	}
	return &g, nil
}
