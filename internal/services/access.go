package services

import (
	"errors"
	"fmt"

	"github.com/arnold/goalboards-api/internal/authz"
	"github.com/arnold/goalboards-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func requireCaller(caller uuid.UUID) error {
	if caller == uuid.Nil {
		return ErrAuthenticationRequired
	}
	return nil
}

// roleOn returns the caller's role on a board, or nil when they are not a
// participant.
func roleOn(tx *gorm.DB, boardID, userID uuid.UUID) (*models.Role, error) {
	var p models.BoardParticipant
	err := tx.Select("role").Where("board_id = ? AND user_id = ?", boardID, userID).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find participant: %w", err)
	}
	return &p.Role, nil
}

// authorize turns a role into an error. Non-participants get ErrNotFound so
// foreign boards look the same as missing ones.
func authorize(role *models.Role, action authz.Action, resource authz.Resource) error {
	if role == nil {
		return ErrNotFound
	}
	if authz.Can(role, action, resource) {
		return nil
	}
	subject := "action not allowed"
	if rule, ok := authz.RuleFor(resource, action); ok {
		subject = rule.Subject
	}
	return &PermissionError{Rule: subject}
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("find %s: %w", what, err)
}

// missingParent reports a parent referenced from a request body. Absence is
// a validation problem of that field rather than a missing resource.
func missingParent(err error, field string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return invalid(field, field+" does not exist")
	}
	return fmt.Errorf("find %s: %w", field, err)
}

// visibleBoard loads a live board. Deleted boards are reported as missing.
func visibleBoard(tx *gorm.DB, id uuid.UUID) (*models.Board, error) {
	var b models.Board
	if err := tx.Where("id = ? AND is_deleted = ?", id, false).Take(&b).Error; err != nil {
		return nil, notFound(err, "board")
	}
	return &b, nil
}

func visibleCategory(tx *gorm.DB, id uuid.UUID) (*models.GoalCategory, error) {
	var c models.GoalCategory
	if err := tx.Where("id = ? AND is_deleted = ?", id, false).Take(&c).Error; err != nil {
		return nil, notFound(err, "category")
	}
	return &c, nil
}

// goalWithBoard loads a goal and the board it resolves to. Archived goals
// and goals in deleted categories stay reachable.
func goalWithBoard(tx *gorm.DB, id uuid.UUID) (*models.Goal, uuid.UUID, error) {
	var g models.Goal
	if err := tx.Where("id = ?", id).Take(&g).Error; err != nil {
		return nil, uuid.Nil, notFound(err, "goal")
	}
	var c models.GoalCategory
	if err := tx.Select("id", "board_id").Where("id = ?", g.CategoryID).Take(&c).Error; err != nil {
		return nil, uuid.Nil, notFound(err, "category")
	}
	return &g, c.BoardID, nil
}

func commentWithBoard(tx *gorm.DB, id uuid.UUID) (*models.Comment, uuid.UUID, error) {
	var c models.Comment
	if err := tx.Where("id = ?", id).Take(&c).Error; err != nil {
		return nil, uuid.Nil, notFound(err, "comment")
	}
	_, boardID, err := goalWithBoard(tx, c.GoalID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	return &c, boardID, nil
}

// participantBoards restricts a query to rows whose board the caller
// participates in. boardColumn names the board id column of the query.
func participantBoards(caller uuid.UUID, boardColumn string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(boardColumn+" IN (?)",
			tx.Session(&gorm.Session{NewDB: true}).
				Model(&models.BoardParticipant{}).
				Select("board_id").
				Where("user_id = ?", caller))
	}
}
