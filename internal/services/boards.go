package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/arnold/goalboards-api/internal/authz"
	"github.com/arnold/goalboards-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxTitleLength = 255

type BoardFilter struct {
	Page
	Ordering string
}

var boardOrdering = map[string]string{
	"title":      "title",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

func validTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", invalid("title", "this field may not be blank")
	}
	if len(title) > maxTitleLength {
		return "", invalid("title", fmt.Sprintf("ensure this field has no more than %d characters", maxTitleLength))
	}
	return title, nil
}

// CreateBoard creates a board with the caller as its owner.
func (s *Service) CreateBoard(ctx context.Context, caller uuid.UUID, req models.CreateBoardRequest) (*models.BoardDetail, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	title, err := validTitle(req.Title)
	if err != nil {
		return nil, err
	}

	board := models.Board{Title: title}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&board).Error; err != nil {
			return fmt.Errorf("create board: %w", err)
		}
		owner := models.BoardParticipant{BoardID: board.ID, UserID: caller, Role: models.RoleOwner}
		if err := tx.Create(&owner).Error; err != nil {
			return fmt.Errorf("create board owner: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("board", board.ID.String()).Str("user", caller.String()).Msg("board created")
	return s.boardDetail(s.db.WithContext(ctx), &board)
}

// ListBoards returns the live boards the caller participates in.
func (s *Service) ListBoards(ctx context.Context, caller uuid.UUID, f BoardFilter) (*List[models.Board], error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	scope := func(tx *gorm.DB) *gorm.DB {
		return tx.Where("is_deleted = ?", false).Scopes(participantBoards(caller, "id"))
	}

	var out List[models.Board]
	if err := s.db.WithContext(ctx).Model(&models.Board{}).Scopes(scope).Count(&out.Count).Error; err != nil {
		return nil, fmt.Errorf("count boards: %w", err)
	}
	if err := s.db.WithContext(ctx).
		Scopes(scope, orderBy(f.Ordering, boardOrdering, "title"), f.Page.scope).
		Find(&out.Results).Error; err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	return &out, nil
}

func (s *Service) GetBoard(ctx context.Context, caller, id uuid.UUID) (*models.BoardDetail, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	board, err := visibleBoard(db, id)
	if err != nil {
		return nil, err
	}
	role, err := roleOn(db, board.ID, caller)
	if err != nil {
		return nil, err
	}
	if err := authorize(role, authz.Read, authz.Board); err != nil {
		return nil, err
	}
	return s.boardDetail(db, board)
}

// UpdateBoard changes the title and, when req.Participants is set, replaces
// the non-owner participants. Users added by the call are notified after
// commit.
func (s *Service) UpdateBoard(ctx context.Context, caller, id uuid.UUID, req models.UpdateBoardRequest) (*models.BoardDetail, error) {
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

	var (
		board *models.Board
		added []addedParticipant
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		board, err = visibleBoard(tx, id)
		if err != nil {
			return err
		}
		role, err := roleOn(tx, board.ID, caller)
		if err != nil {
			return err
		}
		if err := authorize(role, authz.Update, authz.Board); err != nil {
			return err
		}
		if req.Participants != nil {
			if err := authorize(role, authz.ManageParticipants, authz.Board); err != nil {
				return err
			}
		}

		if req.Title != nil && title != board.Title {
			if err := tx.Model(board).Update("title", title).Error; err != nil {
				return fmt.Errorf("update board: %w", err)
			}
		}
		if req.Participants != nil {
			added, err = syncParticipants(tx, board, *req.Participants)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, p := range added {
		s.pushTo(ctx, p.user, participantAddedBody(board, p.role))
	}
	return s.boardDetail(s.db.WithContext(ctx), board)
}

// DeleteBoard soft-deletes the board and cascades to its categories and
// goals.
func (s *Service) DeleteBoard(ctx context.Context, caller, id uuid.UUID) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		board, err := visibleBoard(tx, id)
		if err != nil {
			return err
		}
		role, err := roleOn(tx, board.ID, caller)
		if err != nil {
			return err
		}
		if err := authorize(role, authz.Delete, authz.Board); err != nil {
			return err
		}
		return archiveBoard(tx, board.ID)
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("board", id.String()).Str("user", caller.String()).Msg("board deleted")
	return nil
}

func (s *Service) boardDetail(tx *gorm.DB, board *models.Board) (*models.BoardDetail, error) {
	var fresh models.Board
	if err := tx.Where("id = ?", board.ID).Take(&fresh).Error; err != nil {
		return nil, notFound(err, "board")
	}
	detail := &models.BoardDetail{Board: fresh}
	if err := tx.Preload("User").
		Where("board_id = ?", board.ID).
		Order("created_at").
		Find(&detail.Participants).Error; err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return detail, nil
}

// pushTo sends a best-effort device notification. Failures are logged only.
func (s *Service) pushTo(ctx context.Context, user models.User, message string) {
	if user.FCMToken == "" {
		return
	}
	if err := s.push.Notify(ctx, user.FCMToken, message); err != nil {
		s.log.Warn().Err(err).Str("user", user.ID.String()).Msg("push notification failed")
	}
}
