package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arnold/goalboards-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// syncParticipants reconciles the board's non-owner participants with
// target. Owner rows are never touched. It returns the users that were
// newly added. Must run inside a transaction.
func syncParticipants(tx *gorm.DB, board *models.Board, target []models.ParticipantInput) ([]addedParticipant, error) {
	var current []models.BoardParticipant
	if err := tx.Where("board_id = ?", board.ID).Find(&current).Error; err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	owners := make(map[uuid.UUID]bool)
	for _, p := range current {
		if p.Role == models.RoleOwner {
			owners[p.UserID] = true
		}
	}

	wanted, err := resolveTarget(tx, target, owners)
	if err != nil {
		return nil, err
	}

	for _, p := range current {
		if p.Role == models.RoleOwner {
			continue
		}
		role, keep := wanted[p.UserID]
		switch {
		case !keep:
			if err := tx.Delete(&models.BoardParticipant{}, "id = ?", p.ID).Error; err != nil {
				return nil, fmt.Errorf("remove participant: %w", err)
			}
		case role.role != p.Role:
			if err := tx.Model(&models.BoardParticipant{}).Where("id = ?", p.ID).
				Update("role", role.role).Error; err != nil {
				return nil, fmt.Errorf("change participant role: %w", err)
			}
		}
		delete(wanted, p.UserID)
	}

	added := make([]addedParticipant, 0, len(wanted))
	for _, w := range wanted {
		row := models.BoardParticipant{BoardID: board.ID, UserID: w.user.ID, Role: w.role}
		if err := tx.Create(&row).Error; err != nil {
			return nil, fmt.Errorf("add participant: %w", err)
		}
		note, err := participantAddedNotification(board, w)
		if err != nil {
			return nil, err
		}
		if err := tx.Create(note).Error; err != nil {
			return nil, fmt.Errorf("create notification: %w", err)
		}
		added = append(added, w)
	}
	return added, nil
}

type addedParticipant struct {
	user models.User
	role models.Role
}

// resolveTarget maps usernames to users and validates roles. Owners may be
// listed only with their owner role, which is then ignored.
func resolveTarget(tx *gorm.DB, target []models.ParticipantInput, owners map[uuid.UUID]bool) (map[uuid.UUID]addedParticipant, error) {
	verr := &ValidationError{}
	names := make([]string, 0, len(target))
	seen := make(map[string]bool, len(target))
	for _, in := range target {
		name := strings.TrimSpace(in.Username)
		switch {
		case name == "":
			verr.Add("participants", "username is required")
		case seen[name]:
			verr.Add("participants", fmt.Sprintf("%s is listed more than once", name))
		default:
			seen[name] = true
			names = append(names, name)
		}
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	var users []models.User
	if len(names) > 0 {
		if err := tx.Where("username IN ?", names).Find(&users).Error; err != nil {
			return nil, fmt.Errorf("find users: %w", err)
		}
	}
	byName := make(map[string]models.User, len(users))
	for _, u := range users {
		byName[u.Username] = u
	}

	wanted := make(map[uuid.UUID]addedParticipant, len(target))
	for _, in := range target {
		name := strings.TrimSpace(in.Username)
		u, ok := byName[name]
		if !ok {
			verr.Add("participants", fmt.Sprintf("user %s does not exist", name))
			continue
		}
		if owners[u.ID] {
			if in.Role != models.RoleOwner {
				verr.Add("participants", fmt.Sprintf("the role of owner %s cannot be changed", name))
			}
			continue
		}
		switch in.Role {
		case models.RoleEditor, models.RoleViewer:
			wanted[u.ID] = addedParticipant{user: u, role: in.Role}
		case models.RoleOwner:
			verr.Add("participants", fmt.Sprintf("%s: owner role cannot be granted", name))
		default:
			verr.Add("participants", fmt.Sprintf("%s: role must be editor or viewer", name))
		}
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	return wanted, nil
}

func participantAddedNotification(board *models.Board, p addedParticipant) (*models.Notification, error) {
	meta, err := json.Marshal(map[string]string{
		"boardId": board.ID.String(),
		"role":    string(p.role),
	})
	if err != nil {
		return nil, fmt.Errorf("encode notification metadata: %w", err)
	}
	metaStr := string(meta)
	return &models.Notification{
		UserID:   p.user.ID,
		Type:     models.NotificationParticipantAdded,
		Title:    "Added to board",
		Body:     participantAddedBody(board, p.role),
		Metadata: &metaStr,
	}, nil
}

func participantAddedBody(board *models.Board, role models.Role) string {
	return fmt.Sprintf("You were added to %q as %s", board.Title, role)
}
