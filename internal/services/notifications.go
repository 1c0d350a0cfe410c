package services

import (
	"context"
	"fmt"

	"github.com/arnold/goalboards-api/internal/models"
	"github.com/google/uuid"
)

type NotificationList struct {
	List[models.Notification]
	Unread int64 `json:"unread"`
}

func (s *Service) ListNotifications(ctx context.Context, caller uuid.UUID, page Page) (*NotificationList, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	var out NotificationList
	if err := db.Model(&models.Notification{}).Where("user_id = ?", caller).Count(&out.Count).Error; err != nil {
		return nil, fmt.Errorf("count notifications: %w", err)
	}
	if err := db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", caller, false).
		Count(&out.Unread).Error; err != nil {
		return nil, fmt.Errorf("count unread notifications: %w", err)
	}
	if err := db.Where("user_id = ?", caller).
		Order("created_at DESC").
		Scopes(page.scope).
		Find(&out.Results).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return &out, nil
}

func (s *Service) MarkNotificationRead(ctx context.Context, caller, id uuid.UUID) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, caller).
		Update("read", true)
	if res.Error != nil {
		return fmt.Errorf("mark notification read: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead returns the number of notifications that changed.
func (s *Service) MarkAllRead(ctx context.Context, caller uuid.UUID) (int64, error) {
	if err := requireCaller(caller); err != nil {
		return 0, err
	}
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", caller, false).
		Update("read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("mark notifications read: %w", res.Error)
	}
	return res.RowsAffected, nil
}
