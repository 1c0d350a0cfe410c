// Package services implements the board, category, goal and comment
// registries on top of GORM. Every exported operation takes the caller's
// user id; uuid.Nil means the request was not authenticated.
package services

import (
	"github.com/arnold/goalboards-api/internal/notify"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	log      zerolog.Logger
	telegram notify.Notifier
	push     notify.Notifier
}

type Option func(*Service)

// WithTelegram sets the channel used to confirm chat verification.
func WithTelegram(n notify.Notifier) Option {
	return func(s *Service) { s.telegram = n }
}

// WithPush sets the channel used for device notifications.
func WithPush(n notify.Notifier) Option {
	return func(s *Service) { s.push = n }
}

func New(db *gorm.DB, log zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		db:       db,
		log:      log,
		telegram: notify.Nop{},
		push:     notify.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
