package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arnold/goalboards-api/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	minPasswordLength = 8
	// bcrypt refuses longer input
	maxPasswordLength = 72
)

// passwordProblem describes why password is unacceptable, or returns "".
func passwordProblem(password string) string {
	if len(password) < minPasswordLength {
		return fmt.Sprintf("ensure this field has at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Sprintf("ensure this field has no more than %d bytes", maxPasswordLength)
	}
	return ""
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func usernameTaken(tx *gorm.DB, username string, except uuid.UUID) (bool, error) {
	var n int64
	q := tx.Model(&models.User{}).Where("username = ?", username)
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return n > 0, nil
}

func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	verr := &ValidationError{}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		verr.Add("username", "this field may not be blank")
	}
	if msg := passwordProblem(req.Password); msg != "" {
		verr.Add("password", msg)
	}
	if req.Password != req.PasswordRepeat {
		verr.Add("password_repeat", "passwords do not match")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Username:  username,
		Password:  hashed,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := usernameTaken(tx, username, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return invalid("username", "a user with that username already exists")
		}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user", user.ID.String()).Msg("user registered")
	return &user, nil
}

// Authenticate checks credentials. Unknown users and wrong passwords are
// reported the same way.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAuthenticationRequired
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrAuthenticationRequired
	}
	return &user, nil
}

func (s *Service) Profile(ctx context.Context, caller uuid.UUID) (*models.User, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", caller).Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthenticationRequired
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, caller uuid.UUID, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.Profile(ctx, caller)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		updates["email"] = strings.TrimSpace(*req.Email)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.Username != nil {
			username := strings.TrimSpace(*req.Username)
			if username == "" {
				return invalid("username", "this field may not be blank")
			}
			taken, err := usernameTaken(tx, username, caller)
			if err != nil {
				return err
			}
			if taken {
				return invalid("username", "a user with that username already exists")
			}
			updates["username"] = username
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(user).Updates(updates).Error; err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Profile(ctx, caller)
}

func (s *Service) ChangePassword(ctx context.Context, caller uuid.UUID, req models.ChangePasswordRequest) error {
	user, err := s.Profile(ctx, caller)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return invalid("old_password", "incorrect password")
	}
	if msg := passwordProblem(req.NewPassword); msg != "" {
		return invalid("new_password", msg)
	}
	hashed, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password", hashed).Error; err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// RegisterDeviceToken stores the FCM token used for push notifications.
// An empty token unregisters the device.
func (s *Service) RegisterDeviceToken(ctx context.Context, caller uuid.UUID, token string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", caller).
		Update("fcm_token", strings.TrimSpace(token))
	if res.Error != nil {
		return fmt.Errorf("save device token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAuthenticationRequired
	}
	return nil
}
