package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arnold/goalboards-api/internal/database"
	"github.com/arnold/goalboards-api/internal/models"
	"github.com/arnold/goalboards-api/internal/notify"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	ctx  context.Context
	svc  *Service
	db   *gorm.DB
	tg   *notify.Recorder
	push *notify.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zerolog.Nop()
	db, err := database.Connect(filepath.Join(t.TempDir(), "test.db"), log)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	f := &fixture{
		ctx:  context.Background(),
		db:   db,
		tg:   &notify.Recorder{},
		push: &notify.Recorder{},
	}
	f.svc = New(db, log, WithTelegram(f.tg), WithPush(f.push))
	return f
}

func (f *fixture) user(t *testing.T, username string) models.User {
	t.Helper()
	u, err := f.svc.Register(f.ctx, models.RegisterRequest{
		Username:       username,
		Password:       "password123",
		PasswordRepeat: "password123",
	})
	require.NoError(t, err)
	return *u
}

func (f *fixture) board(t *testing.T, owner uuid.UUID, title string) *models.BoardDetail {
	t.Helper()
	b, err := f.svc.CreateBoard(f.ctx, owner, models.CreateBoardRequest{Title: title})
	require.NoError(t, err)
	return b
}

func (f *fixture) share(t *testing.T, owner, boardID uuid.UUID, entries ...models.ParticipantInput) {
	t.Helper()
	_, err := f.svc.UpdateBoard(f.ctx, owner, boardID, models.UpdateBoardRequest{Participants: &entries})
	require.NoError(t, err)
}

func (f *fixture) category(t *testing.T, caller, boardID uuid.UUID, title string) *models.GoalCategory {
	t.Helper()
	c, err := f.svc.CreateCategory(f.ctx, caller, models.CreateCategoryRequest{BoardID: boardID, Title: title})
	require.NoError(t, err)
	return c
}

func (f *fixture) goal(t *testing.T, caller, categoryID uuid.UUID, title string) *models.Goal {
	t.Helper()
	g, err := f.svc.CreateGoal(f.ctx, caller, models.CreateGoalRequest{CategoryID: categoryID, Title: title})
	require.NoError(t, err)
	return g
}

func (f *fixture) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func (f *fixture) reloadGoal(t *testing.T, id uuid.UUID) models.Goal {
	t.Helper()
	var g models.Goal
	require.NoError(t, f.db.Where("id = ?", id).Take(&g).Error)
	return g
}

func (f *fixture) reloadCategory(t *testing.T, id uuid.UUID) models.GoalCategory {
	t.Helper()
	var c models.GoalCategory
	require.NoError(t, f.db.Where("id = ?", id).Take(&c).Error)
	return c
}

func editor(username string) models.ParticipantInput {
	return models.ParticipantInput{Username: username, Role: models.RoleEditor}
}

func viewer(username string) models.ParticipantInput {
	return models.ParticipantInput{Username: username, Role: models.RoleViewer}
}

func requireValidation(t *testing.T, err error, field string) {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, field)
}

func requireDenied(t *testing.T, err error) {
	t.Helper()
	var perr *PermissionError
	require.ErrorAs(t, err, &perr)
}
