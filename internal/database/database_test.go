package database

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arnold/goalboards-api/internal/models"
)

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "app.db?_foreign_keys=on", sqliteDSN("app.db"))
	assert.Equal(t, "app.db?cache=shared&_foreign_keys=on", sqliteDSN("app.db?cache=shared"))
	assert.Equal(t, "app.db?_foreign_keys=off", sqliteDSN("app.db?_foreign_keys=off"))
}

func TestGormLevel(t *testing.T) {
	assert.Equal(t, logger.Info, gormLevel(zerolog.DebugLevel))
	assert.Equal(t, logger.Warn, gormLevel(zerolog.InfoLevel))
	assert.Equal(t, logger.Error, gormLevel(zerolog.ErrorLevel))
	assert.Equal(t, logger.Silent, gormLevel(zerolog.Disabled))
}

func TestConnectAndMigrate(t *testing.T) {
	db, err := Connect(filepath.Join(t.TempDir(), "m.db"), zerolog.Nop())
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, Migrate(db))
	for _, table := range []interface{}{
		&models.User{}, &models.Board{}, &models.BoardParticipant{}, &models.GoalCategory{},
		&models.Goal{}, &models.Comment{}, &models.TgUser{}, &models.Notification{},
	} {
		assert.True(t, db.Migrator().HasTable(table))
	}
	assert.True(t, db.Migrator().HasIndex(&models.BoardParticipant{}, "idx_board_user"))
}

func TestGormLoggerUsesStatementSeverity(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.InfoLevel)
	l := &gormLogger{log: log, level: gormLevel(log.GetLevel()), slow: time.Second}
	query := func() (string, int64) { return "SELECT 1", 1 }
	ctx := context.Background()

	levels := func() []string {
		var out []string
		for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
			if line == "" {
				continue
			}
			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(line), &entry))
			out = append(out, entry["level"].(string))
		}
		buf.Reset()
		return out
	}

	l.Trace(ctx, time.Now(), query, errors.New("no such table"))
	assert.Equal(t, []string{"error"}, levels())

	l.Trace(ctx, time.Now().Add(-2*time.Second), query, nil)
	assert.Equal(t, []string{"warn"}, levels())

	l.Trace(ctx, time.Now(), query, nil)
	l.Trace(ctx, time.Now(), query, gorm.ErrRecordNotFound)
	assert.Empty(t, levels())

	l.Warn(ctx, "deprecated %s", "option")
	l.Info(ctx, "hidden")
	assert.Equal(t, []string{"warn"}, levels())
}
