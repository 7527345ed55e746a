package application

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/leonelranieri/tateti/internal/apperror"
	"github.com/leonelranieri/tateti/internal/config"
	"github.com/leonelranieri/tateti/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Memory driver", func(t *testing.T) {
		conf := &config.Config{Storage: config.Storage{Driver: config.StorageMemory}}

		repo, closeStorage, err := NewSessionRepository(ctx, conf)

		require.NoError(t, err)
		require.NotNil(t, repo)
		assert.NoError(t, closeStorage())
	})

	t.Run("SQLite driver", func(t *testing.T) {
		// Given: a sqlite path in a temp dir
		conf := &config.Config{
			Storage:           config.Storage{Driver: config.StorageSQLite},
			SQLiteStoragePath: filepath.Join(t.TempDir(), "tateti.db"),
		}

		// When: building the repository
		repo, closeStorage, err := NewSessionRepository(ctx, conf)
		require.NoError(t, err)
		t.Cleanup(func() { _ = closeStorage() })

		// Then: the sessions table is ready
		require.NoError(t, repo.CreateOrUpdate(ctx, entity.NewSession("123", time.Now())))
		_, err = repo.GetByID(ctx, "123")
		assert.NoError(t, err)
	})

	t.Run("Redis driver without address", func(t *testing.T) {
		conf := &config.Config{Storage: config.Storage{Driver: config.StorageRedis}}

		_, _, err := NewSessionRepository(ctx, conf)

		assert.ErrorIs(t, err, ErrAddrNotFound)
	})

	t.Run("Unknown driver", func(t *testing.T) {
		conf := &config.Config{Storage: config.Storage{Driver: "postgres"}}

		_, _, err := NewSessionRepository(ctx, conf)

		assert.ErrorIs(t, err, apperror.ErrUnknownStorageDriver)
	})
}
