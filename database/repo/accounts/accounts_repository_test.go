package accounts

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/anoixa/image-share/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRepo(t *testing.T) *Repository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	return NewRepository(db)
}

func TestCreateAndGetUser(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, &models.User{Username: "alice", Password: "hash"}))

	user, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotZero(t, user.ID)
}

func TestGetUserNotFound(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.GetUserByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserExists(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	exists, err := repo.UserExists(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.CreateUser(ctx, &models.User{Username: "alice", Password: "hash"}))

	exists, err = repo.UserExists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDuplicateUsernameRejected(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, &models.User{Username: "alice", Password: "hash"}))
	err := repo.CreateUser(ctx, &models.User{Username: "alice", Password: "other"})
	assert.Error(t, err, "unique index on username must reject duplicates")
}
