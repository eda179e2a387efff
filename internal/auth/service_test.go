package auth

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/anoixa/image-share/database/models"
	"github.com/anoixa/image-share/database/repo/accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	jwtService, err := NewJWTService("test-secret", 30*time.Minute)
	require.NoError(t, err)

	return NewService(accounts.NewRepository(db), jwtService)
}

func TestRegisterHashesPassword(t *testing.T) {
	service := setupService(t)

	user, err := service.Register(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", user.Password)
	assert.True(t, strings.HasPrefix(user.Password, "$argon2id$"))
}

func TestRegisterDuplicate(t *testing.T) {
	service := setupService(t)
	ctx := context.Background()

	_, err := service.Register(ctx, "alice", "secret")
	require.NoError(t, err)

	_, err = service.Register(ctx, "alice", "other")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLoginIssuesToken(t *testing.T) {
	service := setupService(t)
	ctx := context.Background()

	_, err := service.Register(ctx, "alice", "secret")
	require.NoError(t, err)

	result, err := service.Login(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", result.User.Username)
	assert.NotEmpty(t, result.AccessToken)
	assert.True(t, result.AccessTokenExpiry.After(time.Now()))

	claims, err := service.JWT().ParseToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims["username"])
}

func TestLoginInvalidCredentials(t *testing.T) {
	service := setupService(t)
	ctx := context.Background()

	_, err := service.Register(ctx, "alice", "secret")
	require.NoError(t, err)

	// wrong password and unknown user collapse to the same error
	_, err = service.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login(ctx, "ghost", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseTokenRejectsForgedSignature(t *testing.T) {
	first, err := NewJWTService("secret-a", time.Minute)
	require.NoError(t, err)
	second, err := NewJWTService("secret-b", time.Minute)
	require.NoError(t, err)

	token, _, err := first.GenerateAccessToken("alice", 1)
	require.NoError(t, err)

	_, err = second.ParseToken(token)
	assert.Error(t, err)
}
