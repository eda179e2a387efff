package images

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

func setupRepo(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Image{}))

	return NewRepository(db), db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "hash"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedImage(t *testing.T, repo *Repository, username string, public bool) *models.Image {
	t.Helper()
	image := &models.Image{
		Data:     []byte("bytes"),
		Prompt:   "prompt",
		IsPublic: public,
		Tags:     "a,b",
		Username: username,
	}
	err := repo.CreateWithURL(context.Background(), image, func(id uint) string {
		return fmt.Sprintf("https://%s/%d", username, id)
	})
	require.NoError(t, err)
	return image
}

func TestCreateWithURL(t *testing.T) {
	repo, db := setupRepo(t)
	seedUser(t, db, "alice")

	image := seedImage(t, repo, "alice", true)
	assert.Equal(t, fmt.Sprintf("https://alice/%d", image.ID), image.URL)

	// the persisted row carries the derived URL
	var stored models.Image
	require.NoError(t, db.First(&stored, image.ID).Error)
	assert.Equal(t, image.URL, stored.URL)
}

func TestCreateKeepsPrivateFlag(t *testing.T) {
	repo, db := setupRepo(t)
	seedUser(t, db, "alice")

	image := seedImage(t, repo, "alice", false)

	// read back through a fresh query so a column default cannot hide behind
	// the in-memory struct
	var stored models.Image
	require.NoError(t, db.First(&stored, image.ID).Error)
	assert.False(t, stored.IsPublic, "image saved as private must stay private")

	public, err := repo.ListPublicImages(context.Background())
	require.NoError(t, err)
	assert.Empty(t, public)
}

func TestListFilters(t *testing.T) {
	repo, db := setupRepo(t)
	seedUser(t, db, "alice")
	seedUser(t, db, "bob")

	seedImage(t, repo, "alice", true)
	seedImage(t, repo, "alice", false)
	seedImage(t, repo, "bob", true)

	ctx := context.Background()

	public, err := repo.ListPublicImages(ctx)
	require.NoError(t, err)
	assert.Len(t, public, 2)

	mine, err := repo.ListImagesByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestLikeLifecycle(t *testing.T) {
	repo, db := setupRepo(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	image := seedImage(t, repo, "alice", true)

	ctx := context.Background()

	require.NoError(t, repo.AddLike(ctx, image, alice))
	assert.ErrorIs(t, repo.AddLike(ctx, image, alice), ErrAlreadyLiked)
	require.NoError(t, repo.AddLike(ctx, image, bob))

	count, err := repo.CountLikes(ctx, image.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	liked, err := repo.IsLikedBy(ctx, image.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	require.NoError(t, repo.RemoveLike(ctx, image, alice))
	assert.ErrorIs(t, repo.RemoveLike(ctx, image, alice), ErrNotLiked)

	liked, err = repo.IsLikedBy(ctx, image.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestLikeCountsBatch(t *testing.T) {
	repo, db := setupRepo(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	first := seedImage(t, repo, "alice", true)
	second := seedImage(t, repo, "alice", true)
	third := seedImage(t, repo, "alice", true)

	ctx := context.Background()
	require.NoError(t, repo.AddLike(ctx, first, alice))
	require.NoError(t, repo.AddLike(ctx, first, bob))
	require.NoError(t, repo.AddLike(ctx, second, alice))

	counts, err := repo.LikeCounts(ctx, []uint{first.ID, second.ID, third.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[first.ID])
	assert.Equal(t, int64(1), counts[second.ID])
	assert.Zero(t, counts[third.ID])

	empty, err := repo.LikeCounts(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAppendComment(t *testing.T) {
	repo, db := setupRepo(t)
	seedUser(t, db, "alice")
	image := seedImage(t, repo, "alice", true)

	ctx := context.Background()

	assert.ErrorIs(t, repo.AppendComment(ctx, 99999, "x"), ErrImageNotFound)

	require.NoError(t, repo.AppendComment(ctx, image.ID, "first"))
	require.NoError(t, repo.AppendComment(ctx, image.ID, "second"))

	var stored models.Image
	require.NoError(t, db.First(&stored, image.ID).Error)
	assert.Equal(t, "first\nsecond", stored.Comments)
}
