package gallery

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"github.com/anoixa/image-share/database/models"
	"github.com/anoixa/image-share/database/repo/accounts"
	"github.com/anoixa/image-share/database/repo/images"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Image{}))

	return NewService(images.NewRepository(db), accounts.NewRepository(db), nil), db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "hash"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func dataURL(payload string) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte(payload))
}

func TestSaveImageBuildsURLFromID(t *testing.T) {
	service, db := setupService(t)
	createUser(t, db, "alice")

	url, err := service.SaveImage(context.Background(), &SaveRequest{
		Username:  "alice",
		ImageData: dataURL("raw-bytes"),
		Prompt:    "a cat",
		IsPublic:  true,
		Tags:      "cat,animal",
	})
	require.NoError(t, err)

	var image models.Image
	require.NoError(t, db.First(&image).Error)
	assert.Equal(t, fmt.Sprintf("https://alice/%d", image.ID), url)
	assert.Equal(t, url, image.URL)
	assert.Equal(t, []byte("raw-bytes"), image.Data)
}

func TestSaveImageUnknownUser(t *testing.T) {
	service, _ := setupService(t)

	_, err := service.SaveImage(context.Background(), &SaveRequest{
		Username:  "ghost",
		ImageData: dataURL("x"),
		Tags:      "tag",
	})
	assert.ErrorIs(t, err, accounts.ErrUserNotFound)
}

func TestSaveImageBadPayload(t *testing.T) {
	service, db := setupService(t)
	createUser(t, db, "alice")

	_, err := service.SaveImage(context.Background(), &SaveRequest{
		Username:  "alice",
		ImageData: "missing-comma-payload",
		Tags:      "tag",
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Image{}).Count(&count).Error)
	assert.Zero(t, count, "failed save must not leave a row behind")
}

func TestListPublicImages(t *testing.T) {
	service, db := setupService(t)
	createUser(t, db, "alice")

	_, err := service.ListPublicImages(context.Background())
	assert.ErrorIs(t, err, ErrNoPublicImages)

	_, err = service.SaveImage(context.Background(), &SaveRequest{
		Username: "alice", ImageData: dataURL("public-img"), Prompt: "sunset", IsPublic: true, Tags: "sky,orange",
	})
	require.NoError(t, err)
	_, err = service.SaveImage(context.Background(), &SaveRequest{
		Username: "alice", ImageData: dataURL("private-img"), Prompt: "secret", IsPublic: false, Tags: "hidden",
	})
	require.NoError(t, err)

	views, err := service.ListPublicImages(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)

	view := views[0]
	assert.Equal(t, dataURL("public-img"), view.URL)
	assert.Equal(t, "sunset", view.Alt)
	assert.Equal(t, "sunset", view.Prompt)
	assert.Equal(t, "alice", view.Username)
	assert.Equal(t, []string{"sky", "orange"}, view.Tags)
	assert.Zero(t, view.Likes)
}

func TestListUserImages(t *testing.T) {
	service, db := setupService(t)
	createUser(t, db, "alice")
	createUser(t, db, "bob")

	_, err := service.ListUserImages(context.Background(), "ghost")
	assert.ErrorIs(t, err, accounts.ErrUserNotFound)

	_, err = service.ListUserImages(context.Background(), "bob")
	assert.ErrorIs(t, err, ErrNoUserImages)

	// private images still show up in the owner's listing
	_, err = service.SaveImage(context.Background(), &SaveRequest{
		Username: "alice", ImageData: dataURL("img"), Prompt: "p", IsPublic: false, Tags: "t",
	})
	require.NoError(t, err)

	views, err := service.ListUserImages(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, views, 1)
}

func TestLikeUnlikeFlow(t *testing.T) {
	service, db := setupService(t)
	user := createUser(t, db, "alice")
	createUser(t, db, "bob")

	_, err := service.SaveImage(context.Background(), &SaveRequest{
		Username: "alice", ImageData: dataURL("img"), Prompt: "p", IsPublic: true, Tags: "t",
	})
	require.NoError(t, err)

	var image models.Image
	require.NoError(t, db.First(&image).Error)

	liked, err := service.IsLiked(context.Background(), image.ID, user.Username)
	require.NoError(t, err)
	assert.False(t, liked)

	likes, err := service.Like(context.Background(), image.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), likes)

	liked, err = service.IsLiked(context.Background(), image.ID, "alice")
	require.NoError(t, err)
	assert.True(t, liked)

	// second like is rejected and the count stays put
	_, err = service.Like(context.Background(), image.ID, "alice")
	assert.ErrorIs(t, err, images.ErrAlreadyLiked)

	count, err := images.NewRepository(db).CountLikes(context.Background(), image.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	likes, err = service.Like(context.Background(), image.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(2), likes)

	likes, err = service.Unlike(context.Background(), image.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), likes)

	liked, err = service.IsLiked(context.Background(), image.ID, "alice")
	require.NoError(t, err)
	assert.False(t, liked)

	_, err = service.Unlike(context.Background(), image.ID, "alice")
	assert.ErrorIs(t, err, images.ErrNotLiked)
}

func TestLikeLookupFailures(t *testing.T) {
	service, db := setupService(t)
	createUser(t, db, "alice")

	_, err := service.Like(context.Background(), 12345, "alice")
	assert.ErrorIs(t, err, images.ErrImageNotFound)

	_, err = service.SaveImage(context.Background(), &SaveRequest{
		Username: "alice", ImageData: dataURL("img"), Prompt: "p", IsPublic: true, Tags: "t",
	})
	require.NoError(t, err)

	var image models.Image
	require.NoError(t, db.First(&image).Error)

	_, err = service.Like(context.Background(), image.ID, "ghost")
	assert.ErrorIs(t, err, accounts.ErrUserNotFound)
}

func TestCommentAppendsWithNewline(t *testing.T) {
	service, db := setupService(t)
	createUser(t, db, "alice")

	err := service.Comment(context.Background(), 999, "hello")
	assert.ErrorIs(t, err, images.ErrImageNotFound)

	_, err = service.SaveImage(context.Background(), &SaveRequest{
		Username: "alice", ImageData: dataURL("img"), Prompt: "p", IsPublic: true, Tags: "t",
	})
	require.NoError(t, err)

	var image models.Image
	require.NoError(t, db.First(&image).Error)

	require.NoError(t, service.Comment(context.Background(), image.ID, "first"))
	require.NoError(t, service.Comment(context.Background(), image.ID, "second"))

	require.NoError(t, db.First(&image, image.ID).Error)
	assert.Equal(t, "first\nsecond", image.Comments)
}
