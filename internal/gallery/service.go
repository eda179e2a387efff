package gallery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/anoixa/image-share/database/models"
	"github.com/anoixa/image-share/database/repo/accounts"
	"github.com/anoixa/image-share/database/repo/images"
	"github.com/anoixa/image-share/storage"
	"github.com/google/uuid"
)

var (
	// ErrNoPublicImages 无公开图片错误
	ErrNoPublicImages = errors.New("no public images found")
	// ErrNoUserImages 用户无图片错误
	ErrNoUserImages = errors.New("no images found for this user")
)

// ImageView is the list-item payload for public and per-user listings. The
// stored binary is re-encoded to a data-URL on every read.
type ImageView struct {
	ID       string   `json:"id"`
	URL      string   `json:"url"`
	Alt      string   `json:"alt"`
	Likes    int64    `json:"likes"`
	Comments string   `json:"comments"`
	Username string   `json:"username"`
	Prompt   string   `json:"prompt"`
	Tags     []string `json:"tags"`
}

// SaveRequest 保存图片请求
type SaveRequest struct {
	Username  string
	ImageData string
	Prompt    string
	IsPublic  bool
	Tags      string
}

// Service 图库服务
type Service struct {
	imagesRepo   *images.Repository
	accountsRepo *accounts.Repository
	blobStore    storage.Provider // nil means inline database storage
}

// NewService 创建图库服务
func NewService(imagesRepo *images.Repository, accountsRepo *accounts.Repository, blobStore storage.Provider) *Service {
	return &Service{
		imagesRepo:   imagesRepo,
		accountsRepo: accountsRepo,
		blobStore:    blobStore,
	}
}

// SaveImage decodes the submitted data-URL and persists the image. The URL
// is derived from the generated id inside the same transaction.
func (s *Service) SaveImage(ctx context.Context, req *SaveRequest) (string, error) {
	if _, err := s.accountsRepo.GetUserByUsername(ctx, req.Username); err != nil {
		return "", err
	}

	data, err := DecodeDataURL(req.ImageData)
	if err != nil {
		return "", err
	}

	image := &models.Image{
		Prompt:   req.Prompt,
		IsPublic: req.IsPublic,
		Tags:     req.Tags,
		Username: req.Username,
	}

	if s.blobStore != nil {
		key := uuid.New().String()
		if err := s.blobStore.SaveWithContext(ctx, key, bytes.NewReader(data)); err != nil {
			return "", fmt.Errorf("failed to store image blob: %w", err)
		}
		image.StorageKey = key
	} else {
		image.Data = data
	}

	err = s.imagesRepo.CreateWithURL(ctx, image, func(id uint) string {
		return fmt.Sprintf("https://%s/%d", req.Username, id)
	})
	if err != nil {
		if image.StorageKey != "" {
			if cleanupErr := s.blobStore.DeleteWithContext(ctx, image.StorageKey); cleanupErr != nil {
				log.Printf("Failed to clean up orphaned blob %s: %v", image.StorageKey, cleanupErr)
			}
		}
		return "", err
	}

	return image.URL, nil
}

// ListPublicImages 获取所有公开图片
func (s *Service) ListPublicImages(ctx context.Context) ([]*ImageView, error) {
	imageList, err := s.imagesRepo.ListPublicImages(ctx)
	if err != nil {
		return nil, err
	}
	if len(imageList) == 0 {
		return nil, ErrNoPublicImages
	}

	return s.toViews(ctx, imageList)
}

// ListUserImages 获取指定用户的图片
func (s *Service) ListUserImages(ctx context.Context, username string) ([]*ImageView, error) {
	if _, err := s.accountsRepo.GetUserByUsername(ctx, username); err != nil {
		return nil, err
	}

	imageList, err := s.imagesRepo.ListImagesByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(imageList) == 0 {
		return nil, ErrNoUserImages
	}

	return s.toViews(ctx, imageList)
}

// Like 点赞图片，返回新的点赞数
func (s *Service) Like(ctx context.Context, imageID uint, username string) (int64, error) {
	image, user, err := s.lookup(ctx, imageID, username)
	if err != nil {
		return 0, err
	}

	if err := s.imagesRepo.AddLike(ctx, image, user); err != nil {
		return 0, err
	}

	return s.imagesRepo.CountLikes(ctx, imageID)
}

// Unlike 取消点赞，返回新的点赞数
func (s *Service) Unlike(ctx context.Context, imageID uint, username string) (int64, error) {
	image, user, err := s.lookup(ctx, imageID, username)
	if err != nil {
		return 0, err
	}

	if err := s.imagesRepo.RemoveLike(ctx, image, user); err != nil {
		return 0, err
	}

	return s.imagesRepo.CountLikes(ctx, imageID)
}

// IsLiked 检查用户是否已点赞
func (s *Service) IsLiked(ctx context.Context, imageID uint, username string) (bool, error) {
	image, user, err := s.lookup(ctx, imageID, username)
	if err != nil {
		return false, err
	}

	return s.imagesRepo.IsLikedBy(ctx, image.ID, user.ID)
}

// Comment 追加评论
func (s *Service) Comment(ctx context.Context, imageID uint, comment string) error {
	return s.imagesRepo.AppendComment(ctx, imageID, comment)
}

// LoadImageData returns the raw image bytes, hydrating from the blob store
// when the row only carries a storage key.
func (s *Service) LoadImageData(ctx context.Context, image *models.Image) ([]byte, error) {
	if image.StorageKey == "" || s.blobStore == nil {
		return image.Data, nil
	}

	reader, err := s.blobStore.GetWithContext(ctx, image.StorageKey)
	if err != nil {
		return nil, err
	}
	if closer, ok := reader.(io.Closer); ok {
		defer closer.Close()
	}

	return io.ReadAll(reader)
}

// GetImageByID 通过ID获取图片
func (s *Service) GetImageByID(ctx context.Context, imageID uint) (*models.Image, error) {
	return s.imagesRepo.GetImageByID(ctx, imageID)
}

func (s *Service) lookup(ctx context.Context, imageID uint, username string) (*models.Image, *models.User, error) {
	image, err := s.imagesRepo.GetImageByID(ctx, imageID)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.accountsRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	return image, user, nil
}

func (s *Service) toViews(ctx context.Context, imageList []*models.Image) ([]*ImageView, error) {
	ids := make([]uint, len(imageList))
	for i, image := range imageList {
		ids[i] = image.ID
	}

	likeCounts, err := s.imagesRepo.LikeCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]*ImageView, 0, len(imageList))
	for _, image := range imageList {
		data, err := s.LoadImageData(ctx, image)
		if err != nil {
			return nil, fmt.Errorf("failed to load image %d: %w", image.ID, err)
		}

		views = append(views, &ImageView{
			ID:       strconv.FormatUint(uint64(image.ID), 10),
			URL:      EncodeDataURL(data),
			Alt:      image.Prompt,
			Likes:    likeCounts[image.ID],
			Comments: image.Comments,
			Username: image.Username,
			Prompt:   image.Prompt,
			Tags:     SplitTags(image.Tags),
		})
	}

	return views, nil
}
