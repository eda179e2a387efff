package images

import (
	"context"
	"errors"
	"fmt"

	"github.com/anoixa/image-share/database"
	"github.com/anoixa/image-share/database/models"
	"gorm.io/gorm"
)

var (
	// ErrImageNotFound 图片不存在错误
	ErrImageNotFound = errors.New("image not found")
	// ErrAlreadyLiked 重复点赞错误
	ErrAlreadyLiked = errors.New("image already liked")
	// ErrNotLiked 未点赞错误
	ErrNotLiked = errors.New("image not liked")
)

// Repository 图片仓库
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建新的图片仓库
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// URLBuilder builds the final image URL from the generated record id.
type URLBuilder func(id uint) string

// CreateWithURL inserts the image, derives its URL from the generated id and
// persists it, all inside one transaction. The id is not known before the
// insert, so the URL is written in a second statement of the same commit; a
// row with an empty URL is never visible outside the transaction.
func (r *Repository) CreateWithURL(ctx context.Context, image *models.Image, buildURL URLBuilder) error {
	return database.TransactionWithContext(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(image).Error; err != nil {
			return fmt.Errorf("failed to create image: %w", err)
		}

		image.URL = buildURL(image.ID)
		if err := tx.Model(image).Update("url", image.URL).Error; err != nil {
			return fmt.Errorf("failed to set image url: %w", err)
		}

		return nil
	})
}

// GetImageByID 通过ID获取图片
func (r *Repository) GetImageByID(ctx context.Context, id uint) (*models.Image, error) {
	var image models.Image
	err := r.db.WithContext(ctx).First(&image, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	return &image, nil
}

// ListPublicImages 获取所有公开图片
func (r *Repository) ListPublicImages(ctx context.Context) ([]*models.Image, error) {
	var images []*models.Image
	err := r.db.WithContext(ctx).Where("is_public = ?", true).Order("id").Find(&images).Error
	return images, err
}

// ListImagesByUsername 获取用户图片列表
func (r *Repository) ListImagesByUsername(ctx context.Context, username string) ([]*models.Image, error) {
	var images []*models.Image
	err := r.db.WithContext(ctx).Where("username = ?", username).Order("id").Find(&images).Error
	return images, err
}

// CountLikes 统计图片点赞数量
func (r *Repository) CountLikes(ctx context.Context, imageID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("likes").Where("image_id = ?", imageID).Count(&count).Error
	return count, err
}

// LikeCounts 批量统计点赞数，使用 IN 语句避免 N+1 查询
func (r *Repository) LikeCounts(ctx context.Context, imageIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(imageIDs))
	if len(imageIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		ImageID uint
		Count   int64
	}
	err := r.db.WithContext(ctx).Table("likes").
		Select("image_id, COUNT(*) as count").
		Where("image_id IN ?", imageIDs).
		Group("image_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.ImageID] = row.Count
	}
	return counts, nil
}

// IsLikedBy 检查用户是否点赞了图片
func (r *Repository) IsLikedBy(ctx context.Context, imageID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("likes").
		Where("image_id = ? AND user_id = ?", imageID, userID).
		Count(&count).Error
	return count > 0, err
}

// AddLike 为图片添加点赞，重复点赞返回 ErrAlreadyLiked
func (r *Repository) AddLike(ctx context.Context, image *models.Image, user *models.User) error {
	return database.TransactionWithContext(ctx, r.db, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Table("likes").
			Where("image_id = ? AND user_id = ?", image.ID, user.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyLiked
		}

		return tx.Model(image).Association("LikedBy").Append(user)
	})
}

// RemoveLike 移除图片点赞，未点赞返回 ErrNotLiked
func (r *Repository) RemoveLike(ctx context.Context, image *models.Image, user *models.User) error {
	return database.TransactionWithContext(ctx, r.db, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Table("likes").
			Where("image_id = ? AND user_id = ?", image.ID, user.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotLiked
		}

		return tx.Model(image).Association("LikedBy").Delete(user)
	})
}

// AppendComment 追加评论到图片的评论日志
func (r *Repository) AppendComment(ctx context.Context, imageID uint, comment string) error {
	return database.TransactionWithContext(ctx, r.db, func(tx *gorm.DB) error {
		var image models.Image
		if err := tx.First(&image, imageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrImageNotFound
			}
			return err
		}

		if image.Comments != "" {
			image.Comments += "\n" + comment
		} else {
			image.Comments = comment
		}

		return tx.Model(&image).Update("comments", image.Comments).Error
	})
}
