package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/anoixa/image-share/database/models"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// ErrUserNotFound 用户不存在错误
var ErrUserNotFound = errors.New("user not found")

// Repository 账户仓库
type Repository struct {
	db    *gorm.DB
	group singleflight.Group
}

// NewRepository 创建新的账户仓库
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetUserByUsername 通过用户名获取用户
// Concurrent lookups for the same username are collapsed into one query.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	v, err, _ := r.group.Do("user:"+username, func() (interface{}, error) {
		var user models.User
		err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		return &user, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.User), nil
}

// UserExists 检查用户是否存在
func (r *Repository) UserExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// CreateUser 创建用户
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}
