package models

import "gorm.io/gorm"

// User 用户模型
type User struct {
	gorm.Model
	Username string `gorm:"uniqueIndex;not null"`
	// Argon2id digest only; plaintext is never stored.
	Password string `gorm:"not null"`

	LikedImages []*Image `gorm:"many2many:likes;"`
}
