package models

import "gorm.io/gorm"

// Image 图片模型
type Image struct {
	gorm.Model
	// Derived after insert as https://{username}/{id}; set inside the same
	// transaction that created the row.
	URL string `gorm:"uniqueIndex"`

	// Raw image bytes when the configured storage provider is "database".
	Data []byte

	Prompt string `gorm:"size:500"`
	// No column default: gorm omits zero-value fields from the INSERT when a
	// default tag is present, which would turn a private save into a public
	// row. The field must be written as-is, false included.
	IsPublic bool `gorm:"not null"`

	// Comma-joined tag list.
	Tags string `gorm:"size:500"`

	// Newline-joined append-only comment log.
	Comments string

	// Owner referenced by username rather than user id, matching the wire
	// format which embeds the username in image URLs.
	Username string `gorm:"index;not null"`

	// Object key when the blob lives in an external storage provider.
	StorageKey string `gorm:"index"`

	LikedBy []*User `gorm:"many2many:likes;"`
}
