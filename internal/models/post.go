package models

import (
	"time"
)

type PostStatus string

const (
	PostStatusPublished PostStatus = "published"
	PostStatusRemoved   PostStatus = "removed"
	PostStatusDraft     PostStatus = "draft"
)

type Post struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	UserID       string     `gorm:"size:36;not null;index" json:"user_id"`
	Title        string     `gorm:"not null" json:"title"`
	Content      string     `gorm:"type:text" json:"content"` // markdown
	Status       PostStatus `gorm:"size:20;default:'published';index" json:"status"`
	Likes        int        `gorm:"default:0" json:"likes"`
	Views        int        `gorm:"default:0" json:"views"`
	CommentCount int        `gorm:"default:0" json:"comment_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Soft delete markers set by moderation.
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
	DeletedBy     *string    `gorm:"size:36" json:"deleted_by,omitempty"`
	DeletedReason *string    `gorm:"type:text" json:"deleted_reason,omitempty"`
}
