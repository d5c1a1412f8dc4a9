package models

import (
	"time"
)

// PostLike links a user to a post they liked.
type PostLike struct {
	UserID    string    `gorm:"primaryKey;size:36" json:"user_id"`
	PostID    string    `gorm:"primaryKey;size:36;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PostView links a user to a post they opened.
type PostView struct {
	UserID    string    `gorm:"primaryKey;size:36" json:"user_id"`
	PostID    string    `gorm:"primaryKey;size:36;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
