package models

import (
	"time"
)

type Comment struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	PostID          string    `gorm:"size:36;not null;index" json:"post_id"`
	UserID          string    `gorm:"size:36;not null;index" json:"user_id"`
	Content         string    `gorm:"type:text;not null" json:"content"`      // html
	ParentCommentID *string   `gorm:"size:36;index" json:"parent_comment_id"` // nil for top-level comments
	CreatedAt       time.Time `json:"created_at"`

	// Soft delete markers. Removed comments stay visible to moderators.
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
	DeletedBy     *string    `gorm:"size:36" json:"deleted_by,omitempty"`
	DeletedReason *string    `gorm:"type:text" json:"deleted_reason,omitempty"`
}

// IsDeleted reports whether the comment carries a soft delete marker.
func (c Comment) IsDeleted() bool {
	return c.DeletedAt != nil
}
