package models

import (
	"time"
)

type NotificationType string

// NotificationTypeModeration is sent when content is removed or an account is punished.
const NotificationTypeModeration NotificationType = "moderation"

type Notification struct {
	ID        string           `gorm:"primaryKey;size:36" json:"id"`
	UserID    string           `gorm:"size:36;not null;index" json:"user_id"` // receiver
	ActorID   *string          `gorm:"size:36;index" json:"actor_id"`         // moderator
	Type      NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Reason    string           `gorm:"type:text" json:"reason"`
	IsRead    bool             `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
