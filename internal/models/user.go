package models

import (
	"time"
)

const UnknownUsername = "Unknown"

// User status values; punishments are applied by moderators.
const (
	UserStatusNormal = 0
	UserStatusMuted  = 1
	UserStatusBanned = 2
)

type User struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	Username      string     `gorm:"not null" json:"username"`
	Email         string     `gorm:"uniqueIndex;not null" json:"email"`
	Avatar        string     `gorm:"default:🌱" json:"avatar"`                     // emoji avatar
	BadgeLevel    int        `gorm:"default:1;index" json:"badge_level"`          // key into the badge table
	Role          string     `gorm:"size:20;default:'user';not null" json:"role"` // user, admin
	Status        int        `gorm:"default:0" json:"status"`                     // 0 normal, 1 muted, 2 banned
	PunishExpires *time.Time `json:"punish_expires"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// UnknownUser is the placeholder shown when a referenced user record is missing.
func UnknownUser(id string) User {
	return User{
		ID:       id,
		Username: UnknownUsername,
		Avatar:   "👤",
		Role:     "user",
	}
}
