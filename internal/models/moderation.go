package models

import (
	"time"
)

// TargetType tags a polymorphic reference (target_type + target_id).
type TargetType string

const (
	TargetPost    TargetType = "post"
	TargetComment TargetType = "comment"
	TargetUser    TargetType = "user"
)

type CommunityRule struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	Title       string `gorm:"size:100;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Severity    int    `gorm:"default:1" json:"severity"` // 1 low .. 3 high
}

type Violation struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	UserID     string     `gorm:"size:36;not null;index" json:"user_id"` // violator
	RuleID     string     `gorm:"size:36;index" json:"rule_id"`
	TargetType TargetType `gorm:"size:20;not null" json:"target_type"`
	TargetID   string     `gorm:"size:36;not null;index" json:"target_id"`
	Reason     string     `gorm:"type:text" json:"reason"`
	CreatedBy  string     `gorm:"size:36" json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
}

type ModerationAction string

const (
	ActionRemovePost     ModerationAction = "remove_post"
	ActionRestorePost    ModerationAction = "restore_post"
	ActionRemoveComment  ModerationAction = "remove_comment"
	ActionRestoreComment ModerationAction = "restore_comment"
	ActionMuteUser       ModerationAction = "mute_user"
	ActionBanUser        ModerationAction = "ban_user"
	ActionUnbanUser      ModerationAction = "unban_user"
)

// TargetType returns the kind of record the action operates on, or "" for an unknown action.
func (a ModerationAction) TargetType() TargetType {
	switch a {
	case ActionRemovePost, ActionRestorePost:
		return TargetPost
	case ActionRemoveComment, ActionRestoreComment:
		return TargetComment
	case ActionMuteUser, ActionBanUser, ActionUnbanUser:
		return TargetUser
	}
	return ""
}

type ModerationLog struct {
	ID          string           `gorm:"primaryKey;size:36" json:"id"`
	ModeratorID string           `gorm:"size:36;not null;index" json:"moderator_id"`
	Action      ModerationAction `gorm:"size:30;not null" json:"action"`
	TargetType  TargetType       `gorm:"size:20;not null" json:"target_type"`
	TargetID    string           `gorm:"size:36;not null;index" json:"target_id"`
	Reason      string           `gorm:"type:text" json:"reason"`
	CreatedAt   time.Time        `json:"created_at"`
}

type AppealStatus string

const (
	AppealPending  AppealStatus = "pending"
	AppealApproved AppealStatus = "approved"
	AppealRejected AppealStatus = "rejected"
)

type Appeal struct {
	ID          string       `gorm:"primaryKey;size:36" json:"id"`
	UserID      string       `gorm:"size:36;not null;index" json:"user_id"`
	ViolationID string       `gorm:"size:36;index" json:"violation_id"`
	TargetType  TargetType   `gorm:"size:20;not null" json:"target_type"`
	TargetID    string       `gorm:"size:36;not null" json:"target_id"`
	Reason      string       `gorm:"type:text" json:"reason"`
	Status      AppealStatus `gorm:"size:20;default:'pending';index" json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	ResolvedAt  *time.Time   `json:"resolved_at,omitempty"`
}
