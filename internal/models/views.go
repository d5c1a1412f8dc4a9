package models

import (
	"time"
)

// View objects are built fresh from the raw records on every request and never persisted.

// CommentWithUser is a comment joined with its author and badge. Replies is filled
// in while the comment tree is linked.
type CommentWithUser struct {
	Comment
	User        User               `json:"user"`
	Badge       Badge              `json:"badge"`
	ContentHTML string             `json:"content_html"`
	Replies     []*CommentWithUser `json:"replies"`
}

// PostWithUser is the enriched post. CommentCount is recomputed from the
// non-deleted comments of the post.
type PostWithUser struct {
	Post
	User        User   `json:"user"`
	Badge       Badge  `json:"badge"`
	ContentHTML string `json:"content_html"`
}

// TargetSummary is a resolved polymorphic reference.
type TargetSummary struct {
	Type    TargetType `json:"type"`
	ID      string     `json:"id"`
	OwnerID string     `json:"owner_id"`
	Label   string     `json:"label"`
	Found   bool       `json:"found"`
}

type ViolationWithDetails struct {
	Violation
	User   User           `json:"user"`
	Badge  Badge          `json:"badge"`
	Rule   *CommunityRule `json:"rule"`
	Target TargetSummary  `json:"target"`
}

type ModerationLogWithDetails struct {
	ModerationLog
	Moderator User          `json:"moderator"`
	Target    TargetSummary `json:"target"`
}

type AppealWithDetails struct {
	Appeal
	User   User          `json:"user"`
	Badge  Badge         `json:"badge"`
	Target TargetSummary `json:"target"`
}

// UserCommunityActivity is the per-user aggregate shown on the moderation profile.
type UserCommunityActivity struct {
	UserID          string                     `json:"userId"`
	User            User                       `json:"user"`
	Badge           Badge                      `json:"badge"`
	Posts           []PostWithUser             `json:"posts"`
	LikedPosts      []PostWithUser             `json:"likedPosts"`
	CommentedPosts  []PostWithUser             `json:"commentedPosts"`
	ViewedPosts     []PostWithUser             `json:"viewedPosts"`
	RemovedPosts    []PostWithUser             `json:"removedPosts"`
	RemovedComments []CommentWithUser          `json:"removedComments"`
	Violations      []ViolationWithDetails     `json:"violations"`
	ModerationLogs  []ModerationLogWithDetails `json:"moderationLogs"`
	GeneratedAt     time.Time                  `json:"generatedAt"`
}
