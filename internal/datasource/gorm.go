package datasource

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"lingoboard/internal/models"
)

// GormSource reads and writes the community tables directly.
type GormSource struct {
	db *gorm.DB
}

func NewGormSource(db *gorm.DB) *GormSource {
	return &GormSource{db: db}
}

func (s *GormSource) Load(ctx context.Context) (*Snapshot, error) {
	tx := s.db.WithContext(ctx)
	snap := &Snapshot{}

	tables := []struct {
		name  string
		dest  any
		order string
	}{
		{"users", &snap.Users, "created_at"},
		{"badges", &snap.Badges, "level"},
		{"community_rules", &snap.Rules, "id"},
		{"posts", &snap.Posts, "created_at"},
		{"comments", &snap.Comments, "created_at"},
		{"post_likes", &snap.Likes, "created_at"},
		{"post_views", &snap.Views, "created_at"},
		{"violations", &snap.Violations, "created_at"},
		{"moderation_logs", &snap.ModerationLogs, "created_at"},
		{"appeals", &snap.Appeals, "created_at"},
	}
	for _, t := range tables {
		if err := tx.Order(t.order).Find(t.dest).Error; err != nil {
			return nil, errors.Wrapf(err, "load %s", t.name)
		}
	}
	return snap, nil
}

func (s *GormSource) Apply(ctx context.Context, action Action) error {
	entry := action.Log
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	at := entry.CreatedAt

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. update the target row
		var res *gorm.DB
		switch entry.Action {
		case models.ActionRemovePost:
			res = tx.Model(&models.Post{}).Where("id = ?", entry.TargetID).Updates(map[string]any{
				"status":         models.PostStatusRemoved,
				"deleted_at":     at,
				"deleted_by":     entry.ModeratorID,
				"deleted_reason": entry.Reason,
				"updated_at":     at,
			})
		case models.ActionRestorePost:
			res = tx.Model(&models.Post{}).Where("id = ?", entry.TargetID).Updates(map[string]any{
				"status":         models.PostStatusPublished,
				"deleted_at":     nil,
				"deleted_by":     nil,
				"deleted_reason": nil,
				"updated_at":     at,
			})
		case models.ActionRemoveComment:
			res = tx.Model(&models.Comment{}).Where("id = ?", entry.TargetID).Updates(map[string]any{
				"deleted_at":     at,
				"deleted_by":     entry.ModeratorID,
				"deleted_reason": entry.Reason,
			})
		case models.ActionRestoreComment:
			res = tx.Model(&models.Comment{}).Where("id = ?", entry.TargetID).Updates(map[string]any{
				"deleted_at":     nil,
				"deleted_by":     nil,
				"deleted_reason": nil,
			})
		case models.ActionMuteUser, models.ActionBanUser, models.ActionUnbanUser:
			status, expires := punishment(entry.Action, at, action.PunishDays)
			res = tx.Model(&models.User{}).Where("id = ?", entry.TargetID).Updates(map[string]any{
				"status":         status,
				"punish_expires": expires,
				"updated_at":     at,
			})
		default:
			return errors.Wrapf(ErrInvalidAction, "%q", entry.Action)
		}
		if res.Error != nil {
			return errors.Wrapf(res.Error, "%s %s", entry.Action, entry.TargetID)
		}
		if res.RowsAffected == 0 {
			return errors.Wrapf(ErrNotFound, "%s %s", entry.TargetType, entry.TargetID)
		}

		// 2. audit log
		if err := tx.Create(&entry).Error; err != nil {
			return errors.Wrap(err, "create moderation log")
		}

		// 3. notify the owner
		if action.Notification != nil {
			if err := tx.Create(action.Notification).Error; err != nil {
				return errors.Wrap(err, "create notification")
			}
		}
		return nil
	})
}
