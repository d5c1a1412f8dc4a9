package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"lingoboard/internal/datasource"
	"lingoboard/internal/logger"
	"lingoboard/internal/models"
)

// Request is a moderator's decision on one target.
type Request struct {
	Action      models.ModerationAction
	TargetID    string
	ModeratorID string
	Reason      string
	Days        int // mute/ban duration, 0 means permanent
}

// Moderator applies moderation actions and keeps the affected user's activity fresh.
type Moderator struct {
	source datasource.Source
	cache  *ActivityCache
	clock  Clock
}

func NewModerator(source datasource.Source, cache *ActivityCache, clock Clock) *Moderator {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Moderator{source: source, cache: cache, clock: clock}
}

// Apply validates req, records it with the data source and notifies the target's owner.
// The owner's cached activity is then recomputed; a failed refresh is only logged.
func (m *Moderator) Apply(ctx context.Context, req Request) (*models.ModerationLogWithDetails, error) {
	targetType := req.Action.TargetType()
	if targetType == "" {
		return nil, errors.Wrapf(datasource.ErrInvalidAction, "%q", req.Action)
	}
	if strings.TrimSpace(req.TargetID) == "" {
		return nil, errors.Wrap(datasource.ErrInvalidAction, "missing target id")
	}
	if req.Days < 0 {
		return nil, errors.Wrapf(datasource.ErrInvalidAction, "negative duration %d", req.Days)
	}

	snap, err := m.source.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load community data")
	}
	e := NewEnricher(snap)
	target := e.Target(targetType, req.TargetID)
	if !target.Found {
		return nil, errors.Wrapf(datasource.ErrNotFound, "%s %s", targetType, req.TargetID)
	}

	now := m.clock.Now()
	entry := models.ModerationLog{
		ID:          uuid.NewString(),
		ModeratorID: req.ModeratorID,
		Action:      req.Action,
		TargetType:  targetType,
		TargetID:    req.TargetID,
		Reason:      strings.TrimSpace(req.Reason),
		CreatedAt:   now,
	}
	action := datasource.Action{
		Log:          entry,
		Notification: notificationFor(entry, target, req.Days, now),
		PunishDays:   req.Days,
	}

	if err := m.source.Apply(ctx, action); err != nil {
		return nil, errors.Wrapf(err, "apply %s", req.Action)
	}
	logger.Infof("moderation: %s %s %s by %s", entry.Action, entry.TargetType, entry.TargetID, entry.ModeratorID)

	if m.cache != nil {
		if _, err := m.cache.Fetch(ctx, target.OwnerID, FetchOptions{Force: true}); err != nil {
			logger.Warnf("moderation: refresh activity of %s failed: %v", target.OwnerID, err)
		}
	}

	out := e.EnrichModerationLog(entry)
	return &out, nil
}

func notificationFor(entry models.ModerationLog, target models.TargetSummary, days int, now time.Time) *models.Notification {
	var msg string
	switch entry.Action {
	case models.ActionRemovePost:
		msg = fmt.Sprintf("Your post %q was removed by a moderator.", target.Label)
	case models.ActionRestorePost:
		msg = fmt.Sprintf("Your post %q has been restored.", target.Label)
	case models.ActionRemoveComment:
		msg = fmt.Sprintf("Your comment %q was removed by a moderator.", target.Label)
	case models.ActionRestoreComment:
		msg = fmt.Sprintf("Your comment %q has been restored.", target.Label)
	case models.ActionMuteUser:
		msg = "Your account has been muted" + duration(days) + "."
	case models.ActionBanUser:
		msg = "Your account has been banned" + duration(days) + "."
	case models.ActionUnbanUser:
		msg = "Your account restrictions have been lifted."
	}
	if entry.Reason != "" {
		msg += " Reason: " + entry.Reason
	}

	actor := entry.ModeratorID
	return &models.Notification{
		ID:        uuid.NewString(),
		UserID:    target.OwnerID,
		ActorID:   &actor,
		Type:      models.NotificationTypeModeration,
		Reason:    msg,
		CreatedAt: now,
	}
}

func duration(days int) string {
	switch {
	case days <= 0:
		return ""
	case days == 1:
		return " for 1 day"
	default:
		return fmt.Sprintf(" for %d days", days)
	}
}
