package datasource

import (
	"context"
	_ "embed"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/pkg/errors"

	"lingoboard/internal/models"
)

//go:embed fixtures/community.json
var fixtureJSON []byte

// MockSource serves the embedded fixture dataset. Moderation actions are applied
// to the in-memory copy, so they are visible to subsequent loads.
type MockSource struct {
	mu            sync.RWMutex
	data          *Snapshot
	notifications []models.Notification
	latency       time.Duration
}

// NewMockSource parses the embedded fixtures. latency is added to every Load.
func NewMockSource(latency time.Duration) (*MockSource, error) {
	snap, err := ParseFixtures(fixtureJSON)
	if err != nil {
		return nil, err
	}
	return NewMockSourceFrom(snap, latency), nil
}

// NewMockSourceFrom wraps an existing snapshot; the source keeps its own copy.
func NewMockSourceFrom(snap *Snapshot, latency time.Duration) *MockSource {
	return &MockSource{data: snap.Clone(), latency: latency}
}

// ParseFixtures decodes a snapshot in the fixture format.
func ParseFixtures(raw []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, errors.Wrap(err, "parse fixtures")
	}
	if len(snap.Badges) == 0 {
		snap.Badges = models.DefaultBadges()
	}
	return &snap, nil
}

func (s *MockSource) Load(ctx context.Context) (*Snapshot, error) {
	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone(), nil
}

func (s *MockSource) Apply(ctx context.Context, action Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := applyAction(s.data, action); err != nil {
		return err
	}
	if action.Notification != nil {
		s.notifications = append(s.notifications, *action.Notification)
	}
	return nil
}

// Notifications returns the notifications written by applied actions.
func (s *MockSource) Notifications() []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.notifications)
}

// applyAction updates the target record and appends the log. Updated records get
// fresh pointer values so earlier clones are not affected.
func applyAction(snap *Snapshot, action Action) error {
	entry := action.Log
	at := entry.CreatedAt
	if at.IsZero() {
		at = time.Now()
		entry.CreatedAt = at
	}
	by := entry.ModeratorID
	reason := entry.Reason

	switch entry.Action {
	case models.ActionRemovePost, models.ActionRestorePost:
		i := slices.IndexFunc(snap.Posts, func(p models.Post) bool { return p.ID == entry.TargetID })
		if i < 0 {
			return errors.Wrapf(ErrNotFound, "post %s", entry.TargetID)
		}
		p := &snap.Posts[i]
		p.UpdatedAt = at
		if entry.Action == models.ActionRemovePost {
			p.Status = models.PostStatusRemoved
			p.DeletedAt, p.DeletedBy, p.DeletedReason = &at, &by, &reason
		} else {
			p.Status = models.PostStatusPublished
			p.DeletedAt, p.DeletedBy, p.DeletedReason = nil, nil, nil
		}

	case models.ActionRemoveComment, models.ActionRestoreComment:
		i := slices.IndexFunc(snap.Comments, func(c models.Comment) bool { return c.ID == entry.TargetID })
		if i < 0 {
			return errors.Wrapf(ErrNotFound, "comment %s", entry.TargetID)
		}
		c := &snap.Comments[i]
		if entry.Action == models.ActionRemoveComment {
			c.DeletedAt, c.DeletedBy, c.DeletedReason = &at, &by, &reason
		} else {
			c.DeletedAt, c.DeletedBy, c.DeletedReason = nil, nil, nil
		}

	case models.ActionMuteUser, models.ActionBanUser, models.ActionUnbanUser:
		i := slices.IndexFunc(snap.Users, func(u models.User) bool { return u.ID == entry.TargetID })
		if i < 0 {
			return errors.Wrapf(ErrNotFound, "user %s", entry.TargetID)
		}
		u := &snap.Users[i]
		u.UpdatedAt = at
		status, expires := punishment(entry.Action, at, action.PunishDays)
		u.Status, u.PunishExpires = status, expires

	default:
		return errors.Wrapf(ErrInvalidAction, "%q", entry.Action)
	}

	snap.ModerationLogs = append(snap.ModerationLogs, entry)
	return nil
}

// punishment maps a user action to the new status and expiry. days <= 0 means permanent.
func punishment(action models.ModerationAction, at time.Time, days int) (int, *time.Time) {
	status := models.UserStatusNormal
	switch action {
	case models.ActionMuteUser:
		status = models.UserStatusMuted
	case models.ActionBanUser:
		status = models.UserStatusBanned
	default:
		return status, nil
	}
	if days <= 0 {
		return status, nil
	}
	expires := at.AddDate(0, 0, days)
	return status, &expires
}
