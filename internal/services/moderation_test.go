package services

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingoboard/internal/datasource"
	"lingoboard/internal/models"
)

func newModeratorFixture(t *testing.T) (*Moderator, *datasource.MockSource, *ActivityCache) {
	t.Helper()
	src := newFixtureSource(t)
	cache := NewActivityCache(NewAggregator(src, fixedClock{testNow}).Aggregate)
	return NewModerator(src, cache, fixedClock{testNow}), src, cache
}

func TestModeratorRemoveComment(t *testing.T) {
	m, src, cache := newModeratorFixture(t)
	ctx := context.Background()

	// warm the cache with the state before moderation
	before, err := cache.Fetch(ctx, "u1", FetchOptions{})
	require.NoError(t, err)
	require.Len(t, before.RemovedComments, 2)

	out, err := m.Apply(ctx, Request{
		Action:      models.ActionRemoveComment,
		TargetID:    "c5",
		ModeratorID: "m1",
		Reason:      "  low effort  ",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, models.TargetComment, out.TargetType)
	assert.Equal(t, "low effort", out.Reason)
	assert.Equal(t, "u1", out.Target.OwnerID)
	assert.Equal(t, "mod_mia", out.Moderator.Username)
	assert.Equal(t, testNow, out.CreatedAt)

	notes := src.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, "u1", notes[0].UserID)
	assert.Equal(t, models.NotificationTypeModeration, notes[0].Type)
	assert.Contains(t, notes[0].Reason, "Add graded readers.")
	assert.Contains(t, notes[0].Reason, "Reason: low effort")

	// the owner's activity was refreshed without an explicit force
	after, err := cache.Fetch(ctx, "u1", FetchOptions{})
	require.NoError(t, err)
	assert.Len(t, after.RemovedComments, 3)
	assert.Equal(t, out.ID, after.ModerationLogs[0].ID)
}

func TestModeratorBanUser(t *testing.T) {
	m, src, _ := newModeratorFixture(t)

	_, err := m.Apply(context.Background(), Request{Action: models.ActionBanUser, TargetID: "u2", ModeratorID: "m1", Days: 3})
	require.NoError(t, err)

	snap, err := src.Load(context.Background())
	require.NoError(t, err)
	for _, u := range snap.Users {
		if u.ID == "u2" {
			assert.Equal(t, models.UserStatusBanned, u.Status)
			require.NotNil(t, u.PunishExpires)
			assert.Equal(t, testNow.AddDate(0, 0, 3), *u.PunishExpires)
		}
	}
	assert.Equal(t, "Your account has been banned for 3 days.", src.Notifications()[0].Reason)
}

func TestModeratorRejectsBadRequests(t *testing.T) {
	m, src, _ := newModeratorFixture(t)
	ctx := context.Background()

	_, err := m.Apply(ctx, Request{Action: "pin_post", TargetID: "p1"})
	assert.True(t, errors.Is(err, datasource.ErrInvalidAction))

	_, err = m.Apply(ctx, Request{Action: models.ActionRemovePost, TargetID: " "})
	assert.True(t, errors.Is(err, datasource.ErrInvalidAction))

	_, err = m.Apply(ctx, Request{Action: models.ActionMuteUser, TargetID: "u1", Days: -1})
	assert.True(t, errors.Is(err, datasource.ErrInvalidAction))

	_, err = m.Apply(ctx, Request{Action: models.ActionRemovePost, TargetID: "p404"})
	assert.True(t, errors.Is(err, datasource.ErrNotFound))

	assert.Empty(t, src.Notifications())
}

func TestModeratorRefreshFailureIsNotReturned(t *testing.T) {
	src := newFixtureSource(t)
	failing := NewActivityCache(func(context.Context, string) (*models.UserCommunityActivity, error) {
		return nil, datasource.ErrBackend
	})
	m := NewModerator(src, failing, nil)

	_, err := m.Apply(context.Background(), Request{Action: models.ActionRestorePost, TargetID: "p6", ModeratorID: "m1"})
	require.NoError(t, err)
	assert.Len(t, src.Notifications(), 1)
}

func TestModeratorSourceFailure(t *testing.T) {
	m := NewModerator(brokenSource{}, nil, nil)

	_, err := m.Apply(context.Background(), Request{Action: models.ActionRemovePost, TargetID: "p1"})
	assert.True(t, errors.Is(err, datasource.ErrBackend))
}
