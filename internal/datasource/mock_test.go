package datasource

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingoboard/internal/models"
)

func newMock(t *testing.T) *MockSource {
	t.Helper()
	src, err := NewMockSource(0)
	require.NoError(t, err)
	return src
}

func TestMockSourceLoadFixtures(t *testing.T) {
	src := newMock(t)

	snap, err := src.Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, snap.Users, 6)
	assert.Len(t, snap.Badges, 5)
	assert.Len(t, snap.Posts, 6)
	assert.Len(t, snap.Comments, 9)
	assert.NotEmpty(t, snap.ModerationLogs)

	var c2 models.Comment
	for _, c := range snap.Comments {
		if c.ID == "c2" {
			c2 = c
		}
	}
	require.NotNil(t, c2.ParentCommentID)
	assert.Equal(t, "c1", *c2.ParentCommentID)
}

func TestMockSourceLoadReturnsCopy(t *testing.T) {
	src := newMock(t)
	ctx := context.Background()

	first, err := src.Load(ctx)
	require.NoError(t, err)
	first.Posts[0].Title = "changed"
	first.Users = nil

	second, err := src.Load(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, "changed", second.Posts[0].Title)
	assert.Len(t, second.Users, 6)
}

func TestMockSourceLatencyHonoursContext(t *testing.T) {
	src, err := NewMockSource(time.Hour)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = src.Load(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMockSourceApplyRemoveAndRestorePost(t *testing.T) {
	src := newMock(t)
	ctx := context.Background()
	before, err := src.Load(ctx)
	require.NoError(t, err)

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	err = src.Apply(ctx, Action{
		Log: models.ModerationLog{
			ID: "l-new", ModeratorID: "m1", Action: models.ActionRemovePost,
			TargetType: models.TargetPost, TargetID: "p1", Reason: "duplicate", CreatedAt: at,
		},
		Notification: &models.Notification{ID: "n1", UserID: "u1", Type: models.NotificationTypeModeration},
	})
	require.NoError(t, err)

	snap, err := src.Load(ctx)
	require.NoError(t, err)
	p1 := findPost(t, snap, "p1")
	assert.Equal(t, models.PostStatusRemoved, p1.Status)
	require.NotNil(t, p1.DeletedAt)
	assert.True(t, at.Equal(*p1.DeletedAt))
	assert.Equal(t, "duplicate", *p1.DeletedReason)
	assert.Len(t, snap.ModerationLogs, len(before.ModerationLogs)+1)
	assert.Len(t, src.Notifications(), 1)

	// the earlier snapshot is untouched
	assert.Equal(t, models.PostStatusPublished, findPost(t, before, "p1").Status)

	err = src.Apply(ctx, Action{Log: models.ModerationLog{
		ID: "l-new2", ModeratorID: "m1", Action: models.ActionRestorePost,
		TargetType: models.TargetPost, TargetID: "p1", CreatedAt: at.Add(time.Hour),
	}})
	require.NoError(t, err)

	snap, err = src.Load(ctx)
	require.NoError(t, err)
	p1 = findPost(t, snap, "p1")
	assert.Equal(t, models.PostStatusPublished, p1.Status)
	assert.Nil(t, p1.DeletedAt)
}

func TestMockSourceApplyPunishment(t *testing.T) {
	src := newMock(t)
	ctx := context.Background()
	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	err := src.Apply(ctx, Action{
		Log: models.ModerationLog{
			ID: "l-ban", ModeratorID: "m1", Action: models.ActionBanUser,
			TargetType: models.TargetUser, TargetID: "u2", CreatedAt: at,
		},
		PunishDays: 7,
	})
	require.NoError(t, err)

	snap, err := src.Load(ctx)
	require.NoError(t, err)
	for _, u := range snap.Users {
		if u.ID == "u2" {
			assert.Equal(t, models.UserStatusBanned, u.Status)
			require.NotNil(t, u.PunishExpires)
			assert.True(t, at.AddDate(0, 0, 7).Equal(*u.PunishExpires))
		}
	}
}

func TestMockSourceApplyErrors(t *testing.T) {
	src := newMock(t)
	ctx := context.Background()

	err := src.Apply(ctx, Action{Log: models.ModerationLog{Action: models.ActionRemoveComment, TargetID: "nope"}})
	assert.True(t, errors.Is(err, ErrNotFound))

	err = src.Apply(ctx, Action{Log: models.ModerationLog{Action: "pin_post", TargetID: "p1"}})
	assert.True(t, errors.Is(err, ErrInvalidAction))

	snap, err := src.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.ModerationLogs, 5)
}

func findPost(t *testing.T, snap *Snapshot, id string) models.Post {
	t.Helper()
	for _, p := range snap.Posts {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("post %s not found", id)
	return models.Post{}
}
