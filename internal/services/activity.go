package services

import (
	"context"
	"slices"
	"time"

	"github.com/pkg/errors"

	"lingoboard/internal/datasource"
	"lingoboard/internal/models"
)

// Clock is the time source used for generatedAt and cache timestamps.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// BuildActivity assembles the community activity of userID from a snapshot.
// It is pure apart from reading the clock; every returned slice is freshly allocated.
func BuildActivity(userID string, snap *datasource.Snapshot, e *Enricher, now time.Time) *models.UserCommunityActivity {
	user := e.User(userID)
	out := &models.UserCommunityActivity{
		UserID:          userID,
		User:            user,
		Badge:           e.Badge(user.BadgeLevel),
		Posts:           make([]models.PostWithUser, 0),
		LikedPosts:      make([]models.PostWithUser, 0),
		CommentedPosts:  make([]models.PostWithUser, 0),
		ViewedPosts:     make([]models.PostWithUser, 0),
		RemovedPosts:    make([]models.PostWithUser, 0),
		RemovedComments: make([]models.CommentWithUser, 0),
		Violations:      make([]models.ViolationWithDetails, 0),
		ModerationLogs:  make([]models.ModerationLogWithDetails, 0),
		GeneratedAt:     now,
	}

	for _, p := range snap.Posts {
		if p.UserID != userID {
			continue
		}
		switch p.Status {
		case models.PostStatusRemoved:
			out.RemovedPosts = append(out.RemovedPosts, e.EnrichPost(p))
		case models.PostStatusDraft:
		default:
			out.Posts = append(out.Posts, e.EnrichPost(p))
		}
	}

	for _, l := range snap.Likes {
		if l.UserID != userID {
			continue
		}
		if p, ok := e.Post(l.PostID); ok && p.Status != models.PostStatusRemoved {
			out.LikedPosts = append(out.LikedPosts, e.EnrichPost(p))
		}
	}

	// viewed posts keep removed ones
	for _, v := range snap.Views {
		if v.UserID != userID {
			continue
		}
		if p, ok := e.Post(v.PostID); ok {
			out.ViewedPosts = append(out.ViewedPosts, e.EnrichPost(p))
		}
	}

	seen := make(map[string]bool)
	for _, c := range snap.Comments {
		if c.UserID != userID {
			continue
		}
		if c.IsDeleted() {
			out.RemovedComments = append(out.RemovedComments, *e.EnrichComment(c))
			continue
		}
		if seen[c.PostID] {
			continue
		}
		seen[c.PostID] = true
		if p, ok := e.Post(c.PostID); ok {
			out.CommentedPosts = append(out.CommentedPosts, e.EnrichPost(p))
		}
	}

	for _, v := range snap.Violations {
		if v.UserID == userID {
			out.Violations = append(out.Violations, e.EnrichViolation(v))
		}
	}

	for _, l := range snap.ModerationLogs {
		enriched := e.EnrichModerationLog(l)
		if enriched.Target.Found && enriched.Target.OwnerID == userID {
			out.ModerationLogs = append(out.ModerationLogs, enriched)
		}
	}

	newestPostFirst := func(a, b models.PostWithUser) int { return b.CreatedAt.Compare(a.CreatedAt) }
	slices.SortStableFunc(out.Posts, newestPostFirst)
	slices.SortStableFunc(out.LikedPosts, newestPostFirst)
	slices.SortStableFunc(out.CommentedPosts, newestPostFirst)
	slices.SortStableFunc(out.ViewedPosts, newestPostFirst)
	slices.SortStableFunc(out.RemovedPosts, newestPostFirst)
	slices.SortStableFunc(out.RemovedComments, func(a, b models.CommentWithUser) int {
		return b.DeletedAt.Compare(*a.DeletedAt)
	})
	slices.SortStableFunc(out.Violations, func(a, b models.ViolationWithDetails) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	slices.SortStableFunc(out.ModerationLogs, func(a, b models.ModerationLogWithDetails) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

// Aggregator computes activity from a freshly loaded snapshot on every call.
type Aggregator struct {
	source datasource.Source
	clock  Clock
}

func NewAggregator(source datasource.Source, clock Clock) *Aggregator {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Aggregator{source: source, clock: clock}
}

// Aggregate loads the snapshot and builds the activity of userID. Loading is the
// only step that can fail.
func (a *Aggregator) Aggregate(ctx context.Context, userID string) (*models.UserCommunityActivity, error) {
	snap, err := a.source.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load community data")
	}
	return BuildActivity(userID, snap, NewEnricher(snap), a.clock.Now()), nil
}
