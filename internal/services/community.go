package services

import (
	"context"
	"slices"

	"github.com/pkg/errors"

	"lingoboard/internal/datasource"
	"lingoboard/internal/models"
)

var ErrPostNotFound = errors.New("post not found")

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Page selects one page of a listing. Zero values fall back to page 1 and DefaultPageLimit.
type Page struct {
	Page  int
	Limit int
}

func (p Page) normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// PostFilter narrows the post listing. Empty fields match everything.
type PostFilter struct {
	Status models.PostStatus
	UserID string
	Page
}

// CommunityService answers the read-only moderation queries.
type CommunityService struct {
	source datasource.Source
}

func NewCommunityService(source datasource.Source) *CommunityService {
	return &CommunityService{source: source}
}

func (s *CommunityService) load(ctx context.Context) (*datasource.Snapshot, *Enricher, error) {
	snap, err := s.source.Load(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load community data")
	}
	return snap, NewEnricher(snap), nil
}

// CommentTree returns the threaded comments of a post, removed ones included.
func (s *CommunityService) CommentTree(ctx context.Context, postID string) ([]*models.CommentWithUser, error) {
	snap, e, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := e.Post(postID); !ok {
		return nil, errors.Wrapf(ErrPostNotFound, "post %s", postID)
	}
	return BuildCommentTree(postID, snap.Comments, e), nil
}

// Posts lists enriched posts newest first.
func (s *CommunityService) Posts(ctx context.Context, f PostFilter) ([]models.PostWithUser, *models.PageMeta, error) {
	snap, e, err := s.load(ctx)
	if err != nil {
		return nil, nil, err
	}

	matched := make([]models.Post, 0)
	for _, p := range snap.Posts {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.UserID != "" && p.UserID != f.UserID {
			continue
		}
		matched = append(matched, p)
	}
	slices.SortStableFunc(matched, func(a, b models.Post) int { return b.CreatedAt.Compare(a.CreatedAt) })

	page, meta := paginate(matched, f.Page)
	out := make([]models.PostWithUser, 0, len(page))
	for _, p := range page {
		out = append(out, e.EnrichPost(p))
	}
	return out, meta, nil
}

// Violations lists violations newest first, optionally only those of userID.
func (s *CommunityService) Violations(ctx context.Context, userID string, p Page) ([]models.ViolationWithDetails, *models.PageMeta, error) {
	snap, e, err := s.load(ctx)
	if err != nil {
		return nil, nil, err
	}

	matched := make([]models.Violation, 0)
	for _, v := range snap.Violations {
		if userID == "" || v.UserID == userID {
			matched = append(matched, v)
		}
	}
	slices.SortStableFunc(matched, func(a, b models.Violation) int { return b.CreatedAt.Compare(a.CreatedAt) })

	page, meta := paginate(matched, p)
	out := make([]models.ViolationWithDetails, 0, len(page))
	for _, v := range page {
		out = append(out, e.EnrichViolation(v))
	}
	return out, meta, nil
}

// ModerationLogs is the audit trail, newest first.
func (s *CommunityService) ModerationLogs(ctx context.Context, p Page) ([]models.ModerationLogWithDetails, *models.PageMeta, error) {
	snap, e, err := s.load(ctx)
	if err != nil {
		return nil, nil, err
	}

	logs := slices.Clone(snap.ModerationLogs)
	slices.SortStableFunc(logs, func(a, b models.ModerationLog) int { return b.CreatedAt.Compare(a.CreatedAt) })

	page, meta := paginate(logs, p)
	out := make([]models.ModerationLogWithDetails, 0, len(page))
	for _, l := range page {
		out = append(out, e.EnrichModerationLog(l))
	}
	return out, meta, nil
}

// Appeals lists appeals newest first. An empty status returns all of them.
func (s *CommunityService) Appeals(ctx context.Context, status models.AppealStatus) ([]models.AppealWithDetails, error) {
	snap, e, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.AppealWithDetails, 0)
	for _, a := range snap.Appeals {
		if status == "" || a.Status == status {
			out = append(out, e.EnrichAppeal(a))
		}
	}
	slices.SortStableFunc(out, func(a, b models.AppealWithDetails) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func paginate[T any](items []T, p Page) ([]T, *models.PageMeta) {
	p = p.normalize()
	meta := models.NewPageMeta(p.Page, p.Limit, int64(len(items)))
	// pages past the end are empty; checked by division so a huge page cannot overflow
	if p.Page-1 >= (len(items)+p.Limit-1)/p.Limit {
		return items[:0], meta
	}
	start := (p.Page - 1) * p.Limit
	end := min(start+p.Limit, len(items))
	return items[start:end], meta
}
