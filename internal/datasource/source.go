package datasource

import (
	"context"
	"slices"

	"github.com/pkg/errors"

	"lingoboard/internal/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrBackend       = errors.New("backend request failed")
	ErrInvalidAction = errors.New("invalid moderation action")
)

// Snapshot is every collection the moderation views are computed from.
// Reference tables are always fully loaded.
type Snapshot struct {
	Users          []models.User          `json:"users"`
	Badges         []models.Badge         `json:"badges"`
	Rules          []models.CommunityRule `json:"rules"`
	Posts          []models.Post          `json:"posts"`
	Comments       []models.Comment       `json:"comments"`
	Likes          []models.PostLike      `json:"likes"`
	Views          []models.PostView      `json:"views"`
	Violations     []models.Violation     `json:"violations"`
	ModerationLogs []models.ModerationLog `json:"moderation_logs"`
	Appeals        []models.Appeal        `json:"appeals"`
}

// Clone returns a copy whose slices do not share backing arrays with s.
// Pointer fields of the records still point at the same values, which are never mutated in place.
func (s *Snapshot) Clone() *Snapshot {
	return &Snapshot{
		Users:          slices.Clone(s.Users),
		Badges:         slices.Clone(s.Badges),
		Rules:          slices.Clone(s.Rules),
		Posts:          slices.Clone(s.Posts),
		Comments:       slices.Clone(s.Comments),
		Likes:          slices.Clone(s.Likes),
		Views:          slices.Clone(s.Views),
		Violations:     slices.Clone(s.Violations),
		ModerationLogs: slices.Clone(s.ModerationLogs),
		Appeals:        slices.Clone(s.Appeals),
	}
}

// Action is a moderation change applied by the backend of record. Log describes
// the change and is recorded with it.
type Action struct {
	Log          models.ModerationLog `json:"log"`
	Notification *models.Notification `json:"notification,omitempty"`
	PunishDays   int                  `json:"punish_days,omitempty"`
}

// Source is the backend of record for community data.
type Source interface {
	// Load fetches every collection.
	Load(ctx context.Context) (*Snapshot, error)
	// Apply performs a moderation action and records its log.
	Apply(ctx context.Context, action Action) error
}
