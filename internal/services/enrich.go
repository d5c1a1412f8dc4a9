package services

import (
	"cmp"
	"slices"

	"lingoboard/internal/datasource"
	"lingoboard/internal/models"
	"lingoboard/internal/utils"
)

// Enricher joins raw records with their users, badges, rules and targets.
// It is built once per loaded snapshot and is read-only afterwards, so it may
// be shared between goroutines. Every lookup is total: a dangling reference
// degrades to a placeholder instead of failing.
type Enricher struct {
	users        map[string]models.User
	badges       []models.Badge // ascending by level
	rules        map[string]models.CommunityRule
	posts        map[string]models.Post
	comments     map[string]models.Comment
	liveComments map[string]int // post id -> non-deleted comments
	targets      map[models.TargetType]TargetResolver
}

func NewEnricher(snap *datasource.Snapshot) *Enricher {
	e := &Enricher{
		users:        make(map[string]models.User, len(snap.Users)),
		badges:       slices.Clone(snap.Badges),
		rules:        make(map[string]models.CommunityRule, len(snap.Rules)),
		posts:        make(map[string]models.Post, len(snap.Posts)),
		comments:     make(map[string]models.Comment, len(snap.Comments)),
		liveComments: make(map[string]int),
		targets:      make(map[models.TargetType]TargetResolver),
	}

	// first record wins on duplicate ids
	for _, u := range snap.Users {
		if _, ok := e.users[u.ID]; !ok {
			e.users[u.ID] = u
		}
	}
	for _, r := range snap.Rules {
		if _, ok := e.rules[r.ID]; !ok {
			e.rules[r.ID] = r
		}
	}
	for _, p := range snap.Posts {
		if _, ok := e.posts[p.ID]; !ok {
			e.posts[p.ID] = p
		}
	}
	for _, c := range snap.Comments {
		if _, ok := e.comments[c.ID]; !ok {
			e.comments[c.ID] = c
		}
		if !c.IsDeleted() {
			e.liveComments[c.PostID]++
		}
	}
	slices.SortStableFunc(e.badges, func(a, b models.Badge) int { return cmp.Compare(a.Level, b.Level) })

	e.RegisterTarget(postTarget{posts: e.posts})
	e.RegisterTarget(commentTarget{comments: e.comments})
	e.RegisterTarget(userTarget{users: e.users})
	return e
}

// RegisterTarget installs r for its target type, replacing any previous resolver.
func (e *Enricher) RegisterTarget(r TargetResolver) {
	e.targets[r.Type()] = r
}

// User returns the user with the given id or the Unknown placeholder.
func (e *Enricher) User(id string) models.User {
	if u, ok := e.users[id]; ok {
		return u
	}
	return models.UnknownUser(id)
}

// Badge returns the badge for level. Without an exact match it falls back to the
// highest badge below level, then to the lowest badge.
func (e *Enricher) Badge(level int) models.Badge {
	if len(e.badges) == 0 {
		return models.UnrankedBadge
	}
	i, found := slices.BinarySearchFunc(e.badges, level, func(b models.Badge, l int) int {
		return cmp.Compare(b.Level, l)
	})
	switch {
	case found:
		return e.badges[i]
	case i > 0:
		return e.badges[i-1]
	default:
		return e.badges[0]
	}
}

// Post looks up a raw post by id.
func (e *Enricher) Post(id string) (models.Post, bool) {
	p, ok := e.posts[id]
	return p, ok
}

func (e *Enricher) Rule(id string) (models.CommunityRule, bool) {
	r, ok := e.rules[id]
	return r, ok
}

// Target resolves a polymorphic reference through the registered resolvers.
func (e *Enricher) Target(t models.TargetType, id string) models.TargetSummary {
	r, ok := e.targets[t]
	if !ok {
		return models.TargetSummary{Type: t, ID: id}
	}
	return r.Resolve(id)
}

// EnrichComment returns a fresh node with an empty replies list.
func (e *Enricher) EnrichComment(c models.Comment) *models.CommentWithUser {
	u := e.User(c.UserID)
	return &models.CommentWithUser{
		Comment:     c,
		User:        u,
		Badge:       e.Badge(u.BadgeLevel),
		ContentHTML: utils.SanitizeHTML(c.Content),
		Replies:     []*models.CommentWithUser{},
	}
}

// EnrichPost joins a post with its author and recounts its visible comments.
func (e *Enricher) EnrichPost(p models.Post) models.PostWithUser {
	u := e.User(p.UserID)
	out := models.PostWithUser{
		Post:        p,
		User:        u,
		Badge:       e.Badge(u.BadgeLevel),
		ContentHTML: utils.RenderMarkdown(p.Content),
	}
	out.CommentCount = e.liveComments[p.ID]
	return out
}

func (e *Enricher) EnrichViolation(v models.Violation) models.ViolationWithDetails {
	u := e.User(v.UserID)
	out := models.ViolationWithDetails{
		Violation: v,
		User:      u,
		Badge:     e.Badge(u.BadgeLevel),
		Target:    e.Target(v.TargetType, v.TargetID),
	}
	if r, ok := e.rules[v.RuleID]; ok {
		out.Rule = &r
	}
	return out
}

func (e *Enricher) EnrichModerationLog(l models.ModerationLog) models.ModerationLogWithDetails {
	return models.ModerationLogWithDetails{
		ModerationLog: l,
		Moderator:     e.User(l.ModeratorID),
		Target:        e.Target(l.TargetType, l.TargetID),
	}
}

func (e *Enricher) EnrichAppeal(a models.Appeal) models.AppealWithDetails {
	u := e.User(a.UserID)
	return models.AppealWithDetails{
		Appeal: a,
		User:   u,
		Badge:  e.Badge(u.BadgeLevel),
		Target: e.Target(a.TargetType, a.TargetID),
	}
}
