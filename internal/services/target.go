package services

import (
	"lingoboard/internal/models"
	"lingoboard/internal/utils"
)

const targetLabelLength = 60

// TargetResolver resolves ids of one target type into summaries.
type TargetResolver interface {
	Type() models.TargetType
	// Resolve never fails; an unknown id yields Found=false and an empty owner.
	Resolve(id string) models.TargetSummary
}

type postTarget struct {
	posts map[string]models.Post
}

func (postTarget) Type() models.TargetType { return models.TargetPost }

func (r postTarget) Resolve(id string) models.TargetSummary {
	p, ok := r.posts[id]
	if !ok {
		return models.TargetSummary{Type: models.TargetPost, ID: id}
	}
	return models.TargetSummary{
		Type:    models.TargetPost,
		ID:      id,
		OwnerID: p.UserID,
		Label:   utils.PlainText(p.Title, targetLabelLength),
		Found:   true,
	}
}

type commentTarget struct {
	comments map[string]models.Comment
}

func (commentTarget) Type() models.TargetType { return models.TargetComment }

func (r commentTarget) Resolve(id string) models.TargetSummary {
	c, ok := r.comments[id]
	if !ok {
		return models.TargetSummary{Type: models.TargetComment, ID: id}
	}
	return models.TargetSummary{
		Type:    models.TargetComment,
		ID:      id,
		OwnerID: c.UserID,
		Label:   utils.PlainText(c.Content, targetLabelLength),
		Found:   true,
	}
}

// userTarget owns itself.
type userTarget struct {
	users map[string]models.User
}

func (userTarget) Type() models.TargetType { return models.TargetUser }

func (r userTarget) Resolve(id string) models.TargetSummary {
	u, ok := r.users[id]
	if !ok {
		return models.TargetSummary{Type: models.TargetUser, ID: id}
	}
	return models.TargetSummary{
		Type:    models.TargetUser,
		ID:      id,
		OwnerID: u.ID,
		Label:   u.Username,
		Found:   true,
	}
}
