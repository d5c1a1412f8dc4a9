package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingoboard/internal/datasource"
	"lingoboard/internal/models"
)

func TestEnricherBadge(t *testing.T) {
	e := NewEnricher(&datasource.Snapshot{Badges: []models.Badge{
		{Level: 5, Name: "Polyglot"},
		{Level: 1, Name: "Sprout"},
		{Level: 3, Name: "Conversationalist"},
	}})

	tests := []struct {
		name  string
		level int
		want  string
	}{
		{"exact", 3, "Conversationalist"},
		{"gap falls to the level below", 4, "Conversationalist"},
		{"above the table", 9, "Polyglot"},
		{"below the table", 0, "Sprout"},
		{"negative", -2, "Sprout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Badge(tt.level).Name)
		})
	}
}

func TestEnricherBadgeEmptyTable(t *testing.T) {
	e := NewEnricher(&datasource.Snapshot{})
	assert.Equal(t, models.UnrankedBadge, e.Badge(3))
}

func TestEnricherUnknownUser(t *testing.T) {
	_, e := loadFixtures(t)

	u := e.User("ghost")
	assert.Equal(t, "ghost", u.ID)
	assert.Equal(t, models.UnknownUsername, u.Username)

	assert.Equal(t, "ana_habla", e.User("u1").Username)
}

func TestEnrichCommentUnknownAuthor(t *testing.T) {
	snap, e := loadFixtures(t)

	var c8 models.Comment
	for _, c := range snap.Comments {
		if c.ID == "c8" {
			c8 = c
		}
	}
	node := e.EnrichComment(c8)

	assert.Equal(t, models.UnknownUsername, node.User.Username)
	assert.Equal(t, "Sprout", node.Badge.Name)
	assert.NotNil(t, node.Replies)
	assert.Empty(t, node.Replies)
}

func TestEnrichPostCountsVisibleComments(t *testing.T) {
	_, e := loadFixtures(t)

	p1, ok := e.Post("p1")
	require.True(t, ok)
	out := e.EnrichPost(p1)

	// c4 is removed
	assert.Equal(t, 3, out.CommentCount)
	assert.Equal(t, "Conversationalist", out.Badge.Name)
	assert.Contains(t, out.ContentHTML, "<strong>tr</strong>")
}

func TestEnrichCommentSanitizes(t *testing.T) {
	_, e := loadFixtures(t)

	node := e.EnrichComment(models.Comment{ID: "x", UserID: "u1", Content: `<p onclick="x()">hi</p><script>1</script>`})
	assert.Equal(t, "<p>hi</p>", node.ContentHTML)
	assert.Equal(t, `<p onclick="x()">hi</p><script>1</script>`, node.Content)
}

func TestEnrichViolation(t *testing.T) {
	snap, e := loadFixtures(t)

	v := e.EnrichViolation(snap.Violations[0])
	require.NotNil(t, v.Rule)
	assert.Equal(t, "r1", v.Rule.ID)
	assert.Equal(t, "u2", v.Target.OwnerID)

	missing := e.EnrichViolation(models.Violation{ID: "v9", UserID: "nobody", RuleID: "r9", TargetType: models.TargetPost, TargetID: "p9"})
	assert.Nil(t, missing.Rule)
	assert.False(t, missing.Target.Found)
	assert.Equal(t, models.UnknownUsername, missing.User.Username)
}

func TestEnricherTarget(t *testing.T) {
	_, e := loadFixtures(t)

	post := e.Target(models.TargetPost, "p5")
	assert.True(t, post.Found)
	assert.Equal(t, "u3", post.OwnerID)
	assert.Equal(t, "Mandarin tones cheat sheet", post.Label)

	comment := e.Target(models.TargetComment, "c7")
	assert.True(t, comment.Found)
	assert.Equal(t, "u1", comment.OwnerID)
	assert.Equal(t, "Tones do not matter.", comment.Label)

	user := e.Target(models.TargetUser, "u4")
	assert.Equal(t, "u4", user.OwnerID)

	assert.Equal(t, models.TargetSummary{Type: models.TargetComment, ID: "c404"}, e.Target(models.TargetComment, "c404"))
	assert.Equal(t, models.TargetSummary{Type: "lesson", ID: "l1"}, e.Target("lesson", "l1"))
}

type lessonTarget struct{}

func (lessonTarget) Type() models.TargetType { return "lesson" }

func (lessonTarget) Resolve(id string) models.TargetSummary {
	return models.TargetSummary{Type: "lesson", ID: id, OwnerID: "u3", Found: true}
}

func TestEnricherRegisterTarget(t *testing.T) {
	_, e := loadFixtures(t)
	e.RegisterTarget(lessonTarget{})

	got := e.Target("lesson", "l1")
	assert.True(t, got.Found)
	assert.Equal(t, "u3", got.OwnerID)
}
