package models

// Badge is the reference table keyed by level. Users carry a badge_level.
type Badge struct {
	Level int    `gorm:"primaryKey;autoIncrement:false" json:"level"`
	Name  string `gorm:"size:50;not null" json:"name"`
	Icon  string `gorm:"size:16" json:"icon"`
}

// UnrankedBadge is returned when the badge table is empty.
var UnrankedBadge = Badge{Level: 0, Name: "Unranked", Icon: "🌱"}

// DefaultBadges is the seed table used by the database and the fixtures.
func DefaultBadges() []Badge {
	return []Badge{
		{Level: 1, Name: "Sprout", Icon: "🌱"},
		{Level: 2, Name: "Learner", Icon: "🌿"},
		{Level: 3, Name: "Conversationalist", Icon: "🎋"},
		{Level: 4, Name: "Fluent", Icon: "🎍"},
		{Level: 5, Name: "Polyglot", Icon: "🌳"},
	}
}
