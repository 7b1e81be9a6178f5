package reaction

import "time"

// Reaction rows are created on toggle-on and deleted on toggle-off, never
// updated. The composite unique index is what makes the toggle well-defined
// under concurrent writers.
type Reaction struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	MessageID uint64    `gorm:"not null;index;uniqueIndex:uniq_reaction_triple,priority:1" json:"message_id"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:uniq_reaction_triple,priority:2" json:"user_id"`
	Emoji     string    `gorm:"type:varchar(64);not null;uniqueIndex:uniq_reaction_triple,priority:3" json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}

func (Reaction) TableName() string { return "reactions" }

// Summary is derived per (message, emoji) and recomputed from reaction rows
// on every read, so it is always consistent with current state.
type Summary struct {
	Emoji       string `json:"emoji"`
	Count       int    `json:"count"`
	ReactedByMe bool   `json:"reactedByMe"`
}
