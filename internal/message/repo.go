package message

import (
	"context"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Insert(ctx context.Context, m *Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// ListRecentDesc returns the newest messages of a channel (newest -> oldest).
// The service reverses to chronological order; fetching DESC with a limit
// bounds the query while preserving a natural reading order.
func (r *Repo) ListRecentDesc(ctx context.Context, channelID uint64, limit int) ([]Message, error) {
	var msgs []Message
	if err := r.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// MessageExists satisfies the reaction aggregator's existence probe.
func (r *Repo) MessageExists(ctx context.Context, messageID uint64) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&Message{}).Where("id = ?", messageID).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}
