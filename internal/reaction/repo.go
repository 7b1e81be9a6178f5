package reaction

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// Toggle deletes the (message, reactor, emoji) row if present, otherwise
// inserts it. Runs in one transaction; a racing duplicate insert hits the
// unique index and is treated as already-toggled-on rather than an error.
func (r *Repo) Toggle(ctx context.Context, messageID uint64, userID, emoji string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("message_id = ? AND user_id = ? AND emoji = ?", messageID, userID, emoji).
			Delete(&Reaction{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		err := tx.Create(&Reaction{MessageID: messageID, UserID: userID, Emoji: emoji}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	})
}

type summaryRow struct {
	MessageID   uint64
	Emoji       string
	Count       int
	ReactedByMe int
}

// SummariesByMessage groups reaction rows per (message, emoji) for the given
// caller. The CASE expression keeps the reacted-by-me flag portable across
// postgres, mysql and sqlite.
func (r *Repo) SummariesByMessage(ctx context.Context, messageIDs []uint64, callerID string) (map[uint64][]Summary, error) {
	out := make(map[uint64][]Summary, len(messageIDs))
	if len(messageIDs) == 0 {
		return out, nil
	}

	var rows []summaryRow
	if err := r.db.WithContext(ctx).
		Model(&Reaction{}).
		Select("message_id, emoji, COUNT(*) AS count, MAX(CASE WHEN user_id = ? THEN 1 ELSE 0 END) AS reacted_by_me", callerID).
		Where("message_id IN ?", messageIDs).
		Group("message_id").
		Group("emoji").
		Order("emoji ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.MessageID] = append(out[row.MessageID], Summary{
			Emoji:       row.Emoji,
			Count:       row.Count,
			ReactedByMe: row.ReactedByMe == 1,
		})
	}
	return out, nil
}
