package reaction

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pulsechat/pulse-backend/internal/common"
)

// maxEmojiRunes bounds the emoji token so arbitrary strings cannot be stored
// as "reactions".
const maxEmojiRunes = 16

// MessageChecker reports whether a message exists. Implemented by the
// message store; kept as an interface so the aggregator does not depend on
// it directly.
type MessageChecker interface {
	MessageExists(ctx context.Context, messageID uint64) (bool, error)
}

type Service struct {
	repo     *Repo
	messages MessageChecker
}

func NewService(repo *Repo, messages MessageChecker) *Service {
	return &Service{repo: repo, messages: messages}
}

// Toggle flips the caller's reaction and returns the message's recomputed
// per-emoji summary, scoped to the caller. Toggling twice with identical
// arguments is a net no-op.
func (s *Service) Toggle(ctx context.Context, messageID uint64, reactorID, emoji string) ([]Summary, error) {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return nil, fmt.Errorf("%w: emoji is required", common.ErrValidation)
	}
	if utf8.RuneCountInString(emoji) > maxEmojiRunes {
		return nil, fmt.Errorf("%w: emoji too long", common.ErrValidation)
	}

	exists, err := s.messages.MessageExists(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("%w: check message: %v", common.ErrPersistence, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: message not found", common.ErrNotFound)
	}

	if err := s.repo.Toggle(ctx, messageID, reactorID, emoji); err != nil {
		return nil, fmt.Errorf("%w: toggle reaction: %v", common.ErrPersistence, err)
	}
	return s.Summaries(ctx, messageID, reactorID)
}

// Summaries is the read path shared with the message store.
func (s *Service) Summaries(ctx context.Context, messageID uint64, callerID string) ([]Summary, error) {
	byMsg, err := s.repo.SummariesByMessage(ctx, []uint64{messageID}, callerID)
	if err != nil {
		return nil, fmt.Errorf("%w: aggregate reactions: %v", common.ErrPersistence, err)
	}
	if sums, ok := byMsg[messageID]; ok {
		return sums, nil
	}
	return []Summary{}, nil
}
