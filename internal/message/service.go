package message

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/pulsechat/pulse-backend/internal/common"
	"github.com/pulsechat/pulse-backend/internal/profile"
	"github.com/pulsechat/pulse-backend/internal/reaction"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// ChannelChecker is the channel directory's existence probe.
type ChannelChecker interface {
	ChannelExists(ctx context.Context, channelID uint64) (bool, error)
}

// ReactionSummarizer is the reaction aggregator's read path, consumed when
// assembling a feed.
type ReactionSummarizer interface {
	SummariesByMessage(ctx context.Context, messageIDs []uint64, callerID string) (map[uint64][]reaction.Summary, error)
}

// EventPublisher receives a best-effort event after each successful post.
type EventPublisher interface {
	PublishMessagePosted(ctx context.Context, messageID, channelID uint64, authorID string) error
}

type Service struct {
	repo      *Repo
	channels  ChannelChecker
	reactions ReactionSummarizer
	profiles  profile.Lookup
	events    EventPublisher
}

func NewService(repo *Repo, channels ChannelChecker, reactions ReactionSummarizer, profiles profile.Lookup, events EventPublisher) *Service {
	if profiles == nil {
		profiles = profile.Disabled{}
	}
	return &Service{repo: repo, channels: channels, reactions: reactions, profiles: profiles, events: events}
}

// List returns the channel's most recent messages in chronological order,
// enriched with author snapshots and caller-scoped reaction summaries.
func (s *Service) List(ctx context.Context, channelID uint64, limit int, callerID string) ([]Message, error) {
	if err := s.requireChannel(ctx, channelID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	desc, err := s.repo.ListRecentDesc(ctx, channelID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list messages: %v", common.ErrPersistence, err)
	}

	// reverse to oldest-first
	msgs := make([]Message, 0, len(desc))
	for i := len(desc) - 1; i >= 0; i-- {
		msgs = append(msgs, desc[i])
	}
	if len(msgs) == 0 {
		return msgs, nil
	}

	ids := make([]uint64, len(msgs))
	for i, m := range msgs {
		ids[i] = m.ID
	}
	byMsg, err := s.reactions.SummariesByMessage(ctx, ids, callerID)
	if err != nil {
		return nil, fmt.Errorf("%w: aggregate reactions: %v", common.ErrPersistence, err)
	}

	snapshots := s.lookupAuthors(ctx, msgs)
	for i := range msgs {
		if sums, ok := byMsg[msgs[i].ID]; ok {
			msgs[i].Reactions = sums
		} else {
			msgs[i].Reactions = []reaction.Summary{}
		}
		msgs[i].UserData = snapshots[msgs[i].UserID]
	}
	return msgs, nil
}

// Post validates the text-or-attachment invariant, persists one row and
// returns it enriched with the author's current snapshot.
func (s *Service) Post(ctx context.Context, channelID uint64, authorID string, content *string, att *Attachment) (*Message, error) {
	var text *string
	if content != nil {
		if trimmed := strings.TrimSpace(*content); trimmed != "" {
			text = &trimmed
		}
	}

	m := &Message{ChannelID: channelID, UserID: authorID, Content: text}
	if att != nil && att.URL != nil && *att.URL != "" {
		m.AttachmentURL = att.URL
		m.AttachmentName = att.Name
		m.AttachmentType = att.Type
		m.AttachmentSize = att.Size
	}

	if text == nil && m.AttachmentURL == nil {
		return nil, fmt.Errorf("%w: message must include text or an attachment", common.ErrValidation)
	}

	if err := s.requireChannel(ctx, channelID); err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, m); err != nil {
		return nil, fmt.Errorf("%w: insert message: %v", common.ErrPersistence, err)
	}

	m.Reactions = []reaction.Summary{}
	if snap, err := s.profiles.Profile(ctx, authorID); err != nil {
		log.Printf("profile lookup failed user=%s err=%v", authorID, err)
	} else {
		m.UserData = snap
	}

	if s.events != nil {
		if err := s.events.PublishMessagePosted(ctx, m.ID, channelID, authorID); err != nil {
			log.Printf("publish message.posted failed message=%d err=%v", m.ID, err)
		}
	}
	return m, nil
}

func (s *Service) requireChannel(ctx context.Context, channelID uint64) error {
	exists, err := s.channels.ChannelExists(ctx, channelID)
	if err != nil {
		return fmt.Errorf("%w: check channel: %v", common.ErrPersistence, err)
	}
	if !exists {
		return fmt.Errorf("%w: channel not found", common.ErrNotFound)
	}
	return nil
}

// lookupAuthors resolves each distinct author once per request. Lookups are
// best-effort; a failure leaves user_data empty rather than failing the feed.
func (s *Service) lookupAuthors(ctx context.Context, msgs []Message) map[string]*profile.Snapshot {
	out := make(map[string]*profile.Snapshot)
	for _, m := range msgs {
		if _, seen := out[m.UserID]; seen {
			continue
		}
		snap, err := s.profiles.Profile(ctx, m.UserID)
		if err != nil {
			log.Printf("profile lookup failed user=%s err=%v", m.UserID, err)
			out[m.UserID] = nil
			continue
		}
		out[m.UserID] = snap
	}
	return out
}
