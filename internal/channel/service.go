package channel

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pulsechat/pulse-backend/internal/common"
	"github.com/pulsechat/pulse-backend/internal/config"
	"gorm.io/gorm"
)

type Service struct {
	repo   *Repo
	policy config.NamePolicy
}

func NewService(repo *Repo, policy config.NamePolicy) *Service {
	if policy == "" {
		policy = config.NamePolicyTrim
	}
	return &Service{repo: repo, policy: policy}
}

func (s *Service) List(ctx context.Context) ([]Channel, error) {
	chans, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list channels: %v", common.ErrPersistence, err)
	}
	return chans, nil
}

func (s *Service) Create(ctx context.Context, name string, description *string) (*Channel, error) {
	normalized := NormalizeName(name, s.policy)
	if normalized == "" {
		return nil, fmt.Errorf("%w: channel name is required", common.ErrValidation)
	}

	ch := &Channel{Name: normalized, Description: description}
	if err := s.repo.Create(ctx, ch); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: channel name already exists", common.ErrConflict)
		}
		return nil, fmt.Errorf("%w: create channel: %v", common.ErrPersistence, err)
	}
	return ch, nil
}

// Get resolves a channel or reports not-found.
func (s *Service) Get(ctx context.Context, id uint64) (*Channel, error) {
	ch, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: channel not found", common.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: get channel: %v", common.ErrPersistence, err)
	}
	return ch, nil
}

// NormalizeName applies the configured naming policy. Trim keeps the name as
// typed; slug lowercases, turns whitespace runs into "-" and drops anything
// outside [a-z0-9-_].
func NormalizeName(name string, policy config.NamePolicy) string {
	name = strings.TrimSpace(name)
	if policy != config.NamePolicySlug {
		return name
	}

	name = strings.ToLower(name)
	var b strings.Builder
	lastDash := false
	for _, r := range name {
		switch {
		case r == ' ' || r == '\t':
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_':
			b.WriteRune(r)
			lastDash = false
		}
	}
	return strings.Trim(b.String(), "-")
}
