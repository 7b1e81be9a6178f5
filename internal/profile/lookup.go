// Package profile resolves author profile snapshots from the external
// identity store. Snapshots are best-effort current: lookups are never
// transactionally tied to message persistence and a failed lookup must not
// fail a message flow.
package profile

import "context"

type Snapshot struct {
	Sub     string  `json:"sub"`
	Email   string  `json:"email,omitempty"`
	Name    *string `json:"name,omitempty"`
	Picture *string `json:"picture,omitempty"`
}

type Lookup interface {
	// Profile returns the current snapshot for the identity, or nil when
	// the identity store has nothing for it.
	Profile(ctx context.Context, userID string) (*Snapshot, error)
}

// Disabled is used when no identity store is configured.
type Disabled struct{}

func (Disabled) Profile(ctx context.Context, userID string) (*Snapshot, error) {
	return nil, nil
}
