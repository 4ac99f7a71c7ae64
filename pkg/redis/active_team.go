package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const activeTeamKeyPrefix = "active_team:"

// ActiveTeamStore remembers which team each user is currently working in.
// Entries live as long as the configured TTL and are refreshed on every switch.
type ActiveTeamStore struct {
	ttl time.Duration
}

// NewActiveTeamStore creates an ActiveTeamStore. A zero ttl keeps entries forever.
func NewActiveTeamStore(ttl time.Duration) *ActiveTeamStore {
	return &ActiveTeamStore{ttl: ttl}
}

func activeTeamKey(userID uuid.UUID) string {
	return activeTeamKeyPrefix + userID.String()
}

// Set records teamID as the active team for userID
func (s *ActiveTeamStore) Set(ctx context.Context, userID, teamID uuid.UUID) error {
	return Set(ctx, activeTeamKey(userID), teamID.String(), s.ttl)
}

// Get returns the active team for userID. ok is false when none is stored.
func (s *ActiveTeamStore) Get(ctx context.Context, userID uuid.UUID) (uuid.UUID, bool, error) {
	raw, err := Get(ctx, activeTeamKey(userID))
	if IsNil(err) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}

	teamID, err := uuid.Parse(raw)
	if err != nil {
		// stale garbage; treat as unset
		return uuid.Nil, false, nil
	}
	return teamID, true, nil
}

// Clear forgets the active team for userID
func (s *ActiveTeamStore) Clear(ctx context.Context, userID uuid.UUID) error {
	return Del(ctx, activeTeamKey(userID))
}
