// Package workspace models the client side of a SprintOS session: which teams
// the user belongs to, which one is active, and cached per-team boards that
// stay in sync with the realtime feed.
package workspace

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"sprintos.backend/internal/domain/entities"
)

var (
	ErrNoActiveTeam = errors.New("no active team")
	ErrUnknownTeam  = errors.New("team is not in the session")
)

// TeamService is the team API the session talks to
type TeamService interface {
	ListMyTeams(ctx context.Context, userID uuid.UUID) ([]*entities.MyTeam, error)
	CreateTeam(ctx context.Context, userID uuid.UUID, input *entities.CreateTeamInput) (*entities.CreateTeamResult, error)
}

// Session holds the signed-in user's teams and the active selection
type Session struct {
	mu     sync.RWMutex
	userID uuid.UUID
	svc    TeamService
	teams  []*entities.MyTeam
	active uuid.UUID
}

func NewSession(userID uuid.UUID, svc TeamService) *Session {
	return &Session{userID: userID, svc: svc}
}

// Refresh reloads the team list. The active team is kept when it is still
// listed, otherwise the first team becomes active.
func (s *Session) Refresh(ctx context.Context) error {
	teams, err := s.svc.ListMyTeams(ctx, s.userID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams = teams
	if !lo.ContainsBy(teams, func(t *entities.MyTeam) bool { return t.ID == s.active }) {
		s.active = uuid.Nil
		if len(teams) > 0 {
			s.active = teams[0].ID
		}
	}
	return nil
}

// CreateTeam creates a team remotely, reloads the list and makes the new team active
func (s *Session) CreateTeam(ctx context.Context, input *entities.CreateTeamInput) (*entities.CreateTeamResult, error) {
	res, err := s.svc.CreateTeam(ctx, s.userID, input)
	if err != nil {
		return nil, err
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	if err := s.SwitchTeam(res.Team.ID); err != nil {
		return nil, err
	}
	return res, nil
}

// SwitchTeam changes the active team locally; nothing is sent to the server
func (s *Session) SwitchTeam(teamID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !lo.ContainsBy(s.teams, func(t *entities.MyTeam) bool { return t.ID == teamID }) {
		return ErrUnknownTeam
	}
	s.active = teamID
	return nil
}

func (s *Session) Teams() []*entities.MyTeam {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*entities.MyTeam(nil), s.teams...)
}

// Active returns the active team, if any
func (s *Session) Active() (*entities.MyTeam, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Find(s.teams, func(t *entities.MyTeam) bool { return t.ID == s.active })
}

// Scope returns the explicit scope for team-bound operations on the active team
func (s *Session) Scope() (entities.TeamScope, error) {
	team, ok := s.Active()
	if !ok {
		return entities.TeamScope{}, ErrNoActiveTeam
	}
	return entities.TeamScope{UserID: s.userID, TeamID: team.ID, Role: team.Role}, nil
}
