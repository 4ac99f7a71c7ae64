package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// MemberRole is a member's role inside a team
type MemberRole string

const (
	RoleOrganizer MemberRole = "organizer"
	RoleFrontend  MemberRole = "frontend"
	RoleBackend   MemberRole = "backend"
	RoleAI        MemberRole = "ai"
	RoleDesign    MemberRole = "design"
	RoleMember    MemberRole = "member"
)

// MemberRoles lists every assignable role, organizer first.
var MemberRoles = []MemberRole{RoleOrganizer, RoleFrontend, RoleBackend, RoleAI, RoleDesign, RoleMember}

// IsValid reports whether r is one of MemberRoles
func (r MemberRole) IsValid() bool {
	for _, role := range MemberRoles {
		if r == role {
			return true
		}
	}
	return false
}

// InviteCodePrefix is prepended to every generated invite code
const InviteCodePrefix = "SPRT-"

// NormalizeInviteCode trims and uppercases user input before lookup
func NormalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type Team struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	ProjectName string     `json:"projectName"`
	InviteCode  string     `json:"inviteCode"`
	CreatedBy   uuid.UUID  `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"-"`
}

// TeamMember is a (team, user) membership row
type TeamMember struct {
	ID        uuid.UUID  `json:"id"`
	TeamID    uuid.UUID  `json:"teamId"`
	UserID    uuid.UUID  `json:"userId"`
	Role      MemberRole `json:"role"`
	LastSeen  null.Time  `json:"lastSeen"`
	JoinedAt  time.Time  `json:"joinedAt"`
	UserName  string     `json:"name,omitempty"`
	UserEmail string     `json:"email,omitempty"`
}

// IsActiveSince reports whether the member was seen at or after t
func (m *TeamMember) IsActiveSince(t time.Time) bool {
	return m.LastSeen.Valid && !m.LastSeen.Time.Before(t)
}

// MyTeam is a team the current user belongs to, with the user's role in it
type MyTeam struct {
	Team
	Role     MemberRole `json:"role"`
	JoinedAt time.Time  `json:"joinedAt"`
}

// TeamScope is the explicit active-team context passed to team-scoped operations
type TeamScope struct {
	UserID uuid.UUID
	TeamID uuid.UUID
	Role   MemberRole
}

// IsOrganizer reports whether the scoped user organizes the team
func (s TeamScope) IsOrganizer() bool {
	return s.Role == RoleOrganizer
}

// CreateTeamInput represents input for creating a team
type CreateTeamInput struct {
	Name        string `json:"name" binding:"required,max=120"`
	ProjectName string `json:"projectName" binding:"required,max=120"`
}

// JoinTeamInput represents an invite code redemption
type JoinTeamInput struct {
	InviteCode string `json:"inviteCode" binding:"required"`
}

// JoinResult is returned after a successful invite redemption
type JoinResult struct {
	TeamID   uuid.UUID `json:"teamId"`
	TeamName string    `json:"teamName"`
}

// CreateTeamResult is returned after a team is created
type CreateTeamResult struct {
	Team       *Team  `json:"team"`
	InviteCode string `json:"inviteCode"`
}

// UpdateMemberRoleInput represents a role change request
type UpdateMemberRoleInput struct {
	Role                MemberRole `json:"role" binding:"required,team_role"`
	ConfirmSelfDemotion bool       `json:"confirmSelfDemotion"`
}
