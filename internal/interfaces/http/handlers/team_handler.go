package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"sprintos.backend/internal/domain/entities"
	domainerrors "sprintos.backend/internal/domain/errors"
	"sprintos.backend/internal/interfaces/http/middleware"
	"sprintos.backend/internal/interfaces/http/response"
	"sprintos.backend/pkg/validation"
)

// TeamService covers team listing, creation, presence and the active selection
type TeamService interface {
	ListMyTeams(ctx context.Context, userID uuid.UUID) ([]*entities.MyTeam, error)
	CreateTeam(ctx context.Context, userID uuid.UUID, input *entities.CreateTeamInput) (*entities.CreateTeamResult, error)
	GetTeam(ctx context.Context, scope entities.TeamScope) (*entities.Team, error)
	ListMembers(ctx context.Context, scope entities.TeamScope) ([]*entities.TeamMember, error)
	TouchLastSeen(ctx context.Context, scope entities.TeamScope) error
	SwitchActive(ctx context.Context, scope entities.TeamScope) error
	GetActive(ctx context.Context, userID uuid.UUID) (*entities.MyTeam, error)
}

// InviteService covers invite codes and role management
type InviteService interface {
	RegenerateInviteCode(ctx context.Context, callerID, teamID uuid.UUID) (string, error)
	JoinTeamViaInvite(ctx context.Context, callerID uuid.UUID, code string) (*entities.JoinResult, error)
	UpdateMemberRole(ctx context.Context, callerID, teamID, memberUserID uuid.UUID, input *entities.UpdateMemberRoleInput) (*entities.TeamMember, error)
}

// TeamHandler handles team, membership and invite endpoints
type TeamHandler struct {
	teams   TeamService
	invites InviteService
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teams TeamService, invites InviteService) *TeamHandler {
	return &TeamHandler{teams: teams, invites: invites}
}

// ListMyTeams returns the caller's teams, oldest membership first
// GET /api/v1/teams
func (h *TeamHandler) ListMyTeams(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	teams, err := h.teams.ListMyTeams(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"teams": teams})
}

// CreateTeam creates a team with the caller as organizer
// POST /api/v1/teams
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	var input entities.CreateTeamInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(validation.FormatValidationError(err)))
		return
	}

	result, err := h.teams.CreateTeam(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

// GetActive returns the remembered active team, or the first team
// GET /api/v1/teams/active
func (h *TeamHandler) GetActive(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	team, err := h.teams.GetActive(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"team": team})
}

// JoinTeam redeems an invite code
// POST /api/v1/teams/join
func (h *TeamHandler) JoinTeam(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	var input entities.JoinTeamInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Invite code is required"))
		return
	}

	result, err := h.invites.JoinTeamViaInvite(c.Request.Context(), userID, input.InviteCode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// GetTeam returns the scoped team
// GET /api/v1/teams/:teamId
func (h *TeamHandler) GetTeam(c *gin.Context) {
	scope, ok := middleware.GetTeamScope(c)
	if !ok {
		response.Error(c, domainerrors.Forbidden("Team scope missing"))
		return
	}

	team, err := h.teams.GetTeam(c.Request.Context(), scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"team": team, "role": scope.Role})
}

// ListMembers lists the team's members with name and email
// GET /api/v1/teams/:teamId/members
func (h *TeamHandler) ListMembers(c *gin.Context) {
	scope, ok := middleware.GetTeamScope(c)
	if !ok {
		response.Error(c, domainerrors.Forbidden("Team scope missing"))
		return
	}

	members, err := h.teams.ListMembers(c.Request.Context(), scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"members": members})
}

// Heartbeat refreshes the caller's last_seen
// POST /api/v1/teams/:teamId/heartbeat
func (h *TeamHandler) Heartbeat(c *gin.Context) {
	scope, ok := middleware.GetTeamScope(c)
	if !ok {
		response.Error(c, domainerrors.Forbidden("Team scope missing"))
		return
	}

	if err := h.teams.TouchLastSeen(c.Request.Context(), scope); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SwitchTeam makes the scoped team the caller's active team
// POST /api/v1/teams/:teamId/switch
func (h *TeamHandler) SwitchTeam(c *gin.Context) {
	scope, ok := middleware.GetTeamScope(c)
	if !ok {
		response.Error(c, domainerrors.Forbidden("Team scope missing"))
		return
	}

	if err := h.teams.SwitchActive(c.Request.Context(), scope); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"teamId": scope.TeamID})
}

// RegenerateInviteCode rotates the invite code. Organizer only.
// POST /api/v1/teams/:teamId/invite-code
func (h *TeamHandler) RegenerateInviteCode(c *gin.Context) {
	scope, ok := middleware.GetTeamScope(c)
	if !ok {
		response.Error(c, domainerrors.Forbidden("Team scope missing"))
		return
	}

	code, err := h.invites.RegenerateInviteCode(c.Request.Context(), scope.UserID, scope.TeamID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"inviteCode": code})
}

// UpdateMemberRole changes a member's role. Organizer only.
// PATCH /api/v1/teams/:teamId/members/:userId/role
func (h *TeamHandler) UpdateMemberRole(c *gin.Context) {
	scope, ok := middleware.GetTeamScope(c)
	if !ok {
		response.Error(c, domainerrors.Forbidden("Team scope missing"))
		return
	}

	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	var input entities.UpdateMemberRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(validation.FormatValidationError(err)))
		return
	}

	member, err := h.invites.UpdateMemberRole(c.Request.Context(), scope.UserID, scope.TeamID, memberID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"member": member})
}
