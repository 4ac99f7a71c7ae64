package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"sprintos.backend/internal/domain/entities"
	domainerrors "sprintos.backend/internal/domain/errors"
	"sprintos.backend/internal/interfaces/http/response"
	"sprintos.backend/pkg/logger"
)

const (
	// TeamIDParam is the route parameter holding the team id
	TeamIDParam = "teamId"
	// TeamScopeKey is the context key for the resolved entities.TeamScope
	TeamScopeKey = "teamScope"
)

// ScopeResolver checks membership and returns the caller's scope in a team
type ScopeResolver interface {
	ResolveScope(ctx context.Context, userID, teamID uuid.UUID) (entities.TeamScope, error)
}

// TeamScopeMiddleware resolves :teamId for the authenticated user. Must run after AuthMiddleware.
func TeamScopeMiddleware(resolver ScopeResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.Error(c, domainerrors.Unauthorized("User not authenticated"))
			c.Abort()
			return
		}

		teamID, err := uuid.Parse(c.Param(TeamIDParam))
		if err != nil {
			response.Error(c, domainerrors.BadRequest("Invalid team ID"))
			c.Abort()
			return
		}

		scope, err := resolver.ResolveScope(c.Request.Context(), userID, teamID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(TeamScopeKey, scope)
		c.Request = c.Request.WithContext(logger.WithTeam(c.Request.Context(), userID, teamID))
		c.Next()
	}
}

// GetTeamScope returns the scope set by TeamScopeMiddleware
func GetTeamScope(c *gin.Context) (entities.TeamScope, bool) {
	v, exists := c.Get(TeamScopeKey)
	if !exists {
		return entities.TeamScope{}, false
	}
	scope, ok := v.(entities.TeamScope)
	return scope, ok
}
