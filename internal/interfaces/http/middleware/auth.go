package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	domainerrors "sprintos.backend/internal/domain/errors"
	"sprintos.backend/internal/interfaces/http/response"
	"sprintos.backend/pkg/jwt"
	"sprintos.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// SessionIDHeader carries a server-side session id instead of a bearer token
	SessionIDHeader = "X-Session-ID"
	// AccessTokenQuery lets websocket clients, which cannot set headers, pass the token
	AccessTokenQuery = "access_token"
	// UserIDKey is the context key for user ID
	UserIDKey = "userId"
	// UserEmailKey is the context key for user email
	UserEmailKey = "userEmail"
	// SessionIDKey is the context key for the session id, when the request used one
	SessionIDKey = "sessionId"
)

// SessionResolver turns a session id into token claims
type SessionResolver interface {
	ResolveSession(ctx context.Context, sessionID string) (*jwt.Claims, error)
}

// AuthMiddleware accepts a bearer access token, or an X-Session-ID header when
// sessions is set. The bearer token wins when both are present.
func AuthMiddleware(jwtService *jwt.JWTService, sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var claims *jwt.Claims
		var err error
		token, hasToken := bearerToken(c)
		sessionID := c.GetHeader(SessionIDHeader)

		switch {
		case hasToken:
			claims, err = jwtService.ValidateToken(token)
			if errors.Is(err, jwt.ErrExpiredToken) {
				err = domainerrors.Unauthorized("Token has expired")
			} else if err != nil {
				err = domainerrors.Unauthorized("Invalid token")
			}
		case sessionID != "" && sessions != nil:
			claims, err = sessions.ResolveSession(ctx, sessionID)
			if errors.Is(err, domainerrors.ErrTokenExpired) {
				err = domainerrors.Unauthorized("Session has expired")
			} else if err != nil && errors.Is(err, domainerrors.ErrUnauthorized) {
				err = domainerrors.Unauthorized("Invalid session")
			}
			if err == nil {
				c.Set(SessionIDKey, sessionID)
			}
		default:
			err = domainerrors.Unauthorized("Authorization header is required")
		}

		if err != nil {
			logger.Warn(ctx, "Authentication failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	if header := c.GetHeader(AuthorizationHeader); header != "" {
		if !strings.HasPrefix(header, BearerPrefix) {
			return "", true
		}
		return strings.TrimPrefix(header, BearerPrefix), true
	}
	if token := c.Query(AccessTokenQuery); token != "" {
		return token, true
	}
	return "", false
}

// GetUserID gets the user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}

// GetUserEmail gets the user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	s, ok := email.(string)
	return s, ok
}

// GetSessionID returns the session id the request authenticated with
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}
