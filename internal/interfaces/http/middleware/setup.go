package middleware

import (
	"github.com/gin-gonic/gin"
	domainerrors "sprintos.backend/internal/domain/errors"
	"sprintos.backend/internal/interfaces/http/response"
)

// SetupRequiredMiddleware answers 503 SETUP_REQUIRED for every path except
// the given ones while the backend is not configured.
func SetupRequiredMiddleware(ready bool, allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ready {
			c.Next()
			return
		}
		for _, path := range allowed {
			if c.Request.URL.Path == path {
				c.Next()
				return
			}
		}
		response.Error(c, domainerrors.ErrSetupRequired)
		c.Abort()
	}
}
