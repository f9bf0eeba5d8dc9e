package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/project-approval/internal/infrastructure/external/identity"
)

const actorKey = "actor_id"

// authMiddleware resolves the bearer token through the identity provider
// and stores the acting user's subject ID in the request context
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "missing bearer token",
			})
			return
		}

		id, err := s.verifier.Verify(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, identity.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
					Success: false,
					Error:   "invalid credential",
				})
				return
			}
			s.logger.Error("Identity verification failed", "error", err)
			c.AbortWithStatusJSON(http.StatusBadGateway, Response{
				Success: false,
				Error:   "identity provider unavailable",
			})
			return
		}

		c.Set(actorKey, id.SubjectID)
		c.Next()
	}
}

// actorID returns the verified acting user for the request
func actorID(c *gin.Context) int64 {
	return c.GetInt64(actorKey)
}
