package server

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

const userIDContextKey = "auth.user_id"

// RequireUser trusts the X-User-Id header set by the gateway after it has
// authenticated the caller. Requests without it never reach a handler.
func (s *Server) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-User-Id")
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		userID, err := snowflake.ParseString(raw)
		if err != nil || userID == 0 {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Set(userIDContextKey, userID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) snowflake.ID {
	v, ok := c.Get(userIDContextKey)
	if !ok {
		return 0
	}
	id, _ := v.(snowflake.ID)
	return id
}
