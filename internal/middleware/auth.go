package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/vastsea/vastsea-api/internal/constants"
	apierrors "github.com/vastsea/vastsea-api/internal/errors"
)

// RequireAuth rejects requests without an authenticated session and stores
// the normalized user id in the request context for handlers.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		id, ok := normalizeUserID(session.Get(constants.ContextKeyUserID))
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, id)
		c.Next()
	}
}

// GetUserID retrieves the session user id stored by RequireAuth.
func GetUserID(c *gin.Context) (uint64, bool) {
	v, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return normalizeUserID(v)
}

// normalizeUserID copes with the numeric types session stores deserialize
// ids into.
func normalizeUserID(v interface{}) (uint64, bool) {
	switch id := v.(type) {
	case uint64:
		return id, true
	case uint:
		return uint64(id), true
	case int:
		if id < 0 {
			return 0, false
		}
		return uint64(id), true
	case int64:
		if id < 0 {
			return 0, false
		}
		return uint64(id), true
	default:
		return 0, false
	}
}
