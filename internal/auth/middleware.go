package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const sessionKey = "auth_session"

// Middleware validates the bearer token and stores the Session in the gin
// context. Requests without a valid token are rejected with 401 before any
// handler runs.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		session, err := ParseToken(raw, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		SetSession(c, session)
		c.Next()
	}
}

// SetSession stores the session on the gin context. Exposed for handlers
// under test that bypass the middleware.
func SetSession(c *gin.Context, s Session) {
	c.Set(sessionKey, s)
}

// FromContext returns the session stored by Middleware. The zero Session is
// returned when the middleware did not run, and fails Authenticated().
func FromContext(c *gin.Context) Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return Session{}
	}
	session, ok := v.(Session)
	if !ok {
		return Session{}
	}
	return session
}
