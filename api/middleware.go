package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lejet/booking-gateway/internal/domain"
	"github.com/lejet/booking-gateway/internal/session"
)

const (
	identityKey  = "identity"
	sessionIDKey = "sessionID"
)

// SessionMiddleware resolves the session cookie into an identity when one
// exists. It never rejects: requests arriving without a cookie are minted a
// fresh anonymous session id, so every browser scopes its own workflow state
// even behind a shared address.
func SessionMiddleware(sessions *session.Manager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(cookieName)
		if err != nil || sid == "" {
			sid = uuid.NewString()
			c.SetCookie(cookieName, sid, 0, "/", "", false, true)
			c.Set(sessionIDKey, sid)
			c.Next()
			return
		}
		c.Set(sessionIDKey, sid)

		identity, err := sessions.Resolve(c.Request.Context(), sid)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				respondError(c, err)
				c.Abort()
				return
			}
			c.Next()
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentIdentity(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "please log in to continue", "reauth": true})
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := currentIdentity(c)
		if identity == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "please log in to continue", "reauth": true})
			return
		}
		if !identity.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin privileges required", "reauth": true})
			return
		}
		c.Next()
	}
}

func currentIdentity(c *gin.Context) *domain.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, ok := v.(*domain.Identity)
	if !ok {
		return nil
	}
	return identity
}

func currentSessionID(c *gin.Context) string {
	v, ok := c.Get(sessionIDKey)
	if !ok {
		return c.ClientIP()
	}
	sid, ok := v.(string)
	if !ok || sid == "" {
		return c.ClientIP()
	}
	return sid
}
