// README: Session cookie middleware; every browser gets a stable shell session id.
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookie = "tripgenie_session"
	sessionCtxKey = "session_id"
)

// Session reuses the tripgenie_session cookie when it carries a uuid and
// issues a new one otherwise. The cookie lives as long as the stored session.
func Session(ttl time.Duration) gin.HandlerFunc {
	maxAge := int(ttl / time.Second)
	return func(c *gin.Context) {
		sid, err := c.Cookie(SessionCookie)
		if err != nil || uuid.Validate(sid) != nil {
			sid = uuid.NewString()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, sid, maxAge, "/", "", false, true)
		c.Set(sessionCtxKey, sid)
		c.Next()
	}
}

// SessionID returns the id set by Session, or "" outside it.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionCtxKey)
}
