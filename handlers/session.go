package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// Session cookie parameters. Identity lives entirely in the signed
// cookie; there is no server-side session store.
const (
	SessionCookieName = "supercar_session"
	sessionMaxAge     = 86400 // 24 hours

	sessionUserIDKey   = "user_id"
	sessionUsernameKey = "username"
)

// SessionMiddleware returns the cookie-backed session middleware signed
// with the given secret.
func SessionMiddleware(secret string) gin.HandlerFunc {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(SessionCookieName, store)
}

// currentUserID returns the authenticated user id from the session
// cookie, or nil for anonymous requests.
func currentUserID(c *gin.Context) *int64 {
	session := sessions.Default(c)
	if id, ok := session.Get(sessionUserIDKey).(int64); ok {
		return &id
	}
	return nil
}
