package middleware

import (
	"ctchen222/tictactoe-engine/internal/api/response"
	"ctchen222/tictactoe-engine/internal/api/service"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SessionIDKey is the gin context key holding the authenticated session id.
const SessionIDKey = "session_id"

// RequireSession authenticates the request with a session token, taken from
// the Authorization bearer header or the token query parameter. When the
// route has an :id parameter the token must belong to that session.
func RequireSession(tokens service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			raw = c.Query("token")
		}
		if raw == "" {
			response.ErrorResponse(c, http.StatusUnauthorized, "missing session token")
			c.Abort()
			return
		}

		sessionID, err := tokens.Parse(raw)
		if err != nil {
			response.ErrorResponse(c, http.StatusUnauthorized, err.Error())
			c.Abort()
			return
		}

		if id := c.Param("id"); id != "" && id != sessionID {
			response.ErrorResponse(c, http.StatusForbidden, "token does not grant access to this session")
			c.Abort()
			return
		}

		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
