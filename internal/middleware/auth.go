package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/ecorisk-backend-go/internal/auth"
	"github.com/jengzang/ecorisk-backend-go/pkg/response"
)

// SessionIDKey is the gin context key holding the authenticated session id
const SessionIDKey = "session_id"

// SessionAuth requires a valid Bearer session token
func SessionAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			response.Error(c, http.StatusUnauthorized, "Missing session token")
			c.Abort()
			return
		}

		sessionID, err := tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid session token", err)
			c.Abort()
			return
		}

		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}
