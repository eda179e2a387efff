package middleware

import (
	"net/http"
	"strings"

	"github.com/anoixa/image-share/api/common"
	"github.com/anoixa/image-share/internal/auth"
	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
)

// RequireJWT validates the Bearer token and stores the caller's identity in
// the request context.
func RequireJWT(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.Message(c, http.StatusUnauthorized, "No Authorization request header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			common.Message(c, http.StatusUnauthorized, "Authorization header format error")
			c.Abort()
			return
		}

		claims, err := jwtService.ParseToken(parts[1])
		if err != nil {
			common.Message(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		username, _ := claims["username"].(string)
		userID, _ := claims["user_id"].(float64)
		if username == "" {
			common.Message(c, http.StatusUnauthorized, "Invalid token claims")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, uint(userID))
		c.Set(ContextUsernameKey, username)
		c.Next()
	}
}
