package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pulsechat/pulse-backend/internal/auth"
)

// UserIDKey holds the verified caller identity (UUID subject) in the
// request context.
const UserIDKey = "user_id"

// AuthRequired verifies the bearer credential before any handler logic or
// storage access runs. Missing and invalid tokens both short-circuit with
// 401 and no side effects.
func AuthRequired(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrMissingToken.Error()})
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrMissingToken.Error()})
			return
		}

		sub, err := auth.VerifySubject(tokenString, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		c.Set(UserIDKey, sub)
		c.Next()
	}
}
