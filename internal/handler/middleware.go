package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/token"
)

const claimsKey = "claims"

// Auth verifies the identity claim on every request of the group and stores
// it in the request context.
func Auth(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := tokens.FromRequest(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAdmin rejects non-admin callers. Must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claimsFrom(c).Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *token.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return &token.Claims{}
	}
	return v.(*token.Claims)
}
