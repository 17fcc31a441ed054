package auth

import (
	"strings"

	"codeberg.org/gemiwell/server/internal/errors"
	"codeberg.org/gemiwell/server/internal/logger"
	"github.com/gin-gonic/gin"
)

// validates bearer tokens and adds user info to context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errors.Unauthorized(c, "authorization header required")
			c.Abort()
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || scheme != "Bearer" || token == "" {
			errors.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := ValidateJWT(token)
		if err != nil {
			logger.FromContext(c.Request.Context()).Debug("rejected token", "error", err)
			errors.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		SetUser(c, claims)
		c.Next()
	}
}

// stores the authenticated user on the request and its scoped logger
func SetUser(c *gin.Context, claims *Claims) {
	c.Set(contextUserID, claims.UserID)
	c.Set(contextUserEmail, claims.Email)

	ctx := c.Request.Context()
	c.Request = c.Request.WithContext(logger.WithContext(ctx, logger.FromContext(ctx).With("user_id", claims.UserID)))
}

// extracts user_id from context after AuthMiddleware
func GetUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(contextUserID)
	return userID, userID != ""
}

func GetUserEmail(c *gin.Context) string {
	return c.GetString(contextUserEmail)
}
