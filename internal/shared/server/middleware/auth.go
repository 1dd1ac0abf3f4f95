package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pdfextract-backend/internal/shared/auth"
	"pdfextract-backend/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userLoginKey = "userLogin"
	userNameKey  = "userName"
)

// Auth validates the bearer token and stores identity in context.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		claims, err := auth.VerifyJWT(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		c.Set(userIDKey, claims.Sub)
		if claims.Login != "" {
			c.Set(userLoginKey, claims.Login)
		}
		if claims.Name != "" {
			c.Set(userNameKey, claims.Name)
		}
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	return stringFromContext(c, userIDKey)
}

// UserLoginFromContext fetches the user login set by the auth middleware.
func UserLoginFromContext(c *gin.Context) string {
	return stringFromContext(c, userLoginKey)
}

// UserNameFromContext fetches the user display name set by the auth middleware.
func UserNameFromContext(c *gin.Context) string {
	return stringFromContext(c, userNameKey)
}

// DisplayNameFromContext returns the name, falling back to the login.
func DisplayNameFromContext(c *gin.Context) string {
	if name := UserNameFromContext(c); name != "" {
		return name
	}
	return UserLoginFromContext(c)
}

func stringFromContext(c *gin.Context, key string) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(key)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
