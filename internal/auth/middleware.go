package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-portal/internal/models"
)

const (
	userKey  = "auth.user"
	tokenKey = "auth.token"
)

// Middleware attaches the current user to the request when a valid bearer token is
// present. Anonymous requests pass through; RequireAuth rejects them.
func (v *Verifier) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.Next()
			return
		}
		user, err := v.Verify(c.Request.Context(), token)
		if err != nil {
			v.log.WithError(err).WithField("path", c.Request.URL.Path).Debug("Token rejected")
			c.Next()
			return
		}
		c.Set(userKey, user)
		c.Set(tokenKey, token)
		c.Next()
	}
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// Token is the verified bearer token of the request, if any.
func Token(c *gin.Context) string {
	return c.GetString(tokenKey)
}

// SetUser is used by handlers that establish a session themselves.
func SetUser(c *gin.Context, user *models.User, token string) {
	c.Set(userKey, user)
	c.Set(tokenKey, token)
}
