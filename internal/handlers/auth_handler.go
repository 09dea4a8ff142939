package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/backend"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/sirupsen/logrus"
)

// SessionProvider is the backend's sign-in surface.
type SessionProvider interface {
	SignIn(ctx context.Context, email, password string) (*backend.Session, error)
	SignOut(ctx context.Context, token string) error
}

type AuthHandler struct {
	Sessions SessionProvider
	log      *logrus.Entry
}

func NewAuthHandler(sessions SessionProvider, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{Sessions: sessions, log: log.WithField("component", "auth")}
}

// SignIn is POST /auth/sign-in
func (h *AuthHandler) SignIn(c *gin.Context) {
	if h.Sessions == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Sign-in is not available with this backend"})
		return
	}

	var req dtos.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	session, err := h.Sessions.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		var reqErr *backend.RequestError
		if errors.As(err, &reqErr) && reqErr.StatusCode >= 400 && reqErr.StatusCode < 500 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		h.log.WithError(err).Error("Sign-in failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Sign-in failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

// SignOut is POST /auth/sign-out
func (h *AuthHandler) SignOut(c *gin.Context) {
	if h.Sessions != nil {
		if err := h.Sessions.SignOut(c.Request.Context(), auth.Token(c)); err != nil {
			h.log.WithError(err).Warn("Backend sign-out failed")
			c.JSON(backendStatus(err), gin.H{"error": "Sign-out failed: " + err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me is GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	c.JSON(http.StatusOK, user)
}
