// Package auth resolves bearer tokens to portal users.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/sirupsen/logrus"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid session token")
)

// UserResolver asks the backend who owns a token.
type UserResolver interface {
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

// Claims is the payload of a backend-issued session token.
type Claims struct {
	UserID   string `json:"userId,omitempty"`
	UserName string `json:"userName,omitempty"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Verifier checks tokens locally when it has the signing secret and falls back to
// the backend otherwise.
type Verifier struct {
	secret []byte
	remote UserResolver
	log    *logrus.Entry
}

func NewVerifier(secret string, remote UserResolver, log *logrus.Logger) *Verifier {
	v := &Verifier{remote: remote, log: log.WithField("component", "auth")}
	if secret != "" {
		v.secret = []byte(secret)
	}
	return v
}

func (v *Verifier) Verify(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	if v.secret != nil {
		return v.verifyLocal(token)
	}
	if v.remote == nil {
		return nil, fmt.Errorf("%w: no verifier configured", ErrInvalidToken)
	}
	user, err := v.remote.CurrentUser(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return user, nil
}

func (v *Verifier) verifyLocal(token string) (*models.User, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	id := claims.UserID
	if id == "" {
		id = claims.Subject
	}
	if id == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrInvalidToken)
	}
	return &models.User{UserID: id, UserName: claims.UserName, Email: claims.Email}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
