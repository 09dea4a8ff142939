package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/justsurfingit/job-portal/internal/models"
)

const collectionAuth = "auth"

// Session is what a successful sign-in hands back.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt,omitempty"`
	User      models.User `json:"user"`
}

// AuthClient exposes the backend's session primitives. Calls carry the user's own
// token, so it does not share the API-key transport of Client.
type AuthClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewAuthClient(cfg Config) *AuthClient {
	return &AuthClient{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *AuthClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := a.call(ctx, "sign-in", http.MethodPost, "/auth/sign-in", "", signInRequest{Email: email, Password: password}, &session)
	if err != nil {
		return nil, err
	}
	if session.Token == "" || session.User.UserID == "" {
		return nil, &DecodeError{Collection: collectionAuth, Err: fmt.Errorf("sign-in response missing token or user")}
	}
	return &session, nil
}

func (a *AuthClient) SignOut(ctx context.Context, token string) error {
	return a.call(ctx, "sign-out", http.MethodPost, "/auth/sign-out", token, nil, nil)
}

// CurrentUser resolves a session token to its user.
func (a *AuthClient) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := a.call(ctx, "current-user", http.MethodGet, "/auth/user", token, nil, &user); err != nil {
		return nil, err
	}
	if user.UserID == "" {
		return nil, &DecodeError{Collection: collectionAuth, Err: fmt.Errorf("user response missing userId")}
	}
	return &user, nil
}

func (a *AuthClient) call(ctx context.Context, op, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &RequestError{Op: op, Collection: collectionAuth, Err: err}
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return &RequestError{Op: op, Collection: collectionAuth, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.apiKey != "" {
		req.Header.Set("apikey", a.apiKey)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return &RequestError{Op: op, Collection: collectionAuth, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Op: op, Collection: collectionAuth, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode >= 400 {
		return &RequestError{Op: op, Collection: collectionAuth, StatusCode: resp.StatusCode, Message: errorMessage(payload)}
	}
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &DecodeError{Collection: collectionAuth, Err: err}
	}
	return nil
}
