package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/justsurfingit/job-portal/internal/metrics"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
)

// Config configures the hosted backend client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the hosted backend over HTTP. It is safe for concurrent use and
// holds no per-request state.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Entry
}

// NewClient builds a client whose requests carry the API key as a bearer token.
func NewClient(ctx context.Context, cfg Config, log *logrus.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	httpClient := &http.Client{}
	if cfg.APIKey != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey, TokenType: "Bearer"})
		httpClient = oauth2.NewClient(ctx, src)
	}
	httpClient.Timeout = cfg.Timeout

	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		http:    httpClient,
		log:     log.WithField("component", "backend"),
	}, nil
}

// Entities returns REST collections for jobs, companies and applications.
func (c *Client) Entities() Entities {
	return Entities{
		Jobs:         NewRESTCollection[models.Job](c, CollectionJobs),
		Companies:    NewRESTCollection[models.Company](c, CollectionCompanies),
		Applications: NewRESTCollection[models.JobApplication](c, CollectionApplications),
	}
}

// do performs one JSON round trip. A non-2xx status becomes a *RequestError.
func (c *Client) do(ctx context.Context, op, collection, method, path string, body, out any) (err error) {
	defer func() { metrics.ObserveBackend(collection, op, err) }()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &RequestError{Op: op, Collection: collection, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &RequestError{Op: op, Collection: collection, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return &RequestError{Op: op, Collection: collection, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Op: op, Collection: collection, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	c.log.WithFields(logrus.Fields{
		"op":         op,
		"collection": collection,
		"status":     resp.StatusCode,
		"elapsed":    time.Since(start).String(),
	}).Debug("backend request")

	if resp.StatusCode >= 400 {
		return &RequestError{Op: op, Collection: collection, StatusCode: resp.StatusCode, Message: errorMessage(payload)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &DecodeError{Collection: collection, Err: err}
	}
	return nil
}

// errorMessage pulls a human-readable message out of whatever error body the backend sent.
func errorMessage(payload []byte) string {
	if gjson.ValidBytes(payload) {
		for _, path := range []string{"error.message", "message", "error", "msg"} {
			if r := gjson.GetBytes(payload, path); r.Exists() && r.Type == gjson.String {
				return r.String()
			}
		}
	}
	msg := strings.TrimSpace(string(payload))
	if msg == "" {
		return "request failed"
	}
	return msg
}

// RESTCollection is one backend collection reached at /entities/{name}.
type RESTCollection[T any] struct {
	client *Client
	name   string
}

func NewRESTCollection[T any](c *Client, name string) *RESTCollection[T] {
	return &RESTCollection[T]{client: c, name: name}
}

type listEnvelope[T any] struct {
	List  []T `json:"list"`
	Total int `json:"total"`
}

func (r *RESTCollection[T]) path(id string) string {
	p := "/entities/" + url.PathEscape(r.name)
	if id != "" {
		p += "/" + url.PathEscape(id)
	}
	return p
}

func (r *RESTCollection[T]) List(ctx context.Context, q Query) ([]T, error) {
	params := url.Values{}
	if len(q.Filter) > 0 {
		data, err := json.Marshal(q.Filter)
		if err != nil {
			return nil, &RequestError{Op: "list", Collection: r.name, Err: fmt.Errorf("encode filter: %w", err)}
		}
		params.Set("filter", string(data))
	}
	if len(q.Sort) > 0 {
		data, err := json.Marshal(q.Sort)
		if err != nil {
			return nil, &RequestError{Op: "list", Collection: r.name, Err: fmt.Errorf("encode sort: %w", err)}
		}
		params.Set("sort", string(data))
	}
	path := r.path("")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var env listEnvelope[T]
	if err := r.client.do(ctx, "list", r.name, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	items := env.List
	if items == nil {
		items = []T{}
	}
	for i := range items {
		if err := validateEntity(r.name, &items[i]); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (r *RESTCollection[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	if err := r.client.do(ctx, "get", r.name, http.MethodGet, r.path(id), nil, &out); err != nil {
		var zero T
		return zero, err
	}
	if err := validateEntity(r.name, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func (r *RESTCollection[T]) Create(ctx context.Context, entity T) (T, error) {
	var out T
	if err := r.client.do(ctx, "create", r.name, http.MethodPost, r.path(""), entity, &out); err != nil {
		var zero T
		return zero, err
	}
	if err := validateEntity(r.name, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func (r *RESTCollection[T]) Update(ctx context.Context, id string, patch Patch) (T, error) {
	var out T
	if err := r.client.do(ctx, "update", r.name, http.MethodPatch, r.path(id), patch, &out); err != nil {
		var zero T
		return zero, err
	}
	if err := validateEntity(r.name, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
