// ABOUTME: HTTP client for the carebridge REST backend
// ABOUTME: JSON request/response handling with bearer token and request IDs

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrUnexpectedStatus is returned when the backend answers with a non-2xx code
var ErrUnexpectedStatus = errors.New("unexpected response status")

// TokenSource supplies the current bearer token, or "" when logged out.
type TokenSource func() string

// Client talks to the carebridge backend. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
	logger     *slog.Logger
}

// NewClient creates a backend client. token may be nil for unauthenticated use.
func NewClient(baseURL string, token TokenSource) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		token:      token,
		logger:     slog.Default().With("component", "api"),
	}
}

// GetPatient fetches the current patient's aggregate record.
func (c *Client) GetPatient(ctx context.Context) (*PatientRecord, error) {
	var record PatientRecord
	if err := c.do(ctx, http.MethodGet, "/patient", nil, nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// PutPatient writes the full aggregate record back and returns the stored copy.
func (c *Client) PutPatient(ctx context.Context, record *PatientRecord) (*PatientRecord, error) {
	var stored PatientRecord
	if err := c.do(ctx, http.MethodPut, "/patient", nil, record, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// GetProvider fetches the provider's patient roster.
func (c *Client) GetProvider(ctx context.Context) (*ProviderOverview, error) {
	var overview ProviderOverview
	if err := c.do(ctx, http.MethodGet, "/provider", nil, nil, &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

// FindUsers queries the users collection by email and password.
// An empty result means the credentials matched no user.
func (c *Client) FindUsers(ctx context.Context, email, password string) ([]UserRecord, error) {
	query := url.Values{"email": {email}, "password": {password}}
	var users []UserRecord
	if err := c.do(ctx, http.MethodGet, "/users", query, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UserExists reports whether any user is registered under the email.
func (c *Client) UserExists(ctx context.Context, email string) (bool, error) {
	query := url.Values{"email": {email}}
	var users []UserRecord
	if err := c.do(ctx, http.MethodGet, "/users", query, nil, &users); err != nil {
		return false, err
	}
	return len(users) > 0, nil
}

// CreateUser registers a new user and returns the created record.
func (c *Client) CreateUser(ctx context.Context, user NewUser) (*UserRecord, error) {
	var created UserRecord
	if err := c.do(ctx, http.MethodPost, "/users", nil, user, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// do performs one JSON request/response round trip.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		c.logger.Debug("backend returned error status",
			"method", method, "path", path, "status", resp.StatusCode)
		return fmt.Errorf("%w: %s %s returned %d", ErrUnexpectedStatus, method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}
