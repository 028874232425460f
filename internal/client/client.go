package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/greenloop/greenloop/internal/entities"
)

// APIError is a failure reported by the server envelope, as opposed to a
// transport failure.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client talks to the auth API and keeps the session cookie in a jar, the
// way a browser would. All calls update the shared Session.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

// NewClient creates an API client rooted at baseURL.
func NewClient(baseURL string, session *Session) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
		},
		session: session,
	}, nil
}

// Session returns the session this client updates.
func (c *Client) Session() *Session {
	return c.session
}

type authResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	User    *entities.PublicUser `json:"user"`
}

// Register creates an account and signs the session in.
func (c *Client) Register(ctx context.Context, name, email, password string) (entities.PublicUser, error) {
	return c.authCall(ctx, "/api/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
}

// Login signs the session in with existing credentials.
func (c *Client) Login(ctx context.Context, email, password string) (entities.PublicUser, error) {
	return c.authCall(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Logout ends the session. The server clears the cookie; the local session
// is cleared regardless of the response.
func (c *Client) Logout(ctx context.Context) error {
	defer c.session.Clear()

	resp, err := c.post(ctx, "/api/auth/logout", nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Rehydrate asks the server who the cookie belongs to and primes the
// session with the answer. An unauthenticated answer is not an error:
// the session simply becomes ready and signed-out.
func (c *Client) Rehydrate(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/verify", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.session.Clear()
		return fmt.Errorf("verify request failed: %w", err)
	}
	defer resp.Body.Close()

	var body authResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.session.Clear()
		return fmt.Errorf("failed to decode verify response: %w", err)
	}

	if !body.Success || body.User == nil {
		c.session.Clear()
		return nil
	}

	c.session.Set(*body.User)
	return nil
}

func (c *Client) authCall(ctx context.Context, path string, payload map[string]string) (entities.PublicUser, error) {
	resp, err := c.post(ctx, path, payload)
	if err != nil {
		return entities.PublicUser{}, err
	}
	defer resp.Body.Close()

	var body authResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return entities.PublicUser{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if !body.Success {
		return entities.PublicUser{}, &APIError{Message: body.Message}
	}
	if body.User == nil {
		return entities.PublicUser{}, &APIError{Message: "malformed response: missing user"}
	}

	c.session.Set(*body.User)
	return *body.User, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	return resp, nil
}
