package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/datalyn/internal/netx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Settings struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	EmailNotifications bool   `json:"email_notifications"`
	ReportSchedule     string `json:"report_schedule"`
}

// SettingsUpdate carries a partial update; nil fields are not sent.
type SettingsUpdate struct {
	Name               *string `json:"name,omitempty"`
	EmailNotifications *bool   `json:"email_notifications,omitempty"`
	ReportSchedule     *string `json:"report_schedule,omitempty"`
}

type ReasoningStep struct {
	Step        int    `json:"step"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ChatMessage struct {
	ID             string          `json:"id"`
	Role           string          `json:"role"`
	Content        string          `json:"content"`
	ReasoningSteps []ReasoningStep `json:"reasoning_steps"`
	CreatedAt      string          `json:"created_at"`
}

type ChatReply struct {
	SessionID string      `json:"session_id"`
	Message   ChatMessage `json:"message"`
}

type ChatSession struct {
	SessionID   string    `json:"session_id"`
	Preview     string    `json:"preview"`
	LastUpdated time.Time `json:"last_updated"`
}

type Metrics struct {
	MRR         float64           `json:"mrr"`
	ActiveUsers int               `json:"active_users"`
	ChartData   []json.RawMessage `json:"chart_data"`
	Anomalies   []json.RawMessage `json:"anomalies"`
}

type Integration struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
}

// APIClient talks to the Datalyn JSON API. It is safe for concurrent use.
type APIClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func NewAPIClient(baseURL string, timeout time.Duration) (*APIClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", baseURL)
	}
	return &APIClient{
		baseURL: u.String(),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

func (c *APIClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *APIClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Signup creates an account and keeps the returned token.
func (c *APIClient) Signup(ctx context.Context, email, password, name string) (*AuthResponse, error) {
	var res AuthResponse
	body := map[string]string{"email": email, "password": password, "name": name}
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", false, body, &res); err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return &res, nil
}

// Login authenticates and keeps the returned token.
func (c *APIClient) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var res AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", false, body, &res); err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return &res, nil
}

func (c *APIClient) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", true, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *APIClient) Settings(ctx context.Context) (*Settings, error) {
	var s Settings
	if err := c.do(ctx, http.MethodGet, "/api/settings", true, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *APIClient) UpdateSettings(ctx context.Context, upd SettingsUpdate) error {
	return c.do(ctx, http.MethodPut, "/api/settings", true, upd, nil)
}

func (c *APIClient) DeleteAccount(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/api/account", true, nil, nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

func (c *APIClient) Metrics(ctx context.Context) (*Metrics, error) {
	var m Metrics
	if err := c.do(ctx, http.MethodGet, "/api/dashboard/metrics", true, nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// SendMessage posts a chat message. An empty sessionID starts a new
// session.
func (c *APIClient) SendMessage(ctx context.Context, sessionID, message string) (*ChatReply, error) {
	var r ChatReply
	body := map[string]string{"message": message, "session_id": sessionID}
	if err := c.do(ctx, http.MethodPost, "/api/chat/message", true, body, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *APIClient) ChatHistory(ctx context.Context, sessionID string) ([]ChatMessage, error) {
	var res struct {
		Messages []ChatMessage `json:"messages"`
	}
	path := "/api/chat/history/" + url.PathEscape(sessionID)
	if err := c.do(ctx, http.MethodGet, path, true, nil, &res); err != nil {
		return nil, err
	}
	return res.Messages, nil
}

func (c *APIClient) ChatSessions(ctx context.Context) ([]ChatSession, error) {
	var res struct {
		Sessions []ChatSession `json:"sessions"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/chat/sessions", true, nil, &res); err != nil {
		return nil, err
	}
	return res.Sessions, nil
}

func (c *APIClient) Integrations(ctx context.Context) ([]Integration, error) {
	var res []Integration
	if err := c.do(ctx, http.MethodGet, "/api/integrations", true, nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// ToggleIntegration returns the connection state reported by the server.
func (c *APIClient) ToggleIntegration(ctx context.Context, id string) (bool, error) {
	var res struct {
		Connected bool `json:"connected"`
	}
	path := "/api/integrations/" + url.PathEscape(id) + "/toggle"
	if err := c.do(ctx, http.MethodPost, path, true, nil, &res); err != nil {
		return false, err
	}
	return res.Connected, nil
}

// Health calls /healthz.
func (c *APIClient) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", false, nil, nil)
}

func (c *APIClient) do(ctx context.Context, method, path string, authorized bool, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if authorized {
		token := c.Token()
		if token == "" {
			return ErrNoToken
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.mapError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var env netx.ErrorResponse
		if err := json.NewDecoder(io.LimitReader(resp.Body, netx.MaxBodyBytes)).Decode(&env); err == nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// mapError marks connection failures as ErrUnavailable.
func (c *APIClient) mapError(err error) error {
	var netErr net.Error
	var opErr *net.OpError
	if errors.As(err, &opErr) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}
