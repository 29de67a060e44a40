package annapurna

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// TokenSource supplies the bearer token for a request. It is consulted on
// every call, never cached, so a login or logout between calls takes effect
// immediately. An empty string means the call goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// APIError is the normalized failure returned for any non-2xx response.
type APIError struct {
	Status int
	Detail string
	Code   string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Detail)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Detail)
}

// Unauthorized reports whether the failure should invalidate the session
// rather than be treated as transient.
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// Fetcher is the surface the sync layer needs from the API client. *Client
// implements it; tests substitute fakes.
type Fetcher interface {
	Order(ctx context.Context, id int64) (*Order, error)
	Orders(ctx context.Context, q OrderQuery) ([]Order, error)
	MyOrders(ctx context.Context) ([]Order, error)
	ImpactDashboard(ctx context.Context) (*ImpactStats, error)
	Leaderboard(ctx context.Context, metric string, limit int) ([]LeaderboardEntry, error)
	ActiveJobs(ctx context.Context) ([]ActiveJob, error)
	Notifications(ctx context.Context, unreadOnly bool) ([]Notification, error)
}

var _ Fetcher = (*Client)(nil)

// Client talks to the Annapurna HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	tokens    TokenSource
	userAgent string
}

const (
	apiPrefix        = "/api/v1"
	defaultUserAgent = "ladle/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client for the given base URL. tokens may be nil for a
// purely anonymous client.
func NewClient(baseURL string, tokens TokenSource) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		tokens:    tokens,
		userAgent: defaultUserAgent,
	}, nil
}

// Login exchanges credentials for a token. The caller owns persisting it.
func (c *Client) Login(ctx context.Context, email, password string) (*Token, error) {
	body := map[string]string{"email": email, "password": password}
	var payload Token
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/auth/login", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Register creates an account and returns its first token.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*Token, error) {
	var payload Token
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/auth/register", req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Me returns the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var payload User
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/auth/me", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CreateOrder posts a new surplus order and returns it with id and initial
// status assigned by the server.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var payload Order
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/surplus", req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Order fetches a single order by id.
func (c *Client) Order(ctx context.Context, id int64) (*Order, error) {
	var payload Order
	path := apiPrefix + "/surplus/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Orders lists orders, newest first, with optional status/limit filters.
func (c *Client) Orders(ctx context.Context, q OrderQuery) ([]Order, error) {
	values := url.Values{}
	if q.Status != "" {
		values.Set("status", string(q.Status))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	rel := &url.URL{Path: apiPrefix + "/surplus", RawQuery: values.Encode()}
	var payload []Order
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// MyOrders lists the orders belonging to the authenticated role.
func (c *Client) MyOrders(ctx context.Context) ([]Order, error) {
	var payload []Order
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/surplus/my-orders", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// UpdateOrderStatus advances an order through its lifecycle.
func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status Status, note string) (*Order, error) {
	if !status.Known() {
		return nil, fmt.Errorf("unknown status %q", status)
	}
	body := map[string]any{"new_status": string(status)}
	if note != "" {
		body["feedback_note"] = note
	}
	var payload Order
	path := apiPrefix + "/surplus/" + strconv.FormatInt(id, 10) + "/status"
	if err := c.do(ctx, http.MethodPatch, path, body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ImpactDashboard fetches platform-wide impact aggregates.
func (c *Client) ImpactDashboard(ctx context.Context) (*ImpactStats, error) {
	var payload ImpactStats
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/impact/dashboard", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Leaderboard fetches ranked contributors for the given metric.
func (c *Client) Leaderboard(ctx context.Context, metric string, limit int) ([]LeaderboardEntry, error) {
	values := url.Values{}
	if metric != "" {
		values.Set("metric", metric)
	}
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	rel := &url.URL{Path: apiPrefix + "/impact/leaderboard", RawQuery: values.Encode()}
	var payload []LeaderboardEntry
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// ActiveJobs fetches in-flight deliveries with GPS data for the live map.
func (c *Client) ActiveJobs(ctx context.Context) ([]ActiveJob, error) {
	var payload []ActiveJob
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/tracking/active-jobs", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// AllLocations fetches every restaurant, NGO, and online driver for the
// network map overlay.
func (c *Client) AllLocations(ctx context.Context) (*NetworkMap, error) {
	var payload NetworkMap
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/tracking/all-locations", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Notifications lists the user's notifications, optionally unread only.
func (c *Client) Notifications(ctx context.Context, unreadOnly bool) ([]Notification, error) {
	values := url.Values{}
	if unreadOnly {
		values.Set("unread_only", "1")
	}
	rel := &url.URL{Path: apiPrefix + "/notifications", RawQuery: values.Encode()}
	var payload []Notification
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// MarkNotificationRead flags one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	path := apiPrefix + "/notifications/" + strconv.FormatInt(id, 10) + "/read"
	return c.do(ctx, http.MethodPatch, path, nil, nil)
}

// PredictSurplus asks the ML endpoint for a surplus forecast.
func (c *Client) PredictSurplus(ctx context.Context, req PredictionRequest) (*Prediction, error) {
	var payload Prediction
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/ml/predict-surplus", req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CheckHealth calls the API health endpoint.
func (c *Client) CheckHealth(ctx context.Context) (*Health, error) {
	var payload Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// Token is read at call time so login/logout between calls is honored.
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		apiErr.Detail = resp.Status
		return apiErr
	}
	var body struct {
		Detail string `json:"detail"`
		Code   string `json:"code"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Detail != "" {
		apiErr.Detail = body.Detail
		apiErr.Code = body.Code
		return apiErr
	}
	apiErr.Detail = strings.TrimSpace(string(raw))
	if apiErr.Detail == "" {
		apiErr.Detail = resp.Status
	}
	return apiErr
}

func parseBaseURL(baseURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, fmt.Errorf("api base url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", baseURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
