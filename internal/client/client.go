package client

// client.go = typed HTTP wrapper over the blog-tech engagement API.
// Every method normalizes failures into *APIError; callers never see a raw
// transport error.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Client talks to the blog-tech API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter

	mu             sync.RWMutex
	token          string
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRateLimit caps outgoing requests per second. Burst of 1. Zero and
// negative values keep the default limiter rather than blocking forever.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// New creates a client for the given API base URL, e.g.
// "http://localhost:5052/api".
func New(apiURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: apiURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(20), 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken sets the bearer token used on subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token, empty if unauthenticated.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetOnUnauthorized registers a hook invoked whenever the server answers
// 401. The hook is expected to tear the session down (clear the stored
// credential); the failing call still returns its KindAuth error.
func (c *Client) SetOnUnauthorized(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// envelope is the wire format every endpoint answers with.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// do issues one request and decodes the envelope's data field into out
// (out may be nil for empty-payload endpoints).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &APIError{Kind: KindTransient, Message: err.Error()}
	}

	var reader *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return &APIError{Kind: KindBusiness, Message: fmt.Sprintf("encode request: %v", err)}
		}
		reader = bytes.NewBuffer(jsonData)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &APIError{Kind: KindTransient, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Kind: KindTransient, Message: err.Error()}
	}
	defer resp.Body.Close() // Ensure the response body is closed

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		kind := classify(resp.StatusCode)
		if kind == KindAuth {
			c.fireUnauthorized()
		}
		msg := env.Message
		if msg == "" {
			msg = resp.Status
		}
		return &APIError{Kind: kind, StatusCode: resp.StatusCode, Message: msg}
	}

	if decodeErr != nil {
		return &APIError{Kind: KindTransient, StatusCode: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", decodeErr)}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &APIError{Kind: KindTransient, StatusCode: resp.StatusCode, Message: fmt.Sprintf("decode payload: %v", err)}
	}
	return nil
}

func (c *Client) fireUnauthorized() {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Auth

func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var result AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &result); err != nil {
		return nil, err
	}
	c.SetToken(result.Token)
	return &result, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var result AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &result); err != nil {
		return nil, err
	}
	c.SetToken(result.Token)
	return &result, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.SetToken("")
	return err
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var result User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Notifications

func (c *Client) Notifications(ctx context.Context, params NotificationParams) (*NotificationList, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.UnreadOnly {
		query.Set("unreadOnly", "true")
	}
	path := "/notifications"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var result NotificationList
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var result struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/notifications/unread-count", nil, &result); err != nil {
		return 0, err
	}
	return result.Count, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/notifications/"+url.PathEscape(id)+"/read", nil, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPut, "/notifications/read-all", nil, nil)
}

func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/notifications/"+url.PathEscape(id), nil, nil)
}

// Reactions

func (c *Client) LikePost(ctx context.Context, postID string) (*LikeResult, error) {
	var result LikeResult
	if err := c.do(ctx, http.MethodPost, "/posts/"+url.PathEscape(postID)+"/like", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ReactToPost(ctx context.Context, postID string, kind ReactionKind) (*ReactResult, error) {
	body := map[string]ReactionKind{"type": kind}
	var result ReactResult
	if err := c.do(ctx, http.MethodPost, "/posts/"+url.PathEscape(postID)+"/react", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) PostReactions(ctx context.Context, postID string) (*ReactionState, error) {
	var result ReactionState
	if err := c.do(ctx, http.MethodGet, "/posts/"+url.PathEscape(postID)+"/reactions", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Shares

func (c *Client) TrackShare(ctx context.Context, postID string, platform SharePlatform) error {
	body := map[string]SharePlatform{"platform": platform}
	return c.do(ctx, http.MethodPost, "/posts/"+url.PathEscape(postID)+"/share", body, nil)
}

func (c *Client) ShareStats(ctx context.Context, postID string) (*ShareStats, error) {
	var result ShareStats
	if err := c.do(ctx, http.MethodGet, "/posts/"+url.PathEscape(postID)+"/shares", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Posts

func (c *Client) Posts(ctx context.Context, params PostParams) (*PostList, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	path := "/posts"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var result PostList
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Post(ctx context.Context, id string) (*Post, error) {
	var result Post
	if err := c.do(ctx, http.MethodGet, "/posts/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Comments

func (c *Client) Comments(ctx context.Context, postID string) ([]Comment, error) {
	var result []Comment
	if err := c.do(ctx, http.MethodGet, "/posts/"+url.PathEscape(postID)+"/comments", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) CreateComment(ctx context.Context, postID, content string) (*Comment, error) {
	body := map[string]string{"content": content}
	var result Comment
	if err := c.do(ctx, http.MethodPost, "/posts/"+url.PathEscape(postID)+"/comments", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) UpdateComment(ctx context.Context, commentID, content string) (*Comment, error) {
	body := map[string]string{"content": content}
	var result Comment
	if err := c.do(ctx, http.MethodPut, "/comments/"+url.PathEscape(commentID), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	return c.do(ctx, http.MethodDelete, "/comments/"+url.PathEscape(commentID), nil, nil)
}
