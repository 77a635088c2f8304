// Package api is the typed gateway client for the Smart Restaurant HTTP
// API. Every call attaches the session's bearer token and decodes the
// server's JSON payloads; server-side failures come back as *APIError
// carrying the `detail` string the backend reports.
package api

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

	"smart-restaurant/lifecycle"
)

// APIError is a server-reported failure (4xx/5xx with a detail payload).
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Detail)
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken installs the bearer token attached to every subsequent request.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the currently installed bearer token.
func (c *Client) Token() string { return c.token }

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Detail == "" {
		payload.Detail = strings.TrimSpace(string(raw))
		if payload.Detail == "" {
			payload.Detail = resp.Status
		}
	}
	return &APIError{StatusCode: resp.StatusCode, Detail: payload.Detail}
}

// ── Auth ────────────────────────────────────────────────────────────────────

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/register", nil, req, nil)
}

// Login exchanges credentials for a bearer token. The endpoint is
// form-encoded OAuth2-password style: the email travels as `username`.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login",
		strings.NewReader(form.Encode()))
	if err != nil {
		return LoginResponse{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return LoginResponse{}, fmt.Errorf("api: login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return LoginResponse{}, decodeError(resp)
	}
	var out LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return LoginResponse{}, fmt.Errorf("api: decode login response: %w", err)
	}
	c.token = out.AccessToken
	return out, nil
}

// Me returns the profile of the token's owner, used to restore a session.
func (c *Client) Me(ctx context.Context) (User, error) {
	var out User
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &out)
	return out, err
}

// ── Menu ────────────────────────────────────────────────────────────────────

func (c *Client) Menu(ctx context.Context) ([]MenuItem, error) {
	var out []MenuItem
	err := c.do(ctx, http.MethodGet, "/menu/", nil, nil, &out)
	return out, err
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out []Category
	err := c.do(ctx, http.MethodGet, "/menu/categories", nil, nil, &out)
	return out, err
}

func (c *Client) CreateMenuItem(ctx context.Context, item MenuItem) (MenuItem, error) {
	var out MenuItem
	err := c.do(ctx, http.MethodPost, "/menu/", nil, item, &out)
	return out, err
}

func (c *Client) UpdateMenuItem(ctx context.Context, itemID int, item MenuItem) (MenuItem, error) {
	var out MenuItem
	err := c.do(ctx, http.MethodPut, "/menu/"+strconv.Itoa(itemID), nil, item, &out)
	return out, err
}

func (c *Client) DeleteMenuItem(ctx context.Context, itemID int) error {
	return c.do(ctx, http.MethodDelete, "/menu/"+strconv.Itoa(itemID), nil, nil, nil)
}

// ── Orders ──────────────────────────────────────────────────────────────────

// Orders lists orders visible to the caller; the server scopes the
// result by role (customer: own, rider: available or assigned, admin: all).
func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var out []Order
	err := c.do(ctx, http.MethodGet, "/orders/", nil, nil, &out)
	return out, err
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (Order, error) {
	var out Order
	err := c.do(ctx, http.MethodPost, "/orders/", nil, req, &out)
	return out, err
}

func (c *Client) Order(ctx context.Context, orderID int) (Order, error) {
	var out Order
	err := c.do(ctx, http.MethodGet, "/orders/"+strconv.Itoa(orderID), nil, nil, &out)
	return out, err
}

// UpdateOrderStatus requests a status transition. The new state is taken
// from the server's confirmed response, never assumed locally.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int, status lifecycle.Status) (Order, error) {
	q := url.Values{}
	q.Set("status", string(status))
	var out Order
	err := c.do(ctx, http.MethodPut, "/orders/"+strconv.Itoa(orderID)+"/status", q, nil, &out)
	return out, err
}

// ── Rider ───────────────────────────────────────────────────────────────────

func (c *Client) RiderProfile(ctx context.Context, userID int) (RiderProfile, error) {
	var out RiderProfile
	err := c.do(ctx, http.MethodGet, "/rider/profile/"+strconv.Itoa(userID), nil, nil, &out)
	return out, err
}

func (c *Client) RiderLocation(ctx context.Context) (Location, error) {
	var out Location
	err := c.do(ctx, http.MethodGet, "/rider/location", nil, nil, &out)
	return out, err
}

func (c *Client) UpdateRiderLocation(ctx context.Context, loc Location) error {
	return c.do(ctx, http.MethodPost, "/rider/location", nil, loc, nil)
}

// RiderHistory lists the caller's completed deliveries.
func (c *Client) RiderHistory(ctx context.Context) ([]Order, error) {
	var out []Order
	err := c.do(ctx, http.MethodGet, "/rider/orders/history", nil, nil, &out)
	return out, err
}
