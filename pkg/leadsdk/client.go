package leadsdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the public endpoints and creates admin Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// UserAgent is sent on every request. Form tokens record the user agent
	// they were issued to, so keep it stable between minting and submitting.
	UserAgent string
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		UserAgent: "leadsdk",
	}
}

// GetFormToken mints a token for route that is not bound to any fields.
func (c *Client) GetFormToken(ctx context.Context, route string) (*FormTokenResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/forms/token?route="+url.QueryEscape(route), nil, nil)
	if err != nil {
		return nil, err
	}

	var tok FormTokenResponse
	if err := decodeJSON(resp, &tok, http.StatusOK); err != nil {
		return nil, err
	}
	return &tok, nil
}

// GetBoundFormToken mints a token bound to the given email and phone.
func (c *Client) GetBoundFormToken(ctx context.Context, route string, fields map[string]string) (*FormTokenResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/forms/token", FormTokenRequest{Route: route, Fields: fields}, nil)
	if err != nil {
		return nil, err
	}

	var tok FormTokenResponse
	if err := decodeJSON(resp, &tok, http.StatusOK); err != nil {
		return nil, err
	}
	return &tok, nil
}

// Submit posts form fields to route with the token in the request body.
func (c *Client) Submit(ctx context.Context, route, token string, fields map[string]any) (*SubmitResponse, error) {
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["token"] = token

	resp, err := c.doRequest(ctx, http.MethodPost, route, body, nil)
	if err != nil {
		return nil, err
	}

	var out SubmitResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates an admin. totpCode may be empty for admins without
// a second factor.
func (c *Client) Login(ctx context.Context, username, password, totpCode string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/admin/login", LoginRequest{
		Username: username,
		Password: password,
		TOTPCode: totpCode,
	}, nil)
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &Session{client: c, token: out.AccessToken, expiresAt: out.ExpiresAt, scopes: out.Scopes}, nil
}

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// GetReadiness checks if the service is ready.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *Client) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}
