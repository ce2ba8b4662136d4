package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every Graph call. The platform gives no SLA for slow
// posts/conversations endpoints; an unanswered call must not hang a whole
// aggregation pass.
const DefaultTimeout = 30 * time.Second

// Error is the platform's error envelope. Any response body carrying
// {"error": {...}} fails the call with this type, never a partial success.
type Error struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

func (e *Error) Error() string {
	return e.Message
}

type errorEnvelope struct {
	Error *Error `json:"error"`
}

// Client is a thin request wrapper around the Graph API. The access token is
// always sent as a query credential, matching the platform convention; no
// retries, no rate-limit handling.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: DefaultTimeout},
	}
}

func (c *Client) Request(ctx context.Context, method, path, token string, params url.Values, out any) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("build request url: %w", err)
	}

	q := u.Query()
	q.Set("access_token", token)
	for key, values := range params {
		for _, value := range values {
			q.Add(key, value)
		}
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("graph request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("read response: %w", err)
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		return envelope.Error
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			slog.Info(err.Error())
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

func (c *Client) get(ctx context.Context, path, token string, params url.Values, out any) error {
	return c.Request(ctx, http.MethodGet, path, token, params, out)
}

func (c *Client) post(ctx context.Context, path, token string, params url.Values, out any) error {
	return c.Request(ctx, http.MethodPost, path, token, params, out)
}

func (c *Client) delete(ctx context.Context, path, token string, params url.Values, out any) error {
	return c.Request(ctx, http.MethodDelete, path, token, params, out)
}
