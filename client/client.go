// Package client talks to the MePlay API. It is the durable tier as seen from
// a playback session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"MePlay/config"
	"MePlay/logger"
	"MePlay/model"
)

// ErrMalformedResponse is returned when the body is not a readable envelope.
var ErrMalformedResponse = errors.New("malformed response")

// RemoteError is a response the server answered with success=false.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error (status %d): %s", e.StatusCode, e.Message)
}

// NotFound reports whether the server said the resource does not exist.
func (e *RemoteError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Client is an API client. Requests are throttled by a token bucket.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client from the player configuration.
func NewClient(cfg *config.Config) *Client {
	return New(cfg.APIBaseURL, cfg.APIToken, cfg.RemoteTimeout, cfg.RemoteRPS)
}

// New creates a client. rps <= 0 disables throttling.
func New(baseURL, token string, timeout time.Duration, rps float64) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := rate.Inf
	burst := 1
	if rps > 0 {
		limit = rate.Limit(rps)
		burst = int(rps)
		if burst < 1 {
			burst = 1
		}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
	}
}

// SetToken 设置 Bearer token
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, body model.ActionRequest) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", body.Action, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	return resp, nil
}

// decode reads an envelope. A non-2xx status becomes a RemoteError carrying
// the server's message; a body that is not an envelope is ErrMalformedResponse.
func decode(resp *http.Response) (*model.Envelope, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}

	var env model.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode >= 300 {
			return nil, &RemoteError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if resp.StatusCode >= 300 {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &RemoteError{StatusCode: resp.StatusCode, Message: msg}
	}
	return &env, nil
}

// fetch GETs path and unmarshals the data payload into out. success=false is
// an error here since reads have no soft-refusal case.
func (c *Client) fetch(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.get(ctx, path, query)
	if err != nil {
		return err
	}
	env, err := decode(resp)
	if err != nil {
		return err
	}
	if !env.Success {
		return &RemoteError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	return unmarshalData(env, out)
}

// send POSTs an action and returns the server's verdict. Only transport
// failures, non-2xx statuses and unreadable bodies are errors.
func (c *Client) send(ctx context.Context, path string, body model.ActionRequest) (*model.Envelope, error) {
	resp, err := c.post(ctx, path, body)
	if err != nil {
		return nil, err
	}
	env, err := decode(resp)
	if err != nil {
		return nil, err
	}
	logger.Debug("api action",
		logger.String("action", body.Action),
		logger.Bool("success", env.Success),
		logger.String("message", env.Message))
	return env, nil
}

func songID(id string) json.RawMessage {
	raw, _ := json.Marshal(id)
	return raw
}
