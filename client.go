package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/Laisky/zap"
)

// ChatPath is the blocking chat endpoint, relative to the base URL.
const ChatPath = "/api/v1/chat"

// Client talks to the text-generation service's chat API.
//
// A Client holds no per-conversation state; the caller carries History from
// one SendChat to the next. It is safe for concurrent use.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the given configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		endpoint:   cfg.baseURL() + ChatPath,
		httpClient: noRedirects(cfg.HTTPClient),
		logger:     cfg.logger(),
	}
}

// noRedirects returns a copy of base (or a fresh client) that hands 3xx
// responses back to the caller instead of following them.
func noRedirects(base *http.Client) *http.Client {
	var client http.Client
	if base != nil {
		client = *base
	}
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &client
}

// Endpoint returns the full URL requests are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// SendChat posts one turn and returns the conversation history from the
// first result. The returned history is a copy owned by the caller.
//
// Errors:
//   - *EncodeError: the request could not be serialized
//   - *TransportError: network failure, or any non-2xx status (redirects included)
//   - *DecodeError: the body is not a chat response envelope
//   - ErrEmptyResult: the envelope has no results
func (c *Client) SendChat(ctx context.Context, req *GenerationRequest) (History, error) {
	body, err := req.marshal()
	if err != nil {
		return History{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return History{}, &TransportError{URL: c.endpoint, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug("sending chat request",
		zap.String("url", c.endpoint),
		zap.String("mode", req.Mode.String()),
		zap.Int("history_len", req.History.Len()))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug("chat request failed", zap.String("url", c.endpoint), zap.Error(err))
		return History{}, &TransportError{URL: c.endpoint, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return History{}, &TransportError{URL: c.endpoint, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("chat request rejected",
			zap.String("url", c.endpoint),
			zap.Int("status", resp.StatusCode))
		return History{}, &TransportError{
			URL:        c.endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		c.logger.Debug("chat response not decodable", zap.Error(err))
		return History{}, &DecodeError{Body: string(respBody), Err: err}
	}

	return chatResp.FirstHistory()
}
