// Package streamclient consumes the repository tree stream endpoint: it
// decodes the newline-delimited JSON event stream and folds it into a
// renderable state. It depends only on the wire format, not on the server's
// internals.
package streamclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrStreamTruncated reports a stream that ended without a terminal complete
// or error event, which means the server went away mid-walk.
var ErrStreamTruncated = errors.New("stream ended without a terminal event")

// streamRequest is the body of the stream endpoint.
type streamRequest struct {
	URL string `json:"url"`
}

// apiError is the structured error the server sends when a request fails
// before any stream output.
type apiError struct {
	Error string `json:"error"`
}

// Client talks to a treestream server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. The default carries no
// timeout because streams are long-lived; cancel via context instead.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stream requests the tree of repoURL and dispatches every decoded event
// through handlers until the stream ends. Pre-stream rejections come back as
// plain errors; once streaming has started, failures arrive as error events.
// Returns ErrStreamTruncated when the body ends without a terminal event.
func (c *Client) Stream(ctx context.Context, repoURL string, handlers Handlers) error {
	body, err := json.Marshal(streamRequest{URL: repoURL})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/tree", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	// Wrap the terminal callbacks so truncation is detectable afterwards.
	terminal := false
	wrapped := handlers
	userError := handlers.OnError
	userComplete := handlers.OnComplete
	wrapped.OnError = func(message string) {
		terminal = true
		if userError != nil {
			userError(message)
		}
	}
	wrapped.OnComplete = func(totalFiles, totalDirectories int) {
		terminal = true
		if userComplete != nil {
			userComplete(totalFiles, totalDirectories)
		}
	}

	dec := NewDecoder(wrapped)
	if _, err := io.Copy(dec, resp.Body); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to read stream: %w", err)
	}
	dec.Flush()

	if !terminal {
		return ErrStreamTruncated
	}
	return nil
}

// Collect streams repoURL and folds every event into a State. The state is
// returned even on error with whatever arrived before the failure.
func (c *Client) Collect(ctx context.Context, repoURL string) (*State, error) {
	state, handlers := NewAggregator()
	if err := c.Stream(ctx, repoURL, handlers); err != nil {
		return state, err
	}
	return state, nil
}

func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	var e apiError
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return fmt.Errorf("server rejected request (%d): %s", resp.StatusCode, e.Error)
	}
	return fmt.Errorf("server rejected request (%d)", resp.StatusCode)
}
