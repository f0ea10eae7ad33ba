// Package potpie is a thin client for the Potpie repository analysis API.
//
// The API owns the parse state machine (submitted -> parsing -> ready);
// this client only submits work, probes status, and relays queries. All
// methods return the raw JSON body so callers can surface it unchanged.
package potpie

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/repoqna/repoqna/internal/telemetry"
)

const (
	// DefaultBaseURL is the production Potpie API root.
	DefaultBaseURL = "https://production-api.potpie.ai/api/v2"

	// StatusReady marks a project whose parse has completed.
	StatusReady = "ready"
)

// ErrReadyTimeout reports that a project did not reach StatusReady
// within the client's ReadyTimeout.
var ErrReadyTimeout = errors.New("potpie: ready wait timed out")

type Client struct {
	BaseURL      string
	HTTP         *http.Client
	PollInterval time.Duration
	ReadyTimeout time.Duration

	apiKey string
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.BaseURL = strings.TrimRight(u, "/") }
}

func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) { c.HTTP.Timeout = d }
}

func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.PollInterval = d }
}

func WithReadyTimeout(d time.Duration) Option {
	return func(c *Client) { c.ReadyTimeout = d }
}

func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		BaseURL:      DefaultBaseURL,
		HTTP:         &http.Client{Timeout: 90 * time.Second},
		PollInterval: 10 * time.Second,
		ReadyTimeout: 600 * time.Second,
		apiKey:       apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParseRepository submits a repository and branch for parsing.
func (c *Client) ParseRepository(ctx context.Context, repoName, branchName string) (json.RawMessage, error) {
	payload := map[string]string{"repo_name": repoName, "branch_name": branchName}
	return c.do(ctx, http.MethodPost, "/parse", payload)
}

// ParsingStatus probes the parse state of a project once, without waiting.
func (c *Client) ParsingStatus(ctx context.Context, projectID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/parsing-status/"+projectID, nil)
}

// WaitUntilReady polls ParsingStatus until the project reports ready,
// the client's ReadyTimeout passes, or ctx is cancelled. It returns the
// last status body observed.
func (c *Client) WaitUntilReady(ctx context.Context, projectID string) (json.RawMessage, error) {
	deadline := time.Now().Add(c.ReadyTimeout)
	for {
		body, err := c.ParsingStatus(ctx, projectID)
		if err != nil {
			return nil, err
		}
		status := gjson.GetBytes(body, "status").String()
		if status == StatusReady {
			return body, nil
		}
		if time.Now().After(deadline) {
			return body, fmt.Errorf("%w: project %s did not become ready within %s (last status %q)",
				ErrReadyTimeout, projectID, c.ReadyTimeout, status)
		}
		log.Printf("potpie: project %s status is %q, waiting", projectID, status)
		select {
		case <-ctx.Done():
			return body, ctx.Err()
		case <-time.After(c.PollInterval):
		}
	}
}

// CreateConversation opens a conversation scoped to the given projects.
func (c *Client) CreateConversation(ctx context.Context, projectIDs, agentIDs []string) (json.RawMessage, error) {
	payload := map[string]any{"project_ids": projectIDs}
	if len(agentIDs) > 0 {
		payload["agent_ids"] = agentIDs
	}
	return c.do(ctx, http.MethodPost, "/conversations", payload)
}

// SendMessage posts a message into an existing conversation.
func (c *Client) SendMessage(ctx context.Context, conversationID, content string, nodeIDs []string) (json.RawMessage, error) {
	if nodeIDs == nil {
		nodeIDs = []string{}
	}
	payload := map[string]any{"content": content, "node_ids": nodeIDs}
	return c.do(ctx, http.MethodPost, "/conversations/"+conversationID+"/message", payload)
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload any) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	url := c.BaseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	log.Printf("potpie: %s %s", method, endpoint)
	start := time.Now()

	resp, err := c.HTTP.Do(req)
	if err != nil {
		telemetry.Emit("potpie_request", map[string]any{
			"method": method, "endpoint": endpoint,
			"duration_ms": time.Since(start).Milliseconds(),
			"error":       "transport error",
		})
		return nil, fmt.Errorf("potpie %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("potpie %s %s: read body: %w", method, endpoint, err)
	}

	telemetry.Emit("potpie_request", map[string]any{
		"method": method, "endpoint": endpoint,
		"duration_ms": time.Since(start).Milliseconds(),
		"status":      resp.StatusCode,
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(b))
		if len(msg) > 4096 {
			msg = msg[:4096]
		}
		if msg == "" {
			return nil, fmt.Errorf("potpie %s %s failed (status=%d)", method, endpoint, resp.StatusCode)
		}
		return nil, fmt.Errorf("potpie %s %s failed (status=%d): %s", method, endpoint, resp.StatusCode, msg)
	}
	return json.RawMessage(b), nil
}
