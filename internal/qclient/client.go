// Package qclient is a small typed client for the queue server endpoints.
package qclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bluesky/qmon/internal/rundocs"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	docs       *rundocs.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		docs:       rundocs.NewClient(baseURL, timeout),
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

type ServerStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type Item struct {
	UID      string `json:"uid"`
	Name     string `json:"name"`
	Plan     string `json:"plan"`
	State    string `json:"state"`
	Progress *int   `json:"progress,omitempty"`
	Result   string `json:"result,omitempty"`
}

type QueueStatus struct {
	Running *Item  `json:"running"`
	Queue   []Item `json:"queue"`
	History []Item `json:"history"`
}

// Idle reports whether nothing is running and nothing is waiting.
func (s QueueStatus) Idle() bool {
	return s.Running == nil && len(s.Queue) == 0
}

func (c *Client) Status(ctx context.Context) (ServerStatus, error) {
	var out ServerStatus
	err := c.do(ctx, http.MethodGet, "/status", nil, &out)
	return out, err
}

func (c *Client) QueueStatus(ctx context.Context) (QueueStatus, error) {
	var out QueueStatus
	err := c.do(ctx, http.MethodGet, "/queue/status", nil, &out)
	return out, err
}

// Add queues a plan and returns the server's item.
func (c *Client) Add(ctx context.Context, name, plan string) (Item, error) {
	var out struct {
		Item Item `json:"item"`
	}
	err := c.do(ctx, http.MethodPost, "/queue/add", map[string]string{"name": name, "plan": plan}, &out)
	return out.Item, err
}

func (c *Client) Clear(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/queue/clear", nil, nil)
}

// Start asks the server to run the queue. It reports false for a no-op.
func (c *Client) Start(ctx context.Context) (bool, error) {
	return c.action(ctx, "/queue/start")
}

// Stop asks the server to stop the running plan. It reports false for a no-op.
func (c *Client) Stop(ctx context.Context) (bool, error) {
	return c.action(ctx, "/queue/stop")
}

func (c *Client) ToggleDestroy(ctx context.Context) (bool, error) {
	var out struct {
		Destroy bool `json:"environment_destroy"`
	}
	err := c.do(ctx, http.MethodPost, "/environment/destroy", nil, &out)
	return out.Destroy, err
}

// SavePlan stores plan code under name and returns the name the server used.
func (c *Client) SavePlan(ctx context.Context, name, code string) (string, error) {
	var out struct {
		Name string `json:"name"`
	}
	err := c.do(ctx, http.MethodPost, "/plans", map[string]string{"name": name, "code": code}, &out)
	return out.Name, err
}

func (c *Client) Plans(ctx context.Context) ([]string, error) {
	var out struct {
		Plans []string `json:"plans"`
	}
	err := c.do(ctx, http.MethodGet, "/plans", nil, &out)
	return out.Plans, err
}

func (c *Client) Runs(ctx context.Context) ([]string, error) {
	var out struct {
		Runs []string `json:"runs"`
	}
	err := c.do(ctx, http.MethodGet, "/runs", nil, &out)
	return out.Runs, err
}

func (c *Client) Documents(ctx context.Context, uid string) ([]rundocs.Document, error) {
	return c.docs.FetchDocuments(ctx, uid)
}

func (c *Client) action(ctx context.Context, path string) (bool, error) {
	var out struct {
		Result string `json:"result"`
	}
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return false, err
	}
	return out.Result == "ok", nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("qclient: encoding request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("qclient: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("qclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("qclient: reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("qclient: %s %s returned %d: %s", method, path, resp.StatusCode, truncate(string(data), 200))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("qclient: parsing %s response: %w", path, err)
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
