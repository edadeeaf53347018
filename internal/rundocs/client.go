package rundocs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchDocuments returns every stored document for run uid in server order.
func (c *Client) FetchDocuments(ctx context.Context, uid string) ([]Document, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("rundocs: no server configured")
	}
	if uid == "" {
		return nil, fmt.Errorf("rundocs: empty run uid")
	}

	endpoint := fmt.Sprintf("%s/runs/%s/documents", c.baseURL, url.PathEscape(uid))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("rundocs: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rundocs: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("rundocs: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{UID: uid, Code: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	var raw apiResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("rundocs: parsing response: %w", err)
	}

	docs := make([]Document, 0, len(raw.Documents))
	for i, item := range raw.Documents {
		var v any
		if err := json.Unmarshal(item, &v); err != nil {
			continue
		}
		doc, ok := FromAny(v)
		if !ok {
			log.Printf("rundocs: run %s: skipping non-object document at index %d", uid, i)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// StatusError is returned for non-success responses.
type StatusError struct {
	UID  string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("rundocs: run %s returned %d: %s", e.UID, e.Code, e.Body)
}

// apiResponse maps GET /runs/{uid}/documents.
type apiResponse struct {
	UID       string            `json:"uid"`
	Documents []json.RawMessage `json:"documents"`
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
