// Package shuttle fetches the latest campus shuttle-bus location from the
// university's fixed tracking endpoint.
package shuttle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultEndpoint is the public shuttle location feed.
const DefaultEndpoint = "http://route.hellobus.co.kr:8787/pub/routeView/skku/getSkkuLoc.aspx"

const defaultTimeout = 60 * time.Second

// Client fetches the shuttle location feed.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a shuttle client against the given endpoint (defaulted
// when empty).
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{endpoint: endpoint, http: httpClient}
}

// Location returns the latest shuttle location as indented JSON. The feed's
// schema is not modeled; the payload is validated and passed through raw.
func (c *Client) Location(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create shuttle request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch shuttle location: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read shuttle response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("shuttle request failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if !json.Valid(body) {
		return "", fmt.Errorf("shuttle response is not valid JSON")
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		return "", fmt.Errorf("format shuttle response: %w", err)
	}
	return pretty.String(), nil
}
