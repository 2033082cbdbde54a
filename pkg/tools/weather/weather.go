// Package weather looks up the current temperature for a city.
package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL serves plain-text weather reports per city path.
	DefaultBaseURL = "https://wttr.in"

	// reportFormat asks for "location: temperature" on one line.
	reportFormat = "%l:+%t"

	defaultTimeout = 60 * time.Second
)

// Client fetches one-line weather reports.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a weather client. An empty baseURL uses the default
// service; a nil httpClient gets the standard 60s timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Current returns the current temperature for a city as a display string,
// e.g. "Seoul: +23°C".
func (c *Client) Current(ctx context.Context, city string) (string, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return "", fmt.Errorf("city is required")
	}

	endpoint := fmt.Sprintf("%s/%s?format=%s", c.baseURL, url.PathEscape(city), url.QueryEscape(reportFormat))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create weather request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch weather: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read weather response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("weather request failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return strings.TrimSpace(string(body)), nil
}
