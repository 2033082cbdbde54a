// Package youtube provides YouTube video-ID extraction, metadata lookup via
// the public oEmbed endpoint, and video summarization driven through the
// chat pipes.
package youtube

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// DefaultOEmbedURL is YouTube's public metadata endpoint; it needs no key.
const DefaultOEmbedURL = "https://www.youtube.com/oembed"

const defaultTimeout = 60 * time.Second

// videoIDPatterns covers the watch, short, and embed URL forms.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/watch\?.*v=([^&\n?#]+)`),
}

// ExtractVideoID pulls the video ID out of the supported URL forms.
func ExtractVideoID(rawURL string) (string, bool) {
	for _, pattern := range videoIDPatterns {
		if match := pattern.FindStringSubmatch(rawURL); match != nil {
			return match[1], true
		}
	}
	return "", false
}

// Metadata describes a video as reported by the oEmbed endpoint.
type Metadata struct {
	Title        string `json:"title"`
	Author       string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Client looks up video metadata and thumbnails.
type Client struct {
	oembedURL string
	http      *http.Client
}

// NewClient creates a metadata client. An empty oembedURL uses the public
// endpoint; a nil httpClient gets the standard 60s timeout.
func NewClient(oembedURL string, httpClient *http.Client) *Client {
	if oembedURL == "" {
		oembedURL = DefaultOEmbedURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{oembedURL: oembedURL, http: httpClient}
}

// Metadata fetches title, channel, and thumbnail for a video URL. When the
// lookup fails but the URL carries a video ID, a fallback with the static
// thumbnail URL is returned instead of an error.
func (c *Client) Metadata(ctx context.Context, videoURL string) (Metadata, error) {
	endpoint := fmt.Sprintf("%s?url=%s&format=json", c.oembedURL, url.QueryEscape(videoURL))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Metadata{}, fmt.Errorf("create metadata request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.fallbackMetadata(videoURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.fallbackMetadata(videoURL, fmt.Errorf("metadata request failed (%d)", resp.StatusCode))
	}

	var meta Metadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return Metadata{}, fmt.Errorf("decode metadata response: %w", err)
	}
	return meta, nil
}

// fallbackMetadata degrades to the static thumbnail URL when oEmbed is
// unreachable, mirroring how the host's other video helpers behave.
func (c *Client) fallbackMetadata(videoURL string, cause error) (Metadata, error) {
	videoID, ok := ExtractVideoID(videoURL)
	if !ok {
		return Metadata{}, fmt.Errorf("fetch metadata: %w", cause)
	}
	return Metadata{
		Title:        "YouTube Video",
		Author:       "Unknown Channel",
		ThumbnailURL: fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", videoID),
	}, nil
}

// ThumbnailDataURI downloads a thumbnail and encodes it as a
// data:image/jpeg;base64 URI suitable for an inline image content item.
func (c *Client) ThumbnailDataURI(ctx context.Context, thumbnailURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, thumbnailURL, nil)
	if err != nil {
		return "", fmt.Errorf("create thumbnail request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch thumbnail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("thumbnail request failed (%d)", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read thumbnail: %w", err)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" || !strings.HasPrefix(mimeType, "image/") {
		mimeType = "image/jpeg"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
