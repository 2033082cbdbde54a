package pipe

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ChatMessage represents a single message in a chat conversation.
type ChatMessage struct {
	Role    string         `json:"role"` // "user" | "assistant" | "system"
	Content MessageContent `json:"content"`
}

// MessageContent is either a plain string or an ordered item sequence.
// The host sends both shapes under the same "content" key.
type MessageContent struct {
	Text  string
	Items []ContentItem

	list bool
}

// TextContent wraps a plain string as message content.
func TextContent(text string) MessageContent {
	return MessageContent{Text: text}
}

// ItemsContent wraps an item sequence as message content.
func ItemsContent(items ...ContentItem) MessageContent {
	return MessageContent{Items: items, list: true}
}

// IsList reports whether the content arrived as an item sequence.
func (c MessageContent) IsList() bool {
	return c.list
}

// PlainText flattens the content to text: the raw string, or the
// concatenation of all text items separated by newlines.
func (c MessageContent) PlainText() string {
	if !c.list {
		return c.Text
	}
	var texts []string
	for _, item := range c.Items {
		if item.Type == "text" && item.Text != "" {
			texts = append(texts, item.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// UnmarshalJSON accepts either a JSON string or an array of content items.
func (c *MessageContent) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var items []ContentItem
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("parse content items: %w", err)
		}
		*c = MessageContent{Items: items, list: true}
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("parse content string: %w", err)
	}
	*c = MessageContent{Text: text}
	return nil
}

// MarshalJSON reproduces the inbound shape: string or item array.
func (c MessageContent) MarshalJSON() ([]byte, error) {
	if c.list {
		if c.Items == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(c.Items)
	}
	return json.Marshal(c.Text)
}

// ContentItem is one entry of a multimodal content sequence.
type ContentItem struct {
	Type     string    `json:"type"` // "text" | "image_url" | "video_url"
	Text     string    `json:"text,omitempty"`
	ImageURL *ItemURL  `json:"image_url,omitempty"`
	VideoURL *VideoURL `json:"video_url,omitempty"`
}

// ItemURL carries an image reference: a remote URL or a data: URI.
type ItemURL struct {
	URL string `json:"url"`
}

// VideoURL carries a video reference plus optional caller-supplied
// metadata that is passed through to the upstream API untouched.
type VideoURL struct {
	URL           string         `json:"url"`
	VideoMetadata map[string]any `json:"video_metadata,omitempty"`
}

// TextItem builds a text content item.
func TextItem(text string) ContentItem {
	return ContentItem{Type: "text", Text: text}
}

// ImageItem builds an image_url content item.
func ImageItem(url string) ContentItem {
	return ContentItem{Type: "image_url", ImageURL: &ItemURL{URL: url}}
}

// VideoItem builds a video_url content item.
func VideoItem(url string) ContentItem {
	return ContentItem{Type: "video_url", VideoURL: &VideoURL{URL: url}}
}
