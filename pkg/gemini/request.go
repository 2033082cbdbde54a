package gemini

import (
	"strings"

	"gemini_pipes/pkg/pipe"
)

const defaultTopP = 0.95

// popSystemMessage extracts the first system-role message, if any, and
// returns the remaining messages. The adapter takes only the designated
// leading system message; it does not merge several.
func popSystemMessage(messages []pipe.ChatMessage) (string, []pipe.ChatMessage) {
	for i, msg := range messages {
		if msg.Role == "system" {
			rest := make([]pipe.ChatMessage, 0, len(messages)-1)
			rest = append(rest, messages[:i]...)
			rest = append(rest, messages[i+1:]...)
			return msg.Content.PlainText(), rest
		}
	}
	return "", messages
}

// resolveModel strips any "provider/" prefix segment from a model identifier.
func resolveModel(model string) string {
	segments := strings.Split(model, "/")
	return segments[len(segments)-1]
}

// buildRequest translates a host request into the upstream request body.
// The system message, when present, becomes a synthetic leading user turn.
func (p *Pipe) buildRequest(req pipe.Request) (string, generateRequest) {
	systemMessage, messages := popSystemMessage(req.Messages)
	model := resolveModel(req.Model)

	cv := converter{
		enableVision:      p.opts.EnableVision,
		autoDetectYouTube: p.opts.AutoDetectYouTube,
		videoFPS:          p.opts.VideoFPS,
	}

	contents := make([]Content, 0, len(messages)+1)
	if systemMessage != "" {
		contents = append(contents, Content{
			Role:  "user",
			Parts: []Part{TextPart("System: " + systemMessage)},
		})
	}
	for _, msg := range messages {
		contents = append(contents, Content{
			Role:  MapRole(msg.Role),
			Parts: cv.FormatContent(msg.Content).Parts(),
		})
	}

	config := GenerationConfig{
		Temperature:     p.opts.Temperature,
		TopP:            defaultTopP,
		MaxOutputTokens: p.opts.MaxTokens,
	}
	if req.Temperature != nil {
		config.Temperature = *req.Temperature
	}
	if req.TopP != nil {
		config.TopP = *req.TopP
	}
	if req.MaxTokens != nil {
		config.MaxOutputTokens = *req.MaxTokens
	}

	return model, generateRequest{Contents: contents, GenerationConfig: config}
}
