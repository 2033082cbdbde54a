package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gemini_pipes/pkg/pipe"
)

const videoAnalysisPrompt = `Please analyze this YouTube video and provide a comprehensive summary. Include:

1. A concise summary (2-3 sentences) of the main topic and content
2. Key points covered in the video (bullet points)
3. Target audience and content style assessment
4. Main takeaways or conclusions
5. Overall assessment of content quality and production value

Focus on both the spoken content and visual elements of the video.`

const thumbnailAnalysisPrompt = "Please analyze this YouTube video thumbnail and comment on its visual appeal, design quality, and how well it represents the content."

// Summarizer produces video summaries by driving the chat pipes: native
// video understanding first, thumbnail + metadata analysis as fallback.
type Summarizer struct {
	vision   pipe.Pipe // pipe with video understanding (native Gemini)
	fallback pipe.Pipe // text pipe for the degraded path
	client   *Client
}

// NewSummarizer wires a summarizer. The fallback pipe may equal the vision
// pipe; the metadata client must be non-nil.
func NewSummarizer(vision, fallback pipe.Pipe, client *Client) *Summarizer {
	return &Summarizer{vision: vision, fallback: fallback, client: client}
}

// Summarize analyzes a YouTube video and returns a formatted summary. Every
// failure degrades to a descriptive string; the method never returns an
// error because its output goes straight into a chat session.
func (s *Summarizer) Summarize(ctx context.Context, videoURL string) string {
	if _, ok := ExtractVideoID(videoURL); !ok {
		return "Error: Invalid YouTube URL format."
	}

	meta, err := s.client.Metadata(ctx, videoURL)
	if err != nil {
		slog.Warn("youtube metadata lookup failed", "url", videoURL, "error", err)
	}

	if analysis, ok := s.analyzeVideo(ctx, videoURL); ok {
		return formatSummary("Video Analysis", meta, analysis)
	}

	slog.Info("video understanding failed, falling back to thumbnail analysis", "url", videoURL)
	return formatSummary("Fallback Method", meta, s.analyzeFallback(ctx, meta))
}

// analyzeVideo asks the vision pipe to watch the video directly via a
// by-reference video part.
func (s *Summarizer) analyzeVideo(ctx context.Context, videoURL string) (string, bool) {
	result := s.vision.Run(ctx, pipe.Request{
		Messages: []pipe.ChatMessage{{
			Role: "user",
			Content: pipe.ItemsContent(
				pipe.TextItem(videoAnalysisPrompt),
				pipe.VideoItem(videoURL),
			),
		}},
	}, pipe.NopReporter{})

	if strings.HasPrefix(result.Text, "Error") || strings.HasPrefix(result.Text, "Gemini API Error") {
		return "", false
	}
	return result.Text, true
}

// analyzeFallback summarizes from metadata text and, when a thumbnail is
// available, appends a thumbnail analysis produced by the vision pipe.
func (s *Summarizer) analyzeFallback(ctx context.Context, meta Metadata) string {
	prompt := fmt.Sprintf(`Please analyze this YouTube video based on its metadata and provide your best summary.

Title: %s
Channel: %s

Provide:
1. A concise summary of the likely topic
2. Target audience and content style
3. Overall assessment`, meta.Title, meta.Author)

	summary := s.fallback.Run(ctx, pipe.Request{
		Messages: []pipe.ChatMessage{{Role: "user", Content: pipe.TextContent(prompt)}},
	}, pipe.NopReporter{}).Text

	if meta.ThumbnailURL == "" {
		return summary
	}

	thumbURI, err := s.client.ThumbnailDataURI(ctx, meta.ThumbnailURL)
	if err != nil {
		slog.Warn("thumbnail fetch failed", "url", meta.ThumbnailURL, "error", err)
		return summary
	}

	thumbAnalysis := s.vision.Run(ctx, pipe.Request{
		Messages: []pipe.ChatMessage{{
			Role: "user",
			Content: pipe.ItemsContent(
				pipe.TextItem(thumbnailAnalysisPrompt),
				pipe.ImageItem(thumbURI),
			),
		}},
	}, pipe.NopReporter{}).Text

	return summary + "\n\n**Thumbnail Analysis:**\n" + thumbAnalysis
}

func formatSummary(method string, meta Metadata, analysis string) string {
	title := meta.Title
	if title == "" {
		title = "N/A"
	}
	author := meta.Author
	if author == "" {
		author = "N/A"
	}

	return fmt.Sprintf(`# YouTube Video Summary (%s)

**Video:** %s
**Channel:** %s

---

%s`, method, title, author, analysis)
}
