package gemini

import (
	"log/slog"
	"strings"

	"gemini_pipes/pkg/pipe"
)

// Placeholder texts emitted when binary content cannot be forwarded.
const (
	placeholderImageDisabled = "[Image content not processed - vision disabled]"
	placeholderVideoDisabled = "[Video content not processed - vision disabled]"
	placeholderImageError    = "[Error processing image]"
	placeholderVideoError    = "[Error processing video]"
)

// MapRole converts a host role to a Gemini role. The API has no system role;
// system messages are folded into user turns by the request builder. Unknown
// roles default to user.
func MapRole(role string) string {
	switch role {
	case "user":
		return "user"
	case "assistant":
		return "model"
	case "system":
		return "user"
	default:
		return "user"
	}
}

// converter applies the pipe's formatting options to message content.
type converter struct {
	enableVision      bool
	autoDetectYouTube bool
	videoFPS          float64
}

// FormatContent converts one message's content into its Gemini parts,
// tagged with the wire shape. The conversion is pure: formatting the same
// content twice yields identical output.
func (cv converter) FormatContent(content pipe.MessageContent) FormattedParts {
	if !content.IsList() {
		return cv.formatText(content.Text)
	}

	if !cv.enableVision {
		return NewFormattedParts(cv.formatItemsTextOnly(content.Items))
	}

	var parts []Part
	for _, item := range content.Items {
		parts = append(parts, cv.formatItem(item)...)
	}
	return NewFormattedParts(parts)
}

// formatText handles plain-string content: YouTube URLs become file
// references, residual text trails as a final text part.
func (cv converter) formatText(text string) FormattedParts {
	if !cv.enableVision || !cv.autoDetectYouTube {
		return NewFormattedParts([]Part{TextPart(text)})
	}

	urls := DetectYouTubeURLs(text)
	if len(urls) == 0 {
		return NewFormattedParts([]Part{TextPart(text)})
	}

	parts := make([]Part, 0, len(urls)+1)
	remaining := text
	for _, url := range urls {
		parts = append(parts, cv.videoRefPart(url, nil))
		slog.Info("auto-detected youtube video", "url", url)
		remaining = strings.TrimSpace(strings.ReplaceAll(remaining, url, ""))
	}
	if remaining != "" {
		parts = append(parts, TextPart(remaining))
	}
	return NewFormattedParts(parts)
}

// formatItemsTextOnly replaces every binary item with a placeholder.
// No binary payload is ever emitted on this path.
func (cv converter) formatItemsTextOnly(items []pipe.ContentItem) []Part {
	var parts []Part
	for _, item := range items {
		switch item.Type {
		case "text":
			parts = append(parts, TextPart(item.Text))
		case "image_url":
			parts = append(parts, TextPart(placeholderImageDisabled))
		case "video_url":
			parts = append(parts, TextPart(placeholderVideoDisabled))
		}
	}
	return parts
}

func (cv converter) formatItem(item pipe.ContentItem) []Part {
	switch item.Type {
	case "text":
		if cv.autoDetectYouTube {
			return cv.formatText(item.Text).Parts()
		}
		return []Part{TextPart(item.Text)}
	case "image_url":
		if item.ImageURL == nil {
			return nil
		}
		return []Part{cv.formatImageURL(item.ImageURL.URL)}
	case "video_url":
		if item.VideoURL == nil {
			return nil
		}
		return []Part{cv.formatVideoURL(item.VideoURL)}
	default:
		return nil
	}
}

func (cv converter) formatImageURL(url string) Part {
	if strings.HasPrefix(url, "data:image") {
		mimeType, data, err := splitDataURI(url)
		if err != nil {
			slog.Error("error processing image", "error", err)
			return TextPart(placeholderImageError)
		}
		return InlineDataPart(mimeType, data)
	}
	// Remote images are not fetched or transcoded on this path.
	return TextPart("[Image URL: " + url + "]")
}

func (cv converter) formatVideoURL(video *pipe.VideoURL) Part {
	switch {
	case IsYouTubeURL(video.URL):
		slog.Info("added youtube video", "url", video.URL)
		return cv.videoRefPart(video.URL, video.VideoMetadata)
	case strings.HasPrefix(video.URL, "data:video"):
		mimeType, data, err := splitDataURI(video.URL)
		if err != nil {
			slog.Error("error processing video", "error", err)
			return TextPart(placeholderVideoError)
		}
		part := InlineDataPart(mimeType, data)
		part.VideoMetadata = video.VideoMetadata
		return part
	default:
		return TextPart("[Video URL: " + video.URL + "]")
	}
}

// videoRefPart builds a by-reference video part. The default frame rate of
// 1.0 fps is the API's own default and is left implicit; caller-supplied
// metadata wins over the configured rate.
func (cv converter) videoRefPart(url string, metadata map[string]any) Part {
	part := FileDataPart(url)
	if metadata != nil {
		part.VideoMetadata = metadata
	} else if cv.videoFPS != 0 && cv.videoFPS != 1.0 {
		part.VideoMetadata = map[string]any{"fps": cv.videoFPS}
	}
	return part
}

// splitDataURI splits a data: URI at the first comma and parses the MIME
// type out of the header segment.
func splitDataURI(uri string) (mimeType, data string, err error) {
	header, payload, found := strings.Cut(uri, ",")
	if !found {
		return "", "", &DecodeError{Err: errMalformedDataURI}
	}
	meta := strings.TrimPrefix(header, "data:")
	mimeType, _, _ = strings.Cut(meta, ";")
	if mimeType == "" {
		return "", "", &DecodeError{Err: errMalformedDataURI}
	}
	return mimeType, payload, nil
}
