package gemini

import "regexp"

// youtubeURLPatterns covers the watch, short, embed, and /v/ URL forms.
var youtubeURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`https?://(?:www\.)?youtube\.com/watch\?v=[\w-]+`),
	regexp.MustCompile(`https?://youtu\.be/[\w-]+`),
	regexp.MustCompile(`https?://(?:www\.)?youtube\.com/embed/[\w-]+`),
	regexp.MustCompile(`https?://(?:www\.)?youtube\.com/v/[\w-]+`),
}

// DetectYouTubeURLs extracts all YouTube URLs from text, grouped by pattern
// in the order the patterns are defined.
func DetectYouTubeURLs(text string) []string {
	var urls []string
	for _, pattern := range youtubeURLPatterns {
		urls = append(urls, pattern.FindAllString(text, -1)...)
	}
	return urls
}

// IsYouTubeURL reports whether the URL points at a YouTube video.
func IsYouTubeURL(url string) bool {
	for _, pattern := range youtubeURLPatterns {
		if pattern.MatchString(url) {
			return true
		}
	}
	return false
}
