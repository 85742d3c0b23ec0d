// Package youtube derives video IDs and thumbnail URLs from user input.
package youtube

import (
	"regexp"
	"strings"
)

var (
	videoIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

	// Recognizes youtu.be/<id>, watch?v=<id> (v anywhere in the query),
	// embed/<id>, /v/<id>, /e/<id>, shorts/<id>, and a generic
	// youtube.com/<seg>/<seg>/<id> fallback. The capture must be a full
	// 11-character ID terminated by a non-ID character or end of string.
	videoURLRegex = regexp.MustCompile(`(?i)(?:youtube\.com/(?:[^/]+/.+/|(?:v|e|embed)/|.*[?&]v=|shorts/)|youtu\.be/)([a-zA-Z0-9_-]{11})(?:[^a-zA-Z0-9_-]|$)`)
)

// ExtractVideoID parses a free-form string into a canonical 11-character
// video ID. A bare ID is returned verbatim. The second return is false when
// no ID can be extracted.
func ExtractVideoID(input string) (string, bool) {
	cleaned := strings.TrimSpace(input)
	if cleaned == "" {
		return "", false
	}

	if videoIDRegex.MatchString(cleaned) {
		return cleaned, true
	}

	match := videoURLRegex.FindStringSubmatch(cleaned)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// IsValidVideoID reports whether s is exactly one 11-character video ID.
func IsValidVideoID(s string) bool {
	return videoIDRegex.MatchString(s)
}

// WatchURL builds the canonical watch URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
