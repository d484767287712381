// Package routepath tokenizes URL paths and route patterns into their
// segment form.
//
// A path is split on "/" into non-empty, URL-decoded segments. Leading,
// trailing, and duplicate slashes never affect the result:
//
//	routepath.Split("/hello//world/") // []string{"hello", "world"}
//
// Patterns use the same segment form, with two special segment shapes:
// ":name" captures the corresponding request segment under "name", and a
// final bare "*" matches any remaining suffix.
package routepath

import (
	"net/url"
	"strings"
)

// Wildcard is the pattern segment that matches any remaining path suffix.
// It is only valid as the final segment of a pattern.
const Wildcard = "*"

// captureMarker prefixes a pattern segment that binds a named capture.
const captureMarker = ':'

// Split tokenizes a raw URL path into its segment sequence.
// Empty segments are dropped, so duplicate, leading, and trailing slashes
// all normalize away. Each segment is URL-decoded; a segment with a
// malformed escape is kept verbatim. Any input produces a valid (possibly
// empty) sequence.
func Split(path string) []string {
	var parts []string
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		if decoded, err := url.PathUnescape(seg); err == nil {
			seg = decoded
		}
		parts = append(parts, seg)
	}
	return parts
}

// IsCapture reports whether a pattern segment binds a named capture.
func IsCapture(seg string) bool {
	return len(seg) > 0 && seg[0] == captureMarker
}

// CaptureName returns the capture name of a ":name" pattern segment.
func CaptureName(seg string) string {
	return seg[1:]
}
