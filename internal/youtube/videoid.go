// Package youtube recovers YouTube video identifiers from arbitrary URL shapes.
package youtube

import (
	"net/url"
	"strings"
)

const (
	hostLong  = "youtube.com"
	hostShort = "youtu.be"
)

// ExtractVideoID returns the video identifier carried by rawURL.
//
// Supported shapes:
//   - https://www.youtube.com/watch?v=VIDEO_ID
//   - https://www.youtube.com/embed/VIDEO_ID (last path segment)
//   - https://youtu.be/VIDEO_ID (first path segment)
//
// Hosts are matched by case-sensitive substring so subdomains such as
// m.youtube.com work. Surrounding whitespace and control characters are
// trimmed and embedded tabs and line breaks removed before parsing.
// Path segments are taken undecoded. Empty, malformed or unrelated input
// reports false; it never fails.
func ExtractVideoID(rawURL string) (string, bool) {
	if rawURL == "" {
		return "", false
	}

	parsed, err := url.Parse(sanitize(rawURL))
	if err != nil {
		return "", false
	}

	host := parsed.Host

	switch {
	case strings.Contains(host, hostLong):
		if id := firstQueryValue(parsed.RawQuery, "v"); id != "" {
			return id, true
		}

		// Some historical forms put the identifier at the end of the path.
		// Paths without one (e.g. /channel/UCx/videos) still yield their last segment.
		segments := pathSegments(parsed.EscapedPath())
		if last := segments[len(segments)-1]; last != "" {
			return last, true
		}

		return "", false

	case strings.Contains(host, hostShort):
		if first := pathSegments(parsed.EscapedPath())[0]; first != "" {
			return first, true
		}
	}

	return "", false
}

var lineBreaks = strings.NewReplacer("\t", "", "\r", "", "\n", "")

// sanitize drops tabs and line breaks anywhere, then trims spaces and C0
// control characters from both ends.
func sanitize(rawURL string) string {
	return strings.TrimFunc(lineBreaks.Replace(rawURL), func(r rune) bool {
		return r <= ' '
	})
}

// firstQueryValue returns the first non-empty value of key. Blank values are
// skipped and malformed pairs are ignored.
func firstQueryValue(rawQuery, key string) string {
	values, _ := url.ParseQuery(rawQuery)
	for _, v := range values[key] {
		if v != "" {
			return v
		}
	}

	return ""
}

// pathSegments trims surrounding slashes and splits on "/". The result always
// has at least one element, which is empty for an empty path.
func pathSegments(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}
