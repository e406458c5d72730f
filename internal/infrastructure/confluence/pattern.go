package confluence

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	pageIDQueryKey = "pageId"
	pageIDPathExpr = regexp.MustCompile(`/pages/(\d+)`)
	digitsExpr     = regexp.MustCompile(`^\d+$`)
)

// ExtractPageID pulls a wiki page id out of a link URL. Ordered attempts:
// the pageId query parameter, then the /pages/<id> path form. Returns ""
// when neither form matches.
func ExtractPageID(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	if id := parsed.Query().Get(pageIDQueryKey); id != "" && digitsExpr.MatchString(id) {
		return id
	}

	if match := pageIDPathExpr.FindStringSubmatch(parsed.Path); match != nil {
		return match[1]
	}

	return ""
}

// TitleFromURL recovers a human-readable title from a well-formed wiki URL:
// the path segment following the numeric page-id segment, percent-decoded,
// with the + and - separators replaced by spaces. Never fails; returns ""
// when the URL carries no title segment.
func TitleFromURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	var slug string
	for i, segment := range segments {
		if digitsExpr.MatchString(segment) && i+1 < len(segments) {
			slug = segments[i+1]
			break
		}
	}
	if slug == "" {
		return ""
	}

	decoded, err := url.PathUnescape(slug)
	if err != nil {
		decoded = slug
	}

	decoded = strings.ReplaceAll(decoded, "+", " ")
	decoded = strings.ReplaceAll(decoded, "-", " ")
	return strings.TrimSpace(decoded)
}
