package jira

import (
	"net/url"
	"strings"

	"github.com/ntnxnam/ndb-weekly-status/internal/domain"
)

// wikiHostMarkers identify wiki-service hostnames among remote links.
var wikiHostMarkers = []string{"confluence", "wiki"}

// wikiPathMarkers identify wiki page paths on shared hostnames.
var wikiPathMarkers = []string{"/wiki/", "/display/", "/pages/"}

// FilterWikiLinks keeps only links whose target URL points at the wiki
// service. Pure function; links with unparseable URLs are dropped.
func FilterWikiLinks(links []domain.RemoteLink) []domain.RemoteLink {
	var wiki []domain.RemoteLink
	for _, link := range links {
		if IsWikiURL(link.URL) {
			wiki = append(wiki, link)
		}
	}
	return wiki
}

// IsWikiURL reports whether a URL is wiki-origin by hostname marker or
// wiki-specific path segment.
func IsWikiURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return false
	}

	host := strings.ToLower(parsed.Host)
	for _, marker := range wikiHostMarkers {
		if strings.Contains(host, marker) {
			return true
		}
	}

	path := strings.ToLower(parsed.Path)
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	for _, marker := range wikiPathMarkers {
		if strings.Contains(path, marker) {
			return true
		}
	}

	return false
}
