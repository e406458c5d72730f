package confluence

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ntnxnam/ndb-weekly-status/internal/domain"
	"github.com/ntnxnam/ndb-weekly-status/internal/ports"
)

// Resolver recovers wiki page titles and labels for link URLs.
// Resolution is best effort: every failure is absorbed and logged, and the
// caller always gets back whatever could still be extracted from the URL.
type Resolver struct {
	baseURL     string
	strategies  []AuthStrategy
	http        *http.Client
	logger      *slog.Logger
	titleRescue bool
}

var _ ports.PageResolver = (*Resolver)(nil)

// Option tweaks optional resolver behavior.
type Option func(*Resolver)

// WithHTMLTitleRescue lets the resolver salvage a <title> from an HTML body
// returned in place of JSON, instead of treating the response as a dead end.
// Login pages are still rejected.
func WithHTMLTitleRescue() Option {
	return func(r *Resolver) { r.titleRescue = true }
}

// NewResolver wires the metadata endpoint with an ordered strategy list.
func NewResolver(baseURL string, strategies []AuthStrategy, timeout time.Duration, logger *slog.Logger, opts ...Option) *Resolver {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	r := &Resolver{
		baseURL:    baseURL,
		strategies: strategies,
		http:       &http.Client{Timeout: timeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolvePage resolves title and labels for a wiki link URL.
// Never returns an error: network and auth failures degrade to the
// URL-pattern title, and the label set stays empty unless a metadata fetch
// succeeded.
func (r *Resolver) ResolvePage(ctx context.Context, rawURL string) domain.ResolvedPage {
	page := domain.ResolvedPage{PageID: ExtractPageID(rawURL)}

	if page.PageID != "" {
		if meta, ok := r.fetchMetadata(ctx, page.PageID); ok {
			page.Title = meta.Title
			page.Labels = meta.Labels
			return page
		}
	}

	page.Title = TitleFromURL(rawURL)
	return page
}

type pageMetadata struct {
	Title  string
	Labels []string
}

// fetchMetadata tries each configured auth strategy against the
// page-metadata endpoint until one yields a parseable JSON document.
func (r *Resolver) fetchMetadata(ctx context.Context, pageID string) (pageMetadata, bool) {
	endpoint := fmt.Sprintf("%s/rest/api/content/%s?expand=version,metadata.labels", r.baseURL, pageID)

	for _, strategy := range r.strategies {
		if !strategy.Configured() {
			continue
		}

		meta, err := r.attempt(ctx, endpoint, strategy)
		if err != nil {
			r.warn("metadata attempt failed", "page_id", pageID, "scheme", strategy.Name(), "error", err)
			continue
		}
		return meta, true
	}

	return pageMetadata{}, false
}

func (r *Resolver) attempt(ctx context.Context, endpoint string, strategy AuthStrategy) (pageMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return pageMetadata{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	strategy.Apply(req)

	resp, err := r.http.Do(req)
	if err != nil {
		return pageMetadata{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return pageMetadata{}, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return pageMetadata{}, fmt.Errorf("read body: %w", err)
	}

	// Expired sessions surface as an HTML login page with a 200 status.
	if isHTMLBody(resp.Header.Get("Content-Type"), body) {
		if r.titleRescue {
			if title, ok := titleFromHTML(body); ok {
				return pageMetadata{Title: title}, nil
			}
		}
		return pageMetadata{}, fmt.Errorf("html body where json expected")
	}

	meta, err := decodeContent(body)
	if err != nil {
		return pageMetadata{}, fmt.Errorf("decode content: %w", err)
	}

	// A body without a title is malformed; the attempt did not resolve
	// anything usable, so fall through to the next strategy.
	if meta.Title == "" {
		return pageMetadata{}, fmt.Errorf("response missing title")
	}

	return meta, nil
}

func isHTMLBody(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	trimmed := strings.TrimSpace(string(body))
	return strings.HasPrefix(trimmed, "<")
}

var loginMarkers = []string{"log in", "login", "sign in"}

// titleFromHTML pulls the document title out of an HTML body, rejecting
// login pages.
func titleFromHTML(body []byte) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", false
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return "", false
	}

	lowered := strings.ToLower(title)
	for _, marker := range loginMarkers {
		if strings.Contains(lowered, marker) {
			return "", false
		}
	}

	return title, true
}

func (r *Resolver) warn(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
