package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ntnxnam/ndb-weekly-status/internal/domain"
	"github.com/ntnxnam/ndb-weekly-status/internal/ports"
)

// Client talks to the issue tracker REST API for item search and remote links.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

var _ ports.WorkItemSource = (*Client)(nil)
var _ ports.LinkFetcher = (*Client)(nil)

// NewClient creates a reusable tracker client; timeout defaults to 10s.
func NewClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Search runs a JQL query and decodes the matched items.
func (c *Client) Search(ctx context.Context, jql string, maxResults int) ([]domain.WorkItem, error) {
	if maxResults <= 0 {
		maxResults = 50
	}

	query := url.Values{}
	query.Set("jql", jql)
	query.Set("maxResults", strconv.Itoa(maxResults))
	query.Set("fields", "summary,status,assignee,issuetype,"+storyPointFields)

	var payload searchResponse
	status, err := c.get(ctx, "/rest/api/2/search?"+query.Encode(), &payload)
	if err != nil {
		return nil, fmt.Errorf("search issues: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("search issues: unexpected status %d", status)
	}

	items := make([]domain.WorkItem, 0, len(payload.Issues))
	for _, issue := range payload.Issues {
		items = append(items, decodeIssue(issue))
	}

	c.debug("search done", "jql", jql, "items", len(items))
	return items, nil
}

// FetchRemoteLinks lists the remote links attached to one work item.
// A 404 means the item has no remote-link resource and yields an empty slice.
func (c *Client) FetchRemoteLinks(ctx context.Context, itemKey string) ([]domain.RemoteLink, error) {
	if itemKey == "" {
		return nil, fmt.Errorf("fetch remote links: empty item key")
	}

	var payload []remoteLinkEntry
	status, err := c.get(ctx, "/rest/api/2/issue/"+url.PathEscape(itemKey)+"/remotelink", &payload)
	if err != nil {
		return nil, fmt.Errorf("fetch remote links %s: %w", itemKey, err)
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("fetch remote links %s: unexpected status %d", itemKey, status)
	}

	links := make([]domain.RemoteLink, 0, len(payload))
	for _, entry := range payload {
		if entry.Object.URL == "" {
			continue
		}
		links = append(links, domain.RemoteLink{
			URL:          entry.Object.URL,
			Title:        entry.Object.Title,
			Relationship: entry.Relationship,
		})
	}

	return links, nil
}

// get issues the request and decodes a JSON body for 2xx responses.
// The status code is returned so callers can special-case 404.
func (c *Client) get(ctx context.Context, path string, v any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}

	return resp.StatusCode, nil
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
