package jira

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSearchDecodesIssues(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/2/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tracker-token" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		if r.URL.Query().Get("jql") != "project = ERA" {
			t.Errorf("unexpected jql %q", r.URL.Query().Get("jql"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"issues": [
				{
					"key": "FEAT-18289",
					"fields": {
						"summary": "Provision flow",
						"status": {"name": "In Progress"},
						"issuetype": {"name": "Feature"},
						"assignee": {"displayName": "Priya N", "name": "priya"},
						"customfield_10002": 8
					}
				},
				{
					"key": "FEAT-18290",
					"fields": {
						"summary": "Cleanup",
						"status": {"name": "Done"},
						"assignee": {"name": "sam"},
						"customfield_10004": 3
					}
				}
			]
		}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "tracker-token", time.Second, nil)
	items, err := c.Search(context.Background(), "project = ERA", 50)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	first := items[0]
	if first.Key != "FEAT-18289" || first.Status != "In Progress" || first.Assignee != "Priya N" {
		t.Fatalf("unexpected first item: %+v", first)
	}
	if first.StoryPoints != 8 {
		t.Fatalf("unexpected story points: %v", first.StoryPoints)
	}
	if first.IssueType != "Feature" {
		t.Fatalf("unexpected issue type: %s", first.IssueType)
	}

	second := items[1]
	if second.Assignee != "sam" {
		t.Fatalf("expected assignee name fallback, got %q", second.Assignee)
	}
	if second.StoryPoints != 3 {
		t.Fatalf("expected secondary story point field, got %v", second.StoryPoints)
	}
}

func TestFetchRemoteLinks(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/2/issue/FEAT-1/remotelink" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"relationship": "mentioned in", "object": {"url": "https://confluence.example.com/pages/1/A", "title": "A"}},
			{"relationship": "links to", "object": {"url": "", "title": "empty"}},
			{"object": {"url": "https://github.com/org/repo/pull/5", "title": "PR"}}
		]`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "tracker-token", time.Second, nil)
	links, err := c.FetchRemoteLinks(context.Background(), "FEAT-1")
	if err != nil {
		t.Fatalf("FetchRemoteLinks error: %v", err)
	}

	if len(links) != 2 {
		t.Fatalf("expected 2 links (empty url dropped), got %d", len(links))
	}
	if links[0].Relationship != "mentioned in" || links[0].Title != "A" {
		t.Fatalf("unexpected first link: %+v", links[0])
	}
}

func TestFetchRemoteLinksNotFoundIsEmpty(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(server.URL, "tracker-token", time.Second, nil)
	links, err := c.FetchRemoteLinks(context.Background(), "FEAT-3")
	if err != nil {
		t.Fatalf("expected nil error on 404, got %v", err)
	}
	if len(links) != 0 {
		t.Fatalf("expected no links, got %d", len(links))
	}
}

func TestFetchRemoteLinksErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := NewClient(server.URL, "tracker-token", time.Second, nil)
	if _, err := c.FetchRemoteLinks(context.Background(), "FEAT-4"); err == nil {
		t.Fatal("expected error on 403")
	}

	if _, err := c.FetchRemoteLinks(context.Background(), ""); err == nil {
		t.Fatal("expected error on empty key")
	}
}

func TestFetchRemoteLinksMalformedBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>login</html>`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "tracker-token", time.Second, nil)
	if _, err := c.FetchRemoteLinks(context.Background(), "FEAT-5"); err == nil {
		t.Fatal("expected error on non-json body")
	}
}
