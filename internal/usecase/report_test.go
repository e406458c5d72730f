package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntnxnam/ndb-weekly-status/internal/domain"
)

func TestAssembleRows(t *testing.T) {
	t.Parallel()

	workItems := []domain.WorkItem{
		{Key: "FEAT-1", Summary: "Provision flow", Status: "In Progress", Assignee: "Priya N", StoryPoints: 8},
		{Key: "FEAT-2", Summary: "Cleanup", Status: "Done"},
	}
	enriched := map[string]domain.EnrichmentResult{
		"FEAT-1": {
			WorkItemKey: "FEAT-1",
			CGLinks:     []domain.CategoryLink{{URL: "https://wiki/pages/1/A", Title: "CG Readiness"}},
		},
	}

	rows := AssembleRows(workItems, enriched)
	require.Len(t, rows, 2)

	assert.Equal(t, "FEAT-1", rows[0].Key)
	assert.Equal(t, "In Progress", rows[0].Status)
	assert.Len(t, rows[0].CGLinks, 1)
	assert.Nil(t, rows[0].PGLinks)

	// Items absent from the enrichment map still get a row.
	assert.Equal(t, "FEAT-2", rows[1].Key)
	assert.Nil(t, rows[1].CGLinks)
}

func TestBuildDigest(t *testing.T) {
	t.Parallel()

	rows := []domain.ReportRow{
		{
			Key: "FEAT-1", Summary: "Provision flow", Status: "In Progress",
			Assignee: "Priya N", StoryPoints: 8,
			CGLinks: []domain.CategoryLink{{URL: "https://wiki/pages/1/A", Title: "CG Readiness"}},
		},
		{Key: "FEAT-2", Summary: "Cleanup", Status: "Done", StoryPoints: 3},
	}

	digest := BuildDigest(rows, time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC))

	assert.True(t, strings.HasPrefix(digest, "Weekly status 2026-08-28: 2 items, 11.0 points, 1 with CG links, 0 with PG links"))
	assert.Contains(t, digest, "FEAT-1 [In Progress] Provision flow (Priya N)")
	assert.Contains(t, digest, "CG: CG Readiness https://wiki/pages/1/A")
	assert.Contains(t, digest, "FEAT-2 [Done] Cleanup")
}

type stubSource struct {
	items []domain.WorkItem
}

func (s *stubSource) Search(_ context.Context, _ string, _ int) ([]domain.WorkItem, error) {
	return s.items, nil
}

type recordingNotifier struct {
	digest string
}

func (r *recordingNotifier) PublishDigest(_ context.Context, digest string) error {
	r.digest = digest
	return nil
}

func TestReportGenerate(t *testing.T) {
	t.Parallel()

	source := &stubSource{items: []domain.WorkItem{{Key: "FEAT-1", Summary: "Provision flow"}}}
	fetcher := &stubFetcher{links: map[string][]domain.RemoteLink{
		"FEAT-1": {{URL: "https://confluence.example.com/pages/1/CG+Readiness"}},
	}}
	notifier := &recordingNotifier{}

	report := NewReport(ReportDeps{
		Source:   source,
		Enricher: newTestEnricher(fetcher, &stubResolver{}, fastConfig()),
		Notifier: notifier,
	}, "project = ERA", 50)

	rows, err := report.Generate(context.Background(), time.Now())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0].CGLinks, 1)
	assert.NotEmpty(t, notifier.digest)
}
