package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ntnxnam/ndb-weekly-status/internal/domain"
	"github.com/ntnxnam/ndb-weekly-status/internal/ports"
)

// ReportDeps wires the report-generation workflow.
type ReportDeps struct {
	Source     ports.WorkItemSource
	Enricher   *Enricher
	Repository ports.ReportRepository
	Notifier   ports.Notifier
	Logger     *slog.Logger
}

// Report implements the weekly status workflow: query the tracker, enrich
// every item with classified wiki links, assemble rows, persist history,
// and publish a digest. Repository and Notifier are optional.
type Report struct {
	source     ports.WorkItemSource
	enricher   *Enricher
	repository ports.ReportRepository
	notifier   ports.Notifier
	logger     *slog.Logger

	jql        string
	maxResults int
}

// NewReport constructs the workflow for a fixed tracker query.
func NewReport(deps ReportDeps, jql string, maxResults int) *Report {
	return &Report{
		source:     deps.Source,
		enricher:   deps.Enricher,
		repository: deps.Repository,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
		jql:        jql,
		maxResults: maxResults,
	}
}

// Generate produces the full report for one run.
func (r *Report) Generate(ctx context.Context, now time.Time) ([]domain.ReportRow, error) {
	if r.source == nil || r.enricher == nil {
		return nil, fmt.Errorf("report workflow is not wired")
	}

	items, err := r.source.Search(ctx, r.jql, r.maxResults)
	if err != nil {
		return nil, fmt.Errorf("search work items: %w", err)
	}
	r.info("work items fetched", "count", len(items))

	enriched := r.enricher.Enrich(ctx, items)
	rows := AssembleRows(items, enriched)

	if r.repository != nil {
		if err := r.repository.SaveRows(ctx, now, rows); err != nil {
			return nil, fmt.Errorf("persist report: %w", err)
		}
	}

	if r.notifier != nil {
		if err := r.notifier.PublishDigest(ctx, BuildDigest(rows, now)); err != nil {
			return nil, fmt.Errorf("publish digest: %w", err)
		}
	}

	return rows, nil
}

// AssembleRows joins work items with their enrichment results, preserving
// the tracker's item order. Items missing from the enrichment map still get
// a row with empty link lists.
func AssembleRows(items []domain.WorkItem, enriched map[string]domain.EnrichmentResult) []domain.ReportRow {
	rows := make([]domain.ReportRow, 0, len(items))
	for _, item := range items {
		result := enriched[item.Key]
		rows = append(rows, domain.ReportRow{
			Key:         item.Key,
			Summary:     item.Summary,
			Status:      item.Status,
			Assignee:    item.Assignee,
			IssueType:   item.IssueType,
			StoryPoints: item.StoryPoints,
			CGLinks:     result.CGLinks,
			PGLinks:     result.PGLinks,
		})
	}
	return rows
}

// BuildDigest renders a plain-text summary of the run for the notifier.
func BuildDigest(rows []domain.ReportRow, now time.Time) string {
	var sb strings.Builder
	var points float64
	var withCG, withPG int

	for _, row := range rows {
		points += row.StoryPoints
		if len(row.CGLinks) > 0 {
			withCG++
		}
		if len(row.PGLinks) > 0 {
			withPG++
		}
	}

	fmt.Fprintf(&sb, "Weekly status %s: %d items, %.1f points, %d with CG links, %d with PG links\n",
		now.Format("2006-01-02"), len(rows), points, withCG, withPG)

	for _, row := range rows {
		fmt.Fprintf(&sb, "- %s [%s] %s (%s)\n", row.Key, row.Status, row.Summary, row.Assignee)
		for _, link := range row.CGLinks {
			fmt.Fprintf(&sb, "    CG: %s %s\n", link.Title, link.URL)
		}
		for _, link := range row.PGLinks {
			fmt.Fprintf(&sb, "    PG: %s %s\n", link.Title, link.URL)
		}
	}

	return sb.String()
}

func (r *Report) info(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Info(msg, args...)
	}
}
