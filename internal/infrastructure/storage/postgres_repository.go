package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/ntnxnam/ndb-weekly-status/internal/domain"
	"github.com/ntnxnam/ndb-weekly-status/internal/ports"
)

// PostgresRepository persists generated report rows for week-over-week
// history.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ReportRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveRows inserts one snapshot row per report row for the given run.
// Link lists are flattened into url arrays per category.
func (r *PostgresRepository) SaveRows(ctx context.Context, generatedAt time.Time, rows []domain.ReportRow) error {
	if r.db == nil || len(rows) == 0 {
		return nil
	}

	insert := r.builder.
		Insert("report_rows").
		Columns("generated_at", "item_key", "summary", "status", "assignee", "issue_type", "story_points", "cg_links", "pg_links")

	for _, row := range rows {
		insert = insert.Values(
			generatedAt,
			row.Key,
			row.Summary,
			row.Status,
			row.Assignee,
			row.IssueType,
			row.StoryPoints,
			pq.StringArray(linkURLs(row.CGLinks)),
			pq.StringArray(linkURLs(row.PGLinks)),
		)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert report rows: %w", err)
	}

	return nil
}

// LatestRunAt returns the timestamp of the most recent persisted run, or the
// zero time when no run exists yet.
func (r *PostgresRepository) LatestRunAt(ctx context.Context) (time.Time, error) {
	if r.db == nil {
		return time.Time{}, nil
	}

	query, args, err := r.builder.
		Select("MAX(generated_at)").
		From("report_rows").
		ToSql()
	if err != nil {
		return time.Time{}, fmt.Errorf("build select: %w", err)
	}

	var latest sql.NullTime
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&latest); err != nil {
		return time.Time{}, fmt.Errorf("query latest run: %w", err)
	}

	if !latest.Valid {
		return time.Time{}, nil
	}
	return latest.Time, nil
}

func linkURLs(links []domain.CategoryLink) []string {
	urls := make([]string, 0, len(links))
	for _, link := range links {
		urls = append(urls, link.URL)
	}
	return urls
}
