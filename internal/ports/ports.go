package ports

import (
	"context"
	"time"

	"github.com/ntnxnam/ndb-weekly-status/internal/domain"
)

// WorkItemSource queries the issue tracker for the items a report covers.
type WorkItemSource interface {
	Search(ctx context.Context, jql string, maxResults int) ([]domain.WorkItem, error)
}

// LinkFetcher lists the remote links attached to a single work item.
// A missing remote-link resource is a valid empty result, not an error.
type LinkFetcher interface {
	FetchRemoteLinks(ctx context.Context, itemKey string) ([]domain.RemoteLink, error)
}

// PageResolver resolves wiki page metadata for a link URL, best effort.
// Implementations never fail the caller; on any error they return a
// ResolvedPage carrying whatever could still be recovered.
type PageResolver interface {
	ResolvePage(ctx context.Context, url string) domain.ResolvedPage
}

// LinkClassifier decides which checklist categories a link represents.
type LinkClassifier interface {
	Classify(resolvedTitle string, labels []string, rawTitle, url string) domain.CategorySet
}

// ReportRepository persists generated report rows for history.
type ReportRepository interface {
	SaveRows(ctx context.Context, generatedAt time.Time, rows []domain.ReportRow) error
	LatestRunAt(ctx context.Context) (time.Time, error)
}

// Notifier pushes a completed report digest to an outbound channel.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when report generation runs.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
