package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/ntnxnam/ndb-weekly-status/internal/classifier"
	"github.com/ntnxnam/ndb-weekly-status/internal/config"
	"github.com/ntnxnam/ndb-weekly-status/internal/domain"
	"github.com/ntnxnam/ndb-weekly-status/internal/infrastructure/confluence"
	"github.com/ntnxnam/ndb-weekly-status/internal/infrastructure/jira"
	"github.com/ntnxnam/ndb-weekly-status/internal/infrastructure/notify"
	"github.com/ntnxnam/ndb-weekly-status/internal/infrastructure/scheduler"
	"github.com/ntnxnam/ndb-weekly-status/internal/infrastructure/storage"
	"github.com/ntnxnam/ndb-weekly-status/internal/logging"
	"github.com/ntnxnam/ndb-weekly-status/internal/ports"
	"github.com/ntnxnam/ndb-weekly-status/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	report *usecase.Report
	db     *sql.DB
	logger *slog.Logger
}

// New builds a runnable application instance from configuration.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	tracker := jira.NewClient(cfg.Jira.BaseURL, cfg.Jira.Token, cfg.Jira.Timeout.Std(),
		baseLogger.With("component", "jira"))

	strategies := []confluence.AuthStrategy{
		confluence.BasicAuth{User: cfg.Confluence.User, APIToken: cfg.Confluence.APIToken},
		confluence.BearerAuth{Token: cfg.Confluence.Token},
	}
	var resolverOpts []confluence.Option
	if cfg.Confluence.TitleRescue {
		resolverOpts = append(resolverOpts, confluence.WithHTMLTitleRescue())
	}
	resolver := confluence.NewResolver(cfg.Confluence.BaseURL, strategies, cfg.Confluence.Timeout.Std(),
		baseLogger.With("component", "confluence"), resolverOpts...)

	links := classifier.New()
	if cfg.Enrichment.LabelSignal {
		links = links.WithLabelSignal()
	}

	enricher := usecase.NewEnricher(usecase.EnricherDeps{
		Fetcher:    tracker,
		Resolver:   resolver,
		Classifier: links,
		WikiFilter: jira.FilterWikiLinks,
		Logger:     baseLogger.With("component", "enricher"),
	}, cfg.Enrichment)

	var db *sql.DB
	var repository ports.ReportRepository
	if cfg.Database.DSN != "" {
		opened, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		db = opened
		repository = storage.NewPostgresRepository(db)
	}

	var notifier ports.Notifier
	if cfg.Webhook.URL != "" {
		notifier = notify.NewWebhookNotifier(cfg.Webhook.URL)
	}

	report := usecase.NewReport(usecase.ReportDeps{
		Source:     tracker,
		Enricher:   enricher,
		Repository: repository,
		Notifier:   notifier,
		Logger:     baseLogger.With("component", "report"),
	}, cfg.Jira.JQL, cfg.Jira.MaxResults)

	return &Application{cfg: cfg, report: report, db: db, logger: baseLogger}, nil
}

// RunOnce generates a single report and returns the assembled rows.
func (a *Application) RunOnce(ctx context.Context) ([]domain.ReportRow, error) {
	now := time.Now().In(a.cfg.Scheduler.Location())
	return a.report.Generate(ctx, now)
}

// Watch runs the report on the configured interval until ctx is done.
func (a *Application) Watch(ctx context.Context) error {
	driver := scheduler.NewTickerScheduler(a.cfg.Scheduler.Interval.Std())
	runner := usecase.NewScheduler(driver, a.report)

	if err := runner.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	return runner.Stop(context.Background())
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
