package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ntnxnam/ndb-weekly-status/internal/config"
	"github.com/ntnxnam/ndb-weekly-status/internal/domain"
	"github.com/ntnxnam/ndb-weekly-status/internal/ports"
)

const (
	defaultBatchSize       = 10
	defaultInterBatchDelay = 100 * time.Millisecond
	defaultInterLinkDelay  = 200 * time.Millisecond
)

// EnricherDeps wires the link pipeline collaborators.
type EnricherDeps struct {
	Fetcher    ports.LinkFetcher
	Resolver   ports.PageResolver
	Classifier ports.LinkClassifier
	// WikiFilter retains only wiki-origin links from a raw remote-link list.
	WikiFilter func([]domain.RemoteLink) []domain.RemoteLink
	Logger     *slog.Logger
}

// Enricher drives remote-link discovery, resolution, and classification
// across work items. Items are processed in fixed-size batches with fixed
// pacing delays; a single item's failure never aborts the batch.
type Enricher struct {
	fetcher    ports.LinkFetcher
	resolver   ports.PageResolver
	classifier ports.LinkClassifier
	wikiFilter func([]domain.RemoteLink) []domain.RemoteLink
	logger     *slog.Logger

	batchSize       int
	interBatchDelay time.Duration
	interLinkDelay  time.Duration
}

// NewEnricher constructs the orchestration component; zero-valued tunables
// fall back to the defaults (batch 10, 100ms/200ms pacing).
func NewEnricher(deps EnricherDeps, cfg config.EnrichmentConfig) *Enricher {
	e := &Enricher{
		fetcher:         deps.Fetcher,
		resolver:        deps.Resolver,
		classifier:      deps.Classifier,
		wikiFilter:      deps.WikiFilter,
		logger:          deps.Logger,
		batchSize:       cfg.BatchSize,
		interBatchDelay: resolveDelay(cfg.InterBatchDelay.Std(), defaultInterBatchDelay),
		interLinkDelay:  resolveDelay(cfg.InterLinkDelay.Std(), defaultInterLinkDelay),
	}
	if e.batchSize <= 0 {
		e.batchSize = defaultBatchSize
	}
	if e.wikiFilter == nil {
		e.wikiFilter = func(links []domain.RemoteLink) []domain.RemoteLink { return links }
	}
	return e
}

// Enrich processes all work items and returns one EnrichmentResult per item,
// keyed by work-item key. Within a batch item fetches run concurrently;
// link resolution inside one item is strictly sequential in input order.
// The map always holds an entry for every input item.
func (e *Enricher) Enrich(ctx context.Context, items []domain.WorkItem) map[string]domain.EnrichmentResult {
	results := make(map[string]domain.EnrichmentResult, len(items))
	var mu sync.Mutex

	for start := 0; start < len(items); start += e.batchSize {
		end := min(start+e.batchSize, len(items))

		g, gctx := errgroup.WithContext(ctx)
		for _, item := range items[start:end] {
			g.Go(func() error {
				result := e.enrichItem(gctx, item)
				mu.Lock()
				results[item.Key] = result
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()

		if end < len(items) {
			if err := sleepContext(ctx, e.interBatchDelay); err != nil {
				e.warn("enrichment interrupted", "error", err)
				e.fillMissing(items[end:], results)
				return results
			}
		}
	}

	return results
}

func (e *Enricher) enrichItem(ctx context.Context, item domain.WorkItem) domain.EnrichmentResult {
	result := domain.EnrichmentResult{WorkItemKey: item.Key}

	links, err := e.fetcher.FetchRemoteLinks(ctx, item.Key)
	if err != nil {
		// Fault isolation: the item surfaces with empty lists, the batch
		// carries on.
		e.warn("remote link fetch failed", "item", item.Key, "error", err)
		return result
	}

	wiki := e.wikiFilter(links)
	if len(wiki) == 0 {
		return result
	}

	classified := make([]domain.ClassifiedLink, 0, len(wiki))
	for i, link := range wiki {
		if i > 0 {
			if err := sleepContext(ctx, e.interLinkDelay); err != nil {
				break
			}
		}

		resolved := e.resolver.ResolvePage(ctx, link.URL)
		set := e.classifier.Classify(resolved.Title, resolved.Labels, link.Title, link.URL)
		classified = append(classified, domain.ClassifiedLink{
			Link:       link,
			Resolved:   resolved,
			Categories: set,
		})
	}

	for i, cl := range classified {
		entry := domain.CategoryLink{URL: cl.Link.URL, Title: displayTitle(cl, i)}
		if cl.Categories.CG {
			result.CGLinks = append(result.CGLinks, entry)
		}
		if cl.Categories.PG {
			result.PGLinks = append(result.PGLinks, entry)
		}
	}

	// Broadcast fallback: wiki links exist but none classified, so every
	// link goes into both category lists. Known trade-off: over-show
	// rather than hide.
	if result.CGLinks == nil && result.PGLinks == nil {
		for i, cl := range classified {
			entry := domain.CategoryLink{URL: cl.Link.URL, Title: broadcastTitle(cl, i)}
			result.CGLinks = append(result.CGLinks, entry)
			result.PGLinks = append(result.PGLinks, entry)
		}
	}

	return result
}

// displayTitle prefers the network-resolved title, then the raw link title,
// then a synthesized "Link N" placeholder (1-based position).
func displayTitle(cl domain.ClassifiedLink, index int) string {
	if cl.Resolved.Title != "" {
		return cl.Resolved.Title
	}
	if cl.Link.Title != "" {
		return cl.Link.Title
	}
	return fmt.Sprintf("Link %d", index+1)
}

// broadcastTitle is the variant used on the broadcast fallback path: an
// unresolved link gets a synthesized "Link N" placeholder, never its raw
// title, so the output makes clear nothing was confirmed about the page.
func broadcastTitle(cl domain.ClassifiedLink, index int) string {
	if cl.Resolved.Title != "" {
		return cl.Resolved.Title
	}
	return fmt.Sprintf("Link %d", index+1)
}

// fillMissing guarantees a result entry for items skipped by an interrupted
// run.
func (e *Enricher) fillMissing(items []domain.WorkItem, results map[string]domain.EnrichmentResult) {
	for _, item := range items {
		if _, ok := results[item.Key]; !ok {
			results[item.Key] = domain.EnrichmentResult{WorkItemKey: item.Key}
		}
	}
}

// resolveDelay maps a configured pacing value onto the effective one:
// zero means "use the default", negative disables pacing entirely.
func resolveDelay(configured, fallback time.Duration) time.Duration {
	if configured == 0 {
		return fallback
	}
	if configured < 0 {
		return 0
	}
	return configured
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Enricher) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
