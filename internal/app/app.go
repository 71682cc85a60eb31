// Package app wires the pipeline together: registry, delivered-set store,
// fetchers, enricher and publisher, all held by one explicit context object
// instead of ambient globals.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"khabar/internal/aggregate"
	"khabar/internal/category"
	"khabar/internal/config"
	"khabar/internal/dedup"
	"khabar/internal/fetch"
	"khabar/internal/logger"
	"khabar/internal/metrics"
	"khabar/internal/news"
	"khabar/internal/publish"
	"khabar/internal/summarize"
	"khabar/internal/telegram"
)

// Pipeline is the per-run aggregation pipeline. Construct once, Run once;
// concurrent runs against the same store are the scheduler's problem to
// prevent.
type Pipeline struct {
	cfg         *config.Config
	sources     *config.Sources
	categorizer *category.Categorizer
	store       dedup.Store
	fetchers    []fetch.Fetcher
	enricher    *summarize.Enricher
	publisher   *publish.Publisher

	gemini *summarize.Client
}

// New builds the whole pipeline from configuration. Only construction
// failures are fatal: missing channel credentials, unreadable source
// config, unreachable store backend. Everything downstream is contained
// per source or per item.
func New(cfg *config.Config) (*Pipeline, error) {
	sources, err := config.LoadSources(cfg.SourcesConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load sources: %w", err)
	}

	categorizer := buildCategorizer(sources)

	store, err := buildStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("build delivered-set store: %w", err)
	}

	p := &Pipeline{
		cfg:         cfg,
		sources:     sources,
		categorizer: categorizer,
		store:       store,
	}

	client := &http.Client{Timeout: cfg.RequestTimeout}
	opts := fetch.Options{
		MinTitleLength:   cfg.MinTitleLength,
		MaxTitleLength:   cfg.MaxTitleLength,
		MaxSummaryLength: cfg.MaxSummaryLength,
		PerSourceLimit:   cfg.PerSourceLimit,
		BlockedKeywords:  sources.BlockedKeywords,
		Categorizer:      categorizer,
		IsDelivered:      store.IsDelivered,
	}
	for _, src := range sources.Enabled() {
		switch src.Kind {
		case "api":
			p.fetchers = append(p.fetchers, fetch.NewAPI(src, client, opts))
		default:
			p.fetchers = append(p.fetchers, fetch.NewRSS(src, client, opts))
		}
	}

	// Optional stage: a missing or broken summarizer never blocks the run.
	if cfg.GeminiAPIKey != "" {
		ai, err := summarize.NewClient(cfg.GeminiAPIKey)
		if err != nil {
			slog.Warn("summarizer unavailable, continuing without enrichment", "error", err)
		} else {
			p.gemini = ai
			p.enricher = summarize.NewEnricher(ai, cfg.MaxSummaryRequests, cfg.MaxSummaryLength)
		}
	}

	sender := telegram.New(cfg.TelegramToken, cfg.TelegramChatID, cfg.RequestTimeout, cfg.RetryAttempts, cfg.RetryDelay)
	p.publisher = publish.New(sender, store, categorizer, cfg.InterPostDelay)

	return p, nil
}

// Run executes one fetch, aggregate, enrich, publish cycle and returns the
// run report. A run with nothing to publish is a normal completion.
func (p *Pipeline) Run(ctx context.Context) (news.Report, error) {
	log := logger.With("pipeline")

	start := time.Now()
	defer func() {
		metrics.Global.RecordRunDuration(time.Since(start))
		metrics.Global.SetLastRun()
	}()

	if err := p.store.Load(); err != nil {
		return news.Report{}, fmt.Errorf("load delivered-set: %w", err)
	}

	items := aggregate.Collect(ctx, p.fetchers, p.cfg.MaxItemsPerRun)
	log.Info("fetch phase complete", "sources", len(p.fetchers), "items", len(items))

	if len(items) == 0 {
		log.Info("nothing to publish")
		return news.Report{}, nil
	}

	if p.enricher != nil {
		for i := range items {
			items[i] = p.enricher.Enrich(ctx, items[i])
		}
	}

	report := p.publisher.Publish(ctx, items)

	if err := p.store.Save(); err != nil {
		return report, fmt.Errorf("flush delivered-set: %w", err)
	}

	return report, nil
}

// Close releases external resources.
func (p *Pipeline) Close() {
	if p.gemini != nil {
		p.gemini.Close()
	}
	if p.store != nil {
		if err := p.store.Close(); err != nil {
			slog.Warn("closing delivered-set store", "error", err)
		}
	}
}

func buildCategorizer(sources *config.Sources) *category.Categorizer {
	cats := make([]category.Category, 0, len(sources.Categories))
	for _, c := range sources.Categories {
		cats = append(cats, category.Category{
			Label:    c.Label,
			Emoji:    c.Emoji,
			Keywords: c.Keywords,
		})
	}
	fallback := category.Category{
		Label: sources.Fallback.Label,
		Emoji: sources.Fallback.Emoji,
	}
	return category.New(cats, fallback)
}
