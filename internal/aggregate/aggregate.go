// Package aggregate fans out one fetch per enabled source and merges the
// results into a single ordered, bounded batch.
package aggregate

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"khabar/internal/fetch"
	"khabar/internal/metrics"
	"khabar/internal/news"
)

// Collect dispatches every fetcher concurrently, waits for all to finish,
// merges surviving items in dispatch order, sorts by recency (stable, so
// equal timestamps keep dispatch order) and truncates to maxItems.
//
// A failing source is logged and contributes nothing; it never reduces
// what healthy sources contribute and never fails the collection. An empty
// result is a normal outcome.
func Collect(ctx context.Context, fetchers []fetch.Fetcher, maxItems int) []news.Item {
	results := make([][]news.Item, len(fetchers))

	var wg sync.WaitGroup
	for i, f := range fetchers {
		wg.Add(1)
		go func(i int, f fetch.Fetcher) {
			defer wg.Done()
			items, err := f.Fetch(ctx)
			if err != nil {
				slog.Warn("source fetch failed", "source", f.Name(), "error", err)
				metrics.Global.IncrementSourcesFailed()
				return
			}
			slog.Debug("source fetched", "source", f.Name(), "items", len(items))
			results[i] = items
		}(i, f)
	}
	wg.Wait()

	var merged []news.Item
	for _, items := range results {
		merged = append(merged, items...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PublishedAt.After(merged[j].PublishedAt)
	})

	if maxItems > 0 && len(merged) > maxItems {
		merged = merged[:maxItems]
	}

	metrics.Global.AddItemsFetched(len(merged))
	return merged
}
