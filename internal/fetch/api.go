package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"khabar/internal/config"
	"khabar/internal/news"
)

// APIFetcher retrieves entries from a headline REST API. The endpoint is
// expected to answer a GET with a JSON body of the shape
//
//	{"articles": [{"title": ..., "description": ..., "url": ..., "publishedAt": ...}]}
//
// which is the common NewsAPI-style contract.
type APIFetcher struct {
	source config.SourceConfig
	client *http.Client
	opts   Options
}

type headlineArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

type headlineResponse struct {
	Articles []headlineArticle `json:"articles"`
}

// NewAPI builds a headline-API adapter for one source.
func NewAPI(source config.SourceConfig, client *http.Client, opts Options) *APIFetcher {
	return &APIFetcher{source: source, client: client, opts: opts}
}

// Name returns the configured source name.
func (f *APIFetcher) Name() string { return f.source.Name }

// Fetch issues one request to the headline endpoint and converts surviving
// articles into items. Headline APIs often return unreliable or missing
// timestamps; unparseable ones fall back to the fetch time.
func (f *APIFetcher) Fetch(ctx context.Context) ([]news.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.source.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("source %s: build request: %w", f.source.Name, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", f.source.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("source %s: status %d", f.source.Name, resp.StatusCode)
	}

	var body headlineResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("source %s: decode response: %w", f.source.Name, err)
	}

	entries := make([]rawEntry, 0, len(body.Articles))
	for _, a := range body.Articles {
		var published *time.Time
		if ts, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			published = &ts
		}
		entries = append(entries, rawEntry{
			Title:     a.Title,
			Summary:   a.Description,
			Link:      a.URL,
			Published: published,
		})
	}

	return buildItems(f.source, entries, f.opts), nil
}
