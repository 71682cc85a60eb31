package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"khabar/internal/category"
	"khabar/internal/config"
	"khabar/internal/dedup"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testOptions() Options {
	cat := category.New([]category.Category{
		{Label: "سیاسی", Emoji: "🏛️", Keywords: []string{"دولت", "انتخابات"}},
		{Label: "ورزشی", Emoji: "⚽", Keywords: []string{"تیم", "مسابقه", "فوتبال"}},
	}, category.Category{Label: "عمومی", Emoji: "📰"})

	return Options{
		MinTitleLength:   10,
		MaxTitleLength:   100,
		MaxSummaryLength: 200,
		PerSourceLimit:   5,
		BlockedKeywords:  []string{"تبلیغات"},
		Categorizer:      cat,
		Now:              func() time.Time { return fixedNow },
	}
}

func rssSource(name, url string) config.SourceConfig {
	return config.SourceConfig{Name: name, URL: url, Kind: "rss", Enabled: true}
}

func rssItem(title, link, pubDate string) string {
	return fmt.Sprintf(`<item><title>%s</title><description>توضیح کوتاه</description><link>%s</link><pubDate>%s</pubDate></item>`, title, link, pubDate)
}

func rssFeed(items ...string) string {
	body := `<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>فید آزمایشی</title>`
	for _, it := range items {
		body += it
	}
	return body + `</channel></rss>`
}

func serveBody(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRSSFetcherAcceptsAndCategorizes(t *testing.T) {
	srv := serveBody(t, rssFeed(
		rssItem("تیم ملی قهرمان مسابقه شد", "https://example.com/sport", "Mon, 02 Jun 2025 10:00:00 GMT"),
	))

	f := NewRSS(rssSource("آزمایشی", srv.URL), srv.Client(), testOptions())
	items, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}

	it := items[0]
	if it.Category != "ورزشی" {
		t.Errorf("Category = %q, want ورزشی", it.Category)
	}
	if it.Source != "آزمایشی" {
		t.Errorf("Source = %q", it.Source)
	}
	if it.Fingerprint == "" {
		t.Error("fingerprint not assigned")
	}
	want := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	if !it.PublishedAt.Equal(want) {
		t.Errorf("PublishedAt = %v, want feed timestamp %v", it.PublishedAt, want)
	}
}

func TestRSSFetcherRejectsShortTitle(t *testing.T) {
	srv := serveBody(t, rssFeed(
		rssItem("ab", "https://example.com/short", "Mon, 02 Jun 2025 10:00:00 GMT"),
	))

	f := NewRSS(rssSource("آزمایشی", srv.URL), srv.Client(), testOptions())
	items, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("title below minimum length must be rejected, got %d items", len(items))
	}
}

func TestRSSFetcherRejectsBlockedKeyword(t *testing.T) {
	srv := serveBody(t, rssFeed(
		rssItem("تبلیغات ویژه فروشگاه بزرگ شهر", "https://example.com/ad", "Mon, 02 Jun 2025 10:00:00 GMT"),
	))

	f := NewRSS(rssSource("آزمایشی", srv.URL), srv.Client(), testOptions())
	items, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("blocklisted item must be rejected regardless of length or category, got %d", len(items))
	}
}

func TestRSSFetcherSkipsDeliveredFingerprints(t *testing.T) {
	title := "تیم ملی قهرمان مسابقه شد"
	link := "https://example.com/sport"
	srv := serveBody(t, rssFeed(rssItem(title, link, "Mon, 02 Jun 2025 10:00:00 GMT")))

	opts := testOptions()
	delivered := dedup.Fingerprint(title, link)
	opts.IsDelivered = func(fp string) bool { return fp == delivered }

	f := NewRSS(rssSource("آزمایشی", srv.URL), srv.Client(), opts)
	items, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("already delivered item must be rejected, got %d items", len(items))
	}
}

func TestRSSFetcherCapsEntriesPerSource(t *testing.T) {
	var entries []string
	for i := 0; i < 8; i++ {
		entries = append(entries, rssItem(
			fmt.Sprintf("خبر شماره %d از فید آزمایشی", i),
			fmt.Sprintf("https://example.com/%d", i),
			"Mon, 02 Jun 2025 10:00:00 GMT",
		))
	}
	srv := serveBody(t, rssFeed(entries...))

	f := NewRSS(rssSource("آزمایشی", srv.URL), srv.Client(), testOptions())
	items, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 5 {
		t.Errorf("got %d items, want first 5 entries only", len(items))
	}
	// First-N in feed order, not re-sorted.
	if items[0].URL != "https://example.com/0" {
		t.Errorf("first item = %s, want the feed's first entry", items[0].URL)
	}
}

func TestRSSFetcherTopicRestriction(t *testing.T) {
	srv := serveBody(t, rssFeed(
		rssItem("تیم ملی قهرمان مسابقه شد", "https://example.com/sport", "Mon, 02 Jun 2025 10:00:00 GMT"),
		rssItem("دولت لایحه جدید را تصویب کرد", "https://example.com/politics", "Mon, 02 Jun 2025 11:00:00 GMT"),
	))

	src := rssSource("ورزشی‌خوان", srv.URL)
	src.Topic = "ورزشی"
	f := NewRSS(src, srv.Client(), testOptions())
	items, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want only the sports item", len(items))
	}
	if items[0].Category != "ورزشی" {
		t.Errorf("Category = %q", items[0].Category)
	}
}

func TestRSSFetcherServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	f := NewRSS(rssSource("خراب", srv.URL), srv.Client(), testOptions())
	items, err := f.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected a source-scoped error for status 500")
	}
	if len(items) != 0 {
		t.Errorf("failed source must yield no items, got %d", len(items))
	}
}

func TestRSSFetcherMalformedPayload(t *testing.T) {
	srv := serveBody(t, "this is not a feed at all")

	f := NewRSS(rssSource("خراب", srv.URL), srv.Client(), testOptions())
	if _, err := f.Fetch(context.Background()); err == nil {
		t.Fatal("expected parse error for malformed payload")
	}
}

func TestRSSFetcherMissingTimestampFallsBackToFetchTime(t *testing.T) {
	srv := serveBody(t, rssFeed(
		`<item><title>خبری بدون زمان انتشار معتبر</title><link>https://example.com/nodate</link></item>`,
	))

	f := NewRSS(rssSource("آزمایشی", srv.URL), srv.Client(), testOptions())
	items, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if !items[0].PublishedAt.Equal(fixedNow) {
		t.Errorf("PublishedAt = %v, want fetch time %v", items[0].PublishedAt, fixedNow)
	}
}

func TestAPIFetcher(t *testing.T) {
	body := `{"articles": [
		{"title": "دولت بودجه سال آینده را اعلام کرد", "description": "جزئیات بودجه", "url": "https://example.com/api1", "publishedAt": "2025-06-02T08:30:00Z"},
		{"title": "خبر دوم بدون زمان انتشار", "description": "", "url": "https://example.com/api2", "publishedAt": "not-a-time"},
		{"title": "ab", "description": "", "url": "https://example.com/api3", "publishedAt": "2025-06-02T09:00:00Z"}
	]}`
	srv := serveBody(t, body)

	src := config.SourceConfig{Name: "سرخط", URL: srv.URL, Kind: "api", Enabled: true}
	f := NewAPI(src, srv.Client(), testOptions())
	items, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 (short title rejected)", len(items))
	}

	if items[0].Category != "سیاسی" {
		t.Errorf("Category = %q, want سیاسی", items[0].Category)
	}
	want := time.Date(2025, 6, 2, 8, 30, 0, 0, time.UTC)
	if !items[0].PublishedAt.Equal(want) {
		t.Errorf("PublishedAt = %v, want %v", items[0].PublishedAt, want)
	}
	if !items[1].PublishedAt.Equal(fixedNow) {
		t.Errorf("unparseable timestamp must fall back to fetch time, got %v", items[1].PublishedAt)
	}
}

func TestAPIFetcherBadJSON(t *testing.T) {
	srv := serveBody(t, "{not json")

	src := config.SourceConfig{Name: "سرخط", URL: srv.URL, Kind: "api", Enabled: true}
	f := NewAPI(src, srv.Client(), testOptions())
	if _, err := f.Fetch(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}
