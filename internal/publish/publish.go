// Package publish is the delivery stage: strictly sequential, paced to the
// channel's rate limit, marking each item delivered only after a confirmed
// send.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"khabar/internal/category"
	"khabar/internal/dedup"
	"khabar/internal/metrics"
	"khabar/internal/news"
)

// Sender is the channel transport: one send operation against one channel.
type Sender interface {
	Send(ctx context.Context, text string, allowPreview bool) error
}

// Publisher delivers a batch of items one at a time.
type Publisher struct {
	sender      Sender
	store       dedup.Store
	categorizer *category.Categorizer
	limiter     *rate.Limiter

	now func() time.Time
}

// New builds a Publisher. interPostDelay is the enforced spacing between
// consecutive sends.
func New(sender Sender, store dedup.Store, categorizer *category.Categorizer, interPostDelay time.Duration) *Publisher {
	limit := rate.Inf
	if interPostDelay > 0 {
		limit = rate.Every(interPostDelay)
	}
	return &Publisher{
		sender:      sender,
		store:       store,
		categorizer: categorizer,
		limiter:     rate.NewLimiter(limit, 1),
		now:         time.Now,
	}
}

// Publish processes items strictly in order. Per item: re-check the
// delivered-set, format, send, and only after a confirmed send mark the
// fingerprint delivered. A failed send is recorded and the batch continues;
// the item stays un-delivered and eligible for the next run.
func (p *Publisher) Publish(ctx context.Context, items []news.Item) news.Report {
	report := news.Report{ItemsFetched: len(items)}

	for _, item := range items {
		// The fetch phase already filtered against the delivered-set;
		// this guards against duplicates within the batch itself.
		if p.store.IsDelivered(item.Fingerprint) {
			slog.Debug("skipping already delivered item", "fingerprint", item.Fingerprint)
			metrics.Global.IncrementDuplicatesFiltered()
			continue
		}

		if err := p.limiter.Wait(ctx); err != nil {
			report.Failures = append(report.Failures, news.ItemFailure{
				Fingerprint: item.Fingerprint,
				Reason:      fmt.Sprintf("canceled before send: %v", err),
			})
			continue
		}

		msg := p.Format(item)
		if err := p.sender.Send(ctx, msg, true); err != nil {
			slog.Warn("delivery failed", "title", item.Title, "error", err)
			metrics.Global.IncrementDeliveryFailures()
			report.Failures = append(report.Failures, news.ItemFailure{
				Fingerprint: item.Fingerprint,
				Reason:      err.Error(),
			})
			continue
		}

		if err := p.store.MarkDelivered(item); err != nil {
			// The message is out; failing to record it risks a duplicate
			// next run, which is the accepted consistency boundary.
			slog.Error("sent but could not mark delivered", "fingerprint", item.Fingerprint, "error", err)
		}
		metrics.Global.IncrementMessagesSent()
		report.ItemsPublished++
		slog.Info("item published", "title", item.Title, "category", item.Category)
	}

	return report
}

// Format renders one item into the channel message template.
func (p *Publisher) Format(item news.Item) string {
	emoji := p.categorizer.Emoji(item.Category)
	timestamp := p.now().Format("15:04 - 2006/01/02")
	hashtag := strings.ReplaceAll(item.Category, " ", "_")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s *%s*\n\n", emoji, item.Title))
	if item.Summary != "" {
		b.WriteString(fmt.Sprintf("📝 %s\n\n", item.Summary))
	}
	b.WriteString(fmt.Sprintf("🔗 [مطالعه بیشتر](%s)\n\n", item.URL))
	b.WriteString(fmt.Sprintf("📡 منبع: %s\n", item.Source))
	b.WriteString(fmt.Sprintf("📅 %s\n", timestamp))
	b.WriteString(fmt.Sprintf("🏷️ #%s\n\n", hashtag))
	b.WriteString("➖➖➖➖➖➖➖➖➖➖")

	return b.String()
}
