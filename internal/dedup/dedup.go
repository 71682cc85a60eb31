// Package dedup provides content fingerprinting and the delivered-set
// contract that guarantees at-most-once delivery per item across runs.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"khabar/internal/news"
)

// Fingerprint derives the dedup identity of an item from its title and URL.
// The title is normalized (lowercased, whitespace collapsed) so that feed
// formatting noise does not break identity; the hash is stable across runs
// and processes. Two items with the same (title, url) collapse to the same
// fingerprint.
func Fingerprint(title, url string) string {
	normalized := strings.ToLower(strings.TrimSpace(title))
	normalized = strings.Join(strings.Fields(normalized), " ")

	h := sha256.New()
	h.Write([]byte(normalized + "|" + url))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Store is the delivered-set: fingerprints of items already published.
// Load runs once before the fetch phase, Save once after the publish phase.
// IsDelivered is the only call made during the concurrent fetch phase;
// MarkDelivered is called only from the single-threaded publish phase.
type Store interface {
	Load() error
	IsDelivered(fingerprint string) bool
	MarkDelivered(item news.Item) error
	Save() error
	Close() error
}
