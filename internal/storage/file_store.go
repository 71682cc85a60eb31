package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"khabar/internal/news"
)

// SentItem is one delivered-set record as persisted on disk.
type SentItem struct {
	Fingerprint string    `json:"fingerprint"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Category    string    `json:"category"`
	Source      string    `json:"source"`
	SentAt      time.Time `json:"sent_at"`
}

// FileStore keeps the delivered-set in a JSON file. It is the default
// backend: the bot runs with no external services, and CI runners can
// persist the file between runs as an artifact.
type FileStore struct {
	filePath string
	ttlHours int
	items    map[string]SentItem
	mu       sync.RWMutex

	now func() time.Time
}

// NewFileStore creates a file-backed delivered-set. Entries older than
// ttlHours are dropped on load and skipped on lookup, bounding file growth.
func NewFileStore(filePath string, ttlHours int) *FileStore {
	return &FileStore{
		filePath: filePath,
		ttlHours: ttlHours,
		items:    make(map[string]SentItem),
		now:      time.Now,
	}
}

// Load reads the persisted delivered-set. A missing or empty file starts an
// empty set; that is not an error.
func (fs *FileStore) Load() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, err := os.Stat(fs.filePath); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(fs.filePath)
	if err != nil {
		return fmt.Errorf("read delivered-set file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var items []SentItem
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("unmarshal delivered-set: %w", err)
	}

	cutoff := fs.cutoff()
	for _, item := range items {
		if item.SentAt.After(cutoff) {
			fs.items[item.Fingerprint] = item
		}
	}
	return nil
}

// Save flushes the delivered-set back to disk.
func (fs *FileStore) Save() error {
	fs.mu.RLock()
	items := make([]SentItem, 0, len(fs.items))
	for _, item := range fs.items {
		items = append(items, item)
	}
	fs.mu.RUnlock()

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal delivered-set: %w", err)
	}
	if err := os.WriteFile(fs.filePath, data, 0644); err != nil {
		return fmt.Errorf("write delivered-set file: %w", err)
	}
	return nil
}

// IsDelivered reports whether the fingerprint was published within the TTL
// window.
func (fs *FileStore) IsDelivered(fingerprint string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	item, ok := fs.items[fingerprint]
	if !ok {
		return false
	}
	return item.SentAt.After(fs.cutoff())
}

// MarkDelivered records a confirmed send.
func (fs *FileStore) MarkDelivered(it news.Item) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.items[it.Fingerprint] = SentItem{
		Fingerprint: it.Fingerprint,
		Title:       it.Title,
		Link:        it.URL,
		Category:    it.Category,
		Source:      it.Source,
		SentAt:      fs.now(),
	}
	return nil
}

// Close is a no-op; Save does the flushing.
func (fs *FileStore) Close() error { return nil }

// Len returns the number of records currently held, expired ones included.
func (fs *FileStore) Len() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return len(fs.items)
}

func (fs *FileStore) cutoff() time.Time {
	return fs.now().Add(-time.Duration(fs.ttlHours) * time.Hour)
}
