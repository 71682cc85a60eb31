package summarize

import (
	"log/slog"
	"sync"
)

// Budget caps the number of summarization calls per run. Zero max means
// unlimited. Safe for concurrent use, though the pipeline enriches
// sequentially today.
type Budget struct {
	mu   sync.Mutex
	used int
	max  int
}

// NewBudget creates a call budget. max <= 0 disables the cap.
func NewBudget(max int) *Budget {
	return &Budget{max: max}
}

// Take reserves one call. It returns false once the budget is exhausted.
func (b *Budget) Take() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.max > 0 && b.used >= b.max {
		slog.Debug("summary budget exhausted", "used", b.used, "max", b.max)
		return false
	}
	b.used++
	return true
}

// Used returns how many calls have been reserved.
func (b *Budget) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}
