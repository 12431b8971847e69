package payments

import (
	"context"
	"io"
	"sync"
)

// MemoryTracker keeps settled payments in process memory. It is the
// default ledger when no database is configured; records do not survive a
// restart.
type MemoryTracker struct {
	mu       sync.RWMutex
	txs      []Transaction
	currency string
}

// NewMemoryTracker creates an empty in-memory tracker.
func NewMemoryTracker(currency string) *MemoryTracker {
	return &MemoryTracker{currency: currency}
}

// Record appends one transaction.
func (m *MemoryTracker) Record(_ context.Context, tx Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txs = append(m.txs, tx)
	return nil
}

// Summary aggregates all transactions inside the window.
func (m *MemoryTracker) Summary(_ context.Context, w Window) (*Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return summarize(m.filter(w), m.currency), nil
}

// Transactions returns the newest transactions inside the window, at most
// limit when limit is positive.
func (m *MemoryTracker) Transactions(_ context.Context, w Window, limit int) ([]Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filtered := m.filter(w)

	// Newest first
	out := make([]Transaction, 0, len(filtered))
	for i := len(filtered) - 1; i >= 0; i-- {
		out = append(out, filtered[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// ExportCSV writes the windowed transactions as CSV, oldest first.
func (m *MemoryTracker) ExportCSV(_ context.Context, w Window, out io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return writeCSV(out, m.filter(w))
}

// filter must be called with the lock held.
func (m *MemoryTracker) filter(w Window) []Transaction {
	filtered := make([]Transaction, 0, len(m.txs))
	for _, tx := range m.txs {
		if w.Contains(tx.Timestamp) {
			filtered = append(filtered, tx)
		}
	}
	return filtered
}
