// Package ledger defines the store port every backend implements. All
// mutation and all filtered or aggregate reads of persisted state go through
// a Store; nothing else touches the data files.
package ledger

import (
	"context"
	"time"

	"ledgerd/internal/core"
)

// Filter narrows ListTransactions. Zero values mean "no constraint"; Start is
// an inclusive lower bound and End an inclusive upper bound on the timestamp.
type Filter struct {
	Category string
	Start    time.Time
	End      time.Time
}

// Matches reports whether a transaction passes every set constraint.
func (f Filter) Matches(t core.Transaction) bool {
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if !f.Start.IsZero() && t.Timestamp.Before(f.Start) {
		return false
	}
	if !f.End.IsZero() && t.Timestamp.After(f.End) {
		return false
	}
	return true
}

// Store owns the transaction log, the category list, and the running balance.
// Implementations serialize mutations internally; the HTTP transport may call
// concurrently.
type Store interface {
	// AddTransaction persists the transaction and increments the balance by
	// its amount. An ID and timestamp are assigned when unset. Returns
	// core.ErrUnknownCategory when the category is not among Categories.
	AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)

	// ListTransactions returns matching transactions ordered by timestamp
	// descending. Ordering between equal timestamps is unspecified.
	ListTransactions(ctx context.Context, f Filter) ([]core.Transaction, error)

	// Categories returns all categories in storage order, seed first.
	Categories(ctx context.Context) ([]core.Category, error)

	// Balance returns the running total. O(1); never recomputed from the log.
	Balance(ctx context.Context) (float64, error)

	// Summary aggregates the full transaction log.
	Summary(ctx context.Context) (core.AccountSummary, error)

	Close() error
}
