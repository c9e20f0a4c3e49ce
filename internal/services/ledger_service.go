package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ledgerd/internal/core"
	"ledgerd/internal/ledger"
)

// Publisher pushes recorded transactions to the sync queue. Satisfied by
// *amqp.Client.
type Publisher interface {
	PublishTransaction(ctx context.Context, t core.Transaction) error
}

// LedgerService orchestrates ledger operations across the store and the
// optional sync queue. All method handlers go through it.
type LedgerService struct {
	store ledger.Store
	pub   Publisher
}

func NewLedgerService(store ledger.Store, pub Publisher) *LedgerService {
	return &LedgerService{store: store, pub: pub}
}

// Add persists the transaction, then publishes it for mirroring. Publish
// failures are logged and never fail the request; the local write is the
// source of truth.
func (s *LedgerService) Add(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	saved, err := s.store.AddTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, err
	}

	if s.pub != nil {
		if err := s.pub.PublishTransaction(ctx, saved); err != nil {
			slog.WarnContext(ctx, "Failed to publish transaction for sync",
				"error", err,
				"transaction_id", saved.ID)
		}
	}
	return saved, nil
}

func (s *LedgerService) List(ctx context.Context, category string, start, end time.Time) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx, ledger.Filter{Category: category, Start: start, End: end})
}

func (s *LedgerService) Categories(ctx context.Context) ([]core.Category, error) {
	return s.store.Categories(ctx)
}

func (s *LedgerService) Balance(ctx context.Context) (float64, error) {
	return s.store.Balance(ctx)
}

func (s *LedgerService) Summary(ctx context.Context) (core.AccountSummary, error) {
	return s.store.Summary(ctx)
}

// MonthlySummary aggregates one calendar month of transactions.
func (s *LedgerService) MonthlySummary(ctx context.Context, year int, month time.Month) (core.MonthlySummary, error) {
	start, end := core.MonthBounds(year, month)
	txs, err := s.store.ListTransactions(ctx, ledger.Filter{Start: start, End: end})
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("list month transactions: %w", err)
	}
	return core.SummarizeMonth(year, month, txs), nil
}
