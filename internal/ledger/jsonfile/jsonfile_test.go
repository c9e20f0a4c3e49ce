package jsonfile

import (
	"context"
	"errors"
	"testing"
	"time"

	"ledgerd/internal/core"
	"ledgerd/internal/ledger"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func TestSeedOnFirstRun(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	cats, err := s.Categories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(cats) != 7 || cats[0].Name != "food" {
		t.Fatalf("unexpected seed: %+v", cats)
	}

	balance, err := s.Balance(ctx)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 0 {
		t.Fatalf("fresh balance = %v", balance)
	}

	txs, err := s.ListTransactions(ctx, ledger.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("fresh store has %d transactions", len(txs))
	}
}

func TestBalanceTracksAmounts(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	amounts := []float64{-50, 5000, -12.5}
	var want float64
	for _, a := range amounts {
		cat := "food"
		if a > 0 {
			cat = "salary"
		}
		if _, err := s.AddTransaction(ctx, core.Transaction{Amount: a, Category: cat}); err != nil {
			t.Fatalf("add %v: %v", a, err)
		}
		want += a
	}

	got, err := s.Balance(ctx)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if got != want {
		t.Fatalf("balance = %v, want %v", got, want)
	}
}

func TestAddAssignsIDAndTimestamp(t *testing.T) {
	s := openStore(t)
	saved, err := s.AddTransaction(context.Background(), core.Transaction{Amount: -10, Category: "food", Description: "coffee"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if saved.ID == "" {
		t.Fatalf("ID not assigned")
	}
	if saved.Timestamp.IsZero() {
		t.Fatalf("timestamp not assigned")
	}
	if saved.Tags == nil {
		t.Fatalf("tags should default to empty slice")
	}
}

func TestUnknownCategoryRejectedWithoutMutation(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	_, err := s.AddTransaction(ctx, core.Transaction{Amount: -10, Category: "nonexistent"})
	if !errors.Is(err, core.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}

	balance, err := s.Balance(ctx)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 0 {
		t.Fatalf("balance mutated to %v", balance)
	}
	txs, err := s.ListTransactions(ctx, ledger.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("log mutated: %d entries", len(txs))
	}
}

func TestListFilters(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local)
	seed := []core.Transaction{
		{Amount: -10, Category: "food", Timestamp: base},
		{Amount: -20, Category: "transport", Timestamp: base.AddDate(0, 0, 1)},
		{Amount: 300, Category: "salary", Timestamp: base.AddDate(0, 0, 2)},
		{Amount: -5, Category: "food", Timestamp: base.AddDate(0, 1, 0)},
	}
	for _, tx := range seed {
		if _, err := s.AddTransaction(ctx, tx); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	byCat, err := s.ListTransactions(ctx, ledger.Filter{Category: "food"})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(byCat) != 2 {
		t.Fatalf("food count = %d", len(byCat))
	}
	for _, tx := range byCat {
		if tx.Category != "food" {
			t.Fatalf("filter leaked %q", tx.Category)
		}
	}

	// Inclusive bounds on both ends.
	windowed, err := s.ListTransactions(ctx, ledger.Filter{
		Start: base,
		End:   base.AddDate(0, 0, 2),
	})
	if err != nil {
		t.Fatalf("list windowed: %v", err)
	}
	if len(windowed) != 3 {
		t.Fatalf("window count = %d", len(windowed))
	}

	all, err := s.ListTransactions(ctx, ledger.Filter{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	for i := 1; i < len(all); i++ {
		if all[i].Timestamp.After(all[i-1].Timestamp) {
			t.Fatalf("not sorted descending at %d", i)
		}
	}
}

func TestListIdempotent(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	for _, a := range []float64{-1, -2, 3} {
		cat := "food"
		if a > 0 {
			cat = "bonus"
		}
		if _, err := s.AddTransaction(ctx, core.Transaction{Amount: a, Category: cat}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	first, err := s.ListTransactions(ctx, ledger.Filter{})
	if err != nil {
		t.Fatalf("first list: %v", err)
	}
	second, err := s.ListTransactions(ctx, ledger.Filter{})
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	seen := map[string]bool{}
	for _, tx := range first {
		seen[tx.ID] = true
	}
	for _, tx := range second {
		if !seen[tx.ID] {
			t.Fatalf("second list has unknown id %s", tx.ID)
		}
	}
}

func TestStateSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.AddTransaction(ctx, core.Transaction{Amount: 4950, Category: "salary"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	balance, err := reopened.Balance(ctx)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 4950 {
		t.Fatalf("balance after reopen = %v", balance)
	}
	txs, err := reopened.ListTransactions(ctx, ledger.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("log after reopen has %d entries", len(txs))
	}
}

func TestSummary(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	if _, err := s.AddTransaction(ctx, core.Transaction{Amount: -50, Category: "food"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := s.AddTransaction(ctx, core.Transaction{Amount: 5000, Category: "salary"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	sum, err := s.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.TotalBalance != 4950 || sum.TotalIncome != 5000 || sum.TotalExpense != 50 || sum.TransactionCount != 2 {
		t.Fatalf("summary = %+v", sum)
	}
}
