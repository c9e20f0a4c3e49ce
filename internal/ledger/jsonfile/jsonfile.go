// Package jsonfile is the default ledger backend: three JSON documents under
// one data directory, each read in full and rewritten in full on every
// mutation. There is no cross-file atomicity; a crash between the transaction
// append and the balance write can leave the two inconsistent. Accepted
// trade-off for a single-user ledger with low write volume.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"ledgerd/internal/core"
	"ledgerd/internal/ledger"
)

const (
	transactionsFile = "transactions.json"
	categoriesFile   = "categories.json"
	accountFile      = "account.json"
)

type account struct {
	TotalBalance float64 `json:"total_balance"`
}

// Store implements ledger.Store on flat files. The mutex serializes the
// read-modify-write of both the log and the balance; without it concurrent
// HTTP requests lose updates.
type Store struct {
	mu  sync.Mutex
	dir string
}

var _ ledger.Store = (*Store)(nil)

// Open prepares the data directory and seeds the category list and account
// document on first run. Existing files are never overwritten.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	s := &Store{dir: dir}

	if err := s.seedFile(categoriesFile, core.DefaultCategories()); err != nil {
		return nil, err
	}
	if err := s.seedFile(accountFile, account{}); err != nil {
		return nil, err
	}
	if err := s.seedFile(transactionsFile, []core.Transaction{}); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) seedFile(name string, v any) error {
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", name, err)
	}
	return s.writeJSON(name, v)
}

func (s *Store) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// readJSON surfaces every I/O and decode failure to the caller. Falling back
// to an empty default here would silently break the balance invariant.
func (s *Store) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *Store) AddTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var cats []core.Category
	if err := s.readJSON(categoriesFile, &cats); err != nil {
		return core.Transaction{}, err
	}
	known := false
	for _, c := range cats {
		if c.Name == t.Category {
			known = true
			break
		}
	}
	if !known {
		return core.Transaction{}, fmt.Errorf("category %q: %w", t.Category, core.ErrUnknownCategory)
	}

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}

	var txs []core.Transaction
	if err := s.readJSON(transactionsFile, &txs); err != nil {
		return core.Transaction{}, err
	}
	txs = append(txs, t)
	if err := s.writeJSON(transactionsFile, txs); err != nil {
		return core.Transaction{}, err
	}

	var acct account
	if err := s.readJSON(accountFile, &acct); err != nil {
		return core.Transaction{}, err
	}
	acct.TotalBalance += t.Amount
	if err := s.writeJSON(accountFile, acct); err != nil {
		return core.Transaction{}, err
	}

	return t, nil
}

func (s *Store) ListTransactions(_ context.Context, f ledger.Filter) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var txs []core.Transaction
	if err := s.readJSON(transactionsFile, &txs); err != nil {
		return nil, err
	}

	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (s *Store) Categories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cats []core.Category
	if err := s.readJSON(categoriesFile, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (s *Store) Balance(_ context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balanceLocked()
}

func (s *Store) balanceLocked() (float64, error) {
	var acct account
	if err := s.readJSON(accountFile, &acct); err != nil {
		return 0, err
	}
	return acct.TotalBalance, nil
}

func (s *Store) Summary(_ context.Context) (core.AccountSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var txs []core.Transaction
	if err := s.readJSON(transactionsFile, &txs); err != nil {
		return core.AccountSummary{}, err
	}
	balance, err := s.balanceLocked()
	if err != nil {
		return core.AccountSummary{}, err
	}
	return core.Summarize(balance, txs), nil
}

func (s *Store) Close() error { return nil }
