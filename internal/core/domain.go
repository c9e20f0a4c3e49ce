package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  CategoryType = "income"
	Expense CategoryType = "expense"
)

type (
	CategoryType string

	// Transaction is a single ledger entry. Positive amounts are income,
	// negative amounts are expenses. Immutable once recorded.
	Transaction struct {
		ID          string    `json:"id"`
		Amount      float64   `json:"amount"`
		Category    string    `json:"category"`
		Description string    `json:"description,omitempty"`
		Timestamp   time.Time `json:"timestamp"`
		Tags        []string  `json:"tags"`
	}

	Category struct {
		Name string       `json:"name"`
		Type CategoryType `json:"type"`
		Icon string       `json:"icon,omitempty"`
	}

	// AccountSummary is the whole-ledger aggregate.
	AccountSummary struct {
		TotalBalance     float64 `json:"total_balance"`
		TotalIncome      float64 `json:"total_income"`
		TotalExpense     float64 `json:"total_expense"`
		TransactionCount int     `json:"transaction_count"`
	}
)

var (
	ErrZeroAmount          = errors.New("amount cannot be zero")
	ErrEmptyCategory       = errors.New("empty category")
	ErrUnknownCategory     = errors.New("unknown category")
	ErrInvalidMonth        = errors.New("invalid month")
	ErrInvalidCategoryType = errors.New("category type must be income or expense")
)

func (ct CategoryType) Validate() error {
	switch ct {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidCategoryType
	}
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCategory
	}
	return c.Type.Validate()
}

func (t Transaction) Validate() error {
	if t.Amount == 0 {
		return ErrZeroAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

// IsIncome reports whether the transaction adds to the balance.
func (t Transaction) IsIncome() bool {
	return t.Amount > 0
}

// DefaultCategories is the seed written on first run. The set matches what
// existing ledgers were created with; changing it only affects new data dirs.
func DefaultCategories() []Category {
	return []Category{
		{Name: "food", Type: Expense, Icon: "🍔"},
		{Name: "transport", Type: Expense, Icon: "🚗"},
		{Name: "shopping", Type: Expense, Icon: "🛍️"},
		{Name: "entertainment", Type: Expense, Icon: "🎬"},
		{Name: "salary", Type: Income, Icon: "💼"},
		{Name: "bonus", Type: Income, Icon: "🎁"},
		{Name: "investment", Type: Income, Icon: "📈"},
	}
}
