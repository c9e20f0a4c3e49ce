package core

import (
	"fmt"
	"time"
)

// MonthlySummary is derived on demand from the transactions of one month;
// it is never persisted.
type MonthlySummary struct {
	Month            string             `json:"month"` // YYYY-MM
	TotalIncome      float64            `json:"total_income"`
	TotalExpense     float64            `json:"total_expense"`
	BalanceChange    float64            `json:"balance_change"`
	CategoryExpenses map[string]float64 `json:"category_expenses"`
}

// MonthBounds returns the filter window for a given year and month: the first
// instant of the month and 23:59:59.000 on its last day. The upper bound is
// compared inclusively, so that exact second belongs to the month while any
// sub-second instant after it does not. Existing clients depend on this
// convention; do not replace it with exclusive next-month arithmetic.
func MonthBounds(year int, month time.Month) (start, end time.Time) {
	start = time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	end = start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end
}

// SummarizeMonth aggregates transactions into a MonthlySummary. The caller is
// expected to have already filtered the slice to the month's window; amounts
// are split by sign and per-category totals cover expenses only.
func SummarizeMonth(year int, month time.Month, txs []Transaction) MonthlySummary {
	s := MonthlySummary{
		Month:            fmt.Sprintf("%04d-%02d", year, int(month)),
		CategoryExpenses: make(map[string]float64),
	}
	for _, t := range txs {
		if t.Amount > 0 {
			s.TotalIncome += t.Amount
		} else {
			s.TotalExpense += -t.Amount
			s.CategoryExpenses[t.Category] += -t.Amount
		}
	}
	s.BalanceChange = s.TotalIncome - s.TotalExpense
	return s
}

// Summarize computes the whole-ledger aggregate from a full transaction scan.
// The balance is carried separately because the store maintains it as a
// running total rather than recomputing it.
func Summarize(balance float64, txs []Transaction) AccountSummary {
	s := AccountSummary{TotalBalance: balance, TransactionCount: len(txs)}
	for _, t := range txs {
		if t.Amount > 0 {
			s.TotalIncome += t.Amount
		} else {
			s.TotalExpense += -t.Amount
		}
	}
	return s
}
