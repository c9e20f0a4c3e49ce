package core

import (
	"testing"
	"time"
)

func TestSummarizeMonth(t *testing.T) {
	txs := []Transaction{
		{Amount: -35, Category: "food", Description: "lunch"},
		{Amount: 5000, Category: "salary"},
	}
	s := SummarizeMonth(2025, time.June, txs)

	if s.Month != "2025-06" {
		t.Fatalf("month = %q", s.Month)
	}
	if s.TotalIncome != 5000 {
		t.Fatalf("total income = %v", s.TotalIncome)
	}
	if s.TotalExpense != 35 {
		t.Fatalf("total expense = %v", s.TotalExpense)
	}
	if s.BalanceChange != 4965 {
		t.Fatalf("balance change = %v", s.BalanceChange)
	}
	if len(s.CategoryExpenses) != 1 || s.CategoryExpenses["food"] != 35 {
		t.Fatalf("category expenses = %v", s.CategoryExpenses)
	}
}

func TestSummarizeMonthEmpty(t *testing.T) {
	s := SummarizeMonth(2025, time.January, nil)
	if s.TotalIncome != 0 || s.TotalExpense != 0 || s.BalanceChange != 0 {
		t.Fatalf("empty month should be all zero: %+v", s)
	}
	if s.CategoryExpenses == nil || len(s.CategoryExpenses) != 0 {
		t.Fatalf("category expenses should be an empty map, got %v", s.CategoryExpenses)
	}
}

func TestSummarize(t *testing.T) {
	txs := []Transaction{
		{Amount: -50, Category: "food"},
		{Amount: -20, Category: "transport"},
		{Amount: 5000, Category: "salary"},
	}
	s := Summarize(4930, txs)
	if s.TotalBalance != 4930 {
		t.Fatalf("balance = %v", s.TotalBalance)
	}
	if s.TotalIncome != 5000 {
		t.Fatalf("income = %v", s.TotalIncome)
	}
	if s.TotalExpense != 70 {
		t.Fatalf("expense = %v", s.TotalExpense)
	}
	if s.TransactionCount != 3 {
		t.Fatalf("count = %d", s.TransactionCount)
	}
}
