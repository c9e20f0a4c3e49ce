package rpc

import (
	"context"
	"strings"
	"testing"
	"time"

	"ledgerd/internal/core"
	"ledgerd/internal/services"
)

func fixedDispatcher(store *memStore, now time.Time) *Dispatcher {
	svc := services.NewLedgerService(store, nil)
	return newDispatcher(svc, func() time.Time { return now })
}

func resultOf(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	result, ok := resp["result"].(map[string]any)
	if !ok {
		t.Fatalf("expected result object, got %v", resp)
	}
	return result
}

func TestAddTransactionScenario(t *testing.T) {
	d, _ := testDispatcher()

	resp := dispatch(t, d, `{"jsonrpc":"2.0","id":1,"method":"add_transaction","params":{"amount":-50,"category":"food","description":"lunch"}}`)
	result := resultOf(t, resp)
	if result["success"] != true {
		t.Fatalf("success = %v", result["success"])
	}
	if result["current_balance"] != -50.0 {
		t.Fatalf("current_balance = %v", result["current_balance"])
	}
	tx := result["transaction"].(map[string]any)
	if tx["id"] == "" || tx["category"] != "food" || tx["description"] != "lunch" {
		t.Fatalf("transaction = %v", tx)
	}

	resp = dispatch(t, d, `{"jsonrpc":"2.0","id":2,"method":"add_transaction","params":{"amount":5000,"category":"salary"}}`)
	result = resultOf(t, resp)
	if result["current_balance"] != 4950.0 {
		t.Fatalf("current_balance = %v", result["current_balance"])
	}

	resp = dispatch(t, d, `{"jsonrpc":"2.0","id":3,"method":"get_balance"}`)
	result = resultOf(t, resp)
	if result["balance"] != 4950.0 {
		t.Fatalf("balance = %v", result["balance"])
	}
}

func TestAddTransactionUnknownCategoryIsResultNotError(t *testing.T) {
	d, store := testDispatcher()

	resp := dispatch(t, d, `{"jsonrpc":"2.0","id":1,"method":"add_transaction","params":{"amount":-10,"category":"nonexistent"}}`)
	result := resultOf(t, resp)
	if result["success"] != false {
		t.Fatalf("success = %v", result["success"])
	}
	if !strings.Contains(result["error"].(string), "nonexistent") {
		t.Fatalf("error = %v", result["error"])
	}
	avail, ok := result["available_categories"].([]any)
	if !ok || len(avail) != 7 {
		t.Fatalf("available_categories = %v", result["available_categories"])
	}
	if store.balance != 0 {
		t.Fatalf("balance mutated: %v", store.balance)
	}
}

func TestListTransactionsDaysWindow(t *testing.T) {
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.Local)
	store := newMemStore()
	seedTx(t, store, -10, "food", now.AddDate(0, 0, -2))
	seedTx(t, store, -20, "food", now.AddDate(0, 0, -10))
	seedTx(t, store, 100, "salary", now.AddDate(0, 0, -1))
	d := fixedDispatcher(store, now)

	resp := dispatch(t, d, `{"jsonrpc":"2.0","id":1,"method":"list_transactions","params":{"days":7}}`)
	result := resultOf(t, resp)
	if result["count"] != 2.0 {
		t.Fatalf("count = %v", result["count"])
	}

	resp = dispatch(t, d, `{"jsonrpc":"2.0","id":2,"method":"list_transactions","params":{"category":"food"}}`)
	result = resultOf(t, resp)
	if result["count"] != 2.0 {
		t.Fatalf("category count = %v", result["count"])
	}
}

func TestMonthlySummaryScenario(t *testing.T) {
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.Local)
	store := newMemStore()
	seedTx(t, store, -35, "food", time.Date(2025, 6, 5, 13, 0, 0, 0, time.Local))
	seedTx(t, store, 5000, "salary", time.Date(2025, 6, 1, 9, 0, 0, 0, time.Local))
	seedTx(t, store, -99, "transport", time.Date(2025, 5, 30, 9, 0, 0, 0, time.Local))
	d := fixedDispatcher(store, now)

	resp := dispatch(t, d, `{"jsonrpc":"2.0","id":1,"method":"get_monthly_summary"}`)
	result := resultOf(t, resp)
	summary := result["summary"].(map[string]any)
	if summary["month"] != "2025-06" {
		t.Fatalf("month = %v", summary["month"])
	}
	if summary["total_income"] != 5000.0 || summary["total_expense"] != 35.0 || summary["balance_change"] != 4965.0 {
		t.Fatalf("summary = %v", summary)
	}
	catExp := summary["category_expenses"].(map[string]any)
	if len(catExp) != 1 || catExp["food"] != 35.0 {
		t.Fatalf("category_expenses = %v", catExp)
	}
}

func TestMonthlySummaryExplicitMonth(t *testing.T) {
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.Local)
	store := newMemStore()
	seedTx(t, store, -99, "transport", time.Date(2025, 5, 30, 9, 0, 0, 0, time.Local))
	d := fixedDispatcher(store, now)

	resp := dispatch(t, d, `{"jsonrpc":"2.0","id":1,"method":"get_monthly_summary","params":{"year":2025,"month":5}}`)
	summary := resultOf(t, resp)["summary"].(map[string]any)
	if summary["month"] != "2025-05" || summary["total_expense"] != 99.0 {
		t.Fatalf("summary = %v", summary)
	}
}

func TestMonthlySummaryInvalidMonth(t *testing.T) {
	d, _ := testDispatcher()
	resp := dispatch(t, d, `{"jsonrpc":"2.0","id":1,"method":"get_monthly_summary","params":{"month":13}}`)
	if code := errorCode(t, resp); code != CodeHandlerError {
		t.Fatalf("code = %d", code)
	}
}

func TestResources(t *testing.T) {
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.Local)
	store := newMemStore()
	seedTx(t, store, -35, "food", time.Date(2025, 6, 5, 13, 0, 0, 0, time.Local))
	d := fixedDispatcher(store, now)

	resp := dispatch(t, d, `{"jsonrpc":"2.0","id":1,"resource":"transactions://all"}`)
	result := resultOf(t, resp)
	if result["count"] != 1.0 {
		t.Fatalf("transactions count = %v", result["count"])
	}

	resp = dispatch(t, d, `{"jsonrpc":"2.0","id":2,"resource":"categories://all"}`)
	result = resultOf(t, resp)
	if result["count"] != 7.0 {
		t.Fatalf("categories count = %v", result["count"])
	}

	resp = dispatch(t, d, `{"jsonrpc":"2.0","id":3,"resource":"summary://current"}`)
	result = resultOf(t, resp)
	if result["balance"] != -35.0 {
		t.Fatalf("balance = %v", result["balance"])
	}
	monthly := result["monthly_summary"].(map[string]any)
	if monthly["total_expense"] != 35.0 {
		t.Fatalf("monthly_summary = %v", monthly)
	}
}

func TestVoiceCommandBalance(t *testing.T) {
	d, store := testDispatcher()
	seedTx(t, store, 100, "salary", time.Now())

	resp := dispatch(t, d, `{"jsonrpc":"2.0","id":1,"method":"process_voice_command","params":{"command":"what is my balance"}}`)
	result := resultOf(t, resp)
	if result["success"] != true {
		t.Fatalf("success = %v", result["success"])
	}
	if !strings.Contains(result["response"].(string), "100.00") {
		t.Fatalf("response = %v", result["response"])
	}
}

func TestVoiceCommandAdd(t *testing.T) {
	d, store := testDispatcher()
	resp := dispatch(t, d, `{"jsonrpc":"2.0","id":1,"method":"process_voice_command","params":{"command":"add a transaction: lunch, 35"}}`)
	result := resultOf(t, resp)
	if result["success"] != true {
		t.Fatalf("result = %v", result)
	}
	if store.balance != -35 {
		t.Fatalf("balance = %v", store.balance)
	}
}

func TestVoiceCommandRecentDays(t *testing.T) {
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.Local)
	store := newMemStore()
	for i := 0; i < 5; i++ {
		seedTx(t, store, -10, "food", now.AddDate(0, 0, -1))
	}
	d := fixedDispatcher(store, now)

	resp := dispatch(t, d, `{"jsonrpc":"2.0","id":1,"method":"process_voice_command","params":{"command":"show the last 7 days"}}`)
	result := resultOf(t, resp)
	response := result["response"].(string)
	if !strings.Contains(response, "found 5 transactions") {
		t.Fatalf("response = %q", response)
	}
	if !strings.Contains(response, "and 2 more") {
		t.Fatalf("response should truncate after 3 entries: %q", response)
	}
}

func TestVoiceCommandUnrecognized(t *testing.T) {
	d, _ := testDispatcher()
	resp := dispatch(t, d, `{"jsonrpc":"2.0","id":1,"method":"process_voice_command","params":{"command":"open the pod bay doors"}}`)
	result := resultOf(t, resp)
	if result["success"] != false {
		t.Fatalf("success = %v", result["success"])
	}
	if result["error"] != "unrecognized_command" {
		t.Fatalf("error = %v", result["error"])
	}
}

func seedTx(t *testing.T, store *memStore, amount float64, category string, ts time.Time) {
	t.Helper()
	if _, err := store.AddTransaction(context.Background(), core.Transaction{
		Amount:    amount,
		Category:  category,
		Timestamp: ts,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
}
