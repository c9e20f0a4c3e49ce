package rpc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ledgerd/internal/core"
	"ledgerd/internal/services"
	"ledgerd/internal/voice"
)

// Result payloads. Field names are fixed by the wire format existing clients
// consume.
type (
	AddResult struct {
		Success        bool             `json:"success"`
		Transaction    core.Transaction `json:"transaction"`
		CurrentBalance float64          `json:"current_balance"`
		Message        string           `json:"message"`
	}

	AddRejected struct {
		Success             bool     `json:"success"`
		Error               string   `json:"error"`
		AvailableCategories []string `json:"available_categories"`
	}

	BalanceResult struct {
		Balance float64 `json:"balance"`
		Message string  `json:"message"`
	}

	ListResult struct {
		Transactions []core.Transaction `json:"transactions"`
		Count        int                `json:"count"`
		Message      string             `json:"message"`
	}

	MonthlySummaryResult struct {
		Summary core.MonthlySummary `json:"summary"`
		Message string              `json:"message"`
	}

	VoiceResult struct {
		Success  bool   `json:"success"`
		Response string `json:"response"`
		Data     any    `json:"data,omitempty"`
		Error    string `json:"error,omitempty"`
	}

	TransactionsResource struct {
		Transactions []core.Transaction `json:"transactions"`
		Count        int                `json:"count"`
	}

	CategoriesResource struct {
		Categories []core.Category `json:"categories"`
		Count      int             `json:"count"`
	}

	SummaryResource struct {
		Balance        float64             `json:"balance"`
		MonthlySummary core.MonthlySummary `json:"monthly_summary"`
	}
)

// handlers binds the method set to one ledger service instance. The service
// handle is injected here at construction; there is no ambient global.
type handlers struct {
	svc *services.LedgerService
	now func() time.Time
}

// NewDispatcher builds the dispatcher with the fixed method registry and
// resource table over the given ledger service.
func NewDispatcher(svc *services.LedgerService) *Dispatcher {
	return newDispatcher(svc, time.Now)
}

func newDispatcher(svc *services.LedgerService, now func() time.Time) *Dispatcher {
	h := &handlers{svc: svc, now: now}
	return &Dispatcher{
		methods: map[string]HandlerFunc{
			"add_transaction":       h.addTransaction,
			"get_balance":           h.getBalance,
			"list_transactions":     h.listTransactions,
			"get_monthly_summary":   h.getMonthlySummary,
			"process_voice_command": h.processVoiceCommand,
		},
		resources: map[string]ResourceFunc{
			"transactions://all": h.allTransactions,
			"categories://all":   h.allCategories,
			"summary://current":  h.currentSummary,
		},
	}
}

func (h *handlers) addTransaction(ctx context.Context, params map[string]any) (any, error) {
	amount, err := floatParam(params, "amount", true)
	if err != nil {
		return nil, err
	}
	category, err := stringParam(params, "category", true)
	if err != nil {
		return nil, err
	}
	description, err := stringParam(params, "description", false)
	if err != nil {
		return nil, err
	}
	tags, err := stringSliceParam(params, "tags")
	if err != nil {
		return nil, err
	}

	saved, err := h.svc.Add(ctx, core.Transaction{
		Amount:      amount,
		Category:    category,
		Description: description,
		Tags:        tags,
	})
	if errors.Is(err, core.ErrUnknownCategory) {
		names, catErr := h.categoryNames(ctx)
		if catErr != nil {
			return nil, catErr
		}
		return AddRejected{
			Success:             false,
			Error:               fmt.Sprintf("category '%s' does not exist", category),
			AvailableCategories: names,
		}, nil
	}
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	balance, err := h.svc.Balance(ctx)
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	kind := "expense"
	if saved.IsIncome() {
		kind = "income"
	}
	return AddResult{
		Success:        true,
		Transaction:    saved,
		CurrentBalance: balance,
		Message:        fmt.Sprintf("recorded %s, current balance: %.2f", kind, balance),
	}, nil
}

func (h *handlers) getBalance(ctx context.Context, _ map[string]any) (any, error) {
	balance, err := h.svc.Balance(ctx)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return BalanceResult{
		Balance: balance,
		Message: fmt.Sprintf("current account balance: %.2f", balance),
	}, nil
}

func (h *handlers) listTransactions(ctx context.Context, params map[string]any) (any, error) {
	category, err := stringParam(params, "category", false)
	if err != nil {
		return nil, err
	}
	days, err := intParam(params, "days")
	if err != nil {
		return nil, err
	}

	var start time.Time
	if days > 0 {
		start = h.now().AddDate(0, 0, -days)
	}
	txs, err := h.svc.List(ctx, category, start, time.Time{})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return ListResult{
		Transactions: txs,
		Count:        len(txs),
		Message:      fmt.Sprintf("found %d transactions", len(txs)),
	}, nil
}

func (h *handlers) getMonthlySummary(ctx context.Context, params map[string]any) (any, error) {
	year, err := intParam(params, "year")
	if err != nil {
		return nil, err
	}
	month, err := intParam(params, "month")
	if err != nil {
		return nil, err
	}

	now := h.now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month %d: %w", month, core.ErrInvalidMonth)
	}

	summary, err := h.svc.MonthlySummary(ctx, year, time.Month(month))
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return MonthlySummaryResult{
		Summary: summary,
		Message: fmt.Sprintf("%s summary: income %.2f, expense %.2f, net %.2f",
			summary.Month, summary.TotalIncome, summary.TotalExpense, summary.BalanceChange),
	}, nil
}

// processVoiceCommand runs a free-text command through the same method
// handlers and wraps the outcome in a spoken-style response.
func (h *handlers) processVoiceCommand(ctx context.Context, params map[string]any) (any, error) {
	command, err := stringParam(params, "command", true)
	if err != nil {
		return nil, err
	}

	cmd, ok := voice.Parse(command)
	if !ok {
		return VoiceResult{
			Success:  false,
			Response: "sorry, I could not understand that. Try something like 'how much did I spend this month' or 'add a transaction: lunch, 35'",
			Error:    "unrecognized_command",
		}, nil
	}

	switch cmd.Method {
	case "get_balance":
		result, err := h.getBalance(ctx, cmd.Params)
		if err != nil {
			return nil, err
		}
		return VoiceResult{Success: true, Response: result.(BalanceResult).Message, Data: result}, nil

	case "get_monthly_summary":
		result, err := h.getMonthlySummary(ctx, cmd.Params)
		if err != nil {
			return nil, err
		}
		summary := result.(MonthlySummaryResult).Summary
		return VoiceResult{
			Success:  true,
			Response: fmt.Sprintf("you spent %.2f this month", summary.TotalExpense),
			Data:     result,
		}, nil

	case "list_transactions":
		result, err := h.listTransactions(ctx, cmd.Params)
		if err != nil {
			return nil, err
		}
		list := result.(ListResult)
		days, _ := intParam(cmd.Params, "days")
		return VoiceResult{
			Success:  true,
			Response: recentTransactionsText(list, days),
			Data:     result,
		}, nil

	case "add_transaction":
		result, err := h.addTransaction(ctx, cmd.Params)
		if err != nil {
			return nil, err
		}
		if rejected, ok := result.(AddRejected); ok {
			return VoiceResult{Success: false, Response: rejected.Error, Data: result}, nil
		}
		return VoiceResult{Success: true, Response: result.(AddResult).Message, Data: result}, nil

	case "list_categories":
		names, err := h.categoryNames(ctx)
		if err != nil {
			return nil, err
		}
		return VoiceResult{
			Success:  true,
			Response: fmt.Sprintf("there are %d categories: %s", len(names), strings.Join(names, ", ")),
			Data:     CategoriesData{Categories: names, Count: len(names)},
		}, nil
	}

	return nil, fmt.Errorf("voice command mapped to unknown method %q", cmd.Method)
}

// CategoriesData is the voice-layer payload for a category listing.
type CategoriesData struct {
	Categories []string `json:"categories"`
	Count      int      `json:"count"`
}

func recentTransactionsText(list ListResult, days int) string {
	if list.Count == 0 {
		return fmt.Sprintf("no transactions in the last %d days", days)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "found %d transactions in the last %d days", list.Count, days)
	for i, t := range list.Transactions {
		if i == 3 {
			fmt.Fprintf(&b, "\n... and %d more", list.Count-3)
			break
		}
		desc := t.Description
		if desc == "" {
			desc = "untitled"
		}
		kind := "expense"
		amount := -t.Amount
		if t.IsIncome() {
			kind = "income"
			amount = t.Amount
		}
		fmt.Fprintf(&b, "\n%d. %s - %s %.2f", i+1, desc, kind, amount)
	}
	return b.String()
}

func (h *handlers) allTransactions(ctx context.Context) (any, error) {
	txs, err := h.svc.List(ctx, "", time.Time{}, time.Time{})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return TransactionsResource{Transactions: txs, Count: len(txs)}, nil
}

func (h *handlers) allCategories(ctx context.Context) (any, error) {
	cats, err := h.svc.Categories(ctx)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return CategoriesResource{Categories: cats, Count: len(cats)}, nil
}

func (h *handlers) currentSummary(ctx context.Context) (any, error) {
	balance, err := h.svc.Balance(ctx)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	now := h.now()
	summary, err := h.svc.MonthlySummary(ctx, now.Year(), now.Month())
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return SummaryResource{Balance: balance, MonthlySummary: summary}, nil
}

func (h *handlers) categoryNames(ctx context.Context) ([]string, error) {
	cats, err := h.svc.Categories(ctx)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	return names, nil
}

// wrapStoreErr classifies store failures: domain validation errors stay
// handler errors, everything else is a persistence fault and goes out as an
// internal error.
func wrapStoreErr(err error) error {
	switch {
	case errors.Is(err, core.ErrZeroAmount),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrInvalidMonth):
		return err
	default:
		return internalf("ledger store: %w", err)
	}
}

// Parameter binding is by name, never coerced silently.

func floatParam(params map[string]any, key string, required bool) (float64, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		if required {
			return 0, fmt.Errorf("missing required parameter '%s'", key)
		}
		return 0, nil
	}
	v, ok := raw.(float64)
	if !ok {
		return 0, fmt.Errorf("parameter '%s' must be a number", key)
	}
	return v, nil
}

func intParam(params map[string]any, key string) (int, error) {
	v, err := floatParam(params, key, false)
	if err != nil {
		return 0, err
	}
	if v != float64(int(v)) {
		return 0, fmt.Errorf("parameter '%s' must be an integer", key)
	}
	return int(v), nil
}

func stringParam(params map[string]any, key string, required bool) (string, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		if required {
			return "", fmt.Errorf("missing required parameter '%s'", key)
		}
		return "", nil
	}
	v, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("parameter '%s' must be a string", key)
	}
	return v, nil
}

func stringSliceParam(params map[string]any, key string) ([]string, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("parameter '%s' must be an array of strings", key)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("parameter '%s' must be an array of strings", key)
		}
		out = append(out, s)
	}
	return out, nil
}
