// Package voice maps free-form natural-language strings onto ledger method
// calls. Parsing is a pure function over the input string; the package knows
// the dispatcher's method contracts but never touches the store or the
// dispatcher itself.
package voice

import (
	"regexp"
	"strconv"
	"strings"
)

// Command is a recognized intent: a method name plus its by-name parameters,
// ready to hand to the dispatcher's method contracts.
type Command struct {
	Method string
	Params map[string]any
}

var (
	recentDaysRe = regexp.MustCompile(`(?:last|past)\s+(\d+)\s+days?`)
	addTxRe      = regexp.MustCompile(`add\s+(?:a\s+|an\s+)?(?:transaction|expense)[:,]?\s+(.+?),\s*\$?(\d+(?:\.\d+)?)`)
)

// Parse recognizes one command. The boolean is false when no pattern
// matched; callers decide how to report that.
func Parse(input string) (Command, bool) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return Command{}, false
	}

	if m := addTxRe.FindStringSubmatch(s); m != nil {
		amount, err := strconv.ParseFloat(m[2], 64)
		if err != nil || amount == 0 {
			return Command{}, false
		}
		description := strings.TrimSpace(m[1])
		return Command{
			Method: "add_transaction",
			Params: map[string]any{
				// Spoken additions are recorded as expenses.
				"amount":      -amount,
				"category":    Classify(description),
				"description": description,
			},
		}, true
	}

	if m := recentDaysRe.FindStringSubmatch(s); m != nil {
		days, err := strconv.Atoi(m[1])
		if err != nil || days <= 0 {
			return Command{}, false
		}
		return Command{
			Method: "list_transactions",
			Params: map[string]any{"days": float64(days)},
		}, true
	}

	if containsAny(s, "spent this month", "spend this month", "this month's spending", "monthly summary", "summary for this month") {
		return Command{Method: "get_monthly_summary", Params: map[string]any{}}, true
	}

	if containsAny(s, "categories", "category list") {
		return Command{Method: "list_categories", Params: map[string]any{}}, true
	}

	if containsAny(s, "balance", "how much money") {
		return Command{Method: "get_balance", Params: map[string]any{}}, true
	}

	return Command{}, false
}

func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// classifyKeywords maps description words onto the default category seed.
// First match wins; multi-word keywords are checked before shorter ones by
// order in the slice.
var classifyKeywords = []struct {
	keyword  string
	category string
}{
	{"breakfast", "food"},
	{"lunch", "food"},
	{"dinner", "food"},
	{"coffee", "food"},
	{"snack", "food"},
	{"grocer", "food"},
	{"restaurant", "food"},
	{"takeout", "food"},
	{"taxi", "transport"},
	{"uber", "transport"},
	{"bus", "transport"},
	{"train", "transport"},
	{"metro", "transport"},
	{"fuel", "transport"},
	{"gas", "transport"},
	{"parking", "transport"},
	{"clothes", "shopping"},
	{"shoes", "shopping"},
	{"mall", "shopping"},
	{"amazon", "shopping"},
	{"movie", "entertainment"},
	{"cinema", "entertainment"},
	{"game", "entertainment"},
	{"concert", "entertainment"},
	{"ticket", "entertainment"},
	{"salary", "salary"},
	{"wage", "salary"},
	{"paycheck", "salary"},
	{"bonus", "bonus"},
	{"dividend", "investment"},
	{"interest", "investment"},
	{"stock", "investment"},
}

// Classify picks a seed category for a spoken description. Unknown
// descriptions fall back to the first seed category, matching how ledgers
// have historically bucketed them.
func Classify(description string) string {
	d := strings.ToLower(description)
	for _, kc := range classifyKeywords {
		if strings.Contains(d, kc.keyword) {
			return kc.category
		}
	}
	return "food"
}
