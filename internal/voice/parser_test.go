package voice

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		input  string
		method string
		ok     bool
	}{
		{"what's my balance", "get_balance", true},
		{"how much money do I have", "get_balance", true},
		{"how much did I spend this month", "get_monthly_summary", true},
		{"monthly summary please", "get_monthly_summary", true},
		{"show me the last 7 days of transactions", "list_transactions", true},
		{"transactions from the past 30 days", "list_transactions", true},
		{"add a transaction: lunch, 35", "add_transaction", true},
		{"add transaction coffee, 4.50", "add_transaction", true},
		{"add an expense: taxi, $12", "add_transaction", true},
		{"show all categories", "list_categories", true},
		{"", "", false},
		{"turn on the lights", "", false},
		{"add a transaction: lunch", "", false}, // no amount
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			cmd, ok := Parse(tc.input)
			if ok != tc.ok {
				t.Fatalf("Parse(%q) ok = %v, want %v", tc.input, ok, tc.ok)
			}
			if ok && cmd.Method != tc.method {
				t.Fatalf("Parse(%q) method = %q, want %q", tc.input, cmd.Method, tc.method)
			}
		})
	}
}

func TestParseAddTransactionParams(t *testing.T) {
	cmd, ok := Parse("add a transaction: lunch, 35")
	if !ok {
		t.Fatalf("not recognized")
	}
	if cmd.Params["amount"] != -35.0 {
		t.Fatalf("amount = %v, want -35 (expenses are negative)", cmd.Params["amount"])
	}
	if cmd.Params["description"] != "lunch" {
		t.Fatalf("description = %v", cmd.Params["description"])
	}
	if cmd.Params["category"] != "food" {
		t.Fatalf("category = %v", cmd.Params["category"])
	}
}

func TestParseRecentDaysParams(t *testing.T) {
	cmd, ok := Parse("show me the last 14 days")
	if !ok {
		t.Fatalf("not recognized")
	}
	if cmd.Params["days"] != 14.0 {
		t.Fatalf("days = %v", cmd.Params["days"])
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		description string
		category    string
	}{
		{"lunch at the office", "food"},
		{"Uber to the airport", "transport"},
		{"new shoes", "shopping"},
		{"cinema night", "entertainment"},
		{"monthly paycheck", "salary"},
		{"stock dividend", "investment"},
		{"mystery purchase", "food"}, // fallback
	}
	for _, tc := range cases {
		if got := Classify(tc.description); got != tc.category {
			t.Errorf("Classify(%q) = %q, want %q", tc.description, got, tc.category)
		}
	}
}
