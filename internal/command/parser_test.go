package command

import (
	"testing"
	"time"

	"kassabot/internal/core"
)

var testNow = time.Date(2025, 3, 12, 15, 4, 5, 0, time.UTC)

func TestParseSlashCommands(t *testing.T) {
	p := NewParser(DefaultPolicy())

	tests := []struct {
		input string
		want  Command
	}{
		{"/start", Help{}},
		{"/help", Help{}},
		{"/HELP", Help{}},
		{"/help@KassaBot", Help{}},
		{"/settings", Unknown{Raw: "/settings"}},
	}
	for _, tt := range tests {
		got := p.Parse(tt.input, testNow)
		if got != tt.want {
			t.Errorf("Parse(%q) = %#v, want %#v", tt.input, got, tt.want)
		}
	}
}

func TestParseBalancePeriods(t *testing.T) {
	p := NewParser(DefaultPolicy())

	tests := []struct {
		input     string
		wantStart time.Time
		wantLabel string
	}{
		{"/balance", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), "this month"},
		{"/balance month", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), "this month"},
		{"/balance today", time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), "today"},
		{"/balance week", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), "this week"},
		{"/balance year", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "this year"},
		{"/balance 2024-11", time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC), "November 2024"},
		{"/balance whatever", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), "this month"},
	}
	for _, tt := range tests {
		got, ok := p.Parse(tt.input, testNow).(QueryBalance)
		if !ok {
			t.Fatalf("Parse(%q) is not QueryBalance", tt.input)
		}
		if !got.Period.Start.Equal(tt.wantStart) {
			t.Errorf("Parse(%q) period start = %v, want %v", tt.input, got.Period.Start, tt.wantStart)
		}
		if got.Label != tt.wantLabel {
			t.Errorf("Parse(%q) label = %q, want %q", tt.input, got.Label, tt.wantLabel)
		}
	}

	if got := p.Parse("/balance all", testNow).(QueryBalance); !got.Period.IsZero() {
		t.Errorf("Parse(/balance all) period = %v, want unbounded", got.Period)
	}
}

func TestParseRecordEntry(t *testing.T) {
	p := NewParser(DefaultPolicy())

	tests := []struct {
		name     string
		input    string
		amount   string
		category string
		note     string
	}{
		{"signed expense with note", "-500 groceries milk", "-500", "groceries", "milk"},
		{"signed expense comma decimal", "-120,50 transport bus ticket", "-120.50", "transport", "bus ticket"},
		{"unsigned defaults to income", "3000 salary", "3000", "salary", ""},
		{"explicit plus", "+250 refund", "250", "refund", ""},
		{"expense keyword", "spent 45 lunch", "-45", "lunch", ""},
		{"expense keyword overrides sign", "spent +45 lunch", "-45", "lunch", ""},
		{"income keyword", "received 90 gift from mom", "90", "gift", "from mom"},
		{"keyword case-insensitive", "SPENT 10 coffee", "-10", "coffee", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.Parse(tt.input, testNow).(RecordEntry)
			if !ok {
				t.Fatalf("Parse(%q) = %#v, want RecordEntry", tt.input, p.Parse(tt.input, testNow))
			}
			if !got.Amount.Equal(core.MustAmount(tt.amount)) {
				t.Errorf("amount = %s, want %s", got.Amount, tt.amount)
			}
			if got.Category != tt.category {
				t.Errorf("category = %q, want %q", got.Category, tt.category)
			}
			if got.Note != tt.note {
				t.Errorf("note = %q, want %q", got.Note, tt.note)
			}
			if !got.Timestamp.Equal(testNow) {
				t.Errorf("timestamp = %v, want %v", got.Timestamp, testNow)
			}
		})
	}
}

func TestParseUnsignedExpensePolicy(t *testing.T) {
	policy := DefaultPolicy()
	policy.UnsignedDirection = Expense
	p := NewParser(policy)

	got := p.Parse("500 groceries", testNow).(RecordEntry)
	if !got.Amount.Equal(core.MustAmount("-500")) {
		t.Errorf("amount = %s, want -500 under expense-default policy", got.Amount)
	}
	// An explicit sign still wins.
	got = p.Parse("+500 salary", testNow).(RecordEntry)
	if !got.Amount.Equal(core.MustAmount("500")) {
		t.Errorf("amount = %s, want 500 for explicit plus", got.Amount)
	}
}

func TestParseUnknown(t *testing.T) {
	p := NewParser(DefaultPolicy())

	inputs := []string{
		"",
		"   ",
		"hello there",
		"12.34.56 groceries",
		"500",          // amount without category
		"spent 500",    // keyword+amount without category
		"spent",        // keyword alone
		"0 groceries",  // zero amount
		"abc groceries",
	}
	for _, input := range inputs {
		if _, ok := p.Parse(input, testNow).(Unknown); !ok {
			t.Errorf("Parse(%q) = %#v, want Unknown", input, p.Parse(input, testNow))
		}
	}
}

// Every input yields exactly one variant, and the same variant every time.
func TestParseTotalAndDeterministic(t *testing.T) {
	p := NewParser(DefaultPolicy())
	inputs := []string{
		"", "/", "//", "/balance 2024-13", "-1 a", "+ 1 a", " ",
		"-500 groceries milk", "/help", "ловко 12 x", "12,3 кофе",
	}
	for _, input := range inputs {
		first := p.Parse(input, testNow)
		second := p.Parse(input, testNow)
		if first == nil || second == nil {
			t.Fatalf("Parse(%q) returned nil", input)
		}
		if firstR, ok := first.(RecordEntry); ok {
			if !firstR.Amount.Equal(second.(RecordEntry).Amount) {
				t.Errorf("Parse(%q) not deterministic", input)
			}
			continue
		}
		if first != second {
			t.Errorf("Parse(%q) not deterministic: %#v vs %#v", input, first, second)
		}
	}
}
