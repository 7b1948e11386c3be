package bot

import (
	"fmt"
	"strings"

	"kassabot/internal/core"
)

const (
	replyDenied = "Sorry, this bot is private. Ask the owner to add your ID to the allow-list."

	replyTryLater = "The ledger is not reachable right now. Your entry was NOT recorded, please try again later."

	replyHelp = `I keep your cash-flow ledger.

Record an entry:
  -500 groceries milk        expense 500, category "groceries", note "milk"
  3000 salary                income 3000
  spent 45 lunch             keyword sets the direction

Check the balance:
  /balance                   this month
  /balance today|week|year|all
  /balance 2024-11           a specific month

Amounts accept both "12.50" and "12,50".`

	replyUnknown = "I didn't understand that. Send /help for the message format."
)

func formatRecorded(e core.Entry) string {
	direction := "income"
	if e.Amount.IsNegative() {
		direction = "expense"
	}
	s := fmt.Sprintf("Recorded %s %s in %q", direction, e.Amount.Abs(), e.Category)
	if e.Note != "" {
		s += fmt.Sprintf(" (%s)", e.Note)
	}
	return s + "."
}

func formatSummary(label string, s core.Summary) string {
	if s.Entries == 0 {
		return fmt.Sprintf("No entries for %s.", label)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Balance for %s (%d entries)\n", label, s.Entries)
	fmt.Fprintf(&b, "Income:  %s\n", s.Income)
	fmt.Fprintf(&b, "Expense: %s\n", s.Expense.Abs())
	fmt.Fprintf(&b, "Net:     %s", s.Net)
	if len(s.ByCategory) > 0 {
		b.WriteString("\n\nBy category:")
		for _, c := range s.ByCategory {
			fmt.Fprintf(&b, "\n  %s: %s", c.Name, c.Amount)
		}
	}
	return b.String()
}
