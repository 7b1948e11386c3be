package command

import (
	"strings"
	"time"

	"kassabot/internal/core"
)

// Direction is the sign applied to amounts written without one.
type Direction string

const (
	Income  Direction = "income"
	Expense Direction = "expense"
)

// Policy is the deployment-configurable sign convention for free-form text.
// A leading keyword forces the amount sign; an explicit sign on the number
// itself always wins over UnsignedDirection.
type Policy struct {
	IncomeKeywords    []string
	ExpenseKeywords   []string
	UnsignedDirection Direction
}

// DefaultPolicy matches the documented single-owner deployment: bare amounts
// are income, "spent"-style keywords flip to expense.
func DefaultPolicy() Policy {
	return Policy{
		IncomeKeywords:    []string{"income", "in", "received", "got"},
		ExpenseKeywords:   []string{"expense", "out", "spent", "paid"},
		UnsignedDirection: Income,
	}
}

// Parser converts message text into Commands under a fixed Policy.
type Parser struct {
	policy Policy
}

func NewParser(policy Policy) *Parser {
	if policy.UnsignedDirection == "" {
		policy.UnsignedDirection = Income
	}
	return &Parser{policy: policy}
}

// Parse maps text to exactly one Command. now anchors the entry timestamp
// and relative balance periods; no other state is consulted.
func (p *Parser) Parse(text string, now time.Time) Command {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Unknown{Raw: text}
	}
	if strings.HasPrefix(trimmed, "/") {
		return p.parseSlash(trimmed, now)
	}
	return p.parseFreeForm(text, trimmed, now)
}

func (p *Parser) parseSlash(trimmed string, now time.Time) Command {
	fields := strings.Fields(trimmed)
	name := strings.ToLower(fields[0])
	// Group chats address commands as "/balance@BotName".
	if at := strings.Index(name, "@"); at > 0 {
		name = name[:at]
	}
	switch name {
	case "/start", "/help":
		return Help{}
	case "/balance":
		period, label := parsePeriod(strings.Join(fields[1:], " "), now)
		return QueryBalance{Period: period, Label: label}
	default:
		return Unknown{Raw: trimmed}
	}
}

// parseFreeForm expects "[keyword] amount category [note...]".
func (p *Parser) parseFreeForm(raw, trimmed string, now time.Time) Command {
	tokens := strings.Fields(trimmed)

	forced := Direction("")
	if d, ok := p.keywordDirection(tokens[0]); ok {
		forced = d
		tokens = tokens[1:]
	}
	if len(tokens) < 2 {
		return Unknown{Raw: raw}
	}

	amount, err := core.ParseAmount(tokens[0])
	if err != nil {
		return Unknown{Raw: raw}
	}
	explicitSign := strings.HasPrefix(tokens[0], "-") || strings.HasPrefix(tokens[0], "+")

	switch {
	case forced == Expense:
		amount = amount.Abs().Neg()
	case forced == Income:
		amount = amount.Abs()
	case !explicitSign && p.policy.UnsignedDirection == Expense:
		amount = amount.Neg()
	}

	category := tokens[1]
	if strings.TrimSpace(category) == "" {
		return Unknown{Raw: raw}
	}
	return RecordEntry{
		Amount:    amount,
		Category:  category,
		Note:      strings.Join(tokens[2:], " "),
		Timestamp: now,
	}
}

func (p *Parser) keywordDirection(token string) (Direction, bool) {
	t := strings.ToLower(token)
	for _, k := range p.policy.IncomeKeywords {
		if t == strings.ToLower(k) {
			return Income, true
		}
	}
	for _, k := range p.policy.ExpenseKeywords {
		if t == strings.ToLower(k) {
			return Expense, true
		}
	}
	return "", false
}

// parsePeriod resolves the optional /balance argument. Unrecognized text
// falls back to the current month rather than failing.
func parsePeriod(arg string, now time.Time) (core.Period, string) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "", "month":
		return core.MonthOf(now), "this month"
	case "today", "day":
		return core.DayOf(now), "today"
	case "week":
		return core.WeekOf(now), "this week"
	case "year":
		return core.YearOf(now), "this year"
	case "all":
		return core.Period{}, "all time"
	}
	if t, err := time.ParseInLocation("2006-01", strings.TrimSpace(arg), now.Location()); err == nil {
		return core.MonthOf(t), t.Format("January 2006")
	}
	return core.MonthOf(now), "this month"
}
