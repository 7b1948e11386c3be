package core

// CategoryAmount is an amount aggregated under one category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// Summary is the aggregate of a set of ledger entries for one period.
type Summary struct {
	Period     Period
	Entries    int
	Income     Money
	Expense    Money // negative or zero
	Net        Money
	ByCategory []CategoryAmount
}

// Summarize folds entries into a Summary, preserving first-seen category
// order. Entries outside the period are skipped.
func Summarize(period Period, entries []Entry) Summary {
	s := Summary{Period: period}
	byCat := map[string]int{}
	for _, e := range entries {
		if !period.Contains(e.Timestamp) {
			continue
		}
		s.Entries++
		if e.Amount.IsNegative() {
			s.Expense = s.Expense.Add(e.Amount)
		} else {
			s.Income = s.Income.Add(e.Amount)
		}
		s.Net = s.Net.Add(e.Amount)
		idx, seen := byCat[e.Category]
		if !seen {
			byCat[e.Category] = len(s.ByCategory)
			s.ByCategory = append(s.ByCategory, CategoryAmount{Name: e.Category, Amount: e.Amount})
			continue
		}
		s.ByCategory[idx].Amount = s.ByCategory[idx].Amount.Add(e.Amount)
	}
	return s
}
