package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Update is one inbound Telegram event, reduced to the fields the
	// dispatcher needs. Immutable once built; never persisted locally.
	Update struct {
		ID         int
		SenderID   int64
		ChatID     int64
		Text       string
		ReceivedAt time.Time
	}

	// Entry is one ledger row: a single income or expense movement.
	// Rows are append-only; corrections are new offsetting entries.
	Entry struct {
		Timestamp time.Time
		SenderID  int64
		Category  string
		Amount    Money
		Note      string
	}

	// Period is a half-open time range [Start, End).
	// The zero Period matches every instant.
	Period struct {
		Start time.Time
		End   time.Time
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrZeroAmount    = errors.New("amount cannot be zero")
	ErrEmptyCategory = errors.New("empty category")
	ErrZeroTimestamp = errors.New("timestamp cannot be zero")
)

func (e Entry) Validate() error {
	if e.Timestamp.IsZero() {
		return ErrZeroTimestamp
	}
	if e.Amount.IsZero() {
		return ErrZeroAmount
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if len(e.Category) > 100 {
		return errors.New("category too long (max 100 characters)")
	}
	if len(e.Note) > 500 {
		return errors.New("note too long (max 500 characters)")
	}
	return nil
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	if p.IsZero() {
		return true
	}
	return !t.Before(p.Start) && t.Before(p.End)
}

// IsZero reports whether the period is unbounded.
func (p Period) IsZero() bool {
	return p.Start.IsZero() && p.End.IsZero()
}

// MonthOf returns the calendar-month period containing t.
func MonthOf(t time.Time) Period {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return Period{Start: start, End: start.AddDate(0, 1, 0)}
}

// DayOf returns the calendar-day period containing t.
func DayOf(t time.Time) Period {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return Period{Start: start, End: start.AddDate(0, 0, 1)}
}

// WeekOf returns the Monday-to-Monday week period containing t.
func WeekOf(t time.Time) Period {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).
		AddDate(0, 0, 1-weekday)
	return Period{Start: start, End: start.AddDate(0, 0, 7)}
}

// YearOf returns the calendar-year period containing t.
func YearOf(t time.Time) Period {
	start := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
	return Period{Start: start, End: start.AddDate(1, 0, 0)}
}
