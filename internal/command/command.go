// Package command turns raw message text into typed bot commands.
//
// Parsing is pure and total: every input maps to exactly one Command and the
// same input always maps to the same variant. Unrecognized input becomes
// Unknown, never an error.
package command

import (
	"time"

	"kassabot/internal/core"
)

// Command is a parsed, validated user intent.
type Command interface {
	isCommand()
}

type (
	// RecordEntry appends one movement to the ledger. Amount is signed:
	// negative for expenses, positive for income.
	RecordEntry struct {
		Amount    core.Money
		Category  string
		Note      string
		Timestamp time.Time
	}

	// QueryBalance reads the ledger back for a period. Label is the
	// human-readable period name used in the reply.
	QueryBalance struct {
		Period core.Period
		Label  string
	}

	// Help covers /start and /help.
	Help struct{}

	// Unknown is anything the parser could not make sense of.
	Unknown struct {
		Raw string
	}
)

func (RecordEntry) isCommand()  {}
func (QueryBalance) isCommand() {}
func (Help) isCommand()         {}
func (Unknown) isCommand()      {}
