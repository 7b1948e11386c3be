// Package bot contains the dispatcher: the per-update state machine that
// ties the guard, the dedup window, the parser and the ledger together.
package bot

import (
	"context"
	"fmt"
	"time"

	"kassabot/internal/access"
	"kassabot/internal/cache"
	"kassabot/internal/command"
	"kassabot/internal/core"
	"kassabot/internal/dedup"
	"kassabot/internal/ledger"
	applog "kassabot/internal/log"
	"kassabot/internal/telegram"
)

// Dispatcher runs each update through
// authorized? -> first seen? -> parse -> execute -> reply.
// A failed authorization gets the fixed denial reply; a duplicate is
// dropped silently. Every other processed update gets exactly one reply
// attempt. All runtime errors are converted to a reply or a log line and
// never escape to the HTTP layer.
type Dispatcher struct {
	guard     *access.Guard
	window    *dedup.Window
	parser    *command.Parser
	ledger    ledger.Backend
	messenger telegram.Messenger
	balances  *cache.LRUCache[core.Summary]
	logger    *applog.Logger
}

type Options struct {
	Guard           *access.Guard
	Window          *dedup.Window
	Parser          *command.Parser
	Ledger          ledger.Backend
	Messenger       telegram.Messenger
	BalanceCacheTTL time.Duration
	Logger          *applog.Logger
}

func NewDispatcher(opts Options) *Dispatcher {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	ttl := opts.BalanceCacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Dispatcher{
		guard:     opts.Guard,
		window:    opts.Window,
		parser:    opts.Parser,
		ledger:    opts.Ledger,
		messenger: opts.Messenger,
		balances:  cache.NewLRUCache[core.Summary](64, ttl),
		logger:    logger.WithComponent(applog.ComponentDispatcher),
	}
}

// HandleUpdate processes one inbound update to completion. It never
// returns an error: outcomes are replies, silent drops, and log lines.
func (d *Dispatcher) HandleUpdate(ctx context.Context, upd core.Update) {
	logger := d.logger.With(
		applog.FieldUpdateID, upd.ID,
		applog.FieldSenderID, upd.SenderID,
		applog.FieldChatID, upd.ChatID,
	)

	if !d.guard.Allowed(upd.SenderID) {
		logger.Warn("sender denied")
		d.reply(ctx, logger, upd.ChatID, replyDenied)
		return
	}
	if !d.window.FirstSeen(upd.ID) {
		// Redelivery of an update already handled; no reply, no write.
		logger.Info("duplicate update dropped")
		return
	}

	cmd := d.parser.Parse(upd.Text, upd.ReceivedAt)
	d.reply(ctx, logger, upd.ChatID, d.execute(ctx, logger, upd, cmd))
}

// execute runs the command and produces the reply text.
func (d *Dispatcher) execute(ctx context.Context, logger *applog.Logger, upd core.Update, cmd command.Command) string {
	switch c := cmd.(type) {
	case command.RecordEntry:
		return d.recordEntry(ctx, logger, upd, c)
	case command.QueryBalance:
		return d.queryBalance(ctx, logger, c)
	case command.Help:
		return replyHelp
	default:
		logger.Info("unrecognized message", applog.FieldCommand, "unknown")
		return replyUnknown
	}
}

func (d *Dispatcher) recordEntry(ctx context.Context, logger *applog.Logger, upd core.Update, c command.RecordEntry) string {
	entry := core.Entry{
		Timestamp: c.Timestamp,
		SenderID:  upd.SenderID,
		Category:  c.Category,
		Amount:    c.Amount,
		Note:      c.Note,
	}
	ref, err := d.ledger.Append(ctx, entry)
	if err != nil {
		logger.Error("ledger append failed", applog.FieldError, err)
		return replyTryLater
	}
	// Stale balances must not survive a write.
	d.balances.Clear()
	logger.Info("entry recorded",
		applog.FieldCategory, entry.Category,
		applog.FieldAmount, entry.Amount.String(),
		applog.FieldRowRef, ref)
	return formatRecorded(entry)
}

func (d *Dispatcher) queryBalance(ctx context.Context, logger *applog.Logger, c command.QueryBalance) string {
	key := fmt.Sprintf("%d:%d", c.Period.Start.Unix(), c.Period.End.Unix())
	if summary, ok := d.balances.Get(key); ok {
		return formatSummary(c.Label, summary)
	}
	entries, err := d.ledger.Query(ctx, c.Period)
	if err != nil {
		logger.Error("ledger query failed", applog.FieldError, err)
		return replyTryLater
	}
	summary := core.Summarize(c.Period, entries)
	d.balances.Set(key, summary)
	return formatSummary(c.Label, summary)
}

// reply attempts exactly one outbound message. Send failures are logged,
// not retried; the transport client owns delivery retries.
func (d *Dispatcher) reply(ctx context.Context, logger *applog.Logger, chatID int64, text string) {
	if err := d.messenger.Send(ctx, chatID, text); err != nil {
		logger.Error("reply failed", applog.FieldError, err)
	}
}
