package bot

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"kassabot/internal/access"
	"kassabot/internal/command"
	"kassabot/internal/core"
	"kassabot/internal/dedup"
	"kassabot/internal/ledger"
)

type fakeLedger struct {
	mu        sync.Mutex
	appendErr error
	queryErr  error
	entries   []core.Entry
	appends   int
	queries   int
}

func (f *fakeLedger) Append(_ context.Context, e core.Entry) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appends++
	if f.appendErr != nil {
		return "", f.appendErr
	}
	f.entries = append(f.entries, e)
	return "fake:1", nil
}

func (f *fakeLedger) Query(_ context.Context, p core.Period) ([]core.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var out []core.Entry
	for _, e := range f.entries {
		if p.Contains(e.Timestamp) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeMessenger struct {
	mu    sync.Mutex
	sends []string
	chats []int64
}

func (f *fakeMessenger) Send(_ context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chats = append(f.chats, chatID)
	f.sends = append(f.sends, text)
	return nil
}

func (f *fakeMessenger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sends)
}

func (f *fakeMessenger) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sends) == 0 {
		return ""
	}
	return f.sends[len(f.sends)-1]
}

func newTestDispatcher(allowed []int64, backend ledger.Backend) (*Dispatcher, *fakeMessenger) {
	messenger := &fakeMessenger{}
	d := NewDispatcher(Options{
		Guard:     access.NewGuard(allowed),
		Window:    dedup.NewWindow(128, time.Minute),
		Parser:    command.NewParser(command.DefaultPolicy()),
		Ledger:    backend,
		Messenger: messenger,
	})
	return d, messenger
}

func update(id int, sender int64, text string) core.Update {
	return core.Update{
		ID:         id,
		SenderID:   sender,
		ChatID:     sender,
		Text:       text,
		ReceivedAt: time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC),
	}
}

func TestDeniedSenderGetsFixedReplyAndNoExecution(t *testing.T) {
	backend := &fakeLedger{}
	d, messenger := newTestDispatcher([]int64{100}, backend)

	d.HandleUpdate(context.Background(), update(1, 999, "-500 groceries"))

	if messenger.count() != 1 || messenger.last() != replyDenied {
		t.Errorf("sends = %v, want single denial", messenger.sends)
	}
	if backend.appends != 0 || backend.queries != 0 {
		t.Error("denied sender reached the ledger")
	}
}

func TestDuplicateUpdateIsSilentlyDropped(t *testing.T) {
	backend := &fakeLedger{}
	d, messenger := newTestDispatcher(nil, backend)

	d.HandleUpdate(context.Background(), update(7, 1, "-500 groceries milk"))
	d.HandleUpdate(context.Background(), update(7, 1, "-500 groceries milk"))

	if backend.appends != 1 {
		t.Errorf("appends = %d, want 1", backend.appends)
	}
	if messenger.count() != 1 {
		t.Errorf("sends = %d, want 1 (duplicate must be silent)", messenger.count())
	}
}

func TestRecordEntryRoundTrip(t *testing.T) {
	backend := &fakeLedger{}
	d, messenger := newTestDispatcher(nil, backend)

	d.HandleUpdate(context.Background(), update(1, 42, "-500 groceries milk"))

	if backend.appends != 1 {
		t.Fatalf("appends = %d, want 1", backend.appends)
	}
	e := backend.entries[0]
	if !e.Amount.Equal(core.MustAmount("-500")) || e.Category != "groceries" || e.Note != "milk" {
		t.Errorf("stored entry = %+v", e)
	}
	if e.SenderID != 42 {
		t.Errorf("sender = %d, want 42", e.SenderID)
	}
	reply := messenger.last()
	if !strings.Contains(reply, "expense") || !strings.Contains(reply, "500") || !strings.Contains(reply, "groceries") {
		t.Errorf("reply = %q", reply)
	}

	// Query the period containing the entry and find it back.
	d.HandleUpdate(context.Background(), update(2, 42, "/balance"))
	balance := messenger.last()
	if !strings.Contains(balance, "groceries") || !strings.Contains(balance, "500.00") {
		t.Errorf("balance reply = %q", balance)
	}
}

func TestLedgerUnavailableYieldsTryAgainReply(t *testing.T) {
	backend := &fakeLedger{appendErr: ledger.ErrUnavailable}
	d, messenger := newTestDispatcher(nil, backend)

	d.HandleUpdate(context.Background(), update(1, 1, "-500 groceries"))

	if messenger.count() != 1 || messenger.last() != replyTryLater {
		t.Errorf("sends = %v, want single try-later reply", messenger.sends)
	}
}

func TestHelpAndUnknownNeverTouchLedger(t *testing.T) {
	backend := &fakeLedger{}
	d, messenger := newTestDispatcher(nil, backend)

	d.HandleUpdate(context.Background(), update(1, 1, "/help"))
	d.HandleUpdate(context.Background(), update(2, 1, "/start"))
	d.HandleUpdate(context.Background(), update(3, 1, "what is this"))

	if backend.appends != 0 || backend.queries != 0 {
		t.Error("help/unknown reached the ledger")
	}
	if messenger.count() != 3 {
		t.Errorf("sends = %d, want 3", messenger.count())
	}
	if messenger.sends[0] != replyHelp || messenger.sends[1] != replyHelp {
		t.Error("help reply mismatch")
	}
	if messenger.sends[2] != replyUnknown {
		t.Errorf("unknown reply = %q", messenger.sends[2])
	}
}

func TestBalanceCaching(t *testing.T) {
	backend := &fakeLedger{}
	d, messenger := newTestDispatcher(nil, backend)

	d.HandleUpdate(context.Background(), update(1, 1, "/balance"))
	d.HandleUpdate(context.Background(), update(2, 1, "/balance"))
	if backend.queries != 1 {
		t.Errorf("queries = %d, want 1 (second served from cache)", backend.queries)
	}

	// A write invalidates cached balances.
	d.HandleUpdate(context.Background(), update(3, 1, "-10 coffee"))
	d.HandleUpdate(context.Background(), update(4, 1, "/balance"))
	if backend.queries != 2 {
		t.Errorf("queries = %d, want 2 after invalidation", backend.queries)
	}
	if !strings.Contains(messenger.last(), "coffee") {
		t.Errorf("post-write balance = %q", messenger.last())
	}
}

func TestConcurrentDuplicateDeliveries(t *testing.T) {
	backend := &fakeLedger{}
	d, messenger := newTestDispatcher(nil, backend)

	const goroutines = 32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			d.HandleUpdate(context.Background(), update(55, 1, "-500 groceries"))
		}()
	}
	close(start)
	wg.Wait()

	if backend.appends != 1 {
		t.Errorf("appends = %d, want exactly 1", backend.appends)
	}
	if messenger.count() != 1 {
		t.Errorf("sends = %d, want exactly 1", messenger.count())
	}
}
