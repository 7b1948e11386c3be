// Package dedup suppresses redelivered webhook updates.
//
// Telegram redelivers an update whenever the previous acknowledgment was
// slow (typically around cold starts), and a ledger must never record the
// same event twice. The window is volatile: after a restart a redelivery
// is indistinguishable from a new update, which is an accepted limitation.
package dedup

import (
	"container/list"
	"sync"
	"time"
)

// Window is a bounded, time-ordered record of recently seen update IDs.
// Check-and-record is a single locked operation so concurrent deliveries
// of the same update resolve to exactly one FirstSeen.
type Window struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	items   map[int]*list.Element
	order   *list.List // front = newest
	now     func() time.Time
}

type seenEntry struct {
	id        int
	expiresAt time.Time
}

// NewWindow creates a window that forgets IDs after ttl, holding at most
// maxSize entries. The ttl must exceed the worst plausible redelivery
// delay (cold-start wake plus processing).
func NewWindow(maxSize int, ttl time.Duration) *Window {
	return &Window{
		ttl:     ttl,
		maxSize: maxSize,
		items:   make(map[int]*list.Element),
		order:   list.New(),
		now:     time.Now,
	}
}

// FirstSeen atomically records id and reports whether this is the first
// delivery inside the retention horizon. Expired entries are pruned
// lazily on every call.
func (w *Window) FirstSeen(id int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	w.pruneLocked(now)

	if _, dup := w.items[id]; dup {
		return false
	}
	elem := w.order.PushFront(&seenEntry{id: id, expiresAt: now.Add(w.ttl)})
	w.items[id] = elem

	if w.order.Len() > w.maxSize {
		if oldest := w.order.Back(); oldest != nil {
			w.removeLocked(oldest)
		}
	}
	return true
}

// CleanExpired removes all expired entries and returns how many were
// evicted. Meant for a periodic janitor; FirstSeen prunes on its own.
func (w *Window) CleanExpired() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pruneLocked(w.now())
}

// Size returns the number of retained IDs.
func (w *Window) Size() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

// pruneLocked drops expired entries from the old end of the list. Entries
// are inserted in time order, so the scan stops at the first live one.
func (w *Window) pruneLocked(now time.Time) int {
	removed := 0
	for {
		oldest := w.order.Back()
		if oldest == nil {
			break
		}
		if now.Before(oldest.Value.(*seenEntry).expiresAt) {
			break
		}
		w.removeLocked(oldest)
		removed++
	}
	return removed
}

func (w *Window) removeLocked(elem *list.Element) {
	entry := elem.Value.(*seenEntry)
	delete(w.items, entry.id)
	w.order.Remove(elem)
}
