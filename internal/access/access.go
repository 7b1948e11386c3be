// Package access implements the sender allow-list.
package access

// Guard authorizes inbound senders against a fixed allow-list. An empty
// list means open policy: every sender is authorized. The guard is
// immutable after construction, so it is safe for concurrent use without
// locking.
type Guard struct {
	allowed map[int64]struct{}
}

// NewGuard builds a guard from the configured sender IDs.
func NewGuard(ids []int64) *Guard {
	if len(ids) == 0 {
		return &Guard{}
	}
	allowed := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		allowed[id] = struct{}{}
	}
	return &Guard{allowed: allowed}
}

// Allowed reports whether the sender may use the bot.
func (g *Guard) Allowed(senderID int64) bool {
	if len(g.allowed) == 0 {
		return true
	}
	_, ok := g.allowed[senderID]
	return ok
}

// Open reports whether the guard runs with no allow-list at all.
func (g *Guard) Open() bool {
	return len(g.allowed) == 0
}
