// Package dedup tracks recently processed transaction hashes in a bounded
// first-in-first-out ledger, so a hash replayed by the stream is recognized
// until enough newer hashes have pushed it out.
package dedup

import "github.com/Abduttayyeb07/Monitor/internal/pkg/types"

// DefaultCapacity is the number of hashes a ledger retains when no explicit
// capacity is given.
const DefaultCapacity = 10_000

// Ledger is not safe for concurrent use. Callers own the synchronization,
// which in practice is a single consumer goroutine.
type Ledger struct {
	capacity int
	queue    []string
	head     int
	members  types.Set[string]
}

func NewLedger(capacity int) *Ledger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Ledger{
		capacity: capacity,
		members:  types.NewSet[string](),
	}
}

// Seen reports whether txHash is currently tracked. It never mutates the
// ledger: observing a hash is a separate act from recording it.
func (l *Ledger) Seen(txHash string) bool {
	_, ok := l.members[txHash]
	return ok
}

// MarkSeen records txHash, evicting the oldest tracked hash once the ledger
// is over capacity. Marking a hash that is already tracked changes nothing.
func (l *Ledger) MarkSeen(txHash string) {
	if l.Seen(txHash) {
		return
	}

	l.members.Add(txHash)
	l.queue = append(l.queue, txHash)
	if l.Len() > l.capacity {
		l.evictOldest()
	}
}

// Len returns the number of hashes currently tracked.
func (l *Ledger) Len() int {
	return len(l.queue) - l.head
}

func (l *Ledger) evictOldest() {
	oldest := l.queue[l.head]
	l.queue[l.head] = ""
	l.head++
	l.members.Delete(oldest)

	// Compact once the dead prefix dominates the backing slice, keeping
	// amortized cost constant without reallocating on every eviction.
	if l.head > len(l.queue)/2 {
		l.queue = append([]string(nil), l.queue[l.head:]...)
		l.head = 0
	}
}
