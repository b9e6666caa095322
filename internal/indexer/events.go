package indexer

import "sync"

// EventType discriminates publication events from surfaced errors.
type EventType string

const (
	// EventPublished means a new snapshot became current.
	EventPublished EventType = "published"
	// EventCycleError means a load cycle failed; the previous snapshot
	// is still in place.
	EventCycleError EventType = "cycle_error"
	// EventWatchError means the watch subscription died and will not be
	// restarted automatically.
	EventWatchError EventType = "watch_error"
)

// Event is delivered to subscribers on publication and on surfaced errors.
type Event struct {
	Type       EventType `json:"type"`
	Generation uint64    `json:"generation,omitempty"`
	Err        error     `json:"-"`
}

// subscriberBuffer is the per-subscriber channel depth. A subscriber that
// falls further behind than this loses events rather than blocking
// publication.
const subscriberBuffer = 16

type subscribers struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Event
}

// Subscribe registers for events. The returned cancel function is idempotent
// and closes the channel.
func (ix *Indexer) Subscribe() (<-chan Event, func()) {
	ix.subsState.mu.Lock()
	defer ix.subsState.mu.Unlock()

	if ix.subsState.subs == nil {
		ix.subsState.subs = make(map[int]chan Event)
	}

	id := ix.subsState.next
	ix.subsState.next++
	ch := make(chan Event, subscriberBuffer)
	ix.subsState.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			ix.subsState.mu.Lock()
			delete(ix.subsState.subs, id)
			ix.subsState.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// notify fans an event out to all subscribers without blocking.
func (ix *Indexer) notify(ev Event) {
	ix.subsState.mu.Lock()
	defer ix.subsState.mu.Unlock()

	for _, ch := range ix.subsState.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
