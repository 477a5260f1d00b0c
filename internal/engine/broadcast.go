package engine

import (
	"sync"

	"github.com/MrSnakeDoc/curator/internal/domain"
)

// subscriberBuffer bounds how many snapshots a slow subscriber may
// lag before it starts missing intermediate ones.
const subscriberBuffer = 16

// Broadcaster fans job state snapshots out to subscribers. Publish
// never fails and never blocks: each snapshot is complete in itself,
// so a subscriber that misses one just renders the next.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[int]chan domain.JobState
	next int
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan domain.JobState)}
}

// Subscribe registers an observer. The returned cancel removes the
// subscription and closes the channel; it is safe to call twice.
func (b *Broadcaster) Subscribe() (<-chan domain.JobState, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan domain.JobState, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers s to every subscriber with buffer room.
func (b *Broadcaster) Publish(s domain.JobState) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- s:
		default:
		}
	}
}
