package services

import "sync"

// broadcaster fans snapshots out to subscribers without ever blocking the
// publisher. A subscriber that falls behind loses intermediate values but
// always ends up holding the newest one.
type broadcaster[T any] struct {
	mu      sync.Mutex
	subs    map[int]chan T
	next    int
	version uint64
	closed  bool
}

func (b *broadcaster[T]) subscribe(buffer int) (<-chan T, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan T, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)
		return ch, func() {}
	}
	if b.subs == nil {
		b.subs = make(map[int]chan T)
	}
	id := b.next
	b.next++
	b.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
}

// publish delivers v if version is newer than anything published before.
// Versions come from the owner's state lock, so late publishers of an older
// snapshot are dropped.
func (b *broadcaster[T]) publish(version uint64, v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || version <= b.version {
		return
	}
	b.version = version

	for _, ch := range b.subs {
		for {
			select {
			case ch <- v:
			default:
				// full: drop the oldest value and retry
				select {
				case <-ch:
				default:
				}
				continue
			}
			break
		}
	}
}

func (b *broadcaster[T]) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
