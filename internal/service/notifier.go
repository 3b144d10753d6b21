package service

import (
	"context"
	"sync"

	"ims/internal/dto"

	"github.com/rs/zerolog/log"
)

// Notifier receives change events after a mutation has committed.
// Implementations must not block the caller for long.
type Notifier interface {
	Notify(ctx context.Context, evt dto.ChangeEvent)
}

// LowStockAlerter hands low-stock alerts to an out-of-band channel (e-mail).
type LowStockAlerter interface {
	EnqueueLowStockAlert(ctx context.Context, alert dto.LowStockAlert) error
}

// Broker is an in-process observer: every subscriber gets its own buffered
// channel. A subscriber that falls behind misses events rather than stalling
// the publisher.
type Broker struct {
	mu     sync.RWMutex
	subs   map[chan dto.ChangeEvent]struct{}
	buffer int
}

func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = 16
	}
	return &Broker{subs: make(map[chan dto.ChangeEvent]struct{}), buffer: buffer}
}

// Subscribe registers a new listener. Call cancel to unregister; the channel
// is closed afterwards.
func (b *Broker) Subscribe() (<-chan dto.ChangeEvent, func()) {
	ch := make(chan dto.ChangeEvent, b.buffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (b *Broker) Notify(_ context.Context, evt dto.ChangeEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- evt:
		default:
			log.Debug().Str("kind", evt.Kind).Msg("broker: subscriber full, event dropped")
		}
	}
}

// Subscribers returns the current listener count.
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, dto.ChangeEvent) {}
