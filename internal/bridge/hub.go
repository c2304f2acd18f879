package bridge

import (
	"log/slog"
	"sync"

	"github.com/ytget/video-downloader/internal/model"
)

// DefaultSubscriberBuffer is the per-subscriber queue length
const DefaultSubscriberBuffer = 64

// Hub fans events out to every subscriber. Publish never blocks: when a
// subscriber's queue is full its oldest event is dropped.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan model.Event]struct{}
	buffer int
	logger *slog.Logger
}

// NewHub creates a hub with the given per-subscriber buffer
func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subs:   make(map[chan model.Event]struct{}),
		buffer: buffer,
		logger: logger,
	}
}

// Subscribe registers a new listener. The returned func unregisters it and
// closes the channel.
func (h *Hub) Subscribe() (<-chan model.Event, func()) {
	ch := make(chan model.Event, h.buffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers returns the number of active listeners
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Publish delivers ev to every subscriber, latest wins
func (h *Hub) Publish(ev model.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		h.deliver(ch, ev)
	}
}

func (h *Hub) deliver(ch chan model.Event, ev model.Event) {
	for {
		select {
		case ch <- ev:
			return
		default:
		}
		// full: drop the oldest queued event and retry
		select {
		case dropped := <-ch:
			h.logger.Debug("event dropped for slow subscriber", "type", dropped.Type)
		default:
		}
	}
}
