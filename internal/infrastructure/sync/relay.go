// Package sync serializes externally written room snapshots before they
// reach the local collection.
package sync

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/scrumprime/poker/internal/core/domain"
)

const channelBuffer = 16

// Relay applies incoming snapshots through a single worker channel so they
// land in arrival order, one at a time. Slot adapters receive change
// notifications on their own goroutines; funnelling them through a Relay
// preserves the single-threaded event-loop semantics the room collection
// was designed around.
type Relay struct {
	ch    chan []domain.Room
	apply func([]domain.Room)
	log   zerolog.Logger
}

// NewRelay creates a Relay forwarding snapshots to apply.
func NewRelay(apply func([]domain.Room), log zerolog.Logger) *Relay {
	return &Relay{
		ch:    make(chan []domain.Room, channelBuffer),
		apply: apply,
		log:   log,
	}
}

// Start launches the worker goroutine. The worker stops when ctx is
// cancelled.
func (r *Relay) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case rooms, ok := <-r.ch:
				if !ok {
					return
				}
				r.apply(rooms)
			}
		}
	}()
}

// Enqueue hands a snapshot to the worker. When the buffer is full the
// oldest queued snapshot is discarded to make room: the slot is wholesale,
// so intermediate states carry no information once a newer one exists.
func (r *Relay) Enqueue(rooms []domain.Room) {
	for {
		select {
		case r.ch <- rooms:
			return
		default:
		}
		select {
		case stale := <-r.ch:
			r.log.Warn().Int("rooms", len(stale)).Msg("relay backlog full, stale snapshot discarded")
		default:
		}
	}
}
