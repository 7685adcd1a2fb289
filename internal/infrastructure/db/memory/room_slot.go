// Package memory provides an in-process shared slot: one Slot is the
// storage medium, and each client context opens its own Handle onto it.
// Several handles in one process behave like browser tabs sharing a
// storage key, change notifications included, which also makes this the
// backend of choice for tests and single-process use.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/scrumprime/poker/internal/core/domain"
	"github.com/scrumprime/poker/internal/core/ports"
	roomsync "github.com/scrumprime/poker/internal/infrastructure/sync"
	"github.com/scrumprime/poker/internal/metrics"
)

// Slot is the shared medium. The payload is kept serialized, exactly like a
// real storage backend, so malformed content behaves the same way here as
// everywhere else.
type Slot struct {
	mu      sync.Mutex
	payload []byte
	handles []*Handle
}

// NewSlot creates an empty shared slot.
func NewSlot() *Slot {
	return &Slot{}
}

// SetPayload overwrites the raw stored bytes. Intended for tests that need
// to seed the slot, including with malformed content.
func (s *Slot) SetPayload(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = append([]byte(nil), p...)
}

// Open returns a new client handle onto the slot.
func (s *Slot) Open(log zerolog.Logger) *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := &Handle{slot: s, log: log}
	s.handles = append(s.handles, h)
	return h
}

// Handle is one client context's connection to the shared slot.
type Handle struct {
	slot *Slot
	log  zerolog.Logger

	mu    sync.Mutex
	relay *roomsync.Relay
}

var _ ports.RoomRepository = (*Handle)(nil)

// Load decodes the current payload. Absent or malformed content yields an
// empty collection.
func (h *Handle) Load(_ context.Context) ([]domain.Room, error) {
	h.slot.mu.Lock()
	raw := append([]byte(nil), h.slot.payload...)
	h.slot.mu.Unlock()

	if len(raw) == 0 {
		return nil, nil
	}
	var rooms []domain.Room
	if err := json.Unmarshal(raw, &rooms); err != nil {
		metrics.RecoveredLoadsTotal.Inc()
		h.log.Warn().Err(err).Str("key", ports.RoomsKey).Msg("malformed room collection, starting empty")
		return nil, nil
	}
	return rooms, nil
}

// Save replaces the payload wholesale and hands the new collection to every
// other handle's relay. The writer itself is skipped, and delivery never
// runs on the writer's goroutine: a subscriber may take its own locks in
// the callback while it is mid-save.
func (h *Handle) Save(_ context.Context, rooms []domain.Room) error {
	payload, err := json.Marshal(rooms)
	if err != nil {
		return fmt.Errorf("encoding room collection: %w", err)
	}

	h.slot.mu.Lock()
	h.slot.payload = payload
	listeners := make([]*Handle, 0, len(h.slot.handles))
	for _, other := range h.slot.handles {
		if other != h {
			listeners = append(listeners, other)
		}
	}
	h.slot.mu.Unlock()

	for _, other := range listeners {
		other.notify(rooms)
	}
	return nil
}

// Subscribe starts forwarding other handles' saves to onChange, in arrival
// order, until ctx is cancelled.
func (h *Handle) Subscribe(ctx context.Context, onChange func([]domain.Room)) error {
	relay := roomsync.NewRelay(onChange, h.log)
	relay.Start(ctx)

	h.mu.Lock()
	h.relay = relay
	h.mu.Unlock()
	return nil
}

func (h *Handle) notify(rooms []domain.Room) {
	h.mu.Lock()
	relay := h.relay
	h.mu.Unlock()
	if relay != nil {
		relay.Enqueue(rooms)
	}
}
