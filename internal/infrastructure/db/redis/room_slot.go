package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/scrumprime/poker/internal/core/domain"
	"github.com/scrumprime/poker/internal/core/ports"
	"github.com/scrumprime/poker/internal/infrastructure/sync"
	"github.com/scrumprime/poker/internal/metrics"
)

// changeChannel carries change notifications between clients sharing the
// slot. The published payload includes the full new collection, so
// subscribers never have to re-read the key.
const changeChannel = ports.RoomsKey + ":changed"

// changeEvent is the pub/sub envelope. Writer identifies the publishing
// client so it can ignore its own updates.
type changeEvent struct {
	Writer string        `json:"writer"`
	Rooms  []domain.Room `json:"rooms"`
}

// RoomSlot persists the room collection in a single Redis key and fans out
// change notifications over pub/sub. Saves replace the key wholesale with
// no compare-and-swap: concurrent writers clobber each other and the last
// write wins, which is the slot's documented contract.
type RoomSlot struct {
	client     *redis.Client
	instanceID string
	log        zerolog.Logger
}

// NewRoomSlot wraps a connected Redis client.
func NewRoomSlot(client *redis.Client, log zerolog.Logger) *RoomSlot {
	return &RoomSlot{
		client:     client,
		instanceID: uuid.NewString(),
		log:        log,
	}
}

var _ ports.RoomRepository = (*RoomSlot)(nil)

// Load reads the collection from the slot key. A missing key or malformed
// content yields an empty collection; only backend failures are errors.
func (s *RoomSlot) Load(ctx context.Context) ([]domain.Room, error) {
	raw, err := s.client.Get(ctx, ports.RoomsKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %q: %w", ports.RoomsKey, err)
	}

	var rooms []domain.Room
	if err := json.Unmarshal(raw, &rooms); err != nil {
		metrics.RecoveredLoadsTotal.Inc()
		s.log.Warn().Err(err).Str("key", ports.RoomsKey).Msg("malformed room collection, starting empty")
		return nil, nil
	}
	return rooms, nil
}

// Save replaces the slot wholesale and notifies other clients.
func (s *RoomSlot) Save(ctx context.Context, rooms []domain.Room) error {
	payload, err := json.Marshal(rooms)
	if err != nil {
		return fmt.Errorf("encoding room collection: %w", err)
	}
	if err := s.client.Set(ctx, ports.RoomsKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("writing slot %q: %w", ports.RoomsKey, err)
	}

	event, err := json.Marshal(changeEvent{Writer: s.instanceID, Rooms: rooms})
	if err != nil {
		return fmt.Errorf("encoding change event: %w", err)
	}
	if err := s.client.Publish(ctx, changeChannel, event).Err(); err != nil {
		// The write itself succeeded; peers will catch up on next load.
		s.log.Warn().Err(err).Msg("failed to publish slot change")
	}
	return nil
}

// Subscribe listens on the change channel and forwards other writers'
// collections to onChange, in arrival order, until ctx is cancelled.
func (s *RoomSlot) Subscribe(ctx context.Context, onChange func([]domain.Room)) error {
	pubsub := s.client.Subscribe(ctx, changeChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("subscribing to %q: %w", changeChannel, err)
	}

	relay := sync.NewRelay(onChange, s.log)
	relay.Start(ctx)

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event changeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					s.log.Warn().Err(err).Msg("malformed slot change event, skipped")
					continue
				}
				if event.Writer == s.instanceID {
					continue
				}
				relay.Enqueue(event.Rooms)
			}
		}
	}()
	return nil
}
