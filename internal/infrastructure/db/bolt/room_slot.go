// Package bolt stores the room collection in a local bbolt file: the
// single-machine analogue of the shared slot, for running without any
// external backend.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	bbolt "go.etcd.io/bbolt"

	"github.com/scrumprime/poker/internal/core/domain"
	"github.com/scrumprime/poker/internal/core/ports"
	"github.com/scrumprime/poker/internal/metrics"
)

var bucketSlots = []byte("slots")

// RoomSlot persists the room collection under the fixed slot key in a
// single-file database. There is no cross-process change signal: the file
// is owned by one process at a time (bbolt takes an exclusive lock), so
// Subscribe is a no-op.
type RoomSlot struct {
	db  *bbolt.DB
	log zerolog.Logger
}

// Open opens (creating if needed) the database file at path.
func Open(path string, log zerolog.Logger) (*RoomSlot, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt file %q: %w", path, err)
	}
	return &RoomSlot{db: db, log: log}, nil
}

var _ ports.RoomRepository = (*RoomSlot)(nil)

// Load reads the collection. A missing bucket or key, or malformed content,
// yields an empty collection.
func (s *RoomSlot) Load(_ context.Context) ([]domain.Room, error) {
	var raw []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSlots)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(ports.RoomsKey)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading slot %q: %w", ports.RoomsKey, err)
	}
	if raw == nil {
		return nil, nil
	}

	var rooms []domain.Room
	if err := json.Unmarshal(raw, &rooms); err != nil {
		metrics.RecoveredLoadsTotal.Inc()
		s.log.Warn().Err(err).Str("key", ports.RoomsKey).Msg("malformed room collection, starting empty")
		return nil, nil
	}
	return rooms, nil
}

// Save replaces the slot wholesale.
func (s *RoomSlot) Save(_ context.Context, rooms []domain.Room) error {
	payload, err := json.Marshal(rooms)
	if err != nil {
		return fmt.Errorf("encoding room collection: %w", err)
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketSlots)
		if err != nil {
			return err
		}
		return b.Put([]byte(ports.RoomsKey), payload)
	})
	if err != nil {
		return fmt.Errorf("writing slot %q: %w", ports.RoomsKey, err)
	}
	return nil
}

// Subscribe is a no-op: the file cannot be written by another process while
// this one holds it.
func (s *RoomSlot) Subscribe(context.Context, func([]domain.Room)) error {
	return nil
}

// Close releases the database file.
func (s *RoomSlot) Close() error {
	return s.db.Close()
}
