package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scrumprime/poker/internal/core/domain"
	"github.com/scrumprime/poker/internal/core/ports"
	"github.com/scrumprime/poker/internal/infrastructure/sync"
	"github.com/scrumprime/poker/internal/metrics"
)

const collectionSlots = "slots"

// slotDocument is the single document holding the whole room collection,
// keyed by the fixed slot name. Writer identifies the last writing client
// so subscribers can ignore their own updates.
type slotDocument struct {
	ID     string        `bson:"_id"`
	Writer string        `bson:"writer"`
	Rooms  []domain.Room `bson:"rooms"`
}

// RoomSlot persists the room collection as one MongoDB document and uses a
// change stream as the change-notification signal. Saves replace the
// document wholesale, last write wins, no merge.
type RoomSlot struct {
	col        *mongo.Collection
	instanceID string
	log        zerolog.Logger
}

// NewRoomSlot wraps the slots collection of the given database.
func NewRoomSlot(db *mongo.Database, log zerolog.Logger) *RoomSlot {
	return &RoomSlot{
		col:        db.Collection(collectionSlots),
		instanceID: uuid.NewString(),
		log:        log,
	}
}

var _ ports.RoomRepository = (*RoomSlot)(nil)

// Load reads the slot document. A missing or undecodable document yields an
// empty collection; only backend failures are errors.
func (s *RoomSlot) Load(ctx context.Context) ([]domain.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := s.col.FindOne(ctx, bson.M{"_id": ports.RoomsKey})
	if err := res.Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("reading slot %q: %w", ports.RoomsKey, err)
	}

	var doc slotDocument
	if err := res.Decode(&doc); err != nil {
		metrics.RecoveredLoadsTotal.Inc()
		s.log.Warn().Err(err).Str("key", ports.RoomsKey).Msg("malformed room collection, starting empty")
		return nil, nil
	}
	return doc.Rooms, nil
}

// Save replaces the slot document wholesale (upserting on first write).
func (s *RoomSlot) Save(ctx context.Context, rooms []domain.Room) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := slotDocument{ID: ports.RoomsKey, Writer: s.instanceID, Rooms: rooms}
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": ports.RoomsKey}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("writing slot %q: %w", ports.RoomsKey, err)
	}
	return nil
}

// Subscribe watches the slot document through a change stream and forwards
// other writers' collections to onChange until ctx is cancelled.
func (s *RoomSlot) Subscribe(ctx context.Context, onChange func([]domain.Room)) error {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"fullDocument._id": ports.RoomsKey}}},
	}
	stream, err := s.col.Watch(ctx, pipeline, options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		return fmt.Errorf("watching slot %q: %w", ports.RoomsKey, err)
	}

	relay := sync.NewRelay(onChange, s.log)
	relay.Start(ctx)

	go func() {
		defer stream.Close(context.Background())
		for stream.Next(ctx) {
			var event struct {
				FullDocument slotDocument `bson:"fullDocument"`
			}
			if err := stream.Decode(&event); err != nil {
				s.log.Warn().Err(err).Msg("malformed slot change event, skipped")
				continue
			}
			if event.FullDocument.Writer == s.instanceID {
				continue
			}
			relay.Enqueue(event.FullDocument.Rooms)
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			s.log.Error().Err(err).Msg("slot change stream closed")
		}
	}()
	return nil
}
