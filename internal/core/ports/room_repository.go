package ports

import (
	"context"

	"github.com/scrumprime/poker/internal/core/domain"
)

// Storage key names. They are deliberately not configurable so that
// existing persisted collections keep working.
const (
	RoomsKey   = "scrum_poker_rooms"
	SessionKey = "scrum_poker_user"
)

// RoomRepository is the shared slot holding the full room collection.
//
// The slot is wholesale: Save replaces the entire collection with no merge
// or compare-and-swap. Two writers racing silently clobber each other and
// the last write wins. That limitation is part of the design contract, not
// something adapters may try to fix.
type RoomRepository interface {
	// Load returns the current collection. Malformed persisted content is
	// fail-soft: adapters log it and return an empty collection rather than
	// an error. Errors are reserved for the backend being unreachable.
	Load(ctx context.Context) ([]domain.Room, error)

	// Save replaces the slot with the given collection (last write wins).
	Save(ctx context.Context, rooms []domain.Room) error

	// Subscribe registers a callback invoked with the full new collection
	// whenever another writer updates the slot. The subscriber's own Save
	// calls do not trigger its callback. Subscription ends when ctx is
	// cancelled. Adapters without cross-process signalling may make this a
	// no-op.
	Subscribe(ctx context.Context, onChange func([]domain.Room)) error
}

// Session identifies the local user: which participant they are and which
// room that participant belongs to. It is scoped to one client context and
// is the sole mechanism distinguishing "self" from other participants.
type Session struct {
	UserID string `json:"userId"`
	RoomID string `json:"roomId"`
}

// SessionStore holds at most one Session per client context.
type SessionStore interface {
	Get() (Session, bool)
	Set(Session)
	Clear()
}
