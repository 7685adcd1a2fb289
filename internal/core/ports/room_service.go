package ports

import (
	"context"

	"github.com/scrumprime/poker/internal/core/domain"
)

// CreateRoomInput carries everything needed to open a new room. The creator
// becomes the room's facilitator.
type CreateRoomInput struct {
	RoomName        string `validate:"required"`
	FacilitatorName string `validate:"required"`
	// Password is optional; empty means anyone may join.
	Password string
}

// JoinRoomInput carries a join request for an existing room.
type JoinRoomInput struct {
	RoomID   string      `validate:"required"`
	Name     string      `validate:"required"`
	Role     domain.Role `validate:"required"`
	Password string
}

// RoomSummary is the lightweight room view used by the room list.
type RoomSummary struct {
	ID           string
	Name         string
	Protected    bool
	Participants int
}

// RoomService is the use-case surface of one client context: a local copy
// of the room collection plus the session identity of the acting user.
// Mutating operations act as the session participant, persist the updated
// collection, and return the new room snapshot.
type RoomService interface {
	// Start performs the initial load and subscribes to external updates.
	Start(ctx context.Context) error

	CreateRoom(ctx context.Context, in CreateRoomInput) (domain.Room, error)
	JoinRoom(ctx context.Context, in JoinRoomInput) (domain.Room, error)

	CastVote(ctx context.Context, value float64) (domain.Room, error)
	Reveal(ctx context.Context) (domain.Room, error)
	StartNewRound(ctx context.Context) (domain.Room, error)
	Leave(ctx context.Context) error
	Kick(ctx context.Context, targetID string) (domain.Room, error)
	SetMultiplier(ctx context.Context, role domain.Role, percent int) (domain.Room, error)
	// SetDeck parses a deck specification string (see domain.ParseDeck) and
	// replaces the room's cards.
	SetDeck(ctx context.Context, deckSpec string) (domain.Room, error)

	ListRooms() []RoomSummary
	// CurrentRoom resolves the session against the room being viewed. A
	// missing session, a session pointing at a different room, or a session
	// whose participant no longer exists all clear the session and fail.
	CurrentRoom(viewedRoomID string) (domain.Room, domain.Participant, error)
	Averages(roomID string) (domain.Averages, error)
	// ShareLink returns the URL that drops a viewer at the join flow for
	// the room.
	ShareLink(roomID string) string
}
