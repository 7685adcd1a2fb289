package poker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/scrumprime/poker/internal/core/domain"
	"github.com/scrumprime/poker/internal/core/ports"
	"github.com/scrumprime/poker/internal/infrastructure/config"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Env:      "test",
		LogLevel: "error",
		Backend:  config.BackendMemory,
		BaseURL:  "http://poker.local",
	}
}

func TestNew_MemoryBackend_FullRound(t *testing.T) {
	ctx := context.Background()
	client, err := New(ctx, memoryConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer client.Close()

	room, err := client.Rooms.CreateRoom(ctx, ports.CreateRoomInput{
		RoomName:        "Sprint 12",
		FacilitatorName: "Pat",
	})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	// A solo facilitator has no voting participants, so the round is
	// vacuously complete and can be revealed immediately.
	revealed, err := client.Rooms.Reveal(ctx)
	if err != nil {
		t.Fatalf("Reveal: %v", err)
	}
	if revealed.State != domain.StateRevealed {
		t.Fatalf("state = %q, want %q", revealed.State, domain.StateRevealed)
	}

	avg, err := client.Rooms.Averages(room.ID)
	if err != nil {
		t.Fatalf("Averages: %v", err)
	}
	if avg.Team != domain.NotAvailable {
		t.Errorf("Team = %q, want %q", avg.Team, domain.NotAvailable)
	}

	if got := client.Rooms.ShareLink(room.ID); got != "http://poker.local/#/room/"+room.ID {
		t.Errorf("ShareLink = %q", got)
	}
}

func TestNew_BoltBackend_PersistsAcrossClients(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig()
	cfg.Backend = config.BackendBolt
	cfg.Bolt.Path = filepath.Join(t.TempDir(), "poker.db")

	client, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	room, err := client.Rooms.CreateRoom(ctx, ports.CreateRoomInput{
		RoomName:        "Sprint",
		FacilitatorName: "Pat",
	})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// A later client over the same file sees the saved collection.
	reopened, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	rooms := reopened.Rooms.ListRooms()
	if len(rooms) != 1 || rooms[0].ID != room.ID {
		t.Errorf("collection lost across restart: %+v", rooms)
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	cfg := memoryConfig()
	cfg.Backend = "cassandra"
	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestNew_SessionlessOperationsFail(t *testing.T) {
	ctx := context.Background()
	client, err := New(ctx, memoryConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer client.Close()

	if _, err := client.Rooms.CastVote(ctx, 5); !errors.Is(err, domain.ErrNoSession) {
		t.Errorf("CastVote: got %v, want ErrNoSession", err)
	}
}
