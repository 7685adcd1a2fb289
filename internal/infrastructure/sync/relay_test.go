package sync

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/scrumprime/poker/internal/core/domain"
)

var discardLogger = zerolog.Nop()

func snapshot(name string) []domain.Room {
	return []domain.Room{{ID: name, Name: name}}
}

func TestRelay_AppliesInArrivalOrder(t *testing.T) {
	applied := make(chan string, 8)
	r := NewRelay(func(rooms []domain.Room) { applied <- rooms[0].ID }, discardLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	r.Enqueue(snapshot("a"))
	r.Enqueue(snapshot("b"))
	r.Enqueue(snapshot("c"))

	for _, want := range []string{"a", "b", "c"} {
		select {
		case got := <-applied:
			if got != want {
				t.Fatalf("applied %q, want %q", got, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func TestRelay_OverflowDropsOldest(t *testing.T) {
	applied := make(chan string, channelBuffer+4)
	r := NewRelay(func(rooms []domain.Room) { applied <- rooms[0].ID }, discardLogger)

	// Fill the buffer before the worker starts, then push two more.
	for i := 0; i < channelBuffer; i++ {
		r.Enqueue(snapshot("old"))
	}
	r.Enqueue(snapshot("newer"))
	r.Enqueue(snapshot("newest"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	var got []string
	for i := 0; i < channelBuffer; i++ {
		select {
		case id := <-applied:
			got = append(got, id)
		case <-time.After(time.Second):
			t.Fatal("timed out draining relay")
		}
	}
	if got[len(got)-2] != "newer" || got[len(got)-1] != "newest" {
		t.Errorf("latest snapshots must survive overflow, tail was %v", got[len(got)-2:])
	}
	for _, id := range got[:len(got)-2] {
		if id != "old" {
			t.Errorf("unexpected id %q in drained backlog", id)
		}
	}
}

func TestRelay_StopsOnContextCancel(t *testing.T) {
	applied := make(chan string, 1)
	r := NewRelay(func(rooms []domain.Room) { applied <- rooms[0].ID }, discardLogger)

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	cancel()

	// The worker may already be gone; the enqueue itself must not block.
	done := make(chan struct{})
	go func() {
		r.Enqueue(snapshot("late"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked after cancellation")
	}
}
