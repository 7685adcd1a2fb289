package session

import (
	"testing"

	"github.com/scrumprime/poker/internal/core/ports"
)

func TestStore_Lifecycle(t *testing.T) {
	s := NewStore()

	if _, ok := s.Get(); ok {
		t.Fatal("fresh store must have no session")
	}

	s.Set(ports.Session{UserID: "u1", RoomID: "r1"})
	sess, ok := s.Get()
	if !ok || sess.UserID != "u1" || sess.RoomID != "r1" {
		t.Fatalf("unexpected session: %+v ok=%v", sess, ok)
	}

	// Setting again replaces wholesale.
	s.Set(ports.Session{UserID: "u2", RoomID: "r2"})
	sess, _ = s.Get()
	if sess.UserID != "u2" {
		t.Errorf("session not replaced: %+v", sess)
	}

	s.Clear()
	if _, ok := s.Get(); ok {
		t.Error("cleared store must have no session")
	}
}
