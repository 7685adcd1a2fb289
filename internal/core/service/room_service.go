package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/scrumprime/poker/internal/core/domain"
	"github.com/scrumprime/poker/internal/core/ports"
	"github.com/scrumprime/poker/internal/metrics"
)

// RoomService models one client context: a local snapshot of the full room
// collection plus the session identity of the acting user. Every mutation
// applies a pure domain transition to the local snapshot and then writes
// the whole collection back to the shared slot. There is no merge: whoever
// saves last wins, exactly like concurrent browser tabs sharing one
// storage key.
type RoomService struct {
	repo      ports.RoomRepository
	session   ports.SessionStore
	baseURL   string
	log       zerolog.Logger
	validator *inputValidator

	mu    sync.RWMutex
	rooms []domain.Room
}

// NewRoomService wires a client context over the given slot and session
// store. baseURL is the prefix used for shareable room links.
func NewRoomService(repo ports.RoomRepository, session ports.SessionStore, baseURL string, log zerolog.Logger) *RoomService {
	return &RoomService{
		repo:      repo,
		session:   session,
		baseURL:   strings.TrimRight(baseURL, "/"),
		log:       log,
		validator: newInputValidator(),
	}
}

var _ ports.RoomService = (*RoomService)(nil)

// Start loads the initial collection and subscribes to externally written
// updates, which replace the local snapshot wholesale.
func (s *RoomService) Start(ctx context.Context) error {
	rooms, err := s.repo.Load(ctx)
	if err != nil {
		metrics.StorageErrorsTotal.WithLabelValues("load").Inc()
		return fmt.Errorf("initial load: %w", err)
	}

	s.mu.Lock()
	s.rooms = rooms
	s.mu.Unlock()

	if err := s.repo.Subscribe(ctx, s.applyExternal); err != nil {
		return fmt.Errorf("subscribing to slot changes: %w", err)
	}
	s.log.Info().Int("rooms", len(rooms)).Msg("room collection loaded")
	return nil
}

// applyExternal accepts another writer's collection wholesale. Local edits
// that were never saved are discarded; that is the accepted last-write-wins
// contract of the shared slot.
func (s *RoomService) applyExternal(rooms []domain.Room) {
	s.mu.Lock()
	s.rooms = rooms
	s.mu.Unlock()

	metrics.ExternalSnapshotsTotal.Inc()
	s.log.Debug().Int("rooms", len(rooms)).Msg("external snapshot applied")
}

// CreateRoom opens a new room with the caller as facilitator and stores the
// resulting identity as the active session.
func (s *RoomService) CreateRoom(ctx context.Context, in ports.CreateRoomInput) (domain.Room, error) {
	if err := s.validator.Validate(in); err != nil {
		return domain.Room{}, err
	}

	room, err := domain.NewRoom(in.RoomName, in.FacilitatorName, in.Password)
	if err != nil {
		return domain.Room{}, err
	}
	facilitator, _ := room.Facilitator()

	s.mu.Lock()
	s.rooms = append(s.rooms, room)
	s.persist(ctx)
	s.mu.Unlock()

	s.session.Set(ports.Session{UserID: facilitator.ID, RoomID: room.ID})

	access := "open"
	if !room.Open() {
		access = "protected"
	}
	metrics.RoomsCreatedTotal.WithLabelValues(access).Inc()
	s.log.Info().Str("room_id", room.ID).Str("room", room.Name).Str("access", access).Msg("room created")
	return room, nil
}

// JoinRoom adds the caller to an existing room and stores the new identity
// as the active session.
func (s *RoomService) JoinRoom(ctx context.Context, in ports.JoinRoomInput) (domain.Room, error) {
	if err := s.validator.Validate(in); err != nil {
		return domain.Room{}, err
	}

	s.mu.Lock()
	idx := s.roomIndex(in.RoomID)
	if idx < 0 {
		s.mu.Unlock()
		return domain.Room{}, domain.ErrRoomNotFound
	}

	next, err := s.rooms[idx].Join(in.Name, in.Role, in.Password)
	if err != nil {
		s.mu.Unlock()
		return domain.Room{}, err
	}
	joined := next.Participants[len(next.Participants)-1]
	s.rooms[idx] = next
	s.persist(ctx)
	s.mu.Unlock()

	s.session.Set(ports.Session{UserID: joined.ID, RoomID: next.ID})

	metrics.ParticipantsJoinedTotal.WithLabelValues(string(in.Role)).Inc()
	s.log.Info().Str("room_id", next.ID).Str("participant", in.Name).Str("role", string(in.Role)).Msg("participant joined")
	return next, nil
}

// CastVote records the session participant's vote for the current round.
func (s *RoomService) CastVote(ctx context.Context, value float64) (domain.Room, error) {
	sess, room, err := s.inSessionRoom()
	if err != nil {
		return domain.Room{}, err
	}

	next, err := room.CastVote(sess.UserID, value)
	if err != nil {
		return domain.Room{}, err
	}
	if room.State != domain.StateVoting {
		// Late vote after a reveal changed nothing; nothing to persist
		// or count.
		return next, nil
	}
	s.commit(ctx, next)

	p, _ := next.Participant(sess.UserID)
	metrics.VotesCastTotal.WithLabelValues(string(p.Role)).Inc()
	s.log.Debug().Str("room_id", next.ID).Str("participant_id", sess.UserID).Msg("vote cast")
	return next, nil
}

// Reveal exposes all votes. Session participant must be the facilitator
// and every voting participant must have voted.
func (s *RoomService) Reveal(ctx context.Context) (domain.Room, error) {
	sess, room, err := s.inSessionRoom()
	if err != nil {
		return domain.Room{}, err
	}

	next, err := room.Reveal(sess.UserID)
	if err != nil {
		return domain.Room{}, err
	}
	s.commit(ctx, next)

	metrics.RevealsTotal.Inc()
	s.log.Info().Str("room_id", next.ID).Msg("votes revealed")
	return next, nil
}

// StartNewRound clears all votes and reopens voting. Facilitator only.
func (s *RoomService) StartNewRound(ctx context.Context) (domain.Room, error) {
	sess, room, err := s.inSessionRoom()
	if err != nil {
		return domain.Room{}, err
	}

	next, err := room.StartNewRound(sess.UserID)
	if err != nil {
		return domain.Room{}, err
	}
	s.commit(ctx, next)

	metrics.RoundsStartedTotal.Inc()
	s.log.Info().Str("room_id", next.ID).Msg("new round started")
	return next, nil
}

// Leave removes the session participant from their room and clears the
// session. When the last participant leaves, the room itself is deleted
// from the collection; an empty room is never persisted.
func (s *RoomService) Leave(ctx context.Context) error {
	sess, ok := s.session.Get()
	if !ok {
		return domain.ErrNoSession
	}

	s.mu.Lock()
	idx := s.roomIndex(sess.RoomID)
	if idx < 0 {
		s.mu.Unlock()
		s.session.Clear()
		return domain.ErrRoomNotFound
	}

	next, removed := s.rooms[idx].Leave(sess.UserID)
	if removed {
		s.rooms = append(s.rooms[:idx], s.rooms[idx+1:]...)
		metrics.RoomsRemovedTotal.Inc()
	} else {
		s.rooms[idx] = next
	}
	s.persist(ctx)
	s.mu.Unlock()

	s.session.Clear()
	s.log.Info().Str("room_id", sess.RoomID).Str("participant_id", sess.UserID).Bool("room_removed", removed).Msg("participant left")
	return nil
}

// Kick removes another participant from the session room. Facilitator only.
func (s *RoomService) Kick(ctx context.Context, targetID string) (domain.Room, error) {
	sess, room, err := s.inSessionRoom()
	if err != nil {
		return domain.Room{}, err
	}

	next, err := room.Kick(sess.UserID, targetID)
	if err != nil {
		return domain.Room{}, err
	}
	s.commit(ctx, next)

	metrics.KicksTotal.Inc()
	s.log.Info().Str("room_id", next.ID).Str("target_id", targetID).Msg("participant kicked")
	return next, nil
}

// SetMultiplier updates one voting role's percentage weight. Facilitator only.
func (s *RoomService) SetMultiplier(ctx context.Context, role domain.Role, percent int) (domain.Room, error) {
	sess, room, err := s.inSessionRoom()
	if err != nil {
		return domain.Room{}, err
	}

	next, err := room.SetMultiplier(sess.UserID, role, percent)
	if err != nil {
		return domain.Room{}, err
	}
	s.commit(ctx, next)

	s.log.Info().Str("room_id", next.ID).Str("role", string(role)).Int("percent", percent).Msg("multiplier updated")
	return next, nil
}

// SetDeck parses a deck specification (see domain.ParseDeck) and replaces
// the session room's cards. Facilitator only. Votes referencing removed
// values are left in place and fall back to their raw numeric display.
func (s *RoomService) SetDeck(ctx context.Context, deckSpec string) (domain.Room, error) {
	sess, room, err := s.inSessionRoom()
	if err != nil {
		return domain.Room{}, err
	}

	cards, err := domain.ParseDeck(deckSpec)
	if err != nil {
		return domain.Room{}, err
	}
	next, err := room.SetDeck(sess.UserID, cards)
	if err != nil {
		return domain.Room{}, err
	}
	s.commit(ctx, next)

	s.log.Info().Str("room_id", next.ID).Int("cards", len(cards)).Msg("deck replaced")
	return next, nil
}

// ListRooms returns lightweight summaries of every room, in creation order.
func (s *RoomService) ListRooms() []ports.RoomSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ports.RoomSummary, len(s.rooms))
	for i, r := range s.rooms {
		out[i] = ports.RoomSummary{
			ID:           r.ID,
			Name:         r.Name,
			Protected:    !r.Open(),
			Participants: len(r.Participants),
		}
	}
	return out
}

// CurrentRoom resolves the session against the room being viewed. A missing
// session fails with ErrNoSession; a session for a different room is
// invalid and is cleared (ErrSessionMismatch); a session whose room or
// participant has disappeared (room deleted, or the user was kicked from
// another tab) is likewise cleared.
func (s *RoomService) CurrentRoom(viewedRoomID string) (domain.Room, domain.Participant, error) {
	sess, ok := s.session.Get()
	if !ok {
		return domain.Room{}, domain.Participant{}, domain.ErrNoSession
	}
	if sess.RoomID != viewedRoomID {
		s.session.Clear()
		return domain.Room{}, domain.Participant{}, domain.ErrSessionMismatch
	}

	s.mu.RLock()
	idx := s.roomIndex(sess.RoomID)
	var room domain.Room
	if idx >= 0 {
		room = s.rooms[idx]
	}
	s.mu.RUnlock()

	if idx < 0 {
		s.session.Clear()
		return domain.Room{}, domain.Participant{}, domain.ErrRoomNotFound
	}
	p, ok := room.Participant(sess.UserID)
	if !ok {
		s.session.Clear()
		return domain.Room{}, domain.Participant{}, domain.ErrParticipantNotFound
	}
	return room, p, nil
}

// Averages recomputes the derived averages for a room. Callers should only
// surface them while the room is revealed.
func (s *RoomService) Averages(roomID string) (domain.Averages, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.roomIndex(roomID)
	if idx < 0 {
		return domain.Averages{}, domain.ErrRoomNotFound
	}
	return domain.ComputeAverages(s.rooms[idx]), nil
}

// ShareLink returns the URL that places a viewer at the join flow for the
// room. The link encodes only the room id; it does not authenticate anyone.
func (s *RoomService) ShareLink(roomID string) string {
	return s.baseURL + "/#/room/" + url.PathEscape(roomID)
}

// inSessionRoom resolves the active session to its room snapshot.
func (s *RoomService) inSessionRoom() (ports.Session, domain.Room, error) {
	sess, ok := s.session.Get()
	if !ok {
		return ports.Session{}, domain.Room{}, domain.ErrNoSession
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.roomIndex(sess.RoomID)
	if idx < 0 {
		return ports.Session{}, domain.Room{}, domain.ErrRoomNotFound
	}
	return sess, s.rooms[idx], nil
}

// commit replaces the room's snapshot in the local collection and persists.
func (s *RoomService) commit(ctx context.Context, room domain.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.roomIndex(room.ID); idx >= 0 {
		s.rooms[idx] = room
	}
	s.persist(ctx)
}

// persist writes the whole collection back to the slot, fire-and-forget:
// the local mutation stands even when the write fails. Callers must hold mu.
func (s *RoomService) persist(ctx context.Context) {
	if err := s.repo.Save(ctx, append([]domain.Room(nil), s.rooms...)); err != nil {
		metrics.StorageErrorsTotal.WithLabelValues("save").Inc()
		s.log.Error().Err(err).Msg("failed to save room collection")
	}
}

// roomIndex returns the position of a room in the local collection, or -1.
// Callers must hold mu.
func (s *RoomService) roomIndex(id string) int {
	for i, r := range s.rooms {
		if r.ID == id {
			return i
		}
	}
	return -1
}
