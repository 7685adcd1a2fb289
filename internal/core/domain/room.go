package domain

import (
	"strings"

	"github.com/google/uuid"
)

// RoomState is the two-state round machine of a room.
type RoomState string

const (
	// StateVoting: voting-role participants may cast or change votes; the
	// facilitator may reveal once every voting participant has voted.
	StateVoting RoomState = "voting"
	// StateRevealed: votes are read-only and visible; the facilitator may
	// start a new round, which clears votes and returns to StateVoting.
	StateRevealed RoomState = "revealed"
)

// Participant is one member of a room. Vote is nil until cast, and is only
// ever set for voting roles while a round is open.
type Participant struct {
	ID   string   `json:"id" bson:"id"`
	Name string   `json:"name" bson:"name"`
	Role Role     `json:"role" bson:"role"`
	Vote *float64 `json:"vote" bson:"vote,omitempty"`
}

// HasVote reports whether the participant has cast a vote this round.
func (p Participant) HasVote() bool {
	return p.Vote != nil
}

// Room is one estimation session. All transition methods are pure: they
// never mutate the receiver and return a fresh snapshot instead, so a Room
// value can be shared freely.
type Room struct {
	ID           string        `json:"id" bson:"id"`
	Name         string        `json:"name" bson:"name"`
	Password     string        `json:"password,omitempty" bson:"password,omitempty"`
	State        RoomState     `json:"state" bson:"state"`
	Participants []Participant `json:"participants" bson:"participants"`
	Cards        []Card        `json:"cards" bson:"cards"`
	Multipliers  Multipliers   `json:"multipliers" bson:"multipliers"`
}

// NewRoom creates a room in StateVoting with the default deck, default
// multipliers, and the creator as its facilitator. An empty password means
// the room is open. Fails with ErrEmptyName when either name is blank.
func NewRoom(name, facilitatorName, password string) (Room, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(facilitatorName) == "" {
		return Room{}, ErrEmptyName
	}
	return Room{
		ID:       uuid.NewString(),
		Name:     name,
		Password: password,
		State:    StateVoting,
		Participants: []Participant{{
			ID:   uuid.NewString(),
			Name: facilitatorName,
			Role: RolePM,
		}},
		Cards:       DefaultDeck(),
		Multipliers: DefaultMultipliers(),
	}, nil
}

// Facilitator returns the room's PM participant, if present.
func (r Room) Facilitator() (Participant, bool) {
	for _, p := range r.Participants {
		if p.Role == RolePM {
			return p, true
		}
	}
	return Participant{}, false
}

// Participant looks up a member by id.
func (r Room) Participant(id string) (Participant, bool) {
	for _, p := range r.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

// Open reports whether the room has no password.
func (r Room) Open() bool {
	return r.Password == ""
}

// VotingParticipants returns the members with a voting role, in join order.
func (r Room) VotingParticipants() []Participant {
	var out []Participant
	for _, p := range r.Participants {
		if p.Role.IsVoting() {
			out = append(out, p)
		}
	}
	return out
}

// VotingComplete reports whether every voting-role participant has cast a
// vote. A room with zero voting participants is vacuously complete.
func (r Room) VotingComplete() bool {
	for _, p := range r.Participants {
		if p.Role.IsVoting() && !p.HasVote() {
			return false
		}
	}
	return true
}

// Join adds a new participant in one of the voting roles; the facilitator
// role is assigned only at room creation, so joining as PM fails with
// ErrInvalidRole. It fails with ErrWrongPassword when the room is protected
// and the supplied password does not match, and with ErrDuplicateName when
// another member already uses the name (compared case-insensitively). The
// new member starts with no vote.
func (r Room) Join(name string, role Role, password string) (Room, error) {
	if strings.TrimSpace(name) == "" {
		return Room{}, ErrEmptyName
	}
	if !role.IsVoting() {
		return Room{}, ErrInvalidRole
	}
	if r.Password != "" && r.Password != password {
		return Room{}, ErrWrongPassword
	}
	for _, p := range r.Participants {
		if strings.EqualFold(p.Name, name) {
			return Room{}, ErrDuplicateName
		}
	}

	next := r.clone()
	next.Participants = append(next.Participants, Participant{
		ID:   uuid.NewString(),
		Name: name,
		Role: role,
	})
	return next, nil
}

// CastVote records (or overwrites) a participant's vote. Outside StateVoting
// the call is a no-op returning the room unchanged. The facilitator and
// unknown participants fail with ErrNotAVotingRole; values not present in
// the deck fail with ErrInvalidCardValue. Changing one's vote before the
// reveal is always allowed.
func (r Room) CastVote(participantID string, value float64) (Room, error) {
	if r.State != StateVoting {
		return r, nil
	}
	p, ok := r.Participant(participantID)
	if !ok || !p.Role.IsVoting() {
		return Room{}, ErrNotAVotingRole
	}
	if !r.deckHasValue(value) {
		return Room{}, ErrInvalidCardValue
	}

	next := r.clone()
	for i := range next.Participants {
		if next.Participants[i].ID == participantID {
			v := value
			next.Participants[i].Vote = &v
		}
	}
	return next, nil
}

// Reveal transitions the room to StateRevealed. Only the facilitator may
// reveal, and only once voting is complete. Revealing a room with zero
// voting participants is allowed; averages will simply report N/A.
func (r Room) Reveal(requesterID string) (Room, error) {
	if err := r.requireFacilitator(requesterID); err != nil {
		return Room{}, err
	}
	if !r.VotingComplete() {
		return Room{}, ErrVotingIncomplete
	}

	next := r.clone()
	next.State = StateRevealed
	return next, nil
}

// StartNewRound clears every vote and returns the room to StateVoting.
// Facilitator only.
func (r Room) StartNewRound(requesterID string) (Room, error) {
	if err := r.requireFacilitator(requesterID); err != nil {
		return Room{}, err
	}

	next := r.clone()
	next.State = StateVoting
	for i := range next.Participants {
		next.Participants[i].Vote = nil
	}
	return next, nil
}

// Leave removes a participant. The second return is true when the room is
// now empty: callers must delete it from the collection instead of keeping
// a zero-participant room around. Leaving with an unknown id is a no-op.
func (r Room) Leave(participantID string) (Room, bool) {
	if _, ok := r.Participant(participantID); !ok {
		return r, false
	}

	next := r.clone()
	remaining := make([]Participant, 0, len(next.Participants)-1)
	for _, p := range next.Participants {
		if p.ID != participantID {
			remaining = append(remaining, p)
		}
	}
	next.Participants = remaining
	return next, len(remaining) == 0
}

// Kick removes another participant. Facilitator only, and never themselves
// (ErrCannotKickSelf). Kicking the last voting member is allowed and simply
// leaves an empty voting pool.
func (r Room) Kick(requesterID, targetID string) (Room, error) {
	if err := r.requireFacilitator(requesterID); err != nil {
		return Room{}, err
	}
	if requesterID == targetID {
		return Room{}, ErrCannotKickSelf
	}
	if _, ok := r.Participant(targetID); !ok {
		return Room{}, ErrParticipantNotFound
	}

	next, _ := r.Leave(targetID)
	return next, nil
}

// SetMultiplier updates the percentage weight for one voting role.
// Facilitator only; the facilitator role itself can never carry a weight
// (ErrInvalidRole) and negative percentages are rejected (ErrNegativeValue).
func (r Room) SetMultiplier(requesterID string, role Role, percent int) (Room, error) {
	if err := r.requireFacilitator(requesterID); err != nil {
		return Room{}, err
	}
	if !role.IsVoting() {
		return Room{}, ErrInvalidRole
	}
	if percent < 0 {
		return Room{}, ErrNegativeValue
	}

	next := r.clone()
	next.Multipliers = next.Multipliers.withRole(role, percent)
	return next, nil
}

// SetDeck replaces the deck. Facilitator only. The new deck is validated
// and sorted; votes referencing values no longer in the deck are kept as-is
// and render via DisplayVote's raw-value fallback.
func (r Room) SetDeck(requesterID string, cards []Card) (Room, error) {
	if err := r.requireFacilitator(requesterID); err != nil {
		return Room{}, err
	}
	normalized, err := normalizeDeck(append([]Card(nil), cards...))
	if err != nil {
		return Room{}, err
	}

	next := r.clone()
	next.Cards = normalized
	return next, nil
}

// DisplayVote renders a participant's vote for display: the matching card's
// label, the raw numeric value when the deck no longer contains it (stale
// vote after a deck edit), or "-" when no vote has been cast.
func (r Room) DisplayVote(p Participant) string {
	if p.Vote == nil {
		return "-"
	}
	for _, c := range r.Cards {
		if c.Value == *p.Vote {
			return c.Display
		}
	}
	return CanonicalDisplay(*p.Vote)
}

func (r Room) deckHasValue(value float64) bool {
	for _, c := range r.Cards {
		if c.Value == value {
			return true
		}
	}
	return false
}

func (r Room) requireFacilitator(requesterID string) error {
	p, ok := r.Participant(requesterID)
	if !ok || p.Role != RolePM {
		return ErrNotAuthorized
	}
	return nil
}

// clone deep-copies the room so transition methods never alias the input's
// slices or vote pointers.
func (r Room) clone() Room {
	next := r
	next.Participants = make([]Participant, len(r.Participants))
	for i, p := range r.Participants {
		if p.Vote != nil {
			v := *p.Vote
			p.Vote = &v
		}
		next.Participants[i] = p
	}
	next.Cards = append([]Card(nil), r.Cards...)
	return next
}
