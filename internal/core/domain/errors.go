package domain

import "errors"

// Deck validation errors (see ParseDeck).
var ErrMalformedNumber = errors.New("malformed number")
var ErrEmptyLabel = errors.New("card label cannot be empty")
var ErrMalformedToken = errors.New("malformed card token")
var ErrDuplicateValue = errors.New("duplicate card value")
var ErrEmptyDeck = errors.New("deck must contain at least one card")

// Room transition errors.
var ErrEmptyName = errors.New("name cannot be empty")
var ErrWrongPassword = errors.New("incorrect password")
var ErrDuplicateName = errors.New("a participant with this name is already in the room")
var ErrNotAVotingRole = errors.New("participant cannot vote")
var ErrInvalidCardValue = errors.New("value is not in the room's deck")
var ErrNotAuthorized = errors.New("only the facilitator may perform this action")
var ErrVotingIncomplete = errors.New("not every voting participant has cast a vote")
var ErrCannotKickSelf = errors.New("facilitator cannot kick themselves")
var ErrInvalidRole = errors.New("role does not take part in voting")
var ErrNegativeValue = errors.New("multiplier cannot be negative")
var ErrParticipantNotFound = errors.New("participant not found")
var ErrRoomNotFound = errors.New("room not found")

// Session errors.
var ErrNoSession = errors.New("no active session")
var ErrSessionMismatch = errors.New("session does not match the viewed room")
