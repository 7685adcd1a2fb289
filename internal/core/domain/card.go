package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Card is a single selectable estimate: a numeric value plus the label shown
// on the card face. Within one deck values are unique and the deck is kept
// sorted ascending by value.
type Card struct {
	Value   float64 `json:"value" bson:"value"`
	Display string  `json:"display" bson:"display"`
}

// DefaultDeck returns the 11-card Fibonacci-like deck new rooms start with.
func DefaultDeck() []Card {
	values := []float64{0, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89}
	cards := make([]Card, len(values))
	for i, v := range values {
		cards[i] = Card{Value: v, Display: CanonicalDisplay(v)}
	}
	return cards
}

// CanonicalDisplay is the default label for a value: the shortest decimal
// string that round-trips, e.g. 5 -> "5", 0.5 -> "0.5".
func CanonicalDisplay(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseDeck parses a user-edited deck specification: a comma-separated list
// of tokens, each either "<number>" or "<label>:<number>" (e.g.
// "0, 1, 2, 3, 5, 8, Coffee:100"). Whitespace around tokens and around the
// colon is ignored. The returned deck is sorted ascending by value.
func ParseDeck(spec string) ([]Card, error) {
	var cards []Card
	for _, token := range strings.Split(spec, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		parts := strings.Split(token, ":")
		switch len(parts) {
		case 1:
			value, err := strconv.ParseFloat(parts[0], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrMalformedNumber, token)
			}
			cards = append(cards, Card{Value: value, Display: CanonicalDisplay(value)})
		case 2:
			label := strings.TrimSpace(parts[0])
			raw := strings.TrimSpace(parts[1])
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q for label %q", ErrMalformedNumber, raw, label)
			}
			if label == "" {
				return nil, fmt.Errorf("%w (value %s)", ErrEmptyLabel, CanonicalDisplay(value))
			}
			cards = append(cards, Card{Value: value, Display: label})
		default:
			return nil, fmt.Errorf("%w: %q, use \"value\" or \"label:value\"", ErrMalformedToken, token)
		}
	}

	return normalizeDeck(cards)
}

// FormatDeck is the inverse of ParseDeck: cards whose label equals the
// canonical form of their value are emitted as the bare value, the rest as
// "label:value". ParseDeck(FormatDeck(d)) == d for any valid deck d whose
// labels contain no colon or comma.
func FormatDeck(cards []Card) string {
	tokens := make([]string, len(cards))
	for i, c := range cards {
		canonical := CanonicalDisplay(c.Value)
		if c.Display == canonical {
			tokens[i] = canonical
		} else {
			tokens[i] = c.Display + ":" + canonical
		}
	}
	return strings.Join(tokens, ", ")
}

// normalizeDeck enforces the deck invariants: at least one card, unique
// values, sorted ascending. The input slice is sorted in place.
func normalizeDeck(cards []Card) ([]Card, error) {
	if len(cards) == 0 {
		return nil, ErrEmptyDeck
	}
	seen := make(map[float64]struct{}, len(cards))
	for _, c := range cards {
		if _, dup := seen[c.Value]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateValue, CanonicalDisplay(c.Value))
		}
		seen[c.Value] = struct{}{}
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].Value < cards[j].Value })
	return cards, nil
}
