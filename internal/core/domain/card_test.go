package domain

import (
	"errors"
	"testing"
)

// ---------------------------------------------------------------------------
// ParseDeck
// ---------------------------------------------------------------------------

func TestParseDeck_BareNumbers(t *testing.T) {
	cards, err := ParseDeck("0, 1, 2, 3, 5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 5 {
		t.Fatalf("expected 5 cards, got %d", len(cards))
	}
	if cards[4].Value != 5 || cards[4].Display != "5" {
		t.Errorf("expected card {5 %q}, got %+v", "5", cards[4])
	}
}

func TestParseDeck_LabelledCards(t *testing.T) {
	cards, err := ParseDeck("XS:1, S:2, Coffee:100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cards[0].Display != "XS" || cards[0].Value != 1 {
		t.Errorf("expected {1 XS}, got %+v", cards[0])
	}
	if cards[2].Display != "Coffee" || cards[2].Value != 100 {
		t.Errorf("expected {100 Coffee}, got %+v", cards[2])
	}
}

func TestParseDeck_TrimsWhitespaceAndSkipsEmptyTokens(t *testing.T) {
	cards, err := ParseDeck("  3 ,, XL : 20 ,")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	if cards[1].Display != "XL" || cards[1].Value != 20 {
		t.Errorf("expected {20 XL}, got %+v", cards[1])
	}
}

func TestParseDeck_SortsByValue(t *testing.T) {
	cards, err := ParseDeck("8, 1, 5, 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(cards); i++ {
		if cards[i-1].Value >= cards[i].Value {
			t.Fatalf("deck not sorted ascending: %+v", cards)
		}
	}
}

func TestParseDeck_FractionalValues(t *testing.T) {
	cards, err := ParseDeck("0.5, 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cards[0].Value != 0.5 || cards[0].Display != "0.5" {
		t.Errorf("expected {0.5 %q}, got %+v", "0.5", cards[0])
	}
}

func TestParseDeck_Errors(t *testing.T) {
	cases := []struct {
		name string
		spec string
		want error
	}{
		{"malformed bare number", "1, abc", ErrMalformedNumber},
		{"malformed labelled value", "XL:big", ErrMalformedNumber},
		{"empty label", ":5", ErrEmptyLabel},
		{"too many colons", "a:b:3", ErrMalformedToken},
		{"duplicate value", "1, 1", ErrDuplicateValue},
		{"duplicate value across forms", "XS:1, 1", ErrDuplicateValue},
		{"empty spec", "", ErrEmptyDeck},
		{"only separators", " , , ", ErrEmptyDeck},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDeck(tc.spec)
			if !errors.Is(err, tc.want) {
				t.Fatalf("ParseDeck(%q) error = %v, want %v", tc.spec, err, tc.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// FormatDeck
// ---------------------------------------------------------------------------

func TestFormatDeck_MixedLabels(t *testing.T) {
	cards := []Card{
		{Value: 1, Display: "1"},
		{Value: 2, Display: "S"},
		{Value: 100, Display: "Coffee"},
	}
	got := FormatDeck(cards)
	want := "1, S:2, Coffee:100"
	if got != want {
		t.Errorf("FormatDeck = %q, want %q", got, want)
	}
}

func TestFormatDeck_ParseRoundTrip(t *testing.T) {
	specs := []string{
		"0, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89",
		"XS:1, S:2, M:3, L:5, XL:8",
		"0.5, 1, Coffee:100",
	}
	for _, spec := range specs {
		deck, err := ParseDeck(spec)
		if err != nil {
			t.Fatalf("ParseDeck(%q): %v", spec, err)
		}
		again, err := ParseDeck(FormatDeck(deck))
		if err != nil {
			t.Fatalf("re-parsing %q: %v", FormatDeck(deck), err)
		}
		if len(again) != len(deck) {
			t.Fatalf("round trip changed length: %d vs %d", len(again), len(deck))
		}
		for i := range deck {
			if deck[i] != again[i] {
				t.Errorf("round trip changed card %d: %+v vs %+v", i, deck[i], again[i])
			}
		}
	}
}

// ---------------------------------------------------------------------------
// DefaultDeck
// ---------------------------------------------------------------------------

func TestDefaultDeck(t *testing.T) {
	deck := DefaultDeck()
	if len(deck) != 11 {
		t.Fatalf("expected 11 cards, got %d", len(deck))
	}
	if deck[0].Value != 0 || deck[10].Value != 89 {
		t.Errorf("unexpected deck bounds: %+v", deck)
	}
	for _, c := range deck {
		if c.Display != CanonicalDisplay(c.Value) {
			t.Errorf("default card %v has non-canonical label %q", c.Value, c.Display)
		}
	}
}
