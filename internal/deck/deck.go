package deck

import (
	"math/rand/v2"

	"github.com/vytor/memorymatch/internal/errors"
)

// Card is one physical card. Position is its index in the deck.
type Card struct {
	Position int    `json:"position"`
	Value    string `json:"value"`
	Matched  bool   `json:"matched"`
}

// Deck is an ordered set of cards where every value appears twice.
type Deck []Card

// Build duplicates each value, shuffles the result and numbers the cards
// in shuffled order. A nil rng uses the global source.
func Build(values []string, rng *rand.Rand) (Deck, error) {
	if len(values) == 0 {
		return nil, errors.NewValidationError("values", "at least one pair is required")
	}

	paired := make([]string, 0, 2*len(values))
	for _, v := range values {
		paired = append(paired, v, v)
	}

	swap := func(i, j int) { paired[i], paired[j] = paired[j], paired[i] }
	if rng != nil {
		rng.Shuffle(len(paired), swap)
	} else {
		rand.Shuffle(len(paired), swap)
	}

	d := make(Deck, len(paired))
	for i, v := range paired {
		d[i] = Card{Position: i, Value: v}
	}
	return d, nil
}

// PairCount is half the deck size.
func (d Deck) PairCount() int {
	return len(d) / 2
}

// Remaining counts cards that are not yet matched.
func (d Deck) Remaining() int {
	n := 0
	for _, c := range d {
		if !c.Matched {
			n++
		}
	}
	return n
}

// AllMatched is true when no unmatched card remains. An empty deck is
// never considered complete.
func (d Deck) AllMatched() bool {
	return len(d) > 0 && d.Remaining() == 0
}

// Clone returns a copy that shares no memory with d.
func (d Deck) Clone() Deck {
	if d == nil {
		return nil
	}
	return append(Deck(nil), d...)
}
