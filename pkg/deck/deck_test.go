package deck

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDeck(t *testing.T) {
	deck := New()

	assert.Equal(t, 52, deck.CardsLeft())
	assert.Equal(t, Card{Rank: 2, Suit: Clubs}, *deck.Cards[0])
	assert.Equal(t, Card{Rank: 14, Suit: Spades}, *deck.Cards[51])
}

func TestDeck_Shuffle_unique(t *testing.T) {
	a := assert.New(t)

	deck := New()
	deck.Shuffle()

	seen := make(map[string]bool)
	for _, card := range deck.Cards {
		seen[CardToString(card)] = true
	}

	// 52 unique cards, no duplicates
	a.Equal(52, len(seen))
}

func TestDeck_Shuffle_deterministicWithGenerator(t *testing.T) {
	a := assert.New(t)

	d1 := New()
	d1.SetGenerator(rand.New(rand.NewSource(1))) // nolint:gosec
	d1.Shuffle()

	d2 := New()
	d2.SetGenerator(rand.New(rand.NewSource(1))) // nolint:gosec
	d2.Shuffle()

	a.Equal(CardsToString(d1.Cards), CardsToString(d2.Cards))
}

func TestDeck_Shuffle_rebuildsDealtCards(t *testing.T) {
	a := assert.New(t)

	deck := New()
	deck.Shuffle()
	for i := 0; i < 10; i++ {
		_, err := deck.Draw()
		a.NoError(err)
	}
	a.Equal(42, deck.CardsLeft())

	deck.Shuffle()
	a.Equal(52, deck.CardsLeft())
}

func TestDeck_Draw(t *testing.T) {
	deck := New()

	if !deck.CanDraw(52) {
		t.Errorf("expected CanDraw(52) to be true")
	}

	if deck.CanDraw(53) {
		t.Errorf("expected CanDraw(53) to be false")
	}

	for i := 0; i < 52; i++ {
		card, err := deck.Draw()
		if card == nil {
			t.Error("expected card, got nil")
		}

		if err != nil {
			t.Errorf("expected err to be nil, got %v", err)
		}
	}

	if deck.CanDraw(1) {
		t.Errorf("expected CanDraw(1) to be false")
	}

	card, err := deck.Draw()
	if card != nil {
		t.Errorf("expected card to be nil, got %#v", card)
	}

	if err != ErrEndOfDeck {
		t.Errorf("expected err to be ErrEndOfDeck, got %#v", err)
	}
}
