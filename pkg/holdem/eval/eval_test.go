package eval

import (
	"testing"

	"github.com/branlanda/poker-galaxy-arena-sub002/pkg/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSevenCard_Evaluate(t *testing.T) {
	a := assert.New(t)
	e := NewSevenCard()

	community := deck.Hand(deck.CardsFromString("2c,7d,9h,11s,13c"))

	pair, err := e.Evaluate(deck.CardsFromString("13d,4h"), community)
	require.NoError(t, err)

	highCard, err := e.Evaluate(deck.CardsFromString("14d,4h"), community)
	require.NoError(t, err)

	a.Greater(pair.Score, highCard.Score)
	a.NotEmpty(pair.Name)
}

func TestSevenCard_Evaluate_ties(t *testing.T) {
	a := assert.New(t)
	e := NewSevenCard()

	// the board plays for both seats
	community := deck.Hand(deck.CardsFromString("10c,11c,12c,13c,14c"))

	r1, err := e.Evaluate(deck.CardsFromString("2d,3d"), community)
	require.NoError(t, err)
	r2, err := e.Evaluate(deck.CardsFromString("4h,5h"), community)
	require.NoError(t, err)

	a.Equal(r1.Score, r2.Score)
}

func TestSevenCard_Evaluate_badInput(t *testing.T) {
	e := NewSevenCard()

	_, err := e.Evaluate(deck.CardsFromString("2c"), deck.CardsFromString("3c,4c,5c,6c,7c"))
	assert.Error(t, err)

	_, err = e.Evaluate(deck.CardsFromString("2c,3d"), deck.CardsFromString("3c,4c"))
	assert.Error(t, err)
}
