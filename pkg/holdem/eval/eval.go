// Package eval is the boundary to hand-strength evaluation.
//
// The game core treats evaluation as an opaque collaborator: it hands over
// seven cards and gets back a comparable score. The default implementation is
// backed by github.com/paulhankin/poker.
package eval

import (
	"fmt"

	"github.com/branlanda/poker-galaxy-arena-sub002/pkg/deck"
	"github.com/paulhankin/poker"
)

// Rank is the strength of a seat's best five-card hand
// Higher scores beat lower scores; equal scores split the pot
type Rank struct {
	Score int    `json:"score"`
	Name  string `json:"name"`
}

// Evaluator scores a seat's hole cards against the community cards
type Evaluator interface {
	Evaluate(hole, community deck.Hand) (Rank, error)
}

type sevenCard struct{}

// NewSevenCard returns the default seven-card evaluator
func NewSevenCard() Evaluator {
	return sevenCard{}
}

func (sevenCard) Evaluate(hole, community deck.Hand) (Rank, error) {
	if len(hole) != 2 {
		return Rank{}, fmt.Errorf("expected 2 hole cards, got %d", len(hole))
	}

	if len(community) != 5 {
		return Rank{}, fmt.Errorf("expected 5 community cards, got %d", len(community))
	}

	var cards [7]poker.Card
	for i, c := range append(community.Clone(), hole...) {
		card, err := convertCard(c)
		if err != nil {
			return Rank{}, err
		}

		cards[i] = card
	}

	score := poker.Eval7(&cards)
	name, err := poker.Describe(cards[:])
	if err != nil {
		return Rank{}, err
	}

	return Rank{
		Score: int(score),
		Name:  name,
	}, nil
}

func convertCard(c *deck.Card) (poker.Card, error) {
	var zero poker.Card

	var suit poker.Suit
	switch c.Suit {
	case deck.Clubs:
		suit = poker.Club
	case deck.Diamonds:
		suit = poker.Diamond
	case deck.Hearts:
		suit = poker.Heart
	case deck.Spades:
		suit = poker.Spade
	default:
		return zero, fmt.Errorf("unknown suit: %s", c.Suit)
	}

	rank := c.Rank
	if rank == deck.Ace {
		rank = 1
	}

	return poker.MakeCard(suit, poker.Rank(rank))
}
