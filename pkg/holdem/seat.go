package holdem

import (
	"github.com/branlanda/poker-galaxy-arena-sub002/pkg/deck"
)

// SeatStatus represents a seat's disposition within the current hand
type SeatStatus string

// seat status constants
const (
	// StatusSitting is an occupied seat not dealt into the current hand
	StatusSitting SeatStatus = "sitting"
	// StatusPlaying is a seat with live cards that may still act
	StatusPlaying SeatStatus = "playing"
	// StatusFolded is a seat that folded this hand
	StatusFolded SeatStatus = "folded"
	// StatusAllIn is a seat with live cards and no chips behind
	StatusAllIn SeatStatus = "allIn"
	// StatusLeft is a seat whose occupant departed; only the leave protocol sets it
	StatusLeft SeatStatus = "left"
)

// Seat is a position at the table
// stack+bet never increases except through pot distribution or a buy-in
type Seat struct {
	Index    int
	PlayerID int64
	Name     string
	Stack    int
	Bet      int
	Status   SeatStatus

	IsDealer     bool
	IsSmallBlind bool
	IsBigBlind   bool

	// committed is the total paid into the pot this hand, used for side-pot
	// tiering and for refunds when a hand is aborted
	committed int

	// acted is true once the seat has acted since the last bet or raise
	acted bool

	// reveal is true once the seat's hole cards were shown at showdown
	reveal bool

	cards deck.Hand
}

// HoleCards returns the seat's hole cards
// Cards are private to the occupant; snapshots redact them for other viewers
func (s *Seat) HoleCards() deck.Hand {
	return s.cards
}

// InHand returns true if the seat still holds live cards
func (s *Seat) InHand() bool {
	return s.Status == StatusPlaying || s.Status == StatusAllIn
}

// canAct returns true if the seat may check, call, bet, raise, or fold
func (s *Seat) canAct() bool {
	return s.Status == StatusPlaying
}

// pay moves up to amount from the stack into the seat's round bet
// Returns the amount actually paid; a short stack pays what it has and is all-in
func (s *Seat) pay(amount int) int {
	if amount >= s.Stack {
		amount = s.Stack
		s.Status = StatusAllIn
	}

	s.Stack -= amount
	s.Bet += amount
	s.committed += amount

	return amount
}

// newHand resets the seat's per-hand fields
func (s *Seat) newHand() {
	s.Bet = 0
	s.committed = 0
	s.acted = false
	s.reveal = false
	s.cards = nil
	s.IsDealer = false
	s.IsSmallBlind = false
	s.IsBigBlind = false
}
