package holdem

import (
	"math"

	"github.com/sirupsen/logrus"
)

// LeaveAssessment describes the consequences of a departure before it happens
type LeaveAssessment struct {
	// Immediate is true when leaving requires no forced fold and no penalty
	Immediate bool `json:"immediate"`

	// Penalty is the reputation cost of leaving right now
	Penalty int `json:"penalty"`
}

// LeaveResult reports the outcome of a completed departure
type LeaveResult struct {
	Seat       int    `json:"seat"`
	PlayerID   int64  `json:"playerId"`
	Name       string `json:"name"`
	FinalStack int    `json:"finalStack"`

	// HandAborted is true when the departure left fewer than two occupied
	// seats and the live hand was cancelled with all contributions refunded
	HandAborted bool `json:"handAborted"`

	// DepartedRefunds holds aborted-hand contributions owed to players whose
	// seats were already vacated, keyed by player id. The leaver's own
	// contribution lands here too, since their stack is settled without it.
	DepartedRefunds map[int64]int `json:"departedRefunds,omitempty"`
}

const (
	leavePenaltyBase       = 5
	leavePenaltyLiveBet    = 3
	leavePenaltyCap        = 10
	leavePenaltyEarlyScale = 0.7
)

// AssessLeave reports whether the player may leave immediately and what the
// reputation penalty would be if they left right now
func (g *Game) AssessLeave(playerID int64) (*LeaveAssessment, error) {
	seat, err := g.Seat(playerID)
	if err != nil {
		return nil, err
	}

	if g.canLeaveImmediately(seat) {
		return &LeaveAssessment{Immediate: true}, nil
	}

	return &LeaveAssessment{Penalty: g.leavePenalty(seat)}, nil
}

// canLeaveImmediately is true unless it is currently the seat's own turn and
// it still holds live cards. Folded, all-in, and out-of-turn seats owe the
// table nothing.
func (g *Game) canLeaveImmediately(seat *Seat) bool {
	if !g.phase.IsBettingRound() {
		return true
	}

	return seat.Index != g.activeSeat || seat.Status != StatusPlaying
}

// leavePenalty scores how disruptive a mid-hand departure is
// Leaving on one's own turn or with live chips in the round costs more, and
// early-street departures are discounted since less is at stake.
func (g *Game) leavePenalty(seat *Seat) int {
	if g.canLeaveImmediately(seat) {
		return 0
	}

	penalty := 0
	if seat.Index == g.activeSeat {
		penalty += leavePenaltyBase
	}

	if seat.Bet > 0 && seat.Status == StatusPlaying {
		penalty += leavePenaltyLiveBet
	}

	if g.phase == PhasePreFlop {
		penalty = int(math.Round(float64(penalty) * leavePenaltyEarlyScale))
	}

	if penalty > leavePenaltyCap {
		penalty = leavePenaltyCap
	}

	return penalty
}

// RemoveSeat finalizes a departure. The caller is expected to have already
// folded the seat through the normal action path if it held live cards.
//
// The departed seat's prior contributions stay in the pot. If fewer than two
// occupied seats remain mid-hand, the hand is aborted and every contribution
// is refunded.
func (g *Game) RemoveSeat(playerID int64) (*LeaveResult, error) {
	seat, err := g.Seat(playerID)
	if err != nil {
		return nil, err
	}

	result := &LeaveResult{
		Seat:     seat.Index,
		PlayerID: seat.PlayerID,
		Name:     seat.Name,
	}

	wasInHand := seat.InHand()
	seat.Status = StatusLeft
	seat.cards = nil

	if !g.phase.IsBettingRound() {
		result.FinalStack = seat.Stack
		g.seats[seat.Index] = nil
		g.log.WithFields(logrus.Fields{
			"player": playerID,
			"seat":   result.Seat,
		}).Info("player left table")
		return result, nil
	}

	if g.occupiedInHand() <= 1 {
		// the leaver is already marked departed, so the abort vacates the
		// seat and routes their contribution through DepartedRefunds
		result.DepartedRefunds = g.abortHand()
		result.FinalStack = seat.Stack
		result.HandAborted = true
		return result, nil
	}

	result.FinalStack = seat.Stack

	// the seat object stays in place until the hand ends so its committed
	// chips participate in side-pot tiering
	if g.activeSeat == seat.Index {
		g.activeSeat = g.nextSeat(g.activeSeat, (*Seat).canAct)
	}

	if wasInHand {
		if g.inHandCount() == 1 {
			g.finishEarly()
		} else if g.roundClosed() {
			g.closeRound()
		}
	}

	g.log.WithFields(logrus.Fields{
		"player": playerID,
		"seat":   result.Seat,
		"hand":   g.handID,
	}).Info("player left mid-hand")

	return result, nil
}

// occupiedInHand counts seats still occupied by a present player
func (g *Game) occupiedInHand() int {
	count := 0
	for _, s := range g.seats {
		if s != nil && s.Status != StatusLeft {
			count++
		}
	}

	return count
}
