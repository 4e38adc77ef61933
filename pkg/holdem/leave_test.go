package holdem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGame_AssessLeave_immediateAfterFold(t *testing.T) {
	a := assert.New(t)
	game := newTestGame(t, 1000, 1000, 1000)
	a.NoError(game.StartHand())

	_, err := game.Act(1, ActionFold, 0)
	a.NoError(err)

	assessment, err := game.AssessLeave(1)
	a.NoError(err)
	a.True(assessment.Immediate)
	a.Equal(0, assessment.Penalty)
}

func TestGame_AssessLeave_immediateWhenWaiting(t *testing.T) {
	a := assert.New(t)
	game := newTestGame(t, 1000, 1000)

	assessment, err := game.AssessLeave(2)
	a.NoError(err)
	a.True(assessment.Immediate)
	a.Equal(0, assessment.Penalty)

	_, err = game.AssessLeave(99)
	a.ErrorIs(err, ErrSeatNotFound)
}

func TestGame_AssessLeave_immediateOutOfTurn(t *testing.T) {
	a := assert.New(t)
	game := newTestGame(t, 1000, 1000, 1000)
	a.NoError(game.StartHand())

	// seat 0 is active; the blinds are live but not on the clock
	assessment, err := game.AssessLeave(2)
	a.NoError(err)
	a.True(assessment.Immediate)
	a.Equal(0, assessment.Penalty)
}

func TestGame_AssessLeave_penaltyOnActiveTurnPreFlop(t *testing.T) {
	a := assert.New(t)
	game := newTestGame(t, 1000, 1000)
	a.NoError(game.StartHand())

	// heads-up the small blind is on the clock with a live bet of 5:
	// (5 for the active turn + 3 for the live bet) scaled by 0.7 pre-flop
	assessment, err := game.AssessLeave(1)
	a.NoError(err)
	a.False(assessment.Immediate)
	a.Equal(6, assessment.Penalty)
}

func TestGame_AssessLeave_penaltyOnActiveTurnPostFlop(t *testing.T) {
	a := assert.New(t)
	game := newTestGame(t, 1000, 1000)
	a.NoError(game.StartHand())

	_, err := game.Act(1, ActionCall, 0)
	a.NoError(err)
	_, err = game.Act(2, ActionCheck, 0)
	a.NoError(err)
	a.Equal(PhaseFlop, game.Phase())

	// no live bet on a fresh street: just the active-turn component
	assessment, err := game.AssessLeave(2)
	a.NoError(err)
	a.False(assessment.Immediate)
	a.Equal(5, assessment.Penalty)

	_, err = game.Act(2, ActionBet, 50)
	a.NoError(err)
	_, err = game.Act(1, ActionRaise, 100)
	a.NoError(err)

	// back on the clock with a live bet and no pre-flop discount
	assessment, err = game.AssessLeave(2)
	a.NoError(err)
	a.Equal(8, assessment.Penalty)
}

func TestGame_RemoveSeat_betweenHands(t *testing.T) {
	a := assert.New(t)
	game := newTestGame(t, 1000, 750, 500)

	result, err := game.RemoveSeat(2)
	a.NoError(err)
	a.Equal(1, result.Seat)
	a.Equal("player-2", result.Name)
	a.Equal(750, result.FinalStack)
	a.False(result.HandAborted)
	a.Equal(2, game.SeatedCount())

	_, err = game.RemoveSeat(2)
	a.ErrorIs(err, ErrSeatNotFound)
}

func TestGame_RemoveSeat_midHandKeepsContribution(t *testing.T) {
	a := assert.New(t)
	game := newTestGame(t, 1000, 1000, 1000)
	a.NoError(game.StartHand())

	// the small blind folds out of turn via the leave path; the 5 stays in
	_, err := game.Act(1, ActionCall, 0)
	a.NoError(err)

	_, err = game.Act(2, ActionFold, 0)
	a.NoError(err)

	result, err := game.RemoveSeat(2)
	a.NoError(err)
	a.Equal(995, result.FinalStack)
	a.False(result.HandAborted)

	// the hand continues for the remaining two seats
	a.Equal(PhasePreFlop, game.Phase())
	a.Equal(25, potTotal(t, game))

	_, err = game.Act(3, ActionCheck, 0)
	a.NoError(err)
	a.Equal(PhaseFlop, game.Phase())
}

func TestGame_RemoveSeat_advancesTurnPastLeaver(t *testing.T) {
	a := assert.New(t)
	game := newTestGame(t, 1000, 1000, 1000)
	a.NoError(game.StartHand())
	a.Equal(0, game.ActiveSeat())

	// the active seat departs without acting; play must move on
	result, err := game.RemoveSeat(1)
	a.NoError(err)
	a.False(result.HandAborted)
	a.Equal(1, game.ActiveSeat())

	_, err = game.Act(2, ActionCall, 0)
	a.NoError(err)
	_, err = game.Act(3, ActionCheck, 0)
	a.NoError(err)
	a.Equal(PhaseFlop, game.Phase())
}

func TestGame_RemoveSeat_abortsShortHandedHand(t *testing.T) {
	a := assert.New(t)
	game := newTestGame(t, 1000, 1000)
	a.NoError(game.StartHand())
	a.Equal(15, potTotal(t, game))

	result, err := game.RemoveSeat(2)
	a.NoError(err)
	a.True(result.HandAborted)
	a.Equal(990, result.FinalStack)
	a.Equal(map[int64]int{2: 10}, result.DepartedRefunds, "the blind settles off-table, not into the vacated stack")

	// no winner is computed; the survivor's blind comes back too
	a.Equal(PhaseWaiting, game.Phase())
	a.Nil(game.Results())
	a.Equal(0, potTotal(t, game))

	survivor, _ := game.Seat(1)
	a.Equal(1000, survivor.Stack)
	a.Equal(1, game.SeatedCount())
}

func TestGame_RemoveSeat_lastLiveSeatWinsWhenLeaverHeldCards(t *testing.T) {
	a := assert.New(t)
	game := newTestGame(t, 1000, 1000, 1000)
	a.NoError(game.StartHand())

	_, err := game.Act(1, ActionFold, 0)
	a.NoError(err)

	// of the two live seats, the small blind walks; the big blind takes
	// the pot uncontested
	result, err := game.RemoveSeat(2)
	a.NoError(err)
	a.False(result.HandAborted)

	a.Equal(PhaseShowdown, game.Phase())
	winner, _ := game.Seat(3)
	a.Equal(1005, winner.Stack)
}

func TestGame_RemoveSeat_abortVacatesEarlierLeaver(t *testing.T) {
	a := assert.New(t)
	game := newTestGame(t, 1000, 1000, 1000)
	a.NoError(game.StartHand())

	// the small blind walks out of turn; its seat lingers with the 5 in
	result, err := game.RemoveSeat(2)
	a.NoError(err)
	a.False(result.HandAborted)
	a.Equal(995, result.FinalStack)

	// the big blind walks too, aborting the hand
	result, err = game.RemoveSeat(3)
	a.NoError(err)
	a.True(result.HandAborted)
	a.Equal(990, result.FinalStack)

	// both departed contributions settle off-table; neither seat lingers
	a.Equal(map[int64]int{2: 5, 3: 10}, result.DepartedRefunds)
	a.Equal(PhaseWaiting, game.Phase())
	a.Equal(1, game.SeatedCount())
	a.Nil(game.seats[1])
	a.Nil(game.seats[2])

	survivor, _ := game.Seat(1)
	a.Equal(1000, survivor.Stack)

	// the freed seats can be reoccupied
	index, err := game.Sit(4, "dave", 500)
	a.NoError(err)
	a.Equal(1, index)
}
