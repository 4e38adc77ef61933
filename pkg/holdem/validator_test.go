package holdem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGame_validate_verbRules(t *testing.T) {
	a := assert.New(t)
	game := newTestGame(t, 1000, 1000)
	a.NoError(game.StartHand())

	// small blind on the clock owing 5
	_, err := game.Act(1, ActionCheck, 0)
	a.ErrorIs(err, ErrInvalidAction)

	_, err = game.Act(1, ActionBet, 50)
	a.ErrorIs(err, ErrInvalidAction, "cannot bet into a live bet")

	_, err = game.Act(1, ActionRaise, 0)
	a.ErrorIs(err, ErrInvalidAmount)

	_, err = game.Act(1, Action("bogus"), 0)
	a.ErrorIs(err, ErrInvalidAction)

	_, err = game.Act(1, ActionCall, 0)
	a.NoError(err)

	// big blind owes nothing
	_, err = game.Act(2, ActionCall, 0)
	a.ErrorIs(err, ErrInvalidAction)

	_, err = game.Act(2, ActionRaise, 5)
	a.ErrorIs(err, ErrInvalidAmount, "must make it at least 20")

	_, err = game.Act(2, ActionCheck, 0)
	a.NoError(err)
	a.Equal(PhaseFlop, game.Phase())

	// fresh street: nothing to call or raise yet
	_, err = game.Act(2, ActionCall, 0)
	a.ErrorIs(err, ErrInvalidAction)

	_, err = game.Act(2, ActionRaise, 20)
	a.ErrorIs(err, ErrInvalidAction, "nothing to raise on a fresh street")

	_, err = game.Act(2, ActionBet, 20)
	a.NoError(err)
	a.Equal(20, game.CurrentBet())
}

func TestGame_validate_allInBelowMinRaiseAllowed(t *testing.T) {
	a := assert.New(t)
	game := newTestGame(t, 1000, 1000)
	a.NoError(game.StartHand())

	_, err := game.Act(1, ActionRaise, 95)
	a.NoError(err)
	a.Equal(100, game.CurrentBet())

	// a raise all-in smaller than the minimum increment still stands
	short, _ := game.Seat(2)
	short.Stack = 120

	_, err = game.Act(2, ActionRaise, 120)
	a.NoError(err)
	a.Equal(130, game.CurrentBet())
	a.Equal(StatusAllIn, short.Status)
}

func TestGame_validate_foldRequiresLiveCards(t *testing.T) {
	a := assert.New(t)
	game := newTestGame(t, 1000, 1000, 1000)
	a.NoError(game.StartHand())

	seat, _ := game.Seat(1)
	seat.Status = StatusAllIn
	game.activeSeat = seat.Index

	_, err := game.Act(1, ActionFold, 0)
	a.ErrorIs(err, ErrInvalidAction)
}
