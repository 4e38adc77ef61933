package holdem

import "fmt"

// validate checks a proposed action against the current game and seat state
// Validation is pure: it never mutates state. Effects are applied by Act only
// after validation passes.
func (g *Game) validate(seat *Seat, act Action, amount int) error {
	if !g.phase.IsBettingRound() {
		return ErrHandNotActive
	}

	if seat.Index != g.activeSeat {
		return ErrTurnViolation
	}

	switch act {
	case ActionFold:
		if seat.Status != StatusPlaying {
			return fmt.Errorf("%w: seat is %s and cannot fold", ErrInvalidAction, seat.Status)
		}
	case ActionCheck:
		if seat.Bet < g.currentBet {
			return fmt.Errorf("%w: cannot check with ${%d} to call", ErrInvalidAction, g.currentBet-seat.Bet)
		}
	case ActionCall:
		// a call owing more than the stack is an implicit all-in, not an error
		if g.currentBet-seat.Bet <= 0 {
			return fmt.Errorf("%w: nothing to call", ErrInvalidAction)
		}
	case ActionBet:
		if g.currentBet > 0 {
			return fmt.Errorf("%w: there is a live bet; raise instead", ErrInvalidAction)
		}

		return g.validateWager(seat, amount)
	case ActionRaise:
		if g.currentBet == 0 {
			return fmt.Errorf("%w: nothing to raise; bet instead", ErrInvalidAction)
		}

		return g.validateWager(seat, amount)
	case ActionAllIn:
		if seat.Stack <= 0 {
			return ErrInsufficientChips
		}
	default:
		return fmt.Errorf("%w: %s", ErrInvalidAction, string(act))
	}

	return nil
}

func (g *Game) validateWager(seat *Seat, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidAmount)
	}

	if amount > seat.Stack {
		return ErrInsufficientChips
	}

	commitment := seat.Bet + amount
	if commitment <= g.currentBet {
		return fmt.Errorf("%w: total of ${%d} must exceed the current bet of ${%d}", ErrInvalidAmount, commitment, g.currentBet)
	}

	// an all-in below the minimum raise is always allowed
	if amount == seat.Stack {
		return nil
	}

	if min := g.currentBet + g.minRaiseSize(); commitment < min {
		return fmt.Errorf("%w: must make it at least ${%d}", ErrInvalidAmount, min)
	}

	return nil
}

// minRaiseSize is the minimum raise increment policy
func (g *Game) minRaiseSize() int {
	if g.opts.MinRaise > 0 {
		return g.opts.MinRaise
	}

	return g.lastRaise
}
