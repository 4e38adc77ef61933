package holdem

import "errors"

// Options configures how hold'em is played at a table
type Options struct {
	SmallBlind int
	BigBlind   int
	MaxSeats   int

	// MinRaise overrides the minimum raise increment. When zero, each raise
	// must be at least the size of the last bet or raise on the street.
	MinRaise int
}

// DefaultOptions returns the default options for hold'em
func DefaultOptions() Options {
	return Options{
		SmallBlind: 5,
		BigBlind:   10,
		MaxSeats:   10,
	}
}

// Validate reports whether the options describe a playable table
func (o Options) Validate() error {
	return validateOptions(o)
}

func validateOptions(opts Options) error {
	if opts.SmallBlind <= 0 {
		return errors.New("small blind must be greater than zero")
	}

	if opts.BigBlind < opts.SmallBlind {
		return errors.New("big blind must be at least the small blind")
	}

	if opts.MaxSeats < 2 || opts.MaxSeats > 10 {
		return errors.New("table must have between 2 and 10 seats")
	}

	if opts.MinRaise < 0 {
		return errors.New("minimum raise cannot be negative")
	}

	return nil
}
