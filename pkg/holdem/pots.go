package holdem

import "sort"

// Pot is a share of the chips in play that a fixed set of seats may win
// Side pots form when all-in seats have committed unequal amounts.
type Pot struct {
	Amount   int   `json:"amount"`
	Eligible []int `json:"eligible"`
}

// buildPots partitions every seat's total hand contribution into a main pot
// and side pots tiered by the contenders' committed amounts. Folded and
// departed seats contribute to each tier they reached but are never eligible.
func buildPots(seats []*Seat) []*Pot {
	levels := make([]int, 0, len(seats))
	seen := make(map[int]bool)
	for _, s := range seats {
		if s == nil || !s.InHand() || s.committed == 0 {
			continue
		}

		if !seen[s.committed] {
			seen[s.committed] = true
			levels = append(levels, s.committed)
		}
	}
	sort.Ints(levels)

	pots := make([]*Pot, 0, len(levels))
	prev := 0
	for _, level := range levels {
		pot := &Pot{}
		for _, s := range seats {
			if s == nil || s.committed == 0 {
				continue
			}

			contribution := s.committed
			if contribution > level {
				contribution = level
			}

			if contribution -= prev; contribution > 0 {
				pot.Amount += contribution
			}

			if s.InHand() && s.committed >= level {
				pot.Eligible = append(pot.Eligible, s.Index)
			}
		}

		pots = append(pots, pot)
		prev = level
	}

	// dead money above the last contender tier (a folded or departed seat
	// that outbid every live commitment) still belongs to the last pot
	if len(pots) > 0 {
		last := pots[len(pots)-1]
		for _, s := range seats {
			if s != nil && s.committed > prev {
				last.Amount += s.committed - prev
			}
		}
	}

	return pots
}
