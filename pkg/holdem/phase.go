package holdem

import (
	"encoding/json"
	"fmt"
)

// Phase represents where a table is in the life of a hand
type Phase int

// constants for Phase
const (
	PhaseWaiting Phase = iota
	PhasePreFlop
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhasePreFlop:
		return "pre-flop"
	case PhaseFlop:
		return "flop"
	case PhaseTurn:
		return "turn"
	case PhaseRiver:
		return "river"
	case PhaseShowdown:
		return "showdown"
	}

	return ""
}

// IsBettingRound returns true if players may act in this phase
func (p Phase) IsBettingRound() bool {
	return p >= PhasePreFlop && p <= PhaseRiver
}

type phaseJSON struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MarshalJSON encodes JSON
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(phaseJSON{
		ID:   int(p),
		Name: p.String(),
	})
}

// UnmarshalJSON decodes JSON
func (p *Phase) UnmarshalJSON(b []byte) error {
	var pj phaseJSON
	if err := json.Unmarshal(b, &pj); err != nil {
		return err
	}

	if pj.ID < int(PhaseWaiting) || pj.ID > int(PhaseShowdown) {
		return fmt.Errorf("unknown phase: %d", pj.ID)
	}

	*p = Phase(pj.ID)
	return nil
}
