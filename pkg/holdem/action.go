package holdem

import (
	"encoding/json"
	"fmt"
	"time"
)

// Action represents an action a player can take on their turn
type Action string

// action constants
const (
	ActionFold  Action = "fold"
	ActionCheck Action = "check"
	ActionCall  Action = "call"
	ActionBet   Action = "bet"
	ActionRaise Action = "raise"
	ActionAllIn Action = "allIn"
)

var allowedActions = map[Action]bool{
	ActionFold:  true,
	ActionCheck: true,
	ActionCall:  true,
	ActionBet:   true,
	ActionRaise: true,
	ActionAllIn: true,
}

// ActionFromString returns an action for the given string
func ActionFromString(s string) (Action, error) {
	if _, ok := allowedActions[Action(s)]; ok {
		return Action(s), nil
	}

	return "", fmt.Errorf("unknown action for identifier: %s", s)
}

func (a Action) String() string {
	switch a {
	case ActionFold:
		return "Fold"
	case ActionCheck:
		return "Check"
	case ActionCall:
		return "Call"
	case ActionBet:
		return "Bet"
	case ActionRaise:
		return "Raise"
	case ActionAllIn:
		return "All-In"
	}

	panic("unknown action")
}

// RequiresAmount returns true if the action must carry a chip amount
func (a Action) RequiresAmount() bool {
	return a == ActionBet || a == ActionRaise
}

// IsValid returns true if the action is permitted
func (a Action) IsValid() bool {
	_, ok := allowedActions[a]
	return ok
}

// LogMessage returns a message formatted for the table log
func (a Action) LogMessage(amount int) string {
	switch a {
	case ActionFold:
		return "folded"
	case ActionCheck:
		return "checked"
	case ActionCall:
		return fmt.Sprintf("called ${%d}", amount)
	case ActionBet:
		return fmt.Sprintf("bet ${%d}", amount)
	case ActionRaise:
		return fmt.Sprintf("raised ${%d}", amount)
	case ActionAllIn:
		return fmt.Sprintf("went all-in for ${%d}", amount)
	}

	return ""
}

// MarshalJSON encodes the action into JSON
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}{
		ID:   string(a),
		Name: a.String(),
	})
}

// UnmarshalJSON decodes the action from JSON
func (a *Action) UnmarshalJSON(b []byte) error {
	var aj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(b, &aj); err != nil {
		return err
	}

	action, err := ActionFromString(aj.ID)
	if err != nil {
		return err
	}

	*a = action
	return nil
}

// Record is an append-only entry in the hand's action log
// Seq gives a total order per hand; records are never mutated
type Record struct {
	HandID string    `json:"handId"`
	Seq    int64     `json:"seq"`
	Seat   int       `json:"seat"`
	Action Action    `json:"action"`
	Amount int       `json:"amount"`
	Time   time.Time `json:"time"`
}
