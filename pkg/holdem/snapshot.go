package holdem

import (
	"github.com/branlanda/poker-galaxy-arena-sub002/pkg/deck"
)

// SeatSnapshot is the client-facing view of a seat
// Hole cards are present only for the viewing player or after a showdown
// reveal; every other viewer sees a card count instead.
type SeatSnapshot struct {
	Index        int        `json:"index"`
	PlayerID     int64      `json:"playerId"`
	Name         string     `json:"name"`
	Stack        int        `json:"stack"`
	Bet          int        `json:"bet"`
	Status       SeatStatus `json:"status"`
	IsDealer     bool       `json:"isDealer"`
	IsSmallBlind bool       `json:"isSmallBlind"`
	IsBigBlind   bool       `json:"isBigBlind"`
	Cards        deck.Hand  `json:"cards,omitempty"`
	CardCount    int        `json:"cardCount"`
}

// GameSnapshot is the full authoritative state of a table as of Seq
// A reconnecting client replaces its local state with a snapshot, then
// resumes applying ordered deltas with sequence numbers greater than Seq.
type GameSnapshot struct {
	HandID     string          `json:"handId,omitempty"`
	Phase      Phase           `json:"phase"`
	Pot        int             `json:"pot"`
	CurrentBet int             `json:"currentBet"`
	DealerSeat int             `json:"dealerSeat"`
	ActiveSeat int             `json:"activeSeat"`
	SmallBlind int             `json:"smallBlind"`
	BigBlind   int             `json:"bigBlind"`
	Community  deck.Hand       `json:"community"`
	Seq        int64           `json:"seq"`
	Seats      []*SeatSnapshot `json:"seats"`
	Results    []*SeatResult   `json:"results,omitempty"`
}

// Snapshot builds the state visible to the given viewer
// Pass 0 as the viewer for a spectator view with every hole card redacted.
func (g *Game) Snapshot(viewerID int64) *GameSnapshot {
	seats := make([]*SeatSnapshot, len(g.seats))
	for i, s := range g.seats {
		if s == nil || s.Status == StatusLeft {
			continue
		}

		snapshot := &SeatSnapshot{
			Index:        s.Index,
			PlayerID:     s.PlayerID,
			Name:         s.Name,
			Stack:        s.Stack,
			Bet:          s.Bet,
			Status:       s.Status,
			IsDealer:     s.IsDealer,
			IsSmallBlind: s.IsSmallBlind,
			IsBigBlind:   s.IsBigBlind,
			CardCount:    len(s.cards),
		}

		if s.PlayerID == viewerID || s.reveal {
			snapshot.Cards = s.cards.Clone()
		}

		seats[i] = snapshot
	}

	return &GameSnapshot{
		HandID:     g.handID,
		Phase:      g.phase,
		Pot:        g.Pot(),
		CurrentBet: g.currentBet,
		DealerSeat: g.dealerSeat,
		ActiveSeat: g.activeSeat,
		SmallBlind: g.opts.SmallBlind,
		BigBlind:   g.opts.BigBlind,
		Community:  g.community.Clone(),
		Seq:        g.seq,
		Seats:      seats,
		Results:    g.results,
	}
}
