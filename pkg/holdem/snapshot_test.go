package holdem

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGame_Snapshot_redactsHoleCards(t *testing.T) {
	a := assert.New(t)
	game := newTestGame(t, 1000, 1000)
	a.NoError(game.StartHand())

	snapshot := game.Snapshot(1)
	a.Equal(PhasePreFlop, snapshot.Phase)
	a.Equal(15, snapshot.Pot)
	a.Equal(10, snapshot.CurrentBet)
	a.Equal(game.LastSeq(), snapshot.Seq)

	mine := snapshot.Seats[0]
	a.Len(mine.Cards, 2)
	a.Equal(2, mine.CardCount)

	theirs := snapshot.Seats[1]
	a.Nil(theirs.Cards)
	a.Equal(2, theirs.CardCount)
	a.Equal(990, theirs.Stack)
	a.Equal(10, theirs.Bet)

	// a spectator sees no hole cards at all
	spectator := game.Snapshot(0)
	a.Nil(spectator.Seats[0].Cards)
	a.Nil(spectator.Seats[1].Cards)
}

func TestGame_Snapshot_revealsAtShowdown(t *testing.T) {
	a := assert.New(t)
	game := newTestGame(t, 1000, 1000)
	a.NoError(game.StartHand())

	_, err := game.Act(1, ActionCall, 0)
	a.NoError(err)
	_, err = game.Act(2, ActionCheck, 0)
	a.NoError(err)

	for game.Phase() != PhaseShowdown {
		_, err = game.Act(game.seats[game.ActiveSeat()].PlayerID, ActionCheck, 0)
		a.NoError(err)
	}

	// contested showdowns expose every live hand to every viewer
	snapshot := game.Snapshot(0)
	a.Len(snapshot.Seats[0].Cards, 2)
	a.Len(snapshot.Seats[1].Cards, 2)
	a.Len(snapshot.Results, 2)
}

func TestGame_Snapshot_foldedHandStaysHidden(t *testing.T) {
	a := assert.New(t)
	game := newTestGame(t, 1000, 1000)
	a.NoError(game.StartHand())

	_, err := game.Act(1, ActionFold, 0)
	a.NoError(err)

	snapshot := game.Snapshot(2)
	a.Nil(snapshot.Seats[0].Cards, "an uncontested win reveals no cards")
	a.Len(snapshot.Seats[1].Cards, 2)
}

func TestGameSnapshot_roundTrip(t *testing.T) {
	a := assert.New(t)
	game := newTestGame(t, 1000, 1000, 1000)
	a.NoError(game.StartHand())

	_, err := game.Act(1, ActionCall, 0)
	a.NoError(err)

	snapshot := game.Snapshot(2)
	b, err := json.Marshal(snapshot)
	a.NoError(err)

	var decoded GameSnapshot
	a.NoError(json.Unmarshal(b, &decoded))

	a.Equal(snapshot.HandID, decoded.HandID)
	a.Equal(snapshot.Phase, decoded.Phase)
	a.Equal(snapshot.Pot, decoded.Pot)
	a.Equal(snapshot.CurrentBet, decoded.CurrentBet)
	a.Equal(snapshot.DealerSeat, decoded.DealerSeat)
	a.Equal(snapshot.ActiveSeat, decoded.ActiveSeat)
	a.Equal(snapshot.Seq, decoded.Seq)
	a.Equal(snapshot.SmallBlind, decoded.SmallBlind)
	a.Equal(snapshot.BigBlind, decoded.BigBlind)

	a.Len(decoded.Seats, len(snapshot.Seats))
	for i, seat := range snapshot.Seats {
		if seat == nil {
			a.Nil(decoded.Seats[i])
			continue
		}

		a.Equal(seat.Stack, decoded.Seats[i].Stack)
		a.Equal(seat.Bet, decoded.Seats[i].Bet)
		a.Equal(seat.Status, decoded.Seats[i].Status)
		a.Equal(len(seat.Cards), len(decoded.Seats[i].Cards))
	}
}
