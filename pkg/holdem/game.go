package holdem

import (
	"fmt"
	"sort"
	"time"

	"github.com/branlanda/poker-galaxy-arena-sub002/internal/rng"
	"github.com/branlanda/poker-galaxy-arena-sub002/pkg/deck"
	"github.com/branlanda/poker-galaxy-arena-sub002/pkg/holdem/eval"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Game is the authoritative hold'em state for a single table
//
// Game is not safe for concurrent use. A single owner must serialize all
// calls; the room coordinator is the only writer in the server.
type Game struct {
	log       logrus.FieldLogger
	opts      Options
	evaluator eval.Evaluator
	gen       rng.Generator

	seats []*Seat
	deck  *deck.Deck

	phase      Phase
	handID     string
	dealerSeat int
	activeSeat int
	carriedPot int
	currentBet int
	lastRaise  int
	community  deck.Hand
	seq        int64
	actions    []*Record
	results    []*SeatResult
	handsDealt int
}

// SeatResult describes a seat's outcome at the end of a hand
type SeatResult struct {
	Seat     int    `json:"seat"`
	PlayerID int64  `json:"playerId"`
	Hand     string `json:"hand,omitempty"`
	Winnings int    `json:"winnings"`
}

// NewGame returns a new hold'em game with every seat empty
func NewGame(logger logrus.FieldLogger, opts Options, evaluator eval.Evaluator) (*Game, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Game{
		log:        logger,
		opts:       opts,
		evaluator:  evaluator,
		seats:      make([]*Seat, opts.MaxSeats),
		phase:      PhaseWaiting,
		dealerSeat: -1,
		activeSeat: -1,
	}, nil
}

// SetGenerator replaces the deck's random source for subsequent hands
// This should only be used by tests that need a deterministic deal
func (g *Game) SetGenerator(gen rng.Generator) {
	g.gen = gen
}

// Options returns the table configuration
func (g *Game) Options() Options {
	return g.opts
}

// Phase returns the current phase
func (g *Game) Phase() Phase {
	return g.phase
}

// HandID returns the identifier of the current (or most recent) hand
func (g *Game) HandID() string {
	return g.handID
}

// DealerSeat returns the seat index holding the dealer button, or -1
func (g *Game) DealerSeat() int {
	return g.dealerSeat
}

// ActiveSeat returns the seat index whose turn it is, or -1 if no seat may act
func (g *Game) ActiveSeat() int {
	return g.activeSeat
}

// CurrentBet returns the amount a seat must match to stay in the round
func (g *Game) CurrentBet() int {
	return g.currentBet
}

// Pot returns the total chips in play: the carried pot plus all live round bets
func (g *Game) Pot() int {
	pot := g.carriedPot
	for _, s := range g.seats {
		if s != nil {
			pot += s.Bet
		}
	}

	return pot
}

// Community returns the community cards dealt so far
func (g *Game) Community() deck.Hand {
	return g.community.Clone()
}

// LastSeq returns the sequence number of the most recent action this hand
func (g *Game) LastSeq() int64 {
	return g.seq
}

// Actions returns the hand's append-only action log
func (g *Game) Actions() []*Record {
	actions := make([]*Record, len(g.actions))
	copy(actions, g.actions)
	return actions
}

// RecentActions returns up to n of the most recent actions
func (g *Game) RecentActions(n int) []*Record {
	if len(g.actions) <= n {
		return g.Actions()
	}

	return g.Actions()[len(g.actions)-n:]
}

// Results returns per-seat outcomes once the hand has reached showdown
func (g *Game) Results() []*SeatResult {
	return g.results
}

// Seat returns the seat occupied by the player
func (g *Game) Seat(playerID int64) (*Seat, error) {
	for _, s := range g.seats {
		if s != nil && s.PlayerID == playerID && s.Status != StatusLeft {
			return s, nil
		}
	}

	return nil, ErrSeatNotFound
}

// Sit places a player in the first open seat with the buy-in as their stack
func (g *Game) Sit(playerID int64, name string, buyIn int) (int, error) {
	if buyIn <= 0 {
		return 0, fmt.Errorf("%w: buy-in must be greater than zero", ErrInvalidAmount)
	}

	if _, err := g.Seat(playerID); err == nil {
		return 0, ErrAlreadySeated
	}

	for i, s := range g.seats {
		if s != nil {
			continue
		}

		g.seats[i] = &Seat{
			Index:    i,
			PlayerID: playerID,
			Name:     name,
			Stack:    buyIn,
			Status:   StatusSitting,
		}

		g.log.WithFields(logrus.Fields{
			"player": playerID,
			"seat":   i,
			"buyIn":  buyIn,
		}).Debug("player seated")

		return i, nil
	}

	return 0, ErrTableFull
}

// SeatedCount returns the number of occupied seats
func (g *Game) SeatedCount() int {
	count := 0
	for _, s := range g.seats {
		if s != nil && s.Status != StatusLeft {
			count++
		}
	}

	return count
}

// CanStartHand returns true if a new hand may be dealt
func (g *Game) CanStartHand() bool {
	return g.phase == PhaseWaiting && g.playersWithChips() >= 2
}

func (g *Game) playersWithChips() int {
	count := 0
	for _, s := range g.seats {
		if s != nil && s.Status != StatusLeft && s.Stack > 0 {
			count++
		}
	}

	return count
}

// StartHand shuffles a fresh deck, rotates the dealer button, posts the
// blinds as forced bets, and deals two hole cards to every seat with chips
func (g *Game) StartHand() error {
	if g.phase != PhaseWaiting {
		return ErrHandInProgress
	}

	if g.playersWithChips() < 2 {
		return ErrNotEnoughPlayers
	}

	g.handID = uuid.New().String()
	g.seq = 0
	g.actions = nil
	g.results = nil
	g.carriedPot = 0
	g.community = nil

	// a fresh shuffle for every hand; the deck is never reused
	g.deck = deck.New()
	if g.gen != nil {
		g.deck.SetGenerator(g.gen)
	}
	g.deck.Shuffle()

	dealtIn := 0
	for _, s := range g.seats {
		if s == nil || s.Status == StatusLeft {
			continue
		}

		s.newHand()
		s.Status = StatusSitting
		if s.Stack > 0 {
			s.Status = StatusPlaying
			dealtIn++
		}
	}

	// the button moves clockwise every hand
	g.dealerSeat = g.nextSeat(g.dealerSeat, (*Seat).canAct)
	g.seats[g.dealerSeat].IsDealer = true

	// heads-up: the dealer posts the small blind and acts first pre-flop
	smallBlind := g.nextSeat(g.dealerSeat, (*Seat).canAct)
	if dealtIn == 2 {
		smallBlind = g.dealerSeat
	}
	bigBlind := g.nextSeat(smallBlind, (*Seat).canAct)

	g.postBlind(g.seats[smallBlind], g.opts.SmallBlind)
	g.seats[smallBlind].IsSmallBlind = true
	g.postBlind(g.seats[bigBlind], g.opts.BigBlind)
	g.seats[bigBlind].IsBigBlind = true

	g.currentBet = g.opts.BigBlind
	g.lastRaise = g.opts.BigBlind

	// two cards each, starting left of the dealer
	for i := 0; i < 2; i++ {
		seat := g.dealerSeat
		for j := 0; j < dealtIn; j++ {
			seat = g.nextSeat(seat, (*Seat).InHand)
			g.seats[seat].cards.AddCard(g.draw())
		}
	}

	g.phase = PhasePreFlop
	g.activeSeat = g.nextSeat(bigBlind, (*Seat).canAct)
	g.handsDealt++

	g.log.WithFields(logrus.Fields{
		"hand":   g.handID,
		"dealer": g.dealerSeat,
		"pot":    g.Pot(),
	}).Info("hand started")

	// everyone may already be all-in from the blinds
	if g.roundClosed() {
		g.closeRound()
	}

	return nil
}

// Act validates and applies a player action
// On rejection a typed error is returned and no state is mutated.
func (g *Game) Act(playerID int64, act Action, amount int) (*Record, error) {
	seat, err := g.Seat(playerID)
	if err != nil {
		return nil, err
	}

	if err := g.validate(seat, act, amount); err != nil {
		return nil, err
	}

	applied := 0
	switch act {
	case ActionFold:
		seat.Status = StatusFolded
		seat.acted = true
	case ActionCheck:
		seat.acted = true
	case ActionCall:
		applied = seat.pay(g.currentBet - seat.Bet)
		seat.acted = true
	case ActionBet, ActionRaise:
		applied = seat.pay(amount)
		g.lastRaise = seat.Bet - g.currentBet
		g.currentBet = seat.Bet
		g.restartAction(seat)
	case ActionAllIn:
		applied = seat.pay(seat.Stack)
		if seat.Bet > g.currentBet {
			g.lastRaise = seat.Bet - g.currentBet
			g.currentBet = seat.Bet
			g.restartAction(seat)
		} else {
			seat.acted = true
		}
	}

	record := g.appendRecord(seat.Index, act, applied)

	g.log.WithFields(logrus.Fields{
		"hand":   g.handID,
		"seat":   seat.Index,
		"player": playerID,
		"action": string(act),
		"amount": applied,
		"seq":    record.Seq,
	}).Debug("action applied")

	g.afterAction()
	return record, nil
}

// restartAction marks a bet or raise: every other live seat must act again
func (g *Game) restartAction(actor *Seat) {
	for _, s := range g.seats {
		if s != nil && s.canAct() {
			s.acted = s == actor
		}
	}
	actor.acted = true
}

func (g *Game) afterAction() {
	if !g.phase.IsBettingRound() {
		return
	}

	if g.inHandCount() == 1 {
		g.finishEarly()
		return
	}

	if g.roundClosed() {
		g.closeRound()
		return
	}

	g.activeSeat = g.nextSeat(g.activeSeat, (*Seat).canAct)
}

// roundClosed returns true when every live, non-all-in seat has matched the
// current bet and has acted since the last bet or raise
func (g *Game) roundClosed() bool {
	for _, s := range g.seats {
		if s == nil || !s.canAct() {
			continue
		}

		if !s.acted || s.Bet != g.currentBet {
			return false
		}
	}

	return true
}

// closeRound sweeps the round bets into the pot and deals the next phase.
// When no further betting is possible, the remaining streets run out
// directly to showdown.
func (g *Game) closeRound() {
	for _, s := range g.seats {
		if s == nil {
			continue
		}

		g.carriedPot += s.Bet
		s.Bet = 0
		s.acted = false
	}

	g.currentBet = 0
	g.lastRaise = g.opts.BigBlind
	g.activeSeat = -1

	for {
		switch g.phase {
		case PhasePreFlop:
			for i := 0; i < 3; i++ {
				g.community.AddCard(g.draw())
			}
			g.phase = PhaseFlop
		case PhaseFlop:
			g.community.AddCard(g.draw())
			g.phase = PhaseTurn
		case PhaseTurn:
			g.community.AddCard(g.draw())
			g.phase = PhaseRiver
		case PhaseRiver:
			g.showdown()
			return
		}

		// betting requires at least two seats able to act
		if g.actionableCount() > 1 {
			g.activeSeat = g.nextSeat(g.dealerSeat, (*Seat).canAct)
			return
		}
	}
}

func (g *Game) actionableCount() int {
	count := 0
	for _, s := range g.seats {
		if s != nil && s.canAct() {
			count++
		}
	}

	return count
}

func (g *Game) inHandCount() int {
	count := 0
	for _, s := range g.seats {
		if s != nil && s.InHand() {
			count++
		}
	}

	return count
}

// finishEarly awards the pot to the last live seat without revealing further
// community cards or running evaluation
func (g *Game) finishEarly() {
	var winner *Seat
	for _, s := range g.seats {
		if s != nil && s.InHand() {
			winner = s
			break
		}
	}

	total := g.carriedPot
	for _, s := range g.seats {
		if s == nil {
			continue
		}

		total += s.Bet
		s.Bet = 0
		s.acted = false
	}

	g.carriedPot = 0
	g.currentBet = 0
	winner.Stack += total
	g.results = []*SeatResult{{
		Seat:     winner.Index,
		PlayerID: winner.PlayerID,
		Winnings: total,
	}}

	g.phase = PhaseShowdown
	g.activeSeat = -1

	g.log.WithFields(logrus.Fields{
		"hand":     g.handID,
		"seat":     winner.Index,
		"winnings": total,
	}).Info("hand won uncontested")
}

// showdown evaluates every live seat and distributes the pots
func (g *Game) showdown() {
	g.phase = PhaseShowdown
	g.activeSeat = -1
	g.refundUncalled()

	results := make(map[int]*SeatResult)
	scores := make(map[int]int)
	for _, s := range g.seats {
		if s == nil || !s.InHand() {
			continue
		}

		rank, err := g.evaluator.Evaluate(s.cards, g.community)
		if err != nil {
			// only corrupt card state can get us here
			panic(fmt.Sprintf("could not evaluate seat %d: %v", s.Index, err))
		}

		s.reveal = true
		scores[s.Index] = rank.Score
		results[s.Index] = &SeatResult{
			Seat:     s.Index,
			PlayerID: s.PlayerID,
			Hand:     rank.Name,
		}
	}

	for _, pot := range buildPots(g.seats) {
		best := 0
		winners := make([]int, 0, len(pot.Eligible))
		for _, idx := range pot.Eligible {
			if score := scores[idx]; score > best {
				best = score
				winners = winners[:0]
				winners = append(winners, idx)
			} else if score == best {
				winners = append(winners, idx)
			}
		}

		if len(winners) == 0 {
			continue
		}

		// odd chips go to the earliest winner left of the dealer
		g.sortByTableOrder(winners)
		share := pot.Amount / len(winners)
		odd := pot.Amount % len(winners)
		for i, idx := range winners {
			amount := share
			if i < odd {
				amount++
			}

			g.seats[idx].Stack += amount
			results[idx].Winnings += amount
		}
	}

	g.carriedPot = 0

	ordered := make([]*SeatResult, 0, len(results))
	for _, r := range results {
		ordered = append(ordered, r)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Seat < ordered[j].Seat })
	g.results = ordered

	g.log.WithFields(logrus.Fields{
		"hand":    g.handID,
		"results": len(ordered),
	}).Info("showdown complete")
}

// refundUncalled returns the portion of the top live commitment that no other
// contributing seat matched. Folded and departed contributions count as
// matching money: a bet partially covered by dead chips is only uncalled
// above them.
func (g *Game) refundUncalled() {
	var top *Seat
	for _, s := range g.seats {
		if s == nil || !s.InHand() {
			continue
		}

		if top == nil || s.committed > top.committed {
			top = s
		}
	}

	if top == nil {
		return
	}

	matched := 0
	for _, s := range g.seats {
		if s == nil || s == top {
			continue
		}

		if s.committed > matched {
			matched = s.committed
		}
	}

	if matched == 0 {
		return
	}

	if diff := top.committed - matched; diff > 0 {
		top.committed -= diff
		top.Stack += diff
		g.carriedPot -= diff
	}
}

// FinishHand resets the table to WAITING after a showdown
// Departed seats are vacated and busted players remain seated with no chips.
func (g *Game) FinishHand() error {
	if g.phase != PhaseShowdown {
		return ErrHandNotActive
	}

	for i, s := range g.seats {
		if s == nil {
			continue
		}

		if s.Status == StatusLeft {
			g.seats[i] = nil
			continue
		}

		s.newHand()
		s.Status = StatusSitting
		s.reveal = false
	}

	g.phase = PhaseWaiting
	g.community = nil
	g.currentBet = 0
	g.carriedPot = 0
	g.activeSeat = -1

	return nil
}

// Abort cancels a live hand, refunding every seat's contribution
// The returned map holds refunds owed to players whose seats had already
// departed; their chips cannot return to a stack and the caller settles them
// off-table.
func (g *Game) Abort() (map[int64]int, error) {
	if !g.phase.IsBettingRound() {
		return nil, ErrHandNotActive
	}

	return g.abortHand(), nil
}

// abortHand refunds every present seat's contribution and returns to WAITING
// Departed seats are vacated and their contributions reported for off-table
// settlement. No winner is computed for an aborted hand.
func (g *Game) abortHand() map[int64]int {
	departed := make(map[int64]int)
	for i, s := range g.seats {
		if s == nil {
			continue
		}

		if s.Status == StatusLeft {
			if s.committed > 0 {
				departed[s.PlayerID] += s.committed
			}

			g.seats[i] = nil
			continue
		}

		s.Stack += s.committed
		s.Bet = 0
		s.committed = 0
		s.acted = false
		s.cards = nil
		s.reveal = false
		s.Status = StatusSitting
	}

	g.phase = PhaseWaiting
	g.community = nil
	g.currentBet = 0
	g.carriedPot = 0
	g.activeSeat = -1
	g.results = nil

	g.log.WithField("hand", g.handID).Info("hand aborted")
	return departed
}

func (g *Game) postBlind(seat *Seat, amount int) {
	paid := seat.pay(amount)
	g.appendRecord(seat.Index, ActionBet, paid)
}

func (g *Game) appendRecord(seatIndex int, act Action, amount int) *Record {
	g.seq++
	record := &Record{
		HandID: g.handID,
		Seq:    g.seq,
		Seat:   seatIndex,
		Action: act,
		Amount: amount,
		Time:   time.Now(),
	}

	g.actions = append(g.actions, record)
	return record
}

// nextSeat returns the next seat clockwise from the given index matching the
// predicate, or -1 if none does
func (g *Game) nextSeat(from int, pred func(*Seat) bool) int {
	n := len(g.seats)
	if from < 0 {
		from = n - 1
	}

	for i := 1; i <= n; i++ {
		idx := (from + i) % n
		if s := g.seats[idx]; s != nil && pred(s) {
			return idx
		}
	}

	return -1
}

// sortByTableOrder sorts seat indexes by distance clockwise from the dealer
func (g *Game) sortByTableOrder(indexes []int) {
	n := len(g.seats)
	dist := func(idx int) int {
		return (idx - g.dealerSeat - 1 + 2*n) % n
	}

	sort.Slice(indexes, func(i, j int) bool { return dist(indexes[i]) < dist(indexes[j]) })
}

// draw takes the next card off the deck
func (g *Game) draw() *deck.Card {
	card, err := g.deck.Draw()
	if err != nil {
		// a 52-card deck cannot run out with at most ten 2-card seats
		panic(err)
	}

	return card
}
