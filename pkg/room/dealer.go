package room

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/branlanda/poker-galaxy-arena-sub002/internal/config"
	"github.com/branlanda/poker-galaxy-arena-sub002/pkg/holdem"
	"github.com/branlanda/poker-galaxy-arena-sub002/pkg/holdem/eval"
	"github.com/branlanda/poker-galaxy-arena-sub002/pkg/model"
	"github.com/sirupsen/logrus"
)

type state int

const (
	stateClientEvent state = iota
	stateGameEvent
	stateHandEnded
)

const logMessageLimit = 25
const recentActionLimit = 10

// Dealer owns all mutable state for a single table
// Every action funnels through the dealer's run loop, so concurrent clients
// of the same table are applied one at a time. The dealer is the only writer
// of the game and the only publisher on the table's broadcast topic.
type Dealer struct {
	pitBoss *PitBoss
	table   *model.Table
	clients map[*Client]bool
	lock    sync.RWMutex

	game       *holdem.Game
	handRecord *model.Hand

	logMessages []*LogMessage

	// seq numbers every broadcast on this table's topic
	seq int64

	execInRunLoop chan func()
	stateChanged  chan state
	close         chan bool
}

type gameUpdate struct {
	Hand          *holdem.GameSnapshot `json:"hand"`
	RecentActions []*holdem.Record     `json:"recentActions"`
	LogMessages   []*LogMessage        `json:"logMessages"`
}

// NewDealer creates a new dealer object
// This is called from a blocking state, so it needs to return quickly
func NewDealer(pitBoss *PitBoss, table *model.Table) *Dealer {
	log := logrus.WithField("uuid", table.UUID)

	opts := holdem.Options{
		SmallBlind: table.SmallBlind,
		BigBlind:   table.BigBlind,
		MaxSeats:   table.MaxSeats,
		MinRaise:   config.Instance().Game.MinRaise,
	}

	game, err := holdem.NewGame(log, opts, eval.NewSevenCard())
	if err != nil {
		log.WithError(err).Error("table has invalid options; using defaults")
		game, _ = holdem.NewGame(log, holdem.DefaultOptions(), eval.NewSevenCard())
	}

	d := &Dealer{
		pitBoss:       pitBoss,
		table:         table,
		clients:       make(map[*Client]bool),
		game:          game,
		execInRunLoop: make(chan func(), 256),
		stateChanged:  make(chan state, 256),
		close:         make(chan bool),
	}

	return d
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

func (d *Dealer) runLoop() {
	log := logrus.WithFields(logrus.Fields{
		"uuid": d.table.UUID,
		"name": d.table.Name,
	})

	log.Debug("creating dealer run loop")
	for {
		select {
		case s := <-d.stateChanged:
			switch s {
			case stateClientEvent:
				d.sendPlayerData()
			case stateGameEvent:
				d.sendGameData()
			case stateHandEnded:
				d.sendGameData()
				d.sendPlayerData()
			}
		case fn := <-d.execInRunLoop:
			fn()
		case <-d.close:
			log.Debug("terminating dealer run loop")
			return
		}
	}
}

// Snapshot returns the current game state as seen by the viewer, or nil if
// the dealer has already ended its shift
// Used by the HTTP snapshot-fetch endpoint for reconnecting clients.
func (d *Dealer) Snapshot(viewerID int64) *holdem.GameSnapshot {
	reply := make(chan *holdem.GameSnapshot, 1)
	select {
	case d.execInRunLoop <- func() { reply <- d.game.Snapshot(viewerID) }:
	case <-d.close:
		return nil
	}

	select {
	case snapshot := <-reply:
		return snapshot
	case <-d.close:
		return nil
	}
}

// AddClient adds a client
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	d.lock.Lock()
	client.dealer = d
	d.clients[client] = true
	d.lock.Unlock()

	d.stateChanged <- stateClientEvent
	d.execInRunLoop <- func() {
		// catch a late joiner or reconnect up before any deltas arrive
		client.Send(d.gameUpdateResponse(client.player.ID, ""))
	}
}

// RemoveClient removes a client
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) (lastClient bool) {
	d.lock.Lock()
	delete(d.clients, client)
	nClients := len(d.clients)
	d.lock.Unlock()

	if nClients > 0 {
		d.stateChanged <- stateClientEvent
		return false
	}

	return true
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	close(d.close)
}

// TableClosed tells every connected client the table was shut down
// Each client disconnects after the close frame, which winds the dealer down
// through the usual disconnect path.
func (d *Dealer) TableClosed() {
	d.execInRunLoop <- func() {
		d.broadcast("table_closed", nil)
		for _, client := range d.Clients() {
			select {
			case client.Close <- "table closed":
			default:
			}
		}
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) gameUpdateResponse(viewerID int64, ctx string) *Response {
	return &Response{
		Key: "game_update",
		Seq: d.seq,
		Data: &gameUpdate{
			Hand:          d.game.Snapshot(viewerID),
			RecentActions: d.game.RecentActions(recentActionLimit),
			LogMessages:   d.logMessages,
		},
		Context: ctx,
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendGameData() {
	d.seq++
	for _, client := range d.Clients() {
		client.Send(d.gameUpdateResponse(client.player.ID, ""))
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) broadcast(key string, data interface{}) {
	d.seq++
	for _, client := range d.Clients() {
		client.Send(&Response{
			Key:  key,
			Seq:  d.seq,
			Data: data,
		})
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) addLogMessages(messages ...*LogMessage) {
	m := append(d.logMessages, messages...)
	if count := len(m); count > logMessageLimit {
		m = m[count-logMessageLimit:]
	}

	d.logMessages = m
}

func (d *Dealer) sendPlayerData() {
	players, err := d.table.GetPlayers(context.Background())
	if err != nil {
		logrus.WithField("uuid", d.table.UUID).WithError(err).Error("could not get players")
		return
	}

	connectedClients := make(map[int64]*model.Player)
	for _, client := range d.Clients() {
		connectedClients[client.player.ID] = client.player
	}

	csPlayers := make(map[int64]*clientStatePlayer)
	for _, player := range players {
		_, isConnected := connectedClients[player.PlayerID]
		delete(connectedClients, player.PlayerID)
		csPlayers[player.PlayerID] = &clientStatePlayer{
			PlayerTable: player,
			IsConnected: isConnected,
			IsSeated:    true,
		}
	}

	for _, player := range connectedClients {
		csPlayers[player.ID] = &clientStatePlayer{
			PlayerTable: &model.PlayerTable{
				Player:    player,
				PlayerID:  player.ID,
				TableUUID: d.table.UUID,
			},
			IsConnected: true,
			IsSeated:    false,
		}
	}

	d.seq++
	for _, client := range d.Clients() {
		client.Send(&Response{
			Key:  "clientState",
			Seq:  d.seq,
			Data: csPlayers,
		})
	}
}

type clientStatePlayer struct {
	*model.PlayerTable
	IsConnected bool `json:"isConnected"`
	IsSeated    bool `json:"isSeated"`
}

// canAdminTable will send an error message to the client if they are not a table admin or site admin
// If they are an appropriate admin, true is returned, otherwise false is returned
func canAdminTable(ctx string, c *Client) bool {
	if c.player.IsSiteAdmin {
		return true
	}

	playerTable, err := c.player.GetPlayerTable(context.Background(), c.table)
	if err != nil {
		c.Send(newErrorResponse(ctx, err))
		return false
	}

	if !playerTable.IsTableAdmin {
		c.Send(newErrorResponse(ctx, errors.New("you do not have the appropriate permission")))
		return false
	}

	return true
}

// ReceivedMessage is called when a client sends a message to the server
func (d *Dealer) ReceivedMessage(c *Client, msg *PayloadIn) {
	switch msg.Action {
	case "sit":
		d.execInRunLoop <- func() {
			d.handleSit(c, msg)
		}
	case "startHand":
		d.execInRunLoop <- func() {
			d.handleStartHand(c, msg)
		}
	case "action":
		d.execInRunLoop <- func() {
			d.handleAction(c, msg)
		}
	case "assessLeave":
		d.execInRunLoop <- func() {
			assessment, err := d.game.AssessLeave(c.player.ID)
			if err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			c.Send(&Response{Key: "leaveAssessment", Data: assessment, Context: msg.Context})
		}
	case "leave":
		d.execInRunLoop <- func() {
			d.handleLeave(c, msg)
		}
	case "getState":
		d.execInRunLoop <- func() {
			c.Send(d.gameUpdateResponse(c.player.ID, msg.Context))
		}
	case "terminateHand":
		if !canAdminTable(msg.Context, c) {
			return
		}

		d.execInRunLoop <- func() {
			refunds, err := d.game.Abort()
			if err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			d.closeHandRecord(refunds)
			c.Send(OK(msg.Context))
			d.stateChanged <- stateHandEnded
		}
	case "tableAdmin":
		d.execInRunLoop <- func() {
			if !canAdminTable(msg.Context, c) {
				return
			}

			isTableAdmin, ok := msg.AdditionalData.GetBool("isTableAdmin")
			if !ok {
				c.Send(newErrorResponse(msg.Context, errors.New("isTableAdmin is not boolean")))
				return
			}

			playerID, ok := msg.AdditionalData.GetInt("playerId")
			if !ok {
				c.Send(newErrorResponse(msg.Context, errors.New("could not obtain playerId")))
				return
			}

			player, err := model.GetPlayerByID(context.Background(), int64(playerID))
			if err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			playerTable, err := player.GetPlayerTable(context.Background(), c.table)
			if err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			playerTable.IsTableAdmin = isTableAdmin
			if err := playerTable.Save(context.Background()); err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			c.Send(OK(msg.Context))
			d.stateChanged <- stateClientEvent
		}
	case "playerStatus":
		d.execInRunLoop <- func() {
			var pt *model.PlayerTable
			var err error

			// set status for other player, requires table admin
			playerID, ok := msg.AdditionalData.GetInt("playerId")
			if ok {
				if !canAdminTable(msg.Context, c) {
					return
				}

				var player *model.Player
				player, err = model.GetPlayerByID(context.Background(), int64(playerID))
				if err != nil {
					c.Send(newErrorResponse(msg.Context, err))
					return
				}

				pt, err = player.GetPlayerTable(context.Background(), c.table)
			} else {
				// set status for self
				pt, err = c.player.GetPlayerTable(context.Background(), c.table)
			}

			if err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			isActive, ok := msg.AdditionalData.GetBool("active")
			if !ok {
				c.Send(newErrorResponse(msg.Context, errors.New("active is not boolean")))
				return
			}

			if err := pt.SetActive(context.Background(), isActive); err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			c.Send(OK(msg.Context))
			d.stateChanged <- stateClientEvent
		}
	default:
		logrus.WithField("msg", msg).Warn("unknown message")
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) handleSit(c *Client, msg *PayloadIn) {
	buyIn := msg.Amount
	if buyIn <= 0 {
		buyIn = config.Instance().Game.DefaultBuyIn
	}

	pt, err := c.player.GetPlayerTable(context.Background(), c.table)
	if err != nil {
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	if pt.Balance < buyIn {
		c.Send(newErrorResponse(msg.Context, model.UserError("insufficient balance for the buy-in")))
		return
	}

	// the debit must land before any chips reach the table; a player never
	// plays on a buy-in that failed to persist
	if err := pt.AdjustBalance(context.Background(), -buyIn, "table buy-in", d.handRecord); err != nil {
		logrus.WithError(err).Error("could not debit the buy-in")
		c.Send(newErrorResponse(msg.Context, model.UserError("could not complete the buy-in")))
		return
	}

	seat, err := d.game.Sit(c.player.ID, c.player.DisplayName, buyIn)
	if err != nil {
		if err2 := pt.AdjustBalance(context.Background(), buyIn, "buy-in returned", d.handRecord); err2 != nil {
			logrus.WithError(err2).Error("could not return the buy-in")
		}

		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	d.addLogMessages(SimpleLogMessage(c.player.ID, "{} sat down in seat %d with ${%d}", seat, buyIn))
	c.Send(OK(msg.Context))
	d.stateChanged <- stateGameEvent
	d.stateChanged <- stateClientEvent
}

// NOTE: must only be called from the run loop
func (d *Dealer) handleStartHand(c *Client, msg *PayloadIn) {
	if err := d.startHand(); err != nil {
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	c.Send(OK(msg.Context))
}

// NOTE: must only be called from the run loop
func (d *Dealer) startHand() error {
	if err := d.game.StartHand(); err != nil {
		return err
	}

	record, err := d.table.CreateHand(context.Background(), d.game.HandID())
	if err != nil {
		logrus.WithError(err).Error("could not create hand record")
	} else {
		d.handRecord = record
		// the blinds are already in the action log
		for _, action := range d.game.Actions() {
			d.persistAction(action)
		}
	}

	d.addLogMessages(SimpleLogMessage(0, "a new hand was dealt"))
	d.stateChanged <- stateGameEvent

	// the blinds can leave everyone all-in
	d.maybeFinishHand()
	return nil
}

// NOTE: must only be called from the run loop
func (d *Dealer) handleAction(c *Client, msg *PayloadIn) {
	action, err := holdem.ActionFromString(msg.Subject)
	if err != nil {
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	record, err := d.game.Act(c.player.ID, action, msg.Amount)
	if err != nil {
		// a rejected action mutates nothing and is never broadcast
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	d.persistAction(record)
	d.addLogMessages(SimpleLogMessage(c.player.ID, "{} %s", record.Action.LogMessage(record.Amount)))

	c.Send(OK(msg.Context))
	d.broadcast("player_action", map[string]interface{}{
		"seat":   record.Seat,
		"action": record.Action,
		"amount": record.Amount,
	})
	d.stateChanged <- stateGameEvent

	d.maybeFinishHand()
}

// NOTE: must only be called from the run loop
func (d *Dealer) handleLeave(c *Client, msg *PayloadIn) {
	assessment, err := d.game.AssessLeave(c.player.ID)
	if err != nil {
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	if !assessment.Immediate {
		// the forced fold goes through the normal action path so every
		// invariant and log entry still applies
		record, err := d.game.Act(c.player.ID, holdem.ActionFold, 0)
		if err != nil {
			c.Send(newErrorResponse(msg.Context, err))
			return
		}

		d.persistAction(record)
		d.broadcast("player_action", map[string]interface{}{
			"seat":   record.Seat,
			"action": record.Action,
			"amount": record.Amount,
		})
	}

	result, err := d.game.RemoveSeat(c.player.ID)
	if err != nil {
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	// the remaining stack converts to off-table balance exactly once
	pt, err := c.player.GetPlayerTable(context.Background(), c.table)
	if err != nil {
		logrus.WithError(err).Error("could not load seat settlement record")
	} else if result.FinalStack > 0 {
		if err := pt.AdjustBalance(context.Background(), result.FinalStack, "leave settlement", d.handRecord); err != nil {
			logrus.WithError(err).Error("could not credit final stack")
		}
	}

	if assessment.Penalty > 0 {
		if err := c.player.ApplyPenalty(context.Background(), assessment.Penalty, "left during a live hand"); err != nil {
			logrus.WithError(err).Error("could not apply reputation penalty")
		}
	}

	if result.HandAborted {
		// refunds for seats vacated mid-hand settle straight to balances
		d.closeHandRecord(result.DepartedRefunds)
		d.addLogMessages(SimpleLogMessage(0, "the hand was aborted"))
	}

	d.addLogMessages(SimpleLogMessage(c.player.ID, "{} left the table"))
	c.Send(&Response{
		Key: "leaveResult",
		Data: map[string]interface{}{
			"finalStack":     result.FinalStack,
			"penaltyApplied": assessment.Penalty,
			"message":        "you have left the table",
		},
		Context: msg.Context,
	})

	d.broadcast("player_left", map[string]interface{}{
		"seat":       result.Seat,
		"playerName": result.Name,
		"timestamp":  time.Now(),
	})
	d.stateChanged <- stateGameEvent
	d.stateChanged <- stateClientEvent

	d.maybeFinishHand()
}

// NOTE: must only be called from the run loop
func (d *Dealer) persistAction(record *holdem.Record) {
	if d.handRecord == nil {
		return
	}

	// (hand, seq) dedup makes a retried persist harmless
	if err := d.handRecord.SaveAction(context.Background(), record); err != nil {
		logrus.WithError(err).WithField("seq", record.Seq).Error("could not persist action")
	}
}

// maybeFinishHand settles the hand record once the game reaches showdown and
// schedules the next deal
// NOTE: must only be called from the run loop
func (d *Dealer) maybeFinishHand() {
	if d.game.Phase() != holdem.PhaseShowdown {
		return
	}

	adjustments := make(map[int64]int)
	for _, result := range d.game.Results() {
		if result.Winnings > 0 {
			d.addLogMessages(SimpleLogMessage(result.PlayerID, "{} won ${%d}", result.Winnings))
		}
	}

	d.closeHandRecord(adjustments)
	d.stateChanged <- stateHandEnded

	delay := time.Second * time.Duration(config.Instance().Game.NextHandDelay)
	time.AfterFunc(delay, func() {
		d.execInRunLoop <- func() {
			if err := d.game.FinishHand(); err != nil {
				return
			}

			if d.game.CanStartHand() {
				if err := d.startHand(); err == nil {
					return
				}
			}

			d.stateChanged <- stateGameEvent
		}
	})
}

// NOTE: must only be called from the run loop
func (d *Dealer) closeHandRecord(adjustments map[int64]int) {
	if d.handRecord == nil {
		return
	}

	// winnings stay on the table as stacks; the ledger only moves when a
	// seat settles on leave
	if err := d.handRecord.EndHand(context.Background(), d.game.Snapshot(0), adjustments); err != nil {
		logrus.WithError(err).Error("could not close hand record")
	}

	d.handRecord = nil
}
