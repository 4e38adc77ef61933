package room

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// PitBoss is responsible for dispatching players to tables
// Each table gets exactly one Dealer, so all actions on a table are
// serialized through that dealer's run loop. Different tables never share
// mutable state and run fully in parallel.
type PitBoss struct {
	dealers    map[string]*Dealer
	lock       sync.RWMutex
	connect    chan *Client
	disconnect chan *Client
}

// NewPitBoss returns a new dispatch object
func NewPitBoss() *PitBoss {
	return &PitBoss{
		dealers:    make(map[string]*Dealer),
		connect:    make(chan *Client, 256),
		disconnect: make(chan *Client, 256),
	}
}

// StartShift starts the PitBoss run loop
func (p *PitBoss) StartShift() {
	go p.runLoop()
}

func (p *PitBoss) runLoop() {
	for {
		select {
		case client := <-p.connect:
			logrus.WithField("player", client.String()).Debug("client connected")

			p.lock.Lock()
			dealer, found := p.dealers[client.table.UUID]
			if !found {
				dealer = NewDealer(p, client.table)
				dealer.StartShift()
				p.dealers[client.table.UUID] = dealer
			}
			p.lock.Unlock()

			dealer.AddClient(client)
		case client := <-p.disconnect:
			logrus.WithField("player", client.String()).Debug("client disconnected")

			p.lock.RLock()
			dealer, found := p.dealers[client.table.UUID]
			p.lock.RUnlock()

			if !found {
				logrus.WithField("uuid", client.table.UUID).WithField("type", "exception").Error("table not found")
				continue
			}

			if dealer.RemoveClient(client) {
				dealer.EndShift()

				p.lock.Lock()
				delete(p.dealers, client.table.UUID)
				p.lock.Unlock()
			}
		}
	}
}

// Dealer returns the active dealer for the table, or nil if the table has no
// connected clients
func (p *PitBoss) Dealer(tableUUID string) *Dealer {
	p.lock.RLock()
	defer p.lock.RUnlock()

	return p.dealers[tableUUID]
}

// CloseTable disconnects everyone from a table that an operator closed
// No-op if the table has no connected clients.
func (p *PitBoss) CloseTable(tableUUID string) {
	if dealer := p.Dealer(tableUUID); dealer != nil {
		dealer.TableClosed()
	}
}

// ClientConnected is called when a client connects to the server
func (p *PitBoss) ClientConnected(client *Client) {
	p.connect <- client
}

// ClientDisconnected is called when a client disconnects from the server
func (p *PitBoss) ClientDisconnected(client *Client) {
	p.disconnect <- client
}
