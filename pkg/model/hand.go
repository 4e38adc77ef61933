package model

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/branlanda/poker-galaxy-arena-sub002/pkg/db"
	"github.com/branlanda/poker-galaxy-arena-sub002/pkg/holdem"
	"github.com/sirupsen/logrus"
)

// Hand is a record in the `hands` table
type Hand struct {
	ID        int64
	TableUUID string
	HandUUID  string
	data      interface{}
	Created   time.Time
	Ended     time.Time
}

const handsColumns = `id, table_uuid, hand_uuid, data, created, ended`

// CreateHand will create a new hand record for the table
func (t *Table) CreateHand(ctx context.Context, handUUID string) (*Hand, error) {
	const query = `
INSERT INTO hands (table_uuid, hand_uuid)
VALUES ($1, $2)
RETURNING ` + handsColumns

	row := db.Instance().QueryRowContext(ctx, query, t.UUID, handUUID)
	return handByRow(row)
}

// HandByID returns a hand object by its ID
func HandByID(ctx context.Context, id int64) (*Hand, error) {
	const query = `
SELECT ` + handsColumns + `
FROM hands
WHERE id = $1`
	row := db.Instance().QueryRowContext(ctx, query, id)
	return handByRow(row)
}

func handByRow(row *sql.Row) (*Hand, error) {
	var h Hand
	var data []byte
	var ended sql.NullTime

	if err := row.Scan(&h.ID, &h.TableUUID, &h.HandUUID, &data, &h.Created, &ended); err != nil {
		return nil, err
	}

	if data != nil {
		if err := json.Unmarshal(data, &h.data); err != nil {
			return nil, err
		}
	}

	h.Ended = ended.Time

	return &h, nil
}

// SaveAction appends an action record to the hand's durable log
// The (hand_id, seq) key makes retries after a timeout idempotent: a
// resubmitted record is silently dropped rather than applied twice.
func (h *Hand) SaveAction(ctx context.Context, record *holdem.Record) error {
	const query = `
INSERT INTO hand_actions (hand_id, seq, seat, action, amount)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (hand_id, seq) DO NOTHING`

	_, err := db.Instance().ExecContext(ctx, query, h.ID, record.Seq, record.Seat, string(record.Action), record.Amount)
	return err
}

// GetActions returns the hand's action log in sequence order
func (h *Hand) GetActions(ctx context.Context) ([]*holdem.Record, error) {
	const query = `
SELECT seq, seat, action, amount, created
FROM hand_actions
WHERE hand_id = $1
ORDER BY seq`

	rows, err := db.Instance().QueryContext(ctx, query, h.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*holdem.Record, 0)
	for rows.Next() {
		var record holdem.Record
		var action string
		if err := rows.Scan(&record.Seq, &record.Seat, &action, &record.Amount, &record.Time); err != nil {
			return nil, err
		}

		record.HandID = h.HandUUID
		record.Action = holdem.Action(action)
		records = append(records, &record)
	}

	return records, nil
}

// EndHand will end the hand, store its final state, and settle balances
func (h *Hand) EndHand(ctx context.Context, data interface{}, balanceAdjustments map[int64]int) error {
	tbl, err := GetTableByUUID(ctx, h.TableUUID)
	if err != nil {
		return err
	}

	players, err := tbl.GetPlayers(ctx)
	if err != nil {
		return err
	}

	tx, err := db.Instance().BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	commit := false
	defer func() {
		if !commit {
			if err := tx.Rollback(); err != nil {
				logrus.WithError(err).Error("could not rollback transaction")
			}
			return
		}

		if err := tx.Commit(); err != nil {
			logrus.WithError(err).Error("could not commit transaction")
		}
	}()

	h.data = data
	const query = `
UPDATE hands
SET data = $1, ended = NOW() AT TIME ZONE 'UTC'
WHERE id = $2
RETURNING ended`

	b, err := json.Marshal(data)
	if err != nil {
		return err
	}

	row := tx.QueryRowContext(ctx, query, b, h.ID)
	var ended time.Time
	if err := row.Scan(&ended); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, "SELECT adjust_balance($1, $2, $3, $4, $5)")
	if err != nil {
		return err
	}

	for _, player := range players {
		change, found := balanceAdjustments[player.PlayerID]
		if !found {
			continue
		}

		_, err := stmt.ExecContext(ctx, player.ID, player.Balance, change, h.ID, "hand ended")
		if err != nil {
			return err
		}
	}

	commit = true
	h.Ended = ended
	return nil
}
