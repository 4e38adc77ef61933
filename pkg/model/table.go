package model

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/branlanda/poker-galaxy-arena-sub002/pkg/db"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// tableCreationCoolDown is how long non-admins must wait before creating another table
const tableCreationCoolDown = time.Minute

const tableColumns = `
tables.uuid,
tables.name,
tables.player_id,
tables.small_blind,
tables.big_blind,
tables.max_seats,
tables.created,
tables.closed`

// Table represents a poker table
// A table has many players and deals many hands
type Table struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
	// PlayerID is who created the table
	PlayerID   int64     `json:"playerId"`
	SmallBlind int       `json:"smallBlind"`
	BigBlind   int       `json:"bigBlind"`
	MaxSeats   int       `json:"maxSeats"`
	Created    time.Time `json:"created"`
	// Closed is when an operator shut the table down, or the zero time
	Closed time.Time `json:"closed,omitempty"`
}

// IsClosed returns true if an operator closed the table
func (t *Table) IsClosed() bool {
	return !t.Closed.IsZero()
}

// ErrPlayerNotAtTable happens when user is not a member of the table
var ErrPlayerNotAtTable = errors.New("player is not a member of the table")

// CreateTable creates a new table
func (p *Player) CreateTable(ctx context.Context, name string, smallBlind, bigBlind, maxSeats int) (*Table, error) {
	if err := p.canCreateTable(ctx); err != nil {
		return nil, err
	}

	tx, err := db.Instance().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	u := uuid.New().String()
	const query = `
INSERT INTO tables (uuid, name, player_id, small_blind, big_blind, max_seats)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created
`
	var created time.Time
	row := tx.QueryRowContext(ctx, query, u, name, p.ID, smallBlind, bigBlind, maxSeats)
	if err := row.Scan(&created); err != nil {
		rollback(tx)
		return nil, err
	}

	const query2 = `
INSERT INTO players_tables (player_id, table_uuid, is_table_admin)
VALUES ($1, $2, true)`
	if _, err = tx.ExecContext(ctx, query2, p.ID, u); err != nil {
		rollback(tx)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &Table{
		UUID:       u,
		Name:       name,
		PlayerID:   p.ID,
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
		MaxSeats:   maxSeats,
		Created:    created,
	}, nil
}

// canCreateTable will see if the user is allowed to create a table
// returns nil if the user can create a table
func (p *Player) canCreateTable(ctx context.Context) error {
	// site admins can always create a table
	if p.IsSiteAdmin {
		return nil
	}

	const query = `
SELECT COUNT(*)
FROM tables
WHERE player_id = $1
  AND created >= $2 AT TIME ZONE 'UTC'`

	row := db.Instance().QueryRowContext(ctx, query, p.ID, time.Now().In(time.UTC).Add(tableCreationCoolDown*-1))
	var count int
	if err := row.Scan(&count); err != nil {
		return err
	}

	if count > 0 {
		return UserError("you must wait before you create another table")
	}

	return nil
}

func getTableByRow(row db.Scanner, additionalColumns ...interface{}) (*Table, error) {
	var t Table
	var closed sql.NullTime
	columns := []interface{}{
		&t.UUID,
		&t.Name,
		&t.PlayerID,
		&t.SmallBlind,
		&t.BigBlind,
		&t.MaxSeats,
		&t.Created,
		&closed,
	}

	if len(additionalColumns) > 0 {
		columns = append(columns, additionalColumns...)
	}

	if err := row.Scan(columns...); err != nil {
		return nil, err
	}

	t.Closed = closed.Time

	return &t, nil
}

// GetTableByUUID returns a table by its UUID
func GetTableByUUID(ctx context.Context, uuid string) (*Table, error) {
	const query = `
SELECT ` + tableColumns + `
FROM tables
WHERE uuid = $1`

	row := db.Instance().QueryRowContext(ctx, query, uuid)
	return getTableByRow(row)
}

// Reload will refresh the data from the database
func (t *Table) Reload(ctx context.Context) error {
	tbl, err := GetTableByUUID(ctx, t.UUID)
	if err != nil {
		return err
	}

	*t = *tbl
	return nil
}

// Close shuts the table down
// Closed tables cannot be joined or played; existing seats keep their balances.
func (t *Table) Close(ctx context.Context) error {
	const query = `
UPDATE tables
SET closed = (NOW() AT TIME ZONE 'UTC')
WHERE uuid = $1
  AND closed IS NULL
RETURNING closed`

	row := db.Instance().QueryRowContext(ctx, query, t.UUID)
	var closed time.Time
	if err := row.Scan(&closed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UserError("table is already closed")
		}

		return err
	}

	t.Closed = closed
	return nil
}

// GetPlayers returns all players at the table
func (t *Table) GetPlayers(ctx context.Context) ([]*PlayerTable, error) {
	const query = `
SELECT ` + playerColumns + `, ` + playerTableColumns + `
FROM players_tables
INNER JOIN players ON players_tables.player_id = players.id
WHERE players_tables.table_uuid = $1
ORDER BY players_tables.id`

	rows, err := db.Instance().QueryContext(ctx, query, t.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*PlayerTable, 0)
	for rows.Next() {
		p, err := getPlayerTableByRow(rows)
		if err != nil {
			return nil, err
		}

		records = append(records, p)
	}

	return records, nil
}

// TableWithPlayerEmail extends the Table object to include the creator's email
type TableWithPlayerEmail struct {
	*Table
	Email string `json:"email"`
}

// GetTables returns tables across all players, newest first
func GetTables(ctx context.Context, offset int64, limit int) ([]*TableWithPlayerEmail, error) {
	const query = `
SELECT ` + tableColumns + `, players.email
FROM tables
INNER JOIN players ON tables.player_id = players.id
ORDER BY tables.created DESC
OFFSET $1 LIMIT $2`

	rows, err := db.Instance().QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*TableWithPlayerEmail, 0)
	for rows.Next() {
		var email string
		tbl, err := getTableByRow(rows, &email)
		if err != nil {
			return nil, err
		}

		records = append(records, &TableWithPlayerEmail{
			Table: tbl,
			Email: email,
		})
	}

	return records, nil
}

// GetHandsCount returns the number of hands dealt at the table
func (t *Table) GetHandsCount(ctx context.Context) (int64, error) {
	const query = `
SELECT COUNT(id)
FROM hands
WHERE table_uuid = $1`

	var count int64
	if err := db.Instance().QueryRowContext(ctx, query, t.UUID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil {
		logrus.WithError(err).Error("could not rollback transaction")
	}
}
