package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayer_Join(t *testing.T) {
	a := assert.New(t)

	_, tbl := testPlayerAndTable()

	p2 := testPlayer()
	pt, err := p2.Join(cbg, tbl)
	a.NoError(err)
	a.True(pt.Active)
	a.False(pt.IsTableAdmin)
	a.Equal(0, pt.Balance)
	a.Equal(p2.ID, pt.Player.ID)

	_, err = p2.Join(cbg, tbl)
	a.Equal(ErrDuplicateKey, err)

	// a stranger has no player-table record
	p3 := testPlayer()
	_, err = p3.GetPlayerTable(cbg, tbl)
	a.Equal(ErrPlayerNotAtTable, err)
}

func TestPlayerTable_AdjustBalance(t *testing.T) {
	a := assert.New(t)

	p, tbl := testPlayerAndTable()
	pt, err := p.GetPlayerTable(cbg, tbl)
	a.NoError(err)

	a.NoError(pt.AdjustBalance(cbg, 1000, "table buy-in", nil))
	a.Equal(1000, pt.Balance)

	a.NoError(pt.AdjustBalance(cbg, -250, "leave settlement", nil))
	a.Equal(750, pt.Balance)

	// a stale balance is rejected so a settlement can't apply twice
	pt.Balance = 9999
	a.Error(pt.AdjustBalance(cbg, -250, "leave settlement", nil))

	reloaded, err := p.GetPlayerTable(cbg, tbl)
	a.NoError(err)
	a.Equal(750, reloaded.Balance)
}

func TestPlayerTable_SetActiveAndSave(t *testing.T) {
	a := assert.New(t)

	p, tbl := testPlayerAndTable()
	pt, err := p.GetPlayerTable(cbg, tbl)
	a.NoError(err)
	a.True(pt.Active)

	a.NoError(pt.SetActive(cbg, false))
	a.False(pt.Active)

	pt.IsTableAdmin = false
	a.NoError(pt.Save(cbg))

	reloaded, err := p.GetPlayerTable(cbg, tbl)
	a.NoError(err)
	a.False(reloaded.Active)
	a.False(reloaded.IsTableAdmin)
}
