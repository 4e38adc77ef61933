package model

import (
	"context"
	"fmt"

	"github.com/branlanda/poker-galaxy-arena-sub002/pkg/token"
)

var cbg = context.Background()

// testPlayer creates a fresh verified player
func testPlayer() *Player {
	p, err := CreatePlayer(cbg, randomEmail(), "Test Player", "password", "")
	if err != nil {
		panic(err)
	}

	p.Verified = true
	if err := p.Save(cbg); err != nil {
		panic(err)
	}

	return p
}

func randomEmail() string {
	suffix, err := token.Generate(10)
	if err != nil {
		panic(err)
	}

	return fmt.Sprintf("test-%s@example.org", suffix)
}

// testPlayerAndTable creates a player and a table they administer
func testPlayerAndTable() (*Player, *Table) {
	p := testPlayer()
	if err := p.SetIsSiteAdmin(cbg, true); err != nil {
		panic(err)
	}

	tbl, err := p.CreateTable(cbg, "Test Table", 5, 10, 10)
	if err != nil {
		panic(err)
	}

	return p, tbl
}
