package room

import (
	"context"
	"fmt"
	"testing"

	"github.com/branlanda/poker-galaxy-arena-sub002/pkg/model"
	"github.com/branlanda/poker-galaxy-arena-sub002/pkg/token"
)

var cbg = context.Background()

// testFundedPlayer creates a verified player at a fresh table with an
// off-table balance ready for a buy-in
func testFundedPlayer(t *testing.T, balance int) (*model.Player, *model.Table) {
	t.Helper()

	suffix, err := token.Generate(10)
	if err != nil {
		t.Fatal(err)
	}

	player, err := model.CreatePlayer(cbg, fmt.Sprintf("test-%s@example.org", suffix), "Test Player", "password", "")
	if err != nil {
		t.Fatal(err)
	}

	player.Verified = true
	if err := player.Save(cbg); err != nil {
		t.Fatal(err)
	}

	// site admins skip the table-creation cool-down
	if err := player.SetIsSiteAdmin(cbg, true); err != nil {
		t.Fatal(err)
	}

	tbl, err := player.CreateTable(cbg, "Test Table", 5, 10, 10)
	if err != nil {
		t.Fatal(err)
	}

	pt, err := player.GetPlayerTable(cbg, tbl)
	if err != nil {
		t.Fatal(err)
	}

	if err := pt.AdjustBalance(cbg, balance, "deposit", nil); err != nil {
		t.Fatal(err)
	}

	return player, tbl
}

// nextResponse pops the next buffered message sent to the client
func nextResponse(t *testing.T, c *Client) *Response {
	t.Helper()

	select {
	case msg := <-c.SendChan():
		res, ok := msg.(*Response)
		if !ok {
			t.Fatalf("unexpected message type: %T", msg)
		}

		return res
	default:
		t.Fatal("no message waiting")
	}

	return nil
}
