package mux

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"github.com/branlanda/poker-galaxy-arena-sub002/internal/config"
	"github.com/branlanda/poker-galaxy-arena-sub002/pkg/holdem"
	"github.com/branlanda/poker-galaxy-arena-sub002/pkg/model"
	"github.com/gorilla/mux"
)

func (m *Mux) getTable() http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset, limit, err := parsePaginationOptions(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		player := r.Context().Value(ctxPlayerKey).(*model.Player)
		tables, err := player.GetTables(r.Context(), offset, limit)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, tables)
	})
}

type postTablePayload struct {
	Name       string `json:"name"`
	SmallBlind int    `json:"smallBlind"`
	BigBlind   int    `json:"bigBlind"`
	MaxSeats   int    `json:"maxSeats"`
}

func (m *Mux) postTable() http.HandlerFunc {
	var wordChar = regexp.MustCompile(`\w`)
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postTablePayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		if !wordChar.MatchString(pp.Name) || len(pp.Name) < 3 || len(pp.Name) > 40 {
			writeJSONError(w, http.StatusBadRequest, errors.New("name must be 3-40 characters"))
			return
		}

		defaults := config.Instance().Game
		if pp.SmallBlind == 0 {
			pp.SmallBlind = defaults.SmallBlind
		}
		if pp.BigBlind == 0 {
			pp.BigBlind = defaults.BigBlind
		}
		if pp.MaxSeats == 0 {
			pp.MaxSeats = defaults.MaxSeats
		}

		opts := holdem.Options{
			SmallBlind: pp.SmallBlind,
			BigBlind:   pp.BigBlind,
			MaxSeats:   pp.MaxSeats,
		}
		if err := opts.Validate(); err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		player := r.Context().Value(ctxPlayerKey).(*model.Player)
		tbl, err := player.CreateTable(r.Context(), pp.Name, pp.SmallBlind, pp.BigBlind, pp.MaxSeats)
		if err != nil {
			var ue model.UserError
			if errors.As(err, &ue) {
				writeJSONError(w, http.StatusBadRequest, err)
			} else {
				writeJSONError(w, http.StatusInternalServerError, err)
			}
			return
		}

		writeJSON(w, http.StatusCreated, tbl)
	}
}

type getTableUUIDResponse struct {
	*model.Table
	Players []*model.PlayerTable `json:"players"`
}

func (m *Mux) getTableUUID() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tbl := r.Context().Value(ctxTableKey).(*model.Table)
		players, err := tbl.GetPlayers(r.Context())
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, getTableUUIDResponse{
			Table:   tbl,
			Players: players,
		})
	})
}

// getTableUUIDState returns the viewer's redacted snapshot of the live hand.
// Reconnecting clients fetch this before resuming the websocket stream.
func (m *Mux) getTableUUIDState() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		player := r.Context().Value(ctxPlayerKey).(*model.Player)
		tbl := r.Context().Value(ctxTableKey).(*model.Table)

		// a nil snapshot means the dealer wound down while we asked
		if dealer := m.pitBoss.Dealer(tbl.UUID); dealer != nil {
			if snapshot := dealer.Snapshot(player.ID); snapshot != nil {
				writeJSON(w, http.StatusOK, snapshot)
				return
			}
		}

		// no dealer means nobody is connected, so there's no hand in flight
		game, err := holdem.NewGame(nil, holdem.Options{
			SmallBlind: tbl.SmallBlind,
			BigBlind:   tbl.BigBlind,
			MaxSeats:   tbl.MaxSeats,
		}, nil)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, game.Snapshot(player.ID))
	})
}

func (m *Mux) postTableUUIDSeat() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		player := r.Context().Value(ctxPlayerKey).(*model.Player)
		tbl := r.Context().Value(ctxTableKey).(*model.Table)

		if tbl.IsClosed() {
			writeJSONError(w, http.StatusBadRequest, errors.New("table is closed"))
			return
		}

		playerTable, err := player.Join(r.Context(), tbl)
		if err != nil {
			if err == model.ErrDuplicateKey {
				writeJSONError(w, http.StatusBadRequest, errors.New("player is already at the table"))
			} else {
				writeJSONError(w, http.StatusInternalServerError, err)
			}

			return
		}

		writeJSON(w, http.StatusCreated, playerTable)
	})
}

func (m *Mux) tableMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uuid := mux.Vars(r)["uuid"]
		tbl, err := model.GetTableByUUID(r.Context(), uuid)
		if err != nil {
			writeMaybeNotFoundError(w, err)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxTableKey, tbl)

		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}
