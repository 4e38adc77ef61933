package mux

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/branlanda/poker-galaxy-arena-sub002/pkg/model"
	"github.com/gorilla/mux"
)

func (m *Mux) getAdminTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, rows, err := parsePaginationOptions(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		tables, err := model.GetTables(r.Context(), start, rows)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, tables)
	}
}

func (m *Mux) deleteAdminTableUUID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tbl, err := model.GetTableByUUID(r.Context(), mux.Vars(r)["uuid"])
		if err != nil {
			writeMaybeNotFoundError(w, err)
			return
		}

		if err := tbl.Close(r.Context()); err != nil {
			var userError model.UserError
			if errors.As(err, &userError) {
				writeJSONError(w, http.StatusBadRequest, userError)
			} else {
				writeJSONError(w, http.StatusInternalServerError, err)
			}

			return
		}

		m.pitBoss.CloseTable(tbl.UUID)
		writeJSON(w, http.StatusOK, tbl)
	}
}

func (m *Mux) postAdminTableUUIDPlayerID() http.HandlerFunc {
	type payload struct {
		Amount int    `json:"amount"`
		Reason string `json:"reason"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var pp payload
		if !decodeRequest(w, r, &pp) {
			return
		}

		if pp.Amount == 0 {
			writeJSONError(w, http.StatusBadRequest, errors.New("amount cannot be zero"))
			return
		}

		if pp.Reason == "" {
			writeJSONError(w, http.StatusBadRequest, errors.New("a reason is required"))
			return
		}

		tbl, err := model.GetTableByUUID(r.Context(), mux.Vars(r)["uuid"])
		if err != nil {
			writeMaybeNotFoundError(w, err)
			return
		}

		id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		player, err := model.GetPlayerByID(r.Context(), id)
		if err != nil {
			writeMaybeNotFoundError(w, err)
			return
		}

		playerTable, err := player.GetPlayerTable(r.Context(), tbl)
		if err != nil {
			if errors.Is(err, model.ErrPlayerNotAtTable) {
				writeJSONError(w, http.StatusNotFound, err)
			} else {
				writeJSONError(w, http.StatusInternalServerError, err)
			}

			return
		}

		if err := playerTable.AdjustBalance(r.Context(), pp.Amount, pp.Reason, nil); err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, playerTable)
	}
}
