package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"santi/internal/core"
)

type createPlayRequest struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
	Type   string  `json:"type"`
}

func (s *Server) handlePlays(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{
			"plays": sess.Plays(),
			"net":   core.ManualNetWorth(sess.Plays()),
		})

	case http.MethodPost:
		var req createPlayRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		playType := core.PlayType(req.Type)
		if playType == "" {
			playType = core.PlayAsset
		}

		play, err := sess.AddPlay(req.Label, req.Amount, playType)
		if errors.Is(err, core.ErrEmptyLabel) || errors.Is(err, core.ErrInvalidAmount) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, play)

	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
