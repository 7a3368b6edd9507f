package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"santi/internal/core"
	"santi/internal/session"
)

type createLedgerEntryRequest struct {
	Date        string  `json:"date"`
	Label       string  `json:"label"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	FromAccount string  `json:"fromAccount"`
	ToAccount   string  `json:"toAccount"`
	Platform    string  `json:"platform"`
	Tags        string  `json:"tags"`
	Note        string  `json:"note"`
}

type ledgerResponse struct {
	Rows []core.UnifiedRow `json:"rows"`
	// Total is the unfiltered row count, shown next to the filtered view.
	Total int `json:"total"`
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	switch r.Method {
	case http.MethodGet:
		s.ensureBankSnapshots(r, sess)

		rows := sess.UnifiedRows()
		q := r.URL.Query()
		sortMode := core.SortMode(q.Get("sort"))
		if sortMode == "" {
			sortMode = core.SortDateDesc
		}
		filters := core.Filters{
			Source: core.Source(q.Get("source")),
			Type:   core.EntryType(q.Get("type")),
			Search: q.Get("search"),
			Sort:   sortMode,
		}
		writeJSON(w, http.StatusOK, ledgerResponse{
			Rows:  core.Query(rows, filters),
			Total: len(rows),
		})

	case http.MethodPost:
		var req createLedgerEntryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		entry, err := sess.AddLedgerEntry(core.LedgerEntry{
			Date:        req.Date,
			Label:       req.Label,
			Amount:      req.Amount,
			Type:        core.EntryType(req.Type),
			FromAccount: req.FromAccount,
			ToAccount:   req.ToAccount,
			Platform:    req.Platform,
			Tags:        req.Tags,
			Note:        req.Note,
		})
		if errors.Is(err, core.ErrEmptyLabel) || errors.Is(err, core.ErrInvalidAmount) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, entry)

	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ensureBankSnapshots fills the session's bank data from the snapshot
// caches, fetching from the aggregator on a cold cache. A fetch failure
// degrades to whatever is already in the session; the merged view still
// renders.
func (s *Server) ensureBankSnapshots(r *http.Request, sess *session.Session) {
	uid := sess.User().UID

	accounts, haveAccounts := s.accountsCache.Get(uid)
	txs, haveTxs := s.txCache.Get(uid)
	if haveAccounts && haveTxs {
		sess.SetBankSnapshots(accounts, txs)
		return
	}

	if err := sess.RefreshBank(r.Context(), s.bank); err != nil {
		slog.WarnContext(r.Context(), "Bank refresh failed, serving stale or empty snapshots",
			"uid", uid, "error", err)
		return
	}
	s.accountsCache.Set(uid, sess.Accounts())
	s.txCache.Set(uid, sess.BankTransactions())
}
