package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"santi/internal/bank"
)

// handleBankTransactions serves the raw bank transaction snapshot.
// `?refresh=1` bypasses the snapshot caches and hits the aggregator.
func (s *Server) handleBankTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess := sessionFrom(r)
	uid := sess.User().UID

	if r.URL.Query().Get("refresh") == "1" {
		s.accountsCache.Delete(uid)
		s.txCache.Delete(uid)
	}
	s.ensureBankSnapshots(r, sess)

	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": sess.BankTransactions(),
	})
}

func (s *Server) handleLinkToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess := sessionFrom(r)

	token, err := s.bank.CreateLinkToken(r.Context(), sess.User().UID)
	if err != nil {
		s.writeBankError(w, r, "create link token", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"link_token": token})
}

type linkExchangeRequest struct {
	PublicToken string `json:"public_token"`
}

func (s *Server) handleLinkExchange(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess := sessionFrom(r)

	var req linkExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PublicToken == "" {
		writeError(w, http.StatusBadRequest, "missing public_token")
		return
	}

	uid := sess.User().UID
	if err := s.bank.ExchangePublicToken(r.Context(), uid, req.PublicToken); err != nil {
		s.writeBankError(w, r, "exchange public token", err)
		return
	}

	// The link changed what the aggregator can see; next read refetches.
	s.accountsCache.Delete(uid)
	s.txCache.Delete(uid)

	writeJSON(w, http.StatusOK, map[string]bool{"linked": true})
}

// writeBankError maps aggregator failures onto 502, carrying the upstream
// status and body for debugging.
func (s *Server) writeBankError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var apiErr *bank.APIError
	if errors.As(err, &apiErr) {
		slog.ErrorContext(r.Context(), "Bank aggregator error",
			"operation", op, "upstream_status", apiErr.Status, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":           "bank aggregator error",
			"upstream_status": apiErr.Status,
			"upstream_body":   apiErr.Body,
		})
		return
	}
	slog.ErrorContext(r.Context(), "Bank call failed", "operation", op, "error", err)
	writeError(w, http.StatusBadGateway, "bank aggregator unavailable")
}
