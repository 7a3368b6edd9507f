package http

import (
	"errors"
	"log/slog"
	"net/http"

	"santi/internal/session"
)

type sessionResponse struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	State       string `json:"state"`
}

// handleSession signs the caller in (POST) or out (DELETE). Both resolve
// the bearer token themselves: sign-in has no session yet and sign-out
// must work even for users whose provider just got disallowed.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	user, err := s.verifier.Verify(r.Context(), token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	switch r.Method {
	case http.MethodPost:
		sess, err := s.sessions.Ensure(r.Context(), user)
		if errors.Is(err, session.ErrProviderNotAllowed) {
			s.sessions.Remove(user.UID)
			writeError(w, http.StatusForbidden, "sign-in method not allowed, signed out")
			return
		}
		if err != nil {
			slog.ErrorContext(r.Context(), "Sign-in failed", "uid", user.UID, "error", err)
			writeError(w, http.StatusInternalServerError, "session unavailable")
			return
		}
		writeJSON(w, http.StatusOK, sessionResponse{
			UID:         user.UID,
			Email:       user.Email,
			PhoneNumber: user.PhoneNumber,
			State:       string(sess.State()),
		})

	case http.MethodDelete:
		s.sessions.Remove(user.UID)
		s.accountsCache.Delete(user.UID)
		s.txCache.Delete(user.UID)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.Header().Set("Allow", "POST, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
