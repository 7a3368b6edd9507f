package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"santi/internal/log"
	"santi/internal/session"
)

type contextKey string

const (
	ctxKeyRequestID contextKey = "request_id"
	ctxKeySession   contextKey = "session"
)

// withRequestLog adds request-id tracing, security headers, rate limiting
// on mutating methods, and start/completion logging.
func (s *Server) withRequestLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ip := clientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldClientIP, ip,
			log.FieldComponent, log.ComponentHTTP)

		if (r.Method == http.MethodPost || r.Method == http.MethodDelete) && !s.rateLimiter.allow(ip) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", ip, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds(),
			log.FieldClientIP, ip,
			log.FieldComponent, log.ComponentHTTP)
	}
}

// withAuth resolves the bearer token to a loaded session. A token from a
// disallowed sign-in method gets 403 and its session, if any, is removed:
// the forced sign-out of §authorization failures happens here.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		user, err := s.verifier.Verify(r.Context(), token)
		if err != nil {
			slog.WarnContext(r.Context(), "Token verification failed", "error", err)
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		sess, err := s.sessions.Ensure(r.Context(), user)
		if errors.Is(err, session.ErrProviderNotAllowed) {
			s.sessions.Remove(user.UID)
			writeError(w, http.StatusForbidden, "sign-in method not allowed, signed out")
			return
		}
		if err != nil {
			slog.ErrorContext(r.Context(), "Session load failed", "uid", user.UID, "error", err)
			writeError(w, http.StatusInternalServerError, "session unavailable")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeySession, sess)
		next(w, r.WithContext(ctx))
	}
}

func sessionFrom(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(ctxKeySession).(*session.Session)
	return sess
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
