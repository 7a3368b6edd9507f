// Package http exposes the dashboard API: session lifecycle, plays,
// unified ledger, aggregates, and the bank-link endpoints.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"santi/internal/cache"
	"santi/internal/core"
	"santi/internal/identity"
	"santi/internal/session"
)

// BankGateway is the aggregation collaborator as the handlers see it.
// Implemented by bank.Client.
type BankGateway interface {
	CreateLinkToken(ctx context.Context, uid string) (string, error)
	ExchangePublicToken(ctx context.Context, uid, publicToken string) error
	session.BankSource
}

type Server struct {
	http.Server
	verifier    identity.Verifier
	sessions    *session.Manager
	bank        BankGateway
	rateLimiter *rateLimiter

	// Bank snapshots keyed by uid; a hit skips the aggregator round trip
	// unless the caller forces a refresh.
	accountsCache *cache.LRUCache[[]core.BankAccount]
	txCache       *cache.LRUCache[[]core.BankTransaction]
	cacheManager  *cache.Manager

	shutdownOnce sync.Once
}

func NewServer(addr string, verifier identity.Verifier, sessions *session.Manager, gateway BankGateway, snapshotTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		verifier:      verifier,
		sessions:      sessions,
		bank:          gateway,
		rateLimiter:   newRateLimiter(),
		accountsCache: cache.NewLRUCache[[]core.BankAccount](500, snapshotTTL),
		txCache:       cache.NewLRUCache[[]core.BankTransaction](500, snapshotTTL),
		cacheManager:  cache.NewManager(),
	}

	s.cacheManager.Register(s.accountsCache)
	s.cacheManager.Register(s.txCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/api/session", s.withRequestLog(s.handleSession))
	mux.HandleFunc("/api/plays", s.withRequestLog(s.withAuth(s.handlePlays)))
	mux.HandleFunc("/api/ledger", s.withRequestLog(s.withAuth(s.handleLedger)))
	mux.HandleFunc("/api/capital", s.withRequestLog(s.withAuth(s.handleCapital)))
	mux.HandleFunc("/api/budgets", s.withRequestLog(s.withAuth(s.handleBudgets)))
	mux.HandleFunc("/api/trial-balance", s.withRequestLog(s.withAuth(s.handleTrialBalance)))
	mux.HandleFunc("/api/accounts", s.withRequestLog(s.withAuth(s.handleAccounts)))
	mux.HandleFunc("/api/bank-transactions", s.withRequestLog(s.withAuth(s.handleBankTransactions)))
	mux.HandleFunc("/api/link/token", s.withRequestLog(s.withAuth(s.handleLinkToken)))
	mux.HandleFunc("/api/link/exchange", s.withRequestLog(s.withAuth(s.handleLinkExchange)))

	return s
}

// Shutdown stops the cleanup goroutines along with the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.shutdown()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
