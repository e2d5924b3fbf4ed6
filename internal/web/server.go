// Package web provides the HTTP server and handlers for the CloudCollect API.
package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/cloudcollect/server/internal/config"
	"github.com/cloudcollect/server/internal/ingest"
	"github.com/cloudcollect/server/internal/store"
	mw "github.com/cloudcollect/server/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DataStore is the persistence surface the handlers depend on.
// *store.Store satisfies it; tests substitute a fake.
type DataStore interface {
	Ping(ctx context.Context) error

	CreateDebtor(ctx context.Context, companyID string, rec ingest.Record) (*store.Debtor, error)
	BulkInsertDebtors(ctx context.Context, companyID string, records []ingest.Record) (int64, error)
	GetDebtor(ctx context.Context, companyID, id string) (*store.Debtor, error)
	ListDebtors(ctx context.Context, companyID string, limit, offset int) ([]store.Debtor, error)
	SearchDebtors(ctx context.Context, companyID, term string) ([]store.Debtor, error)
	UpdateDebtor(ctx context.Context, companyID, id string, d store.Debtor) error
	DeleteDebtor(ctx context.Context, companyID, id string) error

	CreatePayment(ctx context.Context, companyID string, p store.Payment) (*store.Payment, error)
	ListPaymentsByDebtor(ctx context.Context, companyID, debtorID string) ([]store.Payment, error)

	ListUsers(ctx context.Context, companyID string) ([]store.User, error)
	CreateUser(ctx context.Context, companyID string, u store.User) (*store.User, error)
	UpdateUser(ctx context.Context, companyID, id string, u store.User) error
	DeleteUser(ctx context.Context, companyID, id string) error

	DashboardStatsFor(ctx context.Context, companyID string) (*store.DashboardStats, error)
}

// Server is the HTTP server for the CloudCollect application.
type Server struct {
	cfg      *config.Config
	store    DataStore
	sessions *SessionStore
	limiter  *ingest.ImportLimiter
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a new Server instance.
func NewServer(cfg *config.Config, st DataStore) *Server {
	s := &Server{
		cfg:      cfg,
		store:    st,
		sessions: NewSessionStore(cfg.Security.SessionTTL),
		limiter:  ingest.NewImportLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime),
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	// Security hardening
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	// The SPA frontend may be served from a different origin
	s.router.Use(mw.CORS)

	if s.cfg.Rate.Enabled {
		limiter := newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(limiter.middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Pages
	s.router.Get("/", s.handleLoginPage)
	s.router.Get("/app", s.handleAppPage)
	s.router.Get("/healthz", s.handleHealth)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/login", s.handleLogin)

		// Everything else requires a session
		r.Group(func(r chi.Router) {
			r.Use(mw.SessionAuth(s.sessions))

			r.Post("/logout", s.handleLogout)

			// Debtor accounts
			r.Get("/debtors", s.handleListDebtors)
			r.Post("/debtors", s.handleCreateDebtor)
			r.Get("/debtors/search", s.handleSearchDebtors)
			r.Post("/debtors/import", s.handleImport)
			r.Get("/debtors/template", s.handleDownloadTemplate)
			r.Get("/debtors/{debtorID}", s.handleGetDebtor)
			r.Put("/debtors/{debtorID}", s.handleUpdateDebtor)
			r.Delete("/debtors/{debtorID}", s.handleDeleteDebtor)

			// Payments
			r.Get("/debtors/{debtorID}/payments", s.handleListPayments)
			r.Post("/debtors/{debtorID}/payments", s.handleCreatePayment)

			// Dashboard
			r.Get("/dashboard/stats", s.handleDashboardStats)

			// Users
			r.Get("/users", s.handleListUsers)
			r.Post("/users", s.handleCreateUser)
			r.Put("/users/{userID}", s.handleUpdateUser)
			r.Delete("/users/{userID}", s.handleDeleteUser)

			// Import queue status, for monitoring
			r.Get("/import/status", s.handleImportQueueStatus)
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and waits for in-flight imports.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	return s.limiter.WaitForDrain(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME type sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Prevent clickjacking
			w.Header().Set("X-Frame-Options", "DENY")

			// Control referrer information
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if enableCSP {
				// Inline styles and scripts are needed by the login page
				w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; font-src 'self'")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// rateLimiter implements a simple token bucket rate limiter per IP.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int           // requests per window
	window   time.Duration // time window
}

type visitor struct {
	tokens    int
	lastReset time.Time
}

// newRateLimiter creates a rate limiter with the specified rate per window.
func newRateLimiter(rate int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
	}
	// Start cleanup goroutine
	go rl.cleanup()
	return rl
}

// cleanup removes stale visitor entries every minute.
func (rl *rateLimiter) cleanup() {
	for {
		time.Sleep(time.Minute)
		rl.mu.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// allow checks if the request should be allowed and consumes a token if so.
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		rl.visitors[ip] = &visitor{
			tokens:    rl.rate - 1, // consume one token
			lastReset: time.Now(),
		}
		return true
	}

	// Reset tokens if window has passed
	if time.Since(v.lastReset) > rl.window {
		v.tokens = rl.rate - 1
		v.lastReset = time.Now()
		return true
	}

	// Check if we have tokens left
	if v.tokens <= 0 {
		return false
	}

	v.tokens--
	return true
}

// middleware returns an HTTP middleware that rate limits by IP.
func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		// Use X-Real-IP if set (by the real-IP middleware)
		if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
			ip = realIP
		}

		if !rl.allow(ip) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
