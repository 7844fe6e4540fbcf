// Package http exposes the JSON surface the banking front end calls:
// login, dashboard overview, account and card activity views, card
// secret reveal and the transfer wizard.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"bankdg/internal/services"
	"bankdg/internal/session"
)

// Write endpoints share one per-IP budget.
const (
	writeLimit  = 60
	writeWindow = time.Minute
)

type Server struct {
	http.Server

	auth      *services.Auth
	accounts  *services.Accounts
	cards     *services.Cards
	dashboard *services.Dashboard
	transfers *services.Transfers
	session   *session.Session

	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

type Deps struct {
	Auth      *services.Auth
	Accounts  *services.Accounts
	Cards     *services.Cards
	Dashboard *services.Dashboard
	Transfers *services.Transfers
	Session   *session.Session
}

// NewServer configures routes and middleware, returning a
// ready-to-run http.Server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		auth:        deps.Auth,
		accounts:    deps.Accounts,
		cards:       deps.Cards,
		dashboard:   deps.Dashboard,
		transfers:   deps.Transfers,
		session:     deps.Session,
		rateLimiter: newRateLimiter(writeLimit, writeWindow),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/login", s.withSecurityHeaders(s.handleLogin))
	mux.HandleFunc("POST /api/logout", s.withSecurityHeaders(s.handleLogout))
	mux.HandleFunc("POST /api/register", s.withSecurityHeaders(s.handleRegister))

	mux.HandleFunc("GET /api/dashboard", s.withSecurityHeaders(s.requireSession(s.handleDashboard)))
	mux.HandleFunc("GET /api/accounts", s.withSecurityHeaders(s.requireSession(s.handleAccountList)))
	mux.HandleFunc("GET /api/accounts/{id}", s.withSecurityHeaders(s.requireSession(s.handleAccountView)))
	mux.HandleFunc("GET /api/cards", s.withSecurityHeaders(s.requireSession(s.handleCardList)))
	mux.HandleFunc("GET /api/cards/{id}", s.withSecurityHeaders(s.requireSession(s.handleCardView)))
	mux.HandleFunc("POST /api/cards/{id}/otp", s.withSecurityHeaders(s.requireSession(s.handleCardOTP)))
	mux.HandleFunc("POST /api/cards/{id}/details", s.withSecurityHeaders(s.requireSession(s.handleCardDetails)))
	mux.HandleFunc("POST /api/transfers", s.withSecurityHeaders(s.requireSession(s.handleTransfer)))

	return s
}

// Shutdown stops the rate limiter cleanup and the HTTP server. Safe to
// call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting on writes,
// and request logging.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "Demasiadas solicitudes. Intente de nuevo más tarde.")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

// requireSession rejects requests when no valid login is active.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.session.User(); err != nil {
			writeError(w, http.StatusUnauthorized, "Sesión expirada. Inicie sesión nuevamente.")
			return
		}
		next(w, r)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
