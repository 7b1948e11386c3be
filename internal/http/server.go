// Package http exposes the webhook endpoint and liveness probes.
//
// The endpoint acknowledges every syntactically valid payload with 200
// before the update is processed: Telegram treats non-2xx (or a timeout)
// as undelivered and redelivers, so downstream failures must never leak
// into the HTTP status. An unparseable body earns a 400, and a client
// over the rate limit gets 429 so Telegram holds the update for later
// instead of the bot dropping it.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"kassabot/internal/core"
	applog "kassabot/internal/log"
	"kassabot/internal/telegram"
)

const (
	maxBodyBytes   = 1 << 20 // Telegram updates are small; anything bigger is abuse
	maxInflight    = 32
	processTimeout = 2 * time.Minute
)

// UpdateHandler is what the server hands decoded updates to.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, upd core.Update)
}

type Server struct {
	http.Server
	dispatcher UpdateHandler
	logger     *applog.Logger

	limiter  *rateLimiter
	inflight chan struct{}

	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// NewServer wires the routes and returns a ready-to-run server.
func NewServer(addr string, dispatcher UpdateHandler, logger *applog.Logger) *Server {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	s := &Server{
		dispatcher: dispatcher,
		logger:     logger.WithComponent(applog.ComponentHTTP),
		limiter:    newRateLimiter(),
		inflight:   make(chan struct{}, maxInflight),
	}

	mux := http.NewServeMux()
	// Liveness probes answer unconditionally so the host never mistakes a
	// cold-starting process for a dead one.
	mux.HandleFunc("GET /{$}", s.handleOK)
	mux.HandleFunc("GET /healthz", s.handleOK)
	mux.HandleFunc("POST /webhook", s.handleWebhook)

	s.Server = http.Server{
		Addr:           addr,
		Handler:        s.withRequestLog(mux),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
	return s
}

func (s *Server) handleOK(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var raw tgbotapi.Update
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		s.logger.Warn("malformed webhook payload", applog.FieldError, err)
		http.Error(w, "malformed update", http.StatusBadRequest)
		return
	}

	upd, ok := telegram.FromUpdate(raw)
	if !ok {
		// Valid payload we cannot act on (sticker, edit, channel post).
		// Acknowledge so Telegram does not redeliver it forever.
		s.handleOK(w, r)
		return
	}

	if !s.limiter.allow(clientIP(r)) {
		// Not acknowledged: a 200 would tell Telegram the update was
		// handled and the entry would be lost for good. A 429 makes
		// Telegram redeliver once the window clears; the dedup window
		// absorbs any duplicate that slips through meanwhile.
		s.logger.Warn("rate limited, deferring update to redelivery",
			applog.FieldUpdateID, upd.ID, applog.FieldClientIP, clientIP(r))
		http.Error(w, "rate limited", http.StatusTooManyRequests)
		return
	}

	// Hand off and acknowledge immediately; slow ledger calls must not
	// hold the webhook past Telegram's delivery timeout.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.inflight <- struct{}{}
		defer func() { <-s.inflight }()

		ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
		defer cancel()
		s.dispatcher.HandleUpdate(ctx, upd)
	}()

	s.handleOK(w, r)
}

// Shutdown stops accepting requests, then waits for in-flight update
// processing to drain within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.stop()
		err = s.Server.Shutdown(ctx)

		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			s.logger.Warn("shutdown deadline hit with updates still in flight")
		}
	})
	return err
}

// withRequestLog assigns a request ID and logs one line per request.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			applog.FieldRequestID, newRequestID(),
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rec.status,
			applog.FieldDuration, time.Since(start).Milliseconds(),
			applog.FieldClientIP, clientIP(r))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func newRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(b)
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
