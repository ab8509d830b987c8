// Package web serves the Shopify OAuth handshake over HTTP.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"
)

// Config holds what NewServer needs.
type Config struct {
	Addr          string
	SessionKey    string
	SecureCookies bool
	Clients       ClientFactory
	OnToken       TokenSink
	Logger        *slog.Logger
}

// Server is the HTTP front of the OAuth handshake.
type Server struct {
	addr    string
	handler http.Handler
	logger  *slog.Logger
}

// NewSessionStore returns the cookie store holding OAuth nonces.
func NewSessionStore(key string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(key))
	store.MaxAge(3600)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode
	return store
}

func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	store := NewSessionStore(cfg.SessionKey, cfg.SecureCookies)
	h := NewHandlers(cfg.Clients, store, cfg.OnToken, logger)
	return &Server{addr: cfg.Addr, handler: NewRouter(h, logger), logger: logger}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler { return s.handler }

// NewRouter mounts the handlers behind request id, logging and recovery.
func NewRouter(h *Handlers, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, requestLogger(logger), middleware.Recoverer)
	SetupRoutes(r, h)
	return r
}

// SetupRoutes registers the OAuth routes on router.
func SetupRoutes(router chi.Router, h *Handlers) {
	router.Route("/integrations/shopify", func(r chi.Router) {
		r.With(BindQuery(startRequest)).Get("/start", h.Start)
		r.With(BindQuery(callbackRequest)).Get("/callback", h.Callback)
	})
}

// Serve listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	eg, egctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		BaseContext:       func(net.Listener) context.Context { return egctx },
		ReadHeaderTimeout: 10 * time.Second,
	}
	eg.Go(func() error {
		s.logger.Info("listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("web: serve: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Debug("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"dur", time.Since(start),
				"req_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": code, "message": msg})
}
