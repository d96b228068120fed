// Package server answers route requests over websockets.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"

	"github.com/gravitas-games/robotplanner/internal/config"
	"github.com/gravitas-games/robotplanner/internal/ctxlog"
	"github.com/gravitas-games/robotplanner/internal/metrics"
	"github.com/gravitas-games/robotplanner/internal/planner"
	"github.com/gravitas-games/robotplanner/pkg/models"
)

// tokenProtocol is the websocket subprotocol that carries a JWT.
const tokenProtocol = "access_token"

// Server represents the route server
type Server struct {
	config    *config.Config
	planner   *planner.Planner
	logger    *slog.Logger
	upgrader  websocket.Upgrader
	httpSrv   *http.Server
	validator *JWTValidator // nil when auth is disabled
	redis     *redis.Client // may be nil

	// Connection tracking
	connections map[*Connection]bool
	connMu      sync.RWMutex

	// Shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a server routing with p. redisClient may be nil; it is only
// used for the token blacklist and is closed on Shutdown.
func New(ctx context.Context, cfg *config.Config, p *planner.Planner, redisClient *redis.Client) (*Server, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Initializing server...")

	ctx, cancel := context.WithCancel(ctx)

	srv := &Server{
		config:      cfg,
		planner:     p,
		logger:      logger,
		redis:       redisClient,
		connections: make(map[*Connection]bool),
		ctx:         ctx,
		cancel:      cancel,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			Subprotocols:    []string{tokenProtocol},
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	if cfg.Auth.Enabled {
		validator, err := NewJWTValidator(ctx, cfg.Auth, cfg.Redis.BlacklistPrefix, redisClient)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to initialize JWT validator: %w", err)
		}
		srv.validator = validator
	} else {
		logger.Warn("Authentication disabled, accepting anonymous clients")
	}

	srv.httpSrv = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	logger.Info("Server initialized", "maps", p.Maps().Len(), "address", srv.httpSrv.Addr)
	return srv, nil
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	if s.config.Metrics.Enabled {
		mux.Handle(s.config.Metrics.Path, metrics.Handler())
	}
	return mux
}

// Start listens on the configured address until Shutdown is called.
func (s *Server) Start() error {
	addr := s.httpSrv.Addr
	s.logger.Info("Server listening",
		"websocket", fmt.Sprintf("ws://%s/ws", addr),
		"health", fmt.Sprintf("http://%s/health", addr))
	if s.config.Metrics.Enabled {
		s.logger.Info("Metrics enabled", "endpoint", fmt.Sprintf("http://%s%s", addr, s.config.Metrics.Path))
	}

	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	s.cancel()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var shutdownErr error
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		shutdownErr = fmt.Errorf("http server shutdown: %w", err)
	}

	s.connMu.Lock()
	for conn := range s.connections {
		conn.Close()
	}
	s.connMu.Unlock()

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn("Redis close error", "error", err)
		}
	}

	s.logger.Info("Server shutdown complete")
	return shutdownErr
}

// ConnectionCount returns the number of open websocket clients.
func (s *Server) ConnectionCount() int {
	s.connMu.RLock()
	defer s.connMu.RUnlock()
	return len(s.connections)
}

func (s *Server) authenticate(r *http.Request) (*models.Client, error) {
	if s.validator == nil {
		return models.Anonymous(r.RemoteAddr), nil
	}

	token := extractToken(r)
	if token == "" {
		return nil, ErrMissingToken
	}
	client, err := s.validator.ValidateToken(r.Context(), token)
	if err != nil {
		return nil, err
	}
	client.RemoteAddr = r.RemoteAddr
	return client, nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With("remote", r.RemoteAddr)
	logger.Debug("New WebSocket connection request")

	client, err := s.authenticate(r)
	if err != nil {
		logger.Warn("Rejected WebSocket connection", "error", err)
		http.Error(w, fmt.Sprintf("Unauthorized: %v", err), http.StatusUnauthorized)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed", "error", err)
		return
	}
	client.ConnectedAt = time.Now()

	conn := NewConnection(ws, s, client)

	s.connMu.Lock()
	s.connections[conn] = true
	s.connMu.Unlock()
	metrics.Connections.Inc()

	logger.Info("WebSocket connection established", "user", client.Username)

	// Blocks until the client goes away.
	conn.Handle()

	s.connMu.Lock()
	delete(s.connections, conn)
	s.connMu.Unlock()
	metrics.Connections.Dec()

	logger.Info("WebSocket connection closed", "user", client.Username,
		"duration", time.Since(client.ConnectedAt).Round(time.Millisecond))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","maps":%d}`, s.planner.Maps().Len())
}
