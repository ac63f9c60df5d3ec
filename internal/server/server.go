package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"github.com/zizul/sailboat/internal/chart"
	"github.com/zizul/sailboat/internal/config"
	"github.com/zizul/sailboat/path"
	"github.com/zizul/sailboat/tile"
)

// Server exposes the pathfinding engine over WebSocket: clients issue
// find_path requests against the loaded sea chart and receive routed
// voyages back.
type Server struct {
	config       *config.Config
	upgrader     websocket.Upgrader
	httpSrv      *http.Server
	jwtValidator *JWTValidator
	redis        *redis.Client

	// Live chart state. The index pointer is swapped wholesale on chart
	// reload; a retired index is never mutated, so an unwinding search
	// may still read it safely.
	index     *tile.Index
	chartName string
	indexMu   sync.RWMutex
	watcher   *chart.Watcher

	// Connection tracking
	connections map[*Connection]bool
	connMu      sync.RWMutex

	// Shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new server instance
func New(cfg *config.Config) (*Server, error) {
	log.Println("Initializing server...")

	ctx, cancel := context.WithCancel(context.Background())

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test Redis connection
	if err := redisClient.Ping(ctx).Err(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Println("Connected to Redis")

	srv := &Server{
		config:      cfg,
		connections: make(map[*Connection]bool),
		ctx:         ctx,
		cancel:      cancel,
		redis:       redisClient,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: Add proper origin checking in production
				return true
			},
		},
	}

	// Initialize JWT validator
	jwtValidator, err := NewJWTValidator(cfg, redisClient)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize JWT validator: %w", err)
	}
	srv.jwtValidator = jwtValidator

	// Load the sea chart
	ch, err := chart.Load(cfg.Chart.Path)
	if err != nil {
		cancel()
		return nil, err
	}
	srv.chartName = ch.Name
	srv.index = ch.BuildIndex(cfg.Chart.HexSize)

	// Watch for chart edits if configured
	if cfg.Chart.WatchReload {
		debounce := time.Duration(cfg.Chart.DebounceMs) * time.Millisecond
		watcher, err := chart.Watch(cfg.Chart.Path, debounce, srv.onChartReload)
		if err != nil {
			cancel()
			return nil, err
		}
		srv.watcher = watcher
	}

	log.Println("Server initialized successfully")
	return srv, nil
}

// Start begins listening for connections
func (s *Server) Start(addr string) error {
	log.Printf("Starting WebSocket server on %s", addr)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpSrv = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	log.Println("Shutting down server...")

	s.cancel()

	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			log.Printf("Error closing chart watcher: %v", err)
		}
	}

	// Close all connections, cancelling their in-flight searches.
	// Close unregisters, so snapshot first.
	s.connMu.RLock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.connMu.RUnlock()
	for _, conn := range conns {
		conn.Close()
	}

	if s.httpSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
	}

	if err := s.redis.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server stopped")
	return nil
}

// handleWebSocket upgrades an authenticated request to a WebSocket
// connection and hands it its own search coordinator.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	client, err := s.jwtValidator.ValidateToken(token)
	if err != nil {
		log.Printf("Rejected connection: %v", err)
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client.Connected = true
	client.ConnectedAt = time.Now()
	client.Touch()

	conn := NewConnection(ws, s, client)
	s.register(conn)
	log.Printf("Client %s (%s) connected", client.Username, client.ID)

	go conn.Handle()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.indexMu.RLock()
	tiles := s.index.Len()
	s.indexMu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","chart":%q,"tiles":%d}`, s.chartName, tiles)
}

// Index returns the live tile index.
func (s *Server) Index() *tile.Index {
	s.indexMu.RLock()
	defer s.indexMu.RUnlock()
	return s.index
}

// ChartName returns the name of the loaded chart.
func (s *Server) ChartName() string {
	s.indexMu.RLock()
	defer s.indexMu.RUnlock()
	return s.chartName
}

// newStrategy builds the configured search strategy. Each connection
// gets its own instance: strategies keep scratch state and must never
// be shared across concurrent searches.
func (s *Server) newStrategy() path.Strategy {
	switch s.config.Search.Strategy {
	case "bfs":
		return path.NewBFS()
	default:
		return path.NewAStar()
	}
}

// onChartReload swaps in a freshly built index and points every
// connection's coordinator at it, cancelling their in-flight searches
// first so no new search starts against the retired chart.
func (s *Server) onChartReload(ch *chart.Chart) {
	newIndex := ch.BuildIndex(s.config.Chart.HexSize)

	s.indexMu.Lock()
	s.index = newIndex
	s.chartName = ch.Name
	s.indexMu.Unlock()

	s.connMu.RLock()
	defer s.connMu.RUnlock()
	for conn := range s.connections {
		conn.coordinator.CancelCurrent()
		conn.coordinator.SetIndex(newIndex)
	}
	log.Printf("Chart %q is live across %d connections", ch.Name, len(s.connections))
}

func (s *Server) register(conn *Connection) {
	s.connMu.Lock()
	s.connections[conn] = true
	s.connMu.Unlock()
}

func (s *Server) unregister(conn *Connection) {
	s.connMu.Lock()
	delete(s.connections, conn)
	s.connMu.Unlock()
}
