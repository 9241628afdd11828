package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/sganis/statwalker/internal/common"
	"github.com/sganis/statwalker/internal/index"
)

// Config configures the HTTP query service.
type Config struct {
	Port           int
	StaticDir      string
	DevOrigin      string // CORS-allowed origin for local frontend development
	MaxConcurrency int    // blocking /api/files scans in flight at once
}

// Server is the query service's HTTP front end. It holds no mutable
// state of its own besides the concurrency semaphore bounding offloaded
// filesystem scans; the aggregate index is read through the
// process-global index.Global().
type Server struct {
	cfg Config
	sem *semaphore.Weighted
	hs  *http.Server
}

// New builds a Server bound to cfg. The index must already be
// initialized via index.InitGlobal before Run is called.
func New(cfg Config) *Server {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 8
	}
	return &Server{
		cfg: cfg,
		sem: semaphore.NewWeighted(int64(cfg.MaxConcurrency)),
	}
}

// Run probes the port for availability, starts serving, and blocks
// until a SIGINT/SIGTERM triggers a graceful shutdown.
func (s *Server) Run() error {
	if err := checkPortFree(s.cfg.Port); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", s.withCORS(s.handleLogin))
	mux.HandleFunc("/api/users", s.withCORS(s.handleUsers))
	mux.HandleFunc("/api/folders", s.withCORS(s.handleFolders))
	mux.HandleFunc("/api/files", s.withCORS(s.handleFiles))
	if s.cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.cfg.StaticDir)))
	}

	s.hs = &http.Server{
		Addr:    ":" + strconv.Itoa(s.cfg.Port),
		Handler: mux,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.hs.Shutdown(ctx)
	}()

	fmt.Printf("listening on :%d\n", s.cfg.Port)
	err := s.hs.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// withCORS allows exactly the one configured development origin;
// requests from any other origin are served without CORS headers
// (the browser enforces same-origin as usual).
func (s *Server) withCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.DevOrigin != "" && r.Header.Get("Origin") == s.cfg.DevOrigin {
			w.Header().Set("Access-Control-Allow-Origin", s.cfg.DevOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

// checkPortFree refuses to start if the port is already in use,
// verified by a connect-probe on loopback v4 and v6 with a short
// timeout (the port may be bound on one family but not the other).
func checkPortFree(port int) error {
	for _, host := range []string{"127.0.0.1", "::1"} {
		addr := net.JoinHostPort(host, strconv.Itoa(port))
		conn, err := net.DialTimeout("tcp", addr, 200*time.Millisecond)
		if err == nil {
			_ = conn.Close()
			return common.ErrPortInUse
		}
	}
	return nil
}

// globalIndex is a small seam so handlers can be exercised in tests
// without requiring index.InitGlobal to have run against a real file.
var globalIndex = index.Global
