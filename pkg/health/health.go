// Package health answers external liveness probes. It shares no state with
// the relay loop; supervisors only need a 200.
package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const probeBody = "Bot is running"

// Server responds 200 with a static body to every GET, on every path.
type Server struct {
	addr string
	log  *slog.Logger
}

// NewServer binds the probe responder to the configured port.
func NewServer(port int, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	return &Server{
		addr: ":" + strconv.Itoa(port),
		log:  log.With("component", "health"),
	}
}

// Run serves probes until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", handleProbe)

	server := &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.log.Info("Health endpoint started", "address", s.addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start health endpoint: %w", err)
	}

	return nil
}

func handleProbe(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(probeBody))
}
