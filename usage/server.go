package usage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/drjarvisw-bit/usageclaw/provider"
)

const FetchLogCapacity = 1000

// Server runs the usage relay API.
type Server struct {
	addr string
	api  *RelayAPI
}

// NewServer wires a registry, aggregator, and fetch log into a relay server
// listening on addr.
func NewServer(addr string) *Server {
	reg := provider.NewRegistry()
	log := NewFetchLog(FetchLogCapacity)
	agg := NewAggregator(reg, log)
	return &Server{
		addr: addr,
		api:  NewRelayAPI(reg, agg, log),
	}
}

// Aggregator exposes the wired aggregator so callers can swap adapters
// (tests, alternate base URLs).
func (s *Server) Aggregator() *Aggregator {
	return s.api.agg
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.api,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("relay: usage API listening on %s\n", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
