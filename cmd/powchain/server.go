package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shrilakshmikakati/Blockchain-Internship/internal/blockchain"
	"github.com/shrilakshmikakati/Blockchain-Internship/internal/metrics"
	"github.com/shrilakshmikakati/Blockchain-Internship/pkg/version"
)

func newMetricsMux(mining *metrics.Mining) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = blockchain.WriteJSON(w, version.Get())
	})
	mux.Handle("/metrics", mining.Handler())
	return mux
}

// serveMetrics blocks until SIGINT/SIGTERM, then shuts the server down. It
// returns early with an error if the listener cannot be bound or the server
// stops on its own.
func serveMetrics(log *slog.Logger, listen string, mining *metrics.Mining) error {
	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return fmt.Errorf("metrics listen %s: %w", listen, err)
	}

	srv := &http.Server{
		Handler:           newMetricsMux(mining),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("metrics listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if err := waitForShutdown(log, errCh); err != nil {
		return fmt.Errorf("metrics server: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	return nil
}

func waitForShutdown(log *slog.Logger, errCh <-chan error) error {
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(ch)

	select {
	case s := <-ch:
		log.Info("shutdown signal received", "signal", s.String())
		return nil
	case err := <-errCh:
		return err
	}
}
