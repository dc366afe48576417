// Command taskflowd runs the TaskFlow REST service.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mzurek/taskflow/internal/config"
	"github.com/mzurek/taskflow/internal/server"
	"github.com/mzurek/taskflow/internal/store"
)

// sessionSweepInterval is how often expired session rows are purged.
const sessionSweepInterval = time.Hour

func main() {
	configPath := flag.String("config", config.DefaultConfigPath(), "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	s, err := store.NewSQLiteStore(cfg.Server.DBPath)
	if err != nil {
		log.Fatalf("opening store: %v", err)
	}
	defer s.Close()

	ttl := time.Duration(cfg.Server.SessionTTLHours) * time.Hour
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(s, ttl).Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweepSessions(ctx, s)

	go func() {
		log.Printf("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// sweepSessions periodically removes expired session rows so the
// sessions table does not grow without bound.
func sweepSessions(ctx context.Context, s store.Store) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.DeleteExpiredSessions(ctx, time.Now()); err != nil {
				log.Printf("sweeping sessions: %v", err)
			}
		}
	}
}
