package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contactdesk.org/internal/auth"
	"contactdesk.org/internal/config"
	"contactdesk.org/internal/httpapi"
	"contactdesk.org/internal/obs"
	"contactdesk.org/internal/store"
)

var version = "0.3.1"

func main() {
	obs.Init()
	cfg := config.Load()

	db, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := store.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}
	cancel()

	tokens, err := auth.NewIssuer(cfg.SecretKey, cfg.Algorithm, auth.WithTTL(cfg.AccessTokenTTL))
	if err != nil {
		log.Fatalf("token issuer: %v", err)
	}
	resolver := auth.NewResolver(tokens, store.NewAccounts(db))

	api := httpapi.New(db, tokens, resolver, httpapi.Options{
		Version:      version,
		CookieSecure: cfg.CookieSecure,
		TokenTTL:     cfg.AccessTokenTTL,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting contactdesk-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	_ = db.Close()
	log.Println("Stopped")
}
