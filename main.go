package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rosterdb/config"
	"rosterdb/executor"
	"rosterdb/server"
	"rosterdb/storage"
	"rosterdb/version"
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "rosterdb: %v\n", err)
		os.Exit(2)
	}
	log := cfg.Logger(os.Stderr)
	log.Info("starting", "version", version.String(), "port", cfg.Port, "user", cfg.User)

	srv := server.New(cfg, executor.New(storage.New()), log)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("shutdown", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
