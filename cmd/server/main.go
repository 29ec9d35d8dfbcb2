package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmoon/examview/internal/api"
	"github.com/dmoon/examview/internal/config"
	"github.com/dmoon/examview/internal/exam"
	"github.com/dmoon/examview/internal/library"
	"github.com/dmoon/examview/internal/session"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Preload the document library. An explicit DATA_FILE takes the
	// place of the directory scan.
	var seed []*exam.Document
	if cfg.DataFile != "" {
		doc, err := library.Load(cfg.DataFile)
		if err != nil {
			log.Error("failed to load data file", "file", cfg.DataFile, "error", err)
			os.Exit(1)
		}
		seed = []*exam.Document{doc}
	} else {
		seed = library.Scan(cfg.DataDir, log)
	}
	log.Info("library loaded", "documents", len(seed))

	sessions := session.NewRegistry(cfg.SessionTTL, seed, log)
	sessions.Start(ctx)

	srv := api.NewServer(sessions, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		sessions.Stop()
	}()

	log.Info("starting examview", "port", cfg.Port, "data_dir", cfg.DataDir)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
