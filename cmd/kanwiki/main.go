package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"kanwiki/internal/config"
	"kanwiki/internal/database"
	"kanwiki/internal/logging"
	"kanwiki/internal/web"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Read(".env", args)
	if err != nil {
		return err
	}

	if len(cfg.Args) > 0 && cfg.Args[0] == "admin" {
		return runAdmin(cfg, cfg.Args[1:], os.Stdout)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	db, err := database.New(cfg.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}
	log.Info("database migrated", "dsn", cfg.DSN)

	server, err := web.NewServer(db, cfg, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Addr,
		ErrorLog:     logging.StdLogger(log, slog.LevelError),
		Handler:      server,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		s := <-sigint

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		log.Info("shutting down", "signal", s.String())
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("http server shutdown", "error", err)
		}
		close(idleConnsClosed)
	}()

	log.Info("kanwiki listening", "addr", cfg.Addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}

	<-idleConnsClosed
	return nil
}
