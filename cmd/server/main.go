package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	httpadapter "lostfound/internal/adapters/http"
	pg "lostfound/internal/adapters/postgres"
	"lostfound/internal/adapters/smtp"
	"lostfound/internal/config"
	"lostfound/internal/logger"
	claimsvc "lostfound/internal/services/claims"
	itemsvc "lostfound/internal/services/items"
	"lostfound/internal/workers/notifier"
)

func main() {
	cfg, err := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logger.Warn("config incomplete", "error", err)
	}
	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := pg.Migrate(ctx, cfg.DatabaseURL); err != nil {
		logger.Error("migrations failed", "error", err)
		os.Exit(1)
	}
	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("db connect failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	mailer := smtp.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailTimeout)
	dispatcher := notifier.New(mailer, clockwork.NewRealClock(), cfg.MailFrom, notifier.Policy{
		Budget:     cfg.NotifyBudget,
		Retries:    uint64(cfg.MailRetries),
		RetryDelay: cfg.MailRetryDelay,
	}, logger.L)

	claims := claimsvc.New(db, dispatcher)
	items := itemsvc.New(db)
	srv := httpadapter.New(claims, items, db)

	server := &http.Server{Addr: cfg.ListenAddr, Handler: srv.Routes()}
	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()
	logger.Info("listening", "addr", cfg.ListenAddr, "env", cfg.Env)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}
