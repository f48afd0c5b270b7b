package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/contactform/backend/internal/config"
	"github.com/contactform/backend/internal/handler"
	"github.com/contactform/backend/internal/logging"
	"github.com/contactform/backend/internal/repository"
	"github.com/contactform/backend/internal/service"
	"github.com/contactform/backend/internal/storage"
	"github.com/contactform/backend/pkg/auth"
	"github.com/spf13/pflag"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		logging.Setup(os.Getenv("LOG_LEVEL"))
		logging.Fatal("invalid configuration", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	gate, err := auth.NewGate(cfg.AccessToken)
	if err != nil {
		logging.Fatal("auth gate setup failed", "error", err)
	}

	contactRepo, closeRepo, err := openContactRepository(context.Background(), cfg)
	if err != nil {
		logging.Fatal("failed to open contact store", "store", cfg.Store, "error", err)
	}
	defer closeRepo()

	contactService := service.NewContactService(contactRepo)

	h := handler.New(contactRepo, cfg.AllowedOrigins, cfg.Greeting)
	contactHandler := handler.NewContactHandler(contactService)

	var limiter *handler.RateLimiter
	if cfg.ContactRateLimit > 0 {
		limiter = handler.NewRateLimiter(cfg.ContactRateLimit, cfg.TrustedProxies)
		defer limiter.Stop()
	}

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      newRouter(h, contactHandler, gate, limiter),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "store", cfg.Store)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// openContactRepository builds the store selected by cfg.Store. The returned
// func releases its resources.
func openContactRepository(ctx context.Context, cfg *config.Config) (repository.ContactRepository, func(), error) {
	switch cfg.Store {
	case config.StorePostgres:
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPgContactRepository(pool), pool.Close, nil
	default:
		store := storage.NewLocalStorage(filepath.Dir(cfg.ContactsFile))
		if err := store.Check(ctx); err != nil {
			return nil, nil, err
		}
		return repository.NewFileContactRepository(store, filepath.Base(cfg.ContactsFile)), func() {}, nil
	}
}
