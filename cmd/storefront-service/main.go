package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/studiofoundry/storefront-service/internal/api"
	"github.com/studiofoundry/storefront-service/internal/api/middleware"
	"github.com/studiofoundry/storefront-service/internal/notify"
	"github.com/studiofoundry/storefront-service/internal/session"
	"github.com/studiofoundry/storefront-service/pkg/db"
)

func main() {
	logger := log.New(os.Stdout, "[storefront] ", log.LstdFlags|log.Lshortfile)

	cfg := db.LoadPostgresConfig()
	if err := db.RunMigrations(cfg, logger); err != nil {
		logger.Fatalf("run migrations: %v", err)
	}

	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		logger.Fatalf("db connect: %v", err)
	}
	defer conn.Close()

	// Confirmations go to RabbitMQ when a broker is configured, otherwise to
	// the service log (dev mode, matching the reference storefront's
	// simulated email).
	var notifier notify.Notifier = notify.NewLogNotifier(logger)
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		rabbitConn, err := amqp.Dial(url)
		if err != nil {
			logger.Fatalf("connect to RabbitMQ: %v", err)
		}
		defer rabbitConn.Close()

		amqpNotifier, err := notify.NewAMQPNotifier(rabbitConn)
		if err != nil {
			logger.Fatalf("create notifier: %v", err)
		}
		defer amqpNotifier.Close()
		notifier = amqpNotifier
	}

	sessions := session.NewRegistry()
	handler := api.NewRouter(conn, sessions, notifier, logger)

	r := chi.NewRouter()
	r.Use(middleware.Logger(logger))
	r.Mount("/", handler)

	addr := ":" + getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("storefront-service listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errCh:
		logger.Fatalf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown error: %v", err)
	}
	logger.Printf("server stopped")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
