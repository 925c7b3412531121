package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat-hub/api"
	"chat-hub/hub"
	"chat-hub/internal"
	"chat-hub/repositories"
	"chat-hub/services"
	"chat-hub/transport/ws"
	"chat-hub/workers"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting. Returning the error to main instead of
// exiting in place guarantees every defer (database close included) runs
// before the process stops.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Persistence & Gateway
	users := repositories.NewUserRepository(db)
	groups := repositories.NewGroupRepository(db)
	friendships := repositories.NewFriendshipRepository(db)
	messages := repositories.NewMessageRepository(db, log, config.LimitMessages)
	gateway := repositories.NewGateway(users, groups, friendships, messages)

	// 4. Hub core
	registry := hub.NewRegistry()
	subs := hub.NewSubscriptions()
	router := hub.NewRouter(log, gateway, registry, subs, config.PushTimeout)
	wsServer := ws.NewServer(log, registry, subs, router, config.ConnectionBufferSize)

	// 5. HTTP API
	apiServer := api.NewServer(log,
		services.NewAuthService(users, config.AuthTokenDuration),
		services.NewSocialService(users, friendships, groups),
		services.NewHistoryService(users, groups, messages),
		wsServer.Handle)

	// 6. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 7. Background workers
	sup := workers.NewSupervisor(log)
	sup.Add(
		workers.NewTelemetryWorker(log, registry, config.MetricInterval),
		workers.NewGCWorker(log, db, config.GCInterval),
	)
	supDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supDone)
	}()

	// 8. HTTP server
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{
		Addr:    address,
		Handler: apiServer.Engine(),
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 9. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 10. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	sup.Stop()
	<-supDone
	log.Info("Program stopped cleanly")

	return nil
}
