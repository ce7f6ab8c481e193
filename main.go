package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xpense/xpense-server/internal/api"
	"github.com/xpense/xpense-server/internal/config"
	"github.com/xpense/xpense-server/internal/database"
	"github.com/xpense/xpense-server/internal/logger"
	"github.com/xpense/xpense-server/internal/monitoring"
	"github.com/xpense/xpense-server/internal/services"
	"github.com/xpense/xpense-server/internal/websocket"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up the change feed hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	eventService := services.NewEventService(db)
	userService := services.NewUserService(db, eventService)
	tokenService := services.NewTokenService(db)
	accountService := services.NewAccountService(db, eventService, hub)
	transactionService := services.NewTransactionService(db, eventService, hub)

	// Set up and run the background stat updater
	statUpdater := monitoring.NewStatUpdater(eventService)
	go statUpdater.Run()

	// Set up and run the event retention job
	retention := monitoring.NewRetention(eventService, cfg.EventRetentionDays)
	if err := retention.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start retention job")
	}

	// Set up router
	router := api.NewRouter(hub, userService, tokenService, accountService, transactionService, eventService, cfg.AllowedOrigin)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	statUpdater.Stop()
	retention.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
