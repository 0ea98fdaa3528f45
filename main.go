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

	"github.com/jvilloslada/taskdeck-be/internal/api"
	"github.com/jvilloslada/taskdeck-be/internal/auth"
	"github.com/jvilloslada/taskdeck-be/internal/config"
	"github.com/jvilloslada/taskdeck-be/internal/database"
	"github.com/jvilloslada/taskdeck-be/internal/logger"
	"github.com/jvilloslada/taskdeck-be/internal/monitoring"
	"github.com/jvilloslada/taskdeck-be/internal/services"
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

	// Set up services
	eventService := services.NewEventService(db)
	userService := services.NewUserService(db, cfg.BcryptCost, eventService)
	taskService := services.NewTaskService(db, eventService)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	// Set up and run the background deadline watcher
	watcher := monitoring.NewDeadlineWatcher(db, eventService, cfg.SweepInterval)
	if err := watcher.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start deadline watcher")
	}

	// Set up router
	router := api.NewRouter(api.Deps{
		Tokens:         tokens,
		Users:          userService,
		Tasks:          taskService,
		Events:         eventService,
		AllowedOrigins: cfg.AllowedOrigins,
		StartedAt:      time.Now(),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	watcher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
