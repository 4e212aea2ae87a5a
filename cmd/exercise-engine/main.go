package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/lexiquest/exercise-engine/internal/config"
	"github.com/lexiquest/exercise-engine/internal/content"
	"github.com/lexiquest/exercise-engine/internal/events"
	"github.com/lexiquest/exercise-engine/internal/handlers"
	"github.com/lexiquest/exercise-engine/internal/services"
	"github.com/lexiquest/exercise-engine/internal/store"
	"github.com/lexiquest/exercise-engine/internal/utils"
	"github.com/lexiquest/exercise-engine/internal/validator"
	"github.com/lexiquest/exercise-engine/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Environment)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(&content.ExerciseRecord{}); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Snapshot storage is resumability, not correctness: without Redis the
	// engine still runs with a process-local store.
	var kv store.KeyValueStore
	if client, err := pkg.NewRedisClient(cfg); err != nil {
		logger.Warn("redis unavailable, session snapshots are process-local", "error", err)
		kv = store.NewMemoryStore()
	} else {
		kv = store.NewRedisStore(client, cfg.SnapshotTTL)
	}

	var publisher events.EventPublisher
	if cfg.Environment == "production" {
		publisher, err = events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: cfg.KafkaBrokers,
			TopicName:    cfg.EventsTopic,
			Logger:       logger,
		})
		if err != nil {
			logger.Error("failed to create event publisher", "error", err)
			os.Exit(1)
		}
	} else {
		publisher = events.NewMockEventPublisher(logger)
	}
	defer publisher.Close()

	v := validator.New()
	contentRepo := content.NewGormExerciseRepository(db)
	snapshots := store.NewSnapshotStore(kv, logger)
	sessionService := services.NewSessionService(contentRepo, snapshots, publisher, v, logger)
	importer := content.NewImporter(contentRepo, v, logger)
	sessionHandler := handlers.NewSessionHandler(sessionService, importer, contentRepo, logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.RequestLogger(logger), gin.Recovery())
	handlers.SetupRoutes(router, sessionHandler)

	logger.Info("exercise engine listening", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
