package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"travelguide/internal/archive"
	"travelguide/internal/config"
	"travelguide/internal/events"
	v1 "travelguide/internal/handler/http/v1"
	"travelguide/internal/repository"
	"travelguide/internal/seed"
	"travelguide/internal/service"
	"travelguide/internal/store"
	"travelguide/pkg/logger"
	"travelguide/pkg/postgres"
	redisclient "travelguide/pkg/redis"

	_ "travelguide/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Travel Guide API
// @version 1.0
// @description Map-based travel guide backend: browse points of interest, admin CRUD gated by a session token.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey SessionAuth
// @in header
// @name X-Session-Token
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis нужен и как бэкенд хранилища, и как очередь событий
	var redisClient *goredis.Client
	if cfg.StoreBackend == config.StoreBackendRedis || cfg.EventsBackend == config.EventsBackendRedis {
		redisClient, err = redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Info("Successfully connected to Redis")
	}

	// Выбор бэкенда персистентного хранилища
	var kv repository.KV
	switch cfg.StoreBackend {
	case config.StoreBackendPostgres:
		if err := runMigrations(cfg, log); err != nil {
			log.Fatalf("Failed to run database migrations: %v", err)
		}
		dbpool, err := postgres.NewPostgresDB(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		defer dbpool.Close()
		log.Info("Successfully connected to PostgreSQL")
		kv = repository.NewPostgresKV(dbpool)
	case config.StoreBackendRedis:
		kv = repository.NewRedisKV(redisClient)
	default:
		fileKV, err := repository.NewFileKV(cfg.FileStoreDir)
		if err != nil {
			log.Fatalf("Failed to initialize file store: %v", err)
		}
		kv = fileKV
	}

	// Гидрация коллекции: персистентный блоб, иначе сид-ресурс
	seedLoader := seed.NewLoader(cfg.SeedURL, cfg.SeedPath)
	locationStore := store.New(kv, seedLoader, log)
	locationStore.Load(ctx)

	// Инициализация публикации событий изменения
	var publisher events.Publisher
	switch cfg.EventsBackend {
	case config.EventsBackendRedis:
		publisher = events.NewRedisPublisher(redisClient)
		eventsWorker := events.NewWorker(redisClient, log, cfg)
		eventsWorker.Start(ctx)
	case config.EventsBackendKafka:
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	// Инициализация архиватора экспорта
	var archiver archive.Archiver
	if cfg.MinioEndpoint != "" {
		s3Archiver, err := archive.NewS3Archiver(ctx, cfg, log)
		if err != nil {
			log.Fatalf("Failed to initialize export archiver: %v", err)
		}
		archiver = s3Archiver
	}

	// Инициализация сервисов
	locationService := service.NewLocationService(locationStore, log, cfg, publisher, archiver)
	sessionService := service.NewSessionService(kv, locationStore, log, cfg)

	// Инициализация хэндлеров
	handler := v1.NewHandler(locationService, sessionService, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
