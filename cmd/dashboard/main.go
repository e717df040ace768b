package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/config"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/api/rest"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/api/rest/handlers"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/kafka"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/metrics"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/middleware"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/reports"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/repository"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/snapshot"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

var log *logger.Logger

func init() {
	// Загружаем переменные окружения
	if err := godotenv.Load(); err != nil {
		// Пропускаем ошибку, если .env файл не найден
	}

	// Инициализация логгера
	logLevel := logger.INFO
	if os.Getenv("DEBUG") == "true" {
		logLevel = logger.DEBUG
	}
	log = logger.New(logLevel)
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}
	if os.Getenv("DEBUG") != "true" {
		log = logger.New(logger.ParseLevel(cfg.Logging.Level))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализация Prometheus
	promRegistry := prometheus.NewRegistry()
	reportMetrics := metrics.NewReportMetrics(promRegistry, log)
	systemMetrics := metrics.NewSystemMetrics(promRegistry, log)

	// Запускаем сбор системных метрик
	systemMetrics.StartRecording(15 * time.Second)
	defer systemMetrics.Stop()

	// Локальное хранилище подписок
	localStore, err := repository.NewLocalStore(cfg.LocalDB.GetDSN(), cfg.LocalDB.Table, log)
	if err != nil {
		log.Fatal("Failed to connect to local store: %v", err)
	}
	defer localStore.Close()

	// Загружаем стартовый снапшот; неудача не фатальна, страницы
	// деградируют до "нет данных" до первой успешной перезагрузки
	store := snapshot.NewStore(localStore, log)
	if snap, err := store.Reload(ctx); err != nil {
		log.Warnw("Initial snapshot load failed", "error", err)
	} else {
		reportMetrics.SetSnapshotRecords(len(snap.Records), snap.Dropped)
	}

	// Кэш отчетов (опциональный)
	var reportCache *repository.ReportCache
	if cfg.Redis.Enabled {
		reportCache, err = repository.NewReportCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Warnw("Report cache disabled", "error", err)
			reportCache = nil
		} else {
			defer reportCache.Close()
		}
	}

	// Kafka продюсер событий снапшота (опциональный)
	var snapshotProducer kafka.SnapshotProducer
	if cfg.Kafka.Enabled {
		saramaProducer, err := kafka.NewSyncProducer(cfg.Kafka.Brokers)
		if err != nil {
			log.Warnw("Kafka producer disabled", "error", err)
		} else {
			snapshotProducer = kafka.NewSnapshotProducer(saramaProducer, cfg.Kafka.Topic, log)
			defer snapshotProducer.Close()
		}
	}

	reportService := reports.NewService(store, log)

	auth := middleware.NewJWTMiddleware(log, &middleware.DefaultTokenValidator{
		Secret: []byte(cfg.Auth.JWTSecret),
	})

	// Установка режима Gin
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Настройка маршрутизатора
	router := rest.SetupRouter(log, promRegistry, rest.Handlers{
		Reports:  handlers.NewReportHandler(reportService, reportCache, reportMetrics, log),
		Snapshot: handlers.NewSnapshotHandler(store, reportService, snapshotProducer, reportMetrics, log),
		Health:   handlers.NewHealthHandler(store),
		Auth:     auth,
	})

	// Создание и запуск HTTP сервера
	server := rest.NewServer(router, cfg, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownTimeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
