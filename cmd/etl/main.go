package main

import (
	"context"
	"os"
	"time"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/config"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/kafka"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/repository"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/pkg/logger"
	"github.com/cenkalti/backoff/v4"
	"github.com/joho/godotenv"
)

var log *logger.Logger

func init() {
	// Загружаем переменные окружения
	if err := godotenv.Load(); err != nil {
		// Пропускаем ошибку, если .env файл не найден
	}

	logLevel := logger.INFO
	if os.Getenv("DEBUG") == "true" {
		logLevel = logger.DEBUG
	}
	log = logger.New(logLevel)
}

// main выполняет один прогон ETL: параметры удаленной базы берутся из
// Mongo-документа (или из окружения при его отсутствии), данные
// перечитываются из удаленного MySQL и целиком замещают локальную таблицу.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}
	if os.Getenv("DEBUG") != "true" {
		log = logger.New(logger.ParseLevel(cfg.Logging.Level))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// Конфигурация удаленного источника: Mongo-документ поверх окружения
	remoteCfg := repository.LoadRemoteConfig(ctx, cfg.Mongo, cfg.RemoteDB, log)
	remote := repository.NewRemoteSource(remoteCfg.GetDSN(), remoteCfg.Table, log)

	// Локальное хранилище; соединение с ретраями, сам прогон без них
	var localStore *repository.LocalStore
	connect := func() error {
		var err error
		localStore, err = repository.NewLocalStore(cfg.LocalDB.GetDSN(), cfg.LocalDB.Table, log)
		return err
	}
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4)
	if err := backoff.Retry(connect, backoff.WithContext(policy, ctx)); err != nil {
		log.Fatal("Failed to connect to local store: %v", err)
	}
	defer localStore.Close()

	rows, err := remote.FetchAll(ctx)
	if err != nil {
		publishResult(ctx, cfg, 0, err)
		log.Fatal("Remote fetch failed: %v", err)
	}
	log.Infow("Remote rows fetched", "rows", len(rows), "source", remote.Source())

	if err := localStore.Replace(ctx, rows); err != nil {
		publishResult(ctx, cfg, len(rows), err)
		log.Fatal("Failed to replace local table: %v", err)
	}

	publishResult(ctx, cfg, len(rows), nil)
	log.Infow("ETL run completed", "rows", len(rows), "table", cfg.LocalDB.Table)
}

// publishResult уведомляет дашборд о завершении прогона через Kafka.
// Недоступный брокер не превращает успешный прогон в неудачный.
func publishResult(ctx context.Context, cfg *config.Config, rows int, runErr error) {
	if !cfg.Kafka.Enabled {
		return
	}

	saramaProducer, err := kafka.NewSyncProducer(cfg.Kafka.Brokers)
	if err != nil {
		log.Warnw("Kafka producer unavailable, skipping ETL event", "error", err)
		return
	}
	producer := kafka.NewSnapshotProducer(saramaProducer, cfg.Kafka.Topic, log)
	defer producer.Close()

	event := kafka.SnapshotEvent{
		SnapshotID: "etl",
		Source:     "etl:" + cfg.LocalDB.Table,
		Records:    rows,
	}
	if runErr != nil {
		event.Error = runErr.Error()
		err = producer.PublishFailed(ctx, event)
	} else {
		err = producer.PublishRefreshed(ctx, event)
	}
	if err != nil {
		log.Warnw("Failed to publish ETL event", "error", err)
	}
}
