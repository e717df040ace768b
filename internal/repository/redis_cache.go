package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	// Префикс ключей закэшированных отчетов
	reportKeyPrefix = "report:"

	// TTL для кэша
	defaultCacheTTL = 15 * time.Minute
)

// ReportCache кэширует собранные JSON-отчеты в Redis. Ключ включает ID
// снапшота: после перезагрузки данных старые записи естественно
// устаревают и не переживают TTL.
type ReportCache struct {
	client *redis.Client
	log    *logger.Logger
}

// NewReportCache создает новый экземпляр Redis кэша отчетов
func NewReportCache(redisAddr, redisPassword string, redisDB int, log *logger.Logger) (*ReportCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})

	// Проверяем соединение с Redis
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Errorw("Failed to connect to Redis", "error", err)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Infow("Connected to Redis successfully", "addr", redisAddr)
	return &ReportCache{client: client, log: log}, nil
}

// Close закрывает соединение с Redis
func (c *ReportCache) Close() error {
	return c.client.Close()
}

// Key собирает ключ кэша из ID снапшота, имени отчета и отпечатка фильтров
func (c *ReportCache) Key(snapshotID, report, filterFingerprint string) string {
	return fmt.Sprintf("%s%s:%s:%s", reportKeyPrefix, snapshotID, report, filterFingerprint)
}

// Set кеширует payload отчета
func (c *ReportCache) Set(ctx context.Context, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		c.log.Errorw("Failed to marshal report for caching", "key", key, "error", err)
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := c.client.Set(ctx, key, data, defaultCacheTTL).Err(); err != nil {
		c.log.Errorw("Failed to cache report in Redis", "key", key, "error", err)
		return fmt.Errorf("failed to cache report: %w", err)
	}

	c.log.Debugw("Report cached successfully", "key", key)
	return nil
}

// Get достает payload отчета из кэша; ErrCacheMiss, если записи нет
func (c *ReportCache) Get(ctx context.Context, key string, target interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return ErrCacheMiss
		}
		c.log.Errorw("Failed to read report from Redis", "key", key, "error", err)
		return fmt.Errorf("failed to read report from cache: %w", err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to unmarshal cached report: %w", err)
	}
	return nil
}
