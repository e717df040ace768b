package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config структура конфигурации приложения
type Config struct {
	Server   ServerConfig
	LocalDB  LocalDBConfig
	RemoteDB RemoteDBConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Auth     AuthConfig
	Logging  LoggingConfig
}

// ServerConfig конфигурация HTTP сервера
type ServerConfig struct {
	Port            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// LocalDBConfig конфигурация локальной базы данных (кэш ленты подписок)
type LocalDBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	Table    string
}

// RemoteDBConfig конфигурация удаленного MySQL источника (fallback,
// если документ конфигурации в MongoDB недоступен)
type RemoteDBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Table    string
}

// MongoConfig конфигурация MongoDB с документом подключения к источнику
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// RedisConfig конфигурация Redis кэша отчетов
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Enabled  bool
}

// KafkaConfig конфигурация Kafka для событий обновления снапшота
type KafkaConfig struct {
	Brokers []string
	Topic   string
	Enabled bool
}

// AuthConfig конфигурация аутентификации
type AuthConfig struct {
	JWTSecret string
}

// LoggingConfig конфигурация логгера
type LoggingConfig struct {
	Level string
}

// GetDSN возвращает строку подключения к локальной базе данных
func (c *LocalDBConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// GetDSN возвращает строку подключения к удаленному MySQL
func (c *RemoteDBConfig) GetDSN() string {
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?parseTime=true",
		c.User, c.Password, c.Host, c.Port, c.Database,
	)
}

// Load загружает конфигурацию из .env файла и переменных окружения
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		// Пропускаем ошибку, если .env файл не найден
		_ = godotenv.Load()
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30)

	v.SetDefault("LOCAL_DB_HOST", "localhost")
	v.SetDefault("LOCAL_DB_PORT", 5432)
	v.SetDefault("LOCAL_DB_USER", "postgres")
	v.SetDefault("LOCAL_DB_PASSWORD", "postgres")
	v.SetDefault("LOCAL_DB_NAME", "employer_subscriptions")
	v.SetDefault("LOCAL_DB_SSLMODE", "disable")
	v.SetDefault("LOCAL_DB_TABLE", "graph_subscription")

	v.SetDefault("SQL_HOST", "")
	v.SetDefault("SQL_PORT", 3306)
	v.SetDefault("SQL_USER", "")
	v.SetDefault("SQL_PASSWORD", "")
	v.SetDefault("SQL_DATABASE", "")
	v.SetDefault("SQL_TABLE_NAME", "graph_subscription")

	v.SetDefault("MONGO_URI", "")
	v.SetDefault("MONGO_DB_NAME", "dashboard_config")
	v.SetDefault("MONGO_COLLECTION_NAME", "connection_settings")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_ENABLED", false)

	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_TOPIC", "subscription.snapshot")
	v.SetDefault("KAFKA_ENABLED", false)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("PORT"),
			ReadTimeout:     v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetInt("SERVER_WRITE_TIMEOUT"),
			ShutdownTimeout: v.GetInt("SERVER_SHUTDOWN_TIMEOUT"),
		},
		LocalDB: LocalDBConfig{
			Host:     v.GetString("LOCAL_DB_HOST"),
			Port:     v.GetInt("LOCAL_DB_PORT"),
			User:     v.GetString("LOCAL_DB_USER"),
			Password: v.GetString("LOCAL_DB_PASSWORD"),
			Database: v.GetString("LOCAL_DB_NAME"),
			SSLMode:  v.GetString("LOCAL_DB_SSLMODE"),
			Table:    v.GetString("LOCAL_DB_TABLE"),
		},
		RemoteDB: RemoteDBConfig{
			Host:     v.GetString("SQL_HOST"),
			Port:     v.GetInt("SQL_PORT"),
			User:     v.GetString("SQL_USER"),
			Password: v.GetString("SQL_PASSWORD"),
			Database: v.GetString("SQL_DATABASE"),
			Table:    v.GetString("SQL_TABLE_NAME"),
		},
		Mongo: MongoConfig{
			URI:        v.GetString("MONGO_URI"),
			Database:   v.GetString("MONGO_DB_NAME"),
			Collection: v.GetString("MONGO_COLLECTION_NAME"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			Enabled:  v.GetBool("REDIS_ENABLED"),
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(v.GetString("KAFKA_BROKERS"), ","),
			Topic:   v.GetString("KAFKA_TOPIC"),
			Enabled: v.GetBool("KAFKA_ENABLED"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	return cfg, nil
}
