package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/config"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// connectionDocument документ конфигурации подключения в MongoDB
type connectionDocument struct {
	Type             string           `bson:"type"`
	ConnectionConfig connectionConfig `bson:"connection_config"`
}

// connectionConfig параметры удаленного SQL источника из документа
type connectionConfig struct {
	Host      string `bson:"host"`
	Port      int    `bson:"port"`
	User      string `bson:"user"`
	Password  string `bson:"password"`
	Database  string `bson:"database"`
	TableName string `bson:"table_name"`
}

// LoadRemoteConfig пытается получить параметры удаленного источника из
// документа {"type": "db_connection_config"} в MongoDB. При любой ошибке
// (нет URI, нет документа, Mongo недоступна) возвращается fallback из
// переменных окружения с предупреждением в логе.
func LoadRemoteConfig(ctx context.Context, mongoCfg config.MongoConfig, fallback config.RemoteDBConfig, log *logger.Logger) config.RemoteDBConfig {
	if mongoCfg.URI == "" {
		log.Warn("MONGO_URI is not set, using fallback configuration from environment")
		return fallback
	}

	doc, err := fetchConnectionDocument(ctx, mongoCfg)
	if err != nil {
		log.Warnw("Failed to load configuration from MongoDB, using fallback", "error", err)
		return fallback
	}

	log.Info("Configuration successfully retrieved from MongoDB")
	port := doc.ConnectionConfig.Port
	if port == 0 {
		port = 3306
	}
	table := doc.ConnectionConfig.TableName
	if table == "" {
		table = fallback.Table
	}

	return config.RemoteDBConfig{
		Host:     doc.ConnectionConfig.Host,
		Port:     port,
		User:     doc.ConnectionConfig.User,
		Password: doc.ConnectionConfig.Password,
		Database: doc.ConnectionConfig.Database,
		Table:    table,
	}
}

// fetchConnectionDocument одна скоупированная выборка документа:
// подключиться, прочитать, отключиться
func fetchConnectionDocument(ctx context.Context, cfg config.MongoConfig) (*connectionDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer client.Disconnect(ctx)

	collection := client.Database(cfg.Database).Collection(cfg.Collection)

	var doc connectionDocument
	err = collection.FindOne(ctx, bson.M{"type": "db_connection_config"}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: connection config document", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query MongoDB: %w", err)
	}

	if doc.ConnectionConfig.Host == "" {
		return nil, fmt.Errorf("document found but connection_config is missing host")
	}
	return &doc, nil
}
