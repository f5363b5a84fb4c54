package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"automl_backend/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	Client   *mongo.Client
	Database *mongo.Database
)

func InitMongo() error {
	if config.AppConfig == nil {
		return errors.New("app config is not initialized")
	}

	cfg := config.AppConfig.Mongo
	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return errors.New("mongo uri is empty")
	}
	dbName := strings.TrimSpace(cfg.Database)
	if dbName == "" {
		dbName = "automl"
	}

	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(50)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("connect mongo failed (uri=%s): %w", uri, err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("mongo ping failed (uri=%s): %w", uri, err)
	}

	Client = client
	Database = client.Database(dbName)
	return nil
}

func CloseMongo() error {
	if Client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := Client.Disconnect(ctx)
	Client = nil
	Database = nil
	return err
}
