package database

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Tomlord1122/todo-list/internal/config"
)

// MongoService holds a MongoDB client and the todo collection.
type MongoService struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *log.Logger
}

// NewMongo connects to cfg.URI and verifies the server answers a ping.
func NewMongo(ctx context.Context, cfg config.MongoConfig, l *log.Logger) (*MongoService, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo at %s: %w", cfg.Redacted(), err)
	}

	return &MongoService{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
		logger: l,
	}, nil
}

// Collection is the collection todos are stored in.
func (s *MongoService) Collection() *mongo.Collection {
	return s.coll
}

func (s *MongoService) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := map[string]string{
		"store":      config.DriverMongo,
		"database":   s.coll.Database().Name(),
		"collection": s.coll.Name(),
	}
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		s.logger.Error("db down", "err", err)
		return stats
	}
	stats["status"] = "up"
	stats["message"] = "It's healthy"
	return stats
}

func (s *MongoService) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("disconnecting from mongo", "database", s.coll.Database().Name())
	return s.client.Disconnect(ctx)
}
