package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

var (
	ErrFailedToConnect   = errors.New("failed to connect to mongo")
	ErrHealthcheckFailed = errors.New("mongo healthcheck failed")
)

// MongoConfig holds connection settings for MongoDB.
type MongoConfig struct {
	URL            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
	MinPoolSize    uint64
	RetryAttempts  int
	RetryInterval  time.Duration
}

// Connect creates a MongoDB client and waits until the server answers a ping,
// retrying up to cfg.RetryAttempts times.
func Connect(ctx context.Context, cfg MongoConfig, logger *zap.Logger) (*mongo.Client, error) {
	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		client, err := mongo.Connect(
			options.Client().
				ApplyURI(cfg.URL).
				SetConnectTimeout(cfg.ConnectTimeout).
				SetMaxPoolSize(cfg.MaxPoolSize).
				SetMinPoolSize(cfg.MinPoolSize),
		)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
			err = client.Ping(pingCtx, nil)
			cancel()
			if err == nil {
				logger.Info("connected to mongo",
					zap.String("database", cfg.Database),
					zap.Int("attempt", attempt),
				)
				return client, nil
			}
			_ = client.Disconnect(context.Background())
		}
		lastErr = err

		logger.Warn("mongo not reachable, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(err),
		)
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrFailedToConnect, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, errors.Join(ErrFailedToConnect, lastErr)
}

// Collection returns the configured collection of the configured database.
func Collection(client *mongo.Client, cfg MongoConfig) *mongo.Collection {
	return client.Database(cfg.Database).Collection(cfg.Collection)
}

// Healthcheck returns a readiness probe that pings the server.
func Healthcheck(client *mongo.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx, nil); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
