// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/coralhq/atrium/internal/app/system/indexes"
)

// OpenMongo connects to MongoDB, verifies the connection, and ensures the
// collection indexes the stores rely on.
func OpenMongo(ctx context.Context, cfg MongoConfig, logger *zap.Logger) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(cfg.Database)
	if err := indexes.EnsureAll(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ensure indexes: %w", err)
	}

	logger.Info("connected to mongodb", zap.String("database", cfg.Database))
	return client, db, nil
}
