// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/coralhq/atrium/internal/app/features/health"
	"github.com/coralhq/atrium/internal/app/search"
	authsvc "github.com/coralhq/atrium/internal/app/services/auth"
	orgsvc "github.com/coralhq/atrium/internal/app/services/orgs"
	usersvc "github.com/coralhq/atrium/internal/app/services/users"
	organizationstore "github.com/coralhq/atrium/internal/app/store/organizations"
	userstore "github.com/coralhq/atrium/internal/app/store/users"
	"github.com/coralhq/atrium/internal/app/system/credentials"
	"github.com/coralhq/atrium/internal/app/system/embeddings"
)

// Run builds the backends and services from cfg, starts the HTTP server,
// and blocks until shutdown completes. SIGINT and SIGTERM trigger a
// graceful drain bounded by the configured shutdown timeout.
func Run(cfg *Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		users       userstore.Repository
		orgs        organizationstore.Repository
		mongoClient *mongo.Client
	)
	if cfg.Mongo.URI != "" {
		client, db, err := OpenMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			return err
		}
		mongoClient = client
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				logger.Error("mongodb disconnect failed", zap.Error(err))
			}
		}()
		users = userstore.NewMongoStore(db)
		orgs = organizationstore.NewMongoStore(db)
	} else {
		logger.Info("no mongo uri configured, using in-memory stores")
		users = userstore.NewMemoryStore()
		orgs = organizationstore.NewMemoryStore()
	}

	hasherOpts := []credentials.Option{}
	if cfg.Credentials.Iterations > 0 {
		hasherOpts = append(hasherOpts, credentials.WithIterations(cfg.Credentials.Iterations))
	}
	hasher := credentials.NewHasher(cfg.Credentials.SecretKey, hasherOpts...)

	if err := SeedPlatformAdmin(ctx, users, hasher, cfg.Admin, logger); err != nil {
		return err
	}

	engine, closeEngine, err := buildSearchEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer closeEngine()

	tokens := authsvc.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.TTL)

	svcs := Services{
		Auth:   authsvc.New(users, orgs, hasher, tokens, logger),
		Tokens: tokens,
		Users:  usersvc.New(users, orgs, hasher, logger),
		Orgs:   orgsvc.New(orgs, logger),
		Search: search.NewService(engine, logger),
		Health: health.NewHandler(mongoClient, engine.Name(), logger),
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           BuildHandler(svcs, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// buildSearchEngine selects the backend: qdrant when a host is configured,
// the in-memory engine (preloaded with demo content) otherwise.
func buildSearchEngine(cfg *Config, logger *zap.Logger) (search.Engine, func(), error) {
	if cfg.Qdrant.Host == "" {
		logger.Info("no qdrant host configured, using in-memory search engine")
		return search.NewMemoryEngine(DemoItems()), func() {}, nil
	}

	var embedder search.Embedder
	closeEmbedder := func() {}
	if cfg.Qdrant.VectorEnabled {
		fe, err := embeddings.New(embeddings.Config{
			Model:    cfg.Embeddings.Model,
			CacheDir: cfg.Embeddings.CacheDir,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("init embedding model: %w", err)
		}
		embedder = fe
		closeEmbedder = func() {
			if err := fe.Close(); err != nil {
				logger.Warn("embedding model close failed", zap.Error(err))
			}
		}
	}

	engine, err := search.NewQdrantEngine(search.QdrantConfig{
		Host:          cfg.Qdrant.Host,
		Port:          cfg.Qdrant.Port,
		UseTLS:        cfg.Qdrant.UseTLS,
		APIKey:        cfg.Qdrant.APIKey,
		Collection:    cfg.Qdrant.Collection,
		VectorField:   cfg.Qdrant.VectorField,
		VectorEnabled: cfg.Qdrant.VectorEnabled,
		K:             cfg.Qdrant.K,
	}, embedder, logger)
	if err != nil {
		closeEmbedder()
		return nil, nil, fmt.Errorf("init qdrant engine: %w", err)
	}
	return engine, closeEmbedder, nil
}
