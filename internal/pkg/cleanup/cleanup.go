package cleanup

import (
	"context"
	"net/http"
	"time"

	"loan-case-tracker/internal/pkg/db/mongo"
	"loan-case-tracker/internal/pkg/db/postgres"
	"loan-case-tracker/internal/pkg/db/redis"
	"loan-case-tracker/internal/pkg/log_messages"
	"loan-case-tracker/internal/pkg/logger"
	"loan-case-tracker/internal/service/interfaces"
)

const (
	serverShutdownTimeout = 8 * time.Second
	mongoShutdownTimeout  = 5 * time.Second
)

// Resources is what the runtime owns. Nil fields are skipped.
type Resources struct {
	Server          *http.Server
	PubSubPublisher interface{ Close() error }
	KafkaProducer   interface{ Close() error }
	Mongo           *mongo.MongoClient
	Postgres        *postgres.PostgresClient
	Redis           *redis.RedisClient
	Storage         interfaces.ObjectStorage
}

// CleanupResources stops the HTTP server first so no request is in flight
// when the clients it uses are closed.
func CleanupResources(ctx context.Context, res Resources) {
	logger.CtxInfo(ctx, log_messages.CleanupStarted)

	cleanupHTTPServer(ctx, res.Server)
	cleanupCloser(ctx, res.PubSubPublisher, "PubSub publisher")
	cleanupCloser(ctx, res.KafkaProducer, "Kafka producer")
	cleanupMongoResource(ctx, res.Mongo)
	cleanupPostgresResource(ctx, res.Postgres)
	cleanupRedisResource(ctx, res.Redis)
	cleanupStorage(ctx, res.Storage)

	logger.CtxInfo(ctx, log_messages.CleanupCompleted)
}

func cleanupHTTPServer(ctx context.Context, server *http.Server) {
	if server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), serverShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.CtxError(ctx, "Failed to shutdown HTTP server", err)
	} else {
		logger.CtxInfo(ctx, "HTTP server shutdown successfully")
	}
}

func cleanupCloser(ctx context.Context, resource interface{ Close() error }, resourceName string) {
	if resource == nil {
		return
	}
	if err := resource.Close(); err != nil {
		logger.CtxError(ctx, "Failed to close "+resourceName, err)
	} else {
		logger.CtxInfo(ctx, resourceName+" closed successfully")
	}
}

func cleanupMongoResource(ctx context.Context, mongoClient *mongo.MongoClient) {
	if mongoClient == nil || mongoClient.Client == nil {
		return
	}
	mongoCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mongoShutdownTimeout)
	defer cancel()
	if err := mongo.Disconnect(mongoCtx, mongoClient.Client); err != nil {
		logger.CtxError(ctx, "Failed to disconnect MongoDB client", err)
	} else {
		logger.CtxInfo(ctx, "MongoDB client disconnected successfully")
	}
}

func cleanupPostgresResource(ctx context.Context, pgClient *postgres.PostgresClient) {
	if pgClient == nil || pgClient.DB == nil {
		return
	}
	if err := postgres.Disconnect(pgClient); err != nil {
		logger.CtxError(ctx, "Failed to close Postgres connection pool", err)
	} else {
		logger.CtxInfo(ctx, "Postgres connection pool closed successfully")
	}
}

func cleanupRedisResource(ctx context.Context, redisClient *redis.RedisClient) {
	if redisClient == nil || redisClient.Client == nil {
		return
	}
	if err := redis.Disconnect(redisClient.Client); err != nil {
		logger.CtxError(ctx, "Failed to close Redis client", err)
	} else {
		logger.CtxInfo(ctx, "Redis client closed successfully")
	}
}

func cleanupStorage(ctx context.Context, storage interfaces.ObjectStorage) {
	if storage == nil {
		return
	}
	storage.Close(ctx)
	logger.CtxInfo(ctx, log_messages.StorageClientClosed)
}
