package runtime

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loan-case-tracker/internal/app/router"
	"loan-case-tracker/internal/pkg/cleanup"
	"loan-case-tracker/internal/pkg/config"
	"loan-case-tracker/internal/pkg/consts"
	"loan-case-tracker/internal/pkg/db/mongo"
	"loan-case-tracker/internal/pkg/db/postgres"
	"loan-case-tracker/internal/pkg/db/redis"
	"loan-case-tracker/internal/pkg/gateway"
	"loan-case-tracker/internal/pkg/kafka"
	"loan-case-tracker/internal/pkg/lifecycle"
	"loan-case-tracker/internal/pkg/llm"
	"loan-case-tracker/internal/pkg/log_messages"
	"loan-case-tracker/internal/pkg/logger"
	"loan-case-tracker/internal/pkg/otel"
	"loan-case-tracker/internal/pkg/pubsub"
	"loan-case-tracker/internal/pkg/storage/gcs"
	"loan-case-tracker/internal/pkg/storage/s3"
	"loan-case-tracker/internal/pkg/storage/sftp"
	"loan-case-tracker/internal/pkg/store/repository"
	"loan-case-tracker/internal/pkg/validation"
	"loan-case-tracker/internal/service/analytics"
	"loan-case-tracker/internal/service/casestore"
	"loan-case-tracker/internal/service/documents"
	"loan-case-tracker/internal/service/events"
	"loan-case-tracker/internal/service/interfaces"
	"loan-case-tracker/internal/service/repair"
	"loan-case-tracker/internal/service/suggestion"

	"go.uber.org/zap"
)

var (
	loadConfig      = config.LoadFromConfig
	connectMongoDB  = mongo.ConnectToMongoDB
	connectPostgres = func(ctx context.Context, cfg config.PostgresConfig) (*postgres.PostgresClient, error) {
		return postgres.ConnectToPostgres(ctx, cfg, nil)
	}
	connectRedisDB = func(ctx context.Context, cfg config.RedisConfig) (*redis.RedisClient, error) {
		return redis.ConnectToRedis(ctx, cfg, nil)
	}
	newObjectStorage   = openObjectStorage
	newPubSubPublisher = pubsub.NewPubSubPublisher
	newKafkaProducer   = kafka.NewKafkaProducer
)

// caseGateway is a persistence gateway that can also reapply queued child
// writes. Both drivers implement it.
type caseGateway interface {
	interfaces.CaseGateway
	interfaces.CaseChildWriter
}

// App encapsulates application resources and lifecycle.
type App struct {
	Cfg             *config.AppConfig
	MongoClient     *mongo.MongoClient
	PostgresClient  *postgres.PostgresClient
	RedisClient     *redis.RedisClient
	Storage         interfaces.ObjectStorage
	PubSubPublisher *pubsub.PubSubPublisher
	KafkaProducer   *kafka.KafkaProducer
	Model           llm.GenerateAPI
	HTTPServer      *http.Server

	shutdownTracing func(context.Context) error
	stopWorker      context.CancelFunc
}

func New(ctx context.Context) (*App, error) {
	cfg, err := loadConfig()
	if err != nil {
		logger.CtxError(ctx, log_messages.FailedLoadingConfiguration, err)
		return nil, err
	}
	logger.Init(cfg.Logging.LogLevel)
	logger.SetServiceName(cfg.Server.ServiceName)

	app := &App{Cfg: cfg}

	if cfg.Otel.Enabled {
		shutdown, err := otel.Setup(ctx, cfg.Server.ServiceName, cfg.Otel)
		if err != nil {
			logger.CtxError(ctx, "Failed to set up OTLP tracing", err)
		} else {
			app.shutdownTracing = shutdown
		}
	}

	switch cfg.Database.Driver {
	case consts.DatabaseDriverPostgres:
		app.PostgresClient, err = connectPostgres(ctx, cfg.Postgres)
		if err != nil {
			logger.CtxError(ctx, "Failed to connect to Postgres", err)
			return nil, err
		}
	default:
		app.MongoClient, err = connectMongoDB(ctx, cfg.Mongo)
		if err != nil {
			logger.CtxError(ctx, "Failed to connect to MongoDB", err)
			return nil, err
		}
	}

	if app.RedisClient, err = connectRedisDB(ctx, cfg.Redis); err != nil {
		logger.CtxError(ctx, "Failed to connect to Redis", err)
		app.Shutdown(ctx)
		return nil, err
	}

	if app.Storage, err = newObjectStorage(ctx, cfg); err != nil {
		logger.CtxError(ctx, "Failed to create object storage client", err, zap.String("provider", cfg.Storage.Provider))
		app.Shutdown(ctx)
		return nil, err
	}

	if cfg.PubSub.Enabled {
		if app.PubSubPublisher, err = newPubSubPublisher(ctx, cfg.PubSub.ProjectID, cfg.PubSub.NotificationTopic); err != nil {
			logger.CtxError(ctx, "Failure in PubSub publisher creation", err)
			app.Shutdown(ctx)
			return nil, err
		}
		logger.CtxInfo(ctx, log_messages.PubsubPublisherCreated, zap.String("topic", cfg.PubSub.NotificationTopic))
	}

	if cfg.Kafka.Enabled {
		if app.KafkaProducer, err = newKafkaProducer(cfg.Kafka); err != nil {
			logger.CtxError(ctx, "Failure in Kafka producer creation", err)
			app.Shutdown(ctx)
			return nil, err
		}
		logger.CtxInfo(ctx, log_messages.KafkaProducerCreated, zap.String("topic", cfg.Kafka.CaseEventsTopic))
	}

	app.Model = llm.NewGeminiClient(cfg.LLM)
	return app, nil
}

// openObjectStorage returns the client for the configured provider.
func openObjectStorage(ctx context.Context, cfg *config.AppConfig) (interfaces.ObjectStorage, error) {
	switch cfg.Storage.Provider {
	case consts.StorageProviderGCS:
		client, err := gcs.NewGCSClient(ctx, cfg.GCS.BucketName)
		if err != nil {
			return nil, err
		}
		return client, nil
	case consts.StorageProviderS3:
		client, err := s3.NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return client, nil
	case consts.StorageProviderSFTP:
		client, err := sftp.NewSFTPClient(ctx, cfg.SFTP)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
	}
}

func (a *App) openGateway(queue interfaces.RepairQueue) caseGateway {
	if a.PostgresClient != nil {
		return gateway.NewSQLGateway(a.PostgresClient)
	}
	return gateway.NewMongoGateway(a.MongoClient, queue)
}

func (a *App) publisher() *events.Publisher {
	publisher := events.NewPublisher()
	if a.PubSubPublisher != nil {
		publisher.AddSink("pubsub", a.PubSubPublisher)
	}
	if a.KafkaProducer != nil {
		publisher.AddSink("kafka", a.KafkaProducer)
	}
	return publisher
}

// Build wires the services over the connected resources. The store is
// returned unloaded.
func (a *App) Build() (router.Services, *casestore.Store, *repair.Queue) {
	redisStore := repository.NewRedisStoreAdapter(a.RedisClient.Client)
	queue := repair.NewQueue(redisStore, a.Cfg.Repair)
	gw := a.openGateway(queue)

	validator := validation.New()
	docs := documents.NewService(a.Storage, gw, a.Cfg.Storage.Folder, a.Cfg.Storage.MaxCaseUploadBytes)
	store := casestore.NewStore(gw, docs, validator, lifecycle.NewMachine(nil), a.publisher())

	services := router.Services{
		Cases:        store,
		Config:       store,
		Roster:       store,
		Analytics:    analytics.NewService(store),
		Suggestions:  suggestion.NewService(a.Model, redisStore, validator, store, a.Cfg.Suggestion.CacheTTL),
		Repairs:      queue,
		RepairWriter: gw,

		MaxUploadBytes: a.Cfg.Storage.MaxCaseUploadBytes,
	}
	return services, store, queue
}

// Run loads the store, starts the repair worker and HTTP server, then blocks
// until a signal arrives or ctx is done.
func (a *App) Run(ctx context.Context) error {
	services, store, queue := a.Build()

	if err := store.Load(ctx); err != nil {
		// Serve anyway; the error is exposed until a reload succeeds.
		logger.CtxError(ctx, log_messages.CaseStoreLoadFailed, err)
	}

	if a.Cfg.Repair.Interval > 0 {
		var workerCtx context.Context
		workerCtx, a.stopWorker = context.WithCancel(ctx)
		go queue.Run(workerCtx, services.RepairWriter, a.Cfg.Repair.Interval)
	}

	engine := router.SetupRouter(a.Cfg.Server.ServiceName, a.Cfg.Server.CORSOrigins, services)
	a.HTTPServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", a.Cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.CtxError(ctx, log_messages.ServerStartFailure, err)
		}
	}()
	logger.CtxInfo(ctx, "HTTP server started", zap.String("addr", a.HTTPServer.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case <-ctx.Done():
	}

	a.Shutdown(ctx)
	logger.CtxInfo(ctx, log_messages.ServerExiting)
	return nil
}

// Shutdown gracefully closes all resources with bounded timeouts.
func (a *App) Shutdown(ctx context.Context) {
	if a.stopWorker != nil {
		a.stopWorker()
	}

	res := cleanup.Resources{
		Server:   a.HTTPServer,
		Mongo:    a.MongoClient,
		Postgres: a.PostgresClient,
		Redis:    a.RedisClient,
		Storage:  a.Storage,
	}
	if a.PubSubPublisher != nil {
		res.PubSubPublisher = a.PubSubPublisher
	}
	if a.KafkaProducer != nil {
		res.KafkaProducer = a.KafkaProducer
	}
	cleanup.CleanupResources(ctx, res)

	if a.shutdownTracing != nil {
		if err := a.shutdownTracing(context.WithoutCancel(ctx)); err != nil {
			logger.CtxError(ctx, "Failed to shut down tracer provider", err)
		}
	}
	logger.Sync()
}
