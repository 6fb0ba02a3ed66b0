package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/contactfaris48-art/fms-backend/internal/auth"
	"github.com/contactfaris48-art/fms-backend/internal/config"
	"github.com/contactfaris48-art/fms-backend/internal/database"
	"github.com/contactfaris48-art/fms-backend/internal/event"
	handler "github.com/contactfaris48-art/fms-backend/internal/handler/http"
	"github.com/contactfaris48-art/fms-backend/internal/health"
	"github.com/contactfaris48-art/fms-backend/internal/idp"
	"github.com/contactfaris48-art/fms-backend/internal/kafka"
	"github.com/contactfaris48-art/fms-backend/internal/mailer"
	"github.com/contactfaris48-art/fms-backend/internal/middleware"
	"github.com/contactfaris48-art/fms-backend/internal/oidc"
	"github.com/contactfaris48-art/fms-backend/internal/repository/postgres"
	"github.com/contactfaris48-art/fms-backend/internal/service"
	"github.com/contactfaris48-art/fms-backend/internal/session"
	s3storage "github.com/contactfaris48-art/fms-backend/internal/storage/s3"
	"github.com/contactfaris48-art/fms-backend/internal/tracing"
	"github.com/contactfaris48-art/fms-backend/migrations"
)

// App wires together all dependencies and runs the backend.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redisClient    *redis.Client
	producer       *kafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
// OIDC discovery against the provider is a startup barrier: if it fails, the
// process must not serve requests.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "fms-backend",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SampleRate:     cfg.TraceSample,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// PostgreSQL connection pool and migrations.
	pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Redis session store.
	redisClient, err := database.NewRedisClient(ctx, cfg.Redis())
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis", slog.String("addr", cfg.Redis().Addr()))

	// Kafka producer.
	producer := kafka.NewProducer(kafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// AWS clients (SES, Cognito, S3).
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	sesClient := ses.NewFromConfig(awsCfg)
	cognitoClient := cognitoidentityprovider.NewFromConfig(awsCfg)
	s3Client := awss3.NewFromConfig(awsCfg)

	// OIDC discovery. This is the hard startup barrier: without the
	// provider's metadata and JWKS nothing can authenticate.
	provider, err := oidc.Discover(ctx, cfg.OIDC(), logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	// Build the dependency graph.
	userRepo := postgres.NewUserRepository(pool)
	tokenRepo := postgres.NewAuthTokenRepository(pool)
	fileRepo := postgres.NewFileRepository(pool)
	folderRepo := postgres.NewFolderRepository(pool)

	eventProducer := event.NewProducer(producer, logger)
	sesMailer := mailer.NewSESMailer(sesClient, cfg.SESFromEmail, cfg.Environment, logger)
	sessionStore := session.NewRedisStore(redisClient)
	identityProvider := idp.NewCognito(cognitoClient, cfg.CognitoClientID)
	objectStore := s3storage.New(s3Client, cfg.S3Bucket)

	authService := service.NewAuthService(userRepo, identityProvider, eventProducer, logger)
	passwordlessService := service.NewPasswordlessService(userRepo, tokenRepo, sesMailer, eventProducer, cfg.FrontendURL, logger)
	oidcService := service.NewOIDCService(provider, sessionStore, authService, eventProducer, logger)
	userService := service.NewUserService(userRepo, logger)
	fileService := service.NewFileService(fileRepo, objectStore, logger)
	folderService := service.NewFolderService(folderRepo, logger)
	sharingService := service.NewSharingService(logger)

	bearerVerifier := auth.NewBearerVerifier(provider, authService)
	sessionVerifier := auth.NewSessionVerifier(sessionStore, userRepo)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterCritical("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	// HTTP router.
	router := handler.NewRouter(handler.RouterConfig{
		AuthService:         authService,
		PasswordlessService: passwordlessService,
		OIDCService:         oidcService,
		UserService:         userService,
		FileService:         fileService,
		FolderService:       folderService,
		SharingService:      sharingService,
		BearerVerifier:      bearerVerifier,
		SessionVerifier:     sessionVerifier,
		HealthHandler:       healthHandler,
		CookieOptions: session.CookieOptions{
			Secure:   !cfg.IsDevelopment(),
			SameSite: http.SameSiteLaxMode,
		},
		FrontendURL: cfg.FrontendURL,
		CORS: middleware.CORSConfig{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowCredentials: true,
			Environment:      cfg.Environment,
		},
		Logger: logger,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redisClient:    redisClient,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in order: drain HTTP, flush spans,
// close the Kafka producer, then the datastores.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.redisClient.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
