package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	googleauth "portfolio-backend/internal/auth"
	"portfolio-backend/internal/cleanup"
	"portfolio-backend/internal/llm"
	openai "portfolio-backend/internal/llm/openai"
	"portfolio-backend/internal/portfolios"
	"portfolio-backend/internal/resumes"
	"portfolio-backend/internal/services/health"
	"portfolio-backend/internal/shared/config"
	"portfolio-backend/internal/shared/server"
	"portfolio-backend/internal/shared/server/middleware"
	"portfolio-backend/internal/shared/storage/db"
	"portfolio-backend/internal/shared/storage/object"
	localstore "portfolio-backend/internal/shared/storage/object/local"
	s3store "portfolio-backend/internal/shared/storage/object/s3"
	"portfolio-backend/internal/shared/telemetry"
	"portfolio-backend/internal/users"
	"portfolio-backend/internal/views"
)

// App holds shared dependencies for the HTTP and worker binaries.
type App struct {
	Config      config.Config
	Router      *gin.Engine
	DB          *sql.DB
	Redis       *goredis.Client
	Store       object.ObjectStore
	Queue       cleanup.Client
	Portfolios  *portfolios.Service
	Eraser      *portfolios.Eraser
	Recorder    *views.Recorder
	Resumes     *resumes.Service
	Interpreter *resumes.Interpreter
	Cleanup     *cleanup.Processor
	Users       *users.Service
}

// Build connects infrastructure and wires every service and route.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	cache, rdb, err := buildViewCache(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	llmClient, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Redis:  rdb,
		Store:  store,
		Queue:  queueClient,
	}
	buildServices(app, cache, llmClient)

	checks := map[string]health.Pinger{}
	if sqlDB != nil {
		checks["postgres"] = sqlDB
	}
	if rdb != nil {
		checks["redis"] = health.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:      cfg,
		Health:      health.NewService(checks),
		Portfolios:  portfolios.NewHandler(app.Portfolios, app.Eraser),
		Views:       views.NewHandler(app.Recorder),
		Resumes:     resumes.NewHandler(app.Resumes, app.Interpreter),
		Users:       users.NewHandler(app.Users),
		GoogleAuth:  googleauth.NewGoogleService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, cfg.UIRedirectURL, app.Users),
		ViewLimiter: middleware.NewRateLimiter(nil),
	})

	return app, nil
}

// Close releases pooled connections.
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil && !db.IsLambdaRuntime() {
		_ = a.DB.Close()
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db_missing", map[string]any{"fallback": "memory"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db_connect_failed", map[string]any{"fallback": "memory", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}

	if cfg.IsDevLike() {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildViewCache(ctx context.Context, cfg config.Config) (views.Cache, *goredis.Client, error) {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return views.NewMemoryCache(nil), nil, nil
	}
	cache, rdb, err := views.NewRedisCache(ctx, cfg.RedisAddr)
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.redis_connect_failed", map[string]any{"fallback": "memory", "error": err.Error()})
			return views.NewMemoryCache(nil), nil, nil
		}
		return nil, nil, err
	}
	return cache, rdb, nil
}

func buildQueue(ctx context.Context, cfg config.Config) (cleanup.Client, error) {
	if strings.TrimSpace(cfg.CleanupQueueURL) == "" {
		return nil, nil
	}
	client, err := cleanup.NewSQSClient(ctx, cfg.CleanupQueueURL, cfg.AWSRegion)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	if cfg.LLMProvider != "openai" {
		return llm.PlaceholderClient{}, nil
	}
	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" && cfg.IsDevLike() {
		telemetry.Warn("bootstrap.llm_unconfigured", map[string]any{"provider": cfg.LLMProvider})
		return llm.PlaceholderClient{}, nil
	}
	client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func buildServices(app *App, cache views.Cache, llmClient llm.Client) {
	var (
		portfolioRepo portfolios.Repo
		viewRepo      views.Repo
		resumeRepo    resumes.Repo
		userRepo      users.Repo
	)
	if app.DB != nil {
		portfolioRepo = &portfolios.PGRepo{DB: app.DB}
		viewRepo = &views.PGRepo{DB: app.DB}
		resumeRepo = &resumes.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		memPortfolios := portfolios.NewMemoryRepo()
		portfolioRepo = memPortfolios
		viewRepo = views.NewMemoryRepo(memPortfolios)
		resumeRepo = resumes.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
	}

	app.Resumes = &resumes.Service{
		Store:    app.Store,
		Repo:     resumeRepo,
		Provider: app.Config.ObjectStoreType,
	}
	app.Portfolios = &portfolios.Service{
		Repo:            portfolioRepo,
		DefaultTemplate: app.Config.DefaultTemplate,
		Resumes:         app.Resumes,
	}
	app.Recorder = &views.Recorder{Repo: viewRepo, Cache: cache}
	app.Eraser = &portfolios.Eraser{
		Repo:    portfolioRepo,
		Views:   app.Recorder,
		Resumes: app.Resumes,
		Queue:   app.Queue,
	}
	app.Interpreter = &resumes.Interpreter{
		Repo:       resumeRepo,
		Store:      app.Store,
		LLM:        llmClient,
		Portfolios: app.Portfolios,
	}
	app.Users = users.NewService(userRepo, app.Portfolios)
	app.Cleanup = &cleanup.Processor{
		Views:   app.Recorder,
		Resumes: app.Resumes,
	}
}
