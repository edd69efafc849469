package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/thesisvault/backend/api/routes"
	"github.com/thesisvault/backend/internal/access"
	"github.com/thesisvault/backend/internal/auth"
	"github.com/thesisvault/backend/internal/borrow"
	"github.com/thesisvault/backend/internal/scans"
	"github.com/thesisvault/backend/internal/theses"
	"github.com/thesisvault/backend/internal/users"
	"github.com/thesisvault/backend/pkg/auth/session"
	"github.com/thesisvault/backend/pkg/config"
	"github.com/thesisvault/backend/pkg/db"
	"github.com/thesisvault/backend/pkg/logger"
	"github.com/thesisvault/backend/pkg/migrate"
	"github.com/thesisvault/backend/pkg/redis"
	"github.com/thesisvault/backend/pkg/storage"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	storageClient, err := storage.New(cfg.Storage, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create storage client", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	thesesRepo := theses.NewRepository(dbClient.DB())
	accessRepo := access.NewRepository(dbClient.DB())
	scansRepo := scans.NewRepository(dbClient.DB())
	borrowRepo := borrow.NewRepository(dbClient.DB())

	usersService, err := users.NewService(usersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	thesesService, err := theses.NewService(thesesRepo, storageClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create theses service", err)
		os.Exit(1)
	}

	accessService, err := access.NewService(accessRepo, thesesRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create access service", err)
		os.Exit(1)
	}

	scansService, err := scans.NewService(scansRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create scans service", err)
		os.Exit(1)
	}

	borrowService, err := borrow.NewService(thesesRepo, borrowRepo, accessService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create borrow service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		Profiles:       usersService,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:       dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			Registry:        registry,
			DBPinger:        dbClient,
			RedisClient:     redisClient,
			StoragePinger:   storageClient,
			Sessions:        sessionManager,
			AuthService:     authService,
			RegisterService: registerService,
			UsersService:    usersService,
			ThesesService:   thesesService,
			AccessService:   accessService,
			ScansService:    scansService,
			BorrowService:   borrowService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
