package main

import (
	"context"
	"net/http"
	"os"

	"github.com/dishcovery-app/dishcovery-backend/api/routes"
	internalauth "github.com/dishcovery-app/dishcovery-backend/internal/auth"
	"github.com/dishcovery-app/dishcovery-backend/internal/discovery"
	"github.com/dishcovery-app/dishcovery-backend/internal/share"
	"github.com/dishcovery-app/dishcovery-backend/internal/users"
	"github.com/dishcovery-app/dishcovery-backend/internal/wishlist"
	"github.com/dishcovery-app/dishcovery-backend/pkg/auth/session"
	"github.com/dishcovery-app/dishcovery-backend/pkg/config"
	"github.com/dishcovery-app/dishcovery-backend/pkg/db"
	"github.com/dishcovery-app/dishcovery-backend/pkg/genai"
	"github.com/dishcovery-app/dishcovery-backend/pkg/logger"
	"github.com/dishcovery-app/dishcovery-backend/pkg/metrics"
	"github.com/dishcovery-app/dishcovery-backend/pkg/migrate"
	"github.com/dishcovery-app/dishcovery-backend/pkg/places"
	"github.com/dishcovery-app/dishcovery-backend/pkg/redis"
	"github.com/joho/godotenv"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
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

	authService, err := internalauth.NewService(internalauth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := internalauth.NewRegisterService(internalauth.RegisterServiceParams{
		TxRunner:       dbClient,
		SessionManager: sessionManager,
		PasswordConfig: cfg.Password,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		Repo: wishlist.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	shareService, err := share.NewService(share.ServiceParams{
		Repo:     share.NewRepository(dbClient.DB()),
		Wishlist: wishlistService,
		Users:    users.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create share service", err)
		os.Exit(1)
	}

	placesOpts := []places.Option{
		places.WithHTTPClient(&http.Client{Timeout: cfg.Places.Timeout}),
	}
	if cfg.Places.BaseURL != "" {
		placesOpts = append(placesOpts, places.WithBaseURL(cfg.Places.BaseURL))
	}
	placesClient, err := places.NewClient(cfg.Places.APIKey, placesOpts...)
	if err != nil {
		logg.Error(context.Background(), "failed to create places client", err)
		os.Exit(1)
	}

	genaiOpts := []genai.Option{
		genai.WithHTTPClient(&http.Client{Timeout: cfg.Gemini.Timeout}),
		genai.WithModel(cfg.Gemini.Model),
	}
	if cfg.Gemini.BaseURL != "" {
		genaiOpts = append(genaiOpts, genai.WithBaseURL(cfg.Gemini.BaseURL))
	}
	genaiClient, err := genai.NewClient(cfg.Gemini.APIKey, genaiOpts...)
	if err != nil {
		logg.Error(context.Background(), "failed to create gemini client", err)
		os.Exit(1)
	}

	discoveryService, err := discovery.NewService(discovery.ServiceParams{
		Places:   placesClient,
		Analyzer: genaiClient,
		Logger:   logg,
		Config:   cfg.Discovery,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create discovery service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics()

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
		Handler: routes.NewRouter(
			cfg,
			logg,
			httpMetrics,
			dbClient,
			redisClient,
			sessionManager,
			authService,
			registerService,
			wishlistService,
			shareService,
			discoveryService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
