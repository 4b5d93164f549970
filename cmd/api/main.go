package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/adapter/repo"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/http/handlers"
	httpapi "github.com/Krosebrook/AIGenerateToStorefront/internal/http/httpapi"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/infra"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/platform/etsy"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/platform/printify"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/platform/shopify"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/providers/copywriter"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/providers/genai"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/providers/news"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/publish"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/storage"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/studio"
)

func main() {
	// .env is optional; real deployments inject env vars directly.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)

	storagePath := cfg.StoragePath
	if !filepath.IsAbs(storagePath) {
		if abs, err := filepath.Abs(storagePath); err == nil {
			storagePath = abs
		}
	}
	store, err := storage.NewFileStore(storagePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure storage")
	}

	imageClient := genai.NewClient(genai.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiImageModel,
		Logger:  &logger,
	})
	writer, err := copywriter.NewGeminiWriter(copywriter.GeminiOptions{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiTextModel,
		BaseURL: cfg.GeminiBaseURL,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure copywriter")
	}
	newsClient, err := news.NewClient(news.Options{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiTextModel,
		BaseURL: cfg.GeminiBaseURL,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure news client")
	}

	orchestrator := publish.NewOrchestrator(logger,
		shopify.NewClient(shopify.Options{
			ShopDomain: cfg.ShopifyShopDomain,
			APIToken:   cfg.ShopifyAdminAPIToken,
			APIVersion: cfg.ShopifyAPIVersion,
			Logger:     logger,
		}),
		printify.NewClient(printify.Options{
			APIToken: cfg.PrintifyAPIToken,
			ShopID:   cfg.PrintifyShopID,
			Logger:   logger,
		}),
		etsy.NewClient(etsy.Options{
			APIKey:      cfg.EtsyAPIKey,
			ShopID:      cfg.EtsyShopID,
			AccessToken: cfg.EtsyAccessToken,
			Logger:      logger,
		}),
	)

	app := handlers.NewApp(logger)
	app.Studio = studio.NewService(imageClient, writer, logger)
	app.Images = imageClient
	app.Writer = writer
	app.News = newsClient
	app.Publisher = orchestrator
	app.Presets = repo.NewPresetRepository(runner)
	app.BrandKit = repo.NewBrandKitRepository(runner)
	app.Batches = repo.NewBatchRepository(runner)
	app.Store = store
	app.StorageBaseURL = cfg.StorageBaseURL

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		StaticDir:       store.BasePath(),
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
