// Package handlers holds the HTTP surface. Handlers decode and validate the
// request, call one service, and encode the outcome; they own no generation
// logic of their own.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/domain"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/providers/copywriter"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/providers/genai"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/providers/news"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/publish"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/storage"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/studio"
)

// StudioService is the slice of the studio the handlers call.
type StudioService interface {
	RunBatch(ctx context.Context, req studio.BatchRequest, progress studio.ProgressFunc) (*studio.BatchResult, error)
	OrchestrateProduct(ctx context.Context, req studio.OrchestrateRequest) (*studio.OrchestrateResult, error)
	MarketingVisuals(ctx context.Context, src domain.SourceImage, brand *domain.BrandKit) ([]domain.GeneratedImage, error)
	ColorVariations(ctx context.Context, src domain.SourceImage, brand *domain.BrandKit) ([]domain.GeneratedImage, error)
}

// ImageService is the slice of the generative image client the handlers call
// directly for single edits and generations.
type ImageService interface {
	EditImage(ctx context.Context, src domain.SourceImage, prompt string, opts genai.EditOptions) (string, error)
	GenerateImages(ctx context.Context, prompt string, n int, opts genai.GenerateOptions) ([]string, error)
}

// NewsSource is the grounded news lookup.
type NewsSource interface {
	Latest(ctx context.Context, topic string) (*news.Digest, error)
}

// PresetStore persists custom mockup presets.
type PresetStore interface {
	ListCustom(ctx context.Context) ([]domain.MerchPreset, error)
	Get(ctx context.Context, id string) (*domain.MerchPreset, error)
	Create(ctx context.Context, preset domain.MerchPreset) error
	Delete(ctx context.Context, id string) error
}

// BrandKitStore persists the singleton brand kit.
type BrandKitStore interface {
	Get(ctx context.Context) (*domain.BrandKit, error)
	Save(ctx context.Context, kit domain.BrandKit) error
	Reset(ctx context.Context) error
}

// BatchStore records batches and their assets.
type BatchStore interface {
	Create(ctx context.Context, total int) (string, error)
	UpdateProgress(ctx context.Context, id string, p domain.Progress) error
	Complete(ctx context.Context, id string, status domain.BatchStatus, errMsg string) error
	Get(ctx context.Context, id string) (*domain.Batch, error)
	SaveAssets(ctx context.Context, batchID string, assets []domain.BatchAsset) error
	ListAssets(ctx context.Context, batchID string) ([]domain.BatchAsset, error)
}

// App bundles the handler dependencies.
type App struct {
	Logger zerolog.Logger

	Studio    StudioService
	Images    ImageService
	Writer    copywriter.Writer
	News      NewsSource
	Publisher *publish.Orchestrator

	Presets  PresetStore
	BrandKit BrandKitStore
	Batches  BatchStore
	Store    *storage.FileStore

	StorageBaseURL string

	Validate *validator.Validate
}

func NewApp(logger zerolog.Logger) *App {
	return &App{
		Logger:   logger,
		Validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]errorBody{"error": {Code: code, Message: message}})
}
