package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/http/handlers"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/middleware"
)

// Options tunes the router middleware stack.
type Options struct {
	Logger          zerolog.Logger
	AllowedOrigins  []string
	RateLimitPerMin int
	StaticDir       string
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
	)
	if len(opts.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(opts.AllowedOrigins))
	}

	r.Get("/v1/healthz", app.Health)

	r.Group(func(r chi.Router) {
		if opts.RateLimitPerMin > 0 {
			r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
		}
		r.Route("/v1/images", func(r chi.Router) {
			r.Post("/edit", app.ImagesEdit)
			r.Post("/generate", app.ImagesGenerate)
			r.Post("/variations", app.ImagesVariations)
		})
		r.Route("/v1/batches", func(r chi.Router) {
			r.Post("/", app.BatchesCreate)
			r.Get("/{batch_id}", app.BatchGet)
			r.Get("/{batch_id}/assets", app.BatchAssets)
			r.Get("/{batch_id}/download", app.BatchDownload)
		})
		r.Route("/v1/products", func(r chi.Router) {
			r.Post("/orchestrate", app.ProductsOrchestrate)
			r.Post("/details", app.ProductDetails)
			r.Post("/suggest", app.ProductsSuggest)
		})
		r.Post("/v1/marketing/visuals", app.MarketingVisuals)
		r.Get("/v1/news", app.NewsLatest)
		r.Post("/v1/publish", app.Publish)
	})

	r.Route("/v1/presets", func(r chi.Router) {
		r.Get("/", app.PresetsList)
		r.Post("/", app.PresetsCreate)
		r.Delete("/{preset_id}", app.PresetsDelete)
	})
	r.Route("/v1/brand-kit", func(r chi.Router) {
		r.Get("/", app.BrandKitGet)
		r.Put("/", app.BrandKitPut)
		r.Delete("/", app.BrandKitReset)
	})

	r.Get("/v1/platforms/status", app.PlatformsStatus)

	if opts.StaticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	return r
}
