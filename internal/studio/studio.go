// Package studio sequences the generation flows: mockup batches, the
// plan-then-generate product flow, and the concurrent marketing fan-outs.
package studio

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/domain"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/providers/copywriter"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/providers/genai"
)

// ImageClient is the slice of the generative image client the studio needs.
type ImageClient interface {
	EditImage(ctx context.Context, src domain.SourceImage, prompt string, opts genai.EditOptions) (string, error)
	GenerateImages(ctx context.Context, prompt string, n int, opts genai.GenerateOptions) ([]string, error)
}

// Planner is the slice of the copywriter the studio needs.
type Planner interface {
	PlanProduct(ctx context.Context, idea string, hints copywriter.PlanHints) (*domain.ProductPlan, error)
}

// Service runs the generation flows.
type Service struct {
	images  ImageClient
	planner Planner
	logger  zerolog.Logger
}

func NewService(images ImageClient, planner Planner, logger zerolog.Logger) *Service {
	return &Service{images: images, planner: planner, logger: logger}
}

// BatchRequest describes one run of the batch controller. Exactly one of the
// three shapes applies: presets, a custom edit prompt, or from-scratch
// generation.
type BatchRequest struct {
	Source         *domain.SourceImage
	Presets        []domain.MerchPreset
	CustomPrompt   string
	GeneratePrompt string
	Variations     int
	AspectRatio    string
	NegativePrompt string
	Brand          *domain.BrandKit
}

// BatchResult carries the accumulated outcome of a batch run. Images keeps
// work-list order with failed units skipped.
type BatchResult struct {
	Images []domain.GeneratedImage
	Status domain.BatchStatus
	Failed []string
}

// ProgressFunc receives an update after each completed unit. A nil func is
// allowed.
type ProgressFunc func(domain.Progress)

type workUnit struct {
	name   string
	prompt string
}

const customEditName = "Custom Edit"

// RunBatch executes the work list strictly one unit at a time. A failed unit
// is recorded and the loop continues; the batch only fails outright when
// every unit fails.
func (s *Service) RunBatch(ctx context.Context, req BatchRequest, progress ProgressFunc) (*BatchResult, error) {
	units, generate, err := buildWorkList(req)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = func(domain.Progress) {}
	}

	result := &BatchResult{}
	total := len(units)
	for i, unit := range units {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		url, err := s.runUnit(ctx, req, unit, generate)
		if err != nil {
			s.logger.Warn().Err(err).Str("unit", unit.name).Msg("batch unit failed")
			result.Failed = append(result.Failed, fmt.Sprintf("%s: %v", unit.name, err))
		} else {
			result.Images = append(result.Images, domain.GeneratedImage{Name: unit.name, URL: url})
		}
		progress(domain.Progress{
			Current: i + 1,
			Total:   total,
			Message: fmt.Sprintf("Generated %s (%d/%d)", unit.name, i+1, total),
		})
	}

	switch {
	case len(result.Failed) == 0:
		result.Status = domain.BatchSucceeded
	case len(result.Images) == 0:
		result.Status = domain.BatchFailed
	default:
		result.Status = domain.BatchPartial
	}
	return result, nil
}

func (s *Service) runUnit(ctx context.Context, req BatchRequest, unit workUnit, generate bool) (string, error) {
	if generate {
		urls, err := s.images.GenerateImages(ctx, unit.prompt, 1, genai.GenerateOptions{
			NegativePrompt: req.NegativePrompt,
			AspectRatio:    req.AspectRatio,
		})
		if err != nil {
			return "", err
		}
		if len(urls) == 0 {
			return "", domain.ErrGenerationFailed
		}
		return urls[0], nil
	}
	return s.images.EditImage(ctx, *req.Source, unit.prompt, genai.EditOptions{
		NegativePrompt: req.NegativePrompt,
		Brand:          req.Brand,
	})
}

func buildWorkList(req BatchRequest) ([]workUnit, bool, error) {
	switch {
	case len(req.Presets) > 0:
		if req.Source == nil || len(req.Source.Data) == 0 {
			return nil, false, domain.ErrMissingImage
		}
		units := make([]workUnit, 0, len(req.Presets))
		for _, p := range req.Presets {
			units = append(units, workUnit{name: p.Name, prompt: p.Template})
		}
		return units, false, nil
	case strings.TrimSpace(req.CustomPrompt) != "":
		if req.Source == nil || len(req.Source.Data) == 0 {
			return nil, false, domain.ErrMissingImage
		}
		return []workUnit{{name: customEditName, prompt: req.CustomPrompt}}, false, nil
	case strings.TrimSpace(req.GeneratePrompt) != "":
		n := domain.ClampVariations(req.Variations)
		units := make([]workUnit, 0, n)
		for i := 1; i <= n; i++ {
			units = append(units, workUnit{
				name:   fmt.Sprintf("Variation %d", i),
				prompt: req.GeneratePrompt,
			})
		}
		return units, true, nil
	default:
		return nil, false, domain.ErrEmptyPrompt
	}
}

// OrchestrateRequest is the input to the plan-then-generate flow.
type OrchestrateRequest struct {
	Idea           string
	NegativePrompt string
	AspectRatio    string
	Variations     int
}

// OrchestrateResult bundles the plan with the rendered variations.
type OrchestrateResult struct {
	Plan   domain.ProductPlan
	Images []string
}

// OrchestrateProduct runs the two phases strictly in sequence. Either phase
// failing aborts the whole operation; the raw idea is never used as an image
// prompt.
func (s *Service) OrchestrateProduct(ctx context.Context, req OrchestrateRequest) (*OrchestrateResult, error) {
	n := domain.ClampVariations(req.Variations)
	plan, err := s.planner.PlanProduct(ctx, req.Idea, copywriter.PlanHints{
		NegativePrompt: req.NegativePrompt,
		AspectRatio:    req.AspectRatio,
		Variations:     n,
	})
	if err != nil {
		return nil, fmt.Errorf("plan product: %w", err)
	}
	images, err := s.images.GenerateImages(ctx, plan.ImagePrompt, n, genai.GenerateOptions{
		NegativePrompt: req.NegativePrompt,
		AspectRatio:    req.AspectRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("render plan: %w", err)
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("render plan: %w", domain.ErrGenerationFailed)
	}
	return &OrchestrateResult{Plan: *plan, Images: images}, nil
}

// marketingTargets are the three social placements rendered concurrently.
var marketingTargets = []struct {
	name   string
	prompt string
}{
	{"Instagram Post", "Create a vibrant square Instagram post featuring this product design in an aspirational lifestyle setting with space for a short caption overlay."},
	{"Facebook Ad", "Create a wide Facebook ad image featuring this product design with bold, eye-catching composition suited to a news feed."},
	{"Pinterest Pin", "Create a tall Pinterest pin featuring this product design styled as an inspirational mood-board photo."},
}

// variationTargets are the three background and color treatments rendered
// concurrently.
var variationTargets = []struct {
	name   string
	prompt string
}{
	{"Warm Palette", "Recreate this design with a warm color palette of oranges, reds, and golden tones, keeping the composition identical."},
	{"Cool Palette", "Recreate this design with a cool color palette of blues, teals, and purples, keeping the composition identical."},
	{"Monochrome", "Recreate this design in striking monochrome with high contrast, keeping the composition identical."},
}

// MarketingVisuals renders the three social placements concurrently. Any
// failure fails the whole operation.
func (s *Service) MarketingVisuals(ctx context.Context, src domain.SourceImage, brand *domain.BrandKit) ([]domain.GeneratedImage, error) {
	return s.fanOut(ctx, src, brand, marketingTargets)
}

// ColorVariations renders the three color treatments concurrently. Any
// failure fails the whole operation.
func (s *Service) ColorVariations(ctx context.Context, src domain.SourceImage, brand *domain.BrandKit) ([]domain.GeneratedImage, error) {
	return s.fanOut(ctx, src, brand, variationTargets)
}

func (s *Service) fanOut(ctx context.Context, src domain.SourceImage, brand *domain.BrandKit, targets []struct {
	name   string
	prompt string
}) ([]domain.GeneratedImage, error) {
	if len(src.Data) == 0 {
		return nil, domain.ErrMissingImage
	}
	results := make([]domain.GeneratedImage, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			url, err := s.images.EditImage(gctx, src, target.prompt, genai.EditOptions{Brand: brand})
			if err != nil {
				return fmt.Errorf("%s: %w", target.name, err)
			}
			results[i] = domain.GeneratedImage{Name: target.name, URL: url}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
