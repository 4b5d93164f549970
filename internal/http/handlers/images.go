package handlers

import (
	"context"
	"net/http"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/domain"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/providers/genai"
)

type imageEditRequest struct {
	Image          string `json:"image" validate:"required"`
	Prompt         string `json:"prompt" validate:"required"`
	NegativePrompt string `json:"negative_prompt"`
	UseBrandKit    bool   `json:"use_brand_kit"`
}

type imageEditResponse struct {
	Image domain.GeneratedImage `json:"image"`
}

// ImagesEdit runs a single prompt-driven edit of an uploaded design.
func (a *App) ImagesEdit(w http.ResponseWriter, r *http.Request) {
	var req imageEditRequest
	if err := a.decode(r, &req); err != nil {
		a.writeDomainError(w, err)
		return
	}
	src, err := sourceFromDataURL(req.Image, "")
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	brand, err := a.brandKit(r, req.UseBrandKit)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	url, err := a.Images.EditImage(r.Context(), *src, req.Prompt, genai.EditOptions{
		NegativePrompt: req.NegativePrompt,
		Brand:          brand,
	})
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	a.json(w, http.StatusOK, imageEditResponse{Image: domain.GeneratedImage{Name: "Custom Edit", URL: url}})
}

type imageGenerateRequest struct {
	Prompt         string `json:"prompt" validate:"required"`
	Variations     int    `json:"variations"`
	AspectRatio    string `json:"aspect_ratio"`
	NegativePrompt string `json:"negative_prompt"`
}

type imageGenerateResponse struct {
	Images []string `json:"images"`
}

// ImagesGenerate renders a from-scratch prompt into up to four variations.
func (a *App) ImagesGenerate(w http.ResponseWriter, r *http.Request) {
	var req imageGenerateRequest
	if err := a.decode(r, &req); err != nil {
		a.writeDomainError(w, err)
		return
	}
	images, err := a.Images.GenerateImages(r.Context(), req.Prompt, domain.ClampVariations(req.Variations), genai.GenerateOptions{
		NegativePrompt: req.NegativePrompt,
		AspectRatio:    domain.NormalizeAspectRatio(req.AspectRatio),
	})
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	a.json(w, http.StatusOK, imageGenerateResponse{Images: images})
}

type fanOutRequest struct {
	Image       string `json:"image" validate:"required"`
	UseBrandKit bool   `json:"use_brand_kit"`
}

type fanOutResponse struct {
	Images []domain.GeneratedImage `json:"images"`
}

// MarketingVisuals renders the three social placements for a design.
func (a *App) MarketingVisuals(w http.ResponseWriter, r *http.Request) {
	a.fanOut(w, r, a.Studio.MarketingVisuals)
}

// ImagesVariations renders the three color treatments for a design.
func (a *App) ImagesVariations(w http.ResponseWriter, r *http.Request) {
	a.fanOut(w, r, a.Studio.ColorVariations)
}

func (a *App) fanOut(w http.ResponseWriter, r *http.Request, run func(ctx context.Context, src domain.SourceImage, brand *domain.BrandKit) ([]domain.GeneratedImage, error)) {
	var req fanOutRequest
	if err := a.decode(r, &req); err != nil {
		a.writeDomainError(w, err)
		return
	}
	src, err := sourceFromDataURL(req.Image, "")
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	brand, err := a.brandKit(r, req.UseBrandKit)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	images, err := run(r.Context(), *src, brand)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	a.json(w, http.StatusOK, fanOutResponse{Images: images})
}
