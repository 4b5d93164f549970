package handlers

import (
	"net/http"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/domain"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/studio"
)

type orchestrateRequest struct {
	Idea           string `json:"idea" validate:"required"`
	NegativePrompt string `json:"negative_prompt"`
	AspectRatio    string `json:"aspect_ratio"`
	Variations     int    `json:"variations"`
}

type orchestrateResponse struct {
	Plan   domain.ProductPlan `json:"plan"`
	Images []string           `json:"images"`
}

// ProductsOrchestrate runs the plan-then-generate flow for a raw idea.
func (a *App) ProductsOrchestrate(w http.ResponseWriter, r *http.Request) {
	var req orchestrateRequest
	if err := a.decode(r, &req); err != nil {
		a.writeDomainError(w, err)
		return
	}
	result, err := a.Studio.OrchestrateProduct(r.Context(), studio.OrchestrateRequest{
		Idea:           req.Idea,
		NegativePrompt: req.NegativePrompt,
		AspectRatio:    domain.NormalizeAspectRatio(req.AspectRatio),
		Variations:     req.Variations,
	})
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	a.json(w, http.StatusOK, orchestrateResponse{Plan: result.Plan, Images: result.Images})
}

type productDetailsRequest struct {
	ProductName string `json:"product_name" validate:"required"`
}

// ProductDetails writes the full marketing package for a named product.
func (a *App) ProductDetails(w http.ResponseWriter, r *http.Request) {
	var req productDetailsRequest
	if err := a.decode(r, &req); err != nil {
		a.writeDomainError(w, err)
		return
	}
	details, err := a.Writer.ProductDetails(r.Context(), req.ProductName)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"details": details})
}

type productSuggestRequest struct {
	Image string `json:"image" validate:"required"`
}

// ProductsSuggest names the merch products a design would suit.
func (a *App) ProductsSuggest(w http.ResponseWriter, r *http.Request) {
	var req productSuggestRequest
	if err := a.decode(r, &req); err != nil {
		a.writeDomainError(w, err)
		return
	}
	src, err := sourceFromDataURL(req.Image, "")
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	products, err := a.Writer.SuggestProducts(r.Context(), *src)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"products": products})
}
