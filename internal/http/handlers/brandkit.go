package handlers

import (
	"fmt"
	"net/http"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/dataurl"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/domain"
)

// BrandKitGet returns the stored brand kit, empty when nothing was saved.
func (a *App) BrandKitGet(w http.ResponseWriter, r *http.Request) {
	kit, err := a.BrandKit.Get(r.Context())
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"brand_kit": kit})
}

type brandKitPutRequest struct {
	Logo   string   `json:"logo"`
	Colors []string `json:"colors" validate:"max=5"`
}

// BrandKitPut replaces the stored brand kit. Colors are validated as hex
// values and the logo must be a data URL within the size cap.
func (a *App) BrandKitPut(w http.ResponseWriter, r *http.Request) {
	var req brandKitPutRequest
	if err := a.decode(r, &req); err != nil {
		a.writeDomainError(w, err)
		return
	}
	var kit domain.BrandKit
	for _, color := range req.Colors {
		if err := kit.AddColor(color); err != nil {
			a.writeDomainError(w, err)
			return
		}
	}
	if req.Logo != "" {
		data, _, err := dataurl.Decode(req.Logo)
		if err != nil {
			a.writeDomainError(w, fmt.Errorf("%w: logo must be a data URL", domain.ErrInvalidInput))
			return
		}
		if len(data) > domain.MaxLogoBytes {
			a.writeDomainError(w, fmt.Errorf("%w: logo exceeds %d bytes", domain.ErrInvalidInput, domain.MaxLogoBytes))
			return
		}
		kit.Logo = req.Logo
	}
	if err := a.BrandKit.Save(r.Context(), kit); err != nil {
		a.writeDomainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"brand_kit": kit})
}

// BrandKitReset clears the stored kit. Resetting twice is the same as once.
func (a *App) BrandKitReset(w http.ResponseWriter, r *http.Request) {
	if err := a.BrandKit.Reset(r.Context()); err != nil {
		a.writeDomainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"brand_kit": &domain.BrandKit{}})
}
