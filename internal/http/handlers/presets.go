package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/domain"
)

// PresetsList returns the combined catalog: built-ins first, then stored
// custom presets.
func (a *App) PresetsList(w http.ResponseWriter, r *http.Request) {
	custom, err := a.Presets.ListCustom(r.Context())
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"presets": domain.MergePresets(custom)})
}

type presetCreateRequest struct {
	Name     string `json:"name" validate:"required"`
	Template string `json:"template" validate:"required"`
}

// PresetsCreate stores a new custom preset.
func (a *App) PresetsCreate(w http.ResponseWriter, r *http.Request) {
	var req presetCreateRequest
	if err := a.decode(r, &req); err != nil {
		a.writeDomainError(w, err)
		return
	}
	preset, err := domain.NewCustomPreset(req.Name, req.Template, time.Now())
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	custom, err := a.Presets.ListCustom(r.Context())
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	if _, exists := domain.FindPreset(preset.ID, custom); exists {
		a.writeDomainError(w, fmt.Errorf("%w: %s", domain.ErrDuplicatePreset, preset.ID))
		return
	}
	if err := a.Presets.Create(r.Context(), preset); err != nil {
		a.writeDomainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"preset": preset})
}

// PresetsDelete removes a custom preset. Built-in presets cannot be deleted.
func (a *App) PresetsDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "preset_id")
	for _, builtin := range domain.BuiltinPresets {
		if builtin.ID == id {
			a.error(w, http.StatusBadRequest, "bad_request", "built-in presets cannot be deleted")
			return
		}
	}
	if err := a.Presets.Delete(r.Context(), id); err != nil {
		a.writeDomainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"deleted": id})
}
