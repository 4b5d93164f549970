package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/dataurl"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/domain"
)

// decode unmarshals the request body into v and runs struct validation.
func (a *App) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON payload", domain.ErrInvalidInput)
	}
	if err := a.Validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("%w: field %s failed %s validation", domain.ErrInvalidInput, f.Field(), f.Tag())
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// sourceFromDataURL turns a request's image field into a SourceImage.
func sourceFromDataURL(value, name string) (*domain.SourceImage, error) {
	if value == "" {
		return nil, domain.ErrMissingImage
	}
	data, mime, err := dataurl.Decode(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if name == "" {
		name = "source"
	}
	return &domain.SourceImage{Data: data, MIMEType: mime, Name: name}, nil
}

// writeDomainError maps service errors onto HTTP statuses.
func (a *App) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrMissingImage),
		errors.Is(err, domain.ErrEmptyPrompt),
		errors.Is(err, domain.ErrComplianceMissing):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrDuplicatePreset):
		a.error(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, domain.ErrNotConfigured):
		a.error(w, http.StatusPreconditionFailed, "not_configured", err.Error())
	default:
		a.Logger.Error().Err(err).Msg("request failed")
		a.error(w, http.StatusBadGateway, "upstream_error", err.Error())
	}
}

// brandKit loads the stored kit when the request opted in, returning nil for
// an empty kit so providers skip the brand instructions entirely.
func (a *App) brandKit(r *http.Request, useBrandKit bool) (*domain.BrandKit, error) {
	if !useBrandKit || a.BrandKit == nil {
		return nil, nil
	}
	kit, err := a.BrandKit.Get(r.Context())
	if err != nil {
		return nil, err
	}
	if kit == nil || kit.IsEmpty() {
		return nil, nil
	}
	return kit, nil
}
