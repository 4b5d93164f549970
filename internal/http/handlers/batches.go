package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/dataurl"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/domain"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/studio"
	"github.com/Krosebrook/AIGenerateToStorefront/pkg/zip"
)

type batchCreateRequest struct {
	Image          string   `json:"image"`
	PresetIDs      []string `json:"preset_ids"`
	CustomPrompt   string   `json:"custom_prompt"`
	GeneratePrompt string   `json:"generate_prompt"`
	Variations     int      `json:"variations"`
	AspectRatio    string   `json:"aspect_ratio"`
	NegativePrompt string   `json:"negative_prompt"`
	UseBrandKit    bool     `json:"use_brand_kit"`
}

type batchCreateResponse struct {
	BatchID string                  `json:"batch_id"`
	Status  domain.BatchStatus      `json:"status"`
	Images  []domain.GeneratedImage `json:"images"`
	Failed  []string                `json:"failed,omitempty"`
}

// BatchesCreate runs a mockup batch synchronously and records it. Progress
// and the final status are written through the batch store so the run is
// observable from GET /v1/batches/{batch_id} while it executes.
func (a *App) BatchesCreate(w http.ResponseWriter, r *http.Request) {
	var req batchCreateRequest
	if err := a.decode(r, &req); err != nil {
		a.writeDomainError(w, err)
		return
	}

	batchReq, err := a.buildBatchRequest(r, req)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}

	batchID, err := a.Batches.Create(r.Context(), batchTotal(*batchReq))
	if err != nil {
		a.writeDomainError(w, err)
		return
	}

	result, err := a.Studio.RunBatch(r.Context(), *batchReq, func(p domain.Progress) {
		if err := a.Batches.UpdateProgress(r.Context(), batchID, p); err != nil {
			a.Logger.Warn().Err(err).Str("batch_id", batchID).Msg("progress update failed")
		}
	})
	if err != nil {
		_ = a.Batches.Complete(r.Context(), batchID, domain.BatchFailed, err.Error())
		a.writeDomainError(w, err)
		return
	}

	images := a.persistBatchImages(r, batchID, result.Images)
	var errMsg string
	if len(result.Failed) > 0 {
		errMsg = fmt.Sprintf("%d of %d items failed", len(result.Failed), batchTotal(*batchReq))
	}
	if err := a.Batches.Complete(r.Context(), batchID, result.Status, errMsg); err != nil {
		a.Logger.Warn().Err(err).Str("batch_id", batchID).Msg("batch completion update failed")
	}

	a.json(w, http.StatusOK, batchCreateResponse{
		BatchID: batchID,
		Status:  result.Status,
		Images:  images,
		Failed:  result.Failed,
	})
}

func (a *App) buildBatchRequest(r *http.Request, req batchCreateRequest) (*studio.BatchRequest, error) {
	batchReq := studio.BatchRequest{
		CustomPrompt:   req.CustomPrompt,
		GeneratePrompt: req.GeneratePrompt,
		Variations:     req.Variations,
		AspectRatio:    domain.NormalizeAspectRatio(req.AspectRatio),
		NegativePrompt: req.NegativePrompt,
	}
	if req.Image != "" {
		src, err := sourceFromDataURL(req.Image, "")
		if err != nil {
			return nil, err
		}
		batchReq.Source = src
	}
	if len(req.PresetIDs) > 0 {
		custom, err := a.Presets.ListCustom(r.Context())
		if err != nil {
			return nil, err
		}
		for _, id := range req.PresetIDs {
			preset, ok := domain.FindPreset(id, custom)
			if !ok {
				return nil, fmt.Errorf("%w: preset %q", domain.ErrNotFound, id)
			}
			batchReq.Presets = append(batchReq.Presets, preset)
		}
	}
	brand, err := a.brandKit(r, req.UseBrandKit)
	if err != nil {
		return nil, err
	}
	batchReq.Brand = brand
	return &batchReq, nil
}

func batchTotal(req studio.BatchRequest) int {
	switch {
	case len(req.Presets) > 0:
		return len(req.Presets)
	case req.CustomPrompt != "":
		return 1
	default:
		return domain.ClampVariations(req.Variations)
	}
}

// persistBatchImages writes each result through the file store and records
// asset rows. Returned URLs point at the /static file server; a storage
// failure falls back to the original data URL so the response stays complete.
func (a *App) persistBatchImages(r *http.Request, batchID string, images []domain.GeneratedImage) []domain.GeneratedImage {
	out := make([]domain.GeneratedImage, 0, len(images))
	var assets []domain.BatchAsset
	for i, img := range images {
		data, mime, err := dataurl.Decode(img.URL)
		if err != nil {
			a.Logger.Warn().Err(err).Str("batch_id", batchID).Msg("asset decode failed")
			out = append(out, img)
			continue
		}
		key := fmt.Sprintf("batches/%s/%d%s", batchID, i, extensionFor(mime))
		storedKey, err := a.Store.Write(r.Context(), key, data)
		if err != nil {
			a.Logger.Warn().Err(err).Str("batch_id", batchID).Msg("asset write failed")
			out = append(out, img)
			continue
		}
		out = append(out, domain.GeneratedImage{Name: img.Name, URL: a.StorageBaseURL + "/" + storedKey})
		assets = append(assets, domain.BatchAsset{
			BatchID:    batchID,
			Name:       img.Name,
			StorageKey: storedKey,
			MIMEType:   mime,
			Bytes:      int64(len(data)),
			Position:   i,
		})
	}
	if len(assets) > 0 {
		if err := a.Batches.SaveAssets(r.Context(), batchID, assets); err != nil {
			a.Logger.Warn().Err(err).Str("batch_id", batchID).Msg("asset rows not saved")
		}
	}
	return out
}

func extensionFor(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

// BatchGet returns a batch's status and progress.
func (a *App) BatchGet(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batch_id")
	batch, err := a.Batches.Get(r.Context(), batchID)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	a.json(w, http.StatusOK, batch)
}

// BatchAssets lists a batch's stored assets with public URLs.
func (a *App) BatchAssets(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batch_id")
	if _, err := a.Batches.Get(r.Context(), batchID); err != nil {
		a.writeDomainError(w, err)
		return
	}
	assets, err := a.Batches.ListAssets(r.Context(), batchID)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	items := make([]map[string]any, 0, len(assets))
	for _, asset := range assets {
		items = append(items, map[string]any{
			"id":       asset.ID,
			"name":     asset.Name,
			"url":      a.StorageBaseURL + "/" + asset.StorageKey,
			"mime":     asset.MIMEType,
			"bytes":    asset.Bytes,
			"position": asset.Position,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"batch_id": batchID, "assets": items})
}

// BatchDownload streams all of a batch's assets as one zip archive.
func (a *App) BatchDownload(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batch_id")
	if _, err := a.Batches.Get(r.Context(), batchID); err != nil {
		a.writeDomainError(w, err)
		return
	}
	assets, err := a.Batches.ListAssets(r.Context(), batchID)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	if len(assets) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "batch has no assets")
		return
	}
	archive := make([]zip.Asset, 0, len(assets))
	for _, asset := range assets {
		data, err := a.Store.Read(r.Context(), asset.StorageKey)
		if err != nil {
			a.Logger.Warn().Err(err).Str("key", asset.StorageKey).Msg("asset read failed")
			continue
		}
		archive = append(archive, zip.Asset{
			Filename: fmt.Sprintf("%02d-%s%s", asset.Position+1, asset.Name, extensionFor(asset.MIMEType)),
			MIME:     asset.MIMEType,
			Data:     data,
		})
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "batch-"+batchID+".zip"))
	_, _ = w.Write(zip.ArchiveAssets(archive))
}
