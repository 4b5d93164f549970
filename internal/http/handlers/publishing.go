package handlers

import (
	"net/http"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/domain"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/platform"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/publish"
)

// PlatformsStatus reports each destination's credential state.
func (a *App) PlatformsStatus(w http.ResponseWriter, r *http.Request) {
	statuses := a.Publisher.Statuses()
	items := make([]map[string]any, 0, len(domain.PublishOrder))
	for _, name := range domain.PublishOrder {
		status, ok := statuses[name]
		if !ok {
			status = domain.ConfigStatus{Message: "platform is not registered"}
		}
		items = append(items, map[string]any{
			"platform":   name,
			"configured": status.Configured,
			"message":    status.Message,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"platforms": items})
}

type publishRequest struct {
	Platforms     []domain.Platform `json:"platforms" validate:"required,min=1"`
	ComplianceAck bool              `json:"compliance_ack"`
	Title         string            `json:"title" validate:"required"`
	Description   string            `json:"description"`
	Image         string            `json:"image" validate:"required"`
	ProductType   string            `json:"product_type"`
	Price         float64           `json:"price"`
	Tags          []string          `json:"tags"`
}

// Publish fans the product out to the selected destinations and returns one
// terminal result per selection.
func (a *App) Publish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := a.decode(r, &req); err != nil {
		a.writeDomainError(w, err)
		return
	}
	results, err := a.Publisher.Run(r.Context(), publish.Request{
		Platforms:     req.Platforms,
		ComplianceAck: req.ComplianceAck,
		Product: platform.PublishRequest{
			Title:        req.Title,
			Description:  req.Description,
			ImageDataURL: req.Image,
			ProductType:  req.ProductType,
			Price:        req.Price,
			Tags:         req.Tags,
		},
	})
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"results": results})
}
