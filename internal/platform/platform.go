// Package platform defines the shared contract for commerce destinations.
// Each destination lives in its own subpackage with its own wire format; the
// orchestrator only sees this interface.
package platform

import (
	"context"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/domain"
)

// PublishRequest carries everything a destination needs to create a product
// from a finished design. The image travels as a data URL because that is the
// canonical in-memory form for generated assets.
type PublishRequest struct {
	Title        string
	Description  string
	ImageDataURL string
	ProductType  string
	Price        float64
	Tags         []string
}

// PublishResult is the destination's success report.
type PublishResult struct {
	Message    string
	SuccessURL string
}

// Publisher is one commerce destination. Configured and ConfigStatus answer
// from local credentials only and never touch the network.
type Publisher interface {
	Name() domain.Platform
	Configured() bool
	ConfigStatus() domain.ConfigStatus
	Publish(ctx context.Context, req PublishRequest) (*PublishResult, error)
}
