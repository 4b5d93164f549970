// Package publish fans a finished product out to the selected commerce
// destinations. Platforms run strictly in a fixed order and independently:
// one failure never blocks the others, and there is no cross-platform
// rollback.
package publish

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/domain"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/platform"
)

// Request is one multi-platform publish run. Platforms is the selected
// subset; ComplianceAck is the caller's confirmation that the listing content
// follows each destination's policies.
type Request struct {
	Platforms     []domain.Platform
	ComplianceAck bool
	Product       platform.PublishRequest
}

// Orchestrator iterates the registered publishers in fixed order.
type Orchestrator struct {
	publishers map[domain.Platform]platform.Publisher
	logger     zerolog.Logger
}

func NewOrchestrator(logger zerolog.Logger, publishers ...platform.Publisher) *Orchestrator {
	byName := make(map[domain.Platform]platform.Publisher, len(publishers))
	for _, p := range publishers {
		byName[p.Name()] = p
	}
	return &Orchestrator{publishers: byName, logger: logger}
}

// Statuses reports each platform's configuration state without touching the
// network.
func (o *Orchestrator) Statuses() map[domain.Platform]domain.ConfigStatus {
	statuses := make(map[domain.Platform]domain.ConfigStatus, len(o.publishers))
	for name, p := range o.publishers {
		statuses[name] = p.ConfigStatus()
	}
	return statuses
}

// Run publishes to every selected platform and returns exactly one result per
// selection. An unconfigured platform reports its configuration message
// instead of attempting a network call.
func (o *Orchestrator) Run(ctx context.Context, req Request) ([]domain.PlatformResult, error) {
	if !req.ComplianceAck {
		return nil, domain.ErrComplianceMissing
	}
	if len(req.Platforms) == 0 {
		return nil, fmt.Errorf("%w: select at least one platform", domain.ErrInvalidInput)
	}
	selected := make(map[domain.Platform]bool, len(req.Platforms))
	for _, p := range req.Platforms {
		if !domain.KnownPlatform(p) {
			return nil, fmt.Errorf("%w: unknown platform %q", domain.ErrInvalidInput, p)
		}
		selected[p] = true
	}
	if !o.anyConfigured(req.Platforms) {
		return nil, fmt.Errorf("%w: none of the selected platforms are configured", domain.ErrNotConfigured)
	}

	var results []domain.PlatformResult
	for _, name := range domain.PublishOrder {
		if !selected[name] {
			continue
		}
		results = append(results, o.publishOne(ctx, name, req.Product))
	}
	return results, nil
}

func (o *Orchestrator) publishOne(ctx context.Context, name domain.Platform, product platform.PublishRequest) domain.PlatformResult {
	publisher, ok := o.publishers[name]
	if !ok {
		return domain.PlatformResult{
			Platform: name,
			State:    domain.PublishFailed,
			Error:    "platform is not registered",
		}
	}
	if status := publisher.ConfigStatus(); !status.Configured {
		return domain.PlatformResult{
			Platform: name,
			State:    domain.PublishFailed,
			Error:    status.Message,
		}
	}
	result, err := publisher.Publish(ctx, product)
	if err != nil {
		o.logger.Warn().Err(err).Str("platform", string(name)).Msg("publish failed")
		return domain.PlatformResult{
			Platform: name,
			State:    domain.PublishFailed,
			Error:    err.Error(),
		}
	}
	o.logger.Info().Str("platform", string(name)).Str("url", result.SuccessURL).Msg("publish succeeded")
	return domain.PlatformResult{
		Platform:   name,
		State:      domain.PublishSucceeded,
		Message:    result.Message,
		SuccessURL: result.SuccessURL,
	}
}

func (o *Orchestrator) anyConfigured(platforms []domain.Platform) bool {
	for _, name := range platforms {
		if p, ok := o.publishers[name]; ok && p.Configured() {
			return true
		}
	}
	return false
}
