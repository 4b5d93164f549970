// Package repo holds the PostgreSQL adapters. Each repository runs marked
// inline queries through an infra.SQLExecutor so tests can substitute stubs.
package repo

import (
	"context"
	"time"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/domain"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/infra"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/sqlinline"
)

// PresetRepositoryPG stores user-defined mockup presets.
type PresetRepositoryPG struct {
	db infra.SQLExecutor
}

func NewPresetRepository(db infra.SQLExecutor) *PresetRepositoryPG {
	return &PresetRepositoryPG{db: db}
}

// ListCustom returns all stored custom presets in creation order.
func (r *PresetRepositoryPG) ListCustom(ctx context.Context) ([]domain.MerchPreset, error) {
	rows, err := r.db.Query(ctx, sqlinline.QListCustomPresets)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var presets []domain.MerchPreset
	for rows.Next() {
		var p domain.MerchPreset
		var createdAt time.Time
		if err := rows.Scan(&p.ID, &p.Name, &p.Template, &createdAt); err != nil {
			return nil, err
		}
		p.IsCustom = true
		presets = append(presets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return presets, nil
}

// Get returns one custom preset by id.
func (r *PresetRepositoryPG) Get(ctx context.Context, id string) (*domain.MerchPreset, error) {
	row := r.db.QueryRow(ctx, sqlinline.QSelectCustomPreset, id)
	var p domain.MerchPreset
	var createdAt time.Time
	if err := row.Scan(&p.ID, &p.Name, &p.Template, &createdAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.IsCustom = true
	return &p, nil
}

// Create persists a new custom preset.
func (r *PresetRepositoryPG) Create(ctx context.Context, preset domain.MerchPreset) error {
	_, err := r.db.Exec(ctx, sqlinline.QInsertCustomPreset, preset.ID, preset.Name, preset.Template)
	return err
}

// Delete removes a custom preset. Deleting an unknown id reports ErrNotFound.
func (r *PresetRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, sqlinline.QDeleteCustomPreset, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
