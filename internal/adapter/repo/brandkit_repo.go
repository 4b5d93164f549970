package repo

import (
	"context"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/domain"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/infra"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/sqlinline"
)

// brandKitID keys the singleton brand kit row.
const brandKitID = "default"

// BrandKitRepositoryPG stores the shop's brand kit.
type BrandKitRepositoryPG struct {
	db infra.SQLExecutor
}

func NewBrandKitRepository(db infra.SQLExecutor) *BrandKitRepositoryPG {
	return &BrandKitRepositoryPG{db: db}
}

// Get returns the stored brand kit, or an empty kit when none was saved yet.
func (r *BrandKitRepositoryPG) Get(ctx context.Context) (*domain.BrandKit, error) {
	row := r.db.QueryRow(ctx, sqlinline.QSelectBrandKit, brandKitID)
	var kit domain.BrandKit
	var version int
	if err := row.Scan(&kit.Logo, &kit.Colors, &version); err != nil {
		if infra.IsNoRows(err) {
			return &domain.BrandKit{}, nil
		}
		return nil, err
	}
	kit.Normalize()
	return &kit, nil
}

// Save upserts the brand kit after normalizing it.
func (r *BrandKitRepositoryPG) Save(ctx context.Context, kit domain.BrandKit) error {
	kit.Normalize()
	_, err := r.db.Exec(ctx, sqlinline.QUpsertBrandKit, brandKitID, kit.Logo, kit.Colors)
	return err
}

// Reset removes the stored kit. Resetting an already-empty kit is a no-op.
func (r *BrandKitRepositoryPG) Reset(ctx context.Context) error {
	_, err := r.db.Exec(ctx, sqlinline.QDeleteBrandKit, brandKitID)
	return err
}
