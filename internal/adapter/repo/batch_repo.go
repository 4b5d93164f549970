package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/domain"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/infra"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/sqlinline"
)

// BatchRepositoryPG records generation batches and their produced assets.
type BatchRepositoryPG struct {
	db infra.SQLExecutor
}

func NewBatchRepository(db infra.SQLExecutor) *BatchRepositoryPG {
	return &BatchRepositoryPG{db: db}
}

// Create inserts a new running batch and returns its id.
func (r *BatchRepositoryPG) Create(ctx context.Context, total int) (string, error) {
	id := uuid.NewString()
	if _, err := r.db.Exec(ctx, sqlinline.QInsertBatch, id, string(domain.BatchRunning), total); err != nil {
		return "", err
	}
	return id, nil
}

// UpdateProgress writes the per-unit progress so a batch is observable while
// it runs.
func (r *BatchRepositoryPG) UpdateProgress(ctx context.Context, id string, p domain.Progress) error {
	_, err := r.db.Exec(ctx, sqlinline.QUpdateBatchProgress, id, p.Current, p.Total, p.Message)
	return err
}

// Complete moves the batch to its terminal status and clears the progress
// message.
func (r *BatchRepositoryPG) Complete(ctx context.Context, id string, status domain.BatchStatus, errMsg string) error {
	_, err := r.db.Exec(ctx, sqlinline.QCompleteBatch, id, string(status), errMsg)
	return err
}

// Get returns one batch by id.
func (r *BatchRepositoryPG) Get(ctx context.Context, id string) (*domain.Batch, error) {
	row := r.db.QueryRow(ctx, sqlinline.QSelectBatch, id)
	var b domain.Batch
	if err := row.Scan(
		&b.ID,
		&b.Status,
		&b.Progress.Current,
		&b.Progress.Total,
		&b.Progress.Message,
		&b.Error,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// SaveAssets persists the batch's produced assets.
func (r *BatchRepositoryPG) SaveAssets(ctx context.Context, batchID string, assets []domain.BatchAsset) error {
	for _, asset := range assets {
		id := asset.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := r.db.Exec(ctx, sqlinline.QInsertBatchAsset,
			id, batchID, asset.Name, asset.StorageKey, asset.MIMEType, asset.Bytes, asset.Position,
		); err != nil {
			return err
		}
	}
	return nil
}

// ListAssets returns a batch's assets in work-list order.
func (r *BatchRepositoryPG) ListAssets(ctx context.Context, batchID string) ([]domain.BatchAsset, error) {
	rows, err := r.db.Query(ctx, sqlinline.QListBatchAssets, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []domain.BatchAsset
	for rows.Next() {
		var a domain.BatchAsset
		if err := rows.Scan(&a.ID, &a.BatchID, &a.Name, &a.StorageKey, &a.MIMEType, &a.Bytes, &a.Position, &a.CreatedAt); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assets, nil
}
