package domain

import "time"

// BatchStatus is the terminal or in-flight state of a generation batch.
type BatchStatus string

const (
	BatchRunning   BatchStatus = "RUNNING"
	BatchSucceeded BatchStatus = "SUCCEEDED"
	// BatchPartial marks a batch where some, but not all, items failed. A
	// partially successful batch is an accepted terminal state.
	BatchPartial BatchStatus = "PARTIAL"
	BatchFailed  BatchStatus = "FAILED"
)

// Progress is the incremental indicator reported after each batch unit.
type Progress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

// Batch is a recorded generation run and its progress.
type Batch struct {
	ID        string      `json:"id"`
	Status    BatchStatus `json:"status"`
	Progress  Progress    `json:"progress"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// BatchAsset is one stored generation result belonging to a batch. Position
// preserves work-list order.
type BatchAsset struct {
	ID         string    `json:"id"`
	BatchID    string    `json:"batch_id"`
	Name       string    `json:"name"`
	StorageKey string    `json:"storage_key"`
	MIMEType   string    `json:"mime"`
	Bytes      int64     `json:"bytes"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
}
