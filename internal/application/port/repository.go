package port

import (
	"context"

	"volrank/internal/domain"
)

// ScanRepository publishes the outcome of a run to a store.
type ScanRepository interface {
	SaveScan(ctx context.Context, scan *domain.ScanResult) error
	Close() error
}
