package http

import (
	"context"
	"io"

	"retailpulse/internal/services"
	"retailpulse/pkg/contracts/domain"
)

// AnalyticsServiceInterface defines the contract the dataset handler needs
// from the service layer
type AnalyticsServiceInterface interface {
	IngestDataset(ctx context.Context, kind domain.DatasetKind, filename string, r io.Reader) (services.IngestResult, error)
	Status(ctx context.Context) []services.DatasetStatus
	Summary(ctx context.Context, lowStockLimit int) (domain.BusinessSummary, error)
	Bundle(ctx context.Context, lowStockLimit int) (*domain.DatasetBundle, domain.BusinessSummary, error)
}
