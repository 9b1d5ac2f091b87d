package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpulse/internal/shared/testutil"
	"retailpulse/pkg/contracts/domain"
)

func TestHealthCheck(t *testing.T) {
	analytics, _ := newTestService(t)
	service := NewHealthService(analytics)

	status := service.Check(context.Background())

	assert.Equal(t, "healthy", status.Status)
	assert.NotEmpty(t, status.Version.Version)
	assert.NotEmpty(t, status.Version.GoVersion)
	assert.False(t, status.Timestamp.IsZero())
	require.Len(t, status.Datasets, 3)
	for _, slot := range status.Datasets {
		assert.False(t, slot.Uploaded)
	}
}

func TestHealthCheck_ReflectsUploads(t *testing.T) {
	analytics, _ := newTestService(t)
	_, err := analytics.IngestDataset(context.Background(), domain.DatasetSales,
		"sales.csv", strings.NewReader(testutil.SalesCSV))
	require.NoError(t, err)

	status := NewHealthService(analytics).Check(context.Background())

	uploaded := 0
	for _, slot := range status.Datasets {
		if slot.Uploaded {
			uploaded++
			assert.Equal(t, domain.DatasetSales, slot.Kind)
		}
	}
	assert.Equal(t, 1, uploaded)
}

func TestDatasetKinds(t *testing.T) {
	service := NewHealthService(nil)
	assert.Equal(t, []domain.DatasetKind{
		domain.DatasetSales, domain.DatasetInventory, domain.DatasetReviews,
	}, service.DatasetKinds())
}
