package services

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpulse/internal/config"
	"retailpulse/internal/shared/testutil"
	"retailpulse/pkg/contracts/domain"
)

func newTestService(t *testing.T) (*AnalyticsService, *testutil.BufferedSlogHandler) {
	t.Helper()
	logger, handler := testutil.NewTestLogger(t)
	cfg := config.AnalyticsConfig{
		TopProductLimit: 5,
		LowStockLimit:   5,
		DefaultMinAlert: 5,
	}
	return NewAnalyticsService(cfg, logger, nil), handler
}

func ingestAll(t *testing.T, service *AnalyticsService) {
	t.Helper()
	ctx := context.Background()
	for kind, content := range map[domain.DatasetKind]string{
		domain.DatasetSales:     testutil.SalesCSV,
		domain.DatasetInventory: testutil.InventoryCSV,
		domain.DatasetReviews:   testutil.ReviewsCSV,
	} {
		result, err := service.IngestDataset(ctx, kind, string(kind)+".csv", strings.NewReader(content))
		require.NoError(t, err)
		require.True(t, result.Stored, "dataset %s should be stored", kind)
	}
}

func TestIngestDataset_ValidCSV(t *testing.T) {
	service, _ := newTestService(t)

	result, err := service.IngestDataset(context.Background(), domain.DatasetSales,
		"sales.csv", strings.NewReader(testutil.SalesCSV))

	require.NoError(t, err)
	assert.Equal(t, domain.DatasetSales, result.Kind)
	assert.Equal(t, 3, result.Rows)
	assert.True(t, result.Validation.Valid)
	assert.True(t, result.Stored)
}

func TestIngestDataset_UnknownKind(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.IngestDataset(context.Background(), domain.DatasetKind("orders"),
		"orders.csv", strings.NewReader(testutil.SalesCSV))

	assert.ErrorIs(t, err, ErrUnknownDatasetKind)
}

func TestIngestDataset_UnsupportedFormat(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.IngestDataset(context.Background(), domain.DatasetSales,
		"sales.pdf", strings.NewReader(testutil.SalesCSV))

	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestIngestDataset_ValidationFailureNotStored(t *testing.T) {
	service, handler := newTestService(t)

	result, err := service.IngestDataset(context.Background(), domain.DatasetSales,
		"sales.csv", strings.NewReader(testutil.SalesMissingAmountCSV))

	require.NoError(t, err)
	assert.False(t, result.Stored)
	assert.False(t, result.Validation.Valid)
	assert.Contains(t, result.Validation.Errors, "Missing required field: Amount")
	assert.True(t, handler.HasMessage("dataset failed schema validation"))

	// nothing reaches the bundle
	for _, status := range service.Status(context.Background()) {
		assert.False(t, status.Uploaded)
	}
}

func TestIngestDataset_ReplacesExistingSlot(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	first, err := service.IngestDataset(ctx, domain.DatasetSales,
		"sales.csv", strings.NewReader(testutil.SalesCSV))
	require.NoError(t, err)
	assert.Equal(t, 3, first.Rows)

	shorter := "Date,Product,Quantity,Amount\n2024-02-01,Lehenga,1,900\n"
	second, err := service.IngestDataset(ctx, domain.DatasetSales,
		"sales_v2.csv", strings.NewReader(shorter))
	require.NoError(t, err)
	assert.Equal(t, 1, second.Rows)

	for _, status := range service.Status(ctx) {
		if status.Kind == domain.DatasetSales {
			assert.Equal(t, 1, status.Rows)
		}
	}
}

func TestStatus_TracksSlots(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	statuses := service.Status(ctx)
	require.Len(t, statuses, 3)
	for _, status := range statuses {
		assert.False(t, status.Uploaded)
		assert.Nil(t, status.UploadedAt)
	}

	_, err := service.IngestDataset(ctx, domain.DatasetInventory,
		"inventory.csv", strings.NewReader(testutil.InventoryCSV))
	require.NoError(t, err)

	assert.False(t, service.Complete())
	for _, status := range service.Status(ctx) {
		if status.Kind == domain.DatasetInventory {
			assert.True(t, status.Uploaded)
			assert.Equal(t, 2, status.Rows)
			assert.NotNil(t, status.UploadedAt)
		} else {
			assert.False(t, status.Uploaded)
		}
	}
}

func TestSummary_IncompleteBundle(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Summary(context.Background(), 0)
	assert.ErrorIs(t, err, ErrBundleIncomplete)
}

func TestSummary_CompleteBundle(t *testing.T) {
	service, _ := newTestService(t)
	ingestAll(t, service)
	require.True(t, service.Complete())

	summary, err := service.Summary(context.Background(), 0)
	require.NoError(t, err)

	assert.InDelta(t, 450.0, summary.TotalRevenue, 0.001)
	assert.Equal(t, 3, summary.TotalOrders)
	assert.InDelta(t, 150.0, summary.AverageOrderValue, 0.001)

	require.Len(t, summary.TopProducts, 2)
	assert.Equal(t, "Saree", summary.TopProducts[0].Product)
	assert.InDelta(t, 300.0, summary.TopProducts[0].Revenue, 0.001)
	assert.Equal(t, "Kurta", summary.TopProducts[1].Product)

	require.Len(t, summary.LowStockItems, 1)
	assert.Equal(t, "Saree", summary.LowStockItems[0].Product)
	assert.Equal(t, 2, summary.LowStockItems[0].Stock)

	assert.InDelta(t, 4.0, summary.AverageRating, 0.001)
	assert.InDelta(t, 0.0, summary.SentimentScore, 0.001)
}

func TestBundle_CarriesRecordsAndSummary(t *testing.T) {
	service, _ := newTestService(t)
	ingestAll(t, service)

	bundle, summary, err := service.Bundle(context.Background(), 0)
	require.NoError(t, err)
	require.NotNil(t, bundle)

	assert.NotEmpty(t, bundle.ID)
	assert.Len(t, bundle.Sales, 3)
	assert.Len(t, bundle.Inventory, 2)
	assert.Len(t, bundle.Reviews, 2)
	assert.False(t, bundle.CreatedAt.IsZero())
	assert.InDelta(t, 450.0, summary.TotalRevenue, 0.001)
}

func TestBundle_IncompleteFails(t *testing.T) {
	service, _ := newTestService(t)

	_, _, err := service.Bundle(context.Background(), 0)
	assert.ErrorIs(t, err, ErrBundleIncomplete)
}

func TestSummarizeFiles(t *testing.T) {
	t.Run("valid inputs produce a summary", func(t *testing.T) {
		service, _ := newTestService(t)
		sales, inventory, reviews := testutil.WriteDatasetFixtures(t, t.TempDir())

		result, err := service.SummarizeFiles(context.Background(), FileSummaryRequest{
			SalesPath:     sales,
			InventoryPath: inventory,
			ReviewsPath:   reviews,
		})

		require.NoError(t, err)
		assert.True(t, result.Valid)
		require.Len(t, result.Validations, 3)
		for kind, validation := range result.Validations {
			assert.True(t, validation.Valid, "dataset %s", kind)
		}
		assert.InDelta(t, 450.0, result.Summary.TotalRevenue, 0.001)
		assert.Equal(t, 3, result.Summary.TotalOrders)
	})

	t.Run("invalid dataset reports all errors and skips aggregation", func(t *testing.T) {
		service, _ := newTestService(t)
		dir := t.TempDir()
		sales := testutil.WriteTempFile(t, dir, "sales.csv", testutil.SalesBadNumericCSV)
		inventory := testutil.WriteTempFile(t, dir, "inventory.csv", testutil.InventoryCSV)
		reviews := testutil.WriteTempFile(t, dir, "reviews.csv", testutil.ReviewsCSV)

		result, err := service.SummarizeFiles(context.Background(), FileSummaryRequest{
			SalesPath:     sales,
			InventoryPath: inventory,
			ReviewsPath:   reviews,
		})

		require.NoError(t, err)
		assert.False(t, result.Valid)
		salesResult := result.Validations[domain.DatasetSales]
		assert.False(t, salesResult.Valid)
		assert.Contains(t, salesResult.Errors, "Row 1: Quantity must be a number")
		assert.Zero(t, result.Summary.TotalOrders)
	})

	t.Run("missing file fails the whole call", func(t *testing.T) {
		service, _ := newTestService(t)
		dir := t.TempDir()
		_, inventory, reviews := testutil.WriteDatasetFixtures(t, dir)

		_, err := service.SummarizeFiles(context.Background(), FileSummaryRequest{
			SalesPath:     filepath.Join(dir, "absent.csv"),
			InventoryPath: inventory,
			ReviewsPath:   reviews,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "open sales dataset")
	})

	t.Run("low stock limit is honored", func(t *testing.T) {
		service, _ := newTestService(t)
		dir := t.TempDir()
		sales := testutil.WriteTempFile(t, dir, "sales.csv", testutil.SalesCSV)
		inventory := testutil.WriteTempFile(t, dir, "inventory.csv",
			"Product,Stock,Price\nA,1,10\nB,2,10\nC,3,10\n")
		reviews := testutil.WriteTempFile(t, dir, "reviews.csv", testutil.ReviewsCSV)

		result, err := service.SummarizeFiles(context.Background(), FileSummaryRequest{
			SalesPath:     sales,
			InventoryPath: inventory,
			ReviewsPath:   reviews,
			LowStockLimit: 2,
		})

		require.NoError(t, err)
		require.Len(t, result.Summary.LowStockItems, 2)
		assert.Equal(t, "A", result.Summary.LowStockItems[0].Product)
		assert.Equal(t, "B", result.Summary.LowStockItems[1].Product)
	})
}
