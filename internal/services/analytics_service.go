package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"retailpulse/internal/config"
	"retailpulse/internal/dataprocessing"
	"retailpulse/internal/infrastructure"
	"retailpulse/pkg/contracts/domain"
)

// IngestResult describes the outcome of one dataset ingestion
type IngestResult struct {
	Kind       domain.DatasetKind      `json:"kind"`
	Rows       int                     `json:"rows"`
	Warnings   []string                `json:"warnings,omitempty"`
	Validation domain.ValidationResult `json:"validation"`
	Stored     bool                    `json:"stored"`
}

// DatasetStatus describes one dataset slot of the current bundle
type DatasetStatus struct {
	Kind       domain.DatasetKind `json:"kind"`
	Uploaded   bool               `json:"uploaded"`
	Rows       int                `json:"rows"`
	UploadedAt *time.Time         `json:"uploaded_at,omitempty"`
}

// AnalyticsService orchestrates the ingestion pipeline: decode, validate,
// typed conversion, and aggregation. Validated datasets are held in a
// process-local bundle until all three kinds are present; the engine
// components themselves stay stateless.
type AnalyticsService struct {
	logger     *slog.Logger
	decoder    *dataprocessing.Decoder
	validator  *dataprocessing.SchemaValidator
	summarizer *dataprocessing.Summarizer
	metrics    *infrastructure.IngestionMetrics

	mu        sync.RWMutex
	sales     []domain.SalesRecord
	inventory []domain.InventoryRecord
	reviews   []domain.ReviewRecord
	uploaded  map[domain.DatasetKind]time.Time
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(cfg config.AnalyticsConfig, logger *slog.Logger, metrics *infrastructure.IngestionMetrics) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}

	summarizerConfig := dataprocessing.SummarizerConfig{
		TopProductLimit: cfg.TopProductLimit,
		LowStockLimit:   cfg.LowStockLimit,
		DefaultMinAlert: cfg.DefaultMinAlert,
		Lexicon:         dataprocessing.DefaultLexicon(),
	}

	return &AnalyticsService{
		logger:     logger.With(slog.String("component", "analytics_service")),
		decoder:    dataprocessing.NewDecoder(logger),
		validator:  dataprocessing.NewSchemaValidator(logger),
		summarizer: dataprocessing.NewSummarizer(logger, summarizerConfig),
		metrics:    metrics,
		uploaded:   make(map[domain.DatasetKind]time.Time),
	}
}

// IngestDataset decodes and validates one tabular source. A dataset that
// passes validation replaces the stored slot for its kind; one that fails is
// reported in full and nothing is stored. Decode failures surface as errors.
func (s *AnalyticsService) IngestDataset(ctx context.Context, kind domain.DatasetKind, filename string, r io.Reader) (IngestResult, error) {
	if !kind.Valid() {
		return IngestResult{}, fmt.Errorf("%w: %s", ErrUnknownDatasetKind, kind)
	}

	start := time.Now()
	rows, warnings, err := s.decode(filename, r)
	if err != nil {
		return IngestResult{}, err
	}
	if s.metrics != nil {
		s.metrics.UploadsTotal.Add(ctx, 1)
		s.metrics.RowsDecoded.Add(ctx, int64(len(rows)))
		s.metrics.DecodeDuration.Record(ctx, time.Since(start).Seconds())
	}

	result := IngestResult{
		Kind:       kind,
		Rows:       len(rows),
		Warnings:   warnings,
		Validation: s.validator.Validate(rows, kind),
	}

	if !result.Validation.Valid {
		if s.metrics != nil {
			s.metrics.ValidationFailures.Add(ctx, 1)
		}
		s.logger.WarnContext(ctx, "dataset failed schema validation",
			slog.String("dataset", string(kind)),
			slog.Int("rows", result.Rows),
			slog.Int("errors", len(result.Validation.Errors)))
		return result, nil
	}

	s.store(kind, rows)
	result.Stored = true

	s.logger.InfoContext(ctx, "dataset ingested",
		slog.String("dataset", string(kind)),
		slog.String("filename", filename),
		slog.Int("rows", result.Rows),
		slog.Int("warnings", len(warnings)))

	return result, nil
}

// decode picks the decode path by file extension, defaulting to CSV
func (s *AnalyticsService) decode(filename string, r io.Reader) ([]domain.Row, []string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return s.decoder.DecodeXLSX(r)
	case ".csv", "":
		return s.decoder.DecodeCSV(r)
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// store replaces the slot for the given kind with typed records
func (s *AnalyticsService) store(kind domain.DatasetKind, rows []domain.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case domain.DatasetSales:
		s.sales = dataprocessing.SalesFromRows(rows)
	case domain.DatasetInventory:
		s.inventory = dataprocessing.InventoryFromRows(rows)
	case domain.DatasetReviews:
		s.reviews = dataprocessing.ReviewsFromRows(rows)
	}
	s.uploaded[kind] = time.Now()
}

// Status reports the three dataset slots of the current bundle
func (s *AnalyticsService) Status(ctx context.Context) []DatasetStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statuses := make([]DatasetStatus, 0, 3)
	for _, kind := range []domain.DatasetKind{domain.DatasetSales, domain.DatasetInventory, domain.DatasetReviews} {
		status := DatasetStatus{Kind: kind}
		if at, ok := s.uploaded[kind]; ok {
			status.Uploaded = true
			t := at
			status.UploadedAt = &t
			switch kind {
			case domain.DatasetSales:
				status.Rows = len(s.sales)
			case domain.DatasetInventory:
				status.Rows = len(s.inventory)
			case domain.DatasetReviews:
				status.Rows = len(s.reviews)
			}
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// Complete reports whether all three datasets have been ingested
func (s *AnalyticsService) Complete() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.uploaded) == 3
}

// Summary computes the business summary over the current bundle. The
// low-stock cap is caller supplied; values <= 0 use the configured default.
func (s *AnalyticsService) Summary(ctx context.Context, lowStockLimit int) (domain.BusinessSummary, error) {
	s.mu.RLock()
	sales, inventory, reviews := s.sales, s.inventory, s.reviews
	complete := len(s.uploaded) == 3
	s.mu.RUnlock()

	if !complete {
		return domain.BusinessSummary{}, ErrBundleIncomplete
	}

	summary := s.summarizer.SummarizeWithLowStockLimit(ctx, sales, inventory, reviews, lowStockLimit)
	if s.metrics != nil {
		s.metrics.SummariesGenerated.Add(ctx, 1)
	}
	return summary, nil
}

// Bundle returns the validated record sequences together with their summary,
// the hand-off shape consumed by the presentation layer.
func (s *AnalyticsService) Bundle(ctx context.Context, lowStockLimit int) (*domain.DatasetBundle, domain.BusinessSummary, error) {
	summary, err := s.Summary(ctx, lowStockLimit)
	if err != nil {
		return nil, domain.BusinessSummary{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	bundle := &domain.DatasetBundle{
		ID:        uuid.New().String(),
		Sales:     s.sales,
		Inventory: s.inventory,
		Reviews:   s.reviews,
		CreatedAt: time.Now(),
	}
	return bundle, summary, nil
}

// FileSummaryRequest names the three input files for a one-shot summary run
type FileSummaryRequest struct {
	SalesPath     string
	InventoryPath string
	ReviewsPath   string
	LowStockLimit int
}

// FileSummaryResult carries the validation outcomes and, when every dataset
// passed, the derived summary
type FileSummaryResult struct {
	Validations map[domain.DatasetKind]domain.ValidationResult `json:"validations"`
	Summary     domain.BusinessSummary                         `json:"summary"`
	Valid       bool                                           `json:"valid"`
}

// SummarizeFiles runs the full pipeline over three local files. The three
// decode+validate pipelines are independent until aggregation, so they run
// concurrently; a decode failure on any file fails the whole call.
func (s *AnalyticsService) SummarizeFiles(ctx context.Context, req FileSummaryRequest) (FileSummaryResult, error) {
	type decoded struct {
		kind   domain.DatasetKind
		rows   []domain.Row
		result domain.ValidationResult
	}

	inputs := []struct {
		kind domain.DatasetKind
		path string
	}{
		{domain.DatasetSales, req.SalesPath},
		{domain.DatasetInventory, req.InventoryPath},
		{domain.DatasetReviews, req.ReviewsPath},
	}

	results := make([]decoded, len(inputs))
	g, gctx := errgroup.WithContext(ctx)

	for i, input := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			file, err := os.Open(input.path)
			if err != nil {
				return fmt.Errorf("open %s dataset: %w", input.kind, err)
			}
			defer file.Close()

			rows, _, err := s.decode(input.path, file)
			if err != nil {
				return fmt.Errorf("decode %s dataset: %w", input.kind, err)
			}

			results[i] = decoded{
				kind:   input.kind,
				rows:   rows,
				result: s.validator.Validate(rows, input.kind),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return FileSummaryResult{}, err
	}

	out := FileSummaryResult{
		Validations: make(map[domain.DatasetKind]domain.ValidationResult, len(results)),
		Valid:       true,
	}

	var rowsByKind [3][]domain.Row
	for i, res := range results {
		out.Validations[res.kind] = res.result
		if !res.result.Valid {
			out.Valid = false
		}
		rowsByKind[i] = res.rows
	}

	if !out.Valid {
		return out, nil
	}

	out.Summary = s.summarizer.SummarizeWithLowStockLimit(ctx,
		dataprocessing.SalesFromRows(rowsByKind[0]),
		dataprocessing.InventoryFromRows(rowsByKind[1]),
		dataprocessing.ReviewsFromRows(rowsByKind[2]),
		req.LowStockLimit)

	return out, nil
}

// Summarizer exposes the underlying engine, used by the CLI output writers
func (s *AnalyticsService) Summarizer() *dataprocessing.Summarizer {
	return s.summarizer
}
