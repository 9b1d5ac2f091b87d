package dataprocessing

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"retailpulse/internal/errors"
	"retailpulse/pkg/contracts/domain"
)

// Summarizer derives the BusinessSummary from the three validated record
// sequences. It is a pure, total function of its inputs: empty inputs produce
// zeroed fields, never errors, and no state survives across calls.
type Summarizer struct {
	logger          *slog.Logger
	topProductLimit int
	lowStockLimit   int
	defaultMinAlert int
	scorer          *SentimentScorer
}

// SummarizerConfig holds configuration options for the Summarizer.
type SummarizerConfig struct {
	TopProductLimit int // Maximum top-products entries, default 5
	LowStockLimit   int // Default cap for the low-stock ranking, overridable per call
	DefaultMinAlert int     // Threshold applied when a record carries no Min_Alert
	Lexicon         Lexicon // Sentiment lexicon; zero value means DefaultLexicon
}

// DefaultSummarizerConfig returns a default configuration for typical use cases.
func DefaultSummarizerConfig() SummarizerConfig {
	return SummarizerConfig{
		TopProductLimit: 5,
		LowStockLimit:   5,
		DefaultMinAlert: 5,
		Lexicon:         DefaultLexicon(),
	}
}

// NewSummarizer creates a new business summarizer with the given configuration.
func NewSummarizer(logger *slog.Logger, config SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}

	if config.TopProductLimit <= 0 {
		config.TopProductLimit = 5
	}
	if config.LowStockLimit <= 0 {
		config.LowStockLimit = 5
	}
	if config.DefaultMinAlert <= 0 {
		config.DefaultMinAlert = 5
	}
	if len(config.Lexicon.Positive) == 0 && len(config.Lexicon.Negative) == 0 {
		config.Lexicon = DefaultLexicon()
	}

	return &Summarizer{
		logger:          logger,
		topProductLimit: config.TopProductLimit,
		lowStockLimit:   config.LowStockLimit,
		defaultMinAlert: config.DefaultMinAlert,
		scorer:          NewSentimentScorer(config.Lexicon),
	}
}

// Summarize computes the business summary from the three record sequences
// using the configured low-stock cap.
func (s *Summarizer) Summarize(ctx context.Context, sales []domain.SalesRecord, inventory []domain.InventoryRecord, reviews []domain.ReviewRecord) domain.BusinessSummary {
	return s.SummarizeWithLowStockLimit(ctx, sales, inventory, reviews, s.lowStockLimit)
}

// SummarizeWithLowStockLimit computes the business summary with a caller
// supplied low-stock cap; values <= 0 fall back to the configured default.
func (s *Summarizer) SummarizeWithLowStockLimit(ctx context.Context, sales []domain.SalesRecord, inventory []domain.InventoryRecord, reviews []domain.ReviewRecord, lowStockLimit int) domain.BusinessSummary {
	if lowStockLimit <= 0 {
		lowStockLimit = s.lowStockLimit
	}

	summary := domain.BusinessSummary{
		TotalOrders: len(sales),
	}

	for _, record := range sales {
		summary.TotalRevenue += record.Amount
	}
	if summary.TotalOrders > 0 {
		summary.AverageOrderValue = summary.TotalRevenue / float64(summary.TotalOrders)
	}

	summary.TopProducts = s.topProducts(sales)
	summary.LowStockItems = s.lowStockItems(inventory, lowStockLimit)
	summary.AverageRating = averageRating(reviews)
	summary.SentimentScore = s.scorer.Score(reviews)

	s.logger.InfoContext(ctx, "business summary generated",
		slog.Int("orders", summary.TotalOrders),
		slog.Float64("total_revenue", summary.TotalRevenue),
		slog.Int("top_products", len(summary.TopProducts)),
		slog.Int("low_stock_items", len(summary.LowStockItems)),
		slog.Float64("sentiment_score", summary.SentimentScore))

	return summary
}

// topProducts groups sales by product, sums revenue per group, and returns
// the highest earners. Ties keep first-seen order (the sort is stable over
// insertion order).
func (s *Summarizer) topProducts(sales []domain.SalesRecord) []domain.ProductRevenue {
	revenueByProduct := make(map[string]float64)
	order := make([]string, 0)

	for _, record := range sales {
		if record.Product == "" {
			continue
		}
		if _, seen := revenueByProduct[record.Product]; !seen {
			order = append(order, record.Product)
		}
		revenueByProduct[record.Product] += record.Amount
	}

	ranked := make([]domain.ProductRevenue, 0, len(order))
	for _, product := range order {
		ranked = append(ranked, domain.ProductRevenue{Product: product, Revenue: revenueByProduct[product]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Revenue > ranked[j].Revenue
	})

	if len(ranked) > s.topProductLimit {
		ranked = ranked[:s.topProductLimit]
	}
	return ranked
}

// lowStockItems filters records below their effective threshold (per-record
// Min_Alert when present, configured default otherwise) sorted ascending by
// stock.
func (s *Summarizer) lowStockItems(inventory []domain.InventoryRecord, limit int) []domain.StockAlert {
	alerts := make([]domain.StockAlert, 0)

	for _, record := range inventory {
		threshold := s.defaultMinAlert
		if record.HasMinAlert {
			threshold = record.MinAlert
		}
		if record.Stock < threshold {
			alerts = append(alerts, domain.StockAlert{Product: record.Product, Stock: record.Stock})
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Stock < alerts[j].Stock
	})

	if len(alerts) > limit {
		alerts = alerts[:limit]
	}
	return alerts
}

// averageRating is the mean review rating, 0 when there are no reviews
func averageRating(reviews []domain.ReviewRecord) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var total float64
	for _, review := range reviews {
		total += float64(review.Rating)
	}
	return total / float64(len(reviews))
}

// WriteJSON writes a business summary to a JSON file with metadata.
func (s *Summarizer) WriteJSON(ctx context.Context, path string, summary domain.BusinessSummary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create directory for JSON output", err)
	}

	jsonData := map[string]interface{}{
		"summary":      summary,
		"generated_at": time.Now().Format(time.RFC3339),
		"format":       "business_summary_v1",
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create JSON file for business summary", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(jsonData); err != nil {
		return errors.NewStorageError("failed to encode business summary to JSON", err)
	}

	s.logger.InfoContext(ctx, "wrote business summary to JSON", slog.String("path", path))
	return nil
}

// WriteCSV writes a business summary to a CSV file using a fixed column
// layout, with the two rankings flattened to pipe-separated pairs.
func (s *Summarizer) WriteCSV(ctx context.Context, path string, summary domain.BusinessSummary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create directory for CSV output", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create CSV file for business summary", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"TotalRevenue", "TotalOrders", "AverageOrderValue", "TopProducts", "LowStockItems", "AverageRating", "SentimentScore"}
	if err := writer.Write(header); err != nil {
		return errors.NewStorageError("failed to write CSV header row", err)
	}

	row := []string{
		fmt.Sprintf("%.2f", summary.TotalRevenue),
		fmt.Sprintf("%d", summary.TotalOrders),
		fmt.Sprintf("%.2f", summary.AverageOrderValue),
		formatProductRevenues(summary.TopProducts),
		formatStockAlerts(summary.LowStockItems),
		fmt.Sprintf("%.2f", summary.AverageRating),
		fmt.Sprintf("%.3f", summary.SentimentScore),
	}
	if err := writer.Write(row); err != nil {
		return errors.NewStorageError("failed to write CSV data row", err)
	}

	s.logger.InfoContext(ctx, "wrote business summary to CSV", slog.String("path", path))
	return nil
}

func formatProductRevenues(products []domain.ProductRevenue) string {
	parts := make([]string, len(products))
	for i, p := range products {
		parts[i] = fmt.Sprintf("%s=%.2f", p.Product, p.Revenue)
	}
	return strings.Join(parts, "|")
}

func formatStockAlerts(alerts []domain.StockAlert) string {
	parts := make([]string, len(alerts))
	for i, a := range alerts {
		parts[i] = fmt.Sprintf("%s=%d", a.Product, a.Stock)
	}
	return strings.Join(parts, "|")
}
