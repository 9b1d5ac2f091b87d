package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"retailpulse/internal/config"
	"retailpulse/internal/exporter"
	"retailpulse/internal/files"
	"retailpulse/internal/infrastructure"
	"retailpulse/internal/services"
	"retailpulse/internal/validation"
	"retailpulse/pkg/contracts"
	"retailpulse/pkg/contracts/domain"
)

func main() {
	dataDir := flag.String("dir", "", "directory to discover sales/inventory/reviews files in")
	salesPath := flag.String("sales", "", "path to the sales CSV/XLSX file")
	inventoryPath := flag.String("inventory", "", "path to the inventory CSV/XLSX file")
	reviewsPath := flag.String("reviews", "", "path to the reviews CSV/XLSX file")
	outPath := flag.String("out", "", "output file path (defaults to stdout for json)")
	format := flag.String("format", "json", "output format: json, csv or xlsx")
	lowStockLimit := flag.Int("low-stock-limit", 0, "cap for low-stock items (0 = configured default)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetVersionString())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	ctx := infrastructure.EnsureTraceID(context.Background())

	if *dataDir != "" {
		found, err := files.NewDiscovery(*dataDir, logger).FindAll()
		if err != nil {
			logger.ErrorContext(ctx, "dataset discovery failed", "error", err)
			os.Exit(1)
		}
		*salesPath = found[domain.DatasetSales].Path
		*inventoryPath = found[domain.DatasetInventory].Path
		*reviewsPath = found[domain.DatasetReviews].Path
	}

	if *salesPath == "" || *inventoryPath == "" || *reviewsPath == "" {
		fmt.Fprintln(os.Stderr, "usage: summarize -dir <dir> | -sales <file> -inventory <file> -reviews <file> [-out <file>] [-format json|csv|xlsx]")
		os.Exit(2)
	}

	inputValidator := validation.NewInputValidator(logger)
	for _, path := range []string{*salesPath, *inventoryPath, *reviewsPath} {
		if err := inputValidator.ValidateDatasetFile(path); err != nil {
			logger.ErrorContext(ctx, "input file rejected", "error", err)
			os.Exit(1)
		}
	}
	if *outPath != "" {
		if err := inputValidator.ValidateOutputDirectory(filepath.Dir(*outPath)); err != nil {
			logger.ErrorContext(ctx, "output location rejected", "error", err)
			os.Exit(1)
		}
	}

	service := services.NewAnalyticsService(cfg.Analytics, logger, nil)

	result, err := service.SummarizeFiles(ctx, services.FileSummaryRequest{
		SalesPath:     *salesPath,
		InventoryPath: *inventoryPath,
		ReviewsPath:   *reviewsPath,
		LowStockLimit: *lowStockLimit,
	})
	if err != nil {
		logger.ErrorContext(ctx, "pipeline failed", "error", err)
		os.Exit(1)
	}

	if !result.Valid {
		reportValidationFailures(logger, result.Validations)
		os.Exit(1)
	}

	if err := writeSummary(ctx, logger, service, result.Summary, *outPath, *format); err != nil {
		logger.ErrorContext(ctx, "failed to write summary", "error", err)
		os.Exit(1)
	}
}

// reportValidationFailures prints every schema error for every dataset, so a
// single run shows everything wrong with the inputs
func reportValidationFailures(logger *slog.Logger, validations map[domain.DatasetKind]domain.ValidationResult) {
	for _, kind := range []domain.DatasetKind{domain.DatasetSales, domain.DatasetInventory, domain.DatasetReviews} {
		result, ok := validations[kind]
		if !ok || result.Valid {
			continue
		}
		for _, message := range result.Errors {
			fmt.Fprintf(os.Stderr, "%s: %s\n", kind, message)
		}
		logger.Error("dataset failed schema validation",
			"dataset", string(kind),
			"errors", len(result.Errors))
	}
}

// writeSummary emits the summary in the requested format
func writeSummary(ctx context.Context, logger *slog.Logger, service *services.AnalyticsService, summary domain.BusinessSummary, outPath, format string) error {
	switch strings.ToLower(format) {
	case "json":
		if outPath == "" {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(summary)
		}
		return service.Summarizer().WriteJSON(ctx, outPath, summary)
	case "csv":
		if outPath == "" {
			outPath = "summary.csv"
		}
		return service.Summarizer().WriteCSV(ctx, outPath, summary)
	case "xlsx":
		if outPath == "" {
			outPath = "summary.xlsx"
		}
		return exporter.NewReportExporter(logger).WriteXLSX(ctx, outPath, summary)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
