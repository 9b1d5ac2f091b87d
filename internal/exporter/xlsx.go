// Package exporter writes business summaries as Excel workbooks for
// spreadsheet consumers. JSON and flat CSV exports live with the summarizer;
// this package covers the multi-sheet report shape.
package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"retailpulse/internal/errors"
	"retailpulse/pkg/contracts/domain"
)

const (
	sheetOverview    = "Overview"
	sheetTopProducts = "Top Products"
	sheetLowStock    = "Low Stock"
)

// ReportExporter writes summary workbooks
type ReportExporter struct {
	logger *slog.Logger
}

// NewReportExporter creates a new report exporter
func NewReportExporter(logger *slog.Logger) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportExporter{
		logger: logger.With(slog.String("component", "report_exporter")),
	}
}

// WriteXLSX writes the summary as a three sheet workbook: an overview of the
// scalar metrics plus one sheet per ranking.
func (e *ReportExporter) WriteXLSX(ctx context.Context, path string, summary domain.BusinessSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetOverview)
	if err != nil {
		return errors.NewStorageError("failed to create overview sheet", err)
	}
	f.SetActiveSheet(index)
	// excelize seeds every workbook with Sheet1
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errors.NewStorageError("failed to remove default sheet", err)
	}

	if err := e.writeOverview(f, summary); err != nil {
		return err
	}
	if err := e.writeTopProducts(f, summary.TopProducts); err != nil {
		return err
	}
	if err := e.writeLowStock(f, summary.LowStockItems); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return errors.NewStorageError(
			fmt.Sprintf("failed to write workbook %s", filepath.Base(path)), err)
	}

	e.logger.InfoContext(ctx, "summary workbook written",
		slog.String("path", path),
		slog.Int("top_products", len(summary.TopProducts)),
		slog.Int("low_stock_items", len(summary.LowStockItems)))
	return nil
}

func (e *ReportExporter) writeOverview(f *excelize.File, summary domain.BusinessSummary) error {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Revenue", summary.TotalRevenue},
		{"Total Orders", summary.TotalOrders},
		{"Average Order Value", summary.AverageOrderValue},
		{"Average Rating", summary.AverageRating},
		{"Sentiment Score", summary.SentimentScore},
	}
	return e.writeRows(f, sheetOverview, rows)
}

func (e *ReportExporter) writeTopProducts(f *excelize.File, ranking []domain.ProductRevenue) error {
	if _, err := f.NewSheet(sheetTopProducts); err != nil {
		return errors.NewStorageError("failed to create top products sheet", err)
	}
	rows := [][]interface{}{{"Rank", "Product", "Revenue"}}
	for i, entry := range ranking {
		rows = append(rows, []interface{}{i + 1, entry.Product, entry.Revenue})
	}
	return e.writeRows(f, sheetTopProducts, rows)
}

func (e *ReportExporter) writeLowStock(f *excelize.File, alerts []domain.StockAlert) error {
	if _, err := f.NewSheet(sheetLowStock); err != nil {
		return errors.NewStorageError("failed to create low stock sheet", err)
	}
	rows := [][]interface{}{{"Product", "Stock"}}
	for _, alert := range alerts {
		rows = append(rows, []interface{}{alert.Product, alert.Stock})
	}
	return e.writeRows(f, sheetLowStock, rows)
}

func (e *ReportExporter) writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.NewStorageError("failed to compute cell coordinates", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.NewStorageError(
				fmt.Sprintf("failed to write row %d of sheet %s", i+1, sheet), err)
		}
	}
	return nil
}
