package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"retailpulse/internal/errors"
	"retailpulse/pkg/contracts/domain"
)

// numericColumns are the column names whose cells get numeric coercion at
// decode time. Coercion failure keeps the original text and surfaces later as
// a validation error, never as a decode error.
var numericColumns = map[string]bool{
	"Quantity":     true,
	"Amount":       true,
	"Stock":        true,
	"Price":        true,
	"Rating":       true,
	"Customer_Age": true,
	"Min_Alert":    true,
}

// Decoder converts a raw tabular source into generic field rows.
// Decoding is tolerant: ragged rows and blank rows never fail it, only
// structurally unreadable input does.
type Decoder struct {
	logger *slog.Logger
}

// NewDecoder creates a new tabular decoder
func NewDecoder(logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{logger: logger}
}

// DecodeCSV reads comma-separated text with a header row and returns one Row
// per data row, in source order, plus any non-fatal parse warnings.
func (d *Decoder) DecodeCSV(r io.Reader) ([]domain.Row, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows
	reader.TrimLeadingSpace = true

	raw, err := reader.ReadAll()
	if err != nil {
		return nil, nil, errors.NewParsingError("failed to read CSV input", err)
	}

	return d.assemble(raw)
}

// DecodeXLSX reads the first sheet of an Excel workbook and decodes it the
// same way as CSV input.
func (d *Decoder) DecodeXLSX(r io.Reader) ([]domain.Row, []string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, errors.NewParsingError("failed to open Excel workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.NewParsingError("Excel workbook contains no sheets", nil)
	}

	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, errors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheets[0]), err)
	}

	return d.assemble(raw)
}

// assemble zips data rows against the header row positionally. Missing
// trailing cells map to absent fields; extra cells are ignored with a warning.
func (d *Decoder) assemble(raw [][]string) ([]domain.Row, []string, error) {
	if len(raw) == 0 {
		return []domain.Row{}, nil, nil
	}

	header := make([]string, len(raw[0]))
	for i, name := range raw[0] {
		header[i] = strings.TrimSpace(name)
	}

	var warnings []string
	rows := make([]domain.Row, 0, len(raw)-1)

	for i, cells := range raw[1:] {
		if isBlankRow(cells) {
			continue
		}

		if len(cells) != len(header) {
			warnings = append(warnings, fmt.Sprintf("row %d has %d cells, expected %d", i+1, len(cells), len(header)))
		}

		row := make(domain.Row, len(header))
		for j, name := range header {
			if name == "" || j >= len(cells) {
				continue
			}
			if numericColumns[name] {
				row[name] = domain.CoerceField(cells[j])
			} else {
				row[name] = domain.TextField(cells[j])
			}
		}
		rows = append(rows, row)
	}

	d.logger.Debug("decoded tabular source",
		slog.Int("columns", len(header)),
		slog.Int("rows", len(rows)),
		slog.Int("warnings", len(warnings)))

	return rows, warnings, nil
}

// isBlankRow reports whether every cell is empty after trimming
func isBlankRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
