package dataprocessing

import (
	"fmt"
	"log/slog"

	"retailpulse/pkg/contracts/domain"
)

// numericSanityRows is how many leading rows get the numeric sanity check
const numericSanityRows = 5

// SchemaValidator checks a decoded row set against a dataset-specific
// required-field contract. The result is advisory data, never a raised error;
// callers decide whether to reject the dataset.
type SchemaValidator struct {
	logger *slog.Logger
}

// NewSchemaValidator creates a new schema validator
func NewSchemaValidator(logger *slog.Logger) *SchemaValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &SchemaValidator{logger: logger}
}

// Validate inspects the row set for the given dataset kind. An empty row set
// is terminal; otherwise the required-field check runs against the first row
// only (structural, not per-row), followed by the sales numeric sanity pass.
// Errors are collected in full, never short-circuited.
func (v *SchemaValidator) Validate(rows []domain.Row, kind domain.DatasetKind) domain.ValidationResult {
	var errs []string

	if len(rows) == 0 {
		errs = append(errs, "No data found in the file")
		return domain.ValidationResult{Valid: false, Errors: errs}
	}

	first := rows[0]
	for _, name := range kind.RequiredFields() {
		if !first.Has(name) {
			errs = append(errs, fmt.Sprintf("Missing required field: %s", name))
		}
	}

	if kind == domain.DatasetSales {
		errs = append(errs, v.salesNumericSanity(rows)...)
	}

	result := domain.ValidationResult{Valid: len(errs) == 0, Errors: errs}

	v.logger.Debug("schema validation complete",
		slog.String("dataset", string(kind)),
		slog.Int("rows", len(rows)),
		slog.Bool("valid", result.Valid),
		slog.Int("errors", len(errs)))

	return result
}

// salesNumericSanity flags non-numeric Quantity or Amount cells in the first
// few rows, with 1-based row indices in the messages.
func (v *SchemaValidator) salesNumericSanity(rows []domain.Row) []string {
	var errs []string
	limit := numericSanityRows
	if len(rows) < limit {
		limit = len(rows)
	}

	for i := 0; i < limit; i++ {
		for _, name := range []string{"Quantity", "Amount"} {
			if f, ok := rows[i][name]; ok && !f.Numeric {
				errs = append(errs, fmt.Sprintf("Row %d: %s must be a number", i+1, name))
			}
		}
	}
	return errs
}
