package dataprocessing

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpulse/pkg/contracts/domain"
)

func decodeRows(t *testing.T, input string) []domain.Row {
	t.Helper()
	rows, _, err := NewDecoder(slog.Default()).DecodeCSV(strings.NewReader(input))
	require.NoError(t, err)
	return rows
}

func TestSchemaValidator_EmptyRows(t *testing.T) {
	validator := NewSchemaValidator(slog.Default())

	for _, kind := range []domain.DatasetKind{domain.DatasetSales, domain.DatasetInventory, domain.DatasetReviews} {
		t.Run(string(kind), func(t *testing.T) {
			result := validator.Validate(nil, kind)
			assert.False(t, result.Valid)
			require.Len(t, result.Errors, 1)
			assert.Equal(t, "No data found in the file", result.Errors[0])
		})
	}
}

func TestSchemaValidator_RequiredFields(t *testing.T) {
	validator := NewSchemaValidator(slog.Default())

	tests := []struct {
		name     string
		input    string
		kind     domain.DatasetKind
		valid    bool
		wantErrs []string
	}{
		{
			name:  "valid sales dataset",
			input: "Date,Product,Quantity,Amount\n2024-08-01,Kurta,2,1000\n",
			kind:  domain.DatasetSales,
			valid: true,
		},
		{
			name:  "sales missing amount column",
			input: "Date,Product,Quantity\n2024-08-01,Kurta,2\n",
			kind:  domain.DatasetSales,
			valid: false,
			wantErrs: []string{
				"Missing required field: Amount",
			},
		},
		{
			name:  "sales missing several columns keeps contract order",
			input: "Product\nKurta\n",
			kind:  domain.DatasetSales,
			valid: false,
			wantErrs: []string{
				"Missing required field: Date",
				"Missing required field: Quantity",
				"Missing required field: Amount",
			},
		},
		{
			name:  "valid inventory dataset",
			input: "Product,Stock,Price\nKurta,12,499\n",
			kind:  domain.DatasetInventory,
			valid: true,
		},
		{
			name:  "inventory missing stock and price",
			input: "Product,Supplier\nKurta,Acme\n",
			kind:  domain.DatasetInventory,
			valid: false,
			wantErrs: []string{
				"Missing required field: Stock",
				"Missing required field: Price",
			},
		},
		{
			name:  "valid reviews dataset",
			input: "Date,Rating,Review,Product\n2024-08-01,5,Great quality,Kurta\n",
			kind:  domain.DatasetReviews,
			valid: true,
		},
		{
			name:  "reviews missing review column",
			input: "Date,Rating,Product\n2024-08-01,5,Kurta\n",
			kind:  domain.DatasetReviews,
			valid: false,
			wantErrs: []string{
				"Missing required field: Review",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validator.Validate(decodeRows(t, tt.input), tt.kind)
			assert.Equal(t, tt.valid, result.Valid)
			assert.Equal(t, tt.wantErrs, result.Errors)
		})
	}
}

func TestSchemaValidator_SalesNumericSanity(t *testing.T) {
	validator := NewSchemaValidator(slog.Default())

	t.Run("non-numeric cells in early rows are flagged with 1-based index", func(t *testing.T) {
		input := "Date,Product,Quantity,Amount\n" +
			"2024-08-01,Kurta,two,1000\n" +
			"2024-08-02,Saree,1,free\n"
		result := validator.Validate(decodeRows(t, input), domain.DatasetSales)

		assert.False(t, result.Valid)
		assert.Equal(t, []string{
			"Row 1: Quantity must be a number",
			"Row 2: Amount must be a number",
		}, result.Errors)
	})

	t.Run("rows past the sanity window are not flagged", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("Date,Product,Quantity,Amount\n")
		for i := 0; i < 5; i++ {
			b.WriteString("2024-08-01,Kurta,1,100\n")
		}
		b.WriteString("2024-08-06,Kurta,bad,bad\n")

		result := validator.Validate(decodeRows(t, b.String()), domain.DatasetSales)
		assert.True(t, result.Valid)
		assert.Empty(t, result.Errors)
	})

	t.Run("absent numeric field is not a sanity error", func(t *testing.T) {
		// Second row is short; missing cells are absent, not invalid
		input := "Date,Product,Quantity,Amount\n2024-08-01,Kurta,1,100\n2024-08-02,Saree\n"
		result := validator.Validate(decodeRows(t, input), domain.DatasetSales)
		assert.True(t, result.Valid)
	})

	t.Run("numeric sanity applies only to sales", func(t *testing.T) {
		input := "Product,Stock,Price\nKurta,lots,499\n"
		result := validator.Validate(decodeRows(t, input), domain.DatasetInventory)
		assert.True(t, result.Valid)
	})
}
