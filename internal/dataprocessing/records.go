package dataprocessing

import (
	"time"

	"retailpulse/pkg/contracts/domain"
)

// dateLayouts are tried in order when parsing date cells. An unparseable date
// leaves the zero time; aggregation does not depend on dates.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
	time.RFC3339,
}

func parseDate(text string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t
		}
	}
	return time.Time{}
}

// SalesFromRows converts decoded rows into typed sales records. Non-numeric
// quantity or amount cells become zero values here; the validator is the
// place that reports them.
func SalesFromRows(rows []domain.Row) []domain.SalesRecord {
	records := make([]domain.SalesRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.SalesRecord{
			Date:        parseDate(row.Text("Date")),
			Product:     row.Text("Product"),
			Category:    row.Text("Category"),
			Quantity:    int(row.Number("Quantity")),
			Amount:      row.Number("Amount"),
			CustomerAge: int(row.Number("Customer_Age")),
			Location:    row.Text("Location"),
		})
	}
	return records
}

// InventoryFromRows converts decoded rows into typed inventory records. A
// missing Min_Alert column is recorded as absent rather than defaulted; the
// aggregation threshold default applies later.
func InventoryFromRows(rows []domain.Row) []domain.InventoryRecord {
	records := make([]domain.InventoryRecord, 0, len(rows))
	for _, row := range rows {
		rec := domain.InventoryRecord{
			Product:  row.Text("Product"),
			Category: row.Text("Category"),
			Stock:    int(row.Number("Stock")),
			Price:    row.Number("Price"),
			Supplier: row.Text("Supplier"),
		}
		if f, ok := row["Min_Alert"]; ok && f.Numeric {
			rec.MinAlert = int(f.Number)
			rec.HasMinAlert = true
		}
		records = append(records, rec)
	}
	return records
}

// ReviewsFromRows converts decoded rows into typed review records
func ReviewsFromRows(rows []domain.Row) []domain.ReviewRecord {
	records := make([]domain.ReviewRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.ReviewRecord{
			Date:     parseDate(row.Text("Date")),
			Rating:   int(row.Number("Rating")),
			Review:   row.Text("Review"),
			Product:  row.Text("Product"),
			Platform: row.Text("Platform"),
		})
	}
	return records
}
