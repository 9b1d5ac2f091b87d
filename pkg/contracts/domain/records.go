package domain

import (
	"time"
)

// DatasetKind identifies which of the three tabular datasets a row set belongs to.
type DatasetKind string

const (
	DatasetSales     DatasetKind = "sales"
	DatasetInventory DatasetKind = "inventory"
	DatasetReviews   DatasetKind = "reviews"
)

// Valid reports whether the kind is one of the three supported datasets.
func (k DatasetKind) Valid() bool {
	switch k {
	case DatasetSales, DatasetInventory, DatasetReviews:
		return true
	}
	return false
}

// RequiredFields returns the column contract validated for this dataset kind.
func (k DatasetKind) RequiredFields() []string {
	switch k {
	case DatasetSales:
		return []string{"Date", "Product", "Quantity", "Amount"}
	case DatasetInventory:
		return []string{"Product", "Stock", "Price"}
	case DatasetReviews:
		return []string{"Date", "Rating", "Review", "Product"}
	}
	return nil
}

// SalesRecord represents one sales transaction row.
type SalesRecord struct {
	Date        time.Time `json:"date"`
	Product     string    `json:"product" validate:"required"`
	Category    string    `json:"category,omitempty"`
	Quantity    int       `json:"quantity" validate:"min=0"`
	Amount      float64   `json:"amount" validate:"min=0"`
	CustomerAge int       `json:"customer_age,omitempty"`
	Location    string    `json:"location,omitempty"`
}

// InventoryRecord represents one inventory stock row.
type InventoryRecord struct {
	Product  string  `json:"product" validate:"required"`
	Category string  `json:"category,omitempty"`
	Stock    int     `json:"stock" validate:"min=0"`
	Price    float64 `json:"price" validate:"min=0"`
	Supplier string  `json:"supplier,omitempty"`
	// MinAlert is the per-item low-stock threshold. HasMinAlert distinguishes
	// an explicit threshold from an absent column; decode never fabricates one.
	MinAlert    int  `json:"min_alert,omitempty"`
	HasMinAlert bool `json:"has_min_alert,omitempty"`
}

// ReviewRecord represents one customer review row.
type ReviewRecord struct {
	Date     time.Time `json:"date"`
	Rating   int       `json:"rating" validate:"min=1,max=5"`
	Review   string    `json:"review"`
	Product  string    `json:"product" validate:"required"`
	Platform string    `json:"platform,omitempty"`
}

// ValidationResult carries the outcome of a schema validation pass. Errors
// preserve insertion order so the caller can surface everything wrong with a
// dataset at once. The result is advisory: callers decide whether to reject.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// DatasetBundle holds the three validated record sequences handed off to the
// presentation layer together with their derived summary.
type DatasetBundle struct {
	ID        string            `json:"id"`
	Sales     []SalesRecord     `json:"sales"`
	Inventory []InventoryRecord `json:"inventory"`
	Reviews   []ReviewRecord    `json:"reviews"`
	CreatedAt time.Time         `json:"created_at"`
}
