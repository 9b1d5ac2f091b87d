package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Canonical dataset fixtures used across service and transport tests. The
// numbers are chosen so expected aggregates are easy to verify by hand:
// revenue 450 over 3 orders, Saree ahead of Kurta, Saree stock 2 below the
// default alert threshold, ratings averaging 4, one positive and one negative
// review word.
const (
	SalesCSV = "Date,Product,Quantity,Amount\n" +
		"2024-01-01,Kurta,2,100\n" +
		"2024-01-02,Saree,1,300\n" +
		"2024-01-03,Kurta,1,50\n"

	InventoryCSV = "Product,Stock,Price\n" +
		"Kurta,40,50\n" +
		"Saree,2,300\n"

	ReviewsCSV = "Date,Rating,Review,Product\n" +
		"2024-01-04,5,Great quality fabric,Kurta\n" +
		"2024-01-05,3,Delivery was terrible,Saree\n"

	// SalesMissingAmountCSV drops a required field
	SalesMissingAmountCSV = "Date,Product,Quantity\n" +
		"2024-01-01,Kurta,2\n"

	// SalesBadNumericCSV carries a non-numeric Quantity in row 1
	SalesBadNumericCSV = "Date,Product,Quantity,Amount\n" +
		"2024-01-01,Kurta,two,100\n"
)

// WriteTempFile writes content into dir under the given name
func WriteTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}

// WriteDatasetFixtures writes the three canonical dataset files into dir and
// returns their paths in sales, inventory, reviews order
func WriteDatasetFixtures(t *testing.T, dir string) (string, string, string) {
	t.Helper()
	sales := WriteTempFile(t, dir, "sales.csv", SalesCSV)
	inventory := WriteTempFile(t, dir, "inventory.csv", InventoryCSV)
	reviews := WriteTempFile(t, dir, "reviews.csv", ReviewsCSV)
	return sales, inventory, reviews
}
