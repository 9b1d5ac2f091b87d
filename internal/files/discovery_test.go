package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpulse/pkg/contracts/domain"
)

func touch(t *testing.T, dir, name string, modTime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("data"), 0644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
	return path
}

func TestFindDataset(t *testing.T) {
	now := time.Now()

	t.Run("matches by prefix and extension", func(t *testing.T) {
		dir := t.TempDir()
		want := touch(t, dir, "sales_2024.csv", now)
		touch(t, dir, "inventory.csv", now)
		touch(t, dir, "sales_notes.txt", now)

		file, err := NewDiscovery(dir, nil).FindDataset(domain.DatasetSales)
		require.NoError(t, err)
		assert.Equal(t, want, file.Path)
		assert.Equal(t, domain.DatasetSales, file.Kind)
	})

	t.Run("newest file wins", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "sales_old.csv", now.Add(-time.Hour))
		want := touch(t, dir, "sales_new.xlsx", now)

		file, err := NewDiscovery(dir, nil).FindDataset(domain.DatasetSales)
		require.NoError(t, err)
		assert.Equal(t, want, file.Path)
	})

	t.Run("excel lock files are skipped", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "~$sales.xlsx", now)
		want := touch(t, dir, "sales.xlsx", now.Add(-time.Minute))

		file, err := NewDiscovery(dir, nil).FindDataset(domain.DatasetSales)
		require.NoError(t, err)
		assert.Equal(t, want, file.Path)
	})

	t.Run("no match fails", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "inventory.csv", now)

		_, err := NewDiscovery(dir, nil).FindDataset(domain.DatasetReviews)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no reviews file found")
	})
}

func TestFindAll(t *testing.T) {
	now := time.Now()

	t.Run("resolves all three kinds", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "sales.csv", now)
		touch(t, dir, "inventory.xlsx", now)
		touch(t, dir, "reviews.csv", now)

		found, err := NewDiscovery(dir, nil).FindAll()
		require.NoError(t, err)
		require.Len(t, found, 3)
		assert.Contains(t, found[domain.DatasetInventory].Path, "inventory.xlsx")
	})

	t.Run("missing kind fails the call", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "sales.csv", now)
		touch(t, dir, "inventory.csv", now)

		_, err := NewDiscovery(dir, nil).FindAll()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no reviews file found")
	})
}
