package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateDatasetFile(t *testing.T) {
	v := NewInputValidator(nil)
	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{
			name: "valid csv",
			path: writeFile(t, dir, "sales.csv", "Date,Product\n2024-01-01,Kurta\n"),
		},
		{
			name: "valid xlsx extension",
			path: writeFile(t, dir, "inventory.xlsx", "stub"),
		},
		{
			name:    "missing file",
			path:    filepath.Join(dir, "absent.csv"),
			wantErr: "does not exist",
		},
		{
			name:    "unsupported extension",
			path:    writeFile(t, dir, "notes.txt", "hello"),
			wantErr: "not a CSV or Excel file",
		},
		{
			name:    "excel lock file",
			path:    writeFile(t, dir, "~$sales.xlsx", "lock"),
			wantErr: "temporary Excel file",
		},
		{
			name:    "directory",
			path:    dir,
			wantErr: "is a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateDatasetFile(tt.path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateOutputDirectory(t *testing.T) {
	v := NewInputValidator(nil)

	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "reports", "nested")
		require.NoError(t, v.ValidateOutputDirectory(dir))

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("existing directory passes", func(t *testing.T) {
		assert.NoError(t, v.ValidateOutputDirectory(t.TempDir()))
	})
}

func TestValidateInputDirectory(t *testing.T) {
	v := NewInputValidator(nil)

	t.Run("counts dataset files only", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "sales.csv", "a")
		writeFile(t, dir, "inventory.xlsx", "b")
		writeFile(t, dir, "readme.md", "c")

		count, err := v.ValidateInputDirectory(dir)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("missing directory fails", func(t *testing.T) {
		_, err := v.ValidateInputDirectory(filepath.Join(t.TempDir(), "absent"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("file path fails", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "sales.csv", "a")
		_, err := v.ValidateInputDirectory(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a directory")
	})
}
