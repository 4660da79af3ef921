package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "storepulse/internal/errors"
)

func touch(t *testing.T, dir, name string, mod time.Time) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func TestFindWorkbooks(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	touch(t, dir, "Store_Wise_Analysis_20250910_083000.xlsx", now)
	touch(t, dir, "Store_Wise_Analysis_20250801_120000.xlsx", now)
	touch(t, dir, "~$Store_Wise_Analysis_20250911_000000.xlsx", now)
	touch(t, dir, "Store_Wise_Analysis_20250912_000000.csv", now)
	touch(t, dir, "TODC_Analysis_Report_20250912_000000.xlsx", now)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Store_Wise_Analysis_dir.xlsx"), 0755))

	files, err := NewDiscovery(dir).FindWorkbooks("", "Store_Wise_Analysis")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "Store_Wise_Analysis_20250801_120000.xlsx", files[0].Name)
	assert.Equal(t, "Store_Wise_Analysis_20250910_083000.xlsx", files[1].Name)
	assert.Equal(t, 2025, files[1].Stamp.Year())
}

func TestLatestReport(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]time.Time
		want  string
	}{
		{
			name: "name stamp beats modification time",
			files: map[string]time.Time{
				"Store_Wise_Analysis_20250910_083000.xlsx": time.Now().Add(-time.Hour),
				"Store_Wise_Analysis_20250801_120000.xlsx": time.Now(),
			},
			want: "Store_Wise_Analysis_20250910_083000.xlsx",
		},
		{
			name: "modification time without stamp",
			files: map[string]time.Time{
				"Store_Wise_Analysis_old.xlsx": time.Now().Add(-2 * time.Hour),
				"Store_Wise_Analysis_new.xlsx": time.Now().Add(-time.Minute),
			},
			want: "Store_Wise_Analysis_new.xlsx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, mod := range tt.files {
				touch(t, dir, name, mod)
			}
			got, err := NewDiscovery(filepath.Dir(dir)).LatestReport(filepath.Base(dir), "Store_Wise_Analysis")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name)
			assert.Equal(t, filepath.Join(dir, tt.want), got.Path)
		})
	}
}

func TestLatestReportNotFound(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "notes.txt", time.Now())

	_, err := NewDiscovery(dir).LatestReport("", "Store_Wise_Analysis")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))

	_, err = NewDiscovery(dir).LatestReport("missing", "Store_Wise_Analysis")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestGetLatestFile(t *testing.T) {
	_, ok := GetLatestFile(nil)
	assert.False(t, ok)

	now := time.Now()
	latest, ok := GetLatestFile([]FileInfo{
		{Name: "a", ModTime: now},
		{Name: "b", ModTime: now.Add(-time.Hour), Stamp: now.Add(time.Hour)},
	})
	require.True(t, ok)
	assert.Equal(t, "b", latest.Name)
}
