package exporter

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storepulse/internal/report"
)

func TestCSVWriter_WriteCSV(t *testing.T) {
	tests := []struct {
		name     string
		filePath string
		options  WriteOptions
		validate func(t *testing.T, content []byte)
	}{
		{
			name:     "basic write with headers",
			filePath: "basic.csv",
			options: WriteOptions{
				Headers: []string{"Store_ID", "Total_Sales"},
				Records: [][]string{{"S1", "1000"}, {"S2", "2500.5"}},
			},
			validate: func(t *testing.T, content []byte) {
				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Equal(t, []string{"Store_ID,Total_Sales", "S1,1000", "S2,2500.5"}, lines)
			},
		},
		{
			name:     "write with BOM prefix",
			filePath: "bom.csv",
			options: WriteOptions{
				Headers:   []string{"Store_Name"},
				Records:   [][]string{{"Café Central"}},
				BOMPrefix: true,
			},
			validate: func(t *testing.T, content []byte) {
				assert.True(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))
				assert.Contains(t, string(content[3:]), "Café Central")
			},
		},
		{
			name:     "quotes fields with commas",
			filePath: "nested/quoted.csv",
			options: WriteOptions{
				Headers: []string{"Message"},
				Records: [][]string{{"Sales grew, orders fell"}},
			},
			validate: func(t *testing.T, content []byte) {
				assert.Contains(t, string(content), `"Sales grew, orders fell"`)
			},
		},
		{
			name:     "empty records",
			filePath: "empty.csv",
			options:  WriteOptions{Headers: []string{"Col1", "Col2"}},
			validate: func(t *testing.T, content []byte) {
				assert.Equal(t, "Col1,Col2", strings.TrimSpace(string(content)))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			w := NewCSVWriter(dir, nil)
			require.NoError(t, w.WriteCSV(tt.filePath, tt.options))

			content, err := os.ReadFile(filepath.Join(dir, tt.filePath))
			require.NoError(t, err)
			tt.validate(t, content)
		})
	}
}

func TestCSVWriter_Append(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir, nil)

	require.NoError(t, w.WriteCSV("a.csv", WriteOptions{Headers: []string{"x"}, Records: [][]string{{"1"}}}))
	require.NoError(t, w.WriteCSV("a.csv", WriteOptions{Headers: []string{"x"}, Records: [][]string{{"2"}}, Append: true}))

	content, err := os.ReadFile(filepath.Join(dir, "a.csv"))
	require.NoError(t, err)
	assert.Equal(t, "x\n1\n2\n", string(content))
}

func TestCSVWriter_WriteSheets(t *testing.T) {
	base := t.TempDir()
	w := NewCSVWriter(base, nil)

	growth := report.NewSheet("Growth_Metrics", "Store_ID", "Overall_Sales_Delta", "Overall_Sales_Zero_Baseline")
	growth.Append("S1", 500.0, false)
	growth.Append("S4", 900.0, true)
	info := report.NewSheet("Report_Info", "Key", "Value")
	info.Append("process_label", "TODC")

	paths, err := w.WriteSheets(context.Background(), SheetDir("Store_Wise_Analysis_20250910_083000.xlsx"),
		[]report.Sheet{growth, info})
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(base, "Store_Wise_Analysis_20250910_083000_csv", "Growth_Metrics.csv"), paths[0])

	f, err := os.Open(paths[0])
	require.NoError(t, err)
	defer f.Close()
	bom := make([]byte, 3)
	_, err = f.Read(bom)
	require.NoError(t, err)
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Store_ID", "Overall_Sales_Delta", "Overall_Sales_Zero_Baseline"},
		{"S1", "500", "FALSE"},
		{"S4", "900", "TRUE"},
	}, records)
}

func TestCSVWriter_WriteSheetsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := NewCSVWriter(t.TempDir(), nil)
	_, err := w.WriteSheets(ctx, "out", []report.Sheet{report.NewSheet("A", "x")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "Top_10_Performers", sanitize("Top_10_Performers"))
	assert.Equal(t, "a_b_c", sanitize("a/b:c"))
}
