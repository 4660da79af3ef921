package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_WriteFile(t *testing.T) {
	base := t.TempDir()
	m := NewManager(base, nil)

	require.NoError(t, m.WriteFile("reports/insights.md", []byte("# Insights\n")))
	assert.True(t, m.FileExists("reports/insights.md"))

	data, err := os.ReadFile(filepath.Join(base, "reports", "insights.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Insights\n", string(data))

	require.NoError(t, m.WriteFile("reports/insights.md", []byte("v2")))
	data, err = os.ReadFile(filepath.Join(base, "reports", "insights.md"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))

	entries, err := os.ReadDir(filepath.Join(base, "reports"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestManager_FileExists(t *testing.T) {
	base := t.TempDir()
	m := NewManager(base, nil)

	assert.False(t, m.FileExists("missing.md"))
	require.NoError(t, m.EnsureDirectory("sub"))
	assert.False(t, m.FileExists("sub"))
	assert.DirExists(t, filepath.Join(base, "sub"))
}
