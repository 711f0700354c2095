package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darion/internal/domain/sorter"
)

func TestLoadCategoryTableDefault(t *testing.T) {
	table, err := LoadCategoryTable("")
	require.NoError(t, err)

	c, ok := table.TypeOf(".jpg")
	assert.True(t, ok)
	assert.Equal(t, sorter.Category("images"), c)
}

func TestParseCategoryTableOverrides(t *testing.T) {
	data := []byte(`
types:
  photos: [jpg, .HEIC]
  notes: [.md]
sizes:
  - name: small
    min: "0"
  - name: big
    min: 1 MiB
`)
	table, err := ParseCategoryTable(data)
	require.NoError(t, err)

	c, ok := table.TypeOf(".heic")
	assert.True(t, ok)
	assert.Equal(t, sorter.Category("photos"), c)

	_, ok = table.TypeOf(".pdf")
	assert.False(t, ok, "types section replaces the defaults")

	// mime rules were not given, defaults stay
	c, ok = table.TypeOfMIME("image/png")
	assert.True(t, ok)
	assert.Equal(t, sorter.Category("images"), c)

	assert.Equal(t, sorter.Category("small"), table.SizeOf(1<<20-1))
	assert.Equal(t, sorter.Category("big"), table.SizeOf(1<<20))
}

func TestParseCategoryTableErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "types: [unterminated"},
		{"bad size", "sizes:\n  - name: x\n    min: lots\n"},
		{"no zero bucket", "sizes:\n  - name: x\n    min: 1 KiB\n"},
		{"bad category", "types:\n  ../escape: [.txt]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCategoryTable([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestParseCategoryTableRejectsOversizedBucket(t *testing.T) {
	data := []byte("sizes:\n  - name: tiny\n    min: \"0\"\n  - name: absurd\n    min: 8 EiB\n")

	_, err := ParseCategoryTable(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absurd")
	assert.NotContains(t, err.Error(), "must start at 0")
}

func TestLoadCategoryTableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mime:\n  - prefix: text/\n    category: texts\n"), 0o644))

	table, err := LoadCategoryTable(path)
	require.NoError(t, err)

	c, ok := table.TypeOfMIME("text/plain; charset=utf-8")
	assert.True(t, ok)
	assert.Equal(t, sorter.Category("texts"), c)

	_, err = LoadCategoryTable(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestGetEnvAsList(t *testing.T) {
	t.Setenv("DARION_TEST_LIST", " a.com, ,b.com ")
	assert.Equal(t, []string{"a.com", "b.com"}, getEnvAsList("DARION_TEST_LIST", nil))

	t.Setenv("DARION_TEST_LIST", " , ")
	assert.Equal(t, []string{"*"}, getEnvAsList("DARION_TEST_LIST", []string{"*"}))
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SORT_WORKERS", "not-a-number")
	t.Setenv("HISTORY_LIMIT", "4")

	cfg := Load()
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 4, cfg.SortWorkers)
	assert.Equal(t, 4, cfg.HistoryLimit)
	assert.InDelta(t, 0.7, cfg.OpenAITemperature, 0.001)
}
