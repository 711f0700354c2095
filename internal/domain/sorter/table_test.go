package sorter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableNormalizesExtensions(t *testing.T) {
	table, err := NewTable(map[Category][]string{"raw": {"CR2", ".NEF", " "}}, nil, DefaultSizeBuckets())
	require.NoError(t, err)

	c, ok := table.TypeOf(".cr2")
	assert.True(t, ok)
	assert.Equal(t, Category("raw"), c)

	c, ok = table.TypeOf("nef")
	assert.True(t, ok)
	assert.Equal(t, Category("raw"), c)
}

func TestNewTableRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		types map[Category][]string
		mime  []MIMERule
		sizes []SizeBucket
	}{
		{
			name:  "duplicate extension",
			types: map[Category][]string{"a": {".x"}, "b": {".x"}},
			sizes: DefaultSizeBuckets(),
		},
		{
			name:  "path separator in category",
			types: map[Category][]string{"a/b": {".x"}},
			sizes: DefaultSizeBuckets(),
		},
		{
			name:  "parent directory category",
			types: map[Category][]string{"..": {".x"}},
			sizes: DefaultSizeBuckets(),
		},
		{
			name:  "empty mime prefix",
			mime:  []MIMERule{{Prefix: "", Category: "images"}},
			sizes: DefaultSizeBuckets(),
		},
		{
			name: "no size buckets",
		},
		{
			name:  "first bucket above zero",
			sizes: []SizeBucket{{Name: "big", Min: 10}},
		},
		{
			name:  "shared lower bound",
			sizes: []SizeBucket{{Name: "a", Min: 0}, {Name: "b", Min: 5}, {Name: "c", Min: 5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.types, tt.mime, tt.sizes)
			assert.Error(t, err)
		})
	}
}

func TestTableMIMELongestPrefixWins(t *testing.T) {
	table, err := NewTable(nil, []MIMERule{
		{Prefix: "application/", Category: "binaries"},
		{Prefix: "application/pdf", Category: "documents"},
	}, DefaultSizeBuckets())
	require.NoError(t, err)

	c, ok := table.TypeOfMIME("application/pdf")
	assert.True(t, ok)
	assert.Equal(t, Category("documents"), c)

	c, ok = table.TypeOfMIME("Application/Zip")
	assert.True(t, ok)
	assert.Equal(t, Category("binaries"), c)

	_, ok = table.TypeOfMIME("")
	assert.False(t, ok)
}

func TestSizeBucketsAreSortedCopies(t *testing.T) {
	table, err := NewTable(nil, nil, []SizeBucket{{Name: "big", Min: 100}, {Name: "small", Min: 0}})
	require.NoError(t, err)

	buckets := table.SizeBuckets()
	require.Len(t, buckets, 2)
	assert.Equal(t, Category("small"), buckets[0].Name)

	buckets[0].Name = "changed"
	assert.Equal(t, Category("small"), table.SizeBuckets()[0].Name)
	assert.Equal(t, Category("big"), table.SizeOf(100))
}

func TestDefaultTypesIsACopy(t *testing.T) {
	types := DefaultTypes()
	types["images"] = nil

	c, ok := DefaultTable().TypeOf(".png")
	assert.True(t, ok)
	assert.Equal(t, Category("images"), c)
}
