package fsutil

import (
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveCreatesParentDirectories(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/a.txt", []byte("hello"), 0o644))

	require.NoError(t, Move(fs, "/src/a.txt", "/dst/text/a.txt"))

	data, err := afero.ReadFile(fs, "/dst/text/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	ok, err := afero.Exists(fs, "/src/a.txt")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMoveRefusesExistingDestination(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/a.txt", []byte("new"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/dst/a.txt", []byte("old"), 0o644))

	err := Move(fs, "/src/a.txt", "/dst/a.txt")
	assert.ErrorIs(t, err, os.ErrExist)

	data, err := afero.ReadFile(fs, "/dst/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
	ok, _ := afero.Exists(fs, "/src/a.txt")
	assert.True(t, ok)
}

func TestMoveMissingSource(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.Error(t, Move(fs, "/src/missing.txt", "/dst/missing.txt"))
}

func TestCopyThenRemovePreservesContentAndTime(t *testing.T) {
	fs := afero.NewMemMapFs()
	mtime := time.Date(2020, 2, 2, 2, 2, 2, 0, time.UTC)
	require.NoError(t, afero.WriteFile(fs, "/src/a.bin", []byte{1, 2, 3}, 0o600))
	require.NoError(t, fs.Chtimes("/src/a.bin", mtime, mtime))
	require.NoError(t, fs.MkdirAll("/dst", 0o755))

	require.NoError(t, copyThenRemove(fs, "/src/a.bin", "/dst/a.bin"))

	info, err := fs.Stat("/dst/a.bin")
	require.NoError(t, err)
	assert.Equal(t, int64(3), info.Size())
	assert.True(t, info.ModTime().Equal(mtime))

	ok, err := afero.Exists(fs, "/src/a.bin")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCopyThenRemoveRefusesExistingDestination(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/a.bin", []byte("new"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/dst/a.bin", []byte("old"), 0o644))

	assert.Error(t, copyThenRemove(fs, "/src/a.bin", "/dst/a.bin"))

	data, err := afero.ReadFile(fs, "/dst/a.bin")
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
	ok, _ := afero.Exists(fs, "/src/a.bin")
	assert.True(t, ok)
}

func TestUniqueName(t *testing.T) {
	takenSet := func(names ...string) func(string) (bool, error) {
		set := map[string]bool{}
		for _, n := range names {
			set[n] = true
		}
		return func(c string) (bool, error) { return set[c], nil }
	}

	tests := []struct {
		name  string
		input string
		taken []string
		want  string
	}{
		{"free", "a.jpg", nil, "a.jpg"},
		{"first suffix", "a.jpg", []string{"a.jpg"}, "a_1.jpg"},
		{"skips taken suffixes", "a.jpg", []string{"a.jpg", "a_1.jpg", "a_2.jpg"}, "a_3.jpg"},
		{"no extension", "README", []string{"README"}, "README_1"},
		{"dotfile", ".env", []string{".env"}, ".env_1"},
		{"double extension keeps last", "x.tar.gz", []string{"x.tar.gz"}, "x.tar_1.gz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UniqueName(tt.input, 10, takenSet(tt.taken...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUniqueNameExhausted(t *testing.T) {
	_, err := UniqueName("a.jpg", 3, func(string) (bool, error) { return true, nil })
	assert.ErrorIs(t, err, ErrNoFreeName)
}

func TestUniqueNamePropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	_, err := UniqueName("a.jpg", 3, func(c string) (bool, error) {
		calls++
		if calls == 2 {
			return false, fmt.Errorf("stat %s: %w", c, boom)
		}
		return true, nil
	})
	assert.ErrorIs(t, err, boom)
}
