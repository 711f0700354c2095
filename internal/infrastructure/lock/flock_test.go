package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darion/internal/domain/sorter"
)

func TestLockIsExclusivePerKey(t *testing.T) {
	locker, err := NewFileLocker(t.TempDir(), 150*time.Millisecond)
	require.NoError(t, err)

	unlock, err := locker.Lock(context.Background(), "/data/sorted")
	require.NoError(t, err)

	_, err = locker.Lock(context.Background(), "/data/sorted")
	assert.ErrorIs(t, err, sorter.ErrDestinationBusy)

	other, err := locker.Lock(context.Background(), "/data/other")
	require.NoError(t, err)
	require.NoError(t, other())

	require.NoError(t, unlock())

	again, err := locker.Lock(context.Background(), "/data/sorted")
	require.NoError(t, err)
	assert.NoError(t, again())
}

func TestLockWaitsForRelease(t *testing.T) {
	locker, err := NewFileLocker(t.TempDir(), 2*time.Second)
	require.NoError(t, err)

	unlock, err := locker.Lock(context.Background(), "key")
	require.NoError(t, err)

	go func() {
		time.Sleep(100 * time.Millisecond)
		unlock()
	}()

	second, err := locker.Lock(context.Background(), "key")
	require.NoError(t, err)
	assert.NoError(t, second())
}

func TestLockPathIsStable(t *testing.T) {
	locker, err := NewFileLocker(t.TempDir(), time.Second)
	require.NoError(t, err)

	assert.Equal(t, locker.path("/a"), locker.path("/a"))
	assert.NotEqual(t, locker.path("/a"), locker.path("/b"))
}
