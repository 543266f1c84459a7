package trim

import (
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/require"
)

// newTestLock takes the world lock the way a concurrent run would and
// returns its release function.
func newTestLock(t *testing.T, world string) func() {
	t.Helper()
	l := flock.New(filepath.Join(world, LockName))
	ok, err := l.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	return func() { _ = l.Unlock() }
}
