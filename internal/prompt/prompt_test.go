package prompt

import (
	"os"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestWaitForKey_Pipe(t *testing.T) {
	t.Parallel()

	r, w, err := os.Pipe()
	assert.NoError(t, err)
	defer func() { _ = r.Close() }()

	_, err = w.Write([]byte("qrest"))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())

	assert.NoError(t, WaitForKey(r))

	// Only one byte is consumed.
	rest := make([]byte, 8)
	n, err := r.Read(rest)
	assert.NoError(t, err)
	assert.Equal(t, "rest", string(rest[:n]))
}

func TestWaitForKey_EOF(t *testing.T) {
	t.Parallel()

	r, w, err := os.Pipe()
	assert.NoError(t, err)
	defer func() { _ = r.Close() }()
	assert.NoError(t, w.Close())

	assert.NoError(t, WaitForKey(r))
}

func TestWaitForKey_Closed(t *testing.T) {
	t.Parallel()

	r, w, err := os.Pipe()
	assert.NoError(t, err)
	_ = w.Close()
	assert.NoError(t, r.Close())

	assert.True(t, WaitForKey(r) != nil, "expected error reading closed file")
}
