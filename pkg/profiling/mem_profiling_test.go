package profiling

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The ticker goroutine outlives each test. It captures the seams when
// started, so restoring them afterwards is safe.

func TestDoMemProfiling(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test with goroutines in short mode")
	}
	origInterval, origWrite := memProfilingInterval, pprofWriteHeapProfile
	defer func() {
		memProfilingInterval, pprofWriteHeapProfile = origInterval, origWrite
	}()

	var writes atomic.Int32
	memProfilingInterval = 20 * time.Millisecond
	pprofWriteHeapProfile = func(w io.Writer) error {
		writes.Add(1)
		_, err := w.Write([]byte("heap"))
		return err
	}

	file := filepath.Join(t.TempDir(), "mem.prof")
	write := DoMemProfiling(file)
	require.NotNil(t, write)
	write()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "heap", string(data))
	assert.Eventually(t, func() bool { return writes.Load() >= 2 }, time.Second, 10*time.Millisecond)
}

func TestDoMemProfiling_Errors(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test with goroutines in short mode")
	}
	origInterval := memProfilingInterval
	defer func() { memProfilingInterval = origInterval }()
	memProfilingInterval = time.Hour

	origOsCreate := osCreate
	osCreate = func(string) (*os.File, error) {
		return nil, errors.New("mock error")
	}
	DoMemProfiling("unused")()
	osCreate = origOsCreate

	origWrite := pprofWriteHeapProfile
	pprofWriteHeapProfile = func(io.Writer) error {
		return errors.New("mock pprof error")
	}
	DoMemProfiling(filepath.Join(t.TempDir(), "mem_err.prof"))()
	pprofWriteHeapProfile = origWrite
}
