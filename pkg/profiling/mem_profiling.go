package profiling

import (
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/datatug/pngnote/pkg/logging"
)

var memProfilingInterval = 10 * time.Second
var pprofWriteHeapProfile = pprof.WriteHeapProfile

// DoMemProfiling rewrites the heap profile in file periodically for the rest
// of the process life. The returned function writes it once more, call it on
// exit to capture the final state.
func DoMemProfiling(file string) (write func()) {
	log := logging.New("profiling")
	create, writeHeapProfile := osCreate, pprofWriteHeapProfile
	write = func() {
		f, err := create(file)
		if err != nil {
			log.Error("could not create memory profile", "file", file, "error", err)
			return
		}
		defer func() {
			_ = f.Close()
		}()
		runtime.GC()
		if err = writeHeapProfile(f); err != nil {
			log.Error("could not write memory profile", "file", file, "error", err)
		}
	}
	interval := memProfilingInterval
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			write()
		}
	}()
	return write
}
