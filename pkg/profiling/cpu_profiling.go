// Package profiling writes pprof CPU and heap profiles for the -cpuprofile
// and -memprofile flags.
package profiling

import (
	"os"
	"runtime/pprof"

	"github.com/datatug/pngnote/pkg/logging"
)

var osCreate = os.Create
var pprofStartCPUProfile = pprof.StartCPUProfile
var pprofStopCPUProfile = pprof.StopCPUProfile

// DoCPUProfiling starts CPU profiling into file and returns the function that
// stops it. Failures are logged and profiling is skipped.
func DoCPUProfiling(file string) (stop func()) {
	log := logging.New("profiling")
	f, err := osCreate(file)
	if err != nil {
		log.Error("could not create CPU profile", "file", file, "error", err)
		return func() {}
	}
	if err = pprofStartCPUProfile(f); err != nil {
		log.Error("could not start CPU profile", "file", file, "error", err)
		_ = f.Close()
		return func() {}
	}
	return func() {
		pprofStopCPUProfile()
		if closeErr := f.Close(); closeErr != nil {
			log.Error("could not close CPU profile", "file", file, "error", closeErr)
		}
	}
}
