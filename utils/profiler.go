package utils

import (
	"github.com/harukit/likes-archive/utils/dotenv"
	Logger "github.com/harukit/likes-archive/utils/log"
	"gopkg.in/DataDog/dd-trace-go.v1/profiler"
)

const serviceName = "likes-archive"

// StartProfiler starts the datadog continuous profiler. Only the long-running
// scheduler process profiles, and only in prod.
func StartProfiler() {
	if dotenv.RuntimeEnv() != dotenv.ProdEnv {
		return
	}

	if err := profiler.Start(
		profiler.WithService(serviceName),
		profiler.WithEnv(dotenv.RuntimeEnv()),
		profiler.WithProfileTypes(
			profiler.CPUProfile,
			profiler.HeapProfile,
			// The profiles below are disabled by
			// default to keep overhead low, but
			// can be enabled as needed.
			// profiler.BlockProfile,
			// profiler.MutexProfile,
			// profiler.GoroutineProfile,
		),
	); err != nil {
		Logger.Log.Fatal(err)
	}
}

// Stop profiler, OK to be closed multiple times
func CloseProfiler() {
	profiler.Stop()
}
