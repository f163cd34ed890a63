package utils

import (
	"github.com/harukit/likes-archive/utils/dotenv"
	Logger "github.com/harukit/likes-archive/utils/log"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// StartTracer starts the datadog tracer for the scheduler process. No-op
// outside prod.
func StartTracer() {
	if dotenv.RuntimeEnv() != dotenv.ProdEnv {
		return
	}

	tracer.Start(
		tracer.WithService(serviceName),
		tracer.WithEnv(dotenv.RuntimeEnv()),
	)
	Logger.Log.Info("tracer initialized")
}

// Stop tracer, OK to be closed multiple times
func CloseTracer() {
	tracer.Stop()
}
