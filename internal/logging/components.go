package logging

// Component constants for structured logging.
const (
	ComponentStartup    = "startup"
	ComponentShutdown   = "shutdown"
	ComponentAPIRender  = "api-render"
	ComponentPipeline   = "pipeline"
	ComponentWorkerPool = "worker-pool"
	ComponentWorker     = "worker"
	ComponentRateLimit  = "rate-limit"
)
