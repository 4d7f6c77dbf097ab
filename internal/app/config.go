package app

// Config holds everything an App instance needs to run. It is produced by
// the CLI parser and treated as read-only afterwards.
type Config struct {
	// WorkflowPath points at an .hcl workflow file for one-shot runs. In
	// serve mode it optionally replaces the built-in example workflow.
	WorkflowPath string
	// Listen enables HTTP serve mode when non-empty, e.g. ":8080".
	Listen string
	// InitialStateJSON is the initial run state for one-shot mode, as a
	// JSON object. Empty means an empty state.
	InitialStateJSON string
	// LogFormat is "text" or "json".
	LogFormat string
	// LogLevel is "debug", "info", "warn" or "error".
	LogLevel string
	// MaxSteps is the default step limit per run. Zero keeps the engine
	// default.
	MaxSteps int
}
