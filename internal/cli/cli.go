package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/gridflow/internal/app"
)

// ExitError is an error carrying a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated
// app.Config, a boolean indicating the program should exit cleanly (help,
// no arguments), or an ExitError for invalid input.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("gridflow", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
gridflow - a minimal directed-graph workflow engine.

Usage:
  gridflow [options] [WORKFLOW_PATH]

Arguments:
  WORKFLOW_PATH
    Path to an .hcl workflow file to run once.

Options:
`)
		flagSet.PrintDefaults()
	}

	workflowFlag := flagSet.String("workflow", "", "Path to the workflow file.")
	wFlag := flagSet.String("w", "", "Path to the workflow file (shorthand).")
	listenFlag := flagSet.String("listen", "", "Serve the HTTP API on this address (e.g. ':8080') instead of running once.")
	stateFlag := flagSet.String("state", "", "Initial run state as a JSON object.")
	maxStepsFlag := flagSet.Int("max-steps", 0, "Step limit per run. 0 uses the engine default.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Log level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	switch {
	case *workflowFlag != "":
		path = *workflowFlag
	case *wFlag != "":
		path = *wFlag
	case flagSet.NArg() > 0:
		path = flagSet.Arg(0)
	}

	if path == "" && *listenFlag == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if *maxStepsFlag < 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid max-steps: must not be negative"}
	}

	return &app.Config{
		WorkflowPath:     path,
		Listen:           *listenFlag,
		InitialStateJSON: *stateFlag,
		LogFormat:        logFormat,
		LogLevel:         logLevel,
		MaxSteps:         *maxStepsFlag,
	}, false, nil
}
