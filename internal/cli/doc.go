// Package cli parses command-line arguments into an app.Config and defines
// the ExitError used to signal specific process exit codes.
package cli
