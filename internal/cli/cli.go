package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/coyote/internal/app"
)

// Version is reported by -version. Overridden at link time.
var Version = "dev"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("coyote", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
coyote - A minimal build orchestrator.

Usage:
  coyote [options] [RECIPE]

Arguments:
  RECIPE
    Name of an alternate recipe. Builds coyote-RECIPE.{json,hcl,yaml,yml}
    instead of the default coyote.{json,hcl,yaml,yml}.

Options:
`)
		flagSet.PrintDefaults()
	}

	rebuildFlag := flagSet.Bool("rebuild", false, "Run every command, ignoring run_if conditions.")
	rFlag := flagSet.Bool("r", false, "Run every command, ignoring run_if conditions (shorthand).")
	dirFlag := flagSet.String("C", ".", "Change to this directory before doing anything.")
	lockFlag := flagSet.String("lock", "coyote.LOCK", "Path to the lock file, relative to the working directory.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	logFileFlag := flagSet.String("log-file", "", "Also write JSON logs to this file.")
	logJournalFlag := flagSet.Bool("log-journal", false, "Also send logs to the systemd journal.")
	metricsFlag := flagSet.String("metrics-file", "", "Write run metrics in Prometheus text format to this file.")
	emitHCLFlag := flagSet.Bool("emit-hcl", false, "Print the selected recipe as HCL and exit without building.")
	noColorFlag := flagSet.Bool("no-color", false, "Disable colored console output.")
	versionFlag := flagSet.Bool("version", false, "Print the version and exit.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if *versionFlag {
		fmt.Fprintf(output, "coyote %s\n", Version)
		return nil, true, nil
	}

	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("expected at most one recipe name, got %d", flagSet.NArg())}
	}
	recipeName := flagSet.Arg(0)
	slog.Debug("Recipe name determined.", "recipe", recipeName)

	config, err := app.NewConfig(app.Config{
		Dir:         *dirFlag,
		Recipe:      recipeName,
		LockPath:    *lockFlag,
		Rebuild:     *rebuildFlag || *rFlag,
		LogFormat:   strings.ToLower(*logFormatFlag),
		LogLevel:    strings.ToLower(*logLevelFlag),
		LogFile:     *logFileFlag,
		LogJournal:  *logJournalFlag,
		MetricsFile: *metricsFlag,
		EmitHCL:     *emitHCLFlag,
		NoColor:     *noColorFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
