package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/specialistvlad/coyote/internal/app"
	"github.com/specialistvlad/coyote/internal/cli"
)

// main is the entrypoint for the coyote application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintln(os.Stderr, exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling. Fatal build errors are reported on errW and returned as an
// ExitError with an empty message.
func run(outW, errW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	coyote, err := app.NewApp(outW, errW, appConfig)
	if err != nil {
		return &cli.ExitError{Code: 1, Message: err.Error()}
	}
	defer coyote.Close()

	ctx := context.Background()
	if appConfig.EmitHCL {
		err = coyote.EmitHCL(ctx)
	} else {
		_, err = coyote.Run(ctx)
	}
	if err != nil {
		tag, msg := app.Diagnose(err)
		coyote.Console().Diagnostic(tag, msg, true)
		return &cli.ExitError{Code: 1}
	}
	return nil
}
