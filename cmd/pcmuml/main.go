package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/palladiosimulator/pcmuml/internal/cli"
	perrors "github.com/palladiosimulator/pcmuml/pkg/errors"
)

// Exit codes. A model or config that cannot be read exits with exitInput so
// scripts can tell bad input apart from internal failures.
const (
	exitOK          = 0
	exitFailure     = 1
	exitInput       = 2
	exitInterrupted = 130
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx, os.Args[1:])
	code := exitCode(err)
	if code != exitOK && code != exitInterrupted {
		report(os.Stderr, err)
	}
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, args []string) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	root.SetArgs(args)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// Runs after flag parsing and before the root's config hook, so config
	// loading is already logged at the requested level.
	cobra.OnInitialize(func() {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
	})

	return root.ExecuteContext(ctx)
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	}

	switch perrors.GetCode(err) {
	case perrors.ErrCodeInvalidInput,
		perrors.ErrCodeInvalidFormat,
		perrors.ErrCodeInvalidModel,
		perrors.ErrCodeInvalidKind,
		perrors.ErrCodeInvalidPath,
		perrors.ErrCodeUnknownReference,
		perrors.ErrCodeDuplicateID,
		perrors.ErrCodeFileNotFound:
		return exitInput
	}
	return exitFailure
}

// report prints err without its error code prefixes.
func report(w io.Writer, err error) {
	fmt.Fprintln(w, "Error:", perrors.UserMessage(err))
}
