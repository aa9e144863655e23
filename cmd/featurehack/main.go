package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/featurehack/internal/cli"
	"github.com/matzehuels/featurehack/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := cli.New(os.Stderr, cli.LogInfo).Execute(ctx, os.Args[1:])
	if err == nil {
		return
	}
	if stderrors.Is(err, context.Canceled) || ctx.Err() != nil {
		os.Exit(130) // Standard shell convention for SIGINT
	}
	fmt.Fprintln(os.Stderr, "error:", errors.UserMessage(err))

	// Mirror the exit status of a failed cargo invocation.
	var exitErr *errors.ExitError
	if stderrors.As(err, &exitErr) && exitErr.ExitCode > 0 {
		os.Exit(exitErr.ExitCode)
	}
	os.Exit(1)
}
