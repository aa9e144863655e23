package cli

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/featurehack/pkg/args"
	"github.com/matzehuels/featurehack/pkg/buildinfo"
	"github.com/matzehuels/featurehack/pkg/session"
)

// RootCommand creates the root cobra command. Flag parsing is disabled
// because cargo options must pass through untouched; see package args.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:                "featurehack [OPTIONS] [SUBCOMMAND] [CARGO OPTIONS]... [-- ARGS]...",
		Short:              "Run cargo subcommands across workspace members and feature combinations",
		Long:               `featurehack runs a cargo subcommand on every member of a Cargo workspace, optionally once per feature or feature combination, forwarding dependency features so that feature-gated code in workspace dependencies is exercised too.`,
		Version:            buildinfo.Version,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableFlagParsing: true,
		Args:               cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, raw []string) error {
			return c.run(cmd.Context(), cmd, raw)
		},
	}
	root.SetVersionTemplate(buildinfo.Template())
	return root
}

// Execute runs the root command with ctx.
func (c *CLI) Execute(ctx context.Context, raw []string) error {
	root := c.RootCommand()
	root.SetArgs(raw)
	return root.ExecuteContext(ctx)
}

func (c *CLI) run(ctx context.Context, cmd *cobra.Command, raw []string) error {
	own := raw
	if len(own) > 0 && own[0] == appName {
		own = own[1:]
	}
	if len(own) > 0 && (own[0] == "--version" || own[0] == "-V") {
		fmt.Fprint(cmd.OutOrStdout(), buildinfo.Template())
		return nil
	}
	if verboseRequested(raw) {
		c.SetLogLevel(LogDebug)
	}
	ctx = withLogger(ctx, c.Logger)

	store := newCache()
	defer store.Close()

	sess, err := session.New(ctx, raw, session.Options{Logger: c.Logger, Cache: store})
	if stderrors.Is(err, args.ErrHelp) {
		fmt.Fprint(cmd.OutOrStdout(), args.Usage())
		return nil
	}
	if err != nil {
		return err
	}
	return execute(ctx, sess, c.Out)
}

// verboseRequested looks for -v/--verbose ahead of parsing so that session
// construction is already logged at debug level.
func verboseRequested(raw []string) bool {
	for _, a := range raw {
		switch a {
		case "--":
			return false
		case "-v", "--verbose":
			return true
		}
		if args.IsVerboseBundle(a) {
			return true
		}
	}
	return false
}
