package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func execute(ctx context.Context, args []string) int {
	root := newRootCmd(os.Stdout, os.Stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:           "contactrelay",
		Short:         "Contact form that relays messages to an email delivery provider.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load before reading the environment (default .env when present)")

	load := func() (Config, error) {
		return loadConfig(envFiles...)
	}

	root.AddCommand(newServeCmd(load))
	root.AddCommand(newSendCmd(load))

	return root
}
