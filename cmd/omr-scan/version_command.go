package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ctx.wantJSON(cmd) {
				return writeJSON(cmd, map[string]string{
					"version":    Version,
					"build_time": BuildTime,
					"git_commit": GitCommit,
				})
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "omr-scan %s\n", Version)
			fmt.Fprintf(w, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
			return nil
		},
	}
}
