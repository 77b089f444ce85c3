package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/textfind/internal/storage"
)

// BuildTime is injected at build time via -ldflags
var BuildTime = "unknown"

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "textfind %s\n", Version)
			fmt.Fprintf(out, "Build Time:    %s\n", BuildTime)
			fmt.Fprintf(out, "Build Mode:    %s\n", storage.BuildMode)
			fmt.Fprintf(out, "SQLite Driver: %s\n", storage.DriverName)
		},
	}
}
