package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/textfind/internal/mcp"
	"github.com/dshills/textfind/internal/storage"
)

// NewServeCommand creates the serve command
func NewServeCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Long: `Run textfind as a Model Context Protocol server over stdio.

stdout carries protocol traffic only; diagnostics go to stderr and the
archive file. The server stops on SIGINT, SIGTERM or end of input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Close() }()

			logger.LogInfo(fmt.Sprintf("textfind %s starting (build: %s, driver: %s)",
				Version, storage.BuildMode, storage.DriverName))

			server, err := mcp.NewServer(cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}
			defer func() { _ = server.Close() }()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			errChan := make(chan error, 1)
			go func() {
				errChan <- server.Serve(ctx)
			}()

			select {
			case sig := <-sigChan:
				logger.LogInfo(fmt.Sprintf("received signal %v, shutting down", sig))
				cancel()
			case err := <-errChan:
				if err != nil {
					return fmt.Errorf("server error: %w", err)
				}
			}

			logger.LogInfo("server stopped")
			return nil
		},
	}
}
