// Package cmd implements the textfind command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/textfind/internal/config"
	"github.com/dshills/textfind/internal/tracelog"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// globalOptions holds the persistent flags shared by every subcommand
type globalOptions struct {
	configPath  string
	verbose     bool
	archive     bool
	archivePath string
	logLevel    string
	timestamps  bool
	workers     int
}

// NewRootCommand creates and returns the root cobra command for textfind
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "textfind",
		Short: "Concurrent literal substring search over text files",
		Long: `textfind searches text files for literal substrings and reports every
hit with its line, column, absolute byte offset and length.

Many files are searched concurrently by a fixed pool of workers. Results
are printed as match descriptors:

  (path)[row,col,pos,len]line

Searches can be recorded in a local history database and the same
functionality is available to AI assistants through an MCP server.`,
		Version: Version,
		// main prints the error; silence cobra's copy and the usage text
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (YAML, TOML or JSON; default: .textfind.* or ~/.textfind/config.*)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "write diagnostics to stderr")
	flags.BoolVarP(&opts.archive, "archive", "a", false, "append diagnostics to the archive file")
	flags.StringVar(&opts.archivePath, "archive-path", "", "archive file (default: <executable>.log)")
	flags.StringVar(&opts.logLevel, "log-level", "", "minimum diagnostic level: trace, debug, info, warn, error")
	flags.BoolVar(&opts.timestamps, "timestamps", false, "prefix diagnostics with the time")
	flags.IntVarP(&opts.workers, "workers", "w", 0, "number of concurrent workers (default: number of CPUs)")

	cmd.AddCommand(NewFindCommand(opts))
	cmd.AddCommand(NewDecodeCommand())
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// load resolves the configuration for cmd: defaults, then the config file,
// then TEXTFIND_* variables, then flags the user set explicitly. It also
// configures the process-wide diagnostic logger.
func (o *globalOptions) load(cmd *cobra.Command) (config.Config, *tracelog.TraceLogger, error) {
	explicit := o.configPath
	if explicit == "" {
		explicit = os.Getenv(config.EnvConfig)
	}
	workDir, _ := os.Getwd()
	home, _ := os.UserHomeDir()

	path, err := config.Find(explicit, workDir, home)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to find config: %w", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.ApplyEnv(&cfg, os.Getenv); err != nil {
		return config.Config{}, nil, fmt.Errorf("invalid environment: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Log.Verbose = o.verbose
	}
	if flags.Changed("archive") {
		cfg.Log.Archive = o.archive
	}
	if flags.Changed("archive-path") {
		cfg.Log.ArchivePath = o.archivePath
		cfg.Log.Archive = true
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("timestamps") {
		cfg.Log.Timestamps = o.timestamps
	}
	if flags.Changed("workers") {
		cfg.Search.Workers = o.workers
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}

	logger := tracelog.Default()
	if err := logger.Configure(cfg.TraceOptions()); err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to configure logging: %w", err)
	}
	if path != "" {
		logger.LogDebug(fmt.Sprintf("config loaded from %s", path))
	}

	return cfg, logger, nil
}
