package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/textfind/internal/config"
	"github.com/dshills/textfind/internal/storage"
)

// ErrNoHistory is returned when the history database has never been created
var ErrNoHistory = errors.New("no search history recorded")

// NewHistoryCommand creates the history command and its subcommands
func NewHistoryCommand(opts *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded searches",
		Long: `List searches recorded with find --record or by the MCP server,
newest first. History is an audit log; it never answers a search.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load(cmd)
			if err != nil {
				return err
			}

			store, err := openExistingHistory(cfg.History.Path)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}
			return writeRuns(cmd.OutOrStdout(), runs)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs to list (0 lists all)")

	cmd.AddCommand(newHistoryShowCommand(opts))
	cmd.AddCommand(newHistoryDeleteCommand(opts))

	return cmd
}

func newHistoryShowCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Show a recorded search and its descriptors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load(cmd)
			if err != nil {
				return err
			}

			store, err := openExistingHistory(cfg.History.Path)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			run, err := store.GetRun(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("run %s: %w", args[0], err)
			}
			descriptors, err := store.ListDescriptors(cmd.Context(), run.ID)
			if err != nil {
				return fmt.Errorf("failed to list descriptors: %w", err)
			}

			out := cmd.OutOrStdout()
			writeRunDetail(out, run)
			for _, d := range descriptors {
				fmt.Fprintln(out, d)
			}
			return nil
		},
	}
}

func newHistoryDeleteCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete RUN_ID...",
		Short: "Delete recorded searches",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load(cmd)
			if err != nil {
				return err
			}

			store, err := openExistingHistory(cfg.History.Path)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			for _, id := range args {
				if err := store.DeleteRun(cmd.Context(), id); err != nil {
					return fmt.Errorf("run %s: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			}
			return nil
		},
	}
}

// openHistory opens (creating if needed) the history database at path
func openHistory(path string) (*storage.SQLiteStorage, error) {
	dbPath, err := config.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, nil
}

// openExistingHistory opens the history database for reading without
// creating an empty one as a side effect
func openExistingHistory(path string) (*storage.SQLiteStorage, error) {
	dbPath, err := config.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w at %s", ErrNoHistory, dbPath)
	}
	return openHistory(dbPath)
}

func writeRuns(w io.Writer, runs []*storage.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "no runs recorded")
		return err
	}

	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tFILES\tMATCHES\tSTATUS\tPATTERNS")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n",
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			run.Files(),
			run.Matches,
			runStatus(run),
			truncateWidth(strings.Join(run.Patterns, ", "), maxLineWidth/2),
		)
	}
	return tw.Flush()
}

func writeRunDetail(w io.Writer, run *storage.Run) {
	fmt.Fprintf(w, "Run:      %s\n", run.ID)
	fmt.Fprintf(w, "Started:  %s\n", run.StartedAt.Local().Format(time.DateTime))
	fmt.Fprintf(w, "Duration: %s\n", run.Duration)
	fmt.Fprintf(w, "Workers:  %d\n", run.Workers)
	fmt.Fprintf(w, "Patterns: %s\n", strings.Join(run.Patterns, ", "))
	fmt.Fprintf(w, "Files:    %d\n", run.Files())
	fmt.Fprintf(w, "Matches:  %d\n", run.Matches)
	fmt.Fprintf(w, "Status:   %s\n", runStatus(run))
	if run.Failed {
		fmt.Fprintf(w, "Error:    %s\n", run.Error)
	}
	if run.Matches > 0 {
		fmt.Fprintln(w)
	}
}

func runStatus(run *storage.Run) string {
	if run.Failed {
		return "failed"
	}
	return "ok"
}
