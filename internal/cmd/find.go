package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/textfind/internal/descriptor"
	"github.com/dshills/textfind/internal/finder"
	"github.com/dshills/textfind/internal/scanner"
	"github.com/dshills/textfind/internal/storage"
	"github.com/dshills/textfind/internal/tracelog"
)

// Output formats accepted by find --format
const (
	FormatDescriptors = "descriptors"
	FormatTable       = "table"
	FormatJSON        = "json"
)

// maxLineWidth bounds the LINE column of table output, in terminal cells
const maxLineWidth = 60

// NewFindCommand creates the find command
func NewFindCommand(opts *globalOptions) *cobra.Command {
	var (
		patterns []string
		format   string
		record   bool
	)

	cmd := &cobra.Command{
		Use:   "find -p PATTERN [-p PATTERN...] FILE...",
		Short: "Search files for literal substrings",
		Long: `Search every FILE for every PATTERN and print one match descriptor per hit.

Patterns are literal, case-sensitive substrings. Each pattern reports at
most its first occurrence on a line. Files are searched concurrently; if
any file cannot be read the whole search fails and nothing is printed.`,
		Example: `  textfind find -p TODO -p FIXME main.go util.go
  textfind find -p error --format table ./*.go
  textfind find -p panic --record -w 4 $(git ls-files '*.go')`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(patterns) == 0 {
				return fmt.Errorf("at least one --pattern is required")
			}
			if !validFormat(format) {
				return fmt.Errorf("unknown format %q (want %s, %s or %s)", format, FormatDescriptors, FormatTable, FormatJSON)
			}

			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Close() }()

			f := finder.New(scanner.New(nil, logger), &finder.Config{
				Workers: cfg.Search.Workers,
				Logger:  logger,
			})

			started := time.Now()
			report, runErr := f.Run(args, patterns)

			if cmd.Flags().Changed("record") {
				cfg.History.Enabled = record
			}
			if cfg.History.Enabled {
				if err := recordRun(cmd.Context(), cfg.History.Path, logger, patterns, args, f.Workers(), started, report, runErr); err != nil {
					logger.LogWarn(fmt.Sprintf("history not recorded: %v", err))
				}
			}

			if runErr != nil {
				return fmt.Errorf("search failed: %w", runErr)
			}

			return writeReport(cmd.OutOrStdout(), format, report)
		},
	}

	cmd.Flags().StringArrayVarP(&patterns, "pattern", "p", nil, "literal substring to search for (repeatable)")
	cmd.Flags().StringVar(&format, "format", FormatDescriptors, "output format: descriptors, table or json")
	cmd.Flags().BoolVar(&record, "record", false, "record the search in history (default: history.enabled)")

	return cmd
}

func validFormat(format string) bool {
	switch format {
	case FormatDescriptors, FormatTable, FormatJSON:
		return true
	}
	return false
}

// recordRun stores a finished search, successful or not, in the history database
func recordRun(ctx context.Context, path string, logger tracelog.Logger, patterns, paths []string, workers int, started time.Time, report *finder.Report, runErr error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := openHistory(path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	run := &storage.Run{
		Patterns:  patterns,
		Paths:     paths,
		Workers:   workers,
		StartedAt: started,
		Duration:  time.Since(started),
	}
	var descriptors []string
	if runErr != nil {
		run.Failed = true
		run.Error = runErr.Error()
	} else {
		descriptors = report.Descriptors
		run.Workers = report.Workers
		run.Duration = report.Duration
	}

	if err := store.RecordRun(ctx, run, descriptors); err != nil {
		return err
	}
	logger.LogInfo(fmt.Sprintf("recorded run %s", run.ID))
	return nil
}

func writeReport(w io.Writer, format string, report *finder.Report) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, report)
	case FormatTable:
		return writeTable(w, report.Descriptors)
	default:
		for _, d := range report.Descriptors {
			if _, err := fmt.Fprintln(w, d); err != nil {
				return err
			}
		}
		return nil
	}
}

type matchJSON struct {
	Path string `json:"path"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Pos  int    `json:"pos"`
	Len  int    `json:"len"`
	Line string `json:"line"`
}

func writeJSON(w io.Writer, report *finder.Report) error {
	matches := make([]matchJSON, 0, len(report.Descriptors))
	for _, d := range report.Descriptors {
		m, err := descriptor.Parse(d)
		if err != nil {
			return fmt.Errorf("invalid descriptor %q: %w", d, err)
		}
		matches = append(matches, matchJSON{
			Path: m.Path,
			Row:  m.Row,
			Col:  m.Col,
			Pos:  m.Pos,
			Len:  m.Len,
			Line: m.Line,
		})
	}

	out := struct {
		Matches    []matchJSON `json:"matches"`
		Count      int         `json:"count"`
		Files      int         `json:"files"`
		Workers    int         `json:"workers"`
		DurationMs int64       `json:"duration_ms"`
	}{
		Matches:    matches,
		Count:      len(matches),
		Files:      report.Files,
		Workers:    report.Workers,
		DurationMs: report.Duration.Milliseconds(),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeTable(w io.Writer, descriptors []string) error {
	if len(descriptors) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tROW\tCOL\tPOS\tLEN\tLINE")
	for _, d := range descriptors {
		fields := descriptor.Decode(d)
		if len(fields) != descriptor.FieldCount {
			return fmt.Errorf("invalid descriptor %q: %w", d, descriptor.ErrMalformed)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			fields[descriptor.FieldPath],
			fields[descriptor.FieldRow],
			fields[descriptor.FieldCol],
			fields[descriptor.FieldPos],
			fields[descriptor.FieldLen],
			truncateWidth(fields[descriptor.FieldLine], maxLineWidth),
		)
	}
	return tw.Flush()
}
