package finder

import (
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/textfind/internal/descriptor"
	"github.com/dshills/textfind/internal/tracelog"
	"github.com/dshills/textfind/pkg/types"
)

// FileScanner scans one file for a set of patterns.
type FileScanner interface {
	Scan(path string, patterns []string) ([]types.Match, error)
}

// Finder fans a scan out over many files with a fixed pool of workers
type Finder struct {
	scanner FileScanner
	logger  tracelog.Logger

	// Worker pool configuration
	workers int
}

// Config contains configuration for the finder
type Config struct {
	Workers int             // Number of concurrent workers (default: runtime.NumCPU())
	Logger  tracelog.Logger // Diagnostic sink (default: discard)
}

// Report describes a completed multi-file search
type Report struct {
	Descriptors []string // nil when nothing matched
	Files       int      // Paths submitted
	Workers     int      // Workers spawned
	Duration    time.Duration
}

// Matches returns the number of descriptors in the report.
func (r *Report) Matches() int {
	return len(r.Descriptors)
}

// outcome is what one worker hands back at join time.
type outcome struct {
	partial []string
	scanned int
	err     error
}

// New creates a new Finder instance
func New(scanner FileScanner, config *Config) *Finder {
	if config == nil {
		config = &Config{}
	}

	workers := config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	logger := config.Logger
	if logger == nil {
		logger = tracelog.Nop()
	}

	return &Finder{
		scanner: scanner,
		logger:  logger,
		workers: workers,
	}
}

// Workers returns the number of workers spawned per search.
func (f *Finder) Workers() int {
	return f.workers
}

// SearchMany scans every path for patterns and returns the encoded matches.
// A nil slice with a nil error means nothing matched. If any file fails,
// the whole search fails and no matches are returned.
func (f *Finder) SearchMany(paths []string, patterns []string) ([]string, error) {
	report, err := f.Run(paths, patterns)
	if err != nil {
		return nil, err
	}
	return report.Descriptors, nil
}

// SearchManyOne is SearchMany with a single pattern.
func (f *Finder) SearchManyOne(paths []string, pattern string) ([]string, error) {
	return f.SearchMany(paths, []string{pattern})
}

// Run is SearchMany returning statistics alongside the matches.
//
// Matches from one file stay contiguous and in scan order. The order of
// files relative to each other is unspecified.
func (f *Finder) Run(paths []string, patterns []string) (*Report, error) {
	startTime := time.Now()
	pool := newPathPool(paths)
	outcomes := make([]outcome, f.workers)

	f.logger.LogDebug(fmt.Sprintf("search %d files for %d patterns with %d workers",
		len(paths), len(patterns), f.workers))

	var g errgroup.Group
	for i := 0; i < f.workers; i++ {
		g.Go(func() error {
			outcomes[i] = f.work(i, pool, patterns)
			return outcomes[i].err
		})
	}

	// Wait reports whichever failure happened first in time. The result
	// is decided by the first failure in spawn order below.
	_ = g.Wait()

	descriptors, failed, err := merge(outcomes)
	if err != nil {
		f.logger.LogError(fmt.Sprintf("search failed in worker %d: %v", failed, err))
		return nil, err
	}

	report := &Report{
		Descriptors: descriptors,
		Files:       len(paths),
		Workers:     f.workers,
		Duration:    time.Since(startTime),
	}

	f.logger.LogDebug(fmt.Sprintf("search finished: %d matches in %v", report.Matches(), report.Duration))
	return report, nil
}

// work claims paths until the pool is empty or a scan fails. A panic is
// turned into a ConcurrencyError for this worker.
func (f *Finder) work(id int, pool *pathPool, patterns []string) (out outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = outcome{err: &types.ConcurrencyError{Worker: id, Value: r}}
		}
	}()

	f.logger.LogTrace(fmt.Sprintf("worker %d started", id))

	for {
		path, ok := pool.Pop()
		if !ok {
			break
		}
		f.logger.LogTrace(fmt.Sprintf("worker %d claimed %s", id, path))

		matches, err := f.scanner.Scan(path, patterns)
		if err != nil {
			return outcome{err: err}
		}
		for _, m := range matches {
			out.partial = append(out.partial, descriptor.Encode(m))
		}
		out.scanned++
	}

	f.logger.LogTrace(fmt.Sprintf("worker %d finished after %d files", id, out.scanned))
	return out
}

// merge concatenates partial results in spawn order. The first failed
// outcome in that order wins and all partial results are dropped.
func merge(outcomes []outcome) (descriptors []string, failed int, err error) {
	for i, out := range outcomes {
		if out.err != nil {
			return nil, i, out.err
		}
	}
	for _, out := range outcomes {
		descriptors = append(descriptors, out.partial...)
	}
	return descriptors, -1, nil
}
