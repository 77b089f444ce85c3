package scanner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/dshills/textfind/internal/descriptor"
	"github.com/dshills/textfind/internal/tracelog"
	"github.com/dshills/textfind/pkg/types"
)

// Scanner searches single files for literal patterns
type Scanner struct {
	fs     billy.Basic
	logger tracelog.Logger
}

// New creates a Scanner. A nil fs selects the native filesystem and a nil
// logger discards diagnostics.
func New(fs billy.Basic, logger tracelog.Logger) *Scanner {
	if fs == nil {
		fs = osfs.Default
	}
	if logger == nil {
		logger = tracelog.Nop()
	}
	return &Scanner{
		fs:     fs,
		logger: logger,
	}
}

// Scan reports every first-per-line occurrence of each pattern in the file
// at path, ordered by line and then by pattern order.
func (s *Scanner) Scan(path string, patterns []string) ([]types.Match, error) {
	s.logger.LogDebug(fmt.Sprintf("scan %s for %d patterns", path, len(patterns)))

	f, err := s.fs.Open(path)
	if err != nil {
		s.logger.LogError(fmt.Sprintf("open %s: %v", path, err))
		return nil, &types.IOError{Path: path, Op: "open", Err: err}
	}
	defer func() { _ = f.Close() }()

	matches, err := s.scanReader(path, f, patterns)
	if err != nil {
		s.logger.LogError(fmt.Sprintf("read %s: %v", path, err))
		return nil, &types.IOError{Path: path, Op: "read", Err: err}
	}

	s.logger.LogDebug(fmt.Sprintf("scan %s found %d matches", path, len(matches)))
	return matches, nil
}

// ScanOne is Scan with a single pattern.
func (s *Scanner) ScanOne(path, pattern string) ([]types.Match, error) {
	return s.Scan(path, []string{pattern})
}

// ScanDescriptors is Scan with every match encoded as a descriptor.
func (s *Scanner) ScanDescriptors(path string, patterns []string) ([]string, error) {
	matches, err := s.Scan(path, patterns)
	if err != nil {
		return nil, err
	}
	return descriptor.EncodeAll(matches), nil
}

// scanReader walks r line by line. Raw lines keep their terminator so that
// offsets count it.
func (s *Scanner) scanReader(path string, r io.Reader, patterns []string) ([]types.Match, error) {
	var (
		matches []types.Match
		reader  = bufio.NewReader(r)
		row     = 1
		done    = 0
	)

	for {
		raw, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if raw == "" && err != nil {
			break
		}

		var trimmed string
		for _, pattern := range patterns {
			col := strings.Index(raw, pattern)
			if col < 0 {
				continue
			}
			if trimmed == "" {
				trimmed = strings.TrimSpace(raw)
			}
			m := types.Match{
				Path: path,
				Row:  row,
				Col:  col,
				Pos:  done + col,
				Len:  len(pattern),
				Line: trimmed,
			}
			s.logger.LogTrace(fmt.Sprintf("hit %q at %s:%d:%d", pattern, path, row, col))
			matches = append(matches, m)
		}

		row++
		done += len(raw)

		if err != nil {
			break
		}
	}

	return matches, nil
}
