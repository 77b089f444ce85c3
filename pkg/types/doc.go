// Package types provides shared type definitions for textfind.
//
// This package defines the domain types used across the scanner, the
// descriptor codec, the multi-file finder and the outer surfaces (CLI and
// MCP server).
//
// # Core Types
//
// Match represents one substring hit located inside a text file:
//
//	match := types.Match{
//	    Path: "notes.txt",
//	    Row:  2,    // second line
//	    Col:  5,    // byte offset inside the raw line
//	    Pos:  11,   // byte offset inside the file
//	    Len:  5,    // len("alpha")
//	    Line: "beta alpha",
//	}
//
// Rows are 1-based. Col and Pos are 0-based byte offsets and always satisfy
// Pos >= Col. Line holds the trimmed text of the line while Col is measured
// against the raw, untrimmed line, so Line[Col:] is not guaranteed to start
// with the pattern when the line has leading whitespace.
//
// # Errors
//
// Scans and searches fail with one of two kinds:
//
//	errors.Is(err, types.ErrIO)          // a file could not be opened or read
//	errors.Is(err, types.ErrConcurrency) // a worker could not complete
//
// The concrete values are *IOError and *ConcurrencyError, which carry the
// failing path or worker index:
//
//	var ioErr *types.IOError
//	if errors.As(err, &ioErr) {
//	    log.Printf("cannot %s %s", ioErr.Op, ioErr.Path)
//	}
package types
