// Package tracelog provides the leveled diagnostic logger used by textfind.
//
// A TraceLogger has two independent sinks that can be toggled at runtime:
//
//   - verbose: messages are written to the console (stderr by default),
//     colored by level when the console is a terminal
//   - archive: messages are appended to a log file, by default
//     "<executable name>.log" in the working directory
//
// With both sinks off, logging is a no-op. Messages below the configured
// level (trace < debug < info < warn < error, default info) are dropped.
//
// # Output
//
//	[DEBUG] scan notes.txt for 2 patterns
//	[2025-01-02 15:04:05.000] [DEBUG] scan notes.txt for 2 patterns
//
// The second form is used when timestamps are enabled.
//
// # Process-wide Logger
//
// Default returns a lazily created process-wide logger, ready on first use:
//
//	log := tracelog.Default()
//	log.SetVerbose(true)
//	log.SetLevel("debug")
//	if err := log.SetArchive(tracelog.DefaultArchivePath()); err != nil {
//	    return err
//	}
//	defer log.Close()
//
// Components accept the Logger interface and fall back to Nop when none is
// given, so tests never write diagnostics unless they ask to.
//
// # Concurrency
//
// All methods are safe for concurrent use. Archive writes are serialized by
// an in-process mutex and, across processes, by an advisory lock on
// "<archive>.lock".
package tracelog
