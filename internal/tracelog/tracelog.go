package tracelog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// TimestampFormat is the layout used when timestamps are enabled.
const TimestampFormat = "2006-01-02 15:04:05.000"

// Logger is the diagnostic sink injected into scanners and finders.
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
}

// Options configures a TraceLogger.
type Options struct {
	Verbose     bool   // Write to the console
	Archive     bool   // Append to ArchivePath
	ArchivePath string // Defaults to DefaultArchivePath()
	Level       string // trace, debug, info, warn, error (default: info)
	Timestamps  bool   // Prefix every line with the local time
}

// TraceLogger writes leveled messages to a console and an archive file.
type TraceLogger struct {
	mutex       sync.Mutex
	console     io.Writer
	colorOutput bool
	verbose     bool
	archive     *archiveFile
	logLevel    string
	timestamps  bool
	now         func() time.Time
}

var (
	defaultLogger *TraceLogger
	defaultOnce   sync.Once
)

// Default returns the process-wide logger. It starts with both sinks off.
func Default() *TraceLogger {
	defaultOnce.Do(func() {
		defaultLogger = New(os.Stderr)
	})
	return defaultLogger
}

// New creates a TraceLogger whose verbose sink writes to console.
// Both sinks start disabled and the level starts at info.
func New(console io.Writer) *TraceLogger {
	return &TraceLogger{
		console:     console,
		colorOutput: isTerminal(console),
		logLevel:    "info",
		now:         time.Now,
	}
}

// Configure applies opts, opening or closing the archive as needed.
func (l *TraceLogger) Configure(opts Options) error {
	l.SetLevel(opts.Level)
	l.SetTimestamps(opts.Timestamps)
	l.SetVerbose(opts.Verbose)

	if !opts.Archive {
		return l.SetArchive("")
	}
	path := opts.ArchivePath
	if path == "" {
		path = DefaultArchivePath()
	}
	return l.SetArchive(path)
}

// SetVerbose toggles the console sink.
func (l *TraceLogger) SetVerbose(verbose bool) {
	l.mutex.Lock()
	l.verbose = verbose
	l.mutex.Unlock()

	if verbose {
		l.LogInfo("verbose started")
	}
}

// IsVerbose reports whether the console sink is enabled.
func (l *TraceLogger) IsVerbose() bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.verbose
}

// SetArchive starts appending to the file at path. An empty path stops
// archiving and closes the current file.
func (l *TraceLogger) SetArchive(path string) error {
	var next *archiveFile
	if path != "" {
		var err error
		next, err = openArchive(path)
		if err != nil {
			return err
		}
	}

	l.mutex.Lock()
	prev := l.archive
	l.archive = next
	l.mutex.Unlock()

	if prev != nil {
		if err := prev.close(); err != nil {
			return err
		}
	}

	if next != nil {
		l.LogInfo("archive started")
	}
	return nil
}

// IsArchive reports whether the archive sink is enabled.
func (l *TraceLogger) IsArchive() bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.archive != nil
}

// ArchivePath returns the current archive file, or "" when archiving is off.
func (l *TraceLogger) ArchivePath() string {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if l.archive == nil {
		return ""
	}
	return l.archive.path
}

// SetLevel sets the minimum level. Unknown levels fall back to info.
func (l *TraceLogger) SetLevel(level string) {
	l.mutex.Lock()
	l.logLevel = normalizeLogLevel(level)
	l.mutex.Unlock()
}

// Level returns the current minimum level.
func (l *TraceLogger) Level() string {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.logLevel
}

// SetTimestamps toggles the time prefix.
func (l *TraceLogger) SetTimestamps(on bool) {
	l.mutex.Lock()
	l.timestamps = on
	l.mutex.Unlock()
}

// Close stops archiving. It is safe to call more than once.
func (l *TraceLogger) Close() error {
	return l.SetArchive("")
}

// LogTrace logs a trace-level message (most verbose).
func (l *TraceLogger) LogTrace(message string) {
	l.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (l *TraceLogger) LogDebug(message string) {
	l.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (l *TraceLogger) LogInfo(message string) {
	l.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (l *TraceLogger) LogWarn(message string) {
	l.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (l *TraceLogger) LogError(message string) {
	l.logWithLevel("ERROR", message)
}

func (l *TraceLogger) logWithLevel(level string, message string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	toConsole := l.verbose && l.console != nil
	if !toConsole && l.archive == nil {
		return
	}
	if logLevelToInt(strings.ToLower(level)) < logLevelToInt(l.logLevel) {
		return
	}

	prefix := ""
	if l.timestamps {
		prefix = "[" + l.now().Format(TimestampFormat) + "] "
	}

	if toConsole {
		if l.colorOutput {
			_, _ = fmt.Fprintf(l.console, "%s[%s] %s\n", prefix, colorize(level), message)
		} else {
			_, _ = fmt.Fprintf(l.console, "%s[%s] %s\n", prefix, level, message)
		}
	}

	if l.archive != nil {
		// Archive failures must not break the caller; report them on stderr.
		if err := l.archive.write(fmt.Sprintf("%s[%s] %s\n", prefix, level, message)); err != nil {
			fmt.Fprintf(os.Stderr, "tracelog: %v\n", err)
		}
	}
}

// DefaultArchivePath returns "<executable stem>.log", or "archive.log" when
// the executable cannot be determined.
func DefaultArchivePath() string {
	exe, err := os.Executable()
	if err != nil {
		return "archive.log"
	}
	stem := strings.TrimSuffix(filepath.Base(exe), filepath.Ext(exe))
	if stem == "" || stem == "." {
		stem = "archive"
	}
	return stem + ".log"
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) LogTrace(string) {}
func (nopLogger) LogDebug(string) {}
func (nopLogger) LogInfo(string)  {}
func (nopLogger) LogWarn(string)  {}
func (nopLogger) LogError(string) {}

// isTerminal reports whether w is a color-capable terminal.
// NO_COLOR and non-TTY outputs disable color through color.NoColor.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	default:
		return "info"
	}
}

// ValidLevel reports whether level names a known log level.
func ValidLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func colorize(level string) string {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}
