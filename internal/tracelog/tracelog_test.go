package tracelog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVerboseLogger(t *testing.T) (*TraceLogger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	l := New(buf)
	l.SetVerbose(true)
	buf.Reset()
	return l, buf
}

func TestTraceLogger_SilentByDefault(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf)

	l.LogError("should not appear")
	l.LogInfo("nor this")

	assert.Empty(t, buf.String())
	assert.False(t, l.IsVerbose())
	assert.False(t, l.IsArchive())
}

func TestTraceLogger_Verbose(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf)
	l.SetVerbose(true)

	assert.Equal(t, "[INFO] verbose started\n", buf.String())

	buf.Reset()
	l.LogWarn("disk nearly full")
	assert.Equal(t, "[WARN] disk nearly full\n", buf.String())

	l.SetVerbose(false)
	buf.Reset()
	l.LogError("hidden")
	assert.Empty(t, buf.String())
}

func TestTraceLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		level string
		want  []string
	}{
		{"trace", []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}},
		{"debug", []string{"DEBUG", "INFO", "WARN", "ERROR"}},
		{"info", []string{"INFO", "WARN", "ERROR"}},
		{"warn", []string{"WARN", "ERROR"}},
		{"error", []string{"ERROR"}},
		{"bogus", []string{"INFO", "WARN", "ERROR"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l, buf := newVerboseLogger(t)
			l.SetLevel(tt.level)

			l.LogTrace("m")
			l.LogDebug("m")
			l.LogInfo("m")
			l.LogWarn("m")
			l.LogError("m")

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			require.Len(t, lines, len(tt.want))
			for i, lvl := range tt.want {
				assert.Equal(t, "["+lvl+"] m", lines[i])
			}
		})
	}
}

func TestTraceLogger_Timestamps(t *testing.T) {
	l, buf := newVerboseLogger(t)
	l.now = func() time.Time {
		return time.Date(2025, 1, 2, 15, 4, 5, 0, time.Local)
	}
	l.SetTimestamps(true)

	l.LogInfo("tick")
	assert.Equal(t, "[2025-01-02 15:04:05.000] [INFO] tick\n", buf.String())
}

func TestTraceLogger_Archive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "textfind.log")
	l := New(&bytes.Buffer{})
	l.SetLevel("debug")

	require.NoError(t, l.SetArchive(path))
	assert.True(t, l.IsArchive())
	assert.Equal(t, path, l.ArchivePath())

	l.LogDebug("scan a.txt")
	l.LogTrace("filtered out")
	require.NoError(t, l.Close())
	assert.False(t, l.IsArchive())
	assert.Empty(t, l.ArchivePath())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[INFO] archive started\n[DEBUG] scan a.txt\n", string(data))

	_, err = os.Stat(path + ".lock")
	assert.NoError(t, err)

	// Close is idempotent
	assert.NoError(t, l.Close())
}

func TestTraceLogger_ArchiveAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.log")
	require.NoError(t, os.WriteFile(path, []byte("earlier\n"), 0644))

	l := New(nil)
	require.NoError(t, l.SetArchive(path))
	l.LogWarn("later")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "earlier\n[INFO] archive started\n[WARN] later\n", string(data))
}

func TestTraceLogger_ArchiveOpenFailure(t *testing.T) {
	dir := t.TempDir()
	l := New(nil)

	// A directory cannot be opened for appending
	err := l.SetArchive(dir)
	assert.Error(t, err)
	assert.False(t, l.IsArchive())
}

func TestTraceLogger_Configure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.log")
	buf := &bytes.Buffer{}
	l := New(buf)

	err := l.Configure(Options{
		Verbose:     true,
		Archive:     true,
		ArchivePath: path,
		Level:       "warn",
	})
	require.NoError(t, err)
	assert.True(t, l.IsVerbose())
	assert.True(t, l.IsArchive())
	assert.Equal(t, "warn", l.Level())

	l.LogInfo("dropped")
	l.LogError("kept")

	require.NoError(t, l.Configure(Options{}))
	assert.False(t, l.IsVerbose())
	assert.False(t, l.IsArchive())
	assert.Equal(t, "info", l.Level())

	assert.Contains(t, buf.String(), "[ERROR] kept")
	assert.NotContains(t, buf.String(), "dropped")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[ERROR] kept\n", string(data))
}

func TestTraceLogger_ConcurrentArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent.log")
	l := New(nil)
	require.NoError(t, l.SetArchive(path))

	const goroutines, messages = 8, 50
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < messages; i++ {
				l.LogInfo(fmt.Sprintf("worker %d message %d", g, i))
			}
		}(g)
	}
	wg.Wait()
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	// One extra line for "archive started"
	assert.Len(t, lines, goroutines*messages+1)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "[INFO] "), line)
	}
}

func TestDefault(t *testing.T) {
	a := Default()
	b := Default()
	require.NotNil(t, a)
	assert.Same(t, a, b)
}

func TestNop(t *testing.T) {
	l := Nop()
	assert.NotPanics(t, func() {
		l.LogTrace("x")
		l.LogDebug("x")
		l.LogInfo("x")
		l.LogWarn("x")
		l.LogError("x")
	})
}

func TestNormalizeLogLevel(t *testing.T) {
	tests := map[string]string{
		"":        "info",
		"TRACE":   "trace",
		" Debug ": "debug",
		"warn":    "warn",
		"error":   "error",
		"verbose": "info",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeLogLevel(in), "input %q", in)
	}

	assert.True(t, ValidLevel("Warn"))
	assert.False(t, ValidLevel(""))
	assert.False(t, ValidLevel("loud"))
}

func TestDefaultArchivePath(t *testing.T) {
	path := DefaultArchivePath()
	assert.True(t, strings.HasSuffix(path, ".log"))
	assert.NotContains(t, path, string(filepath.Separator))
}
