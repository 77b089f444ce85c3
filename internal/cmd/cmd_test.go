package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/textfind/internal/config"
	"github.com/dshills/textfind/internal/descriptor"
)

// isolate keeps the user's config files and TEXTFIND_* variables out of a test
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		config.EnvConfig, config.EnvWorkers, config.EnvVerbose, config.EnvArchive,
		config.EnvArchivePath, config.EnvLogLevel, config.EnvTimestamps,
		config.EnvHistory, config.EnvHistoryPath,
	} {
		t.Setenv(key, "")
	}
	return home
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFind_Descriptors(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "alpha\nbeta TODO\n")

	out, err := execute(t, "find", "-p", "TODO", a)
	require.NoError(t, err)
	assert.Equal(t, "("+a+")[2,5,11,4]beta TODO\n", out)
}

func TestFind_NoMatchesPrintsNothing(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "nothing here\n")

	out, err := execute(t, "find", "-p", "TODO", a)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFind_MultipleFilesAndPatterns(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "foo bar\n")
	b := writeFile(t, dir, "b.txt", "bar\nfoo\n")

	out, err := execute(t, "find", "-w", "2", "-p", "foo", "-p", "bar", a, b)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.ElementsMatch(t, []string{
		"(" + a + ")[1,0,0,3]foo bar",
		"(" + a + ")[1,4,4,3]foo bar",
		"(" + b + ")[1,0,0,3]bar",
		"(" + b + ")[2,0,4,3]foo",
	}, lines)
}

func TestFind_MissingFileFails(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "TODO\n")

	out, err := execute(t, "find", "-p", "TODO", a, filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
	assert.Empty(t, out)
}

func TestFind_RequiresPattern(t *testing.T) {
	isolate(t)
	_, err := execute(t, "find", "a.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--pattern")
}

func TestFind_RejectsUnknownFormat(t *testing.T) {
	isolate(t)
	_, err := execute(t, "find", "-p", "x", "--format", "xml", "a.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestFind_JSON(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "  say hello  \n")

	out, err := execute(t, "find", "-p", "hello", "--format", "json", a)
	require.NoError(t, err)

	var got struct {
		Matches []matchJSON `json:"matches"`
		Count   int         `json:"count"`
		Files   int         `json:"files"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, 1, got.Files)
	require.Len(t, got.Matches, 1)
	assert.Equal(t, matchJSON{Path: a, Row: 1, Col: 6, Pos: 6, Len: 5, Line: "say hello"}, got.Matches[0])
}

func TestFind_Table(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "x TODO "+strings.Repeat("y", 100)+"\n")

	out, err := execute(t, "find", "-p", "TODO", "--format", "table", a)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "PATH"))
	assert.Contains(t, lines[1], a)
	assert.True(t, strings.HasSuffix(lines[1], ellipsis))
}

func TestFind_RecordAndHistory(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "hist", "history.db")
	t.Setenv(config.EnvHistoryPath, dbPath)
	a := writeFile(t, dir, "a.txt", "TODO one\nTODO two\n")

	_, err := execute(t, "find", "--record", "-p", "TODO", a)
	require.NoError(t, err)

	out, err := execute(t, "history")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	fields := strings.Fields(lines[1])
	runID := fields[0]
	assert.Contains(t, lines[1], "ok")
	assert.Contains(t, lines[1], "TODO")

	out, err = execute(t, "history", "show", runID)
	require.NoError(t, err)
	assert.Contains(t, out, "Run:      "+runID)
	assert.Contains(t, out, "Matches:  2")
	assert.Contains(t, out, "("+a+")[1,0,0,4]TODO one")
	assert.Contains(t, out, "("+a+")[2,0,9,4]TODO two")

	out, err = execute(t, "history", "delete", runID)
	require.NoError(t, err)
	assert.Equal(t, "deleted "+runID+"\n", out)

	out, err = execute(t, "history")
	require.NoError(t, err)
	assert.Equal(t, "no runs recorded\n", out)
}

func TestFind_RecordsFailedRun(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	t.Setenv(config.EnvHistoryPath, filepath.Join(dir, "history.db"))
	t.Setenv(config.EnvHistory, "true")

	_, err := execute(t, "find", "-p", "TODO", filepath.Join(dir, "missing.txt"))
	require.Error(t, err)

	out, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "failed")
}

func TestHistory_WithoutDatabase(t *testing.T) {
	isolate(t)
	t.Setenv(config.EnvHistoryPath, filepath.Join(t.TempDir(), "absent.db"))

	_, err := execute(t, "history")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestDecode(t *testing.T) {
	isolate(t)

	out, err := execute(t, "decode", "(a.go)[3,0,41,4]TODO: tidy")
	require.NoError(t, err)
	assert.Equal(t, "a.go\t3\t0\t41\t4\tTODO: tidy\n", out)
}

func TestDecode_PermissiveDropsStrayCharacters(t *testing.T) {
	isolate(t)

	out, err := execute(t, "decode", "(a.go)[3x,0,41,4]line")
	require.NoError(t, err)
	assert.Equal(t, "a.go\t3\t0\t41\t4\tline\n", out)
}

func TestDecode_Strict(t *testing.T) {
	isolate(t)

	_, err := execute(t, "decode", "--strict", "(a.go)[3x,0,41,4]line")
	require.Error(t, err)
	assert.ErrorIs(t, err, descriptor.ErrMalformed)
}

func TestConfigFileAndFlagPrecedence(t *testing.T) {
	home := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".textfind"), 0755))
	writeFile(t, filepath.Join(home, ".textfind"), "config.yaml", "search:\n  workers: -3\n")

	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "TODO\n")

	_, err := execute(t, "find", "-p", "TODO", a)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidWorkers)

	_, err = execute(t, "find", "-w", "2", "-p", "TODO", a)
	assert.NoError(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "textfind "+Version)
	assert.Contains(t, out, "SQLite Driver:")
}

func TestTruncateWidth(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"cut", "hello world", 6, "hello" + ellipsis},
		{"tabs", "a\tb", 10, "a b"},
		{"wide runes", "日本語テキスト", 7, "日本語" + ellipsis},
		{"zero width", "abc", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncateWidth(tt.in, tt.width))
		})
	}
}
