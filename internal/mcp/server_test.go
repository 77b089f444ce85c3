package mcp

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/textfind/internal/config"
)

func TestNewServer_HistoryDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Search.Workers = 2

	server, err := NewServer(cfg, nil)
	require.NoError(t, err)
	defer server.Close()

	assert.NotNil(t, server.mcp)
	assert.NotNil(t, server.finder)
	assert.Nil(t, server.storage)
	assert.False(t, server.record)
	assert.Equal(t, 2, server.finder.Workers())
}

func TestNewServer_HistoryEnabled(t *testing.T) {
	cfg := config.Default()
	cfg.History.Enabled = true
	cfg.History.Path = filepath.Join(t.TempDir(), "nested", "history.db")

	server, err := NewServer(cfg, nil)
	require.NoError(t, err)

	assert.NotNil(t, server.storage)
	assert.True(t, server.record)
	assert.FileExists(t, cfg.History.Path)
	assert.NoError(t, server.Close())
}

func TestNewServer_InMemoryHistory(t *testing.T) {
	cfg := config.Default()
	cfg.History.Enabled = true
	cfg.History.Path = ":memory:"

	server, err := NewServer(cfg, nil)
	require.NoError(t, err)
	defer server.Close()

	assert.NotNil(t, server.storage)
}

func TestServerClose_WithoutStorage(t *testing.T) {
	server, err := NewServer(config.Default(), nil)
	require.NoError(t, err)

	assert.NoError(t, server.Close())
	assert.NoError(t, server.Close())
}
