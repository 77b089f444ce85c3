package mcp

import (
	"context"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/textfind/internal/config"
	"github.com/dshills/textfind/internal/finder"
	"github.com/dshills/textfind/internal/scanner"
	"github.com/dshills/textfind/internal/storage"
	"github.com/dshills/textfind/internal/tracelog"
)

const (
	// ServerName is the MCP server name
	ServerName = "textfind-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp     *server.MCPServer
	finder  *finder.Finder
	storage storage.Storage // nil when history is disabled
	logger  tracelog.Logger
	record  bool // Default for find_in_files "record"

	closeOnce sync.Once
	closeErr  error
}

// NewServer creates a new MCP server instance from cfg
func NewServer(cfg config.Config, logger tracelog.Logger) (*Server, error) {
	if logger == nil {
		logger = tracelog.Nop()
	}

	var store storage.Storage
	if cfg.History.Enabled {
		var err error
		store, err = openHistory(cfg.History.Path)
		if err != nil {
			return nil, err
		}
	}

	f := finder.New(scanner.New(nil, logger), &finder.Config{
		Workers: cfg.Search.Workers,
		Logger:  logger,
	})

	s := newServer(f, store, logger)
	s.record = cfg.History.Enabled
	return s, nil
}

// newServer wires the MCP server around ready-made components
func newServer(f *finder.Finder, store storage.Storage, logger tracelog.Logger) *Server {
	s := &Server{
		mcp:     server.NewMCPServer(ServerName, ServerVersion),
		finder:  f,
		storage: store,
		logger:  logger,
	}
	s.registerTools()
	return s
}

// openHistory opens the history database, creating its directory
func openHistory(path string) (storage.Storage, error) {
	dbPath, err := config.ExpandHome(path)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return store, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.Close() }()
	s.logger.LogInfo(fmt.Sprintf("%s %s serving on stdio", ServerName, ServerVersion))
	return server.ServeStdio(s.mcp)
}

// Close releases the history store, if any. It is safe to call more than once.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		if s.storage != nil {
			s.closeErr = s.storage.Close()
		}
	})
	return s.closeErr
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(findInFilesTool(), s.handleFindInFiles)
	s.mcp.AddTool(decodeDescriptorTool(), s.handleDecodeDescriptor)
	s.mcp.AddTool(listRunsTool(), s.handleListRuns)
	s.mcp.AddTool(getRunTool(), s.handleGetRun)
}
