package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/textfind/internal/descriptor"
	"github.com/dshills/textfind/internal/storage"
	"github.com/dshills/textfind/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams   = -32602 // Invalid method parameters
	ErrorCodeInternalError   = -32603 // Internal JSON-RPC error
	ErrorCodeSearchFailed    = -32001 // A file could not be opened or read
	ErrorCodeHistoryDisabled = -32002 // History is not enabled on this server
	ErrorCodeRunNotFound     = -32003 // No recorded run with that ID
)

// handleFindInFiles handles the find_in_files tool invocation
func (s *Server) handleFindInFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	paths, err := getStringSlice(args, "paths")
	if err != nil || len(paths) == 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "paths parameter is required", map[string]interface{}{
			"param":  "paths",
			"reason": reason(err, "missing or empty"),
		})
	}

	patterns, err := getStringSlice(args, "patterns")
	if err != nil || len(patterns) == 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "patterns parameter is required", map[string]interface{}{
			"param":  "patterns",
			"reason": reason(err, "missing or empty"),
		})
	}

	record := getBoolDefault(args, "record", s.record)
	if record && s.storage == nil {
		return nil, newMCPError(ErrorCodeHistoryDisabled, "history is not enabled", map[string]interface{}{
			"param": "record",
		})
	}

	started := time.Now()
	report, searchErr := s.finder.Run(paths, patterns)

	var runID string
	if record {
		run := &storage.Run{
			Patterns:  patterns,
			Paths:     paths,
			Workers:   s.finder.Workers(),
			StartedAt: started,
			Duration:  time.Since(started),
		}
		var descriptors []string
		if searchErr != nil {
			run.Failed = true
			run.Error = searchErr.Error()
		} else {
			descriptors = report.Descriptors
		}
		if err := s.storage.RecordRun(ctx, run, descriptors); err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "failed to record run", map[string]interface{}{
				"error": err.Error(),
			})
		}
		runID = run.ID
	}

	if searchErr != nil {
		data := map[string]interface{}{
			"error": searchErr.Error(),
		}
		var ioErr *types.IOError
		if errors.As(searchErr, &ioErr) {
			data["path"] = ioErr.Path
			data["op"] = ioErr.Op
		}
		if runID != "" {
			data["run_id"] = runID
		}
		return nil, newMCPError(ErrorCodeSearchFailed, "search failed", data)
	}

	matches := report.Descriptors
	if matches == nil {
		matches = []string{}
	}

	response := map[string]interface{}{
		"matches":     matches,
		"count":       report.Matches(),
		"files":       report.Files,
		"workers":     report.Workers,
		"duration_ms": report.Duration.Milliseconds(),
	}
	if runID != "" {
		response["run_id"] = runID
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleDecodeDescriptor handles the decode_descriptor tool invocation
func (s *Server) handleDecodeDescriptor(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	input, ok := args["descriptor"].(string)
	if !ok || input == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "descriptor parameter is required", map[string]interface{}{
			"param":  "descriptor",
			"reason": "missing or empty",
		})
	}

	response := map[string]interface{}{
		"fields": descriptor.Decode(input),
	}

	m, err := descriptor.Parse(input)
	if err != nil {
		response["valid"] = false
		response["strict_error"] = err.Error()
	} else {
		response["valid"] = true
		response["match"] = matchJSON(m)
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListRuns handles the list_runs tool invocation
func (s *Server) handleListRuns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		// list_runs has no required arguments
		args = map[string]interface{}{}
	}

	if s.storage == nil {
		return nil, newMCPError(ErrorCodeHistoryDisabled, "history is not enabled", nil)
	}

	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	runs, err := s.storage.ListRuns(ctx, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list runs", map[string]interface{}{
			"error": err.Error(),
		})
	}

	items := make([]map[string]interface{}, 0, len(runs))
	for _, run := range runs {
		items = append(items, runJSON(run))
	}

	response := map[string]interface{}{
		"runs":  items,
		"count": len(items),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetRun handles the get_run tool invocation
func (s *Server) handleGetRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	if s.storage == nil {
		return nil, newMCPError(ErrorCodeHistoryDisabled, "history is not enabled", nil)
	}

	id := getStringDefault(args, "run_id", "")
	if id == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "run_id parameter is required", map[string]interface{}{
			"param":  "run_id",
			"reason": "missing or empty",
		})
	}

	run, err := s.storage.GetRun(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeRunNotFound, "run not found", map[string]interface{}{
			"run_id": id,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get run", map[string]interface{}{
			"error": err.Error(),
		})
	}

	descriptors, err := s.storage.ListDescriptors(ctx, id)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list descriptors", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if descriptors == nil {
		descriptors = []string{}
	}

	response := runJSON(run)
	response["matches"] = descriptors
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

func matchJSON(m types.Match) map[string]interface{} {
	return map[string]interface{}{
		"path": m.Path,
		"row":  m.Row,
		"col":  m.Col,
		"pos":  m.Pos,
		"len":  m.Len,
		"line": m.Line,
	}
}

func runJSON(run *storage.Run) map[string]interface{} {
	out := map[string]interface{}{
		"run_id":      run.ID,
		"patterns":    run.Patterns,
		"paths":       run.Paths,
		"files":       run.Files(),
		"workers":     run.Workers,
		"count":       run.Matches,
		"failed":      run.Failed,
		"duration_ms": run.Duration.Milliseconds(),
		"started_at":  run.StartedAt.Format(time.RFC3339),
	}
	if run.Error != "" {
		out["error"] = run.Error
	}
	return out
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// getStringSlice extracts a string array parameter
func getStringSlice(args map[string]interface{}, key string) ([]string, error) {
	switch val := args[key].(type) {
	case nil:
		return nil, nil
	case []string:
		return val, nil
	case []interface{}:
		out := make([]string, 0, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", key, i)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s must be an array of strings", key)
	}
}

func reason(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}
