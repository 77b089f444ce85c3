// Package mcp implements the Model Context Protocol (MCP) server for textfind.
//
// The MCP server exposes four tools to AI coding assistants:
//   - find_in_files: Search files for literal patterns
//   - decode_descriptor: Split a match descriptor into its fields
//   - list_runs: List recorded searches (history must be enabled)
//   - get_run: Show one recorded search and its matches
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// Stdout carries protocol messages only; diagnostics go to stderr or the
// archive file.
//
// # Basic Usage
//
// The MCP server is started via the serve command:
//
//	textfind serve
//	textfind --config ~/.textfind/config.yaml serve
//
// # Tool: find_in_files
//
//	Request:
//	{
//	  "name": "find_in_files",
//	  "arguments": {
//	    "paths": ["/var/log/app.log", "/var/log/worker.log"],
//	    "patterns": ["ERROR", "panic:"],
//	    "record": true
//	  }
//	}
//
//	Response:
//	{
//	  "matches": ["(/var/log/app.log)[12,20,981,5]2025-01-02 ERROR disk full"],
//	  "count": 1,
//	  "files": 2,
//	  "workers": 8,
//	  "duration_ms": 3,
//	  "run_id": "4c1f0f0e-8f5d-4f57-9d43-1c0e2f7b9a11"
//	}
//
// The order of matches across files is unspecified. If any file cannot be
// opened or read the call fails with code -32001 and no matches.
//
// # Tool: decode_descriptor
//
//	Request:  {"name": "decode_descriptor", "arguments": {"descriptor": "(a.txt)[2,5,11,5]beta alpha"}}
//	Response: {"fields": ["a.txt", "2", "5", "11", "5", "beta alpha"], "valid": true, "match": {...}}
//
// fields is always present. match is only present when the input is a
// well-formed descriptor; otherwise valid is false and strict_error says why.
//
// # Error Codes
//
//	-32602  invalid parameters
//	-32603  internal error
//	-32001  search failed (I/O)
//	-32002  history disabled
//	-32003  run not found
package mcp
