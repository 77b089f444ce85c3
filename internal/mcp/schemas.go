package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// findInFilesTool returns the tool definition for find_in_files
func findInFilesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "find_in_files",
		Description: "Find literal substrings in text files, reporting line, column and byte offset of each hit",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"paths": map[string]interface{}{
					"type":        "array",
					"description": "Files to search. Relative paths resolve against the server's working directory",
					"items": map[string]interface{}{
						"type": "string",
					},
					"minItems": 1,
				},
				"patterns": map[string]interface{}{
					"type":        "array",
					"description": "Literal strings to look for; each is reported at most once per line",
					"items": map[string]interface{}{
						"type": "string",
					},
					"minItems": 1,
				},
				"record": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, store the run in the search history (defaults to the server's history setting)",
				},
			},
			Required: []string{"paths", "patterns"},
		},
	}
}

// decodeDescriptorTool returns the tool definition for decode_descriptor
func decodeDescriptorTool() mcp.Tool {
	return mcp.Tool{
		Name:        "decode_descriptor",
		Description: "Split a match descriptor of the form (path)[row,col,pos,len]line into its fields",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"descriptor": map[string]interface{}{
					"type":        "string",
					"description": "Descriptor as returned by find_in_files",
				},
			},
			Required: []string{"descriptor"},
		},
	}
}

// listRunsTool returns the tool definition for list_runs
func listRunsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_runs",
		Description: "List recorded searches, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of runs to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
			},
		},
	}
}

// getRunTool returns the tool definition for get_run
func getRunTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_run",
		Description: "Show a recorded search together with the descriptors it produced",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"run_id": map[string]interface{}{
					"type":        "string",
					"description": "Run ID as returned by find_in_files or list_runs",
				},
			},
			Required: []string{"run_id"},
		},
	}
}
