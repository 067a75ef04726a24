package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "roster_parse",
			Description: "Parse the OCR text of one roster sheet into student entries with their two session statuses. Fails when a session header is missing or the name and status lists differ in length.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": map[string]interface{}{
						"type":        "string",
						"description": "Raw text extracted from a roster sheet",
					},
				},
				"required": []string{"text"},
			},
		},
		{
			Name:        "image_ocr",
			Description: "Binarize a roster image with Otsu's threshold and return the text recognized on it, along with the threshold used.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return the binarized image as a base64 PNG",
						"default":     false,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Resize factor for the returned image (e.g., 0.5 for a smaller preview)",
						"default":     1.0,
						"minimum":     0,
						"maximum":     4,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "attendance_tally",
			Description: "Process a batch of roster images in parallel and return, per student, how many sessions they were present and absent. Images that cannot be read or parsed are skipped and listed as failures.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Absolute paths to roster images. Missing files are reported and skipped.",
						"minItems":    1,
					},
					"workers": map[string]interface{}{
						"type":        "integer",
						"description": "Worker pool size (default from configuration, 5)",
						"minimum":     1,
					},
					"admission_limit": map[string]interface{}{
						"type":        "integer",
						"description": "Workers allowed to wait on the shared tally at once (default from configuration, 3)",
						"minimum":     1,
					},
				},
				"required": []string{"paths"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
