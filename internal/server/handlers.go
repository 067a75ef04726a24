package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/roster-attendance/internal/attendance"
	"github.com/ironsheep/roster-attendance/internal/batch"
	"github.com/ironsheep/roster-attendance/internal/imaging"
	"github.com/ironsheep/roster-attendance/internal/roster"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "roster_parse", "attendance_tally").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// argError marks a tool failure caused by the caller's arguments.
type argError struct {
	err error
}

func (e *argError) Error() string { return e.err.Error() }
func (e *argError) Unwrap() error { return e.err }

func badArgs(format string, a ...interface{}) error {
	return &argError{err: fmt.Errorf(format, a...)}
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Invalid arguments return -32602; any other tool error returns -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		var ae *argError
		if errors.As(err, &ae) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "roster_parse":
		return s.handleRosterParse(args)
	case "image_ocr":
		return s.handleImageOCR(ctx, args)
	case "attendance_tally":
		return s.handleAttendanceTally(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, dst interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return badArgs("missing arguments")
	}
	if err := json.Unmarshal(args, dst); err != nil {
		return &argError{err: err}
	}
	return nil
}

// === Parser ===

type rosterParseArgs struct {
	Text string `json:"text"`
}

type rosterParseResult struct {
	Students int           `json:"students"`
	Entries  roster.Record `json:"entries"`
}

func (s *Server) handleRosterParse(args json.RawMessage) (interface{}, error) {
	var a rosterParseArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	rec, err := roster.Parse(a.Text)
	if err != nil {
		return nil, err
	}
	return rosterParseResult{Students: len(rec), Entries: rec}, nil
}

// === Extraction ===

type imageOCRArgs struct {
	Path         string  `json:"path"`
	IncludeImage bool    `json:"include_image"`
	Scale        float64 `json:"scale"`
}

type imageOCRResult struct {
	Path      string                 `json:"path"`
	Width     int                    `json:"width"`
	Height    int                    `json:"height"`
	Threshold uint8                  `json:"threshold"`
	Text      string                 `json:"text"`
	Binarized *imaging.PreviewResult `json:"binarized,omitempty"`
}

func (s *Server) handleImageOCR(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageOCRArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, badArgs("path is required")
	}
	if a.Scale < 0 || a.Scale > imaging.MaxPreviewScale {
		return nil, badArgs("scale must be between 0 and %.0f, got %v", imaging.MaxPreviewScale, a.Scale)
	}

	ex, err := s.extractor.ExtractDetailed(ctx, a.Path)
	if err != nil {
		return nil, err
	}
	result := imageOCRResult{Path: a.Path, Threshold: ex.Threshold, Text: ex.Text}
	if ex.Binary != nil {
		result.Width, result.Height = imaging.Dimensions(ex.Binary)
		if a.IncludeImage {
			preview, err := imaging.Preview(ex.Binary, a.Scale)
			if err != nil {
				return nil, err
			}
			result.Binarized = preview
		}
	}
	return result, nil
}

// === Batch ===

type attendanceTallyArgs struct {
	Paths          []string `json:"paths"`
	Workers        int      `json:"workers"`
	AdmissionLimit int      `json:"admission_limit"`
}

type attendanceTallyResult struct {
	BatchID   string                    `json:"batch_id"`
	Total     int                       `json:"total"`
	Processed int                       `json:"processed"`
	Missing   []string                  `json:"missing,omitempty"`
	Failures  []batch.Failure           `json:"failures,omitempty"`
	Students  []attendance.StudentCount `json:"students"`
}

func (s *Server) handleAttendanceTally(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a attendanceTallyArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, badArgs("paths must list at least one image")
	}

	workers := s.cfg.Workers
	if a.Workers != 0 {
		workers = a.Workers
	}
	limit := s.cfg.AdmissionLimit
	if a.AdmissionLimit != 0 {
		limit = a.AdmissionLimit
	}
	if workers < 1 {
		return nil, badArgs("workers must be at least 1, got %d", workers)
	}
	if limit < 1 || limit > workers {
		return nil, badArgs("admission_limit must be between 1 and workers (%d), got %d", workers, limit)
	}

	kept, missing := batch.ExistingFiles(a.Paths)
	if len(kept) == 0 {
		return nil, fmt.Errorf("none of the %d paths is a readable file: %w", len(a.Paths), batch.ErrNoImages)
	}

	d := batch.New(s.extractor, batch.WithWorkers(workers), batch.WithAdmissionLimit(limit))
	report, err := d.Run(ctx, kept)
	if err != nil {
		return nil, err
	}

	return attendanceTallyResult{
		BatchID:   report.BatchID,
		Total:     report.Total,
		Processed: report.Processed,
		Missing:   missing,
		Failures:  report.Failures,
		Students:  report.Counts.Sorted(),
	}, nil
}
