// Package server implements the MCP (Model Context Protocol) server for the
// attendance tools.
//
// This package provides a JSON-RPC 2.0 server that exposes roster parsing,
// roster OCR and batch tallying through the MCP protocol, so an MCP client
// can run the same pipeline as the command-line tool.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - roster_parse: Parse the text of one sheet into entries
//   - image_ocr: Binarize one image and return its text and threshold
//   - attendance_tally: Run a batch of images and return per-student counts
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses with:
//   - code: -32602 for malformed or out-of-range arguments, -32000 for any
//     other tool failure, -32601 for unknown methods
//   - message: Human-readable error description
//   - data: The Go error string
//
// A batch in which some images fail is not an error: the failures are listed
// in the attendance_tally result next to the counts.
//
// # Usage
//
//	srv := server.New(cfg, nil)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal().Err(err).Msg("server stopped")
//	}
package server
