package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/blackwell-systems/repoeval/internal/evaluate"
	"github.com/blackwell-systems/repoeval/internal/snapshot"
)

// protocolVersion is the MCP revision this server speaks.
const protocolVersion = "2024-11-05"

// maxMessageSize bounds a single request line. score_snapshot carries whole
// snapshots inline, so the scanner default of 64 KiB is too small.
const maxMessageSize = 8 << 20

// JSON-RPC 2.0 error codes.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// Fetcher assembles a snapshot for a repository. *github.Client satisfies it.
type Fetcher interface {
	FetchSnapshot(ctx context.Context, owner, repo string) (*snapshot.Snapshot, error)
}

// Server is an MCP stdio server: newline-delimited JSON-RPC 2.0 in, one
// response line per request out.
type Server struct {
	tools     []toolDef
	index     map[string]int
	fetcher   Fetcher
	evaluator *evaluate.Evaluator
	version   string
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for tool call diagnostics. It must not
// write to the protocol stream.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// toolDef describes a registered MCP tool.
type toolDef struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     toolHandler
}

// toolHandler runs a tool. ctx is the server's run context.
type toolHandler func(ctx context.Context, args json.RawMessage) (any, error)

// rpcMethod answers one JSON-RPC method. A non-nil error becomes the
// response's error member.
type rpcMethod func(ctx context.Context, params json.RawMessage) (any, *jsonrpcError)

type jsonrpcRequest struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type jsonrpcResponse struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Result  any              `json:"result,omitempty"`
	Error   *jsonrpcError    `json:"error,omitempty"`
}

type jsonrpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type toolsCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// toolsCallResult wraps a tool result as MCP content.
type toolsCallResult struct {
	Content []mcpContent `json:"content"`
	IsError bool         `json:"isError"`
}

type mcpContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type toolListEntry struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// NewServer constructs a Server that evaluates repositories read through f.
// A nil fetcher leaves evaluate_repository registered but failing, which is
// enough for offline snapshot scoring.
func NewServer(f Fetcher, e *evaluate.Evaluator, version string, opts ...Option) *Server {
	s := &Server{
		index:     make(map[string]int),
		fetcher:   f,
		evaluator: e,
		version:   version,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(s)
	}
	addTools(s)
	return s
}

// registerTool adds def to the tool list. A second registration under the
// same name replaces the first in place.
func (s *Server) registerTool(def toolDef) {
	if i, ok := s.index[def.Name]; ok {
		s.tools[i] = def
		return
	}
	s.index[def.Name] = len(s.tools)
	s.tools = append(s.tools, def)
}

// Run serves requests from r until ctx is cancelled or r reaches EOF, both of
// which return nil. Read and write failures are returned.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	lines, readErr := readLines(ctx, r)
	bw := bufio.NewWriter(w)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return err
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			resp, reply := s.handle(ctx, line)
			if !reply {
				continue
			}
			if err := writeResponse(bw, resp); err != nil {
				return err
			}
		}
	}
}

// readLines streams input lines until EOF, a read error or cancellation. The
// line channel is closed on EOF only.
func readLines(ctx context.Context, r io.Reader) (<-chan []byte, <-chan error) {
	lines := make(chan []byte)
	errs := make(chan error, 1)

	go func() {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxMessageSize)
		for sc.Scan() {
			line := append([]byte(nil), sc.Bytes()...)
			if len(line) == 0 {
				continue
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			errs <- fmt.Errorf("reading request: %w", err)
			return
		}
		close(lines)
	}()

	return lines, errs
}

// handle decodes one request line. reply is false for notifications.
func (s *Server) handle(ctx context.Context, line []byte) (resp jsonrpcResponse, reply bool) {
	resp.JSONRPC = "2.0"

	var req jsonrpcRequest
	if err := json.Unmarshal(line, &req); err != nil {
		null := json.RawMessage("null")
		resp.ID = &null
		resp.Error = &jsonrpcError{Code: codeParseError, Message: "Parse error"}
		return resp, true
	}
	if req.ID == nil {
		return resp, false
	}
	resp.ID = req.ID

	if req.JSONRPC != "2.0" {
		resp.Error = &jsonrpcError{Code: codeInvalidRequest, Message: "Invalid Request"}
		return resp, true
	}

	m := s.method(req.Method)
	if m == nil {
		resp.Error = &jsonrpcError{Code: codeMethodNotFound, Message: "Method not found"}
		return resp, true
	}
	resp.Result, resp.Error = m(ctx, req.Params)
	return resp, true
}

func (s *Server) method(name string) rpcMethod {
	switch name {
	case "initialize":
		return s.initialize
	case "ping":
		return func(context.Context, json.RawMessage) (any, *jsonrpcError) {
			return map[string]any{}, nil
		}
	case "tools/list":
		return s.listTools
	case "tools/call":
		return s.callTool
	}
	return nil
}

func (s *Server) initialize(context.Context, json.RawMessage) (any, *jsonrpcError) {
	return map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    "repoeval",
			"version": s.version,
		},
	}, nil
}

func (s *Server) listTools(context.Context, json.RawMessage) (any, *jsonrpcError) {
	entries := make([]toolListEntry, len(s.tools))
	for i, t := range s.tools {
		entries[i] = toolListEntry{Name: t.Name, Description: t.Description, InputSchema: t.InputSchema}
	}
	return map[string]any{"tools": entries}, nil
}

// callTool runs a tool. Tool failures are reported in-band with isError so
// the client model can read them; only malformed params are protocol errors.
func (s *Server) callTool(ctx context.Context, raw json.RawMessage) (any, *jsonrpcError) {
	var params toolsCallParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, &jsonrpcError{Code: codeInvalidParams, Message: "Invalid params"}
	}

	i, ok := s.index[params.Name]
	if !ok {
		return textResult(fmt.Sprintf("unknown tool: %s", params.Name), true), nil
	}

	args := params.Arguments
	if args == nil {
		args = json.RawMessage(`{}`)
	}

	start := time.Now()
	result, err := s.tools[i].Handler(ctx, args)
	if err != nil {
		s.logger.Warn("mcp tool failed", "tool", params.Name, "err", err)
		return textResult(err.Error(), true), nil
	}
	s.logger.Debug("mcp tool call", "tool", params.Name, "duration", time.Since(start))

	text, err := json.Marshal(result)
	if err != nil {
		return textResult(err.Error(), true), nil
	}
	return textResult(string(text), false), nil
}

func textResult(text string, isError bool) toolsCallResult {
	return toolsCallResult{
		Content: []mcpContent{{Type: "text", Text: text}},
		IsError: isError,
	}
}

// writeResponse writes resp as one JSON line and flushes.
func writeResponse(bw *bufio.Writer, resp jsonrpcResponse) error {
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return bw.Flush()
}
