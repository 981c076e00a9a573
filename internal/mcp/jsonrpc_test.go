package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/repoeval/internal/evaluate"
)

// newEmptyServer creates a Server with no fetcher and the default policy.
func newEmptyServer() *Server {
	return NewServer(nil, evaluate.New(nil), "test")
}

// exchange feeds requests to s, one per line, runs it to EOF and returns
// the response lines.
func exchange(t *testing.T, s *Server, requests ...string) []string {
	t.Helper()
	in := strings.NewReader(strings.Join(requests, "\n") + "\n")
	var out bytes.Buffer
	require.NoError(t, s.Run(t.Context(), in, &out))

	trimmed := strings.TrimRight(out.String(), "\n")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

// one sends a single request and decodes its response into v.
func one(t *testing.T, s *Server, request string, v any) string {
	t.Helper()
	lines := exchange(t, s, request)
	require.Len(t, lines, 1)
	require.NoError(t, json.Unmarshal([]byte(lines[0]), v), lines[0])
	return lines[0]
}

func TestRun_Initialize(t *testing.T) {
	var parsed struct {
		Result struct {
			ProtocolVersion string `json:"protocolVersion"`
			ServerInfo      struct {
				Name    string `json:"name"`
				Version string `json:"version"`
			} `json:"serverInfo"`
		} `json:"result"`
	}
	one(t, newEmptyServer(), `{"jsonrpc":"2.0","id":1,"method":"initialize"}`, &parsed)

	assert.Equal(t, protocolVersion, parsed.Result.ProtocolVersion)
	assert.Equal(t, "repoeval", parsed.Result.ServerInfo.Name)
	assert.Equal(t, "test", parsed.Result.ServerInfo.Version)
}

func TestRun_ToolsList(t *testing.T) {
	s := newEmptyServer()
	s.registerTool(toolDef{
		Name:        "test_tool",
		Description: "A test tool",
		InputSchema: json.RawMessage(`{"type":"object","properties":{}}`),
		Handler: func(context.Context, json.RawMessage) (any, error) {
			return map[string]string{"ok": "true"}, nil
		},
	})

	var parsed struct {
		Result struct {
			Tools []toolListEntry `json:"tools"`
		} `json:"result"`
	}
	one(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`, &parsed)

	var names []string
	for _, tool := range parsed.Result.Tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.InputSchema, tool.Name)
	}
	assert.Equal(t, []string{"evaluate_repository", "score_snapshot", "get_policy", "test_tool"}, names)
}

func TestRun_ExactResponses(t *testing.T) {
	lines := exchange(t, newEmptyServer(),
		`{"jsonrpc":"2.0","id":"p1","method":"ping"}`,
		`{"jsonrpc":"2.0","id":3,"method":"nonexistent/method"}`,
		`{"jsonrpc":"1.0","id":7,"method":"ping"}`,
		`{"jsonrpc":`,
		`{"jsonrpc":"2.0","id":9,"method":"tools/call","params":"oops"}`,
	)
	assert.Equal(t, []string{
		`{"jsonrpc":"2.0","id":"p1","result":{}}`,
		`{"jsonrpc":"2.0","id":3,"error":{"code":-32601,"message":"Method not found"}}`,
		`{"jsonrpc":"2.0","id":7,"error":{"code":-32600,"message":"Invalid Request"}}`,
		`{"jsonrpc":"2.0","id":null,"error":{"code":-32700,"message":"Parse error"}}`,
		`{"jsonrpc":"2.0","id":9,"error":{"code":-32602,"message":"Invalid params"}}`,
	}, lines)
}

func TestRun_NotificationsAndBlankLines(t *testing.T) {
	lines := exchange(t, newEmptyServer(),
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`{"jsonrpc":"2.0","id":1,"method":"ping"}`,
	)
	assert.Equal(t, []string{`{"jsonrpc":"2.0","id":1,"result":{}}`}, lines)
}

func TestRun_ToolsCall(t *testing.T) {
	s := newEmptyServer()

	var parsed struct {
		Result toolsCallResult `json:"result"`
	}
	one(t, s, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"get_policy"}}`, &parsed)
	require.False(t, parsed.Result.IsError)
	require.Len(t, parsed.Result.Content, 1)
	assert.Equal(t, "text", parsed.Result.Content[0].Type)
	assert.Contains(t, parsed.Result.Content[0].Text, `"id":"standard@v1"`)

	parsed.Result = toolsCallResult{}
	one(t, s, `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"evaluate_repository","arguments":{"url":"nope"}}}`, &parsed)
	assert.True(t, parsed.Result.IsError, "invalid url is reported in-band")

	parsed.Result = toolsCallResult{}
	one(t, s, `{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"no_such_tool"}}`, &parsed)
	assert.True(t, parsed.Result.IsError)
	assert.Contains(t, parsed.Result.Content[0].Text, "unknown tool")
}

func TestRun_LargeSnapshot(t *testing.T) {
	content := strings.Repeat("x", 200*1024)
	req := `{"jsonrpc":"2.0","id":8,"method":"tools/call","params":{"name":"score_snapshot","arguments":{"snapshot":` +
		`{"metadata":{"name":"big"},"readme":{"content":"` + content + `","size":204800},"captured_at":"2026-10-01T12:00:00Z"}}}}`

	var parsed struct {
		Result toolsCallResult `json:"result"`
	}
	one(t, newEmptyServer(), req, &parsed)
	require.False(t, parsed.Result.IsError, parsed.Result.Content[0].Text)
	assert.Contains(t, parsed.Result.Content[0].Text, `"name":"big"`)
}

func TestRun_OversizedLineFails(t *testing.T) {
	in := strings.NewReader(strings.Repeat("x", maxMessageSize+1) + "\n")
	err := newEmptyServer().Run(t.Context(), in, io.Discard)
	assert.ErrorContains(t, err, "reading request")
}

func TestRun_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pr, pw := io.Pipe()
	defer pw.Close()

	done := make(chan error, 1)
	go func() { done <- newEmptyServer().Run(ctx, pr, io.Discard) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancel")
	}
}

func TestRun_EOFClean(t *testing.T) {
	assert.NoError(t, newEmptyServer().Run(t.Context(), strings.NewReader(""), io.Discard))
}

func TestRegisterTool_Replaces(t *testing.T) {
	s := newEmptyServer()
	n := len(s.tools)
	s.registerTool(toolDef{
		Name: "get_policy",
		Handler: func(context.Context, json.RawMessage) (any, error) {
			return "replaced", nil
		},
	})
	require.Len(t, s.tools, n)

	got, err := s.tools[s.index["get_policy"]].Handler(t.Context(), nil)
	require.NoError(t, err)
	assert.Equal(t, "replaced", got)
}
