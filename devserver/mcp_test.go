package devserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var testMCPImpl = &mcp.Implementation{Name: "domelement-dev-test", Version: "0.1.0"}

func mcpSession(t *testing.T, srv *Server) *mcp.ClientSession {
	t.Helper()

	mcpSrv := mcp.NewServer(testMCPImpl, nil)
	srv.RegisterMCP(mcpSrv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = mcpSrv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func mcpCallTool(t *testing.T, session *mcp.ClientSession, name string, args any) string {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if err := result.GetError(); err != nil {
		t.Fatalf("CallTool(%s) tool error: %v", name, err)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): expected TextContent", name)
	}
	return tc.Text
}

func TestMCP_EventsQuery(t *testing.T) {
	srv, store := newTestServer(t)

	store.RecordAsync(&Event{Tag: "x-counter", ElementID: "e1", Hook: HookConnected})
	store.RecordAsync(&Event{Tag: "x-other", ElementID: "e2", Hook: HookConnected})
	store.Close()

	session := mcpSession(t, srv)

	text := mcpCallTool(t, session, "events_query", map[string]any{"tag": "x-counter"})

	var resp eventsQueryResult
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Events) != 1 {
		t.Fatalf("events: got %d, want 1", len(resp.Events))
	}
	if resp.Events[0].Tag != "x-counter" {
		t.Errorf("tag: got %q, want %q", resp.Events[0].Tag, "x-counter")
	}
}

func TestMCP_EventsClear(t *testing.T) {
	srv, store := newTestServer(t)

	store.RecordAsync(&Event{Tag: "x-counter", ElementID: "e1", Hook: HookConnected})
	store.Close()

	session := mcpSession(t, srv)

	mcpCallTool(t, session, "events_clear", map[string]any{})

	events, err := store.Query(context.Background(), "", "", 0)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("events after clear: got %d, want 0", len(events))
	}
}
