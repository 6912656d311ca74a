package devserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterMCP registers the event inspection tools on an MCP server, so an
// agent driving the dev loop can query what the components under test did.
func (s *Server) RegisterMCP(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "events_query",
		Description: "Query recorded custom element lifecycle events, newest first.",
	}, s.mcpEventsQuery)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "events_clear",
		Description: "Delete all recorded lifecycle events.",
	}, s.mcpEventsClear)
}

type eventsQueryArgs struct {
	Tag   string `json:"tag,omitempty" jsonschema:"filter by custom element tag name"`
	Hook  string `json:"hook,omitempty" jsonschema:"filter by lifecycle hook name"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of events (default 200)"`
}

type eventsQueryResult struct {
	Events []Event `json:"events"`
}

func (s *Server) mcpEventsQuery(ctx context.Context, _ *mcp.CallToolRequest, args eventsQueryArgs) (*mcp.CallToolResult, eventsQueryResult, error) {
	events, err := s.store.Query(ctx, args.Tag, args.Hook, args.Limit)
	if err != nil {
		return nil, eventsQueryResult{}, err
	}
	if events == nil {
		events = []Event{}
	}
	return nil, eventsQueryResult{Events: events}, nil
}

type eventsClearArgs struct{}

type eventsClearResult struct {
	Cleared bool `json:"cleared"`
}

func (s *Server) mcpEventsClear(ctx context.Context, _ *mcp.CallToolRequest, _ eventsClearArgs) (*mcp.CallToolResult, eventsClearResult, error) {
	if err := s.store.Clear(ctx); err != nil {
		return nil, eventsClearResult{}, err
	}
	return nil, eventsClearResult{Cleared: true}, nil
}
