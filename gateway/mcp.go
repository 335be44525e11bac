package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/graphbridge/graphbridge/database"
	"github.com/graphbridge/graphbridge/introspect"
	"github.com/graphbridge/graphbridge/util"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "graphbridge"
	serverVersion = "0.1.0"

	defaultSampleLimit = 5
)

const agentPrompt = `You are a graph analyst working against a Neo4j database through the tools of this server.

Workflow:
1. Call get_graph_schema first to learn the node labels, relationship types, and property keys that actually exist. Never guess at names.
2. Call get_graph_stats to understand how much data you are working with.
3. Use sample_nodes to inspect concrete property values for a label before filtering on them.
4. Answer questions by composing read-only Cypher and submitting it to query_runner.

Rules for query_runner:
- Only read-only Cypher is accepted. Queries containing mutation keywords are refused.
- Results are capped at 25 rows unless your query sets its own LIMIT.
- "No results found." means the query ran but matched nothing. Loosen your filters and retry rather than assuming the data is absent.`

// Server wires the store-backed tools into an MCP server that speaks stdio.
type Server struct {
	db  database.Instance
	mcp *server.MCPServer
}

func NewServer(db database.Instance) *Server {
	s := &Server{
		db:  db,
		mcp: server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(false)),
	}

	s.mcp.AddTool(mcp.NewTool(
		"get_graph_schema",
		mcp.WithDescription("Summarize the graph's node labels, relationship types, property keys, and the most common properties per label."),
	), s.handleGetSchema)

	s.mcp.AddTool(mcp.NewTool(
		"get_graph_stats",
		mcp.WithDescription("Report how many nodes and relationships the graph contains."),
	), s.handleGetStats)

	s.mcp.AddTool(mcp.NewTool(
		"sample_nodes",
		mcp.WithDescription("Fetch the properties of a few nodes carrying the given label."),
		mcp.WithString("label", mcp.Required(), mcp.Description("The node label to sample.")),
		mcp.WithNumber("limit", mcp.Description("How many nodes to fetch. Defaults to 5.")),
	), s.handleSampleNodes)

	s.mcp.AddTool(mcp.NewTool(
		"query_runner",
		mcp.WithDescription("Run a read-only Cypher query against the graph and return the rows as text."),
		mcp.WithString("query", mcp.Required(), mcp.Description("The Cypher query to run. Mutation keywords are refused.")),
	), s.handleQueryRunner)

	s.mcp.AddPrompt(mcp.NewPrompt(
		"cypher_agent_prompt",
		mcp.WithPromptDescription("Operating instructions for an agent querying the graph through this server."),
		mcp.WithArgument("question", mcp.ArgumentDescription("The question to answer against the graph.")),
	), s.handleAgentPrompt)

	return s
}

// ServeStdio blocks serving MCP over stdin and stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) handleGetSchema(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	schema, err := introspect.GetSchema(ctx, s.db)

	if err != nil {
		util.SLogError("schema introspection failed", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(schema.Format()), nil
}

func (s *Server) handleGetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	counts, err := introspect.GetCounts(ctx, s.db)

	if err != nil {
		util.SLogError("count introspection failed", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(counts.String()), nil
}

func (s *Server) handleSampleNodes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label, err := request.RequireString("label")

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	samples, err := introspect.SampleNodes(ctx, s.db, label, request.GetInt("limit", defaultSampleLimit))

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(samples) == 0 {
		return mcp.NewToolResultText(EmptyResultMessage), nil
	}

	builder := strings.Builder{}

	for idx, sample := range samples {
		if idx > 0 {
			builder.WriteString("---\n")
		}

		fmt.Fprintf(&builder, "%v\n", sample)
	}

	return mcp.NewToolResultText(builder.String()), nil
}

func (s *Server) handleQueryRunner(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rendered, err := RunQuery(ctx, s.db, query)

	if err != nil {
		util.SLogError("agent query failed", err, slog.String("query", query))
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(rendered), nil
}

func (s *Server) handleAgentPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	prompt := agentPrompt

	if question := request.Params.Arguments["question"]; question != "" {
		prompt = fmt.Sprintf("%s\n\nQuestion to answer:\n%s", agentPrompt, question)
	}

	return mcp.NewGetPromptResult("Graph querying instructions", []mcp.PromptMessage{
		mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(prompt)),
	}), nil
}
