package mcptools

import (
	"context"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps the MCP server instance exposing the Pentagram core.
type Server struct {
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server with every Pentagram tool registered
// against svc.
func NewServer(version string, svc *Service) *Server {
	s := server.NewMCPServer("pentagram", version, server.WithLogging())
	registerTools(s, svc)
	return &Server{mcpServer: s}
}

// Start runs the server in stdio mode (blocking).
func (s *Server) Start(ctx context.Context) error {
	stdioServer := server.NewStdioServer(s.mcpServer)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

func registerTools(s *server.MCPServer, svc *Service) {
	processTool := mcp.NewTool("process_experience",
		mcp.WithDescription("Route one experience through the full Pentagram cycle: four faculties vote in parallel, Orchestra then sets the expression tone from their votes, tensions are analyzed, and the Kernel produces a unified synthesis. Returns the complete PentagramResult as JSON."),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("The conversational content to process."),
		),
		mcp.WithString("user_id",
			mcp.Description("Scopes memory retrieval and storage to this user."),
		),
		mcp.WithString("group_id",
			mcp.Description("Optional group scope for shared memory."),
		),
		mcp.WithNumber("retrieve_top_k",
			mcp.Description("Number of prior memories the Ledger faculty should retrieve. Defaults to 5."),
		),
	)
	s.AddTool(processTool, handleProcessExperience(svc))

	driftTool := mcp.NewTool("check_drift",
		mcp.WithDescription("Aggregate proxy behavioral signals from recent cycles and check them against the identity topology. Returns a DriftReport as JSON."),
	)
	s.AddTool(driftTool, handleCheckDrift(svc))

	levelTool := mcp.NewTool("development_level",
		mcp.WithDescription("Report the current bounded development level, trend, and confidence computed over the recent cycle window. Returns a DevelopmentLevel as JSON."),
	)
	s.AddTool(levelTool, handleDevelopmentLevel(svc))

	proposeTool := mcp.NewTool("propose_identity_change",
		mcp.WithDescription("Validate a proposed change to the identity and queue it if approved or pending human review. Invariant regions are always rejected. Returns a ValidationResult as JSON."),
		mcp.WithString("region",
			mcp.Required(),
			mcp.Description("The flexible region or invariant the change targets."),
		),
		mcp.WithString("field",
			mcp.Required(),
			mcp.Description("The field within the region being changed."),
		),
		mcp.WithString("old_value",
			mcp.Description("The field's current value."),
		),
		mcp.WithString("new_value",
			mcp.Required(),
			mcp.Description("The field's proposed new value."),
		),
		mcp.WithString("evidence",
			mcp.Description("Why this change is warranted."),
		),
		mcp.WithString("proposing_vertex",
			mcp.Description("Which faculty is proposing this change (e.g. mirror)."),
		),
		mcp.WithNumber("confidence",
			mcp.Description("Confidence in this proposal, 0 to 1. Defaults to 0.5."),
		),
	)
	s.AddTool(proposeTool, handleProposeIdentityChange(svc))
}
