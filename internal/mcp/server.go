package mcpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"blueprint/internal/domain"
	"blueprint/internal/engine"
	"blueprint/internal/service"
	"blueprint/internal/tree"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server is the MCP server for the Blueprint editor.
// It exposes tools, resources, and prompts so AI agents can read and edit
// the design document through the same command engine the UI uses.
type Server struct {
	mcp      *server.MCPServer
	emitter  EventEmitter
	approval *ApprovalQueue

	// Services (injected from app layer)
	docs  *service.DocumentService
	binds *service.DataBindService

	// Node construction collaborators
	registry domain.Registry
	gen      domain.IDGenerator
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Emitter    EventEmitter
	Docs       *service.DocumentService
	Binds      *service.DataBindService
	Registry   domain.Registry
	Gen        domain.IDGenerator
	ApprovalDB *sql.DB // When set, use SQLite-based approval (standalone mode)
}

// New creates and configures a new MCP server with all tools and resources.
func New(ctx context.Context, deps Deps) *Server {
	approval := NewApprovalQueue(ctx, deps.Emitter)
	if deps.ApprovalDB != nil {
		approval.SetDB(deps.ApprovalDB)
	}
	gen := deps.Gen
	if gen == nil {
		gen = engine.UUIDGenerator
	}
	reg := deps.Registry
	if reg == nil {
		reg = domain.NewBuiltinRegistry()
	}
	s := &Server{
		emitter:  deps.Emitter,
		approval: approval,
		docs:     deps.Docs,
		binds:    deps.Binds,
		registry: reg,
		gen:      gen,
	}

	s.mcp = server.NewMCPServer(
		"blueprint-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerNodeTools()
	s.registerPageTools()
	s.registerProjectTools()
	s.registerHistoryTools()
	s.registerComponentTools()
	s.registerDataBindTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// Approve forwards a user approval to the approval queue.
func (s *Server) Approve(actionID string) {
	s.approval.Approve(actionID)
}

// Reject forwards a user rejection to the approval queue.
func (s *Server) Reject(actionID string) {
	s.approval.Reject(actionID)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// currentProject returns the current project and validates it exists.
func (s *Server) currentProject() (*domain.Project, error) {
	state := s.docs.State()
	p := state.CurrentProject()
	if p == nil {
		return nil, fmt.Errorf("no current project")
	}
	return p, nil
}

// resolvePage returns the page for pageId, defaulting to the current page
// of the current project when pageId is empty.
func (s *Server) resolvePage(pageID string) (*domain.Page, error) {
	p, err := s.currentProject()
	if err != nil {
		return nil, err
	}
	if pageID == "" {
		pageID = p.CurrentPageID
	}
	page := p.Page(pageID)
	if page == nil {
		return nil, fmt.Errorf("page not found: %s", pageID)
	}
	return page, nil
}

// findNode locates a node on the current page and validates it exists.
func (s *Server) findNode(nodeID string) (*domain.Node, error) {
	if nodeID == "" {
		return nil, fmt.Errorf("nodeId is required")
	}
	page, err := s.resolvePage("")
	if err != nil {
		return nil, err
	}
	n := tree.Find(page.Tree, nodeID)
	if n == nil {
		return nil, fmt.Errorf("node not found: %s", nodeID)
	}
	return n, nil
}

// dispatch applies a command and maps a rejected command to an error so the
// agent learns the operation had no effect.
func (s *Server) dispatch(cmd engine.Command, what string) error {
	if !s.docs.Dispatch(cmd) {
		return fmt.Errorf("%s: no change (check ids and guards)", what)
	}
	return nil
}
