package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/nfalab"
	"github.com/aretw0/nfalab/internal/presentation/graph"
	"github.com/aretw0/nfalab/internal/share"
	"github.com/aretw0/nfalab/pkg/domain"
	"github.com/aretw0/nfalab/pkg/runner"
	"github.com/aretw0/nfalab/pkg/simulation"
)

// CompileResponse aligns with the HTTP schema and provides a unified structure across adapters.
type CompileResponse struct {
	Pattern     string              `json:"pattern" jsonschema_description:"The compiled pattern"`
	Infix       string              `json:"infix" jsonschema_description:"Tokens with explicit concatenation markers"`
	Postfix     string              `json:"postfix" jsonschema_description:"Reverse Polish form of the pattern"`
	Start       int                 `json:"start" jsonschema_description:"ID of the start state"`
	End         int                 `json:"end" jsonschema_description:"ID of the accepting state"`
	States      []domain.State      `json:"states" jsonschema_description:"States indexed by ID"`
	Transitions []domain.Transition `json:"transitions" jsonschema_description:"Edges; a null symbol is epsilon"`
	Stats       domain.Stats        `json:"stats" jsonschema_description:"State, transition and alphabet summary"`
}

// SimulateResponse reports the history of a run and the view at the requested index.
type SimulateResponse struct {
	Postfix string             `json:"postfix" jsonschema_description:"Reverse Polish form of the pattern"`
	Input   string             `json:"input" jsonschema_description:"The sanitized test string"`
	History []domain.ActiveSet `json:"history" jsonschema_description:"Active state IDs after each consumed character"`
	View    domain.View        `json:"view" jsonschema_description:"Active states, fired transitions and verdict at the index"`
}

// Engine defines the interface required by the MCP server.
type Engine interface {
	Compile(ctx context.Context, pattern string) (*domain.Compilation, error)
	Run(ctx context.Context, c *domain.Compilation, input string) *simulation.Simulation
}

// Server wraps the nfalab Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("nfalab-mcp", strings.TrimSpace(nfalab.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server for custom transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("CORS Middleware", "method", r.Method, "path", r.URL.Path)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type compileArgs struct {
	Pattern string `json:"pattern"`
}

type simulateArgs struct {
	Pattern string `json:"pattern"`
	Input   string `json:"input"`
	Index   *int   `json:"index,omitempty"`
}

type graphArgs struct {
	Pattern string `json:"pattern"`
	Input   string `json:"input,omitempty"`
	Step    *int   `json:"step,omitempty"`
	Format  string `json:"format,omitempty"`
}

type shareArgs struct {
	Pattern string `json:"pattern"`
	Input   string `json:"input,omitempty"`
	Token   string `json:"token,omitempty"`
}

func (s *Server) registerTools() {
	// TOOL: compile_pattern
	compileTool := mcp.NewTool("compile_pattern",
		mcp.WithDescription("Compile a regular expression (literals, |, *, +, ?, parentheses, \\e for epsilon) into a Thompson NFA."),
		mcp.WithString("pattern", mcp.Required(), mcp.Description("The pattern to compile")),
		mcp.WithOutputSchema[CompileResponse](),
	)
	s.mcpServer.AddTool(compileTool, mcp.NewStructuredToolHandler(s.handleCompile))

	// TOOL: simulate
	simulateTool := mcp.NewTool("simulate",
		mcp.WithDescription("Run the NFA of a pattern over a test string and report the active states after each character."),
		mcp.WithString("pattern", mcp.Required(), mcp.Description("The pattern to compile")),
		mcp.WithString("input", mcp.Required(), mcp.Description("The test string")),
		mcp.WithNumber("index", mcp.Description("History index to report (defaults to the end of the input)")),
		mcp.WithOutputSchema[SimulateResponse](),
	)
	s.mcpServer.AddTool(simulateTool, mcp.NewStructuredToolHandler(s.handleSimulate))

	// TOOL: render_graph
	s.mcpServer.AddTool(mcp.NewTool("render_graph",
		mcp.WithDescription("Render the NFA as a Mermaid or Graphviz diagram, optionally highlighting the states active at a step."),
		mcp.WithString("pattern", mcp.Required(), mcp.Description("The pattern to compile")),
		mcp.WithString("input", mcp.Description("Test string used for the active-state overlay")),
		mcp.WithNumber("step", mcp.Description("History index of the overlay (defaults to the end of the input)")),
		mcp.WithString("format", mcp.Description("mermaid (default) or dot"), mcp.Enum("mermaid", "dot")),
	), s.handleRenderGraph)

	// TOOL: share_link
	s.mcpServer.AddTool(mcp.NewTool("share_link",
		mcp.WithDescription("Encode a pattern and test string into a share token, or decode a token."),
		mcp.WithString("pattern", mcp.Description("Pattern to encode")),
		mcp.WithString("input", mcp.Description("Test string to encode")),
		mcp.WithString("token", mcp.Description("Token to decode; when set, pattern and input are ignored")),
	), s.handleShare)
}

// Handler methods for structured tools

func (s *Server) handleCompile(ctx context.Context, request mcp.CallToolRequest, args compileArgs) (CompileResponse, error) {
	c, err := s.engine.Compile(ctx, args.Pattern)
	if err != nil {
		return CompileResponse{}, fmt.Errorf("compile failed: %w", err)
	}
	return CompileResponse{
		Pattern:     c.Pattern,
		Infix:       c.Infix,
		Postfix:     c.Postfix,
		Start:       c.NFA.Start,
		End:         c.NFA.End,
		States:      c.NFA.States,
		Transitions: c.NFA.Transitions,
		Stats:       c.NFA.Stats(),
	}, nil
}

func (s *Server) handleSimulate(ctx context.Context, request mcp.CallToolRequest, args simulateArgs) (SimulateResponse, error) {
	input, err := runner.SanitizeInput(args.Input)
	if err != nil {
		slog.Warn("MCP Simulate: Input rejected", "error", err, "size", len(args.Input))
		return SimulateResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	c, err := s.engine.Compile(ctx, args.Pattern)
	if err != nil {
		return SimulateResponse{}, fmt.Errorf("compile failed: %w", err)
	}
	sim := s.engine.Run(ctx, c, input)
	if args.Index != nil {
		sim.Seek(*args.Index)
	}

	return SimulateResponse{
		Postfix: c.Postfix,
		Input:   input,
		History: sim.History(),
		View:    sim.View(),
	}, nil
}

func (s *Server) handleRenderGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args graphArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	format, err := graph.ParseFormat(args.Format)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	c, err := s.engine.Compile(ctx, args.Pattern)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("compile failed: %v", err)), nil
	}

	var overlay *graph.Overlay
	if args.Input != "" || args.Step != nil {
		input, err := runner.SanitizeInput(args.Input)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("input rejected: %v", err)), nil
		}
		sim := simulation.New(c.NFA, input)
		if args.Step != nil {
			sim.Seek(*args.Step)
		} else {
			sim.RunToEnd()
		}
		view := sim.View()
		overlay = &graph.Overlay{Active: view.ActiveIDs, Fired: view.Fired}
	}

	return mcp.NewToolResultText(graph.Render(format, c.NFA, overlay)), nil
}

func (s *Server) handleShare(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args shareArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	if args.Token != "" {
		link, err := share.Decode(args.Token)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultStructured(link, fmt.Sprintf("pattern=%q input=%q", link.Pattern, link.Input)), nil
	}

	if _, err := s.engine.Compile(ctx, args.Pattern); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("compile failed: %v", err)), nil
	}
	token, err := share.Encode(share.Link{Pattern: args.Pattern, Input: args.Input})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(token), nil
}

const syntaxGuide = `# nfalab pattern syntax

| Token | Meaning |
|---|---|
| x | the literal character x |
| \x | x taken literally, even an operator |
| \e | the empty string (epsilon) |
| a|b | alternation |
| ab | concatenation (implicit) |
| a* | zero or more |
| a+ | one or more |
| a? | zero or one |
| ( ) | grouping |

Precedence from lowest to highest: alternation, concatenation, quantifiers.
`

func (s *Server) registerResources() {
	// EXPOSE: nfalab://syntax
	s.mcpServer.AddResource(mcp.NewResource("nfalab://syntax", "Pattern Syntax",
		mcp.WithMIMEType("text/markdown"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "nfalab://syntax",
				MIMEType: "text/markdown",
				Text:     syntaxGuide,
			},
		}, nil
	})
}
