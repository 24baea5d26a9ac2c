package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Zaroganos/oakvar-mcp/internal/mcp/domain"
	"github.com/Zaroganos/oakvar-mcp/internal/oakvar"
)

const (
	serverName    = "oakvar-mcp"
	serverVersion = "0.2.0"
)

// TransportKind selects how the server speaks to its client.
type TransportKind string

const (
	TransportStdio TransportKind = "stdio"
	TransportHTTP  TransportKind = "http"
)

// Config carries the runtime knobs for a server instance.
type Config struct {
	Transport TransportKind
	HTTPAddr  string
	OVBinary  string
}

// Server wraps an MCP server with the OakVar procedure surface
// registered on it.
type Server struct {
	mcpServer  *mcp.Server
	dispatcher *domain.Dispatcher
}

// New builds a server over the given toolkit library and registers
// every catalogued procedure as an MCP tool.
func New(lib oakvar.Library) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)
	server := &Server{
		mcpServer:  mcpServer,
		dispatcher: domain.NewDispatcher(lib),
	}
	for _, proc := range domain.Procedures() {
		mcp.AddTool(mcpServer, proc.Tool(), server.toolHandler(proc.Name))
	}
	return server
}

// toolHandler adapts one procedure to the SDK handler shape. Dispatch
// outcomes come back as envelope text; a failed call flips IsError but
// never surfaces as a protocol-level handler error.
func (s *Server) toolHandler(name string) mcp.ToolHandlerFor[map[string]any, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
		envelope := s.dispatcher.Dispatch(ctx, name, args)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: envelope.Render()}},
			IsError: !envelope.Success,
		}, nil, nil
	}
}

// Run probes for the OakVar CLI and then serves over the configured
// transport until the context ends.
func Run(ctx context.Context, cfg Config) error {
	lib := oakvar.NewCLI(cfg.OVBinary)
	if err := lib.Probe(ctx); err != nil {
		return fmt.Errorf("oakvar startup check: %w", err)
	}
	log.Printf("oakvar detected, serving %d procedures", len(domain.Procedures()))
	return RunWithLibrary(ctx, cfg, lib)
}

// RunWithLibrary serves over the configured transport using the given
// library, skipping the CLI probe. Tests inject fakes through here.
func RunWithLibrary(ctx context.Context, cfg Config, lib oakvar.Library) error {
	server := New(lib)
	switch cfg.Transport {
	case TransportStdio, "":
		return server.Serve(ctx, &mcp.StdioTransport{})
	case TransportHTTP:
		return server.serveHTTP(ctx, cfg.HTTPAddr)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// Serve runs the MCP session on the given transport. Context
// cancellation is a clean shutdown, not an error.
func (s *Server) Serve(ctx context.Context, transport mcp.Transport) error {
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func (s *Server) serveHTTP(ctx context.Context, addr string) error {
	if addr == "" {
		addr = "localhost:8081"
	}
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	log.Printf("http transport listening on %s", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
