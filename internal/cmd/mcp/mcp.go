// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/Zaroganos/oakvar-mcp/internal/mcp/service"
	"github.com/Zaroganos/oakvar-mcp/internal/oakvar"
	"github.com/Zaroganos/oakvar-mcp/internal/platform/config"
	"github.com/Zaroganos/oakvar-mcp/internal/platform/otel"
)

// Config holds MCP command configuration.
type Config struct {
	HTTPAddr  string `env:"OAKVAR_MCP_HTTP_ADDR" envDefault:"localhost:8081"`
	Transport string `env:"OAKVAR_MCP_TRANSPORT" envDefault:"stdio"`
	OVBinary  string `env:"OAKVAR_MCP_OV_BIN"    envDefault:""`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.StringVar(&cfg.OVBinary, "ov-bin", cfg.OVBinary, "Path to the OakVar executable (defaults to "+oakvar.DefaultBinary+" on PATH)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP server.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "oakvar-mcp")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	return service.Run(ctx, service.Config{
		Transport: service.TransportKind(cfg.Transport),
		HTTPAddr:  cfg.HTTPAddr,
		OVBinary:  cfg.OVBinary,
	})
}
