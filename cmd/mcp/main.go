// Command mcp serves coin price tools over the Model Context Protocol on
// stdin and stdout.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"coinquery/internal/app"
	"coinquery/internal/config"
	"coinquery/internal/mcpserver"
	"coinquery/internal/service"
	"coinquery/pkg/tracing"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	loadEnvFunc         = godotenv.Load
	loadConfigFunc      = config.Load
	initTracerFunc      = tracing.InitTracer
	newQueryServiceFunc = app.NewQueryService
	connectFunc         = func(ctx context.Context, svc *service.QueryService) (map[string]string, error) {
		return svc.Connect(ctx)
	}
	loadCatalogFunc = func(ctx context.Context, svc *service.QueryService) error {
		return svc.LoadCatalog(ctx)
	}
	runServerFunc = func(ctx context.Context, server *mcp.Server) error {
		return server.Run(ctx, &mcp.StdioTransport{})
	}
)

func main() {
	// stdout carries the protocol.
	log.SetOutput(os.Stderr)

	loadEnvFunc()
	cfg := loadConfigFunc()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, tracer, err := initTracerFunc(ctx, tracing.Options{
		Enabled:   cfg.TracingEnabled && os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "",
		Endpoint:  cfg.OTLPEndpoint,
		Component: "mcp",
	})
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	svc, cleanup, err := newQueryServiceFunc(ctx, cfg, tracer)
	if err != nil {
		log.Fatalf("failed to build query service: %v", err)
	}
	defer cleanup()

	if _, err := connectFunc(ctx, svc); err != nil {
		log.Printf("CoinGecko connect failed: %v", err)
		if err := loadCatalogFunc(ctx, svc); err != nil {
			log.Printf("coin catalog unavailable, coin lookups disabled: %v", err)
		} else {
			log.Println("Using cached coin catalog, archive lookups work offline")
		}
	}

	server := mcpserver.New(tracer, svc, tracing.ServiceVersion)
	if err := runServerFunc(ctx, server); err != nil && ctx.Err() == nil {
		log.Printf("MCP server stopped: %v", err)
	}
}
