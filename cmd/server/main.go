package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coinquery/internal/app"
	"coinquery/internal/bot"
	"coinquery/internal/config"
	"coinquery/internal/handler"
	"coinquery/internal/job"
	"coinquery/internal/service"
	"coinquery/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "coinquery/docs"
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
	newArchiveJobFunc      = job.NewArchiveJob
	startArchiveJobFunc    = func(j *job.ArchiveJob, ctx context.Context) { go j.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           CoinQuery API
// @version         1.0
// @description     Cryptocurrency price lookups powered by CoinGecko, with a daily price archive.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx, tracing.Options{
		Enabled:   cfg.TracingEnabled,
		Endpoint:  cfg.OTLPEndpoint,
		Component: "server",
	})
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Archive store, price cache and CoinGecko gateway
	svc, cleanup, err := newQueryServiceFunc(ctx, cfg, tracer)
	if err != nil {
		log.Fatalf("failed to build query service: %v", err)
	}
	defer cleanup()

	pong, err := connectFunc(ctx, svc)
	if err != nil {
		log.Printf("CoinGecko connect failed: %v", err)
		if err := loadCatalogFunc(ctx, svc); err != nil {
			log.Printf("coin catalog unavailable, coin lookups disabled: %v", err)
		} else {
			log.Println("Using cached coin catalog, archive lookups work offline")
		}
	} else {
		log.Printf("CoinQuery (powered by CoinGecko) ping response: %v", pong)
	}

	// Daily archive (background goroutine, stopped by ctx cancel)
	if cfg.ArchiveEnabled {
		archiveJob := newArchiveJobFunc(tracer, svc, cfg.ArchiveLimit, cfg.ArchiveHourUTC)
		startArchiveJobFunc(archiveJob, ctx)
	}

	startTelegramBotFunc(cfg.TelegramBotToken, svc)

	h := newHandlerFunc(tracer, svc, cfg.APIKey)

	r := newRouterFunc()
	r.Use(otelgin.Middleware(tracing.ServiceName))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
