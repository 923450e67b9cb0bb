package main

import (
	"context"
	"fmt"
	"log"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"coinquery/internal/app"
	"coinquery/internal/config"
	"coinquery/internal/service"
	"coinquery/internal/tui"
	"coinquery/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/joho/godotenv"
	gossh "golang.org/x/crypto/ssh"
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
	newWishServerFunc = wish.NewServer
	setupSignalNotify = ossignal.Notify
	waitForSignalFunc = func(quit <-chan os.Signal) { <-quit }
)

func main() {
	loadEnvFunc()
	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx, tracing.Options{
		Enabled:   cfg.TracingEnabled,
		Endpoint:  cfg.OTLPEndpoint,
		Component: "ssh",
	})
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
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

	// Build Wish SSH server
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.SSHPort)
	allowed := newKeyAllowList(cfg.SSHAllowedKeys)

	srv, err := newWishServerFunc(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithPublicKeyAuth(func(ctx ssh.Context, key ssh.PublicKey) bool {
			fingerprint := gossh.FingerprintSHA256(key)
			if !allowed.permits(fingerprint) {
				log.Printf("SSH auth denied: user=%s fingerprint=%s", ctx.User(), fingerprint)
				return false
			}
			log.Printf("SSH auth accepted: user=%s fingerprint=%s", ctx.User(), fingerprint)
			return true
		}),
		wish.WithMiddleware(
			bubbletea.Middleware(func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
				model := tui.NewModel(svc, s.User())
				pty, _, _ := s.Pty()
				model.SetSize(pty.Window.Width, pty.Window.Height)

				return model, []tea.ProgramOption{tea.WithAltScreen()}
			}),
			logging.Middleware(),
		),
	)
	if err != nil {
		log.Fatalf("failed to create SSH server: %v", err)
	}

	if srv != nil {
		go func() {
			log.Printf("SSH server listening on %s", addr)
			if err := srv.ListenAndServe(); err != nil {
				log.Printf("SSH server stopped: %v", err)
			}
		}()
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down SSH server...")

	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("SSH server shutdown error: %v", err)
		}
	}

	log.Println("SSH server exited")
}

// keyAllowList permits every key when empty.
type keyAllowList map[string]struct{}

func newKeyAllowList(fingerprints []string) keyAllowList {
	l := make(keyAllowList, len(fingerprints))
	for _, fp := range fingerprints {
		l[fp] = struct{}{}
	}
	return l
}

func (l keyAllowList) permits(fingerprint string) bool {
	if len(l) == 0 {
		return true
	}
	_, ok := l[fingerprint]
	return ok
}
