package main

import (
	"context"
	"os"
	"testing"
	"time"

	"coinquery/internal/config"
	"coinquery/internal/service"
	"coinquery/pkg/tracing"

	"github.com/charmbracelet/ssh"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainBootstrap(t *testing.T) {
	var serverBuilt bool
	stubSSHDeps(t, &serverBuilt)

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
	if !serverBuilt {
		t.Fatal("expected wish server construction")
	}
}

func TestKeyAllowList(t *testing.T) {
	open := newKeyAllowList(nil)
	if !open.permits("SHA256:anything") {
		t.Fatal("empty allow list must permit any key")
	}

	l := newKeyAllowList([]string{"SHA256:abc"})
	if !l.permits("SHA256:abc") {
		t.Fatal("expected listed key permitted")
	}
	if l.permits("SHA256:def") {
		t.Fatal("expected unlisted key denied")
	}
}

func stubSSHDeps(t *testing.T, serverBuilt *bool) {
	t.Helper()
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitTracer := initTracerFunc
	origNewService := newQueryServiceFunc
	origConnect := connectFunc
	origLoadCatalog := loadCatalogFunc
	origNewWishServer := newWishServerFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc
	t.Cleanup(func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initTracerFunc = origInitTracer
		newQueryServiceFunc = origNewService
		connectFunc = origConnect
		loadCatalogFunc = origLoadCatalog
		newWishServerFunc = origNewWishServer
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
	})

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{
			SSHPort:        2222,
			SSHHostKeyPath: ".ssh/test_key",
		}
	}
	initTracerFunc = func(ctx context.Context, opts tracing.Options) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	newQueryServiceFunc = func(ctx context.Context, cfg *config.Config, tracer trace.Tracer) (*service.QueryService, func(), error) {
		return service.New(tracer, nil, nil, nil, nil, service.Options{}), func() {}, nil
	}
	connectFunc = func(context.Context, *service.QueryService) (map[string]string, error) {
		return map[string]string{}, nil
	}
	loadCatalogFunc = func(context.Context, *service.QueryService) error {
		t.Error("cached catalog fallback used after a successful connect")
		return nil
	}
	newWishServerFunc = func(ops ...ssh.Option) (*ssh.Server, error) {
		*serverBuilt = true
		return nil, nil
	}
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}
}
