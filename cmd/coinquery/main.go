// Command coinquery looks up cryptocurrency prices from CoinGecko.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"coinquery/internal/app"
	"coinquery/internal/config"
	"coinquery/internal/service"
	"coinquery/pkg/tracing"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var (
	loadEnvFunc         = godotenv.Load
	loadConfigFunc      = config.Load
	initTracerFunc      = tracing.InitTracer
	newQueryServiceFunc = app.NewQueryService
)

func main() {
	if err := execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

// execute runs one command line and always releases what setup acquired;
// cobra skips post-run hooks when a command fails.
func execute(args []string, stdout, stderr io.Writer) error {
	c := &cli{}
	defer c.teardown()

	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.Execute()
}

// cli holds per-invocation state shared by the subcommands.
type cli struct {
	cfg     *config.Config
	svc     *service.QueryService
	tp      *sdktrace.TracerProvider
	cleanup func()

	output     string
	noAutofind bool
	noDYM      bool
	timeout    int
	filePath   string
	debug      bool
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "coinquery",
		Short: "Cryptocurrency prices powered by CoinGecko",
		Long: `coinquery resolves coins by symbol or name and reports live and
historical USD prices from CoinGecko. It can also archive today's
prices for the top coins and query that archive offline.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&c.output, "output", "o", "text", "output format: text, json or yaml")
	flags.BoolVar(&c.noAutofind, "no-autofind", false, "treat arguments as CoinGecko ids instead of resolving symbols and names")
	flags.BoolVar(&c.noDYM, "no-dym", false, "disable did-you-mean suggestions")
	flags.IntVar(&c.timeout, "timeout", 0, "per-request timeout in seconds (default from COINQUERY_TIMEOUT_SECS)")
	flags.StringVar(&c.filePath, "filepath", "", "directory for coinquery.dat and coinquery.db")
	flags.BoolVar(&c.debug, "debug", false, "log resolver and request details")

	root.AddCommand(
		c.pingCmd(),
		c.coinsCmd(),
		c.listCmd(),
		c.resolveCmd(),
		c.priceCmd(),
		c.historyCmd(),
		c.archiveCmd(),
		c.queryArchiveCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	switch c.output {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q", c.output)
	}

	loadEnvFunc()
	c.cfg = loadConfigFunc()
	c.applyFlags(cmd)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Spans are exported only when a collector is configured explicitly.
	tp, tracer, err := initTracerFunc(ctx, tracing.Options{
		Enabled:   c.cfg.TracingEnabled && os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "",
		Endpoint:  c.cfg.OTLPEndpoint,
		Component: "cli",
	})
	if err != nil {
		return fmt.Errorf("initialize tracer: %w", err)
	}
	c.tp = tp

	svc, cleanup, err := newQueryServiceFunc(ctx, c.cfg, tracer)
	if err != nil {
		return err
	}
	c.svc, c.cleanup = svc, cleanup
	return nil
}

func (c *cli) applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("no-autofind") {
		c.cfg.Autofind = !c.noAutofind
	}
	if flags.Changed("no-dym") {
		c.cfg.DYM = !c.noDYM
	}
	if flags.Changed("timeout") && c.timeout > 0 {
		c.cfg.TimeoutSecs = c.timeout
	}
	if flags.Changed("filepath") && c.filePath != "" {
		c.cfg.FilePath = c.filePath
	}
	if flags.Changed("debug") {
		c.cfg.Debug = c.debug
	}
}

// teardown releases what setup acquired. It is safe to call more than once.
func (c *cli) teardown() {
	if c.cleanup != nil {
		c.cleanup()
		c.cleanup = nil
	}
	if c.tp != nil {
		_ = c.tp.Shutdown(context.Background())
		c.tp = nil
	}
}

// connect pings CoinGecko and loads the coin catalog, printing the banner
// the way the interactive tools do.
func (c *cli) connect(cmd *cobra.Command) error {
	pong, err := c.svc.Connect(cmd.Context())
	if err != nil {
		return err
	}
	c.banner(cmd, pong)
	return nil
}

// loadCatalog prepares coin resolution from the cached catalog without
// pinging CoinGecko, for commands that only read the local archive.
func (c *cli) loadCatalog(cmd *cobra.Command) error {
	return c.svc.LoadCatalog(cmd.Context())
}
