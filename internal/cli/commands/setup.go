package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/leapstack-labs/worldpop/internal/catalog"
	"github.com/leapstack-labs/worldpop/internal/cli/config"
	intconfig "github.com/leapstack-labs/worldpop/internal/config"
	"github.com/leapstack-labs/worldpop/internal/engine"
	"github.com/leapstack-labs/worldpop/internal/metrics"
	"github.com/leapstack-labs/worldpop/internal/report"
	"github.com/leapstack-labs/worldpop/internal/worlddb"
	"github.com/leapstack-labs/worldpop/pkg/adapter"
	"github.com/leapstack-labs/worldpop/pkg/core"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *report.Renderer
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
}

// NewCommandContext opens the configured catalog and builds the engine and
// renderer. The returned cleanup function must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig(cmd)
	logger := config.GetLogger(cmd.Context())

	r, err := newRenderer(cmd.OutOrStdout(), cfg.OutputFormat)
	if err != nil {
		return nil, nil, err
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	cat, closeCatalog, err := openCatalog(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	eng := engine.New(catalog.Instrument(cat, m, logger),
		engine.WithLogger(logger),
		engine.WithPushdown(cfg.Pushdown),
	)
	logger.Debug("engine ready",
		slog.String("target", cfg.Target.Type),
		slog.Bool("pushdown", eng.Pushdown()))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Engine:   eng,
		Renderer: r,
		Registry: reg,
		Metrics:  m,
	}, closeCatalog, nil
}

// getConfig returns the loaded configuration, or the defaults when the
// command runs without the root command's pre-run hook.
func getConfig(cmd *cobra.Command) *config.Config {
	if cfg := config.GetConfig(cmd.Context()); cfg != nil {
		return cfg
	}
	return &config.Config{
		Environment:  config.DefaultEnv,
		OutputFormat: config.DefaultOutput,
		Pushdown:     true,
		Target:       &core.TargetConfig{Type: intconfig.MemoryTarget},
		Server: config.ServerConfig{
			Addr:        intconfig.DefaultServerAddr,
			ReadTimeout: config.DefaultReadTimeout,
		},
		Reports: intconfig.DefaultReportDefaults(),
	}
}

// openCatalog connects to the configured target. The memory target serves
// the embedded sample data; any other target goes through its adapter and
// is seeded first when auto_seed is set.
func openCatalog(ctx context.Context, cfg *config.Config, logger *slog.Logger) (core.Catalog, func(), error) {
	if strings.EqualFold(cfg.Target.Type, intconfig.MemoryTarget) {
		sample, err := worlddb.LoadSampleData()
		if err != nil {
			return nil, nil, err
		}
		return catalog.NewMemory(sample.Countries, sample.Cities, sample.Languages), func() {}, nil
	}

	adp, err := connect(ctx, cfg.Target, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = adp.Close() }

	if cfg.AutoSeed {
		if _, err := worlddb.Seed(ctx, adp, logger); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to seed world database: %w", err)
		}
	}

	d, err := intconfig.ResolveDialect(cfg.Target)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	cat, err := catalog.NewSQL(adp, d, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return cat, cleanup, nil
}

// connect creates and connects the adapter of a target.
func connect(ctx context.Context, target *core.TargetConfig, logger *slog.Logger) (adapter.Adapter, error) {
	adapterCfg := target.AdapterConfig()
	adp, err := adapter.NewAdapter(adapterCfg, logger)
	if err != nil {
		return nil, err
	}
	if err := adp.Connect(ctx, adapterCfg); err != nil {
		return nil, fmt.Errorf("failed to connect to %s target: %w", target.Type, err)
	}
	return adp, nil
}

// newRenderer resolves the output format. Auto renders tables on a
// terminal and Markdown otherwise, so piped output stays readable.
func newRenderer(w io.Writer, format string) (*report.Renderer, error) {
	if format == "" || format == config.DefaultOutput {
		f := report.FormatMarkdown
		if isTerminal(w) {
			f = report.FormatTable
		}
		return report.NewRenderer(w, f), nil
	}

	f, err := report.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return report.NewRenderer(w, f), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func getLogger(cmd *cobra.Command) *slog.Logger {
	return config.GetLogger(cmd.Context())
}
