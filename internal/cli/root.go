// Package cli provides the command-line interface for worldpop.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/worldpop/internal/cli/commands"
	"github.com/leapstack-labs/worldpop/internal/cli/config"

	// Register the database adapters and their dialects.
	_ "github.com/leapstack-labs/worldpop/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/worldpop/pkg/adapters/mysql"
	_ "github.com/leapstack-labs/worldpop/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/worldpop/pkg/adapters/sqlite"
	_ "github.com/leapstack-labs/worldpop/pkg/dialects/h2"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile, targetFlag string

	rootCmd := &cobra.Command{
		Use:   "worldpop",
		Short: "worldpop - World population reports",
		Long: `worldpop reports on the world population database: countries, cities and
capitals ranked by population, how many people live in and out of cities,
and how many speak the major world languages.

Reports read from SQLite, DuckDB, PostgreSQL or MySQL, or from the embedded
sample data with the memory target.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfigWithTarget(cfgFile, targetFlag, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger, sink, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx := config.WithConfig(cmd.Context(), cfg)
			ctx = context.WithValue(ctx, config.LoggerKey(), logger)
			ctx = context.WithValue(ctx, logSinkKey{}, sink)
			cmd.SetContext(ctx)

			if cfg.Verbose {
				if cfg.ConfigFile != "" {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", cfg.ConfigFile)
				}
				if targetFlag != "" {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Using target: %s\n", targetFlag)
				}
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return closeLog(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./worldpop.yaml)")
	rootCmd.PersistentFlags().StringVarP(&targetFlag, "target", "t", "", "Target environment to use (e.g., dev, staging, prod)")
	rootCmd.PersistentFlags().String("database", "", "Path to the SQLite or DuckDB database (:memory: for in-memory)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|table|json|csv|markdown|yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-file", "", "Also write logs to this file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().Bool("pushdown", true, "Compute sums in the database when the target supports it")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "table", "json", "csv", "markdown", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("target", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"dev", "staging", "prod"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewCountriesCommand())
	rootCmd.AddCommand(commands.NewCitiesCommand())
	rootCmd.AddCommand(commands.NewCapitalsCommand())
	rootCmd.AddCommand(commands.NewBreakdownCommand())
	rootCmd.AddCommand(commands.NewPopulationCommand())
	rootCmd.AddCommand(commands.NewLanguagesCommand())
	rootCmd.AddCommand(commands.NewReportCommand())
	rootCmd.AddCommand(commands.NewMenuCommand())
	rootCmd.AddCommand(commands.NewSQLCommand())
	rootCmd.AddCommand(commands.NewSeedCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	if _, err := execute(NewRootCmd()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// execute runs root and then releases the log file of the command that ran.
// Cobra skips post-run hooks when RunE fails, so the release happens here too.
func execute(root *cobra.Command) (*cobra.Command, error) {
	cmd, err := root.ExecuteC()
	if cmd != nil {
		if cerr := closeLog(cmd.Context()); cerr != nil && err == nil {
			err = cerr
		}
	}
	return cmd, err
}

type logSinkKey struct{}

// logSink owns the optional log file of one command run.
type logSink struct {
	file  *os.File
	close func() error
}

func newLogSink(f *os.File) *logSink {
	sink := &logSink{file: f}
	sink.close = sync.OnceValue(func() error {
		if sink.file == nil {
			return nil
		}
		return sink.file.Close()
	})
	return sink
}

// closeLog releases the log sink stored in ctx, if any. It is safe to call
// more than once.
func closeLog(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	sink, ok := ctx.Value(logSinkKey{}).(*logSink)
	if !ok {
		return nil
	}
	return sink.close()
}

// newLogger builds the command logger. Logs go to stderr, and also to the
// log file when one is configured. The returned sink must be closed once
// the command finishes.
func newLogger(cfg *config.Config, stderr io.Writer) (*slog.Logger, *logSink, error) {
	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Verbose && level > slog.LevelDebug {
		level = slog.LevelDebug
	}

	w := stderr
	var f *os.File
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err = os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = io.MultiWriter(stderr, f)
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), newLogSink(f), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), newLogSink(f), nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for worldpop.

To load completions:

Bash:
  $ source <(worldpop completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ worldpop completion bash > /etc/bash_completion.d/worldpop
  # macOS:
  $ worldpop completion bash > $(brew --prefix)/etc/bash_completion.d/worldpop

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ worldpop completion zsh > "${fpath[1]}/_worldpop"

Fish:
  $ worldpop completion fish | source

PowerShell:
  PS> worldpop completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
