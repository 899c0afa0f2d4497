package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/capability-host/config"
	"github.com/wippyai/capability-host/engine"
)

var (
	cfgFile  string
	logLevel string

	// cfg and log are populated by PersistentPreRunE and shared with all
	// subcommands.
	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "caphost",
	Short: "Remote capability host and bundle provider",
	Long: `caphost is the control plane of a dynamic plugin-loading runtime.
The render command mounts a capability: it probes the remote provider,
loads the published bundle bounded by a timeout, and degrades to the
built-in local implementation on any failure. The serve command runs the
provider side, publishing a capability bundle at the entry path.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		// --log-level flag takes precedence over the config file value.
		if cmd.Flags().Changed("log-level") {
			cfg.Telemetry.LogLevel = logLevel
		}

		log, err = buildLogger(cfg.Telemetry.LogLevel)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		engine.SetLogger(log.Named("engine"))

		return nil
	}

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(serveCmd)
}

// Execute is the entry point called by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.OutputPaths = []string{"stderr"}
	return zcfg.Build()
}
