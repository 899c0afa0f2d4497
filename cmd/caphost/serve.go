package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wippyai/capability-host/provider"
)

var bundlePath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a capability bundle as the remote provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := bundlePath
		if path == "" {
			path = cfg.Provider.Bundle
		}
		if path == "" {
			return fmt.Errorf("no bundle: pass --bundle or set provider.bundle in the config")
		}

		bundle, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading bundle: %w", err)
		}

		p, err := provider.New(provider.Config{
			Addr:      cfg.Provider.Addr,
			EntryPath: cfg.Provider.EntryPath,
			Bundle:    bundle,
			Logger:    log.Named("provider"),
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return p.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&bundlePath, "bundle", "", "path to the wasm bundle to serve")
}
