package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	capabilityhost "github.com/wippyai/capability-host"
	"github.com/wippyai/capability-host/engine"
	"github.com/wippyai/capability-host/host"
	"github.com/wippyai/capability-host/loader"
)

var (
	renderText    string
	renderVariant string
	interactive   bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Mount the capability once and show which path rendered",
	RunE: func(cmd *cobra.Command, args []string) error {
		variant := capabilityhost.Variant(renderVariant)
		if !variant.Valid() {
			return fmt.Errorf("unknown variant %q", renderVariant)
		}
		d := capabilityhost.Descriptor{Text: renderText, Variant: variant}

		ctx := cmd.Context()
		h, closeHost, err := buildHost(ctx)
		if err != nil {
			return err
		}
		defer closeHost()

		if interactive {
			return runInteractive(h, d)
		}

		m := h.Mount(ctx)
		defer m.Unmount()

		// Bound the wait by probe + load budget with a little slack.
		waitCtx, cancel := context.WithTimeout(ctx, cfg.ProbeTimeout()+cfg.LoadTimeout()+time.Second)
		defer cancel()

		out := m.Await(waitCtx, d)
		printRendered(out)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderText, "text", "Save", "descriptor text")
	renderCmd.Flags().StringVar(&renderVariant, "variant", "", "descriptor variant (primary, secondary)")
	renderCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "interactive mode with TUI")
}

// buildHost wires the engine, the bundle resolver, and the host from the
// loaded config.
func buildHost(ctx context.Context) (*host.Host, func(), error) {
	eng, err := engine.New(ctx)
	if err != nil {
		return nil, nil, err
	}

	resolver := loader.NewBundleResolver(eng, cfg.Host.EntryURL,
		loader.WithBundleLogger(log.Named("resolver")))

	h, err := host.New(host.Config{
		Capability:   cfg.Host.Capability,
		EntryURL:     cfg.Host.EntryURL,
		Resolver:     resolver,
		ProbeTimeout: cfg.ProbeTimeout(),
		LoadTimeout:  cfg.LoadTimeout(),
		Logger:       log.Named("host"),
	})
	if err != nil {
		_ = eng.Close(ctx)
		return nil, nil, err
	}

	return h, func() { _ = eng.Close(context.Background()) }, nil
}

var (
	remoteButtonStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#7D56F4")).
				Padding(0, 2)

	localButtonStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#666666")).
				Padding(0, 2)

	sourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))
)

func printRendered(out capabilityhost.Rendered) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Printf("%s\t%s\n", out.Source, out.Label)
		return
	}

	style := localButtonStyle
	if out.Source == capabilityhost.SourceRemote {
		style = remoteButtonStyle
	}
	fmt.Println(style.Render(out.Label))
	fmt.Println(sourceStyle.Render(fmt.Sprintf("source: %s", out.Source)))
}
