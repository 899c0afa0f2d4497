package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	capabilityhost "github.com/wippyai/capability-host"
	"github.com/wippyai/capability-host/host"
	"github.com/wippyai/capability-host/loader"
	"github.com/wippyai/capability-host/probe"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#98FB98"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// refreshMsg re-renders after an asynchronous probe or load result lands.
type refreshMsg struct{}

type interactiveModel struct {
	host    *host.Host
	mount   *host.Mount
	remount func() *host.Mount
	input   textinput.Model
	variant capabilityhost.Variant
	clicks  int
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) descriptor() capabilityhost.Descriptor {
	return capabilityhost.Descriptor{
		Text:    m.input.Value(),
		Variant: m.variant,
		OnClick: func() { m.clicks++ },
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			out := m.mount.Render(context.Background(), m.descriptor())
			out.Activate()
			return m, nil
		case "tab":
			if m.variant.OrDefault() == capabilityhost.VariantPrimary {
				m.variant = capabilityhost.VariantSecondary
			} else {
				m.variant = capabilityhost.VariantPrimary
			}
			return m, nil
		case "ctrl+r":
			m.mount.Unmount()
			m.mount = m.remount()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("capability host — " + m.host.Capability()))
	b.WriteString("\n\n")

	b.WriteString(statusStyle.Render("availability: "))
	switch m.mount.Availability() {
	case probe.StatusAvailable:
		b.WriteString(okStyle.Render("available"))
	case probe.StatusUnavailable:
		b.WriteString(warnStyle.Render("unavailable"))
	default:
		b.WriteString("checking…")
	}
	b.WriteString("\n")

	b.WriteString(statusStyle.Render("load: "))
	if out, ok := m.mount.Outcome(); ok {
		switch out.Kind {
		case loader.OutcomeLoaded:
			b.WriteString(okStyle.Render("loaded"))
		case loader.OutcomeTimedOut:
			b.WriteString(warnStyle.Render("timed out"))
		default:
			b.WriteString(warnStyle.Render("failed"))
		}
	} else {
		b.WriteString("pending…")
	}
	b.WriteString("\n\n")

	out := m.mount.Render(context.Background(), m.descriptor())
	switch out.Source {
	case capabilityhost.SourceRemote:
		b.WriteString(remoteButtonStyle.Render(out.Label))
	case capabilityhost.SourceLocal:
		b.WriteString(localButtonStyle.Render(out.Label))
	default:
		b.WriteString(pendingStyle.Render(out.Label + "…"))
	}
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf("source: %s   clicks: %d", out.Source, m.clicks)))
	b.WriteString("\n\n")

	b.WriteString("text: ")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter activate • tab variant • ctrl+r remount • esc quit"))
	b.WriteString("\n")

	return b.String()
}

func runInteractive(h *host.Host, d capabilityhost.Descriptor) error {
	ti := textinput.New()
	ti.SetValue(d.Text)
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 24

	mdl := &interactiveModel{
		host:    h,
		variant: d.Variant,
		input:   ti,
	}

	p := tea.NewProgram(mdl)
	mountOpts := []host.MountOption{
		host.WithOnUpdate(func() { p.Send(refreshMsg{}) }),
	}
	mdl.remount = func() *host.Mount {
		return h.Mount(context.Background(), mountOpts...)
	}
	mdl.mount = mdl.remount()
	defer func() { mdl.mount.Unmount() }()

	_, err := p.Run()
	return err
}
