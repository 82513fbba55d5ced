package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/BhargavaRam10/gitup/internal/config"
	"github.com/BhargavaRam10/gitup/internal/keys"
	"github.com/BhargavaRam10/gitup/internal/logger"
	"github.com/BhargavaRam10/gitup/internal/remote"
	"github.com/BhargavaRam10/gitup/internal/ui"
	"github.com/BhargavaRam10/gitup/internal/verify"
)

// probeDoneMsg carries a finished probe back into the model.
type probeDoneMsg struct {
	result verify.Result
}

// probeTickMsg asks for the next scheduled probe.
type probeTickMsg struct{}

// watchModel re-probes the provider on an interval and renders the latest
// outcome. Keys: q to quit, r to probe immediately.
type watchModel struct {
	binding    remote.Binding
	expected   string
	options    verify.Options
	interval   time.Duration
	spinner    ui.SpinnerComponent
	probing    bool
	probes     int
	lastResult verify.Result
	hasResult  bool
	quitting   bool
}

func newWatchModel(cfg *config.Config, binding remote.Binding, identityFile string, passphrase []byte, interval time.Duration) watchModel {
	sp := ui.NewSpinnerComponent(fmt.Sprintf("Probing %s", binding.Host))
	sp.Start()

	m := watchModel{
		binding:  binding,
		expected: cfg.ExpectedIdentity(),
		options: verify.Options{
			IdentityFile: identityFile,
			Passphrase:   passphrase,
			Timeout:      cfg.ProbeTimeout,
			Logger:       logger.Nop(),
		},
		interval: interval,
		spinner:  sp,
	}
	m.probing = true
	return m
}

func (m watchModel) probeCmd() tea.Cmd {
	binding, expected, opts := m.binding, m.expected, m.options
	return func() tea.Msg {
		return probeDoneMsg{result: verify.Probe(binding, expected, opts)}
	}
}

func (m watchModel) scheduleCmd() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return probeTickMsg{}
	})
}

// Init starts the first probe. The model comes out of the constructor
// already in the probing state; mutating a value receiver here would be
// lost.
func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Init(), m.probeCmd())
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			if !m.probing {
				m.probing = true
				return m, tea.Batch(m.spinner.Start(), m.probeCmd())
			}
		}
		return m, nil

	case probeDoneMsg:
		m.probing = false
		m.probes++
		m.lastResult = msg.result
		m.hasResult = true
		if msg.result.Outcome == verify.OutcomeAuthenticatedAsExpected {
			m.spinner.Success()
		} else {
			m.spinner.Fail()
		}
		return m, m.scheduleCmd()

	case probeTickMsg:
		if m.probing {
			return m, nil
		}
		m.probing = true
		return m, tea.Batch(m.spinner.Start(), m.probeCmd())

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m watchModel) View() string {
	if m.quitting {
		return ""
	}

	header := lipgloss.NewStyle().Foreground(ui.ColorInfo).
		Render(fmt.Sprintf("gitup check --watch  %s  every %s", m.binding.URL(), m.interval))

	body := m.spinner.View()
	if m.hasResult && !m.probing {
		body += "\n" + renderWatchResult(m.lastResult, m.expected)
	}

	footer := lipgloss.NewStyle().Foreground(ui.ColorMuted).
		Render(fmt.Sprintf("probes: %d   r: probe now   q: quit", m.probes))

	return header + "\n\n" + body + "\n\n" + footer + "\n"
}

func renderWatchResult(result verify.Result, expected string) string {
	style := lipgloss.NewStyle().Foreground(ui.ColorError)
	var line string

	switch result.Outcome {
	case verify.OutcomeAuthenticatedAsExpected:
		style = lipgloss.NewStyle().Foreground(ui.ColorSuccess)
		line = fmt.Sprintf("%s authenticated as %s (%s)",
			ui.SymbolSuccess, result.ObservedIdentity, result.Latency.Round(time.Millisecond))
	case verify.OutcomeAuthenticatedAsOther:
		line = fmt.Sprintf("%s authenticated as %q, expected %q",
			ui.SymbolFail, result.ObservedIdentity, expected)
	case verify.OutcomeHostKeyUnknown:
		line = ui.SymbolFail + " host identity not verified"
	case verify.OutcomeRejected:
		line = ui.SymbolFail + " credential rejected"
	case verify.OutcomeNetworkError:
		line = ui.SymbolFail + " host unreachable"
	}

	return style.Render(line)
}

// watchCommand runs the interactive re-probe view.
func watchCommand(flags *CommonFlags, interval time.Duration) error {
	cfg, binding, err := bindingForCheck(flags)
	if err != nil {
		return err
	}

	dir := cfg.Key.Dir
	if dir == "" {
		dir = keys.DefaultDir()
	}
	pair := keys.Find(dir)
	if pair == nil {
		return keyMissingError(dir)
	}

	// The passphrase must be collected before the TUI owns the terminal.
	var passphrase []byte
	if pair.HasPassphrase && interactive() {
		passphrase, err = promptPassphrase("Passphrase for "+pair.PrivatePath, false)
		if err != nil {
			return err
		}
	}

	model := newWatchModel(cfg, binding, pair.PrivatePath, passphrase, interval)
	_, err = tea.NewProgram(model).Run()
	return err
}
