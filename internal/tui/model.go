package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/aaronsalm/kurve/internal/config"
	"github.com/aaronsalm/kurve/internal/curve"
	"github.com/aaronsalm/kurve/internal/diagram"
	"github.com/aaronsalm/kurve/internal/worker"
)

// drainInterval is how often the UI polls the worker's response queue.
const drainInterval = 500 * time.Millisecond

// MsgTick drives the response-queue drain.
type MsgTick struct{ Time time.Time }

// AppModel is the root BubbleTea model. It owns no worker state of its
// own; everything shown is a snapshot drained from the worker.
type AppModel struct {
	Worker *worker.Worker
	Cfg    config.Config
	Keys   KeyMap
	Spin   spinner.Model
	Width  int
	Height int

	// Curve is the last output received, nil when nothing is loaded.
	Curve *curve.Output
	// LastErr is the most recent load failure, cleared by a success.
	LastErr *worker.WorkerError
	// State and Alive mirror the worker at the last tick.
	State worker.State
	Alive bool

	Messages []string // recent info/error messages
	LoadedAt time.Time

	// persist and export are seams for tests; nil selects the real
	// implementations.
	persist func(config.Config) error
	export  func(diagram.Options, *curve.Output, string) error
}

// NewAppModel creates the root model around a running worker.
func NewAppModel(w *worker.Worker, cfg config.Config) AppModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)
	return AppModel{
		Worker: w,
		Cfg:    cfg,
		Keys:   DefaultKeyMap(),
		Spin:   sp,
		Alive:  true,
	}
}

// Init starts the spinner and the drain tick.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.Spin.Tick, tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(drainInterval, func(t time.Time) tea.Msg {
		return MsgTick{Time: t}
	})
}

// Update handles all messages.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spin, cmd = m.Spin.Update(msg)
		return m, cmd

	case MsgTick:
		m = m.drain()
		return m, tickCmd()
	}
	return m, nil
}

// drain absorbs every pending worker response and refreshes the state
// snapshot.
func (m AppModel) drain() AppModel {
	for _, r := range m.Worker.DrainResponses() {
		switch r.Kind {
		case worker.ResponseOutput:
			m.Curve = r.Output
			m.LastErr = nil
			m.LoadedAt = time.Now()
		case worker.ResponseUnload:
			m.Curve = nil
			m.LastErr = nil
		case worker.ResponseError:
			m.LastErr = r.Err
		}
	}
	m.State = m.Worker.State()
	wasAlive := m.Alive
	m.Alive = m.Worker.IsAlive()
	if wasAlive && !m.Alive {
		m.Keys = DeadKeyMap()
		if m.State.ByError {
			m = m.addMessage("worker stopped unexpectedly")
		}
	}
	return m
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Worker.Send(worker.SignalStop)
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Open):
		m.Worker.Send(worker.SignalFileDialog)

	case key.Matches(msg, m.Keys.Reload):
		m.Worker.Send(worker.SignalUpdate)

	case key.Matches(msg, m.Keys.Unload):
		m.Worker.Send(worker.SignalUnload)

	case key.Matches(msg, m.Keys.Dark):
		m.Cfg.Dark = !m.Cfg.Dark
		m = m.saveConfig()

	case key.Matches(msg, m.Keys.Colored):
		m.Cfg.Colored = !m.Cfg.Colored
		m = m.saveConfig()

	case key.Matches(msg, m.Keys.Export):
		m = m.exportDiagram()
	}
	return m, nil
}

func (m AppModel) saveConfig() AppModel {
	persist := m.persist
	if persist == nil {
		persist = func(cfg config.Config) error {
			return config.Save(cfg, config.DefaultFile())
		}
	}
	if err := persist(m.Cfg); err != nil {
		return m.addMessage("save settings: %v", err)
	}
	return m
}

func (m AppModel) exportDiagram() AppModel {
	if m.Curve == nil {
		return m.addMessage("nothing to export")
	}
	export := m.export
	if export == nil {
		export = writeDiagram
	}
	opts := diagram.Options{Dark: m.Cfg.Dark, Colored: m.Cfg.Colored}
	if err := export(opts, m.Curve, m.Cfg.ExportPath); err != nil {
		return m.addMessage("export: %v", err)
	}
	return m.addMessage("saved %s", m.Cfg.ExportPath)
}

func writeDiagram(opts diagram.Options, out *curve.Output, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".png") {
		return diagram.RenderPNG(opts, out, f)
	}
	return diagram.RenderSVG(opts, out, f)
}

// addMessage appends to the message log, keeping only the last few.
func (m AppModel) addMessage(format string, args ...any) AppModel {
	m.Messages = append(m.Messages, fmt.Sprintf(format, args...))
	if len(m.Messages) > 3 {
		m.Messages = m.Messages[len(m.Messages)-3:]
	}
	return m
}

// View renders status bar, plot, message log, and footer.
func (m AppModel) View() string {
	width := m.Width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	b.WriteString(m.viewStatusBar(width))
	b.WriteString("\n\n")
	b.WriteString(m.viewPlot(width))
	b.WriteString("\n")
	b.WriteString(m.viewMessages())
	b.WriteString(m.viewFooter(width))
	return b.String()
}

func (m AppModel) viewStatusBar(width int) string {
	parts := []string{styleStatusLabel.Render("kurve")}

	switch {
	case !m.Alive:
		parts = append(parts, styleStatusDead.Render(iconDead+" stopped"))
	case m.State.Phase == worker.PhaseBusy:
		verb := "reloading"
		if m.State.NewFile {
			verb = "loading"
		}
		parts = append(parts, m.Spin.View()+verb)
	case m.State.WithFile:
		parts = append(parts, styleSuccess.Render(iconLoaded)+" "+styleStatusValue.Render(filepath.Base(m.Worker.TrackedPath())))
	default:
		parts = append(parts, styleStatusValue.Render(iconWaiting+" keine Tabelle"))
	}

	if m.Curve != nil && !m.LoadedAt.IsZero() {
		parts = append(parts, styleStatusValue.Render(
			fmt.Sprintf("%d Messwerte, %s", len(m.Curve.Points), humanize.Time(m.LoadedAt))))
	}
	return styleStatusBar.Width(width).Render(strings.Join(parts, "  "))
}

func (m AppModel) viewPlot(width int) string {
	title := stylePlotTitle.Render("Titrationskurve")
	if m.Curve == nil {
		body := stylePlaceholder.Render("Keine Tabelle geladen — drücke 'o' zum Auswählen")
		return stylePlotBorder.Width(width - 2).Render(title + "\n\n" + body)
	}
	plot := renderPlot(m.Curve, width-8, m.Cfg.Colored)
	return stylePlotBorder.Width(width - 2).Render(title + "\n" + plot)
}

func (m AppModel) viewMessages() string {
	var b strings.Builder
	if m.LastErr != nil {
		b.WriteString(styleError.Render(iconFailed+" "+m.LastErr.Error()) + "\n")
	}
	for _, msg := range m.Messages {
		b.WriteString(styleInfo.Render(msg) + "\n")
	}
	return b.String()
}

func (m AppModel) viewFooter(width int) string {
	bindings := []key.Binding{
		m.Keys.Open, m.Keys.Reload, m.Keys.Unload,
		m.Keys.Dark, m.Keys.Colored, m.Keys.Export, m.Keys.Quit,
	}
	var parts []string
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, styleFooterKey.Render(h.Key)+" "+styleFooterDesc.Render(h.Desc))
	}
	sep := styleFooterSep.Render(" │ ")
	return styleFooter.Width(width).Render(strings.Join(parts, sep))
}
