package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/bigcalc/internal/calc"
	"github.com/agbru/bigcalc/internal/config"
	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/format"
	"github.com/agbru/bigcalc/internal/metrics"
	"github.com/agbru/bigcalc/internal/orchestration"
	"github.com/agbru/bigcalc/internal/sysmon"
)

// Layout constants for the dashboard.
const (
	historyCapacity     = 50
	sparklineWidth      = 40
	sparklineLabelWidth = 14
	valueEdges          = 20
	minWidth            = 40
	tickInterval        = 500 * time.Millisecond
)

// HistoryEntry is one finished calculation.
type HistoryEntry struct {
	Expression string
	Algo       string
	Op         calc.Op
	Value      string
	Digits     int
	Duration   time.Duration
	Err        error
	Mismatch   bool
}

// ExecutionState holds the fields of the running calculation.
type ExecutionState struct {
	cancel     context.CancelFunc
	generation uint64
	running    bool
	progress   float64
	eta        time.Duration
}

// Model is the root bubbletea model for the dashboard.
type Model struct {
	header HeaderModel
	input  textinput.Model
	help   help.Model
	keymap KeyMap

	ExecutionState

	factory   calc.CalculatorFactory
	algos     []string
	algoIndex int
	timeout   time.Duration

	history   []HistoryEntry
	recall    int
	lastErr   error
	durations *Series
	heap      *Series
	mem       metrics.MemorySnapshot
	sys       sysmon.Stats
	collector *metrics.MemoryCollector

	parentCtx context.Context
	ref       *programRef
	width     int
	height    int
}

// NewModel creates the dashboard. cfg supplies the initial strategy, the
// per-calculation timeout and an optional initial expression.
func NewModel(parentCtx context.Context, factory calc.CalculatorFactory, cfg config.AppConfig, version string) Model {
	algos := append([]string{"all"}, factory.List()...)
	algoIndex := 0
	for i, name := range algos {
		if name == cfg.Algo {
			algoIndex = i
		}
	}

	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = "123456789 * 987654321   or   2 ^ 100 mod 1000000007"
	ti.SetValue(cfg.Expression)
	ti.Focus()

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}

	return Model{
		header:    NewHeaderModel(version),
		input:     ti,
		help:      help.New(),
		keymap:    DefaultKeyMap(),
		factory:   factory,
		algos:     algos,
		algoIndex: algoIndex,
		timeout:   timeout,
		recall:    -1,
		durations: NewSeries(sparklineWidth),
		heap:      NewSeries(sparklineWidth),
		collector: metrics.NewMemoryCollector(),
		parentCtx: parentCtx,
		ref:       &programRef{},
	}
}

// Algo returns the selected strategy name.
func (m Model) Algo() string { return m.algos[m.algoIndex] }

// History returns finished calculations, oldest first.
func (m Model) History() []HistoryEntry { return m.history }

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd())
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = max(msg.Width, minWidth)
		m.height = msg.Height
		m.header.SetWidth(m.width)
		m.help.Width = m.width
		m.input.Width = m.width - 8
		m.heap.SetLimit(m.width - sparklineLabelWidth)
		m.durations.SetLimit(m.width - sparklineLabelWidth)
		return m, nil

	case ProgressMsg:
		if m.running && msg.Generation == m.generation {
			m.progress = msg.AverageProgress
			m.eta = msg.ETA
		}
		return m, nil

	case CalculationCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil // stale message from a previous calculation
		}
		m.finish()
		m.history = append(m.history, newHistoryEntry(msg))
		if len(m.history) > historyCapacity {
			m.history = m.history[len(m.history)-historyCapacity:]
		}
		if msg.Final != nil {
			m.durations.Add(float64(msg.Final.Duration))
		}
		return m, nil

	case TickMsg:
		return m, tea.Batch(sampleMemStatsCmd(m.collector), sampleSysStatsCmd(), tickCmd())

	case MemStatsMsg:
		m.mem = metrics.MemorySnapshot(msg)
		m.heap.Add(float64(msg.HeapAlloc))
		return m, nil

	case SysStatsMsg:
		m.sys = sysmon.Stats(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) finish() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.running = false
	m.progress = 0
	m.eta = 0
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Cancel):
		if m.running && m.cancel != nil {
			m.cancel()
		}
		return m, nil

	case key.Matches(msg, m.keymap.Run):
		return m.startCalculation()

	case key.Matches(msg, m.keymap.ToggleAlgo):
		m.algoIndex = (m.algoIndex + 1) % len(m.algos)
		return m, nil

	case key.Matches(msg, m.keymap.ClearHistory):
		m.history = nil
		m.recall = -1
		m.lastErr = nil
		m.durations.Clear()
		return m, nil

	case key.Matches(msg, m.keymap.HistoryPrev):
		if len(m.history) > 0 {
			m.recall = min(m.recall+1, len(m.history)-1)
			m.input.SetValue(m.history[len(m.history)-1-m.recall].Expression)
			m.input.CursorEnd()
		}
		return m, nil

	case key.Matches(msg, m.keymap.HistoryNext):
		if m.recall > 0 {
			m.recall--
			m.input.SetValue(m.history[len(m.history)-1-m.recall].Expression)
			m.input.CursorEnd()
		} else {
			m.recall = -1
			m.input.Reset()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) startCalculation() (tea.Model, tea.Cmd) {
	if m.running {
		return m, nil
	}
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}
	req, err := calc.ParseExpression(line)
	if err != nil {
		m.lastErr = err
		return m, nil
	}
	calculators := orchestration.GetCalculatorsToRun(m.Algo(), m.factory)
	if len(calculators) == 0 {
		m.lastErr = apperrors.NewConfigError("unknown strategy %q", m.Algo())
		return m, nil
	}

	ctx, cancel := context.WithTimeout(m.parentCtx, m.timeout)
	m.generation++
	m.cancel = cancel
	m.running = true
	m.progress = 0
	m.eta = 0
	m.lastErr = nil
	m.recall = -1
	m.input.Reset()
	return m, startCalculationCmd(m.ref, ctx, calculators, req, line, m.Algo(), m.generation)
}

// startCalculationCmd returns a tea.Cmd that runs the orchestration.
func startCalculationCmd(ref *programRef, ctx context.Context, calculators []calc.Calculator, req calc.Request, line, algo string, gen uint64) tea.Cmd {
	return func() tea.Msg {
		reporter := &TUIProgressReporter{ref: ref, generation: gen}
		presenter := &TUIResultPresenter{}

		results := orchestration.ExecuteCalculations(ctx, calculators, req, reporter, io.Discard)
		exitCode := orchestration.AnalyzeComparisonResults(results, orchestration.PresentationOptions{Request: req}, presenter, io.Discard)

		return CalculationCompleteMsg{
			Generation: gen,
			Request:    req,
			Expression: line,
			Algo:       algo,
			Results:    presenter.results,
			Final:      presenter.final,
			Err:        presenter.err,
			ExitCode:   exitCode,
		}
	}
}

func newHistoryEntry(msg CalculationCompleteMsg) HistoryEntry {
	entry := HistoryEntry{
		Expression: msg.Expression,
		Algo:       msg.Algo,
		Op:         msg.Request.Op,
		Err:        msg.Err,
		Mismatch:   msg.ExitCode == apperrors.ExitErrorMismatch,
	}
	if msg.Final != nil {
		entry.Value = abbreviate(msg.Final.Result.String())
		entry.Digits = msg.Final.Result.DigitCount()
		entry.Duration = msg.Final.Duration
	}
	return entry
}

func abbreviate(s string) string {
	if len(s) <= 2*valueEdges+3 {
		return s
	}
	return s[:valueEdges] + "..." + s[len(s)-valueEdges:]
}

// tickCmd schedules the next memory sample.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func sampleMemStatsCmd(collector *metrics.MemoryCollector) tea.Cmd {
	return func() tea.Msg {
		return MemStatsMsg(collector.Snapshot())
	}
}

func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		return SysStatsMsg(sysmon.Sample())
	}
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	inner := m.width - 4

	sections := []string{
		m.header.View(),
		panelStyle.Width(inner).Render(m.renderInput()),
		panelStyle.Width(inner).Render(m.renderStatus(inner - 2)),
		panelStyle.Width(inner).Render(m.renderHistory()),
		panelStyle.Width(inner).Render(m.renderRuntime()),
		m.help.View(m.keymap),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderInput() string {
	names := make([]string, len(m.algos))
	for i, name := range m.algos {
		if i == m.algoIndex {
			names[i] = selectedAlgo.Render(name)
		} else {
			names[i] = unselectedAlgo.Render(name)
		}
	}
	return titleStyle.Render("Expression") + "\n" +
		m.input.View() + "\n" +
		labelStyle.Render("Strategy: ") + strings.Join(names, " ")
}

func (m Model) renderStatus(width int) string {
	switch {
	case m.running:
		barWidth := max(width-32, 10)
		return progressStyle.Render(format.FormatProgressBarWithETA(m.progress, m.eta, barWidth))
	case m.lastErr != nil:
		return errorStyle.Render("Error: " + m.lastErr.Error())
	}
	return successStyle.Render("Ready")
}

func (m Model) renderHistory() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("History"))
	if len(m.history) == 0 {
		b.WriteString("\n" + dimStyle.Render("No calculations yet."))
		return b.String()
	}

	rows := len(m.history)
	if m.height > 0 {
		rows = min(rows, max(m.height-20, 3))
	}
	for i := len(m.history) - 1; i >= len(m.history)-rows; i-- {
		e := m.history[i]
		b.WriteString("\n" + accentStyle.Render(e.Expression) + dimStyle.Render(" ["+e.Algo+"]") + "\n  ")
		switch {
		case e.Mismatch:
			b.WriteString(warningStyle.Render("strategies disagree"))
		case e.Err != nil:
			b.WriteString(errorStyle.Render(e.Err.Error()))
		case e.Op == calc.OpCmp:
			b.WriteString(resultStyle.Render("= "+e.Value) + dimStyle.Render("  "+format.FormatExecutionDuration(e.Duration)))
		default:
			b.WriteString(resultStyle.Render("= "+e.Value) +
				dimStyle.Render(fmt.Sprintf("  %s digits, %s", format.FormatNumberString(fmt.Sprint(e.Digits)), format.FormatExecutionDuration(e.Duration))))
		}
	}
	return b.String()
}

func (m Model) renderRuntime() string {
	return titleStyle.Render("Runtime") + "\n" +
		labelStyle.Render("Heap: ") + valueStyle.Render(format.FormatBytes(m.mem.HeapAlloc)) +
		labelStyle.Render("  Reserved: ") + valueStyle.Render(format.FormatBytes(m.mem.HeapSys)) +
		labelStyle.Render("  GC: ") + valueStyle.Render(fmt.Sprint(m.mem.NumGC)) + "\n" +
		labelStyle.Render("Host CPU: ") + valueStyle.Render(fmt.Sprintf("%.1f%%", m.sys.CPUPercent)) +
		labelStyle.Render("  RAM: ") + valueStyle.Render(fmt.Sprintf("%.1f%%", m.sys.MemPercent)) +
		labelStyle.Render("  Free: ") + valueStyle.Render(format.FormatBytes(m.sys.MemAvailable)) + "\n" +
		labelStyle.Render("Heap      ") + sparklineStyle.Render(RenderSparkline(m.heap.Values())) + "\n" +
		labelStyle.Render("Durations ") + sparklineStyle.Render(RenderSparkline(m.durations.Values()))
}

// Run starts the dashboard and blocks until the user quits.
func Run(ctx context.Context, factory calc.CalculatorFactory, cfg config.AppConfig, version string) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, factory, cfg, version)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if m, ok := finalModel.(Model); ok && m.cancel != nil {
		m.cancel()
	}
	if err != nil && ctx.Err() == nil {
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}
