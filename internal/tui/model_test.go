package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/bigcalc/internal/calc"
	"github.com/agbru/bigcalc/internal/config"
	"github.com/agbru/bigcalc/internal/orchestration"
)

func newTestModel(t *testing.T, algo string) Model {
	t.Helper()
	factory := calc.NewDefaultFactory(calc.Options{})
	m := NewModel(context.Background(), factory, config.AppConfig{Algo: algo, Timeout: time.Minute}, "v1.0.0")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

// submit types line, presses enter and feeds the calculation result back.
func submit(t *testing.T, m Model, line string) Model {
	t.Helper()
	m.input.SetValue(line)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.True(t, m.running, "calculation should be running")
	require.NotNil(t, cmd)

	msg := cmd()
	done, ok := msg.(CalculationCompleteMsg)
	require.True(t, ok, "expected CalculationCompleteMsg, got %T", msg)
	updated, _ = m.Update(done)
	return updated.(Model)
}

func TestModelRunsCalculation(t *testing.T) {
	m := submit(t, newTestModel(t, "karatsuba"), "123456789 * 987654321")

	require.Len(t, m.History(), 1)
	e := m.History()[0]
	assert.Equal(t, "123456789 * 987654321", e.Expression)
	assert.Equal(t, "karatsuba", e.Algo)
	assert.Equal(t, "121932631112635269", e.Value)
	assert.Equal(t, 18, e.Digits)
	assert.NoError(t, e.Err)
	assert.False(t, m.running)
	assert.Empty(t, m.input.Value(), "input is cleared after submit")
}

func TestModelComparesAllStrategies(t *testing.T) {
	m := submit(t, newTestModel(t, "all"), "2 ^ 1000 mod 1000000007")
	e := m.History()[0]
	assert.False(t, e.Mismatch)
	assert.Equal(t, "all", e.Algo)
	assert.Equal(t, "688423210", e.Value)
}

func TestModelRecordsArithmeticErrors(t *testing.T) {
	m := submit(t, newTestModel(t, "fft"), "5 % 0")
	require.Len(t, m.History(), 1)
	assert.Error(t, m.History()[0].Err)
	assert.Contains(t, m.View(), "division by zero")
}

func TestModelRejectsBadExpression(t *testing.T) {
	m := newTestModel(t, "fft")
	m.input.SetValue("1 +")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	assert.Nil(t, cmd)
	assert.False(t, m.running)
	assert.Error(t, m.lastErr)
	assert.Contains(t, m.View(), "Error:")
}

func TestModelIgnoresStaleCompletion(t *testing.T) {
	m := newTestModel(t, "fft")
	m.input.SetValue("1 + 1")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	updated, _ = m.Update(CalculationCompleteMsg{Generation: m.generation - 1})
	m = updated.(Model)
	assert.True(t, m.running)
	assert.Empty(t, m.History())
}

func TestModelProgress(t *testing.T) {
	m := newTestModel(t, "fft")
	m.input.SetValue("3 * 3")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	updated, _ = m.Update(ProgressMsg{Generation: m.generation, AverageProgress: 0.5, ETA: time.Second})
	m = updated.(Model)
	assert.InDelta(t, 0.5, m.progress, 1e-9)
	assert.Contains(t, m.View(), "50.0%")

	updated, _ = m.Update(ProgressMsg{Generation: m.generation + 1, AverageProgress: 0.9})
	assert.InDelta(t, 0.5, updated.(Model).progress, 1e-9, "progress of another generation is ignored")
}

func TestModelToggleAlgoAndClear(t *testing.T) {
	m := newTestModel(t, "schoolbook")
	assert.Equal(t, "schoolbook", m.Algo())

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	assert.Equal(t, "all", m.Algo(), "selection wraps around")

	m = submit(t, m, "1 + 2")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Empty(t, updated.(Model).History())
}

func TestModelHistoryRecall(t *testing.T) {
	m := newTestModel(t, "fft")
	m = submit(t, m, "1 + 2")
	m = submit(t, m, "3 * 4")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(Model)
	assert.Equal(t, "3 * 4", m.input.Value())
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(Model)
	assert.Equal(t, "1 + 2", m.input.Value())
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(Model)
	assert.Equal(t, "1 + 2", m.input.Value(), "recall stops at the oldest entry")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	assert.Equal(t, "3 * 4", m.input.Value())
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Empty(t, updated.(Model).input.Value())
}

func TestModelCancel(t *testing.T) {
	m := newTestModel(t, "fft")
	m.input.SetValue("7 * 6")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	updated, _ = m.Update(cmd())
	m = updated.(Model)

	require.Len(t, m.History(), 1)
	assert.True(t, errors.Is(m.History()[0].Err, context.Canceled))
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, "fft")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestModelMemStats(t *testing.T) {
	m := newTestModel(t, "fft")
	updated, _ := m.Update(MemStatsMsg{HeapAlloc: 3 << 20, HeapSys: 8 << 20, NumGC: 4})
	m = updated.(Model)
	view := m.View()
	assert.Contains(t, view, "3.0 MiB")
	assert.Contains(t, view, "8.0 MiB")
	assert.Equal(t, 1, m.heap.Len())
}

func TestModelResizeSparklines(t *testing.T) {
	m := newTestModel(t, "fft")
	assert.Equal(t, 100-sparklineLabelWidth, m.heap.Limit())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 10, Height: 20})
	m = updated.(Model)
	assert.Equal(t, minWidth-sparklineLabelWidth, m.durations.Limit())
}

func TestModelSysStats(t *testing.T) {
	m := newTestModel(t, "fft")
	updated, _ := m.Update(SysStatsMsg{CPUPercent: 42.5, MemPercent: 61.3, MemAvailable: 2 << 30})
	m = updated.(Model)
	view := m.View()
	assert.Contains(t, view, "42.5%")
	assert.Contains(t, view, "61.3%")
	assert.Contains(t, view, "2.0 GiB")
}

func TestModelView(t *testing.T) {
	m := NewModel(context.Background(), calc.NewDefaultFactory(calc.Options{}), config.AppConfig{}, "dev")
	assert.Equal(t, "Initializing...", m.View())

	m = newTestModel(t, "adaptive")
	view := m.View()
	for _, s := range []string{"bigcalc v1.0.0", "Expression", "Strategy:", "History", "No calculations yet.", "Runtime", "Ready"} {
		assert.Contains(t, view, s)
	}
}

func TestNewHistoryEntryTruncates(t *testing.T) {
	t.Parallel()
	msg := CalculationCompleteMsg{
		Expression: "x",
		Algo:       "fft",
		Final:      &orchestration.CalculationResult{},
	}
	assert.Equal(t, "0", newHistoryEntry(msg).Value)

	long := strings.Repeat("7", 100)
	assert.Equal(t, strings.Repeat("7", valueEdges)+"..."+strings.Repeat("7", valueEdges), abbreviate(long))
}
