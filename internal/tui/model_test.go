package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eugenenazirov/ewaste-impact/internal/catalog"
	"github.com/eugenenazirov/ewaste-impact/internal/equivalence"
	"github.com/eugenenazirov/ewaste-impact/internal/impact"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m *Model, msgs ...tea.Msg) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var model tea.Model
		model, cmd = m.Update(msg)
		require.Same(t, m, model)
	}
	return cmd
}

// moveTo puts the cursor on id.
func moveTo(t *testing.T, m *Model, id string) {
	t.Helper()
	pos := catalog.Default().Position(id)
	require.GreaterOrEqual(t, pos, 0, "unknown device %s", id)
	for m.cursor > pos {
		press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	}
	for m.cursor < pos {
		press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
}

func TestNew(t *testing.T) {
	m := New(catalog.Default(), nil, 0)

	require.NotNil(t, m)
	assert.Equal(t, equivalence.DefaultGoalKg, m.goalKg)
	assert.Len(t, m.devices, catalog.Default().Len())
	assert.Equal(t, 0, m.selection.Len())
	assert.Equal(t, 24.0, m.sizes["monitor"])
	assert.Equal(t, 50.0, m.sizes["tv"])
	assert.NotContains(t, m.sizes, "laptop")
	assert.Nil(t, m.Init())
}

func TestCursorNavigation(t *testing.T) {
	m := New(catalog.Default(), impact.New(), 500)

	press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor, "cursor must not move above the first row")

	press(t, m, runes("j"), tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.cursor)

	press(t, m, runes("k"))
	assert.Equal(t, 1, m.cursor)

	for range 20 {
		press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, len(m.devices)-1, m.cursor, "cursor must stop at the last row")
}

func TestAddAndSubtract(t *testing.T) {
	m := New(catalog.Default(), impact.New(), 500)
	moveTo(t, m, "laptop")

	press(t, m, runes("+"), tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 2, m.selection.Quantity("laptop"))
	assert.Equal(t, impact.Totals{CO2: 360, Landfill: 5, Energy: 640}, m.Report().Totals)

	summary := m.Summary()
	assert.Equal(t, "17.1", summary.Display.Trees)
	assert.Equal(t, "72", summary.Display.GoalProgress)

	press(t, m, runes("-"))
	assert.Equal(t, 1, m.selection.Quantity("laptop"))

	press(t, m, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, m.selection.Quantity("laptop"))
	assert.Equal(t, 0, m.selection.Len(), "quantity must never go below zero")
}

func TestSizeCycling(t *testing.T) {
	m := New(catalog.Default(), impact.New(), 500)
	moveTo(t, m, "monitor")

	press(t, m, runes("s"))
	assert.Equal(t, 27.0, m.sizes["monitor"])
	assert.Equal(t, 0, m.selection.Len(), "cycling a size must not select the device")

	press(t, m, runes("+"))
	entry, ok := m.selection.Get("monitor")
	require.True(t, ok)
	assert.True(t, entry.HasSize)
	assert.Equal(t, 27.0, entry.Size)
	assert.InDelta(t, 80*27.0/24, m.Report().Totals.CO2, 1e-9)

	// 27 -> 32 -> 34 -> 19 wraps around.
	press(t, m, runes("s"), runes("s"), runes("s"))
	entry, _ = m.selection.Get("monitor")
	assert.Equal(t, 19.0, entry.Size)
}

func TestSizeOnSizelessDeviceIsNoop(t *testing.T) {
	m := New(catalog.Default(), impact.New(), 500)
	moveTo(t, m, "smartphone")

	press(t, m, runes("+"), runes("s"))
	entry, ok := m.selection.Get("smartphone")
	require.True(t, ok)
	assert.False(t, entry.HasSize)
	assert.NotContains(t, m.sizes, "smartphone")
}

func TestRemoveAndReset(t *testing.T) {
	m := New(catalog.Default(), impact.New(), 500)

	moveTo(t, m, "tablet")
	press(t, m, runes("+"), runes("+"))
	moveTo(t, m, "tv")
	press(t, m, runes("s"), runes("+"))
	require.Equal(t, 2, m.selection.Len())

	press(t, m, runes("x"))
	assert.Equal(t, 0, m.selection.Quantity("tv"))
	assert.Equal(t, 2, m.selection.Quantity("tablet"))

	press(t, m, runes("r"))
	assert.Equal(t, 0, m.selection.Len())
	assert.True(t, m.Report().Totals.IsZero())
	assert.Equal(t, 50.0, m.sizes["tv"], "reset must restore reference sizes")
}

func TestSelectionReturnsCopy(t *testing.T) {
	m := New(catalog.Default(), impact.New(), 500)
	press(t, m, runes("+"))

	sel := m.Selection()
	sel.Reset()
	assert.Equal(t, 1, m.selection.Len())
}

func TestQuitKeys(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		m := New(catalog.Default(), impact.New(), 500)
		cmd := press(t, m, msg)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.Empty(t, m.View())
	}
}

func TestHelpToggle(t *testing.T) {
	m := New(catalog.Default(), impact.New(), 500)
	press(t, m, runes("?"))
	assert.True(t, m.help.ShowAll)
	press(t, m, runes("?"))
	assert.False(t, m.help.ShowAll)
}

func TestWindowSize(t *testing.T) {
	m := New(catalog.Default(), impact.New(), 500)
	press(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 120, m.help.Width)
}

func TestProgressBarFollowsWindowWidth(t *testing.T) {
	m := New(catalog.Default(), impact.New(), 500)
	assert.Equal(t, maxProgressWidth, strings.Count(m.View(), "░"))

	press(t, m, tea.WindowSizeMsg{Width: 64, Height: 24})
	assert.Equal(t, 14, m.progressWidth())
	assert.Equal(t, 14, strings.Count(m.View(), "░"))

	press(t, m, tea.WindowSizeMsg{Width: 20, Height: 24})
	assert.Equal(t, minProgressWidth, m.progressWidth())

	press(t, m, tea.WindowSizeMsg{Width: 200, Height: 24})
	assert.Equal(t, maxProgressWidth, m.progressWidth())
}

func TestView(t *testing.T) {
	m := New(catalog.Default(), impact.New(), 500)

	view := m.View()
	assert.Contains(t, view, "E-Waste Impact Calculator")
	assert.Contains(t, view, "Smartphone")
	assert.Contains(t, view, "24 in")
	assert.NotContains(t, view, "Your recycling effort")

	moveTo(t, m, "laptop")
	press(t, m, runes("+"), runes("+"))
	view = m.View()
	assert.Contains(t, view, "360.0 kg")
	assert.Contains(t, view, "Your recycling effort equals taking 0.08 cars off the road")
}

func TestRenderProgressBar(t *testing.T) {
	assert.Equal(t, 10, len([]rune(stripANSI(renderProgressBar(0, 10)))))
	assert.Equal(t, 10, len([]rune(stripANSI(renderProgressBar(150, 10)))))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Laptop", truncate("Laptop", 16))
	assert.Equal(t, "Very long dev…", truncate("Very long device name", 14))
}

// stripANSI drops escape sequences so tests can count visible cells.
func stripANSI(s string) string {
	var out []rune
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEscape = false
		case !inEscape:
			out = append(out, r)
		}
	}
	return string(out)
}
