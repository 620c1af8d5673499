package tui

import (
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/eugenenazirov/ewaste-impact/internal/catalog"
	"github.com/eugenenazirov/ewaste-impact/internal/equivalence"
	"github.com/eugenenazirov/ewaste-impact/internal/impact"
)

const defaultWidth = 80

// Model is the Bubble Tea model for the device form. It owns the session's
// selection; nothing outside the model mutates it while the program runs.
type Model struct {
	catalog    *catalog.Catalog
	calculator impact.Calculator
	goalKg     float64

	devices   []catalog.DeviceType
	selection *impact.Selection
	// sizes holds the size shown for every sized device, selected or not.
	sizes map[string]float64

	cursor   int
	keys     keyMap
	help     help.Model
	width    int
	quitting bool
}

// New creates a form over every device in cat. A non-positive goalKg falls
// back to equivalence.DefaultGoalKg.
func New(cat *catalog.Catalog, calc impact.Calculator, goalKg float64) *Model {
	if calc == nil {
		calc = impact.New()
	}
	if goalKg <= 0 {
		goalKg = equivalence.DefaultGoalKg
	}

	m := &Model{
		catalog:    cat,
		calculator: calc,
		goalKg:     goalKg,
		devices:    cat.Devices(),
		selection:  impact.NewSelection(),
		keys:       defaultKeyMap(),
		help:       help.New(),
		width:      defaultWidth,
	}
	m.resetSizes()
	return m
}

func (m *Model) resetSizes() {
	m.sizes = make(map[string]float64, len(m.devices))
	for _, d := range m.devices {
		if d.Sizing.Sized() {
			m.sizes[d.ID] = d.Sizing.Reference
		}
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.devices)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Add):
		if d, ok := m.focused(); ok {
			m.selection.Increment(d.ID)
			if size, sized := m.sizes[d.ID]; sized {
				m.selection.SetSize(d.ID, size)
			}
		}

	case key.Matches(msg, m.keys.Subtract):
		if d, ok := m.focused(); ok {
			m.selection.Decrement(d.ID)
		}

	case key.Matches(msg, m.keys.Size):
		m.cycleSize()

	case key.Matches(msg, m.keys.Remove):
		if d, ok := m.focused(); ok {
			m.selection.Remove(d.ID)
		}

	case key.Matches(msg, m.keys.Reset):
		m.selection.Reset()
		m.resetSizes()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// cycleSize advances the focused sized device to its next size, wrapping
// around. Sizeless devices are left alone.
func (m *Model) cycleSize() {
	d, ok := m.focused()
	if !ok || !d.Sizing.Sized() {
		return
	}
	sizes := d.Sizing.Sizes
	next := (slices.Index(sizes, m.sizes[d.ID]) + 1) % len(sizes)
	m.sizes[d.ID] = sizes[next]
	m.selection.SetSize(d.ID, sizes[next])
}

func (m *Model) focused() (catalog.DeviceType, bool) {
	if m.cursor < 0 || m.cursor >= len(m.devices) {
		return catalog.DeviceType{}, false
	}
	return m.devices[m.cursor], true
}

// Selection returns a copy of the current selection.
func (m *Model) Selection() *impact.Selection {
	return m.selection.Clone()
}

// Report runs the calculator over the current selection.
func (m *Model) Report() impact.Report {
	return m.calculator.Calculate(m.catalog, m.selection)
}

// Summary derives the comparison metrics for the current selection.
func (m *Model) Summary() equivalence.Summary {
	return equivalence.Summarize(m.Report().Totals, m.goalKg)
}

// View renders the current view.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	return m.render()
}
