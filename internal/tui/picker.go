// internal/tui/picker.go
// Package tui provides the interactive metric picker.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned by Pick when the user leaves without confirming.
var ErrCancelled = errors.New("metric selection cancelled")

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#2C6496")).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#616161"))
	countStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#2C6496")).Bold(true)
)

type keyMap struct {
	Toggle  key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

var keys = keyMap{
	Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Cancel:  key.NewBinding(key.WithKeys("ctrl+c", "esc", "q"), key.WithHelp("esc/q", "cancel")),
}

// metricItem is one row of the picker list.
type metricItem struct {
	name    string
	checked bool
}

// Title renders the checkbox and metric name.
func (i metricItem) Title() string {
	if i.checked {
		return "[x] " + i.name
	}
	return "[ ] " + i.name
}

func (i metricItem) Description() string { return "" }

// FilterValue returns the metric name, used for filtering.
func (i metricItem) FilterValue() string { return i.name }

// pickerModel is the Bubble Tea model behind Pick.
type pickerModel struct {
	list      list.Model
	order     []string
	done      bool
	cancelled bool
}

func newPickerModel(metrics, preselected []string) *pickerModel {
	known := make(map[string]struct{}, len(metrics))
	for _, name := range metrics {
		known[name] = struct{}{}
	}

	var order []string
	checked := make(map[string]bool, len(preselected))
	for _, name := range preselected {
		if _, ok := known[name]; !ok || checked[name] {
			continue
		}
		checked[name] = true
		order = append(order, name)
	}

	items := make([]list.Item, len(metrics))
	for i, name := range metrics {
		items[i] = metricItem{name: name, checked: checked[name]}
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(items, delegate, 0, 0)
	l.Title = "Select metrics"
	l.Styles.Title = titleStyle
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return &pickerModel{list: l, order: order}
}

func (m *pickerModel) Init() tea.Cmd { return nil }

// Update handles selection keys before delegating navigation to the list.
func (m *pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-2, msg.Height-3)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Cancel):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, keys.Confirm):
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, keys.Toggle):
			m.toggle()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// toggle flips the item under the cursor. Newly checked metrics go to the
// end of the selection so the last one checked becomes the focus metric.
func (m *pickerModel) toggle() {
	it, ok := m.list.SelectedItem().(metricItem)
	if !ok {
		return
	}
	it.checked = !it.checked
	m.list.SetItem(m.list.Index(), it)

	if it.checked {
		m.order = append(m.order, it.name)
		return
	}
	for i, name := range m.order {
		if name == it.name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Selected returns the checked metrics in the order they were checked.
func (m *pickerModel) Selected() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

func (m *pickerModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.list.View())
	b.WriteString("\n")
	b.WriteString(countStyle.Render(fmt.Sprintf("%d selected", len(m.order))))
	for _, k := range []key.Binding{keys.Toggle, keys.Confirm, keys.Cancel} {
		h := k.Help()
		b.WriteString(footerStyle.Render(fmt.Sprintf("  %s: %s", h.Key, h.Desc)))
	}
	return b.String()
}

// Pick runs the picker until the user confirms or cancels. An empty result
// means nothing was checked and callers should fall back to their defaults.
func Pick(ctx context.Context, metrics, preselected []string) ([]string, error) {
	if len(metrics) == 0 {
		return nil, errors.New("no metrics to choose from")
	}
	m := newPickerModel(metrics, preselected)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("metric picker failed: %w", err)
	}
	pm, ok := final.(*pickerModel)
	if !ok || pm.cancelled || !pm.done {
		return nil, ErrCancelled
	}
	return pm.Selected(), nil
}
