// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/tfctl/a11ydiff/internal/log"
	"github.com/tfctl/a11ydiff/internal/source"
)

// SelectSnapshots lets the user pick two snapshots from items, which are
// expected newest first. The pair is returned oldest first so it can be
// passed straight to Diff as previous, current. Cancelling returns nil.
func SelectSnapshots(items []source.Snapshot) []source.Snapshot {
	p := tea.NewProgram(newPicker(items))
	m, err := p.Run()
	if err != nil {
		log.WithError(err).Error("snapshot picker failed")
		return nil
	}
	return m.(picker).result()
}

type pickerKeys struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Go     key.Binding
	Quit   key.Binding
}

func (k pickerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Go, k.Quit}
}

func (k pickerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultPickerKeys = pickerKeys{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	Go:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "diff")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q/esc", "quit")),
}

var (
	pickerCursorStyle = lipgloss.NewStyle().Bold(true)
	pickerMarkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

type picker struct {
	items    []source.Snapshot
	cursor   int
	selected []int
	done     bool
	keys     pickerKeys
	help     help.Model
}

func newPicker(items []source.Snapshot) picker {
	return picker{items: items, keys: defaultPickerKeys, help: help.New()}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.selected = nil
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Toggle):
		if len(m.items) == 0 {
			break
		}
		if i := slices.Index(m.selected, m.cursor); i >= 0 {
			m.selected = slices.Delete(slices.Clone(m.selected), i, i+1)
		} else if len(m.selected) < 2 {
			m.selected = append(slices.Clone(m.selected), m.cursor)
		}
	case key.Matches(keyMsg, m.keys.Go):
		if len(m.selected) == 2 {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m picker) View() string {
	var b strings.Builder
	b.WriteString("Select two snapshots:\n\n")
	for i, snap := range m.items {
		cursor := " "
		if m.cursor == i {
			cursor = pickerCursorStyle.Render(">")
		}
		mark := " "
		if slices.Contains(m.selected, i) {
			mark = pickerMarkStyle.Render("x")
		}
		fmt.Fprintf(&b, "%s [%s] %-40s %8s  %s\n", cursor, mark, snap.Name,
			humanize.Bytes(uint64(max(snap.Size, 0))), humanize.Time(snap.Modified))
	}
	b.WriteString("\n" + m.help.View(m.keys) + "\n")
	return b.String()
}

// result returns the confirmed pair ordered oldest first.
func (m picker) result() []source.Snapshot {
	if !m.done || len(m.selected) != 2 {
		return nil
	}
	idx := slices.Clone(m.selected)
	slices.Sort(idx)
	// items are newest first so the larger index is older.
	return []source.Snapshot{m.items[idx[1]], m.items[idx[0]]}
}
