// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// SelectVersions lets the user pick two versions. It returns nil when the
// user quits.
func SelectVersions(items []Version) ([]Version, error) {
	p := tea.NewProgram(model{items: items})
	m, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("version picker: %w", err)
	}
	return m.(model).selected, nil
}

type model struct {
	items    []Version
	cursor   int
	selected []Version
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "esc", "ctrl+c":
		m.selected = nil
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case " ":
		if len(m.items) == 0 {
			break
		}
		if i := m.indexOf(m.items[m.cursor]); i >= 0 {
			m.selected = append(m.selected[:i:i], m.selected[i+1:]...)
		} else if len(m.selected) < 2 {
			m.selected = append(m.selected, m.items[m.cursor])
		}
	case "enter":
		if len(m.selected) == 2 {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString("Select two template versions:\n\n")
	for i, v := range m.items {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		mark := " "
		if m.indexOf(v) >= 0 {
			mark = "x"
		}
		fmt.Fprintf(&b, "%s [%s] %s\n", cursor, mark, v)
	}
	b.WriteString("\nSPACE: toggle, ENTER: go, Q/ESCAPE: quit\n")
	return b.String()
}

func (m model) indexOf(v Version) int {
	for i, s := range m.selected {
		if s.Label == v.Label {
			return i
		}
	}
	return -1
}
