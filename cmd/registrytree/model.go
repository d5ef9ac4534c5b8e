package main

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"go.deviceregistry.dev/registry"
	"go.deviceregistry.dev/registry/registrylog"
)

// logLineMsg carries one line read from the log publisher subscription into
// Update, where it is appended to the scrolling log pane.
type logLineMsg struct {
	text string
	sub  *registrylog.Subscription
}

// model is the bubbletea model for the read-only registry tree browser: a
// scrollable, collapsible export tree on top, a rolling log pane on the
// bottom fed by registrylog.Publisher.
type model struct {
	reg       *registry.Registry
	sub       *registrylog.Subscription
	pub       *registrylog.Publisher
	lines     []line
	collapsed map[int]bool
	visible   []int
	cursor    int
	logLines  []string

	width, height int
}

func newModel(reg *registry.Registry, pub *registrylog.Publisher) *model {
	lines := buildLines(reg)
	collapsed := make(map[int]bool)

	return &model{
		reg:       reg,
		pub:       pub,
		sub:       pub.Subscribe(),
		lines:     lines,
		collapsed: collapsed,
		visible:   visibleIndices(lines, collapsed),
	}
}

func (m *model) Init() tea.Cmd {
	return readLog(m.sub)
}

// readLog returns a command that blocks on the subscription's channel and
// emits the next line as a logLineMsg. Update re-issues this command after
// every delivery so the read loop never stalls.
func readLog(sub *registrylog.Subscription) tea.Cmd {
	return func() tea.Msg {
		b, ok := <-sub.C()
		if !ok {
			return nil
		}

		return logLineMsg{text: string(b), sub: sub}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.sub.Close()

			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}

		case "enter", " ":
			if len(m.visible) == 0 {
				break
			}

			idx := m.visible[m.cursor]
			m.collapsed[idx] = !m.collapsed[idx]
			m.visible = visibleIndices(m.lines, m.collapsed)

			if m.cursor >= len(m.visible) {
				m.cursor = len(m.visible) - 1
			}

		case "r":
			m.lines = buildLines(m.reg)
			m.visible = visibleIndices(m.lines, m.collapsed)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case logLineMsg:
		if msg.text != "" {
			m.logLines = append(m.logLines, strings.TrimRight(msg.text, "\n"))

			if max := 200; len(m.logLines) > max {
				m.logLines = m.logLines[len(m.logLines)-max:]
			}
		}

		return m, readLog(m.sub)
	}

	return m, nil
}

func (m *model) View() tea.View {
	logHeight := 0
	if m.height > 10 {
		logHeight = m.height / 4
	}

	treeHeight := m.height - logHeight - 1
	if treeHeight < 1 {
		treeHeight = len(m.visible)
	}

	var b strings.Builder

	start := 0
	if m.cursor >= treeHeight {
		start = m.cursor - treeHeight + 1
	}

	end := start + treeHeight
	if end > len(m.visible) {
		end = len(m.visible)
	}

	for i := start; i < end; i++ {
		idx := m.visible[i]
		l := m.lines[idx]

		marker := " "
		if m.collapsed[idx] {
			marker = "+"
		}

		prefix := "  "
		if i == m.cursor {
			prefix = "> "
		}

		fmt.Fprintf(&b, "%s%s%s%s\n", prefix, strings.Repeat("  ", l.depth), marker, l.text)
	}

	if logHeight > 0 {
		b.WriteString(strings.Repeat("-", 40))
		b.WriteByte('\n')

		start := 0
		if len(m.logLines) > logHeight {
			start = len(m.logLines) - logHeight
		}

		for _, l := range m.logLines[start:] {
			b.WriteString(l)
			b.WriteByte('\n')
		}
	}

	v := tea.NewView(b.String())
	v.AltScreen = true

	return v
}
