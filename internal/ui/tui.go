// Package ui provides the interactive terminal viewer for planned projects.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/capplan-go/internal/planner"
	"github.com/nibzard/capplan-go/internal/render"
)

// LoadFunc returns a fresh, planned set of projects.
type LoadFunc func() ([]*planner.Project, error)

// Option configures the viewer.
type Option func(*tuiConfig)

type tuiConfig struct {
	reload LoadFunc
	theme  *render.Theme
	width  int
}

// WithReload lets the r key rebuild the projects.
func WithReload(fn LoadFunc) Option {
	return func(c *tuiConfig) {
		c.reload = fn
	}
}

// WithTheme sets chart styles.
func WithTheme(th render.Theme) Option {
	return func(c *tuiConfig) {
		c.theme = &th
	}
}

// WithWidth sets the chart width used before the terminal reports its size.
func WithWidth(width int) Option {
	return func(c *tuiConfig) {
		c.width = width
	}
}

// Run starts the viewer on the terminal and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, projects []*planner.Project, opts ...Option) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := newModel(projects, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type viewMode int

const (
	viewGantt viewMode = iota
	viewTodo
)

type model struct {
	cfg       tuiConfig
	keys      KeyMap
	projects  []*planner.Project
	resources []string
	filter    int // index into resources; -1 shows everyone
	mode      viewMode
	showHelp  bool
	loadErr   error
	width     int
	ready     bool
	viewport  viewport.Model
}

func newModel(projects []*planner.Project, opts ...Option) *model {
	cfg := tuiConfig{width: 80}
	for _, opt := range opts {
		opt(&cfg)
	}
	m := &model{
		cfg:    cfg,
		keys:   DefaultKeyMap,
		filter: -1,
		width:  cfg.width,
	}
	m.setProjects(projects)
	return m
}

func (m *model) setProjects(projects []*planner.Project) {
	m.projects = projects
	m.resources = planner.ResourceList(projects).Sorted()
	if m.filter >= len(m.resources) {
		m.filter = -1
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerLines-footerLines, 1)
		m.ready = true
		m.viewport.SetContent(m.body())
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
		case key.Matches(msg, m.keys.ToggleView):
			if m.mode == viewGantt {
				m.mode = viewTodo
			} else {
				m.mode = viewGantt
			}
		case key.Matches(msg, m.keys.NextFilter):
			m.cycleFilter(1)
		case key.Matches(msg, m.keys.PrevFilter):
			m.cycleFilter(-1)
		case key.Matches(msg, m.keys.ClearFilter):
			m.filter = -1
		case key.Matches(msg, m.keys.Refresh):
			m.refresh()
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		m.viewport.SetContent(m.body())
		m.viewport.GotoTop()
		return m, nil
	}
	return m, nil
}

// cycleFilter steps through "everyone" and each resource in order.
func (m *model) cycleFilter(step int) {
	n := len(m.resources) + 1
	pos := (m.filter + 1 + step + n) % n
	m.filter = pos - 1
}

func (m *model) refresh() {
	if m.cfg.reload == nil {
		return
	}
	projects, err := m.cfg.reload()
	if err != nil {
		m.loadErr = err
		return
	}
	m.loadErr = nil
	m.setProjects(projects)
}

// activeResource returns the filtered resource, or "" for everyone.
func (m *model) activeResource() string {
	if m.filter < 0 || m.filter >= len(m.resources) {
		return ""
	}
	return m.resources[m.filter]
}

const (
	headerLines = 3
	footerLines = 1
)

func (m *model) View() string {
	var b strings.Builder
	writeTitle(&b, m)

	body := m.body()
	if m.ready {
		body = m.viewport.View()
	}
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString("Press ? for help | tab to switch view | q to quit")
	return b.String()
}

func (m *model) body() string {
	var b strings.Builder
	switch {
	case m.showHelp:
		writeHelp(&b, m.keys)
	case m.loadErr != nil:
		b.WriteString("Error loading projects:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n")
	case len(m.projects) == 0:
		b.WriteString("No projects.\n")
	case m.mode == viewTodo:
		writeTodo(&b, m)
	default:
		writeGantt(&b, m)
	}
	return b.String()
}

func writeTitle(b *strings.Builder, m *model) {
	title := "capplan"
	if m.mode == viewTodo {
		title += " · to-do"
	} else {
		title += " · chart"
	}
	b.WriteString(title + "\n")
	if r := m.activeResource(); r != "" {
		b.WriteString(fmt.Sprintf("Resource: %s (n/p to cycle, 0 to clear)\n\n", r))
	} else {
		b.WriteString(fmt.Sprintf("Resource: everyone (%d known)\n\n", len(m.resources)))
	}
}

func writeGantt(b *strings.Builder, m *model) {
	opts := render.Options{Width: m.width, Theme: m.cfg.theme}
	b.WriteString(render.Timeline(m.projects, opts))
	b.WriteByte('\n')

	r := m.activeResource()
	for _, p := range m.projects {
		if r != "" && !p.Resources().Contains(r) {
			continue
		}
		b.WriteString(render.Gantt(p, opts))
		b.WriteByte('\n')
	}
}

func writeTodo(b *strings.Builder, m *model) {
	var filter planner.ResourceSet
	if r := m.activeResource(); r != "" {
		filter = planner.NewResourceSet(r)
	}
	tasks := planner.TodoList(m.projects, filter, true)
	if len(tasks) == 0 {
		b.WriteString("Nothing to do.\n")
		return
	}
	for _, t := range tasks {
		b.WriteString(formatTask(t))
		b.WriteByte('\n')
	}
}

func writeHelp(b *strings.Builder, keys KeyMap) {
	b.WriteString("Keyboard Shortcuts\n\n")
	for _, k := range keys.bindings() {
		h := k.Help()
		b.WriteString(fmt.Sprintf("  %-8s %s\n", h.Key, h.Desc))
	}
	b.WriteString("  ↑/↓      scroll\n")
}

func formatTask(t *planner.Task) string {
	line := fmt.Sprintf("  %6s-%-6s %-24s %3.0f%%", t.Start(), t.End(), t.String(), t.Progress()*100)
	if rs := t.Resources(); rs.Len() > 0 {
		line += "  " + strings.Join(rs.Sorted(), ", ")
	}
	if next := t.NextTitle(); next != "" {
		line += "  -> " + next
	}
	return line
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
