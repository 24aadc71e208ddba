// Package render draws planned trees as text Gantt charts.
//
// Charts are read-only views: rendering never plans or modifies a tree.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/nibzard/capplan-go/internal/planner"
)

const (
	minBarWidth   = 10
	maxLabelWidth = 32
	indentWidth   = 2
)

// Options controls chart output.
type Options struct {
	Width int    // total columns, including labels
	Theme *Theme // nil renders plain text
}

func (o Options) theme() Theme {
	if o.Theme == nil {
		return PlainTheme()
	}
	return *o.Theme
}

// window is the time span mapped onto the bar columns.
type window struct {
	start, end float64
	cols       int
}

func (w window) col(x float64) int {
	span := w.end - w.start
	if span <= 0 {
		return 0
	}
	c := int(math.Round((x - w.start) / span * float64(w.cols)))
	return max(0, min(c, w.cols))
}

type row struct {
	depth int
	node  planner.Activity
}

// Gantt renders root and every node below it, one line per node, indented by
// depth. Bars are scaled to the window of root.
func Gantt(root planner.Activity, opts Options) string {
	th := opts.theme()
	var b strings.Builder

	b.WriteString(th.Title.Render(headline(root)))
	b.WriteByte('\n')

	start, ok1 := root.Start().Value()
	end, ok2 := root.End().Value()
	if !ok1 || !ok2 {
		b.WriteString(th.Muted.Render("not planned: run plan to compute dates"))
		b.WriteByte('\n')
		return b.String()
	}

	rows := flatten(root, 0, nil)
	labelWidth := 0
	for _, r := range rows {
		labelWidth = max(labelWidth, r.depth*indentWidth+ansi.StringWidth(label(r.node)))
	}
	labelWidth = min(labelWidth, maxLabelWidth)
	win := window{start: start, end: end, cols: max(opts.Width-labelWidth-20, minBarWidth)}

	for _, r := range rows {
		text := strings.Repeat(" ", r.depth*indentWidth) + label(r.node)
		text = ansi.Truncate(text, labelWidth, "…")
		b.WriteString(th.Label.Render(text))
		b.WriteString(strings.Repeat(" ", labelWidth-ansi.StringWidth(text)+1))
		b.WriteString(bar(r.node, win, th))
		b.WriteByte(' ')
		b.WriteString(th.Dates.Render(fmt.Sprintf("%s-%s", r.node.Start(), r.node.End())))
		b.WriteString(fmt.Sprintf(" %3.0f%%", r.node.Progress()*100))
		if t, ok := r.node.(*planner.Task); ok && t.Resources().Len() > 0 {
			b.WriteString(th.Muted.Render(" " + strings.Join(t.Resources().Sorted(), ",")))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func headline(root planner.Activity) string {
	title := root.Title()
	if title == "" {
		title = root.String()
	}
	return fmt.Sprintf("%s  [%s -> %s]  %.0f%% done", title, root.Start(), root.End(), root.Progress()*100)
}

func label(a planner.Activity) string {
	if a.Title() != "" {
		return a.Title()
	}
	return string(a.Kind())
}

func flatten(a planner.Activity, depth int, out []row) []row {
	out = append(out, row{depth: depth, node: a})
	if c, ok := a.(planner.Collection); ok {
		for _, child := range c.Children() {
			out = flatten(child, depth+1, out)
		}
	}
	return out
}

// bar draws a's span in win, padded to the full bar width.
func bar(a planner.Activity, win window, th Theme) string {
	s, _ := a.Start().Value()
	e, _ := a.End().Value()
	// every bar is at least one column wide and ends inside the window
	from := min(win.col(s), win.cols-1)
	to := min(max(win.col(e), from+1), win.cols)

	var body string
	switch {
	case a.Kind() == planner.KindMilestone:
		// gate at the milestone's start, slack shaded after it
		body = th.Milestone.Render("◆" + strings.Repeat("▒", to-from-1))
	case a.Kind().IsLeaf():
		width := to - from
		done := int(math.Round(a.Progress() * float64(width)))
		body = th.Done.Render(strings.Repeat("█", done)) + th.Remaining.Render(strings.Repeat("░", width-done))
	default:
		body = th.Collection.Render(collectionBar(to - from))
	}

	return strings.Repeat(" ", from) + body + strings.Repeat(" ", win.cols-to)
}

func collectionBar(width int) string {
	if width < 2 {
		return strings.Repeat("─", width)
	}
	return "├" + strings.Repeat("─", width-2) + "┤"
}

// Timeline renders planned projects packed into rows by Layout, one line per
// row, on a shared time axis.
func Timeline(projects []*planner.Project, opts Options) string {
	th := opts.theme()
	rows := Layout(projects)
	if len(rows) == 0 {
		return th.Muted.Render("no planned projects") + "\n"
	}

	start, end := math.Inf(1), math.Inf(-1)
	for _, row := range rows {
		for _, p := range row {
			s, _ := p.Start().Value()
			e, _ := p.End().Value()
			start, end = math.Min(start, s), math.Max(end, e)
		}
	}
	win := window{start: start, end: end, cols: max(opts.Width, minBarWidth)}

	var b strings.Builder
	b.WriteString(th.Dates.Render(fmt.Sprintf("%s -> %s", planner.At(start), planner.At(end))))
	b.WriteByte('\n')
	for _, row := range rows {
		line := []rune(strings.Repeat(" ", win.cols))
		for _, p := range row {
			s, _ := p.Start().Value()
			e, _ := p.End().Value()
			from, to := win.col(s), max(win.col(e), win.col(s)+1)
			to = min(to, win.cols)
			name := []rune("[" + p.Title())
			for i := from; i < to; i++ {
				if k := i - from; k < len(name) {
					line[i] = name[k]
				} else {
					line[i] = '='
				}
			}
			if to-1 > from {
				line[to-1] = ']'
			}
		}
		b.WriteString(strings.TrimRight(string(line), " "))
		b.WriteByte('\n')
	}
	return b.String()
}
