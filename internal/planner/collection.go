package planner

import (
	"math"
	"strings"
)

// group holds the state shared by every collection variant.
type group struct {
	title    string
	deadline Date
	end      Date
	children []Activity

	Metadata Metadata
}

func newGroup(title string, children []Activity) group {
	return group{
		title:    title,
		children: append([]Activity(nil), children...),
		Metadata: make(Metadata),
	}
}

func (g *group) Title() string { return g.title }

// Deadline is the hard upper bound on the collection's end, if any.
func (g *group) Deadline() Date { return g.deadline }

func (g *group) SetDeadline(d Date) { g.deadline = d }

func (g *group) End() Date { return g.end }

func (g *group) Meta() Metadata { return g.Metadata }

// Children returns the owned children in order. The slice is a copy.
func (g *group) Children() []Activity {
	return append([]Activity(nil), g.children...)
}

// Add appends children to the collection.
func (g *group) Add(children ...Activity) {
	g.children = append(g.children, children...)
}

func (g *group) Resources() ResourceSet {
	out := make(ResourceSet)
	for _, c := range g.children {
		out = out.Union(c.Resources())
	}
	return out
}

// Tasks returns the matching leaves in traversal order. A leaf reachable
// through several branches appears once.
func (g *group) Tasks(filter ResourceSet) []*Task {
	seen := make(map[*Task]struct{})
	var out []*Task
	for _, c := range g.children {
		for _, t := range c.Tasks(filter) {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// Task returns the first leaf titled title.
func (g *group) Task(title string) (*Task, bool) {
	for _, t := range g.Tasks(nil) {
		if t.title == title {
			return t, true
		}
	}
	return nil, false
}

// Progress is the duration-weighted mean progress of every leaf below the
// collection. It is 0 for unplanned collections and for collections whose
// leaves have no remaining duration.
func (g *group) Progress() float64 {
	if !g.end.IsSet() {
		return 0
	}
	var done, total float64
	for _, t := range g.Tasks(nil) {
		d := t.Duration()
		done += t.progress * d
		total += d
	}
	if total == 0 {
		return 0
	}
	return done / total
}

// planEnd resolves the authoritative end date without mutating anything.
func (g *group) planEnd(candidate Date) (Date, error) {
	switch {
	case !candidate.IsSet() && !g.deadline.IsSet():
		return Unset, &PlannerError{Node: g.title}
	case !candidate.IsSet():
		return g.deadline, nil
	case !g.deadline.IsSet():
		return candidate, nil
	default:
		// the deadline is a hard ceiling
		return candidate.Min(g.deadline), nil
	}
}

func (g *group) describe(sep string) string {
	if g.title != "" {
		return g.title
	}
	parts := make([]string, len(g.children))
	for i, c := range g.children {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}

func collectionsOf(self Collection, children []Activity) []Collection {
	out := []Collection{self}
	for _, c := range children {
		out = append(out, c.Collections()...)
	}
	return out
}

// Serial runs its children one after another.
type Serial struct {
	group
}

// NewSerial returns a serial collection over children.
func NewSerial(title string, children ...Activity) *Serial {
	return &Serial{group: newGroup(title, children)}
}

func (s *Serial) Kind() Kind { return KindSerial }

// Duration is the sum of the children's durations.
func (s *Serial) Duration() float64 {
	var total float64
	for _, c := range s.children {
		total += c.Duration()
	}
	return total
}

func (s *Serial) Start() Date { return startOf(s.end, s.Duration()) }

func (s *Serial) Collections() []Collection { return collectionsOf(s, s.children) }

// Plan places the children right to left: each child ends where its
// successor starts.
func (s *Serial) Plan(end Date, next *Task) (Date, *Task, error) {
	resolved, err := s.planEnd(end)
	if err != nil {
		return Unset, next, err
	}
	s.end = resolved
	running := resolved
	for i := len(s.children) - 1; i >= 0; i-- {
		start, following, err := s.children[i].Plan(running, next)
		if err != nil {
			return Unset, next, err
		}
		running, next = start, following
	}
	return s.Start(), next, nil
}

func (s *Serial) String() string { return s.describe(" - ") }

// Parallel runs its children concurrently; they all end together.
type Parallel struct {
	group
}

// NewParallel returns a parallel collection over children.
func NewParallel(title string, children ...Activity) *Parallel {
	return &Parallel{group: newGroup(title, children)}
}

func (p *Parallel) Kind() Kind { return KindParallel }

// Duration is the longest child duration.
func (p *Parallel) Duration() float64 {
	var longest float64
	for _, c := range p.children {
		longest = math.Max(longest, c.Duration())
	}
	return longest
}

func (p *Parallel) Start() Date { return startOf(p.end, p.Duration()) }

func (p *Parallel) Collections() []Collection { return collectionsOf(p, p.children) }

// Plan gives every child the same end date and the same next task. Children
// shorter than the longest one keep their float implicitly.
func (p *Parallel) Plan(end Date, next *Task) (Date, *Task, error) {
	resolved, err := p.planEnd(end)
	if err != nil {
		return Unset, next, err
	}
	p.end = resolved
	first := next
	for i := len(p.children) - 1; i >= 0; i-- {
		_, following, err := p.children[i].Plan(resolved, next)
		if err != nil {
			return Unset, next, err
		}
		first = following
	}
	return p.Start(), first, nil
}

func (p *Parallel) String() string { return p.describe(" / ") }
