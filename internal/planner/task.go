package planner

import (
	"fmt"
	"math"
)

// Task is a leaf work item. Milestones share this type and differ only by
// their Kind.
type Task struct {
	kind         Kind
	title        string
	baseDuration float64
	resources    ResourceSet
	progress     float64
	end          Date

	// next is advisory: it is never followed by any traversal.
	next      *Task
	nextLabel string

	Metadata Metadata
}

// TaskOption configures a Task at construction.
type TaskOption func(*Task)

// WithResources assigns the resources the task consumes.
func WithResources(ids ...string) TaskOption {
	return func(t *Task) {
		t.resources.Add(ids...)
	}
}

// WithProgress sets the completed fraction. Out-of-range values are clamped;
// use SetProgress to have them rejected instead.
func WithProgress(p float64) TaskOption {
	return func(t *Task) {
		t.progress = math.Max(0, math.Min(1, p))
	}
}

// WithMetadata attaches a metadata bag.
func WithMetadata(m Metadata) TaskOption {
	return func(t *Task) {
		t.Metadata = m
	}
}

// NewTask returns a task of the given base duration.
func NewTask(duration float64, title string, opts ...TaskOption) *Task {
	return newLeaf(KindTask, duration, title, opts)
}

// NewMilestone returns a zero-effort gate whose duration is reserved buffer.
func NewMilestone(duration float64, title string, opts ...TaskOption) *Task {
	return newLeaf(KindMilestone, duration, title, opts)
}

func newLeaf(kind Kind, duration float64, title string, opts []TaskOption) *Task {
	t := &Task{
		kind:         kind,
		title:        title,
		baseDuration: duration,
		resources:    make(ResourceSet),
		Metadata:     make(Metadata),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Task) Kind() Kind { return t.kind }

func (t *Task) Title() string { return t.title }

// IsMilestone reports whether the task is a milestone.
func (t *Task) IsMilestone() bool { return t.kind == KindMilestone }

// BaseDuration returns the duration of the task before any progress.
func (t *Task) BaseDuration() float64 { return t.baseDuration }

// SetBaseDuration changes the base duration.
func (t *Task) SetBaseDuration(d float64) error {
	if !validDuration(d) {
		return fmt.Errorf("task %q: %w", t.title, ErrInvalidDuration)
	}
	t.baseDuration = d
	return nil
}

// Duration is the remaining duration: base duration scaled by the part not
// yet done.
func (t *Task) Duration() float64 {
	return t.baseDuration * (1 - t.progress)
}

func (t *Task) Progress() float64 { return t.progress }

// SetProgress records the completed fraction of the task.
func (t *Task) SetProgress(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("task %q: %w, got %v", t.title, ErrInvalidProgress, p)
	}
	t.progress = p
	return nil
}

// Resources returns a copy of the task's resource set.
func (t *Task) Resources() ResourceSet {
	return t.resources.Union(nil)
}

func (t *Task) End() Date { return t.end }

func (t *Task) Start() Date { return startOf(t.end, t.Duration()) }

// Next returns the leaf planned right after this one, if planning set it.
func (t *Task) Next() *Task { return t.next }

// NextTitle is the display form of the following leaf. Tasks decoded from a
// document only carry this label, not a live reference.
func (t *Task) NextTitle() string {
	if t.next != nil {
		return t.next.String()
	}
	return t.nextLabel
}

func (t *Task) Meta() Metadata { return t.Metadata }

func (t *Task) Tasks(filter ResourceSet) []*Task {
	if filter.Len() == 0 || t.resources.Len() == 0 {
		return []*Task{t}
	}
	if t.resources.Intersects(filter) {
		return []*Task{t}
	}
	return nil
}

func (t *Task) Collections() []Collection { return nil }

// Plan sets the end date of the task and returns its start and the task
// itself, which becomes the next task of whatever precedes it.
func (t *Task) Plan(end Date, next *Task) (Date, *Task, error) {
	t.end = end
	t.next = next
	t.nextLabel = ""
	return t.Start(), t, nil
}

func (t *Task) String() string {
	if t.title != "" {
		return t.title
	}
	return fmt.Sprintf("<Task - %s>", formatNumber(t.Duration()))
}

func validDuration(d float64) bool {
	return !math.IsNaN(d) && !math.IsInf(d, 0) && d >= 0
}
