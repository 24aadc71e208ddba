package planner

// Kind discriminates the node variants of a tree.
type Kind string

const (
	KindTask      Kind = "task"
	KindMilestone Kind = "milestone"
	KindSerial    Kind = "serial"
	KindParallel  Kind = "parallel"
	KindProject   Kind = "project"
)

// IsLeaf reports whether k names a leaf variant.
func (k Kind) IsLeaf() bool {
	return k == KindTask || k == KindMilestone
}

// Metadata is an open key/value bag carried by every node.
type Metadata map[string]any

// Activity is any schedulable node: a task, a milestone or a collection.
type Activity interface {
	Kind() Kind
	Title() string
	// End is the latest safe end date, assigned by planning.
	End() Date
	// Start is End minus Duration, or Unset when the node is unplanned.
	Start() Date
	Duration() float64
	Progress() float64
	Resources() ResourceSet
	// Tasks returns the leaves reachable from this node whose resources
	// match filter. An empty filter matches every leaf.
	Tasks(filter ResourceSet) []*Task
	// Collections returns this node, when it is a collection, followed by
	// every descendant collection depth-first.
	Collections() []Collection
	// Plan places the node so that it ends no later than end and returns
	// its start together with the leaf that follows it chronologically.
	Plan(end Date, next *Task) (Date, *Task, error)
	Meta() Metadata
	String() string
}

// Collection is a composite node owning an ordered list of children.
type Collection interface {
	Activity
	Children() []Activity
	Deadline() Date
	SetDeadline(d Date)
	Task(title string) (*Task, bool)
}

func startOf(end Date, duration float64) Date {
	if !end.IsSet() {
		return Unset
	}
	return At(end.value - duration)
}
