package planner

// SlackTitle is the title of the milestone appended to every project.
const SlackTitle = "Milestone"

// Project is a Serial collection closed by a slack milestone.
type Project struct {
	Serial

	// Finished is toggled by the owning application; it is never derived.
	Finished bool
}

// NewProject returns a project ending at deadline. A milestone of slack
// duration is appended after children to reserve buffer before the deadline.
func NewProject(title string, deadline Date, slack float64, children ...Activity) *Project {
	return assembleProject(title, deadline, NewMilestone(slack, SlackTitle), children)
}

func assembleProject(title string, deadline Date, slack *Task, children []Activity) *Project {
	p := &Project{Serial: Serial{group: newGroup(title, children)}}
	p.deadline = deadline
	p.children = append(p.children, slack)
	return p
}

func (p *Project) Kind() Kind { return KindProject }

func (p *Project) Collections() []Collection { return collectionsOf(p, p.children) }

// Slack returns the trailing milestone.
func (p *Project) Slack() *Task {
	if len(p.children) == 0 {
		return nil
	}
	t, _ := p.children[len(p.children)-1].(*Task)
	return t
}

// ShiftDeadline moves the project deadline to deadline and every other
// collection deadline in the tree by the same offset, so relative constraints
// hold under the new anchor. It reports whether anything changed. The tree
// must be planned again for end dates to follow.
//
// A project without a deadline only takes deadline as its own.
func (p *Project) ShiftDeadline(deadline Date) bool {
	if !deadline.IsSet() || deadline.Equal(p.deadline) {
		return false
	}
	current, ok := p.deadline.Value()
	if !ok {
		p.deadline = deadline
		return true
	}
	delta := deadline.value - current
	for _, c := range p.Collections() {
		if d := c.Deadline(); d.IsSet() {
			c.SetDeadline(d.Add(delta))
		}
	}
	return true
}

// Add inserts children before the slack milestone.
func (p *Project) Add(children ...Activity) {
	slack := p.children[len(p.children)-1]
	p.children = append(append(p.children[:len(p.children)-1:len(p.children)-1], children...), slack)
}
