package planner

import (
	"fmt"
)

// Document is the structural form of a node used for storage and
// interchange. Collections carry their children in Activities.
//
// Computed fields (duration of collections, progress of collections,
// resources of collections, start) are written for readers such as the
// renderer and the HTTP API and ignored when decoding.
type Document struct {
	ActivityType Kind           `json:"activity_type" yaml:"activity_type" bson:"activity_type"`
	Title        string         `json:"title" yaml:"title" bson:"title"`
	Duration     float64        `json:"duration" yaml:"duration" bson:"duration"`
	BaseDuration *float64       `json:"base_duration,omitempty" yaml:"base_duration,omitempty" bson:"base_duration,omitempty"`
	Progress     float64        `json:"progress" yaml:"progress" bson:"progress"`
	Resources    []string       `json:"resources" yaml:"resources" bson:"resources"`
	End          *float64       `json:"end" yaml:"end" bson:"end"`
	Start        *float64       `json:"start,omitempty" yaml:"start,omitempty" bson:"start,omitempty"`
	Deadline     *float64       `json:"deadline,omitempty" yaml:"deadline,omitempty" bson:"deadline,omitempty"`
	NextTask     string         `json:"next_task,omitempty" yaml:"next_task,omitempty" bson:"next_task,omitempty"`
	Finished     *bool          `json:"finished,omitempty" yaml:"finished,omitempty" bson:"finished,omitempty"`
	Metadata     map[string]any `json:"metadata" yaml:"metadata" bson:"metadata"`
	Activities   []*Document    `json:"activities,omitempty" yaml:"activities,omitempty" bson:"activities,omitempty"`
}

// Serialize converts the tree under a into a Document.
func Serialize(a Activity) *Document {
	doc := &Document{
		ActivityType: a.Kind(),
		Title:        a.Title(),
		Duration:     a.Duration(),
		Progress:     a.Progress(),
		Resources:    a.Resources().Sorted(),
		End:          a.End().Ptr(),
		Start:        a.Start().Ptr(),
		Metadata:     metadataOrEmpty(a.Meta()),
	}

	switch n := a.(type) {
	case *Task:
		base := n.baseDuration
		doc.BaseDuration = &base
		doc.NextTask = n.NextTitle()
	case Collection:
		doc.Deadline = n.Deadline().Ptr()
		children := n.Children()
		doc.Activities = make([]*Document, len(children))
		for i, c := range children {
			doc.Activities[i] = Serialize(c)
		}
		if p, ok := n.(*Project); ok {
			finished := p.Finished
			doc.Finished = &finished
		}
	}
	return doc
}

// SerializeTasks converts a flat task list, such as a to-do list.
func SerializeTasks(tasks []*Task) []*Document {
	out := make([]*Document, len(tasks))
	for i, t := range tasks {
		out[i] = Serialize(t)
	}
	return out
}

// Deserialize rebuilds a tree from its Document. The next task of a leaf is
// restored as a display label only.
func Deserialize(doc *Document) (Activity, error) {
	if doc == nil {
		return nil, fmt.Errorf("deserialize: nil document")
	}
	switch doc.ActivityType {
	case KindTask, KindMilestone:
		return deserializeTask(doc), nil
	case KindSerial:
		children, err := deserializeAll(doc.Activities)
		if err != nil {
			return nil, err
		}
		s := NewSerial(doc.Title, children...)
		restoreGroup(&s.group, doc)
		return s, nil
	case KindParallel:
		children, err := deserializeAll(doc.Activities)
		if err != nil {
			return nil, err
		}
		p := NewParallel(doc.Title, children...)
		restoreGroup(&p.group, doc)
		return p, nil
	case KindProject:
		return deserializeProject(doc)
	default:
		return nil, fmt.Errorf("deserialize %q: %w %q", doc.Title, ErrUnknownKind, doc.ActivityType)
	}
}

// DeserializeProject decodes doc and requires it to be a project.
func DeserializeProject(doc *Document) (*Project, error) {
	a, err := Deserialize(doc)
	if err != nil {
		return nil, err
	}
	p, ok := a.(*Project)
	if !ok {
		return nil, fmt.Errorf("deserialize %q: expected %s, got %s", doc.Title, KindProject, a.Kind())
	}
	return p, nil
}

func deserializeAll(docs []*Document) ([]Activity, error) {
	out := make([]Activity, 0, len(docs))
	for i, d := range docs {
		a, err := Deserialize(d)
		if err != nil {
			return nil, fmt.Errorf("activities[%d]: %w", i, err)
		}
		out = append(out, a)
	}
	return out, nil
}

func deserializeProject(doc *Document) (*Project, error) {
	n := len(doc.Activities)
	if n == 0 || doc.Activities[n-1] == nil || doc.Activities[n-1].ActivityType != KindMilestone {
		return nil, fmt.Errorf("deserialize project %q: last activity must be the slack milestone", doc.Title)
	}
	children, err := deserializeAll(doc.Activities[:n-1])
	if err != nil {
		return nil, err
	}
	p := assembleProject(doc.Title, Unset, deserializeTask(doc.Activities[n-1]), children)
	restoreGroup(&p.group, doc)
	if doc.Finished != nil {
		p.Finished = *doc.Finished
	}
	return p, nil
}

func deserializeTask(doc *Document) *Task {
	t := &Task{
		kind:         doc.ActivityType,
		title:        doc.Title,
		baseDuration: baseDurationOf(doc),
		resources:    NewResourceSet(doc.Resources...),
		progress:     doc.Progress,
		end:          DateFromPtr(doc.End),
		nextLabel:    doc.NextTask,
		Metadata:     metadataOrEmpty(doc.Metadata),
	}
	return t
}

// baseDurationOf reads the raw duration of a leaf. Documents that only carry
// the scaled duration are scaled back by the remaining fraction.
func baseDurationOf(doc *Document) float64 {
	if doc.BaseDuration != nil {
		return *doc.BaseDuration
	}
	if doc.Progress < 1 {
		return doc.Duration / (1 - doc.Progress)
	}
	return doc.Duration
}

func restoreGroup(g *group, doc *Document) {
	g.deadline = DateFromPtr(doc.Deadline)
	g.end = DateFromPtr(doc.End)
	g.Metadata = metadataOrEmpty(doc.Metadata)
}

func metadataOrEmpty(m map[string]any) Metadata {
	if m == nil {
		return make(Metadata)
	}
	return m
}
