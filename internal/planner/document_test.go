package planner

import (
	"encoding/json"
	"errors"
	"testing"
)

func mixedTree() *Project {
	shared := NewTask(2, "shared", WithResources("alice"))
	shared.Metadata["ticket"] = "ABC-1"
	inner := NewParallel("fan-out",
		NewSerial("", NewTask(1, "a", WithProgress(0.5)), shared),
		NewMilestone(0, "review"),
	)
	inner.SetDeadline(At(7))
	inner.Metadata["team"] = "core"
	p := NewProject("Mixed", At(12), 2, inner, NewTask(3, "", WithResources("bob")))
	p.Metadata["id"] = 3
	p.Finished = true
	return p
}

func marshal(t *testing.T, doc *Document) string {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(data)
}

func roundTrip(t *testing.T, a Activity) {
	t.Helper()
	first := marshal(t, Serialize(a))

	var doc Document
	if err := json.Unmarshal([]byte(first), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	back, err := Deserialize(&doc)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if second := marshal(t, Serialize(back)); second != first {
		t.Errorf("round trip mismatch:\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestRoundTrip(t *testing.T) {
	t.Run("unplanned project", func(t *testing.T) {
		roundTrip(t, mixedTree())
	})
	t.Run("planned project", func(t *testing.T) {
		p := mixedTree()
		if err := Plan(p); err != nil {
			t.Fatalf("Plan: %v", err)
		}
		roundTrip(t, p)
	})
	t.Run("example project", func(t *testing.T) {
		p := ExampleProject()
		task, _ := p.Task("T2")
		task.SetProgress(0.5)
		if err := Plan(p); err != nil {
			t.Fatalf("Plan: %v", err)
		}
		roundTrip(t, p)
	})
	t.Run("single milestone", func(t *testing.T) {
		roundTrip(t, NewMilestone(1, "gate"))
	})
}

func TestDeserializeRestoresFields(t *testing.T) {
	p := mixedTree()
	if err := Plan(p); err != nil {
		t.Fatalf("Plan: %v", err)
	}
	back, err := DeserializeProject(Serialize(p))
	if err != nil {
		t.Fatalf("DeserializeProject: %v", err)
	}
	if !back.Finished {
		t.Error("Finished not restored")
	}
	if !back.Deadline().Equal(At(12)) || !back.End().Equal(At(12)) {
		t.Errorf("deadline/end: got %v/%v", back.Deadline(), back.End())
	}
	if back.Slack() == nil || back.Slack().BaseDuration() != 2 {
		t.Errorf("slack: got %v", back.Slack())
	}

	a, ok := back.Task("a")
	if !ok {
		t.Fatal("task a not found")
	}
	if a.Progress() != 0.5 || a.BaseDuration() != 1 || a.Duration() != 0.5 {
		t.Errorf("a: progress %v base %v duration %v", a.Progress(), a.BaseDuration(), a.Duration())
	}
	if a.Next() != nil {
		t.Error("next task restored as a live reference")
	}
	if a.NextTitle() != "shared" {
		t.Errorf("next label: got %q, want shared", a.NextTitle())
	}

	shared, _ := back.Task("shared")
	if shared.Metadata["ticket"] != "ABC-1" {
		t.Errorf("metadata: got %v", shared.Metadata)
	}
}

func TestDeserializeLegacyDuration(t *testing.T) {
	doc := &Document{ActivityType: KindTask, Title: "old", Duration: 1, Progress: 0.5}
	a, err := Deserialize(doc)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	task := a.(*Task)
	if task.BaseDuration() != 2 || task.Duration() != 1 {
		t.Errorf("base %v duration %v, want 2 and 1", task.BaseDuration(), task.Duration())
	}
}

func TestDeserializeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
		want error
	}{
		{"unknown kind", &Document{ActivityType: "epic"}, ErrUnknownKind},
		{"nested unknown kind", &Document{ActivityType: KindSerial, Activities: []*Document{{ActivityType: "epic"}}}, ErrUnknownKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Deserialize(tt.doc); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Deserialize(&Document{ActivityType: KindProject}); err == nil {
		t.Error("project without slack milestone accepted")
	}
	if _, err := DeserializeProject(&Document{ActivityType: KindTask}); err == nil {
		t.Error("DeserializeProject accepted a task")
	}
}

func TestSerializeTasks(t *testing.T) {
	docs := SerializeTasks(TodoList(plannedProjects(t), NewResourceSet("alice"), true))
	if len(docs) != 3 {
		t.Fatalf("got %d documents, want 3", len(docs))
	}
	if docs[0].Title != "b1" || docs[0].Start == nil || *docs[0].Start != 2 {
		t.Errorf("first: %+v", docs[0])
	}
}
