package codec

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/capplan-go/internal/planner"
)

func plannedExample(t *testing.T) *planner.Project {
	t.Helper()
	p := planner.ExampleProject()
	if err := planner.Plan(p); err != nil {
		t.Fatalf("Plan: %v", err)
	}
	return p
}

func canonical(t *testing.T, doc *planner.Document) string {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	return string(data)
}

func TestMarshalRoundTrip(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatJSONC, FormatYAML, FormatCBOR} {
		t.Run(string(f), func(t *testing.T) {
			p := plannedExample(t)
			p.Metadata["id"] = 7
			want := canonical(t, planner.Serialize(p))

			data, err := Marshal(planner.Serialize(p), f)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			doc, err := Unmarshal(data, f)
			if err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			back, err := planner.DeserializeProject(doc)
			if err != nil {
				t.Fatalf("DeserializeProject: %v", err)
			}
			if got := canonical(t, planner.Serialize(back)); got != want {
				t.Errorf("round trip mismatch:\n got: %s\nwant: %s", got, want)
			}
		})
	}
}

func TestCBORDeterministic(t *testing.T) {
	doc := planner.Serialize(plannedExample(t))
	a, err := Marshal(doc, FormatCBOR)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	b, err := Marshal(doc, FormatCBOR)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(a) != string(b) {
		t.Error("CBOR encoding is not deterministic")
	}
}

func TestUnmarshalJSONC(t *testing.T) {
	src := `{
  // hand-written plan
  "activity_type": "project",
  "title": "Release",
  "deadline": 10,
  "activities": [
    {"activity_type": "task", "title": "build", "duration": 3, "resources": ["alice"],},
    /* slack */
    {"activity_type": "milestone", "title": "Milestone", "duration": 1},
  ],
}`
	doc, err := Unmarshal([]byte(src), FormatJSONC)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	p, err := planner.DeserializeProject(doc)
	if err != nil {
		t.Fatalf("DeserializeProject: %v", err)
	}
	if err := planner.Plan(p); err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if got := p.Start().String(); got != "6" {
		t.Errorf("Start() = %s, want 6", got)
	}
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		f    Format
	}{
		{name: "bad json", data: "{", f: FormatJSON},
		{name: "bad yaml", data: "activity_type: [", f: FormatYAML},
		{name: "bad cbor", data: "\xff\xff", f: FormatCBOR},
		{name: "unknown format", data: "{}", f: Format("xml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unmarshal([]byte(tt.data), tt.f); err == nil {
				t.Error("Unmarshal() error = nil, want error")
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{path: "plan.json", want: FormatJSON},
		{path: "plan.JSONC", want: FormatJSONC},
		{path: "plan.yaml", want: FormatYAML},
		{path: "dir/plan.yml", want: FormatYAML},
		{path: "plan.cbor", want: FormatCBOR},
		{path: "plan", want: FormatJSON},
	}

	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(" YML "); err != nil || f != FormatYAML {
		t.Errorf("ParseFormat(yml) = %q, %v", f, err)
	}
	if _, err := ParseFormat("toml"); err == nil {
		t.Error("ParseFormat(toml) error = nil, want error")
	}
}

func TestSaveAndLoadProject(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"plan.json", "plan.yaml", "plan.cbor"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			p := plannedExample(t)
			if err := SaveProject(path, p); err != nil {
				t.Fatalf("SaveProject: %v", err)
			}
			back, err := LoadProject(path)
			if err != nil {
				t.Fatalf("LoadProject: %v", err)
			}
			if back.Title() != p.Title() || back.Duration() != p.Duration() {
				t.Errorf("loaded %q (%v), want %q (%v)", back.Title(), back.Duration(), p.Title(), p.Duration())
			}
		})
	}
}

func TestLoadProjectErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadProject(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: error = %v, want os.ErrNotExist", err)
	}

	path := filepath.Join(dir, "task.json")
	if err := os.WriteFile(path, []byte(`{"activity_type": "task", "duration": 1}`), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadProject(path)
	if err == nil || !strings.Contains(err.Error(), "task.json") {
		t.Errorf("non-project document: error = %v, want error naming the file", err)
	}
}
