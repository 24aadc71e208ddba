// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/capplan-go/internal/codec"
	"github.com/nibzard/capplan-go/internal/config"
	"github.com/nibzard/capplan-go/internal/planner"
	"github.com/nibzard/capplan-go/internal/store"
)

// setup isolates the test from user config and the environment and returns
// the working directory.
func setup(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, key := range []string{
		"CAPPLAN_PROJECT", "CAPPLAN_SCHEMA", "CAPPLAN_STORE_BACKEND", "CAPPLAN_STORE_PATH",
		"CAPPLAN_RENDER_WIDTH", "CAPPLAN_RESOURCES", "CAPPLAN_LOG_LEVEL", "CAPPLAN_LOG_FILE",
	} {
		t.Setenv(key, "")
	}
	wd := t.TempDir()
	chdir(t, wd)
	return wd
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

// writeProject saves p unplanned at path.
func writeProject(t *testing.T, path string, p *planner.Project) {
	t.Helper()
	if err := codec.SaveProject(path, p); err != nil {
		t.Fatalf("SaveProject(%s) error = %v", path, err)
	}
}

func sideProject() *planner.Project {
	return planner.NewProject("Side", planner.At(3), 0,
		planner.NewSerial("",
			planner.NewTask(2, "fix", planner.WithResources("piet")),
			planner.NewTask(1, "ship", planner.WithResources("bob")),
		),
	)
}

func loadPlanned(t *testing.T, path string) *planner.Project {
	t.Helper()
	p, err := codec.LoadProject(path)
	if err != nil {
		t.Fatalf("LoadProject(%s) error = %v", path, err)
	}
	return p
}

func TestRun(t *testing.T) {
	setup(t)

	t.Run("shows help with -h flag", func(t *testing.T) {
		out, _, err := runCLI(t, "-h")
		if err != nil {
			t.Fatalf("expected no error with -h, got %v", err)
		}
		if !strings.Contains(out, "Commands:") {
			t.Errorf("help output missing commands:\n%s", out)
		}
	})

	t.Run("shows help with help command", func(t *testing.T) {
		out, _, err := runCLI(t, "help")
		if err != nil {
			t.Fatalf("expected no error with help command, got %v", err)
		}
		if !strings.Contains(out, "-store-path") {
			t.Errorf("help output missing global flags:\n%s", out)
		}
	})

	t.Run("shows version", func(t *testing.T) {
		for _, args := range [][]string{{"-v"}, {"--version"}, {"version"}} {
			out, _, err := runCLI(t, args...)
			if err != nil {
				t.Fatalf("%v: unexpected error %v", args, err)
			}
			if out != "capplan version dev\n" {
				t.Errorf("%v: output = %q", args, out)
			}
		}
	})

	t.Run("unknown command returns error", func(t *testing.T) {
		_, stderr, err := runCLI(t, "unknown-command")
		if err == nil || !strings.Contains(err.Error(), "unknown command") {
			t.Fatalf("expected 'unknown command' error, got %v", err)
		}
		if !strings.Contains(stderr, "Unknown command: unknown-command") {
			t.Errorf("stderr = %q", stderr)
		}
	})

	t.Run("bad global flag value", func(t *testing.T) {
		_, _, err := runCLI(t, "-store", "redis", "version")
		if err == nil || !strings.Contains(err.Error(), "loading config") {
			t.Fatalf("expected config error, got %v", err)
		}
	})
}

func TestExampleCommand(t *testing.T) {
	setup(t)

	out, _, err := runCLI(t, "example")
	if err != nil {
		t.Fatalf("example error = %v", err)
	}
	doc, err := codec.Unmarshal([]byte(out), codec.FormatJSON)
	if err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	p, err := planner.DeserializeProject(doc)
	if err != nil {
		t.Fatalf("DeserializeProject error = %v", err)
	}
	if p.Title() != "Example project" {
		t.Errorf("title = %q", p.Title())
	}
	if !p.End().Equal(planner.At(11)) {
		t.Errorf("end = %s, want 11", p.End())
	}

	out, _, err = runCLI(t, "example", "-config")
	if err != nil {
		t.Fatalf("example -config error = %v", err)
	}
	if out != config.ExampleConfig() {
		t.Error("example -config does not print the example config")
	}

	if _, _, err := runCLI(t, "example", "-o", "example.yaml"); err != nil {
		t.Fatalf("example -o error = %v", err)
	}
	if p := loadPlanned(t, "example.yaml"); !p.Start().IsSet() {
		t.Error("written example is not planned")
	}
}

func TestPlanCommand(t *testing.T) {
	wd := setup(t)
	writeProject(t, filepath.Join(wd, "project.json"), planner.ExampleProject())

	t.Run("prints yaml", func(t *testing.T) {
		out, stderr, err := runCLI(t, "plan", "-format", "yaml")
		if err != nil {
			t.Fatalf("plan error = %v", err)
		}
		if !strings.Contains(out, "activity_type: project") {
			t.Errorf("output is not a yaml project:\n%s", out)
		}
		if !strings.Contains(stderr, "planned") {
			t.Errorf("stderr missing log line: %q", stderr)
		}
	})

	t.Run("writes to another file", func(t *testing.T) {
		if _, _, err := runCLI(t, "plan", "-o", "planned.cbor", "project.json"); err != nil {
			t.Fatalf("plan -o error = %v", err)
		}
		p := loadPlanned(t, "planned.cbor")
		task, ok := p.Task("T13")
		if !ok {
			t.Fatal("T13 missing")
		}
		if !task.End().Equal(planner.At(9)) {
			t.Errorf("T13 end = %s, want 9", task.End())
		}
	})

	t.Run("writes in place", func(t *testing.T) {
		if _, _, err := runCLI(t, "plan", "-w"); err != nil {
			t.Fatalf("plan -w error = %v", err)
		}
		if p := loadPlanned(t, "project.json"); !p.End().Equal(planner.At(11)) {
			t.Errorf("end = %s, want 11", p.End())
		}
	})

	errorCases := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{"plan", "missing.json"}, "read document"},
		{"conflicting outputs", []string{"plan", "-w", "-o", "x.json"}, "mutually exclusive"},
		{"bad format", []string{"plan", "-format", "xml"}, "xml"},
		{"extra arguments", []string{"plan", "a.json", "b.json"}, "unexpected arguments"},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := runCLI(t, tc.args...)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error = %v, want containing %q", err, tc.want)
			}
		})
	}
}

func TestPlanCommandUnschedulable(t *testing.T) {
	wd := setup(t)
	p := planner.ExampleProject()
	doc := planner.Serialize(p)
	doc.Deadline = nil
	if err := codec.SaveFile(filepath.Join(wd, "project.json"), doc); err != nil {
		t.Fatal(err)
	}
	_, _, err := runCLI(t, "plan")
	if !errors.Is(err, planner.ErrUnschedulable) {
		t.Errorf("error = %v, want ErrUnschedulable", err)
	}
}

func TestShiftCommand(t *testing.T) {
	wd := setup(t)
	writeProject(t, filepath.Join(wd, "project.json"), planner.ExampleProject())

	out, _, err := runCLI(t, "shift", "-deadline", "20")
	if err != nil {
		t.Fatalf("shift error = %v", err)
	}
	if !strings.Contains(out, "deadline 11 -> 20") {
		t.Errorf("output = %q", out)
	}
	p := loadPlanned(t, "project.json")
	if !p.Deadline().Equal(planner.At(20)) || !p.End().Equal(planner.At(20)) {
		t.Errorf("deadline = %s, end = %s, want 20", p.Deadline(), p.End())
	}

	out, _, err = runCLI(t, "shift", "-deadline", "20")
	if err != nil {
		t.Fatalf("second shift error = %v", err)
	}
	if !strings.Contains(out, "deadline already 20") {
		t.Errorf("output = %q", out)
	}

	for _, args := range [][]string{{"shift"}, {"shift", "-deadline", "soon"}} {
		if _, _, err := runCLI(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestValidateCommand(t *testing.T) {
	wd := setup(t)
	writeProject(t, filepath.Join(wd, "good.json"), planner.ExampleProject())
	bad := planner.Serialize(planner.ExampleProject())
	bad.ActivityType = "bogus"
	if err := codec.SaveFile(filepath.Join(wd, "bad.json"), bad); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, "validate", "good.json")
	if err != nil {
		t.Fatalf("validate good.json error = %v", err)
	}
	if !strings.HasPrefix(out, "ok ") {
		t.Errorf("output = %q", out)
	}

	out, _, err = runCLI(t, "validate", "good.json", "bad.json", "missing.json")
	if err == nil || err.Error() != "2 of 3 documents invalid" {
		t.Fatalf("error = %v, want 2 of 3 documents invalid", err)
	}
	if strings.Count(out, "FAIL") != 2 || !strings.Contains(out, "activity_type") {
		t.Errorf("output:\n%s", out)
	}
}

func TestTodoCommand(t *testing.T) {
	wd := setup(t)
	writeProject(t, filepath.Join(wd, "side.json"), sideProject())

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"everyone", []string{"todo", "side.json"}, []string{"fix", "ship"}},
		{"one resource", []string{"todo", "-r", "bob", "side.json"}, []string{"To do for bob:", "ship"}},
		{"unknown resource", []string{"todo", "-r", "zed", "side.json"}, []string{"To do for zed:", "nothing to do"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, _, err := runCLI(t, tc.args...)
			if err != nil {
				t.Fatalf("todo error = %v", err)
			}
			lines := strings.Split(strings.TrimSpace(out), "\n")
			if len(lines) != len(tc.want) {
				t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(tc.want), out)
			}
			for i, want := range tc.want {
				if !strings.Contains(lines[i], want) {
					t.Errorf("line %d = %q, want containing %q", i, lines[i], want)
				}
			}
		})
	}

	t.Run("default resources from env", func(t *testing.T) {
		t.Setenv("CAPPLAN_RESOURCES", "piet")
		out, _, err := runCLI(t, "todo", "side.json")
		if err != nil {
			t.Fatalf("todo error = %v", err)
		}
		if !strings.Contains(out, "fix") || strings.Contains(out, "ship") {
			t.Errorf("output:\n%s", out)
		}
	})
}

func TestTodoLine(t *testing.T) {
	p := sideProject()
	if err := planner.Plan(p); err != nil {
		t.Fatal(err)
	}
	task, _ := p.Task("fix")
	want := "     0-2      fix                        0%  piet"
	if got := todoLine(task); got != want {
		t.Errorf("todoLine() = %q, want %q", got, want)
	}
}

func TestResourcesCommand(t *testing.T) {
	wd := setup(t)
	writeProject(t, filepath.Join(wd, "example.json"), planner.ExampleProject())
	writeProject(t, filepath.Join(wd, "side.yaml"), sideProject())

	out, _, err := runCLI(t, "resources", "example.json", "side.yaml")
	if err != nil {
		t.Fatalf("resources error = %v", err)
	}
	if out != "bob\nklaas\npiet\n" {
		t.Errorf("output = %q", out)
	}

	_, _, err = runCLI(t, "resources", "example.json", "missing.json")
	if err == nil || !strings.Contains(err.Error(), "missing.json") {
		t.Errorf("error = %v, want one naming missing.json", err)
	}
}

func TestGanttCommand(t *testing.T) {
	wd := setup(t)
	writeProject(t, filepath.Join(wd, "example.json"), planner.ExampleProject())
	writeProject(t, filepath.Join(wd, "side.json"), sideProject())

	out, _, err := runCLI(t, "-width", "60", "gantt", "-no-color", "example.json")
	if err != nil {
		t.Fatalf("gantt error = %v", err)
	}
	if !strings.Contains(out, "Example project") || !strings.Contains(out, "T14") {
		t.Errorf("chart missing rows:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("chart contains escape sequences")
	}

	out, _, err = runCLI(t, "gantt", "example.json", "side.json")
	if err != nil {
		t.Fatalf("gantt error = %v", err)
	}
	if !strings.Contains(out, "[Side") || !strings.Contains(out, "fix") {
		t.Errorf("timeline or second chart missing:\n%s", out)
	}
}

func TestImportAndFinish(t *testing.T) {
	wd := setup(t)
	writeProject(t, filepath.Join(wd, "example.json"), planner.ExampleProject())
	writeProject(t, filepath.Join(wd, "side.json"), sideProject())
	storePath := filepath.Join(wd, "data", "store.json")
	if err := os.MkdirAll(filepath.Dir(storePath), 0755); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, "-store-path", storePath, "import", "example.json", "side.json")
	if err != nil {
		t.Fatalf("import error = %v", err)
	}
	if out != "1\tExample project\n2\tSide\n" {
		t.Errorf("import output = %q", out)
	}

	active := func() []store.Record {
		t.Helper()
		s, err := store.OpenFile(storePath)
		if err != nil {
			t.Fatal(err)
		}
		recs, err := store.ActiveProjects(context.Background(), s)
		if err != nil {
			t.Fatal(err)
		}
		return recs
	}
	recs := active()
	if len(recs) != 2 {
		t.Fatalf("active projects = %d, want 2", len(recs))
	}
	if recs[0].Document.End == nil || *recs[0].Document.End != 11 {
		t.Errorf("imported project is not planned: end = %v", recs[0].Document.End)
	}

	out, _, err = runCLI(t, "-store-path", storePath, "finish", "1")
	if err != nil {
		t.Fatalf("finish error = %v", err)
	}
	if out != "finished 1\tExample project\n" {
		t.Errorf("finish output = %q", out)
	}
	recs = active()
	if len(recs) != 1 || recs[0].Document.Title != "Side" {
		t.Fatalf("active projects after finish = %v", recs)
	}

	_, _, err = runCLI(t, "-store-path", storePath, "finish", "1")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("finishing twice: error = %v, want ErrNotFound", err)
	}

	if _, _, err := runCLI(t, "-store-path", storePath, "import", "example.json"); err != nil {
		t.Fatalf("second import error = %v", err)
	}
	if recs := active(); len(recs) != 2 || recs[1].Document.Metadata["id"] != float64(3) {
		t.Errorf("reimported project should get id 3: %v", recs)
	}
}

func TestFinishErrors(t *testing.T) {
	setup(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no id", []string{"finish"}, "expected one project id"},
		{"bad id", []string{"finish", "abc"}, "invalid project id"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := runCLI(t, tc.args...)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error = %v, want containing %q", err, tc.want)
			}
		})
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var stdout, stderr bytes.Buffer
	if err := run(ctx, []string{"-addr", "127.0.0.1:0", "serve"}, &stdout, &stderr); err != nil {
		t.Errorf("serve after cancel: error = %v", err)
	}
}

// chdir changes the working directory to dir and restores it when the
// test finishes (equivalent to testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
