package cmd

import (
	"context"
	"flag"
	"fmt"
	"runtime"
	"strings"

	"github.com/nibzard/capplan-go/internal/codec"
	"github.com/nibzard/capplan-go/internal/parallel"
	"github.com/nibzard/capplan-go/internal/planner"
	"github.com/nibzard/capplan-go/internal/render"
	"github.com/nibzard/capplan-go/internal/ui"
	"github.com/nibzard/capplan-go/internal/utils"
)

// loadProjects decodes and plans every path concurrently, keeping order.
func (a *app) loadProjects(ctx context.Context, paths []string) ([]*planner.Project, error) {
	projects, err := parallel.LoadProjects(ctx, paths, runtime.NumCPU(), false, codec.LoadProject)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("loaded projects", "count", len(projects))
	return projects, nil
}

// todoCommand lists the open tasks of the given resources.
func (a *app) todoCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("capplan todo", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	resources := fs.String("r", strings.Join(a.cfg.DefaultResources, ","), "Comma-separated resources to list tasks for (default: everyone)")
	unsorted := fs.Bool("unsorted", false, "Keep traversal order instead of sorting by start")
	if err := fs.Parse(args); err != nil {
		return err
	}
	projects, err := a.loadProjects(ctx, a.projectPaths(fs.Args()))
	if err != nil {
		return err
	}

	ids := utils.NormalizeList(utils.SplitAndTrim(*resources, ","))
	tasks := planner.TodoList(projects, planner.NewResourceSet(ids...), !*unsorted)
	if len(ids) > 0 {
		fmt.Fprintf(a.stdout, "To do for %s:\n", strings.Join(ids, ", "))
	}
	if len(tasks) == 0 {
		fmt.Fprintln(a.stdout, "  nothing to do")
		return nil
	}
	for _, t := range tasks {
		fmt.Fprintln(a.stdout, todoLine(t))
	}
	return nil
}

func todoLine(t *planner.Task) string {
	line := fmt.Sprintf("%6s-%-6s %-24s %3.0f%%", t.Start(), t.End(), t.String(), t.Progress()*100)
	if rs := t.Resources(); rs.Len() > 0 {
		line += "  " + strings.Join(rs.Sorted(), ", ")
	}
	return strings.TrimRight(line, " ")
}

// resourcesCommand prints every resource used by the projects.
func (a *app) resourcesCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("capplan resources", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	projects, err := a.loadProjects(ctx, a.projectPaths(fs.Args()))
	if err != nil {
		return err
	}
	for _, id := range planner.ResourceList(projects).Sorted() {
		fmt.Fprintln(a.stdout, id)
	}
	return nil
}

// ganttCommand draws a chart per project, preceded by a timeline when
// several projects are given.
func (a *app) ganttCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("capplan gantt", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	noColor := fs.Bool("no-color", false, "Disable colors")
	if err := fs.Parse(args); err != nil {
		return err
	}
	projects, err := a.loadProjects(ctx, a.projectPaths(fs.Args()))
	if err != nil {
		return err
	}

	theme := render.NewTheme(render.NewRenderer(a.stdout, !*noColor && ui.IsTTY(a.stdout)))
	opts := render.Options{Width: a.cfg.Render.Width, Theme: &theme}
	if len(projects) > 1 {
		fmt.Fprintln(a.stdout, render.Timeline(projects, opts))
	}
	for _, p := range projects {
		fmt.Fprintln(a.stdout, render.Gantt(p, opts))
	}
	return nil
}

// tuiCommand launches the interactive viewer. Refreshing reloads the files.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("capplan tui", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	paths := a.projectPaths(fs.Args())
	projects, err := a.loadProjects(ctx, paths)
	if err != nil {
		return err
	}

	theme := render.NewTheme(render.NewRenderer(a.stdout, true))
	return ui.Run(ctx, projects,
		ui.WithReload(func() ([]*planner.Project, error) {
			return a.loadProjects(ctx, paths)
		}),
		ui.WithTheme(theme),
		ui.WithWidth(a.cfg.Render.Width),
	)
}
