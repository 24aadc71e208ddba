package parallel

import (
	"context"
	"errors"
	"fmt"

	"github.com/nibzard/capplan-go/internal/planner"
)

// LoadFunc decodes one project file.
type LoadFunc func(path string) (*planner.Project, error)

// LoadProjects decodes every path with load on a pool of maxWorkers and plans
// each project. Projects come back in the order of paths. Any failure is
// reported with its path; with failFast the remaining files are skipped.
func LoadProjects(ctx context.Context, paths []string, maxWorkers int, failFast bool, load LoadFunc) ([]*planner.Project, error) {
	pool := NewWorkerPool(ctx, maxWorkers, failFast)
	for _, path := range paths {
		path := path
		pool.Submit(path, func(ctx context.Context) (*planner.Project, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			p, err := load(path)
			if err != nil {
				return nil, err
			}
			if err := planner.Plan(p); err != nil {
				return nil, err
			}
			return p, nil
		})
	}

	results, errs := pool.Wait()
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(results) != len(paths) {
		return nil, fmt.Errorf("loaded %d of %d projects", len(results), len(paths))
	}

	projects := make([]*planner.Project, len(results))
	for i, r := range results {
		projects[i] = r.Project
	}
	return projects, nil
}
