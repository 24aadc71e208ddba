package planner

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Plan schedules the whole tree under root, anchored at root's deadline.
//
// The tree is checked before any node is touched: when Plan returns an
// error, every end date in the tree is exactly what it was before the call.
func Plan(root Activity) error {
	if err := Validate(root); err != nil {
		return err
	}
	if _, _, err := root.Plan(Unset, nil); err != nil {
		return fmt.Errorf("plan %s: %w", root, err)
	}
	return nil
}

// Validate reports every problem that would make the tree under root
// unplannable or inconsistent: a root without a deadline, negative or
// non-finite durations and progress outside [0, 1].
func Validate(root Activity) error {
	var errs []error
	switch r := root.(type) {
	case Collection:
		if !r.Deadline().IsSet() {
			errs = append(errs, &PlannerError{Node: r.Title()})
		}
	default:
		errs = append(errs, &PlannerError{Node: root.Title()})
	}
	for _, t := range root.Tasks(nil) {
		if !validDuration(t.baseDuration) {
			errs = append(errs, fmt.Errorf("task %q: %w, got %v", t.title, ErrInvalidDuration, t.baseDuration))
		}
		if math.IsNaN(t.progress) || t.progress < 0 || t.progress > 1 {
			errs = append(errs, fmt.Errorf("task %q: %w, got %v", t.title, ErrInvalidProgress, t.progress))
		}
	}
	return errors.Join(errs...)
}

// SortByStart orders tasks by ascending start date. Ties keep their input
// order and unplanned tasks go last.
func SortByStart(tasks []*Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i].Start(), tasks[j].Start()
		if !a.IsSet() {
			return false
		}
		if !b.IsSet() {
			return true
		}
		return a.value < b.value
	})
}

// ResourceList returns the union of the resources used by projects.
func ResourceList[A Activity](projects []A) ResourceSet {
	out := make(ResourceSet)
	for _, p := range projects {
		out = out.Union(p.Resources())
	}
	return out
}

// TodoList returns the open work across projects for the given resources:
// every matching leaf that is not a milestone and not complete. With sorted
// set the list is ordered by start date, otherwise by traversal.
func TodoList[A Activity](projects []A, filter ResourceSet, sorted bool) []*Task {
	seen := make(map[*Task]struct{})
	var out []*Task
	for _, p := range projects {
		for _, t := range p.Tasks(filter) {
			if t.progress >= 1 || t.IsMilestone() {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	if sorted {
		SortByStart(out)
	}
	return out
}
