package render

import "github.com/nibzard/capplan-go/internal/planner"

// Layout packs projects into timeline rows. Each planned project goes into the
// first row none of whose projects overlap it in time; a new row is opened
// when every row conflicts. Projects that only touch at an endpoint do not
// overlap. Unplanned projects are skipped.
func Layout(projects []*planner.Project) [][]*planner.Project {
	var rows [][]*planner.Project
	for _, p := range projects {
		start, ok1 := p.Start().Value()
		end, ok2 := p.End().Value()
		if !ok1 || !ok2 {
			continue
		}
		placed := false
		for i, row := range rows {
			if !overlapsAny(row, start, end) {
				rows[i] = append(row, p)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, []*planner.Project{p})
		}
	}
	return rows
}

func overlapsAny(row []*planner.Project, start, end float64) bool {
	for _, q := range row {
		qs, _ := q.Start().Value()
		qe, _ := q.End().Value()
		if start < qe && qs < end {
			return true
		}
	}
	return false
}
