// Package parallel loads independent project files concurrently.
//
// It provides:
//   - WorkerPool: bounded concurrency pool whose results keep submission order
//   - LoadProjects: decode and plan a set of project files on the pool
//
// Every job builds and owns its own tree, so no planner state is shared
// between goroutines.
package parallel
