// Package planner builds and schedules trees of work items.
//
// A tree is made of leaf tasks and milestones grouped into Serial
// (sequential) and Parallel (concurrent) collections, with a Project at the
// root. Planning is backward: the root's deadline is the anchor and every node
// is placed at its latest safe position, so no float is modeled.
//
// The typical flow:
//
//  1. Build the tree bottom-up (NewTask, NewSerial, NewParallel, NewProject),
//     or decode it from a Document.
//  2. Plan(root) assigns an end date to every node.
//  3. Query the planned tree: Tasks, Task, Collections, TodoList, ResourceList.
//
// Nothing in this package is safe for concurrent mutation. Callers that share
// a tree between goroutines must serialize access themselves.
package planner
