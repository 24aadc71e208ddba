package planner

// ExampleProject returns the sample project used by the example command and
// the documentation: fourteen tasks in nested serial and parallel groups,
// due at 11 with 2 units of slack.
func ExampleProject() *Project {
	first := NewSerial("", NewTask(1, "T1", WithResources("piet", "klaas")), NewTask(1, "T2"), NewTask(2, "T3"))
	second := NewSerial("", NewParallel("", NewTask(1, "T4"), NewTask(2, "T5")), NewTask(1, "T6"))
	third := NewSerial("", NewTask(1, "T7"), NewTask(1, "T8"), NewTask(3, "T9"))
	fourth := NewParallel("", NewTask(2, "T10"), NewTask(3, "T11"))
	head := NewParallel("", first, second, third, fourth)
	tail := NewParallel("", NewSerial("", NewTask(1, "T12"), NewTask(3, "T13")), NewTask(2, "T14"))
	return NewProject("Example project", At(11), 2, head, tail)
}
