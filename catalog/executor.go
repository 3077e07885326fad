package catalog

// Executor runs a function, typically on another goroutine. It decouples
// where sorting work happens from the pipeline that requests it, so callers
// on latency-sensitive goroutines can push ranking work elsewhere.
type Executor interface {
	Execute(fn func())
}

// GoExecutor runs each submitted function on its own goroutine.
type GoExecutor struct{}

// Execute implements Executor.
func (GoExecutor) Execute(fn func()) {
	go fn()
}

// DefaultExecutor is used whenever a nil Executor is supplied.
var DefaultExecutor Executor = GoExecutor{}
