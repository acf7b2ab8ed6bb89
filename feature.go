package vlist

import (
	"fmt"
)

// Feature is one enhancer in the composition pipeline. It is
// deliberately data-only: Name/Provides/Requires describe the capability
// graph so verifyCapabilities can check ordering once dig wiring has
// assembled the enabled enhancers, making composition an explicit, resolvable dependency graph
// instead of an implicit call-order contract.
type Feature interface {
	Name() string
	Provides() []string
	Requires() []string
}

// pipelineOrder is the fixed enhancer sequence: "base → events →
// element → viewport → lifecycle → API → selection → layout → search →
// filter → stats → velocity → scroll-restore". The first six stages are
// always-available capabilities a List wires internally (its event bus,
// rendering/element pool, viewport math, collection lifecycle, and public
// API surface); the remaining entries are the optional Feature enhancers a
// Config may enable.
var pipelineOrder = []string{
	"base", "events", "element", "viewport", "lifecycle", "api",
	"selection", "layout", "search", "filter", "stats", "velocity", "scroll-restore",
}

// stageIndex returns pipelineOrder's position for name, or -1.
func stageIndex(name string) int {
	for i, s := range pipelineOrder {
		if s == name {
			return i
		}
	}
	return -1
}

// verifyCapabilities checks that every capability a feature Requires() is
// Provided() by a stage earlier in pipelineOrder than the feature itself.
// New runs it after the dig.Container has assembled the enabled enhancers,
// so a configuration mistake fails with a message naming the feature and
// the missing capability.
func verifyCapabilities(features []Feature) error {
	provided := map[string]bool{
		"base": true, "events": true, "element": true,
		"viewport": true, "lifecycle": true, "api": true,
	}
	ordered := make([]Feature, len(features))
	copy(ordered, features)
	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			if stageIndex(ordered[j].Name()) < stageIndex(ordered[i].Name()) {
				ordered[i], ordered[j] = ordered[j], ordered[i]
			}
		}
	}
	for _, f := range ordered {
		for _, req := range f.Requires() {
			if !provided[req] {
				return fmt.Errorf("vlist: feature %q requires capability %q, which no earlier stage provides", f.Name(), req)
			}
		}
		for _, p := range f.Provides() {
			provided[p] = true
		}
	}
	return nil
}

// microtaskQueue emulates the feature pipeline's microtask boundary with a single buffered channel drained by one dedicated
// goroutine, giving deterministic FIFO ordering that tests can observe
// without a real JS-style event loop.
type microtaskQueue struct {
	tasks chan func()
	done  chan struct{}
}

// newMicrotaskQueue creates and starts a queue. Call stop to drain and
// terminate the worker goroutine.
func newMicrotaskQueue() *microtaskQueue {
	q := &microtaskQueue{
		tasks: make(chan func(), 64),
		done:  make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *microtaskQueue) run() {
	for {
		select {
		case fn, ok := <-q.tasks:
			if !ok {
				close(q.done)
				return
			}
			fn()
		}
	}
}

// schedule enqueues fn to run after every previously scheduled task.
func (q *microtaskQueue) schedule(fn func()) {
	q.tasks <- fn
}

// scheduleSync enqueues fn and blocks until it has run, so initialization
// code that needs the result before continuing (dig constructors, in
// particular) can still observe FIFO microtask ordering.
func (q *microtaskQueue) scheduleSync(fn func()) {
	done := make(chan struct{})
	q.tasks <- func() {
		fn()
		close(done)
	}
	<-done
}

// stop closes the queue once all currently scheduled tasks have run.
func (q *microtaskQueue) stop() {
	close(q.tasks)
	<-q.done
}
