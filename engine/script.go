package engine

import (
	"loom/registry"
	"loom/vm"
)

// Script is one compiled top-level block, tied to the target that
// owns it. A Script is a template: starting it spawns a Thread (a
// fresh vm.VM bound to the same Program) rather than executing
// directly.
type Script struct {
	ID          string
	Target      *registry.Target
	Program     *vm.Program
	Hat         HatType
	MatchFields map[string]string
	TopBlock    *registry.Block
}

// Thread is a running instance of a Script: one vm.VM invocation in
// progress, plus the bookkeeping the scheduler needs to find and reap
// it.
type Thread struct {
	Target  *registry.Target
	Script  *Script
	VM      *vm.VM
	Killed  bool
}

// Finished reports whether this thread's VM has run to completion (or
// been killed and reaped by a Run).
func (t *Thread) Finished() bool {
	return t.VM.AtEnd
}
