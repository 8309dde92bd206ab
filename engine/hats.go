package engine

import (
	"loom/registry"
	"loom/trace"
	"loom/vm"
)

// AddScript registers a compiled top-level script with the engine's
// hat index. Called once per top-level block during Compile.
func (e *Engine) AddScript(s *Script) {
	e.scripts = append(e.scripts, s)
	e.hatIndex[s.Hat] = append(e.hatIndex[s.Hat], s)
	if s.Hat == BroadcastReceived {
		name := s.MatchFields["BROADCAST_OPTION"]
		e.broadcastIx[name] = append(e.broadcastIx[name], s)
	}
}

// findThreadIndex returns the index of the running (not-finished)
// thread for (target, script) in e.threads, or -1.
func (e *Engine) findThreadIndex(target *registry.Target, script *Script) int {
	for i, th := range e.threads {
		if th.Target == target && th.Script == script && !th.Finished() {
			return i
		}
	}
	return -1
}

func (e *Engine) newThread(script *Script, target *registry.Target) *Thread {
	program := script.Program
	if target != script.Target {
		program = program.Rebind(e.store, target, make(map[*vm.Program]*vm.Program))
	}
	v := program.NewVM()
	v.Engine = e
	v.RNG = e.rng
	th := &Thread{Target: target, Script: script, VM: v}
	trace.ThreadStart(target.Name, script.TopBlock.Opcode)
	return th
}

// StartHats fires every script of the given hat type whose match
// fields agree with matchFields, iterating executable targets in
// reverse order (so the topmost sprite's hats run first, mirroring
// the reference engine's traversal). optTarget restricts firing to a
// single target (used for CloneInit, which always targets the new
// clone rather than every target).
func (e *Engine) StartHats(hat HatType, matchFields map[string]string, optTarget *registry.Target) []*Thread {
	var started []*Thread
	restarts := hat.restartsExisting()

	for i := len(e.targets) - 1; i >= 0; i-- {
		target := e.targets[i]
		if optTarget != nil && target != optTarget {
			continue
		}
		hatTarget := target
		if target.CloneRoot != nil {
			hatTarget = target.CloneRoot
		}
		for _, script := range e.hatIndex[hat] {
			if script.Target != hatTarget {
				continue
			}
			if !fieldsMatch(script.MatchFields, matchFields) {
				continue
			}
			idx := e.findThreadIndex(target, script)
			restarted := idx >= 0
			if restarted && !restarts {
				continue
			}
			th := e.newThread(script, target)
			if restarted {
				e.threads[idx].VM.Kill()
				e.threads[idx] = th
			} else {
				e.threads = append(e.threads, th)
			}
			started = append(started, th)
			trace.HatFired(hat.String(), target.Name, restarted)
		}
	}
	return started
}

func fieldsMatch(scriptFields, want map[string]string) bool {
	for k, v := range want {
		if scriptFields[k] != v {
			return false
		}
	}
	return true
}
