package engine

import "loom/registry"

// InitClone accepts a freshly created clone target, rejecting it
// silently if the clone limit has been reached. On acceptance the
// clone is registered, appended to the executable target list, and
// every CloneInit hat on its root sprite is fired targeting the clone
// itself (not the root).
func (e *Engine) InitClone(clone *registry.Target) bool {
	if e.cloneLimit >= 0 && e.cloneCount >= e.cloneLimit {
		return false
	}
	e.store.AddTarget(clone)
	e.cloneCount++
	e.targets = append(e.targets, clone)
	clone.LayerOrder = len(e.targets) - 1
	e.StartHats(CloneInit, nil, clone)
	return true
}

// DeleteClones removes every live clone from both the clone set and
// the executable target list. Called by Stop, and available directly
// for a project's own "delete this clone"-adjacent bulk operations.
func (e *Engine) DeleteClones() {
	remaining := e.targets[:0]
	for _, t := range e.targets {
		if t.CloneRoot != nil {
			e.store.RemoveTarget(t.ID)
			e.cloneCount--
			continue
		}
		remaining = append(remaining, t)
	}
	e.targets = remaining
	for i, t := range e.targets {
		t.LayerOrder = i
	}
}

// DeleteClone removes a single clone, e.g. from a "delete this clone"
// block primitive.
func (e *Engine) DeleteClone(clone *registry.Target) {
	if clone.CloneRoot == nil {
		return
	}
	for i, t := range e.targets {
		if t == clone {
			e.targets = append(e.targets[:i], e.targets[i+1:]...)
			break
		}
	}
	e.store.RemoveTarget(clone.ID)
	e.cloneCount--
	for i, t := range e.targets {
		t.LayerOrder = i
	}
}
