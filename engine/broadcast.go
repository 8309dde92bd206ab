package engine

import (
	"loom/registry"
	"loom/trace"
)

// Broadcast fires every "when I receive <name>" hat across all
// targets. Backdrop-name broadcasts are routed through
// StartBackdropScripts instead; the two namespaces never overlap in
// the hat index since compile classifies event_whenbackdropswitchesto
// hats under BackdropChanged, not BroadcastReceived.
func (e *Engine) Broadcast(name string) []*Thread {
	started := e.StartHats(BroadcastReceived, map[string]string{"BROADCAST_OPTION": name}, nil)
	trace.Broadcast(name, len(started))
	return started
}

// StartBackdropScripts fires every "when backdrop switches to
// <name>" hat.
func (e *Engine) StartBackdropScripts(name string) []*Thread {
	return e.StartHats(BackdropChanged, map[string]string{"BACKDROP": name}, nil)
}

// BroadcastRunning reports whether any live thread's script is a
// subscriber of the named broadcast.
func (e *Engine) BroadcastRunning(name string) bool {
	subscribers := e.broadcastIx[name]
	if len(subscribers) == 0 {
		return false
	}
	for _, th := range e.threads {
		if th.Finished() {
			continue
		}
		for _, s := range subscribers {
			if th.Script == s {
				return true
			}
		}
	}
	return false
}

// BroadcastByPtr fires a broadcast already resolved to a registry
// entity, rather than by name — the entry point external callers with
// a resolved *registry.Broadcast in hand use, mirroring the reference
// engine's broadcastByPtr overload.
func (e *Engine) BroadcastByPtr(b *registry.Broadcast) []*Thread {
	if b == nil {
		return nil
	}
	if b.IsBackdrop {
		return e.StartBackdropScripts(b.Name)
	}
	return e.Broadcast(b.Name)
}
