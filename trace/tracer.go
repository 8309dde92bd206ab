package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Tracer provides execution tracing for debugging the scheduler and VM.
type Tracer struct {
	enabled bool
	filters []string
	writer  io.Writer
	mu      sync.Mutex
}

// Global tracer instance
var globalTracer *Tracer

// Init initializes the global tracer
func Init(enabled bool, filters []string, writer io.Writer) {
	if writer == nil {
		writer = os.Stderr
	}
	globalTracer = &Tracer{
		enabled: enabled,
		filters: filters,
		writer:  writer,
	}
}

// IsEnabled returns whether tracing is enabled
func IsEnabled() bool {
	if globalTracer == nil {
		return false
	}
	return globalTracer.enabled
}

// matchesFilter checks if a script/target name matches any of the filter patterns
func (t *Tracer) matchesFilter(name string) bool {
	if len(t.filters) == 0 {
		return true // No filters = trace everything
	}

	for _, pattern := range t.filters {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

// ThreadStart logs a thread being pushed onto the executable thread list.
func (t *Tracer) ThreadStart(targetName, scriptOpcode string) {
	if !t.enabled || !t.matchesFilter(targetName) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.writer, "[TRACE] START target=%s script=%s\n", targetName, scriptOpcode)
}

// ThreadYield logs a thread yielding at a loop end or a stopping primitive.
func (t *Tracer) ThreadYield(targetName string, pc int) {
	if !t.enabled || !t.matchesFilter(targetName) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.writer, "[TRACE] YIELD  target=%s pc=%d\n", targetName, pc)
}

// ThreadHalt logs a thread reaching a clean halt.
func (t *Tracer) ThreadHalt(targetName string) {
	if !t.enabled || !t.matchesFilter(targetName) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.writer, "[TRACE] HALT   target=%s\n", targetName)
}

// HatFired logs a hat matching and a new (or restarted) thread being queued.
func (t *Tracer) HatFired(hatType, targetName string, restarted bool) {
	if !t.enabled || !t.matchesFilter(targetName) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	verb := "start"
	if restarted {
		verb = "restart"
	}
	fmt.Fprintf(t.writer, "[TRACE] HAT    %s target=%s (%s)\n", hatType, targetName, verb)
}

// Broadcast logs a broadcast being fired.
func (t *Tracer) Broadcast(name string, threadCount int) {
	if !t.enabled {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.writer, "[TRACE] BROADCAST %q -> %d thread(s)\n", name, threadCount)
}

// Step logs the completion of one engine step.
func (t *Tracer) Step(activeThreads int, elapsedMs int64) {
	if !t.enabled {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.writer, "[TRACE] STEP   threads=%d elapsed=%dms\n", activeThreads, elapsedMs)
}

// Global convenience functions

// ThreadStart logs a thread start using the global tracer.
func ThreadStart(targetName, scriptOpcode string) {
	if globalTracer != nil {
		globalTracer.ThreadStart(targetName, scriptOpcode)
	}
}

// ThreadYield logs a thread yield using the global tracer.
func ThreadYield(targetName string, pc int) {
	if globalTracer != nil {
		globalTracer.ThreadYield(targetName, pc)
	}
}

// ThreadHalt logs a thread halt using the global tracer.
func ThreadHalt(targetName string) {
	if globalTracer != nil {
		globalTracer.ThreadHalt(targetName)
	}
}

// HatFired logs a hat firing using the global tracer.
func HatFired(hatType, targetName string, restarted bool) {
	if globalTracer != nil {
		globalTracer.HatFired(hatType, targetName, restarted)
	}
}

// Broadcast logs a broadcast using the global tracer.
func Broadcast(name string, threadCount int) {
	if globalTracer != nil {
		globalTracer.Broadcast(name, threadCount)
	}
}

// Step logs a step completion using the global tracer.
func Step(activeThreads int, elapsedMs int64) {
	if globalTracer != nil {
		globalTracer.Step(activeThreads, elapsedMs)
	}
}
