// Package engine implements the cooperative scheduler: hat dispatch,
// thread lifecycle, frame-paced stepping, clone lifecycle, layer
// ordering, and keyboard/broadcast event propagation. It drives one
// or more compiled Scripts (loom/compiler output turned into
// loom/vm.Program instances) against the targets in a
// loom/registry.Store.
package engine

import (
	"log"
	"sync"
	"time"

	"loom/registry"
	"loom/trace"
	"loom/vm"
)

const defaultCloneLimit = 300

// Engine owns targets, clones, threads, the hat index, and the event
// loop. It is the top-level object a host embeds.
type Engine struct {
	eventLoopMutex     sync.Mutex
	stopEventLoopMutex sync.Mutex

	store *registry.Store
	rng   vm.RNG
	clock Clock

	fps        float64
	turboMode  bool
	cloneLimit int
	cloneCount int

	scripts     []*Script
	hatIndex    map[HatType][]*Script
	broadcastIx map[string][]*Script

	threads []*Thread
	targets []*registry.Target // executable targets, Stage pinned at index 0

	redrawHandler   func()
	redrawRequested bool

	stopEventLoop     bool
	untilProjectStops bool
	running           bool

	keyMap        map[string]bool
	anyKeyPressed bool

	currentThread *Thread
}

// NewEngine creates an engine over store, with default fps (30),
// clone limit (300), and production Clock/RNG.
func NewEngine(store *registry.Store) *Engine {
	e := &Engine{
		store:       store,
		rng:         NewRealRNG(1),
		clock:       RealClock{},
		fps:         30,
		cloneLimit:  defaultCloneLimit,
		hatIndex:    make(map[HatType][]*Script),
		broadcastIx: make(map[string][]*Script),
		keyMap:      make(map[string]bool),
	}
	e.rebuildTargets()
	return e
}

func (e *Engine) rebuildTargets() {
	e.targets = e.targets[:0]
	if stage := e.store.Stage(); stage != nil {
		e.targets = append(e.targets, stage)
	}
	e.targets = append(e.targets, e.store.Sprites()...)
	for i, t := range e.targets {
		t.LayerOrder = i
	}
}

// SetClock overrides the engine's time source, for deterministic
// tests.
func (e *Engine) SetClock(c Clock) { e.clock = c }

// SetRNG overrides the engine's randomness source, for deterministic
// tests.
func (e *Engine) SetRNG(r vm.RNG) { e.rng = r }

// SetFps sets the target frame rate.
func (e *Engine) SetFps(fps float64) { e.fps = fps }

// SetTurboModeEnabled toggles turbo mode, under which redraw requests
// no longer end a step early.
func (e *Engine) SetTurboModeEnabled(on bool) { e.turboMode = on }

// SetCloneLimit sets the maximum live clone count; -1 means
// unlimited.
func (e *Engine) SetCloneLimit(n int) { e.cloneLimit = n }

// SetRedrawHandler installs the callback invoked once per step, after
// every thread pass has completed.
func (e *Engine) SetRedrawHandler(fn func()) { e.redrawHandler = fn }

// IsRunning reports whether the event loop is currently active.
func (e *Engine) IsRunning() bool {
	e.stopEventLoopMutex.Lock()
	defer e.stopEventLoopMutex.Unlock()
	return e.running
}

// RequestRedraw flags that a visual change occurred during this step;
// outside turbo mode it ends the current step's thread passes early.
// It implements vm.Hooks.
func (e *Engine) RequestRedraw() {
	e.redrawRequested = true
}

// BreakFrame is called by a VM immediately before it yields — after a
// non-atomic loop iteration or a stop-requesting primitive.
func (e *Engine) BreakFrame() {
	if e.currentThread != nil {
		trace.ThreadYield(e.currentThread.Target.Name, e.currentThread.VM.PC)
	}
}

// frameDuration returns 1000/fps as a time.Duration.
func (e *Engine) frameDuration() time.Duration {
	return time.Duration(1000.0/e.fps*float64(time.Millisecond))
}

// Step runs one scheduler frame: passes over every live thread until
// the work-time budget is spent, a redraw was requested (outside
// turbo mode), or no thread has more work, then invokes the redraw
// handler exactly once.
func (e *Engine) Step() {
	e.eventLoopMutex.Lock()
	defer e.eventLoopMutex.Unlock()

	start := e.clock.Now()
	budget := time.Duration(float64(e.frameDuration()) * 0.75)
	e.redrawRequested = false

	for {
		if len(e.threads) == 0 {
			break
		}
		ranAny := false
		for _, th := range e.threads {
			if th.Finished() {
				continue
			}
			e.currentThread = th
			th.VM.Run()
			e.currentThread = nil
			ranAny = true
			if th.Killed && !th.Finished() {
				th.VM.Kill()
				th.VM.Run()
			}
			if th.Finished() {
				trace.ThreadHalt(th.Target.Name)
			}
		}
		e.reapThreads()

		if !ranAny {
			break
		}
		if e.clock.Now().Sub(start) > budget {
			break
		}
		if !e.turboMode && e.redrawRequested {
			break
		}
	}

	if e.redrawHandler != nil {
		e.redrawHandler()
	}
	trace.Step(len(e.threads), e.clock.Now().Sub(start).Milliseconds())
}

func (e *Engine) reapThreads() {
	live := e.threads[:0]
	for _, th := range e.threads {
		if th.Finished() {
			continue
		}
		live = append(live, th)
	}
	e.threads = live
}

// Start runs startHats(GreenFlag, ...) and begins the event loop in
// the calling goroutine's context by marking the engine running; the
// host is expected to call RunEventLoop (or its own step loop) next.
func (e *Engine) Start() {
	e.eventLoopMutex.Lock()
	e.running = true
	e.stopEventLoop = false
	e.eventLoopMutex.Unlock()
	e.StartHats(GreenFlag, nil, nil)
}

// Stop deletes all clones and stops every thread. If a thread is
// currently active (Stop was called reentrantly from inside a
// script's own execution, e.g. from a host-callable EXEC primitive),
// every thread — including the active one — is only flagged for
// removal. Step halts a flagged thread right after its next Run
// returns, so the active thread ends once its current Run returns and
// every other thread still runs one final time before being reaped;
// the reference engine's documented, deliberately-preserved quirk. If no
// thread is active (the ordinary host "stop button" path), there is
// nothing to let finish and every thread is torn down immediately.
func (e *Engine) Stop() {
	e.eventLoopMutex.Lock()
	defer e.eventLoopMutex.Unlock()
	e.DeleteClones()
	if e.currentThread == nil {
		e.threads = nil
		return
	}
	for _, th := range e.threads {
		th.Killed = true
	}
}

// StopEventLoop exits RunEventLoop after the step in progress
// completes.
func (e *Engine) StopEventLoop() {
	e.stopEventLoopMutex.Lock()
	defer e.stopEventLoopMutex.Unlock()
	e.stopEventLoop = true
}

// RunEventLoop steps repeatedly, sleeping out the remainder of each
// frame, until untilProjectStops and no threads remain, or
// StopEventLoop was called.
func (e *Engine) RunEventLoop() {
	for {
		frameStart := e.clock.Now()
		e.Step()

		e.stopEventLoopMutex.Lock()
		stop := e.stopEventLoop
		e.stopEventLoopMutex.Unlock()

		e.eventLoopMutex.Lock()
		noThreads := len(e.threads) == 0
		untilStops := e.untilProjectStops
		e.eventLoopMutex.Unlock()

		if untilStops && noThreads {
			break
		}
		if stop {
			break
		}
		elapsed := e.clock.Now().Sub(frameStart)
		e.clock.Sleep(e.frameDuration() - elapsed)
	}
	e.stopEventLoopMutex.Lock()
	e.running = false
	e.stopEventLoopMutex.Unlock()
}

// Run starts the project and runs the event loop until it stops on
// its own (untilProjectStops semantics).
func (e *Engine) Run() {
	e.untilProjectStops = true
	e.Start()
	e.RunEventLoop()
}

// ThreadCount returns the number of live (not yet finished) threads.
func (e *Engine) ThreadCount() int {
	n := 0
	for _, th := range e.threads {
		if !th.Finished() {
			n++
		}
	}
	return n
}

// CloneCount returns the number of live clones.
func (e *Engine) CloneCount() int { return e.cloneCount }

// Threads returns the live thread list, for tests that need to
// inspect individual threads rather than just their count.
func (e *Engine) Threads() []*Thread { return e.threads }

// Store returns the engine's target/broadcast registry.
func (e *Engine) Store() *registry.Store { return e.store }

// Scripts returns every compiled top-level script registered with the
// engine, for inspection tooling (-list-scripts, -dump-bytecode).
func (e *Engine) Scripts() []*Script { return e.scripts }

func (e *Engine) warn(format string, args ...interface{}) {
	log.Printf("engine: "+format, args...)
}
