package engine

import (
	"testing"

	"loom/registry"
	"loom/vm"
)

func haltOnlyProgram(target *registry.Target) *vm.Program {
	return &vm.Program{Code: []uint32{uint32(vm.HALT)}, Target: target}
}

func newTestEngineWithSprite(t *testing.T, spriteID string) (*Engine, *registry.Target) {
	t.Helper()
	store := registry.NewStore()
	stage := registry.NewStage("stage", "Stage")
	store.AddTarget(stage)
	sprite := registry.NewSprite(spriteID, spriteID)
	store.AddTarget(sprite)
	return NewEngine(store), sprite
}

func TestGreenFlagStartsOneThreadPerScript(t *testing.T) {
	e, sprite := newTestEngineWithSprite(t, "s1")
	block := registry.NewBlock("hat1", "event_whenflagclicked")
	block.TopLevel = true
	sprite.Blocks[block.ID] = block

	e.AddScript(&Script{ID: block.ID, Target: sprite, Program: haltOnlyProgram(sprite), Hat: GreenFlag, TopBlock: block})
	started := e.StartHats(GreenFlag, nil, nil)
	if len(started) != 1 {
		t.Fatalf("StartHats(GreenFlag) started %d threads, want 1", len(started))
	}
	if e.ThreadCount() != 1 {
		t.Fatalf("ThreadCount() = %d, want 1", e.ThreadCount())
	}
}

func TestGreenFlagRestartsAnAlreadyRunningThreadInPlace(t *testing.T) {
	e, sprite := newTestEngineWithSprite(t, "s1")
	block := registry.NewBlock("hat1", "event_whenflagclicked")
	block.TopLevel = true
	sprite.Blocks[block.ID] = block

	loopingProgram := &vm.Program{
		Code:   []uint32{uint32(vm.FOREVER_LOOP), uint32(vm.BREAK_ATOMIC), uint32(vm.LOOP_END)},
		Target: sprite,
	}
	script := &Script{ID: block.ID, Target: sprite, Program: loopingProgram, Hat: GreenFlag, TopBlock: block}
	e.AddScript(script)

	e.StartHats(GreenFlag, nil, nil)
	if len(e.threads) != 1 {
		t.Fatalf("expected 1 thread after first StartHats, got %d", len(e.threads))
	}
	firstThread := e.threads[0]

	e.StartHats(GreenFlag, nil, nil)
	if len(e.threads) != 1 {
		t.Fatalf("expected restart to replace in place, not append; got %d threads", len(e.threads))
	}
	if e.threads[0] == firstThread {
		t.Fatalf("expected the restarted thread to be a new Thread instance")
	}
}

func TestKeyPressedDoesNotRestartRunningThread(t *testing.T) {
	e, sprite := newTestEngineWithSprite(t, "s1")
	block := registry.NewBlock("hat1", "event_whenkeypressed")
	block.TopLevel = true
	block.Fields["KEY_OPTION"] = registry.Field{Name: "KEY_OPTION", Value: "space"}
	sprite.Blocks[block.ID] = block

	loopingProgram := &vm.Program{
		Code:   []uint32{uint32(vm.FOREVER_LOOP), uint32(vm.BREAK_ATOMIC), uint32(vm.LOOP_END)},
		Target: sprite,
	}
	script := &Script{ID: block.ID, Target: sprite, Program: loopingProgram, Hat: KeyPressed,
		MatchFields: map[string]string{"KEY_OPTION": "space"}, TopBlock: block}
	e.AddScript(script)

	e.SetKeyState("space", true)
	if len(e.threads) != 1 {
		t.Fatalf("expected 1 thread after key press, got %d", len(e.threads))
	}
	first := e.threads[0]

	e.SetKeyState("space", false)
	e.SetKeyState("space", true)
	if len(e.threads) != 1 {
		t.Fatalf("expected key press to leave the running thread alone, got %d threads", len(e.threads))
	}
	if e.threads[0] != first {
		t.Fatalf("expected the original thread to survive a repeated key press")
	}
}

func TestBroadcastRunningReflectsLiveSubscribers(t *testing.T) {
	e, sprite := newTestEngineWithSprite(t, "s1")
	block := registry.NewBlock("hat1", "event_whenbroadcastreceived")
	block.TopLevel = true
	block.Fields["BROADCAST_OPTION"] = registry.Field{Name: "BROADCAST_OPTION", Value: "go"}
	sprite.Blocks[block.ID] = block

	script := &Script{ID: block.ID, Target: sprite, Program: haltOnlyProgram(sprite), Hat: BroadcastReceived,
		MatchFields: map[string]string{"BROADCAST_OPTION": "go"}, TopBlock: block}
	e.AddScript(script)

	if e.BroadcastRunning("go") {
		t.Fatalf("expected BroadcastRunning to be false before any broadcast fires")
	}
	e.Broadcast("go")
	// The script halts immediately (Program is HALT-only), so by the
	// time Broadcast returns the thread has not yet been reaped by a
	// Step call — it is still live in e.threads.
	if !e.BroadcastRunning("go") {
		t.Fatalf("expected BroadcastRunning to be true immediately after firing")
	}
}

func TestCloneLimitRejectsBeyondCap(t *testing.T) {
	e, root := newTestEngineWithSprite(t, "root")
	e.SetCloneLimit(2)

	for i := 0; i < 3; i++ {
		clone := registry.NewSprite(string(rune('a'+i)), "root")
		clone.CloneRoot = root
		accepted := e.InitClone(clone)
		if i < 2 && !accepted {
			t.Fatalf("clone %d should have been accepted", i)
		}
		if i == 2 && accepted {
			t.Fatalf("clone %d should have been rejected past the limit", i)
		}
	}
	if e.CloneCount() != 2 {
		t.Fatalf("CloneCount() = %d, want 2", e.CloneCount())
	}
}

func TestStopWithNoActiveThreadClearsThreadsImmediately(t *testing.T) {
	e, sprite := newTestEngineWithSprite(t, "s1")
	block := registry.NewBlock("hat1", "event_whenflagclicked")
	block.TopLevel = true
	sprite.Blocks[block.ID] = block

	loopingProgram := &vm.Program{
		Code:   []uint32{uint32(vm.FOREVER_LOOP), uint32(vm.BREAK_ATOMIC), uint32(vm.LOOP_END)},
		Target: sprite,
	}
	e.AddScript(&Script{ID: block.ID, Target: sprite, Program: loopingProgram, Hat: GreenFlag, TopBlock: block})
	e.StartHats(GreenFlag, nil, nil)
	if len(e.threads) != 1 {
		t.Fatalf("expected 1 running thread before Stop, got %d", len(e.threads))
	}

	e.Stop()
	if len(e.threads) != 0 {
		t.Fatalf("expected Stop with no active thread to clear every thread immediately, got %d", len(e.threads))
	}
}

func TestStopFromWithinActiveThreadDefersRemovalByOneStep(t *testing.T) {
	e, sprite := newTestEngineWithSprite(t, "s1")
	block := registry.NewBlock("hat1", "event_whenflagclicked")
	block.TopLevel = true
	sprite.Blocks[block.ID] = block

	loopingProgram := &vm.Program{
		Code:   []uint32{uint32(vm.FOREVER_LOOP), uint32(vm.BREAK_ATOMIC), uint32(vm.LOOP_END)},
		Target: sprite,
	}
	script := &Script{ID: block.ID, Target: sprite, Program: loopingProgram, Hat: GreenFlag, TopBlock: block}
	e.AddScript(script)
	e.StartHats(GreenFlag, nil, nil)
	if len(e.threads) != 1 {
		t.Fatalf("expected 1 running thread, got %d", len(e.threads))
	}

	// Simulate Stop being called reentrantly from inside the active
	// thread's own execution (e.g. a host-callable EXEC primitive).
	e.currentThread = e.threads[0]
	e.Stop()
	e.currentThread = nil

	if len(e.threads) != 1 || !e.threads[0].Killed {
		t.Fatalf("expected Stop called from an active thread to flag threads for removal, not clear them immediately")
	}

	e.Step()
	if len(e.threads) != 0 {
		t.Fatalf("expected the flagged thread to be reaped after one more step, got %d", len(e.threads))
	}
}

func TestStageIsAlwaysLayerZero(t *testing.T) {
	e, _ := newTestEngineWithSprite(t, "s1")
	if e.targets[0].Name != "Stage" {
		t.Fatalf("targets[0] = %s, want Stage", e.targets[0].Name)
	}
	for i, tg := range e.targets {
		if tg.LayerOrder != i {
			t.Errorf("target %s: LayerOrder = %d, want %d", tg.Name, tg.LayerOrder, i)
		}
	}
}
