package conformance

import (
	"fmt"

	"loom/compiler"
	"loom/engine"
	"loom/registry"
	"loom/types"
	"loom/vm"
)

// Result is what a scenario builder hands back for the runner to
// check expectations against. Only the fields relevant to a given
// scenario need be populated.
type Result struct {
	VM     *vm.VM
	Engine *engine.Engine
	Target *registry.Target
	Vars   map[string]*registry.Variable
}

// ScenarioFunc builds and (usually) partially or fully runs one named
// scenario, given the YAML test case's params.
type ScenarioFunc func(params map[string]interface{}) (*Result, error)

// fakeRNG always returns 0, making RANDOM deterministic in fixtures
// that exercise it incidentally.
type fakeRNG struct{}

func (fakeRNG) Float64() float64 { return 0 }

func paramInt(params map[string]interface{}, key string, def int) int {
	v, ok := params[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return def
	}
}

func paramBool(params map[string]interface{}, key string, def bool) bool {
	v, ok := params[key]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

// Scenarios is the built-in registry of named scenario builders, one
// per testable scenario named in the runtime's design notes.
var Scenarios = map[string]ScenarioFunc{
	"arithmetic":    scenarioArithmetic,
	"repeat_atomic": scenarioRepeatAtomic,
	"repeat_yield":  scenarioRepeatYield,
	"until_yield":   scenarioUntilYield,
	"broadcast":     scenarioBroadcast,
	"clone_limit":   scenarioCloneLimit,
}

// scenarioArithmetic builds (3 + 4) * 2 and runs it to completion.
func scenarioArithmetic(params map[string]interface{}) (*Result, error) {
	target := registry.NewSprite("s1", "Sprite1")
	a := compiler.NewAssembler(target)
	a.Const(types.NewInt(3))
	a.Const(types.NewInt(4))
	a.Add()
	a.Const(types.NewInt(2))
	a.Mul()
	a.Halt()
	program := a.Build()
	v := program.NewVM()
	v.Run()
	return &Result{VM: v, Target: target}, nil
}

// scenarioRepeatAtomic runs REPEAT 5 { CHANGE_VAR v } fully atomic
// (no BREAK_ATOMIC): a single Run call finishes the whole loop.
func scenarioRepeatAtomic(params map[string]interface{}) (*Result, error) {
	return buildRepeatChangeVar(params, false)
}

// scenarioRepeatYield is the same loop but yielding once per
// iteration; the caller drives Run() repeatedly.
func scenarioRepeatYield(params map[string]interface{}) (*Result, error) {
	return buildRepeatChangeVar(params, true)
}

func buildRepeatChangeVar(params map[string]interface{}, yielding bool) (*Result, error) {
	count := paramInt(params, "count", 5)
	runs := paramInt(params, "runs", 1)

	target := registry.NewSprite("s1", "Sprite1")
	a := compiler.NewAssembler(target)
	vIdx := a.DeclareVar("v")
	a.Const(types.NewInt(int64(count)))
	a.Repeat()
	a.Const(types.NewInt(1))
	a.ChangeVar(vIdx)
	if yielding {
		a.BreakAtomic()
	}
	a.LoopEnd()
	a.Halt()
	program := a.Build()
	v := program.NewVM()
	for i := 0; i < runs; i++ {
		if v.AtEnd {
			break
		}
		v.Run()
	}
	vars := map[string]*registry.Variable{"v": program.Variables[vIdx]}
	return &Result{VM: v, Target: target, Vars: vars}, nil
}

// scenarioUntilYield runs UNTIL (v == 3) { CHANGE_VAR v by 1 }
// non-atomically, yielding once per failed condition check.
func scenarioUntilYield(params map[string]interface{}) (*Result, error) {
	threshold := paramInt(params, "threshold", 3)
	runs := paramInt(params, "runs", 3)

	target := registry.NewSprite("s1", "Sprite1")
	a := compiler.NewAssembler(target)
	vIdx := a.DeclareVar("v")
	a.UntilLoop()
	a.ReadVar(vIdx)
	a.Const(types.NewInt(int64(threshold)))
	a.Eq()
	a.BeginUntilLoop()
	a.Const(types.NewInt(1))
	a.ChangeVar(vIdx)
	a.BreakAtomic()
	a.LoopEnd()
	a.Halt()
	program := a.Build()
	v := program.NewVM()
	for i := 0; i < runs; i++ {
		if v.AtEnd {
			break
		}
		v.Run()
	}
	vars := map[string]*registry.Variable{"v": program.Variables[vIdx]}
	return &Result{VM: v, Target: target, Vars: vars}, nil
}

// scenarioBroadcast builds two sprites each with a "when I receive
// foo" hat and fires the broadcast once.
func scenarioBroadcast(params map[string]interface{}) (*Result, error) {
	message := "foo"
	if m, ok := params["message"].(string); ok {
		message = m
	}

	store := registry.NewStore()
	stage := registry.NewStage("stage", "Stage")
	store.AddTarget(stage)

	makeHatBlock := func(id string) *registry.Block {
		b := registry.NewBlock(id, "event_whenbroadcastreceived")
		b.TopLevel = true
		b.Fields["BROADCAST_OPTION"] = registry.Field{Name: "BROADCAST_OPTION", Value: message}
		return b
	}

	for _, name := range []string{"A", "B"} {
		target := registry.NewSprite(name, name)
		hatBlock := makeHatBlock(name + "_hat")
		target.Blocks[hatBlock.ID] = hatBlock
		store.AddTarget(target)
	}

	e := engine.NewEngine(store)
	e.SetRNG(fakeRNG{})

	err := e.Compile(func(target *registry.Target, block *registry.Block, functions *compiler.FunctionIndex) (*compiler.Result, error) {
		a := compiler.NewAssembler(target)
		a.Halt()
		built := a.Build()
		return &compiler.Result{Code: built.Code, Constants: built.Constants}, nil
	})
	if err != nil {
		return nil, err
	}

	e.Broadcast(message)
	return &Result{Engine: e}, nil
}

// scenarioCloneLimit issues three InitClone calls against a two-clone
// limit and reports the final clone count.
func scenarioCloneLimit(params map[string]interface{}) (*Result, error) {
	limit := paramInt(params, "limit", 2)
	attempts := paramInt(params, "attempts", 3)
	_ = paramBool(params, "unused", false)

	store := registry.NewStore()
	stage := registry.NewStage("stage", "Stage")
	store.AddTarget(stage)
	root := registry.NewSprite("root", "Root")
	store.AddTarget(root)

	e := engine.NewEngine(store)
	e.SetCloneLimit(limit)

	for i := 0; i < attempts; i++ {
		clone := registry.NewSprite(fmt.Sprintf("clone%d", i), "Root")
		clone.CloneRoot = root
		e.InitClone(clone)
	}

	return &Result{Engine: e}, nil
}
