package vm

import (
	"testing"

	"loom/registry"
	"loom/types"
)

func buildArithmeticProgram() *Program {
	target := registry.NewSprite("s1", "Sprite1")
	consts := []types.Value{types.NewInt(3), types.NewInt(4), types.NewInt(2)}
	code := []uint32{
		uint32(CONST), 0,
		uint32(CONST), 1,
		uint32(ADD),
		uint32(CONST), 2,
		uint32(MUL),
		uint32(HALT),
	}
	return &Program{Code: code, Constants: consts, Target: target}
}

func TestArithmeticEvaluatesLeftToRight(t *testing.T) {
	p := buildArithmeticProgram()
	v := p.NewVM()
	v.Run()
	if !v.AtEnd {
		t.Fatalf("expected VM to reach HALT")
	}
	if v.RegCount != 1 {
		t.Fatalf("RegCount = %d, want 1 (unconsumed expression result)", v.RegCount)
	}
	got := v.Peek(0).(types.IntValue).Val
	if got != 14 {
		t.Fatalf("(3+4)*2 = %d, want 14", got)
	}
}

func buildRepeatProgram(count int, yielding bool) (*Program, *registry.Variable) {
	target := registry.NewSprite("s1", "Sprite1")
	v := registry.NewVariable("v", "v")
	target.Variables[v.ID] = v

	code := []uint32{
		uint32(CONST), 0, // push count
		uint32(REPEAT_LOOP),
		uint32(CONST), 1, // push 1
		uint32(CHANGE_VAR), 0,
	}
	if yielding {
		code = append(code, uint32(BREAK_ATOMIC))
	}
	code = append(code, uint32(LOOP_END), uint32(HALT))

	consts := []types.Value{types.NewInt(int64(count)), types.NewInt(1)}
	return &Program{Code: code, Constants: consts, Variables: []*registry.Variable{v}, Target: target}, v
}

func TestRepeatLoopAtomicCompletesInOneRun(t *testing.T) {
	p, v := buildRepeatProgram(5, false)
	vm := p.NewVM()
	vm.Run()
	if !vm.AtEnd {
		t.Fatalf("expected atomic repeat loop to finish in one Run call")
	}
	if v.Value.(types.IntValue).Val != 5 {
		t.Fatalf("v = %v, want 5", v.Value)
	}
	if vm.RegCount != 0 {
		t.Fatalf("RegCount = %d, want 0", vm.RegCount)
	}
}

func TestRepeatLoopYieldingRequiresOneRunPerIteration(t *testing.T) {
	p, v := buildRepeatProgram(3, true)
	vmi := p.NewVM()

	vmi.Run()
	if vmi.AtEnd {
		t.Fatalf("expected first Run to yield, not finish")
	}
	if v.Value.(types.IntValue).Val != 1 {
		t.Fatalf("after run 1: v = %v, want 1", v.Value)
	}

	vmi.Run()
	if v.Value.(types.IntValue).Val != 2 {
		t.Fatalf("after run 2: v = %v, want 2", v.Value)
	}

	vmi.Run()
	if v.Value.(types.IntValue).Val != 3 {
		t.Fatalf("after run 3: v = %v, want 3", v.Value)
	}
	if vmi.AtEnd {
		t.Fatalf("expected loop-exit run to still yield before HALT")
	}

	vmi.Run()
	if !vmi.AtEnd {
		t.Fatalf("expected the final run to reach HALT")
	}
}

func TestRepeatWithNonPositiveCountSkipsBody(t *testing.T) {
	p, v := buildRepeatProgram(0, false)
	vmi := p.NewVM()
	vmi.Run()
	if !vmi.AtEnd {
		t.Fatalf("expected zero-count repeat to fall straight through to HALT")
	}
	if v.Value.(types.IntValue).Val != 0 {
		t.Fatalf("v = %v, want unchanged 0", v.Value)
	}
}

func TestKillForcesImmediateHalt(t *testing.T) {
	p, _ := buildRepeatProgram(5, true)
	vmi := p.NewVM()
	vmi.Run()
	if vmi.AtEnd {
		t.Fatalf("expected first run to still be mid-loop")
	}
	vmi.Kill()
	vmi.Run()
	if !vmi.AtEnd {
		t.Fatalf("expected Kill to force AtEnd on the next Run")
	}
	if vmi.RegCount != 0 {
		t.Fatalf("RegCount after kill = %d, want 0", vmi.RegCount)
	}
}
