package compiler

import (
	"testing"

	"loom/registry"
	"loom/types"
	"loom/vm"
)

func TestAssemblerBuildsRunnableProgram(t *testing.T) {
	target := registry.NewSprite("s1", "Sprite1")
	a := NewAssembler(target)
	a.Const(types.NewInt(3))
	a.Const(types.NewInt(4))
	a.Add()
	a.Halt()

	program := a.Build()
	vmi := program.NewVM()
	vmi.Run()

	if !vmi.AtEnd {
		t.Fatalf("expected assembled program to halt")
	}
	got := vmi.Peek(0).(types.IntValue).Val
	if got != 7 {
		t.Fatalf("3 + 4 = %d, want 7", got)
	}
}

func TestDeclareVarRegistersOnTarget(t *testing.T) {
	target := registry.NewSprite("s1", "Sprite1")
	a := NewAssembler(target)
	idx := a.DeclareVar("score")

	if len(target.Variables) != 1 {
		t.Fatalf("expected DeclareVar to register a variable on the target")
	}
	if got, ok := a.Var("score"); !ok || got != idx {
		t.Fatalf("Var(%q) = (%d, %v), want (%d, true)", "score", got, ok, idx)
	}
}

func TestParseOpResolvesOpByName(t *testing.T) {
	op, ok := vm.ParseOp("ADD")
	if !ok || op != vm.ADD {
		t.Fatalf("ParseOp(\"ADD\") = (%v, %v), want (ADD, true)", op, ok)
	}
	if _, ok := vm.ParseOp("NOT_AN_OPCODE"); ok {
		t.Fatalf("expected ParseOp to reject an unknown mnemonic")
	}
}
