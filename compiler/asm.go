package compiler

import (
	"loom/registry"
	"loom/types"
	"loom/vm"
)

// Assembler hand-builds a vm.Program one instruction at a time. It
// exists for tests and for conformance fixtures that need to drive
// the VM against known bytecode without going through a real
// block-graph compiler.
type Assembler struct {
	code      []uint32
	consts    []types.Value
	vars      []*registry.Variable
	lists     []*registry.List
	functions []vm.PrimitiveFunc
	procs     []*vm.Program
	target    *registry.Target
}

// NewAssembler creates an assembler emitting a program bound to
// target.
func NewAssembler(target *registry.Target) *Assembler {
	return &Assembler{target: target}
}

func (a *Assembler) emit(op vm.Op, args ...uint32) {
	a.code = append(a.code, uint32(op))
	a.code = append(a.code, args...)
}

// EmitRaw appends an arbitrary opcode and its inline arguments
// directly, for tooling (the project fixture loader) that resolves
// opcodes by name rather than through the named convenience methods.
func (a *Assembler) EmitRaw(op vm.Op, args ...uint32) { a.emit(op, args...) }

// AddConst appends v to the constant pool and returns its index,
// without emitting a CONST instruction — for tooling that builds the
// CONST instruction itself via EmitRaw.
func (a *Assembler) AddConst(v types.Value) uint32 {
	idx := uint32(len(a.consts))
	a.consts = append(a.consts, v)
	return idx
}

// UseVar appends an already-existing variable (declared for a
// different script on the same target) to this assembler's variable
// table and returns its operand index, without registering a new
// entity on the target.
func (a *Assembler) UseVar(v *registry.Variable) uint32 {
	idx := uint32(len(a.vars))
	a.vars = append(a.vars, v)
	return idx
}

// UseList mirrors UseVar for lists.
func (a *Assembler) UseList(l *registry.List) uint32 {
	idx := uint32(len(a.lists))
	a.lists = append(a.lists, l)
	return idx
}

// Var returns the operand index for a variable already added with
// DeclareVar or UseVar under the given name, or false if no such
// variable was added to this assembler.
func (a *Assembler) Var(name string) (uint32, bool) {
	for i, v := range a.vars {
		if v.Name == name {
			return uint32(i), true
		}
	}
	return 0, false
}

// List mirrors Var for lists.
func (a *Assembler) List(name string) (uint32, bool) {
	for i, l := range a.lists {
		if l.Name == name {
			return uint32(i), true
		}
	}
	return 0, false
}

// SetProcedure records that CALL_PROCEDURE operand idx invokes the
// independently-assembled program (the compiled body of a custom
// block).
func (a *Assembler) SetProcedure(idx int, program *vm.Program) {
	for len(a.procs) <= idx {
		a.procs = append(a.procs, nil)
	}
	a.procs[idx] = program
}

// Build finalizes the assembled instructions into a runnable Program.
func (a *Assembler) Build() *vm.Program {
	p := &vm.Program{
		Code:       a.code,
		Constants:  a.consts,
		Variables:  a.vars,
		Lists:      a.lists,
		Functions:  a.functions,
		Procedures: a.procs,
		Target:     a.target,
	}
	for _, v := range a.vars {
		p.VariableIDs = append(p.VariableIDs, v.ID)
	}
	for _, l := range a.lists {
		p.ListIDs = append(p.ListIDs, l.ID)
	}
	return p
}

func (a *Assembler) Halt()  { a.emit(vm.HALT) }
func (a *Assembler) Null()  { a.emit(vm.NULL) }

// Const pushes a constant, appending it to the constant pool.
func (a *Assembler) Const(v types.Value) {
	idx := uint32(len(a.consts))
	a.consts = append(a.consts, v)
	a.emit(vm.CONST, idx)
}

func (a *Assembler) If()   { a.emit(vm.IF) }
func (a *Assembler) Else() { a.emit(vm.ELSE) }
func (a *Assembler) EndIf() { a.emit(vm.ENDIF) }

func (a *Assembler) Forever()         { a.emit(vm.FOREVER_LOOP) }
func (a *Assembler) Repeat()          { a.emit(vm.REPEAT_LOOP) }
func (a *Assembler) UntilLoop()       { a.emit(vm.UNTIL_LOOP) }
func (a *Assembler) BeginUntilLoop()  { a.emit(vm.BEGIN_UNTIL_LOOP) }
func (a *Assembler) LoopEnd()         { a.emit(vm.LOOP_END) }

func (a *Assembler) Print() { a.emit(vm.PRINT) }

func (a *Assembler) Add()    { a.emit(vm.ADD) }
func (a *Assembler) Sub()    { a.emit(vm.SUB) }
func (a *Assembler) Mul()    { a.emit(vm.MUL) }
func (a *Assembler) Div()    { a.emit(vm.DIV) }
func (a *Assembler) Mod()    { a.emit(vm.MOD) }
func (a *Assembler) Random() { a.emit(vm.RANDOM) }
func (a *Assembler) Round()  { a.emit(vm.ROUND) }
func (a *Assembler) Abs()    { a.emit(vm.ABS) }
func (a *Assembler) Floor()  { a.emit(vm.FLOOR) }
func (a *Assembler) Ceil()   { a.emit(vm.CEIL) }
func (a *Assembler) Sqrt()   { a.emit(vm.SQRT) }
func (a *Assembler) Sin()    { a.emit(vm.SIN) }
func (a *Assembler) Cos()    { a.emit(vm.COS) }
func (a *Assembler) Tan()    { a.emit(vm.TAN) }
func (a *Assembler) Asin()   { a.emit(vm.ASIN) }
func (a *Assembler) Acos()   { a.emit(vm.ACOS) }
func (a *Assembler) Atan()   { a.emit(vm.ATAN) }

func (a *Assembler) Gt()  { a.emit(vm.GT) }
func (a *Assembler) Lt()  { a.emit(vm.LT) }
func (a *Assembler) Eq()  { a.emit(vm.EQ) }
func (a *Assembler) And() { a.emit(vm.AND) }
func (a *Assembler) Or()  { a.emit(vm.OR) }
func (a *Assembler) Not() { a.emit(vm.NOT) }

// DeclareVar registers a new variable on the assembler's target and
// returns the operand index later opcodes address it by.
func (a *Assembler) DeclareVar(name string) uint32 {
	v := registry.NewVariable(name, name)
	a.target.Variables[v.ID] = v
	idx := uint32(len(a.vars))
	a.vars = append(a.vars, v)
	return idx
}

func (a *Assembler) SetVar(idx uint32)    { a.emit(vm.SET_VAR, idx) }
func (a *Assembler) ChangeVar(idx uint32) { a.emit(vm.CHANGE_VAR, idx) }
func (a *Assembler) ReadVar(idx uint32)   { a.emit(vm.READ_VAR, idx) }

// DeclareList registers a new list on the assembler's target and
// returns its operand index.
func (a *Assembler) DeclareList(name string) uint32 {
	l := registry.NewList(name, name)
	a.target.Lists[l.ID] = l
	idx := uint32(len(a.lists))
	a.lists = append(a.lists, l)
	return idx
}

func (a *Assembler) ReadList(idx uint32)     { a.emit(vm.READ_LIST, idx) }
func (a *Assembler) ListAppend(idx uint32)   { a.emit(vm.LIST_APPEND, idx) }
func (a *Assembler) ListDel(idx uint32)      { a.emit(vm.LIST_DEL, idx) }
func (a *Assembler) ListDelAll(idx uint32)   { a.emit(vm.LIST_DEL_ALL, idx) }
func (a *Assembler) ListInsert(idx uint32)   { a.emit(vm.LIST_INSERT, idx) }
func (a *Assembler) ListReplace(idx uint32)  { a.emit(vm.LIST_REPLACE, idx) }
func (a *Assembler) ListGetItem(idx uint32)  { a.emit(vm.LIST_GET_ITEM, idx) }
func (a *Assembler) ListIndexOf(idx uint32)  { a.emit(vm.LIST_INDEX_OF, idx) }
func (a *Assembler) ListLength(idx uint32)   { a.emit(vm.LIST_LENGTH, idx) }
func (a *Assembler) ListContains(idx uint32) { a.emit(vm.LIST_CONTAINS, idx) }

func (a *Assembler) StrConcat()   { a.emit(vm.STR_CONCAT) }
func (a *Assembler) StrAt()       { a.emit(vm.STR_AT) }
func (a *Assembler) StrLength()   { a.emit(vm.STR_LENGTH) }
func (a *Assembler) StrContains() { a.emit(vm.STR_CONTAINS) }

// Exec registers fn in the function table and emits EXEC against it.
func (a *Assembler) Exec(fn vm.PrimitiveFunc) {
	idx := uint32(len(a.functions))
	a.functions = append(a.functions, fn)
	a.emit(vm.EXEC, idx)
}

func (a *Assembler) InitProcedure()          { a.emit(vm.INIT_PROCEDURE) }
func (a *Assembler) CallProcedure(idx uint32) { a.emit(vm.CALL_PROCEDURE, idx) }
func (a *Assembler) AddArg()                 { a.emit(vm.ADD_ARG) }
func (a *Assembler) ReadArg(idx uint32)      { a.emit(vm.READ_ARG, idx) }
func (a *Assembler) BreakAtomic()            { a.emit(vm.BREAK_ATOMIC) }
