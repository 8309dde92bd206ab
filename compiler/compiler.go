// Package compiler defines the contract between the engine and the
// block-to-bytecode compiler. The compiler itself — walking a
// project's block graph and emitting bytecode — is an external
// collaborator; this package only fixes the shape of what it hands
// back, and provides the function-pointer deduplication table the
// engine supplies to it.
package compiler

import (
	"loom/registry"
	"loom/types"
	"loom/vm"
)

// CompileFunc compiles one top-level block (a hat and everything
// beneath it) into a Result bound to target.
type CompileFunc func(target *registry.Target, topLevel *registry.Block, functions *FunctionIndex) (*Result, error)

// Result is everything a top-level compile produces, before procedure
// bytecode pointers have been patched in across the whole project.
type Result struct {
	Code       []uint32
	Constants  []types.Value
	Variables  []*registry.Variable
	Lists      []*registry.List
	// ProcedureCodes holds one opaque procedure identifier per
	// CALL_PROCEDURE operand emitted into Code, in the order those
	// operands index into — the engine resolves each to the compiled
	// Program of the custom-block definition that declares the same
	// code, once every top-level block on the target has compiled.
	ProcedureCodes []string
	// ProcCode is non-empty exactly when this Result is the body of a
	// procedures_definition block: the code other scripts' bytecode
	// references via ProcedureCodes to call into it.
	ProcCode string
}

// Program converts a Result into a runnable vm.Program bound to
// target, with its Procedures table left empty — the engine fills it
// in once every top-level block on the target has been compiled and
// the referenced procedure codes can be resolved.
func (r *Result) Program(target *registry.Target, functions []vm.PrimitiveFunc) *vm.Program {
	p := &vm.Program{
		Code:      r.Code,
		Constants: r.Constants,
		Variables: r.Variables,
		Lists:     r.Lists,
		Functions: functions,
		Target:    target,
	}
	for _, v := range r.Variables {
		p.VariableIDs = append(p.VariableIDs, v.ID)
	}
	for _, l := range r.Lists {
		p.ListIDs = append(p.ListIDs, l.ID)
	}
	return p
}

// FunctionIndex deduplicates PrimitiveFunc values across every script
// in a project: two blocks that compile to the same primitive share
// one Functions table slot, exactly as the reference engine's
// EngineData::functionIndex does.
type FunctionIndex struct {
	byName []string
	fns    []vm.PrimitiveFunc
}

// NewFunctionIndex creates an empty index.
func NewFunctionIndex() *FunctionIndex {
	return &FunctionIndex{}
}

// Index returns the slot for name, registering fn the first time name
// is seen and reusing the existing slot on every subsequent call.
func (fi *FunctionIndex) Index(name string, fn vm.PrimitiveFunc) int {
	for i, n := range fi.byName {
		if n == name {
			return i
		}
	}
	fi.byName = append(fi.byName, name)
	fi.fns = append(fi.fns, fn)
	return len(fi.fns) - 1
}

// Functions returns the deduplicated function table in index order,
// ready to become a Program's Functions slice.
func (fi *FunctionIndex) Functions() []vm.PrimitiveFunc {
	return fi.fns
}
