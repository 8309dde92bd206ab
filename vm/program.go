package vm

import (
	"loom/registry"
	"loom/types"
)

// PrimitiveFunc is a compiled-in block implementation invoked by EXEC.
// It reads its inputs and pushes its results using the VM's own
// register stack (Pop/Push), exactly as any other opcode handler
// would; declaring "how many registers to free" is therefore implicit
// in how many times it pops versus pushes, rather than a separate
// out-of-band count. It may set vm.Stop to abort the script, or reach
// through vm.Engine to request a redraw or start new threads.
type PrimitiveFunc func(vm *VM)

// Program is the compiled artifact for one top-level script or one
// custom block body: the bytecode stream plus every table its inline
// arguments index into. It is immutable once built and can spawn any
// number of independent VM instances bound to the same or different
// targets (e.g. one per clone).
//
// A custom block's body compiles to its own independent Program, with
// its own constant/variable/list/function tables — exactly like the
// reference engine's separate per-script bytecode buffers. Calling one
// is therefore a matter of swapping the VM's active Program rather
// than jumping within a single shared instruction stream; Procedures
// holds the callee Program for each CALL_PROCEDURE operand this
// script's bytecode references.
type Program struct {
	Code      []uint32
	Constants []types.Value
	Variables []*registry.Variable
	Lists     []*registry.List
	// VariableIDs and ListIDs parallel Variables and Lists, recording
	// the entity ID each slot was resolved from. Rebind uses them to
	// re-resolve a clone's own copies of the same variables/lists
	// without recompiling.
	VariableIDs []string
	ListIDs     []string
	Functions   []PrimitiveFunc
	Procedures  []*Program
	Target      *registry.Target
}

// NewVM creates a fresh VM instance executing this program from its
// first instruction.
func (p *Program) NewVM() *VM {
	return &VM{
		Program: p,
		Target:  p.Target,
		atomic:  true,
	}
}

// Rebind returns a copy of the program bound to target instead of its
// original target, with Variables/Lists re-resolved against target
// (falling back to the stage for globals, via store) and every
// distinct Procedures entry rebound the same way. Code, Constants,
// and Functions are shared with the original, since they carry no
// per-target state. memo deduplicates procedure rebinds so a
// recursive or repeatedly-called custom block is only rebound once
// per Rebind call.
func (p *Program) Rebind(store *registry.Store, target *registry.Target, memo map[*Program]*Program) *Program {
	if existing, ok := memo[p]; ok {
		return existing
	}
	np := &Program{
		Code:        p.Code,
		Constants:   p.Constants,
		VariableIDs: p.VariableIDs,
		ListIDs:     p.ListIDs,
		Functions:   p.Functions,
		Target:      target,
	}
	memo[p] = np

	np.Variables = make([]*registry.Variable, len(p.VariableIDs))
	for i, id := range p.VariableIDs {
		if v, ok := store.FindVariable(target, id); ok {
			np.Variables[i] = v
		}
	}
	np.Lists = make([]*registry.List, len(p.ListIDs))
	for i, id := range p.ListIDs {
		if l, ok := store.FindList(target, id); ok {
			np.Lists[i] = l
		}
	}
	np.Procedures = make([]*Program, len(p.Procedures))
	for i, callee := range p.Procedures {
		if callee != nil {
			np.Procedures[i] = callee.Rebind(store, target, memo)
		}
	}
	return np
}
