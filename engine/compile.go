package engine

import (
	"loom/compiler"
	"loom/registry"
	"loom/vm"
)

// Compile asks compileFn to produce bytecode for every top-level,
// non-shadow block across every target, indexes the recognized hats,
// and — once every top-level block on a target has compiled — patches
// each script's Procedures table by matching its referenced procedure
// codes against the compiled body of the matching procedures_definition
// block on the same target.
func (e *Engine) Compile(compileFn compiler.CompileFunc) error {
	functions := compiler.NewFunctionIndex()

	type pending struct {
		target *registry.Target
		block  *registry.Block
		result *compiler.Result
	}

	for _, target := range append([]*registry.Target{e.store.Stage()}, e.store.Sprites()...) {
		if target == nil {
			continue
		}
		var results []pending
		procByCode := make(map[string]*compiler.Result)

		for _, block := range target.Blocks {
			if !block.TopLevel || block.Shadow {
				continue
			}
			result, err := compileFn(target, block, functions)
			if err != nil {
				e.warn("compile %s on %s: %v", block.Opcode, target.Name, err)
				continue
			}
			results = append(results, pending{target: target, block: block, result: result})
			if result.ProcCode != "" {
				procByCode[result.ProcCode] = result
			}
		}

		programByResult := make(map[*compiler.Result]*vm.Program, len(results))
		for _, p := range results {
			programByResult[p.result] = p.result.Program(target, functions.Functions())
		}

		for _, p := range results {
			prog := programByResult[p.result]
			prog.Procedures = make([]*vm.Program, len(p.result.ProcedureCodes))
			for i, code := range p.result.ProcedureCodes {
				def, ok := procByCode[code]
				if !ok {
					e.warn("unresolved procedure code %q referenced on %s", code, target.Name)
					continue
				}
				prog.Procedures[i] = programByResult[def]
			}

			if p.result.ProcCode != "" {
				continue // procedures_definition bodies are not hats
			}
			hat, matchFields, ok := classifyHat(p.block)
			if !ok {
				e.warn("unsupported top-level opcode %q on %s", p.block.Opcode, target.Name)
				continue
			}
			e.AddScript(&Script{
				ID:          p.block.ID,
				Target:      target,
				Program:     prog,
				Hat:         hat,
				MatchFields: matchFields,
				TopBlock:    p.block,
			})
		}
	}
	return nil
}
