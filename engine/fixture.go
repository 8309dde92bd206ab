package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"loom/compiler"
	"loom/registry"
	"loom/types"
	"loom/vm"
)

// FixtureProject is the minimal internal project description
// LoadTargets consumes. It exists in place of a real sb3 project
// loader (out of scope): a hand-authored description of targets,
// their variables/lists, and their scripts' bytecode, assembled
// directly via compiler.Assembler rather than compiled from a block
// graph.
type FixtureProject struct {
	Targets []FixtureTarget `yaml:"targets"`
}

// FixtureTarget describes one Stage or Sprite and the scripts running
// on it.
type FixtureTarget struct {
	ID        string          `yaml:"id"`
	Name      string          `yaml:"name"`
	Stage     bool            `yaml:"stage,omitempty"`
	Variables []string        `yaml:"variables,omitempty"`
	Lists     []string        `yaml:"lists,omitempty"`
	Scripts   []FixtureScript `yaml:"scripts"`
}

// FixtureScript describes one top-level hat and its bytecode body.
type FixtureScript struct {
	Hat          string         `yaml:"hat"`
	Field        string         `yaml:"field,omitempty"`
	Instructions []FixtureInstr `yaml:"instructions"`
}

// FixtureInstr is one bytecode instruction. Const holds a single-key
// map naming the literal's type ("int", "double", "bool", "string");
// Var/List name a variable or list declared on the same target,
// resolved to its operand index at assembly time.
type FixtureInstr struct {
	Op    string                 `yaml:"op"`
	Const map[string]interface{} `yaml:"const,omitempty"`
	Var   string                 `yaml:"var,omitempty"`
	List  string                 `yaml:"list,omitempty"`
	Arg   *uint32                `yaml:"arg,omitempty"`
}

var fixtureHatOpcodes = map[string]string{
	"green_flag":         "event_whenflagclicked",
	"broadcast_received": "event_whenbroadcastreceived",
	"backdrop_changed":   "event_whenbackdropswitchesto",
	"clone_init":         "control_start_as_clone",
	"key_pressed":        "event_whenkeypressed",
}

var fixtureHatFields = map[string]string{
	"broadcast_received": "BROADCAST_OPTION",
	"backdrop_changed":   "BACKDROP",
	"key_pressed":        "KEY_OPTION",
}

// LoadTargets reads a FixtureProject from path, builds the engine's
// Store from it, assembles every script's bytecode, and registers the
// resulting scripts — an end-to-end substitute for Compile when there
// is no real block-graph compiler feeding the engine, used by the CLI
// to load a whole project rather than one hand-built Program.
func (e *Engine) LoadTargets(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("engine: read project %s: %w", path, err)
	}
	var project FixtureProject
	if err := yaml.Unmarshal(data, &project); err != nil {
		return fmt.Errorf("engine: parse project %s: %w", path, err)
	}

	for _, ft := range project.Targets {
		var target *registry.Target
		if ft.Stage {
			target = registry.NewStage(ft.ID, ft.Name)
		} else {
			target = registry.NewSprite(ft.ID, ft.Name)
		}
		e.store.AddTarget(target)

		declaredVars := make([]*registry.Variable, 0, len(ft.Variables))
		for _, name := range ft.Variables {
			v := registry.NewVariable(name, name)
			target.Variables[v.ID] = v
			declaredVars = append(declaredVars, v)
		}
		declaredLists := make([]*registry.List, 0, len(ft.Lists))
		for _, name := range ft.Lists {
			l := registry.NewList(name, name)
			target.Lists[l.ID] = l
			declaredLists = append(declaredLists, l)
		}

		for scriptIdx, script := range ft.Scripts {
			opcode, ok := fixtureHatOpcodes[script.Hat]
			if !ok {
				return fmt.Errorf("engine: target %s: unknown hat %q", ft.ID, script.Hat)
			}

			asm := compiler.NewAssembler(target)
			for _, v := range declaredVars {
				asm.UseVar(v)
			}
			for _, l := range declaredLists {
				asm.UseList(l)
			}
			for _, instr := range script.Instructions {
				if err := assembleFixtureInstr(asm, instr); err != nil {
					return fmt.Errorf("engine: target %s script %s: %w", ft.ID, script.Hat, err)
				}
			}

			block := registry.NewBlock(fmt.Sprintf("%s#%d", ft.ID, scriptIdx), opcode)
			block.TopLevel = true
			if field, ok := fixtureHatFields[script.Hat]; ok && script.Field != "" {
				block.Fields[field] = registry.Field{Name: field, Value: script.Field}
			}
			target.Blocks[block.ID] = block

			hat, matchFields, ok := classifyHat(block)
			if !ok {
				return fmt.Errorf("engine: target %s: unclassifiable hat %q", ft.ID, script.Hat)
			}
			e.AddScript(&Script{
				ID:          block.ID,
				Target:      target,
				Program:     asm.Build(),
				Hat:         hat,
				MatchFields: matchFields,
				TopBlock:    block,
			})
		}
	}

	e.rebuildTargets()
	return nil
}

func assembleFixtureInstr(asm *compiler.Assembler, instr FixtureInstr) error {
	op, ok := vm.ParseOp(instr.Op)
	if !ok {
		return fmt.Errorf("unknown opcode %q", instr.Op)
	}

	switch {
	case instr.Const != nil:
		v, err := constFromFixture(instr.Const)
		if err != nil {
			return err
		}
		asm.EmitRaw(op, asm.AddConst(v))
	case instr.Var != "":
		idx, ok := asm.Var(instr.Var)
		if !ok {
			return fmt.Errorf("undeclared variable %q", instr.Var)
		}
		asm.EmitRaw(op, idx)
	case instr.List != "":
		idx, ok := asm.List(instr.List)
		if !ok {
			return fmt.Errorf("undeclared list %q", instr.List)
		}
		asm.EmitRaw(op, idx)
	case instr.Arg != nil:
		asm.EmitRaw(op, *instr.Arg)
	default:
		asm.EmitRaw(op)
	}
	return nil
}

func constFromFixture(m map[string]interface{}) (types.Value, error) {
	for kind, raw := range m {
		switch kind {
		case "int":
			switch n := raw.(type) {
			case int:
				return types.NewInt(int64(n)), nil
			case float64:
				return types.NewInt(int64(n)), nil
			}
		case "double":
			if n, ok := raw.(float64); ok {
				return types.NewDouble(n), nil
			}
		case "bool":
			if b, ok := raw.(bool); ok {
				return types.NewBool(b), nil
			}
		case "string":
			if s, ok := raw.(string); ok {
				return types.NewString(s), nil
			}
		}
		return nil, fmt.Errorf("const: bad %s value %v", kind, raw)
	}
	return nil, fmt.Errorf("const: empty literal")
}
