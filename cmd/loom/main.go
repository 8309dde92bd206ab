package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"loom/conformance"
	"loom/engine"
	"loom/registry"
	"loom/trace"
	"loom/vm"
)

func main() {
	projectPath := flag.String("project", "", "Path to a fixture project description (YAML)")
	fps := flag.Float64("fps", 30, "Target frame rate")
	turbo := flag.Bool("turbo", false, "Enable turbo mode (ignore redraw requests when stepping)")
	cloneLimit := flag.Int("clone-limit", 300, "Maximum live clone count (-1 for unlimited)")
	runFor := flag.Duration("run-for", 0, "Run headlessly for this long, then exit (0 runs until the project stops itself)")

	traceEnabled := flag.Bool("trace", false, "Enable execution tracing")
	traceFilter := flag.String("trace-filter", "", "Trace filter pattern (glob, comma-separated, e.g. 'Sprite*,Stage')")

	listScripts := flag.Bool("list-scripts", false, "List every compiled script and exit")
	dumpBytecode := flag.String("dump-bytecode", "", "Dump the bytecode of the script with this ID and exit")

	conformanceDir := flag.String("conformance", "", "Run the YAML conformance suite in this directory and exit")

	flag.Parse()

	if *traceEnabled {
		var filters []string
		if *traceFilter != "" {
			filters = strings.Split(*traceFilter, ",")
			for i := range filters {
				filters[i] = strings.TrimSpace(filters[i])
			}
		}
		trace.Init(true, filters, os.Stderr)
		log.Printf("Tracing enabled (filters: %v)", filters)
	} else {
		trace.Init(false, nil, nil)
	}

	if *conformanceDir != "" {
		runConformance(*conformanceDir)
		return
	}

	if *projectPath == "" {
		log.Fatalf("loom: -project is required (or use -conformance to run the test suite)")
	}

	store := registry.NewStore()
	e := engine.NewEngine(store)
	e.SetFps(*fps)
	e.SetTurboModeEnabled(*turbo)
	e.SetCloneLimit(*cloneLimit)

	if err := e.LoadTargets(*projectPath); err != nil {
		log.Fatalf("loom: %v", err)
	}
	if err := store.ResolveBlockLinks(); err != nil {
		log.Fatalf("loom: %v", err)
	}

	if *listScripts {
		for _, s := range e.Scripts() {
			fmt.Printf("%s\ttarget=%s\that=%s\n", s.ID, s.Target.Name, s.Hat)
		}
		return
	}

	if *dumpBytecode != "" {
		dumpScript(e, *dumpBytecode)
		return
	}

	log.Printf("loom: running %s (fps=%.1f turbo=%v clone-limit=%d)", *projectPath, *fps, *turbo, *cloneLimit)

	if *runFor > 0 {
		e.Start()
		deadline := time.Now().Add(*runFor)
		for time.Now().Before(deadline) {
			e.Step()
			time.Sleep(time.Duration(1000.0/(*fps)) * time.Millisecond)
		}
		e.Stop()
		return
	}

	e.Run()
}

func dumpScript(e *engine.Engine, id string) {
	for _, s := range e.Scripts() {
		if s.ID != id {
			continue
		}
		fmt.Printf("script %s (target=%s hat=%s)\n", s.ID, s.Target.Name, s.Hat)
		code := s.Program.Code
		for pc := 0; pc < len(code); {
			op := vm.Op(code[pc])
			n := vm.InstructionArgCount[op]
			if n > 0 {
				args := make([]uint32, n)
				copy(args, code[pc+1:pc+1+n])
				fmt.Printf("  %4d  %-16s %v\n", pc, op, args)
			} else {
				fmt.Printf("  %4d  %-16s\n", pc, op)
			}
			pc += 1 + n
		}
		return
	}
	log.Fatalf("loom: no script with ID %q", id)
}

func runConformance(dir string) {
	tests, err := conformance.LoadAllTests(dir)
	if err != nil {
		log.Fatalf("loom: %v", err)
	}
	failures := conformance.RunAll(tests, conformance.Scenarios)
	log.Printf("loom: ran %d conformance case(s), %d failure(s)", len(tests), len(failures))
	for _, f := range failures {
		fmt.Println(f)
	}
	if len(failures) > 0 {
		os.Exit(1)
	}
}
