package conformance

import (
	"fmt"

	"loom/types"
)

// RunCase looks up tc's scenario, runs it, and checks every populated
// field of its Expectation. It returns (true, "") on success or
// (false, reason) naming the first mismatch found.
func RunCase(tc TestCase, scenarios map[string]ScenarioFunc) (bool, string) {
	if skip, reason := tc.IsSkipped(); skip {
		return true, "skipped: " + reason
	}

	fn, ok := scenarios[tc.Scenario]
	if !ok {
		return false, fmt.Sprintf("unknown scenario %q", tc.Scenario)
	}

	result, err := fn(tc.Params)
	if err != nil {
		return false, fmt.Sprintf("scenario %q: %v", tc.Scenario, err)
	}

	exp := tc.Expect

	if exp.AtEnd != nil {
		if result.VM == nil {
			return false, "expect.at_end set but scenario produced no VM"
		}
		if result.VM.AtEnd != *exp.AtEnd {
			return false, fmt.Sprintf("at_end: got %v, want %v", result.VM.AtEnd, *exp.AtEnd)
		}
	}

	if exp.RegCount != nil {
		if result.VM == nil {
			return false, "expect.reg_count set but scenario produced no VM"
		}
		if result.VM.RegCount != *exp.RegCount {
			return false, fmt.Sprintf("reg_count: got %d, want %d", result.VM.RegCount, *exp.RegCount)
		}
	}

	if exp.TopValue != nil {
		if result.VM == nil {
			return false, "expect.top_value set but scenario produced no VM"
		}
		if result.VM.RegCount == 0 {
			return false, "top_value: register stack is empty"
		}
		got := result.VM.Peek(0)
		want := types.FromNative(exp.TopValue)
		if !types.Equal(got, want) {
			return false, fmt.Sprintf("top_value: got %v, want %v", got, want)
		}
	}

	if exp.ThreadCount != nil {
		if result.Engine == nil {
			return false, "expect.thread_count set but scenario produced no Engine"
		}
		if got := result.Engine.ThreadCount(); got != *exp.ThreadCount {
			return false, fmt.Sprintf("thread_count: got %d, want %d", got, *exp.ThreadCount)
		}
	}

	if exp.CloneCount != nil {
		if result.Engine == nil {
			return false, "expect.clone_count set but scenario produced no Engine"
		}
		if got := result.Engine.CloneCount(); got != *exp.CloneCount {
			return false, fmt.Sprintf("clone_count: got %d, want %d", got, *exp.CloneCount)
		}
	}

	for name, wantNative := range exp.Variables {
		if result.Vars == nil {
			return false, fmt.Sprintf("expect.variables[%s] set but scenario produced no Vars", name)
		}
		v, ok := result.Vars[name]
		if !ok {
			return false, fmt.Sprintf("variable %q not found in scenario result", name)
		}
		want := types.FromNative(wantNative)
		if !types.Equal(v.Value, want) {
			return false, fmt.Sprintf("variable %q: got %v, want %v", name, v.Value, want)
		}
	}

	return true, ""
}

// RunAll runs every loaded test and returns the failures, if any, one
// message per failing case.
func RunAll(tests []LoadedTest, scenarios map[string]ScenarioFunc) []string {
	var failures []string
	for _, lt := range tests {
		ok, msg := RunCase(lt.Test, scenarios)
		if !ok {
			failures = append(failures, fmt.Sprintf("%s: %s: %s", lt.File, lt.Test.Name, msg))
		}
	}
	return failures
}
