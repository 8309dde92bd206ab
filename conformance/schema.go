// Package conformance runs YAML-described test suites against
// hand-built VM programs, exercising the scheduler and VM invariants,
// laws, and scenarios end to end rather than unit-by-unit.
package conformance

// TestSuite is one YAML file: a named group of related test cases.
type TestSuite struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Tests       []TestCase `yaml:"tests"`
}

// TestCase names a registered scenario builder and the parameters to
// pass it, plus the expectation to check once it has run.
type TestCase struct {
	Name        string                 `yaml:"name"`
	Description string                 `yaml:"description,omitempty"`
	Skip        interface{}            `yaml:"skip,omitempty"`
	Scenario    string                 `yaml:"scenario"`
	Params      map[string]interface{} `yaml:"params,omitempty"`
	Expect      Expectation            `yaml:"expect"`
}

// Expectation describes the post-conditions a scenario run must
// satisfy. Only the fields set (non-nil / non-empty) are checked.
type Expectation struct {
	Variables   map[string]interface{} `yaml:"variables,omitempty"`
	AtEnd       *bool                  `yaml:"at_end,omitempty"`
	RegCount    *int                   `yaml:"reg_count,omitempty"`
	TopValue    interface{}            `yaml:"top_value,omitempty"`
	ThreadCount *int                   `yaml:"thread_count,omitempty"`
	CloneCount  *int                   `yaml:"clone_count,omitempty"`
}

// IsSkipped reports whether this test case should be skipped, and
// why.
func (tc *TestCase) IsSkipped() (bool, string) {
	if tc.Skip == nil {
		return false, ""
	}
	switch v := tc.Skip.(type) {
	case bool:
		if v {
			return true, "skipped"
		}
		return false, ""
	case string:
		return true, v
	default:
		return false, ""
	}
}
