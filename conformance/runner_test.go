package conformance

import "testing"

func TestBuiltinScenariosSatisfyBundledFixtures(t *testing.T) {
	tests, err := LoadAllTests(TestDataDir)
	if err != nil {
		t.Fatalf("LoadAllTests: %v", err)
	}
	if len(tests) == 0 {
		t.Fatalf("expected at least one bundled fixture")
	}
	for _, lt := range tests {
		ok, msg := RunCase(lt.Test, Scenarios)
		if !ok {
			t.Errorf("%s: %s: %s", lt.File, lt.Test.Name, msg)
		}
	}
}

func TestUnknownScenarioFailsCleanly(t *testing.T) {
	tc := TestCase{Name: "bogus", Scenario: "does-not-exist"}
	ok, msg := RunCase(tc, Scenarios)
	if ok {
		t.Fatalf("expected an unknown scenario to fail")
	}
	if msg == "" {
		t.Fatalf("expected a non-empty failure message")
	}
}

func TestSkippedCaseReportsSkipReason(t *testing.T) {
	tc := TestCase{Name: "skipped", Scenario: "arithmetic", Skip: "not ready"}
	ok, msg := RunCase(tc, Scenarios)
	if !ok {
		t.Fatalf("skipped case should report success (skip is not failure)")
	}
	if msg != "skipped: not ready" {
		t.Fatalf("msg = %q, want %q", msg, "skipped: not ready")
	}
}
