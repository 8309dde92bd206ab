package conformance

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// TestDataDir is the default location of the bundled conformance
// fixtures, relative to the conformance package's own directory.
const TestDataDir = "testdata"

// LoadedTest pairs one test case with the suite and file it came
// from, flattening a directory of suites into one runnable list.
type LoadedTest struct {
	File  string
	Suite TestSuite
	Test  TestCase
}

// LoadAllTests walks dir for *.yaml files and loads every test case
// they contain. A file that fails to parse is skipped with a warning
// rather than aborting the whole load, since a single malformed
// fixture shouldn't take down the rest of the suite.
func LoadAllTests(dir string) ([]LoadedTest, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("conformance: resolve %s: %w", dir, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("conformance: test directory %s: %w", abs, err)
	}

	var loaded []LoadedTest
	err = filepath.Walk(abs, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".yaml" {
			return nil
		}
		suite, tests, err := loadTestFile(path)
		if err != nil {
			relPath, _ := filepath.Rel(abs, path)
			fmt.Fprintf(os.Stderr, "conformance: skipping %s: %v\n", relPath, err)
			return nil
		}
		relPath, _ := filepath.Rel(abs, path)
		for _, t := range tests {
			loaded = append(loaded, LoadedTest{File: relPath, Suite: suite, Test: t})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loaded, nil
}

func loadTestFile(path string) (TestSuite, []TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TestSuite{}, nil, err
	}
	var suite TestSuite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return TestSuite{}, nil, err
	}
	return suite, suite.Tests, nil
}
