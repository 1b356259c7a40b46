// Package testhelpers provides testing utilities for hostprov, including a
// fake host scene, a scripted command runner and custom assertions.
package testhelpers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"hostprov.dev/hostprov/internal/output"
)

// Must is a generic helper function that panics if err is not nil,
// otherwise returns the value. This is useful for test setup code
// where errors are not expected and should halt execution immediately.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// ExpectStep asserts that the report recorded step with the given status
func ExpectStep(t *testing.T, report *output.Report, name string, status output.Status) output.StepResult {
	t.Helper()
	step, ok := report.Step(name)
	require.True(t, ok, "step %q not recorded; have %v", name, stepNames(report))
	require.Equal(t, status, step.Status, "step %q: %s", name, step.Message)
	return step
}

// ExpectNoStep asserts that the report never recorded step
func ExpectNoStep(t *testing.T, report *output.Report, name string) {
	t.Helper()
	_, ok := report.Step(name)
	require.False(t, ok, "step %q should not have run", name)
}

// ExpectOrder asserts that the commands starting with each prefix ran in order
func ExpectOrder(t *testing.T, runner *FakeRunner, prefixes ...string) {
	t.Helper()
	last := -1
	for _, p := range prefixes {
		idx := runner.Index(p)
		require.GreaterOrEqual(t, idx, 0, "command %q never ran; ran %v", p, runner.Commands())
		require.Greater(t, idx, last, "command %q ran out of order; ran %v", p, runner.Commands())
		last = idx
	}
}

func stepNames(report *output.Report) []string {
	names := make([]string, 0, len(report.Steps))
	for _, s := range report.Steps {
		names = append(names, s.Name)
	}
	return names
}
