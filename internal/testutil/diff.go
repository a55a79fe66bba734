// Package testutil provides test-only helpers shared across the module's
// packages: a readable diff printer for mismatched structures, and a
// YAML fixture loader for building snapshot.Snapshot values without
// hand-writing deeply nested Go literals.
package testutil

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedDiff renders a unified diff between two pretty-printed values,
// grounded in edward-ap-class-collector's internal/diff helper.
func UnifiedDiff(want, got string) string {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return fmt.Sprintf("(failed to render diff: %v)\nwant: %s\ngot:  %s", err, want, got)
	}
	return text
}

// RequireDeepEqual fails the test with a unified diff of the two values'
// %#v representations when they are not reflect.DeepEqual.
func RequireDeepEqual(t *testing.T, want, got interface{}, context string) {
	t.Helper()
	if reflect.DeepEqual(want, got) {
		return
	}
	ws, gs := fmt.Sprintf("%#v\n", want), fmt.Sprintf("%#v\n", got)
	t.Fatalf("%s: mismatch:\n%s", context, UnifiedDiff(ws, gs))
}
