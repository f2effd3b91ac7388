package test

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Returns a unified line diff, or an empty string if the texts are equal
func Diff(old string, new string) string {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(old),
		B:        difflib.SplitLines(new),
		FromFile: "expected",
		ToFile:   "observed",
		Context:  3,
	})
	if err != nil {
		return err.Error()
	}
	return text
}
