package test

import (
	"testing"
)

func AssertEqualWithDiff(t *testing.T, observed string, expected string) {
	t.Helper()
	if observed != expected {
		t.Fatal("\n" + Diff(expected, observed))
	}
}
