package config

import (
	"strings"
	"sync"
)

var knownGlobals = [][]string{
	// These global identifiers should exist in all JavaScript environments
	{"Array"},
	{"Boolean"},
	{"Function"},
	{"Math"},
	{"Number"},
	{"Object"},
	{"RegExp"},
	{"String"},
	{"Symbol"},
	{"Infinity"},
	{"NaN"},
	{"undefined"},

	// Object: Static methods
	// https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Global_Objects/Object#Static_methods
	{"Object", "assign"},
	{"Object", "create"},
	{"Object", "defineProperties"},
	{"Object", "defineProperty"},
	{"Object", "entries"},
	{"Object", "freeze"},
	{"Object", "fromEntries"},
	{"Object", "getOwnPropertyDescriptor"},
	{"Object", "getOwnPropertyDescriptors"},
	{"Object", "getOwnPropertyNames"},
	{"Object", "getOwnPropertySymbols"},
	{"Object", "getPrototypeOf"},
	{"Object", "is"},
	{"Object", "isExtensible"},
	{"Object", "isFrozen"},
	{"Object", "isSealed"},
	{"Object", "keys"},
	{"Object", "preventExtensions"},
	{"Object", "seal"},
	{"Object", "setPrototypeOf"},
	{"Object", "values"},

	// Math: Static properties
	// https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Global_Objects/Math#Static_properties
	{"Math", "E"},
	{"Math", "LN10"},
	{"Math", "LN2"},
	{"Math", "LOG10E"},
	{"Math", "LOG2E"},
	{"Math", "PI"},
	{"Math", "SQRT1_2"},
	{"Math", "SQRT2"},

	// Math: Static methods
	// https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Global_Objects/Math#Static_methods
	{"Math", "abs"},
	{"Math", "acos"},
	{"Math", "acosh"},
	{"Math", "asin"},
	{"Math", "asinh"},
	{"Math", "atan"},
	{"Math", "atan2"},
	{"Math", "atanh"},
	{"Math", "cbrt"},
	{"Math", "ceil"},
	{"Math", "clz32"},
	{"Math", "cos"},
	{"Math", "cosh"},
	{"Math", "exp"},
	{"Math", "expm1"},
	{"Math", "floor"},
	{"Math", "fround"},
	{"Math", "hypot"},
	{"Math", "imul"},
	{"Math", "log"},
	{"Math", "log10"},
	{"Math", "log1p"},
	{"Math", "log2"},
	{"Math", "max"},
	{"Math", "min"},
	{"Math", "pow"},
	{"Math", "random"},
	{"Math", "round"},
	{"Math", "sign"},
	{"Math", "sin"},
	{"Math", "sinh"},
	{"Math", "sqrt"},
	{"Math", "tan"},
	{"Math", "tanh"},
	{"Math", "trunc"},
}

// Reading one of these doesn't have side effects, assuming the global hasn't
// been shadowed. Reading an arbitrary unbound identifier can throw a
// "ReferenceError" and reading an arbitrary property can run a getter.
type KnownGlobals struct {
	Identifiers map[string]bool
	Dots        map[string][][]string
}

var processedGlobalsMutex sync.Mutex
var processedGlobals *KnownGlobals

// The built-in table is processed once and then shared. Extra chains from
// "Options.PureGlobals" produce a private copy.
func ProcessKnownGlobals(extra []string) KnownGlobals {
	if len(extra) == 0 {
		processedGlobalsMutex.Lock()
		defer processedGlobalsMutex.Unlock()
		if processedGlobals == nil {
			result := newKnownGlobals(nil)
			processedGlobals = &result
		}
		return *processedGlobals
	}
	return newKnownGlobals(extra)
}

func newKnownGlobals(extra []string) KnownGlobals {
	result := KnownGlobals{
		Identifiers: make(map[string]bool),
		Dots:        make(map[string][][]string),
	}

	add := func(parts []string) {
		if len(parts) == 1 {
			result.Identifiers[parts[0]] = true
		} else {
			tail := parts[len(parts)-1]
			result.Dots[tail] = append(result.Dots[tail], parts)
		}
	}

	for _, parts := range knownGlobals {
		add(parts)
	}
	for _, chain := range extra {
		if chain != "" {
			add(strings.Split(chain, "."))
		}
	}
	return result
}

// "parts" is a property chain rooted at an unbound identifier, such as
// ["Math", "PI"] for "Math.PI"
func (g KnownGlobals) IsKnown(parts []string) bool {
	switch len(parts) {
	case 0:
		return false
	case 1:
		return g.Identifiers[parts[0]]
	}

next:
	for _, candidate := range g.Dots[parts[len(parts)-1]] {
		if len(candidate) != len(parts) {
			continue
		}
		for i := range parts {
			if candidate[i] != parts[i] {
				continue next
			}
		}
		return true
	}
	return false
}
