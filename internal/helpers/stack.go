package helpers

import (
	"runtime/debug"
	"strings"
)

// Renders the current goroutine's stack as one "function (file:line)" entry
// per line. This is attached to the panic raised when the peephole loop fails
// to converge so the offending rule shows up near the top.
func PrettyPrintedStack() string {
	lines := strings.Split(strings.TrimSpace(string(debug.Stack())), "\n")

	// Strip the first "goroutine" line
	if len(lines) > 0 {
		if first := lines[0]; strings.HasPrefix(first, "goroutine ") && strings.HasSuffix(first, ":") {
			lines = lines[1:]
		}
	}

	sb := strings.Builder{}
	skip := false

	for _, line := range lines {
		// Indented lines are source locations for the call on the previous line
		if strings.HasPrefix(line, "\t") {
			if skip {
				continue
			}
			line = strings.TrimPrefix(line[1:], "github.com/evanw/jsfold/")
			if offset := strings.LastIndex(line, " +0x"); offset != -1 {
				line = line[:offset]
			}
			sb.WriteString(" (")
			sb.WriteString(line)
			sb.WriteString(")")
			continue
		}

		// Don't include the frames that are only here to capture the stack
		skip = strings.HasPrefix(line, "runtime/debug.Stack(") || strings.Contains(line, "helpers.PrettyPrintedStack(")
		if skip {
			continue
		}

		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		if strings.HasSuffix(line, ")") {
			if paren := strings.LastIndexByte(line, '('); paren != -1 {
				line = line[:paren]
			}
		}
		if slash := strings.LastIndexByte(line, '/'); slash != -1 {
			line = line[slash+1:]
		}
		sb.WriteString(line)
	}

	return sb.String()
}
