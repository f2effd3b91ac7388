package config

type Mode uint8

const (
	// Folds constants, simplifies expressions and statements, and removes dead
	// code until nothing changes
	ModeFull Mode = iota

	// Only removes unreachable and unused code. Retained expressions are left
	// exactly as they were written.
	ModeDeadCodeOnly
)

func (mode Mode) String() string {
	switch mode {
	case ModeFull:
		return "full"
	case ModeDeadCodeOnly:
		return "dce"
	default:
		panic("Internal error")
	}
}

func ParseMode(text string) (Mode, bool) {
	switch text {
	case "", "full":
		return ModeFull, true
	case "dce", "dead-code":
		return ModeDeadCodeOnly, true
	}
	return ModeFull, false
}

type Options struct {
	Mode Mode

	// The maximum number of passes over the tree. Zero means "until nothing
	// changes", in which case running more than a handful of passes is treated
	// as a bug in a rewrite rule.
	MaxIterations int

	// Top-level declarations are visible to other scripts, so they are only
	// removed when the input is known to be a module.
	DropUnusedTopLevel bool

	// Replace reads of "const" bindings that have literal initializers with
	// the literal itself
	InlineConstants bool

	// Panic instead of logging when the rewrite loop fails to converge
	Debug bool

	// Additional global property chains such as "process.env.NODE_ENV" that
	// can be read without side effects
	PureGlobals []string
}

func DefaultOptions() Options {
	return Options{
		Mode:            ModeFull,
		InlineConstants: true,
	}
}
