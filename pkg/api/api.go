package api

import "context"

type Mode uint8

const (
	ModeFull Mode = iota
	ModeDeadCodeOnly
)

type Location struct {
	File   string
	Line   int // 1-based
	Column int // 0-based, in bytes
}

type Message struct {
	Text     string
	Location *Location
}

type StderrColor uint8

const (
	ColorIfTerminal StderrColor = iota
	ColorNever
	ColorAlways
)

type LogLevel uint8

const (
	LogLevelSilent LogLevel = iota
	LogLevelVerbose
	LogLevelDebug
	LogLevelInfo
	LogLevelWarning
	LogLevelError
)

type Inline uint8

const (
	InlineDefault Inline = iota
	InlineNever
	InlineAlways
)

////////////////////////////////////////////////////////////////////////////////
// Optimize API

type OptimizeOptions struct {
	Color    StderrColor
	LogLevel LogLevel

	Mode               Mode
	MaxIterations      int
	DropUnusedTopLevel bool
	InlineConstants    Inline
	PureGlobals        []string

	// Panic with a stack trace instead of logging when the rewrite loop keeps
	// changing the tree
	Debug bool

	MinifyWhitespace bool

	// Used in messages only
	Sourcefile string
}

type OptimizeResult struct {
	Errors []Message

	// Per-pass debug messages, only present for "LogLevelDebug" and below
	Logs []Message

	JS []byte

	Passes            int
	ReferencesRemoved int
	Converged         bool
}

// Optimizes a program given as ESTree JSON, the format produced by parsers
// such as acorn, espree, and oxc-parser
func Optimize(estree []byte, options OptimizeOptions) OptimizeResult {
	return optimizeImpl(estree, options)
}

////////////////////////////////////////////////////////////////////////////////
// Batch API

type OptimizeJob struct {
	Input   []byte
	Options OptimizeOptions
}

type BatchOptions struct {
	// The number of jobs that run at the same time. Zero means no limit.
	Parallel int
}

// Runs independent jobs concurrently. Results are returned in the order of
// the jobs. An error is only returned if the context was cancelled, in which
// case jobs that never started have no result.
func OptimizeAll(ctx context.Context, jobs []OptimizeJob, options BatchOptions) ([]OptimizeResult, error) {
	return optimizeAllImpl(ctx, jobs, options)
}
