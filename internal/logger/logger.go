package logger

// Messages are either streamed to stderr as they happen or deferred and
// returned in sorted order when the log is done. The peephole driver only
// emits debug and verbose messages, so the deferred log is what most callers
// use.

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

type Log struct {
	AddMsg    func(Msg)
	HasErrors func() bool
	Done      func() []Msg

	Level LogLevel
}

type LogLevel int8

const (
	LevelNone LogLevel = iota
	LevelVerbose
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
	LevelSilent
)

type MsgKind uint8

const (
	Error MsgKind = iota
	Warning
	Info
	Debug
	Verbose
)

func (kind MsgKind) String() string {
	switch kind {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Debug:
		return "debug"
	case Verbose:
		return "verbose"
	default:
		panic("Internal error")
	}
}

type Msg struct {
	Kind     MsgKind
	Text     string
	Location *MsgLocation
}

type MsgLocation struct {
	File   string
	Line   int // 1-based
	Column int // 0-based, in bytes
}

type Loc struct {
	// This is the 0-based index of this location from the start of the file, in bytes
	Start int32
}

// This type is just so we can use Go's native sort function
type SortableMsgs []Msg

func (a SortableMsgs) Len() int          { return len(a) }
func (a SortableMsgs) Swap(i int, j int) { a[i], a[j] = a[j], a[i] }

func (a SortableMsgs) Less(i int, j int) bool {
	ai := a[i]
	aj := a[j]
	li := ai.Location
	lj := aj.Location

	// Location
	if li == nil && lj != nil {
		return true
	}
	if li != nil && lj == nil {
		return false
	}

	if li != nil && lj != nil {
		if li.File != lj.File {
			return li.File < lj.File
		}
		if li.Line != lj.Line {
			return li.Line < lj.Line
		}
		if li.Column != lj.Column {
			return li.Column < lj.Column
		}
	}

	// Kind
	if ai.Kind != aj.Kind {
		return ai.Kind < aj.Kind
	}

	// Text
	return ai.Text < aj.Text
}

type TerminalInfo struct {
	IsTTY           bool
	UseColorEscapes bool
	Width           int
	Height          int
}

type UseColor uint8

const (
	ColorIfTerminal UseColor = iota
	ColorNever
	ColorAlways
)

type OutputOptions struct {
	Color    UseColor
	LogLevel LogLevel
}

func (msg Msg) String(options OutputOptions, terminalInfo TerminalInfo) string {
	kind := msg.Kind.String()
	kindColor := TerminalColors.Red

	switch msg.Kind {
	case Warning:
		kindColor = TerminalColors.Magenta
	case Info, Debug, Verbose:
		kindColor = TerminalColors.Dim
	}

	where := ""
	if loc := msg.Location; loc != nil {
		where = fmt.Sprintf("%s:%d:%d: ", loc.File, loc.Line, loc.Column)
	}

	if terminalInfo.UseColorEscapes {
		return fmt.Sprintf("%s%s%s%s: %s%s%s\n",
			TerminalColors.Bold, where,
			kindColor, kind,
			TerminalColors.ResetBold, msg.Text,
			TerminalColors.Reset)
	}

	return fmt.Sprintf("%s%s: %s\n", where, kind, msg.Text)
}

type Colors struct {
	Reset     string
	Bold      string
	Dim       string
	ResetBold string

	Red     string
	Green   string
	Magenta string
}

var TerminalColors = Colors{
	Reset:     "\033[0m",
	Bold:      "\033[1m",
	Dim:       "\033[37m",
	ResetBold: "\033[0;1m",

	Red:     "\033[31m",
	Green:   "\033[32m",
	Magenta: "\033[35m",
}

func plural(prefix string, count int) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, prefix)
	}
	return fmt.Sprintf("%d %ss", count, prefix)
}

func errorAndWarningSummary(errors int, warnings int) string {
	switch {
	case errors == 0:
		return plural("warning", warnings)
	case warnings == 0:
		return plural("error", errors)
	default:
		return fmt.Sprintf("%s and %s",
			plural("warning", warnings),
			plural("error", errors))
	}
}

func NewStderrLog(options OutputOptions) Log {
	var mutex sync.Mutex
	var msgs SortableMsgs
	terminalInfo := GetTerminalInfo(os.Stderr)
	errors := 0
	warnings := 0

	switch options.Color {
	case ColorNever:
		terminalInfo.UseColorEscapes = false
	case ColorAlways:
		terminalInfo.UseColorEscapes = SupportsColorEscapes
	}

	return Log{
		Level: options.LogLevel,

		AddMsg: func(msg Msg) {
			mutex.Lock()
			defer mutex.Unlock()
			msgs = append(msgs, msg)

			switch msg.Kind {
			case Verbose:
				if options.LogLevel <= LevelVerbose {
					writeStringWithColor(os.Stderr, msg.String(options, terminalInfo))
				}
			case Debug:
				if options.LogLevel <= LevelDebug {
					writeStringWithColor(os.Stderr, msg.String(options, terminalInfo))
				}
			case Info:
				if options.LogLevel <= LevelInfo {
					writeStringWithColor(os.Stderr, msg.String(options, terminalInfo))
				}
			case Error:
				errors++
				if options.LogLevel <= LevelError {
					writeStringWithColor(os.Stderr, msg.String(options, terminalInfo))
				}
			case Warning:
				warnings++
				if options.LogLevel <= LevelWarning {
					writeStringWithColor(os.Stderr, msg.String(options, terminalInfo))
				}
			}
		},

		HasErrors: func() bool {
			mutex.Lock()
			defer mutex.Unlock()
			return errors > 0
		},

		Done: func() []Msg {
			mutex.Lock()
			defer mutex.Unlock()

			if options.LogLevel <= LevelInfo && (warnings != 0 || errors != 0) {
				writeStringWithColor(os.Stderr, fmt.Sprintf("%s\n", errorAndWarningSummary(errors, warnings)))
			}

			sort.Stable(msgs)
			return msgs
		},
	}
}

type DeferLogKind uint8

const (
	DeferLogAll DeferLogKind = iota
	DeferLogNoVerboseOrDebug
)

func NewDeferLog(kind DeferLogKind) Log {
	var msgs SortableMsgs
	var mutex sync.Mutex
	var hasErrors bool

	level := LevelVerbose
	if kind == DeferLogNoVerboseOrDebug {
		level = LevelInfo
	}

	return Log{
		Level: level,

		AddMsg: func(msg Msg) {
			if kind == DeferLogNoVerboseOrDebug && (msg.Kind == Verbose || msg.Kind == Debug) {
				return
			}
			mutex.Lock()
			defer mutex.Unlock()
			if msg.Kind == Error {
				hasErrors = true
			}
			msgs = append(msgs, msg)
		},

		HasErrors: func() bool {
			mutex.Lock()
			defer mutex.Unlock()
			return hasErrors
		},

		Done: func() []Msg {
			mutex.Lock()
			defer mutex.Unlock()
			sort.Stable(msgs)
			return msgs
		},
	}
}

// A log that drops everything. Used when the caller didn't ask for messages.
func NewNullLog() Log {
	return Log{
		Level:     LevelSilent,
		AddMsg:    func(Msg) {},
		HasErrors: func() bool { return false },
		Done:      func() []Msg { return nil },
	}
}

func (log Log) AddError(loc *MsgLocation, text string) {
	log.AddMsg(Msg{Kind: Error, Text: text, Location: loc})
}

func (log Log) AddWarning(loc *MsgLocation, text string) {
	log.AddMsg(Msg{Kind: Warning, Text: text, Location: loc})
}

func (log Log) AddDebug(text string) {
	if log.Level <= LevelDebug {
		log.AddMsg(Msg{Kind: Debug, Text: text})
	}
}

func (log Log) AddVerbose(text string) {
	if log.Level <= LevelVerbose {
		log.AddMsg(Msg{Kind: Verbose, Text: text})
	}
}

func MsgsToString(msgs []Msg) string {
	sb := strings.Builder{}
	for _, msg := range msgs {
		sb.WriteString(msg.String(OutputOptions{}, TerminalInfo{}))
	}
	return sb.String()
}

func hasNoColorEnvironmentVariable() bool {
	// https://no-color.org/
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	return false
}
