package api

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/evanw/jsfold/internal/config"
	"github.com/evanw/jsfold/internal/estree"
	"github.com/evanw/jsfold/internal/js_peephole"
	"github.com/evanw/jsfold/internal/js_printer"
	"github.com/evanw/jsfold/internal/logger"
)

func validateMode(value Mode) config.Mode {
	switch value {
	case ModeFull:
		return config.ModeFull
	case ModeDeadCodeOnly:
		return config.ModeDeadCodeOnly
	default:
		panic("Invalid mode")
	}
}

func validateColor(value StderrColor) logger.UseColor {
	switch value {
	case ColorIfTerminal:
		return logger.ColorIfTerminal
	case ColorNever:
		return logger.ColorNever
	case ColorAlways:
		return logger.ColorAlways
	default:
		panic("Invalid color")
	}
}

func validateLogLevel(value LogLevel) logger.LogLevel {
	switch value {
	case LogLevelVerbose:
		return logger.LevelVerbose
	case LogLevelDebug:
		return logger.LevelDebug
	case LogLevelInfo:
		return logger.LevelInfo
	case LogLevelWarning:
		return logger.LevelWarning
	case LogLevelError:
		return logger.LevelError
	case LogLevelSilent:
		return logger.LevelSilent
	default:
		panic("Invalid log level")
	}
}

func validateOptions(options OptimizeOptions) config.Options {
	result := config.DefaultOptions()
	result.Mode = validateMode(options.Mode)
	result.MaxIterations = options.MaxIterations
	result.DropUnusedTopLevel = options.DropUnusedTopLevel
	result.Debug = options.Debug
	result.PureGlobals = append([]string{}, options.PureGlobals...)

	switch options.InlineConstants {
	case InlineDefault:
	case InlineNever:
		result.InlineConstants = false
	case InlineAlways:
		result.InlineConstants = true
	default:
		panic("Invalid inline mode")
	}
	return result
}

func convertMessagesToPublic(kind logger.MsgKind, msgs []logger.Msg) []Message {
	var filtered []Message
	for _, msg := range msgs {
		if msg.Kind == kind {
			var location *Location
			if loc := msg.Location; loc != nil {
				location = &Location{File: loc.File, Line: loc.Line, Column: loc.Column}
			}
			filtered = append(filtered, Message{Text: msg.Text, Location: location})
		}
	}
	return filtered
}

func newLog(options OptimizeOptions) logger.Log {
	// Debug messages are returned to the caller even when they aren't printed
	if options.LogLevel == LogLevelVerbose || options.LogLevel == LogLevelDebug {
		return logger.NewDeferLog(logger.DeferLogAll)
	}
	if options.LogLevel == LogLevelSilent {
		return logger.NewDeferLog(logger.DeferLogNoVerboseOrDebug)
	}
	return logger.NewStderrLog(logger.OutputOptions{
		Color:    validateColor(options.Color),
		LogLevel: validateLogLevel(options.LogLevel),
	})
}

func optimizeImpl(input []byte, options OptimizeOptions) OptimizeResult {
	log := newLog(options)
	optimizeOptions := validateOptions(options)

	var result OptimizeResult
	tree, err := estree.Load(input)
	if err != nil {
		var loc *logger.MsgLocation
		if options.Sourcefile != "" {
			loc = &logger.MsgLocation{File: options.Sourcefile}
		}
		log.AddError(loc, err.Error())
	} else {
		stats := js_peephole.Run(tree, optimizeOptions, log)
		result.Passes = stats.Passes
		result.ReferencesRemoved = stats.ReferencesRemoved
		result.Converged = stats.Converged
		result.JS = js_printer.Print(tree, js_printer.Options{MinifyWhitespace: options.MinifyWhitespace}).JS
	}

	msgs := log.Done()
	result.Errors = convertMessagesToPublic(logger.Error, msgs)
	result.Logs = convertMessagesToPublic(logger.Debug, msgs)
	return result
}

func optimizeAllImpl(ctx context.Context, jobs []OptimizeJob, options BatchOptions) ([]OptimizeResult, error) {
	results := make([]OptimizeResult, len(jobs))
	group, ctx := errgroup.WithContext(ctx)
	if options.Parallel > 0 {
		group.SetLimit(options.Parallel)
	}

	for i, job := range jobs {
		// Each job writes to its own slot, so no locking is needed
		i, job := i, job
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("job %d was not started: %w", i, err)
			}
			results[i] = optimizeImpl(job.Input, job.Options)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
