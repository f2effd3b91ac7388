package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/evanw/jsfold/internal/config"
	"github.com/evanw/jsfold/internal/logger"
	"github.com/evanw/jsfold/pkg/api"
)

const optimizeLongDescription = `Optimize one or more ESTree JSON files. With no files, the program is read
from stdin. Results are written to stdout unless --outdir is set, in which
case "foo.json" is written to "<outdir>/foo.js".`

const stdinName = "<stdin>"

type optimizeFlags struct {
	stats bool
	watch bool
}

func newOptimizeCmd(c *cliContext) *cobra.Command {
	var flags optimizeFlags

	cmd := &cobra.Command{
		Use:   "optimize [files...]",
		Short: "Fold constants and remove dead code",
		Long:  optimizeLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.watch && len(args) == 0 {
				return fmt.Errorf("--watch needs at least one input file")
			}
			options, err := optimizeOptionsFromConfig(c.config)
			if err != nil {
				return err
			}
			o := &optimizer{
				c:        c,
				options:  options,
				stats:    flags.stats,
				outdir:   c.config.GetString(outdirKey),
				parallel: c.config.GetInt(parallelKey),
				stdin:    cmd.InOrStdin(),
				stdout:   cmd.OutOrStdout(),
				stderr:   cmd.ErrOrStderr(),
			}

			if !flags.watch {
				return o.run(cmd.Context(), args)
			}
			return o.watch(cmd.Context(), args)
		},
	}

	f := cmd.Flags()
	f.String("mode", "full", "what to do: \"full\" or \"dce\" (dead code only)")
	bindFlagToConfig(c.config, f.Lookup("mode"), modeKey)
	f.Int("max-iterations", 0, "stop after this many passes (0 means until nothing changes)")
	bindFlagToConfig(c.config, f.Lookup("max-iterations"), maxIterationsKey)
	f.Bool("drop-unused-top-level", false, "also remove unused top-level declarations")
	bindFlagToConfig(c.config, f.Lookup("drop-unused-top-level"), dropUnusedTopLevelKey)
	f.Bool("inline-constants", true, "substitute constant bindings at their uses")
	bindFlagToConfig(c.config, f.Lookup("inline-constants"), inlineConstantsKey)
	f.StringSlice("pure", nil, "global property chains that can be read without side effects")
	bindFlagToConfig(c.config, f.Lookup("pure"), pureGlobalsKey)
	f.Bool("debug", false, "crash with a stack trace if the rewrite loop does not settle")
	bindFlagToConfig(c.config, f.Lookup("debug"), debugKey)
	f.Bool("minify-whitespace", false, "print without unnecessary whitespace")
	bindFlagToConfig(c.config, f.Lookup("minify-whitespace"), minifyWhitespaceKey)
	f.Int("parallel", runtime.GOMAXPROCS(0), "maximum number of files optimized at once")
	bindFlagToConfig(c.config, f.Lookup("parallel"), parallelKey)
	f.StringP("outdir", "o", "", "write results to this directory instead of stdout")
	bindFlagToConfig(c.config, f.Lookup("outdir"), outdirKey)

	f.BoolVar(&flags.stats, "stats", false, "print a table of passes and removed references")
	f.BoolVar(&flags.watch, "watch", false, "optimize again whenever an input file changes")
	return cmd
}

func optimizeOptionsFromConfig(v *viper.Viper) (api.OptimizeOptions, error) {
	options := api.OptimizeOptions{
		LogLevel:           api.LogLevelDebug,
		MaxIterations:      v.GetInt(maxIterationsKey),
		DropUnusedTopLevel: v.GetBool(dropUnusedTopLevelKey),
		PureGlobals:        v.GetStringSlice(pureGlobalsKey),
		Debug:              v.GetBool(debugKey),
		MinifyWhitespace:   v.GetBool(minifyWhitespaceKey),
		InlineConstants:    api.InlineNever,
	}
	if v.GetBool(inlineConstantsKey) {
		options.InlineConstants = api.InlineAlways
	}
	if options.MaxIterations < 0 {
		return api.OptimizeOptions{}, fmt.Errorf("invalid max iterations %d", options.MaxIterations)
	}

	mode, ok := config.ParseMode(v.GetString(modeKey))
	if !ok {
		return api.OptimizeOptions{}, fmt.Errorf("invalid mode %q (valid: full, dce)", v.GetString(modeKey))
	}
	switch mode {
	case config.ModeFull:
		options.Mode = api.ModeFull
	case config.ModeDeadCodeOnly:
		options.Mode = api.ModeDeadCodeOnly
	}
	return options, nil
}

type optimizer struct {
	c        *cliContext
	options  api.OptimizeOptions
	stats    bool
	outdir   string
	parallel int

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type fileResult struct {
	name   string
	result api.OptimizeResult
}

func (o *optimizer) run(ctx context.Context, paths []string) error {
	names := paths
	if len(names) == 0 {
		names = []string{stdinName}
	}

	jobs := make([]api.OptimizeJob, len(names))
	for i, name := range names {
		input, err := o.readInput(name)
		if err != nil {
			return err
		}
		options := o.options
		options.Sourcefile = name
		jobs[i] = api.OptimizeJob{Input: input, Options: options}
	}

	results, err := api.OptimizeAll(ctx, jobs, api.BatchOptions{Parallel: o.parallel})
	if err != nil {
		return err
	}

	files := make([]fileResult, len(results))
	failed := 0
	for i, result := range results {
		name := names[i]
		files[i] = fileResult{name: name, result: result}
		o.logResult(name, result)

		if len(result.Errors) > 0 {
			printErrors(o.stderr, name, result.Errors)
			failed++
			continue
		}
		if !result.Converged {
			printMessage(o.stderr, logger.Msg{Kind: logger.Warning, Text: fmt.Sprintf(
				"%s: stopped after %d passes while the code was still changing", name, result.Passes)})
		}
		if err := o.writeOutput(name, result.JS); err != nil {
			return err
		}
	}

	if o.stats {
		fmt.Fprint(o.stderr, renderStats(files))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be optimized", failed, len(names))
	}
	return nil
}

func (o *optimizer) readInput(name string) ([]byte, error) {
	if name == stdinName {
		input, err := io.ReadAll(o.stdin)
		if err != nil {
			return nil, fmt.Errorf("could not read from stdin: %w", err)
		}
		return input, nil
	}
	input, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("could not read input file: %w", err)
	}
	return input, nil
}

func outputPath(outdir string, name string) string {
	if name == stdinName {
		return filepath.Join(outdir, "stdin.js")
	}
	base := filepath.Base(name)
	return filepath.Join(outdir, strings.TrimSuffix(base, filepath.Ext(base))+".js")
}

func (o *optimizer) writeOutput(name string, js []byte) error {
	if o.outdir == "" {
		if _, err := o.stdout.Write(js); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(o.outdir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath(o.outdir, name), js, 0644); err != nil {
		return fmt.Errorf("failed to write to output file: %w", err)
	}
	return nil
}

func (o *optimizer) logResult(name string, result api.OptimizeResult) {
	log := o.c.log
	if log == nil {
		return
	}
	for _, msg := range result.Logs {
		log.Debug(msg.Text, "file", name)
	}
	if len(result.Errors) > 0 {
		log.Error("optimization failed", "file", name, "error", result.Errors[0].Text)
		return
	}
	log.Info("optimized",
		"file", name,
		"passes", result.Passes,
		"references_removed", result.ReferencesRemoved,
		"converged", result.Converged)
}
