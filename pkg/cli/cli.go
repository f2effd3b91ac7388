package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/evanw/jsfold/internal/logger"
	"github.com/evanw/jsfold/pkg/api"
)

const rootLongDescription = `jsfold folds constants and removes dead code in JavaScript programs.

The input is an ESTree JSON document such as the output of acorn, espree, or
oxc-parser. The output is the optimized program as JavaScript source.`

// State shared by every command of one invocation
type cliContext struct {
	config  *viper.Viper
	log     *slog.Logger
	closer  io.Closer
	verbose bool
	cfgPath string
}

func (c *cliContext) close() {
	if c.closer != nil {
		c.closer.Close()
		c.closer = nil
	}
}

func newRootCmd(c *cliContext) *cobra.Command {
	root := &cobra.Command{
		Use:           "jsfold",
		Short:         "JavaScript constant folder and dead code eliminator",
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := readConfig(c.config, c.cfgPath); err != nil {
				return err
			}
			c.log, c.closer = newFileLogger(c.config, c.verbose)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgPath, "config", "", "config file (default is ./"+configFileName+")")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log every pass to the log file")

	flags.String("log-file", defaultLogFilename, "path of the log file")
	bindFlagToConfig(c.config, flags.Lookup("log-file"), logFilenameKey)
	flags.String("log-level", "info", "log file level (debug, info, warn, error)")
	bindFlagToConfig(c.config, flags.Lookup("log-level"), logLevelKey)

	root.AddCommand(newOptimizeCmd(c))
	root.AddCommand(newInitCmd(c))
	return root
}

// Runs the command line and returns the exit code
func Run(osArgs []string) int {
	return RunWithIO(context.Background(), osArgs, os.Stdin, os.Stdout, os.Stderr)
}

func RunWithIO(ctx context.Context, osArgs []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	c := &cliContext{config: newConfig()}
	defer c.close()

	root := newRootCmd(c)
	root.SetArgs(osArgs)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		printMessage(stderr, logger.Msg{Kind: logger.Error, Text: err.Error()})
		return 1
	}
	return 0
}

// Colors are only used when writing directly to a terminal
func printMessage(w io.Writer, msg logger.Msg) {
	var terminalInfo logger.TerminalInfo
	if file, ok := w.(*os.File); ok {
		terminalInfo = logger.GetTerminalInfo(file)
	}
	fmt.Fprint(w, msg.String(logger.OutputOptions{}, terminalInfo))
}

func printErrors(w io.Writer, file string, errors []api.Message) {
	for _, err := range errors {
		var loc *logger.MsgLocation
		if err.Location != nil && err.Location.Line > 0 {
			loc = &logger.MsgLocation{File: err.Location.File, Line: err.Location.Line, Column: err.Location.Column}
		}
		text := err.Text
		if loc == nil {
			text = fmt.Sprintf("%s: %s", file, text)
		}
		printMessage(w, logger.Msg{Kind: logger.Error, Text: text, Location: loc})
	}
}
