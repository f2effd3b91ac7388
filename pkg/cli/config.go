package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configBaseName = "jsfold"
	configFileName = configBaseName + ".yaml"
	envPrefix      = "JSFOLD"

	modeKey               = "mode"
	maxIterationsKey      = "max_iterations"
	dropUnusedTopLevelKey = "drop_unused_top_level"
	inlineConstantsKey    = "inline_constants"
	pureGlobalsKey        = "pure_globals"
	debugKey              = "debug"
	minifyWhitespaceKey   = "minify_whitespace"
	parallelKey           = "parallel"
	outdirKey             = "outdir"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".jsfold.log"
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
)

// Every setting can come from a flag, a "JSFOLD_*" environment variable, or
// "jsfold.yaml", in that order of priority
func newConfig() *viper.Viper {
	v := viper.New()
	v.SetConfigName(configBaseName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault(modeKey, "full")
	v.SetDefault(maxIterationsKey, 0)
	v.SetDefault(dropUnusedTopLevelKey, false)
	v.SetDefault(inlineConstantsKey, true)
	v.SetDefault(pureGlobalsKey, []string{})
	v.SetDefault(debugKey, false)
	v.SetDefault(minifyWhitespaceKey, false)
	v.SetDefault(parallelKey, runtime.GOMAXPROCS(0))
	v.SetDefault(outdirKey, "")

	v.SetDefault(logFilenameKey, defaultLogFilename)
	v.SetDefault(logLevelKey, "info")
	v.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	v.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	v.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	v.SetDefault(logCompressKey, true)
	return v
}

// A config file named with "--config" must exist, but the implicit
// "jsfold.yaml" is optional
func readConfig(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

func bindFlagToConfig(v *viper.Viper, flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}
	cobra.CheckErr(v.BindPFlag(key, flag))
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	switch level {
	case "":
		return defaultLevel
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Numeric slog levels such as "-4" work too
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}
	return defaultLevel
}

// The log file is separate from the diagnostics printed to stderr. It records
// what happened to each file, including every pass when the level is "debug".
func newFileLogger(v *viper.Viper, verbose bool) (*slog.Logger, io.Closer) {
	level := parseSlogLevel(v.GetString(logLevelKey), slog.LevelInfo)
	if verbose {
		level = slog.LevelDebug
	}

	filename := strings.TrimSpace(v.GetString(logFilenameKey))
	if filename == "" {
		filename = defaultLogFilename
	}

	writer := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    v.GetInt(logMaxSizeKey),
		MaxBackups: v.GetInt(logMaxBackupsKey),
		MaxAge:     v.GetInt(logMaxAgeKey),
		Compress:   v.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level})
	return slog.New(handler), writer
}
