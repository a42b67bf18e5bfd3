// Package output owns everything hostctl writes to the terminal: the
// stderr logger, tables, status lines, spinners and YAML/JSON documents.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// logger is replaced by SetupLogging once flags are parsed.
var logger = log.NewWithOptions(os.Stderr, log.Options{})

// LogConfig controls logger setup.
type LogConfig struct {
	// Verbose enables debug level, caller reporting and forces timestamps on.
	Verbose bool

	// Timestamps overrides timestamp display. Nil means on.
	Timestamps *bool
}

// SetupLogging configures the logger based on verbosity and timestamp preference.
func SetupLogging(cfg LogConfig) {
	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}

	timestamps := true
	if cfg.Timestamps != nil {
		timestamps = *cfg.Timestamps
	}
	if cfg.Verbose {
		timestamps = true
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: timestamps,
		ReportCaller:    cfg.Verbose,
		TimeFormat:      "15:04:05",
	})
}

// ChannelLogger returns a child logger scoped to a site channel.
// Every line it writes is prefixed with "site:channel".
func ChannelLogger(site, channel string) *log.Logger {
	return logger.WithPrefix(StyleNoun.Render(fmt.Sprintf("%s:%s", site, channel)))
}

// SetLogWriter redirects log output, keeping the current options.
func SetLogWriter(w io.Writer) {
	logger.SetOutput(w)
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...any) {
	logger.Debug(msg, keyvals...)
}

// Info logs an info message.
func Info(msg string, keyvals ...any) {
	logger.Info(msg, keyvals...)
}

// Error logs an error message.
func Error(msg string, keyvals ...any) {
	logger.Error(msg, keyvals...)
}

// Details prints multi-line detail text to stderr without log formatting.
func Details(text string) {
	fmt.Fprintln(os.Stderr, text)
}

// Prompt writes a prompt to stderr without a trailing newline.
func Prompt(msg string) {
	fmt.Fprint(os.Stderr, msg)
}
