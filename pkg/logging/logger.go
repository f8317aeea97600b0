// Package logging provides the structured logger shared by the pipeline,
// scheduler and CLI.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mimir-aip/kraljic-go/pkg/models"
)

// ComponentLogger provides structured logging for one component
type ComponentLogger struct {
	logger    zerolog.Logger
	component string
	version   string
}

// NewComponentLogger creates a console logger on stderr; stdout is left to
// the reports.
func NewComponentLogger(component, version string) *ComponentLogger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	if os.Getenv("DEBUG") == "true" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	return NewWithWriter(output, component, version)
}

// NewWithWriter creates a logger writing JSON events to w
func NewWithWriter(w io.Writer, component, version string) *ComponentLogger {
	logger := zerolog.New(w).
		With().
		Timestamp().
		Str("component", component).
		Str("version", version).
		Logger()

	return &ComponentLogger{
		logger:    logger,
		component: component,
		version:   version,
	}
}

// Nop returns a logger that discards everything
func Nop() *ComponentLogger {
	return &ComponentLogger{logger: zerolog.Nop()}
}

// Info returns an info level event
func (cl *ComponentLogger) Info() *zerolog.Event {
	return cl.logger.Info()
}

// Debug returns a debug level event
func (cl *ComponentLogger) Debug() *zerolog.Event {
	return cl.logger.Debug()
}

// Warn returns a warn level event
func (cl *ComponentLogger) Warn() *zerolog.Event {
	return cl.logger.Warn()
}

// Error returns an error level event
func (cl *ComponentLogger) Error() *zerolog.Event {
	return cl.logger.Error()
}

// Child returns a logger carrying an extra string field
func (cl *ComponentLogger) Child(key, value string) *ComponentLogger {
	return &ComponentLogger{
		logger:    cl.logger.With().Str(key, value).Logger(),
		component: cl.component,
		version:   cl.version,
	}
}

// LogStage logs the row accounting of one stage
func (cl *ComponentLogger) LogStage(report models.StageReport, duration time.Duration) {
	event := cl.Info().
		Str("stage", report.Stage).
		Int("rows_in", report.RowsIn).
		Int("rows_out", report.RowsOut).
		Dur("duration", duration)

	if len(report.Dropped) > 0 {
		dropped := zerolog.Dict()
		for reason, n := range report.Dropped {
			dropped.Int(string(reason), n)
		}
		event = event.Dict("dropped", dropped)
	}
	if len(report.Flagged) > 0 {
		flagged := zerolog.Dict()
		for reason, n := range report.Flagged {
			flagged.Int(string(reason), n)
		}
		event = event.Dict("flagged", flagged)
	}

	event.Msg("Stage completed")
}

// SetLevel sets the global logging level
func SetLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		log.Warn().Str("level", level).Msg("Unknown log level, defaulting to info")
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
