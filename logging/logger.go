// Package logging provides structured logging for the settlement
// processing components, wrapping zerolog the way the teacher pack's
// services do.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ComponentLogger gives each package (parse, job, report, store) a
// logger pre-tagged with its own name so log lines can be filtered by
// component without per-call annotation.
type ComponentLogger struct {
	logger zerolog.Logger
}

// NewComponentLogger creates a component-scoped logger. LOG_LEVEL
// (debug|info|warn|error) and ENVIRONMENT (production disables the
// console writer) are read from the environment, matching the teacher
// pack's convention of configuring zerolog globally on construction.
func NewComponentLogger(componentName string) *ComponentLogger {
	zerolog.TimeFieldFormat = time.RFC3339

	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if os.Getenv("ENVIRONMENT") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			NoColor:    false,
		})
	}

	return &ComponentLogger{
		logger: log.With().Str("component", componentName).Logger(),
	}
}

func (cl *ComponentLogger) Info() *zerolog.Event  { return cl.logger.Info() }
func (cl *ComponentLogger) Error() *zerolog.Event { return cl.logger.Error() }
func (cl *ComponentLogger) Warn() *zerolog.Event  { return cl.logger.Warn() }
func (cl *ComponentLogger) Debug() *zerolog.Event { return cl.logger.Debug() }

// LogJobTransition logs a processing-job FSM state change.
func (cl *ComponentLogger) LogJobTransition(jobID string, from, to string) {
	cl.Info().
		Str("job_id", jobID).
		Str("from_status", from).
		Str("to_status", to).
		Msg("job status transition")
}

// LogBatchWrite logs the outcome of writing one batch to the store.
func (cl *ComponentLogger) LogBatchWrite(jobID string, batchSize int, duration time.Duration, err error) {
	ev := cl.Info()
	if err != nil {
		ev = cl.logger.Warn()
	}
	ev.Str("job_id", jobID).
		Int("batch_size", batchSize).
		Dur("duration", duration).
		AnErr("error", err).
		Msg("batch write completed")
}

// LogOrphanRecovery logs the outcome of an orphan-TCR1 parent lookup.
func (cl *ComponentLogger) LogOrphanRecovery(jobID string, lineNumber int, resolvedReportNumber string, foundParent bool) {
	cl.Warn().
		Str("job_id", jobID).
		Int("line_number", lineNumber).
		Str("resolved_report_number", resolvedReportNumber).
		Bool("found_parent", foundParent).
		Msg("recovered orphan TCR1 via parent lookup")
}

// LogParseError logs a per-line parse or validation failure.
func (cl *ComponentLogger) LogParseError(jobID string, lineNumber int, recordType string, err error) {
	cl.Warn().
		Str("job_id", jobID).
		Int("line_number", lineNumber).
		Str("record_type", recordType).
		Err(err).
		Msg("record failed validation")
}
