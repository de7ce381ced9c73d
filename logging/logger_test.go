package logging

import (
	"errors"
	"testing"
)

// These exercise the ComponentLogger construction and the domain-specific
// LogX helpers purely for panics -- zerolog writes to stderr by default,
// so there's no output to assert on, only that building and using a
// logger never fails.
func TestNewComponentLoggerAndLogHelpersDoNotPanic(t *testing.T) {
	cl := NewComponentLogger("test")

	cl.Info().Msg("info message")
	cl.Warn().Msg("warn message")
	cl.Error().Msg("error message")
	cl.Debug().Msg("debug message")

	cl.LogJobTransition("job-1", "UPLOADED", "PROCESSING")
	cl.LogBatchWrite("job-1", 10, 0, nil)
	cl.LogBatchWrite("job-1", 10, 0, errors.New("write failed"))
	cl.LogOrphanRecovery("job-1", 5, "120", false)
	cl.LogParseError("job-1", 5, "VSS-110", errors.New("malformed"))
}
