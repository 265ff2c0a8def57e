package verdict

import (
	"os"

	"github.com/rs/zerolog"
)

// reporter is the diagnostic side channel. Logger methods never surface
// errors to the caller; every failure is recorded here and the caller sees a
// sentinel return value instead.
type reporter struct {
	log zerolog.Logger
}

func newReporter(log zerolog.Logger) *reporter {
	return &reporter{log: log}
}

// defaultDiagnostics returns the logger used when the caller does not bring
// their own: timestamped JSON lines on stderr.
func defaultDiagnostics() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Str("component", "verdict").Logger()
}

// failure records an error that caused an operation to return its sentinel
// value.
func (r *reporter) failure(op string, err error) {
	r.log.Error().Str("op", op).Err(err).Msg("operation failed")
}

// transient records a retryable fault the SDK absorbed.
func (r *reporter) transient(op string, err error) {
	r.log.Warn().Str("op", op).Err(err).Msg("transient fault, retrying")
}

// deprecation surfaces a deprecation notice exactly where the old parameter
// was used.
func (r *reporter) deprecation(msg string) {
	r.log.Warn().Msg(msg)
}

func (r *reporter) debug(op, msg string) {
	r.log.Debug().Str("op", op).Msg(msg)
}
