package event

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
	"github.com/telnet2/projactions/internal/logging"
)

// loggerAdapter routes watermill's logs into the global zerolog logger.
// watermill's info output is per-subscription noise, so it is logged at debug.
type loggerAdapter struct {
	fields watermill.LogFields
}

func newLoggerAdapter() watermill.LoggerAdapter {
	return loggerAdapter{}
}

func (l loggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	l.event(zerolog.ErrorLevel, fields).Err(err).Msg(msg)
}

func (l loggerAdapter) Info(msg string, fields watermill.LogFields) {
	l.event(zerolog.DebugLevel, fields).Msg(msg)
}

func (l loggerAdapter) Debug(msg string, fields watermill.LogFields) {
	l.event(zerolog.DebugLevel, fields).Msg(msg)
}

func (l loggerAdapter) Trace(msg string, fields watermill.LogFields) {
	l.event(zerolog.TraceLevel, fields).Msg(msg)
}

func (l loggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return loggerAdapter{fields: l.fields.Add(fields)}
}

func (l loggerAdapter) event(level zerolog.Level, fields watermill.LogFields) *zerolog.Event {
	logger := logging.Component("watermill")
	return logger.WithLevel(level).Fields(map[string]any(l.fields.Add(fields)))
}
