package repository

import (
	"context"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// pgxLogger adapts zerolog.Logger to pgx's tracelog interface.
// I keep this tiny and allocation-friendly, only translating levels and passing fields through.
type pgxLogger struct {
	logger zerolog.Logger
}

// newPgxLogger builds a child logger scoped to the pgx component.
// I like to tag component explicitly so SQL noise stays filterable.
func newPgxLogger(logger zerolog.Logger) *pgxLogger {
	l := logger.With().Str("component", "pgx").Logger()
	return &pgxLogger{logger: l}
}

// traceLevelFor picks the pgx trace verbosity matching the service log level.
func traceLevelFor(level zerolog.Level) tracelog.LogLevel {
	switch {
	case level <= zerolog.TraceLevel:
		return tracelog.LogLevelTrace
	case level <= zerolog.DebugLevel:
		return tracelog.LogLevelDebug
	case level <= zerolog.InfoLevel:
		return tracelog.LogLevelInfo
	case level <= zerolog.WarnLevel:
		return tracelog.LogLevelWarn
	default:
		return tracelog.LogLevelError
	}
}

// loggerFor prefers the request-scoped logger from ctx so SQL lines carry the request id.
func (l *pgxLogger) loggerFor(ctx context.Context) zerolog.Logger {
	if cl := zerolog.Ctx(ctx); cl.GetLevel() != zerolog.Disabled {
		return cl.With().Str("component", "pgx").Logger()
	}
	return l.logger
}

var pgxLevels = map[tracelog.LogLevel]zerolog.Level{
	tracelog.LogLevelTrace: zerolog.TraceLevel,
	tracelog.LogLevelDebug: zerolog.DebugLevel,
	tracelog.LogLevelInfo:  zerolog.InfoLevel,
	tracelog.LogLevelWarn:  zerolog.WarnLevel,
	tracelog.LogLevelError: zerolog.ErrorLevel,
}

// Log implements tracelog.Logger by mapping pgx levels to zerolog.
// SQL text and args are only emitted at trace level; they may carry player data.
func (l *pgxLogger) Log(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	if level == tracelog.LogLevelNone {
		return
	}
	logger := l.loggerFor(ctx)
	zl, ok := pgxLevels[level]
	if !ok {
		zl = zerolog.InfoLevel
	}
	event := logger.WithLevel(zl)
	if !ok {
		event = event.Str("pgx_log_level", level.String())
	}
	if zl != zerolog.TraceLevel {
		delete(data, "sql")
		delete(data, "args")
	}
	if len(data) > 0 {
		event = event.Fields(data)
	}
	event.Msg(msg)
}
