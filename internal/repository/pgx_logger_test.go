package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceLevelFor(t *testing.T) {
	assert.Equal(t, tracelog.LogLevelTrace, traceLevelFor(zerolog.TraceLevel))
	assert.Equal(t, tracelog.LogLevelDebug, traceLevelFor(zerolog.DebugLevel))
	assert.Equal(t, tracelog.LogLevelInfo, traceLevelFor(zerolog.InfoLevel))
	assert.Equal(t, tracelog.LogLevelWarn, traceLevelFor(zerolog.WarnLevel))
	assert.Equal(t, tracelog.LogLevelError, traceLevelFor(zerolog.ErrorLevel))
}

func TestPgxLogger_DropsSQLOutsideTrace(t *testing.T) {
	var buf bytes.Buffer
	l := newPgxLogger(zerolog.New(&buf).Level(zerolog.TraceLevel))

	l.Log(context.Background(), tracelog.LogLevelInfo, "Query", map[string]any{
		"sql": "SELECT 1", "args": []any{1}, "time": "1ms",
	})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "pgx", line["component"])
	assert.Equal(t, "1ms", line["time"])
	assert.NotContains(t, line, "sql")
	assert.NotContains(t, line, "args")
}

func TestPgxLogger_TraceKeepsSQL(t *testing.T) {
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	l := newPgxLogger(zerolog.New(&buf).Level(zerolog.TraceLevel))

	l.Log(context.Background(), tracelog.LogLevelTrace, "Query", map[string]any{"sql": "SELECT 1"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "SELECT 1", line["sql"])
}

func TestPgxLogger_UsesRequestLogger(t *testing.T) {
	var base, scoped bytes.Buffer
	l := newPgxLogger(zerolog.New(&base))
	reqLogger := zerolog.New(&scoped).With().Str("request_id", "req-7").Logger()
	ctx := reqLogger.WithContext(context.Background())

	l.Log(ctx, tracelog.LogLevelWarn, "slow query", map[string]any{"time": "2s"})

	assert.Empty(t, base.String())
	var line map[string]any
	require.NoError(t, json.Unmarshal(scoped.Bytes(), &line))
	assert.Equal(t, "req-7", line["request_id"])
	assert.Equal(t, "pgx", line["component"])
	assert.Equal(t, "warn", line["level"])
}
