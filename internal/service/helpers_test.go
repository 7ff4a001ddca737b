package service_test

import (
	"io"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/maxviazov/roster-stats-service/internal/repository/memory"
	"github.com/maxviazov/roster-stats-service/internal/service"
)

var testNow = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func ptr[T any](v T) *T { return &v }

type env struct {
	store       *memory.Store
	clock       *clockwork.FakeClock
	players     service.PlayerService
	assignments service.AssignmentService
	stats       service.StatisticService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	logger := zerolog.New(io.Discard)
	store := memory.NewStore()
	clock := clockwork.NewFakeClockAt(testNow)
	return &env{
		store:       store,
		clock:       clock,
		players:     service.NewPlayerService(store.Players(), clock, logger),
		assignments: service.NewAssignmentService(store.TxManager(), store.Players(), store.Assignments(), clock, logger),
		stats:       service.NewStatisticService(store.Statistics(), store.Assignments(), clock, logger),
	}
}
