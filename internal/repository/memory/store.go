// Package memory is an in-process repository backend for tests and local runs.
// All state lives in a Store value; independent stores never share ids or rows.
package memory

import (
	"context"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/maxviazov/roster-stats-service/internal/model"
	"github.com/maxviazov/roster-stats-service/internal/repository"
)

// Store is the arena backing every memory repository: id counters and rows under one lock.
type Store struct {
	mu          sync.RWMutex
	txMu        sync.Mutex
	lastID      map[string]int64
	players     map[int64]model.Player
	assignments map[int64]model.TeamAssignment
	statistics  map[int64]model.GameStatistic
}

const (
	kindPlayer     = "player"
	kindAssignment = "assignment"
	kindStatistic  = "statistic"
)

func NewStore() *Store {
	return &Store{
		lastID:      make(map[string]int64),
		players:     make(map[int64]model.Player),
		assignments: make(map[int64]model.TeamAssignment),
		statistics:  make(map[int64]model.GameStatistic),
	}
}

// Players returns a player repository over this store.
func (s *Store) Players() *PlayerRepository { return &PlayerRepository{s: s} }

// Assignments returns an assignment repository over this store.
func (s *Store) Assignments() *AssignmentRepository { return &AssignmentRepository{s: s} }

// Statistics returns a statistic repository over this store.
func (s *Store) Statistics() *StatisticRepository { return &StatisticRepository{s: s} }

// TxManager returns a transaction manager over this store.
func (s *Store) TxManager() repository.TxManager { return &txManager{s: s} }

// Ping always succeeds; there is nothing to reach.
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// nextID must be called with mu held for writing.
func (s *Store) nextID(kind string) int64 {
	s.lastID[kind]++
	return s.lastID[kind]
}

type snapshot struct {
	lastID      map[string]int64
	players     map[int64]model.Player
	assignments map[int64]model.TeamAssignment
	statistics  map[int64]model.GameStatistic
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		lastID:      maps.Clone(s.lastID),
		players:     maps.Clone(s.players),
		assignments: maps.Clone(s.assignments),
		statistics:  maps.Clone(s.statistics),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID = snap.lastID
	s.players = snap.players
	s.assignments = snap.assignments
	s.statistics = snap.statistics
}

// txKey marks a context running inside a unit of work on the Store it holds.
type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// lockWrite takes the write lock. Outside a unit of work it also waits for txMu,
// so a rollback can never discard a write that was already reported as done.
func (s *Store) lockWrite(ctx context.Context) (unlock func()) {
	if s.inTx(ctx) {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

// txManager serializes units of work and restores the pre-transaction state when fn fails.
// A nested call joins the running unit of work.
type txManager struct{ s *Store }

func (m *txManager) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.s.inTx(ctx) {
		return fn(ctx)
	}
	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()
	ctx = context.WithValue(ctx, txKey{}, m.s)

	snap := m.s.snapshot()
	if err := fn(ctx); err != nil {
		m.s.restore(snap)
		return err
	}
	if err := ctx.Err(); err != nil {
		m.s.restore(snap)
		return err
	}
	return nil
}

var _ repository.TxManager = (*txManager)(nil)
var _ repository.Pinger = (*Store)(nil)

func sameKey(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func cloneAudit(a model.Audit) model.Audit {
	a.UpdatedAt = cloneTime(a.UpdatedAt)
	a.UpdatedBy = cloneString(a.UpdatedBy)
	return a
}
