// Package sync runs the admin-triggered auto-update that refreshes
// derived storefront data table by table.
package sync

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/shared"
)

// DefaultStaleAfter is how long a run may hold the guard before a new
// trigger is allowed to assume the holder died and take over.
const DefaultStaleAfter = 10 * time.Minute

// Refresher refreshes one table's derived data and reports how many
// rows it touched. Implemented by the persistence layer.
type Refresher interface {
	Refresh(ctx context.Context, table string) (int64, error)
}

// RunRecorder persists an audit row per completed run.
type RunRecorder interface {
	Record(ctx context.Context, run RunResult) error
}

// TableResult is the outcome of refreshing one table
type TableResult struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
	Error string `json:"error,omitempty"`
}

// RunResult is the outcome of one auto-update run
type RunResult struct {
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Tables     []TableResult `json:"tables"`
	Failed     bool          `json:"failed"`
}

// Status is a point-in-time view of the sync guard
type Status struct {
	Running    bool       `json:"running"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	LastResult *RunResult `json:"last_result,omitempty"`
}

// AutoUpdateService serializes auto-update runs within the process. A
// second trigger while a run is in flight is rejected rather than
// queued; a guard held past the stale window is reclaimed at the next
// trigger, since a run that long has crashed mid-flight.
type AutoUpdateService struct {
	refresher  Refresher
	recorder   RunRecorder
	tables     []string
	staleAfter time.Duration
	logger     *zap.Logger

	mu         sync.Mutex
	running    bool
	startedAt  time.Time
	lastResult *RunResult
}

// NewAutoUpdateService creates a new AutoUpdateService. tables is the
// ordered list refreshed on each run; order matters because later
// tables derive from earlier ones.
func NewAutoUpdateService(refresher Refresher, recorder RunRecorder, tables []string, staleAfter time.Duration, logger *zap.Logger) *AutoUpdateService {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &AutoUpdateService{
		refresher:  refresher,
		recorder:   recorder,
		tables:     tables,
		staleAfter: staleAfter,
		logger:     logger,
	}
}

// Run executes one auto-update pass. Returns ErrSyncInProgress when a
// live run already holds the guard.
func (s *AutoUpdateService) Run(ctx context.Context) (*RunResult, error) {
	token, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer s.release(token)

	result := RunResult{StartedAt: time.Now()}
	for _, table := range s.tables {
		rows, err := s.refresher.Refresh(ctx, table)
		tr := TableResult{Table: table, Rows: rows}
		if err != nil {
			tr.Error = err.Error()
			result.Failed = true
			s.logger.Error("auto-update table refresh failed",
				zap.String("table", table),
				zap.Error(err))
		} else {
			s.logger.Info("auto-update refreshed table",
				zap.String("table", table),
				zap.Int64("rows", rows))
		}
		result.Tables = append(result.Tables, tr)
		if err != nil && ctx.Err() != nil {
			break
		}
	}
	result.FinishedAt = time.Now()

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, result); err != nil {
			s.logger.Warn("failed to record auto-update run", zap.Error(err))
		}
	}

	s.mu.Lock()
	s.lastResult = &result
	s.mu.Unlock()
	return &result, nil
}

// Status reports the current guard state and the last completed run
func (s *AutoUpdateService) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{Running: s.running, LastResult: s.lastResult}
	if s.running {
		startedAt := s.startedAt
		st.StartedAt = &startedAt
	}
	return st
}

// acquire takes the single-flight guard and returns a token the holder
// must release with. Staleness is checked here, at acquisition time,
// not by a background timer. A reclaimed run's late release carries the
// old token and is ignored.
func (s *AutoUpdateService) acquire() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		held := time.Since(s.startedAt)
		if held < s.staleAfter {
			return time.Time{}, shared.ErrSyncInProgress
		}
		s.logger.Warn("reclaiming stale auto-update guard",
			zap.Duration("held", held))
	}
	s.running = true
	s.startedAt = time.Now()
	return s.startedAt, nil
}

func (s *AutoUpdateService) release(token time.Time) {
	s.mu.Lock()
	if s.running && s.startedAt.Equal(token) {
		s.running = false
	}
	s.mu.Unlock()
}
