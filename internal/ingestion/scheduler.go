package ingestion

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Default delays for the two simulated stages.
const (
	DefaultStartDelay   = 1 * time.Second
	DefaultProcessDelay = 5 * time.Second
)

// Scheduler advances processes through pending → running → completed on a
// fixed two-stage delay, simulating background work. Each scheduled process
// gets its own detached goroutine owning nothing but the process id; all
// state lives in the ProcessStore, so arbitrarily many runs can overlap
// without cross-contamination.
//
// Scheduled runs cannot be cancelled. Store failures during either stage are
// converted into a failed transition rather than retried.
type Scheduler struct {
	store        ProcessStore
	logger       *slog.Logger
	startDelay   time.Duration
	processDelay time.Duration

	wg sync.WaitGroup
}

func NewScheduler(store ProcessStore, logger *slog.Logger, startDelay, processDelay time.Duration) *Scheduler {
	if startDelay <= 0 {
		startDelay = DefaultStartDelay
	}
	if processDelay <= 0 {
		processDelay = DefaultProcessDelay
	}
	return &Scheduler{
		store:        store,
		logger:       logger,
		startDelay:   startDelay,
		processDelay: processDelay,
	}
}

// Schedule starts the simulated run for one process and returns immediately.
func (s *Scheduler) Schedule(id uuid.UUID) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(context.Background(), id)
	}()
}

// Wait blocks until every scheduled run has finished. Used by tests; the API
// server never drains the scheduler.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context, id uuid.UUID) {
	// Stage 1: the job has been picked up.
	time.Sleep(s.startDelay)

	p, err := s.store.GetProcess(ctx, id)
	if err != nil {
		s.fail(ctx, id, err)
		return
	}
	if !p.Status.CanTransition(StatusRunning) {
		// A webhook already finished this process before the run started.
		s.logger.Info("skipping simulated run",
			slog.String("process_id", id.String()),
			slog.String("status", string(p.Status)))
		return
	}

	p.Status = StatusRunning
	if _, err := s.store.SaveProcess(ctx, p); err != nil {
		s.fail(ctx, id, err)
		return
	}

	// Stage 2: the job has finished its simulated work. The record is
	// re-read inside transition, so an interleaved webhook outcome sticks.
	time.Sleep(s.processDelay)

	if err := transition(ctx, s.store, s.logger, id, StatusCompleted, ""); err != nil {
		s.fail(ctx, id, err)
		return
	}

	s.logger.Info("ingestion process finished",
		slog.String("process_id", id.String()))
}

// fail records a failed transition for the process. Errors recording the
// failure itself have nowhere left to go but the log.
func (s *Scheduler) fail(ctx context.Context, id uuid.UUID, cause error) {
	s.logger.Error("ingestion process failed",
		slog.String("process_id", id.String()),
		slog.String("error", cause.Error()))

	if err := transition(ctx, s.store, s.logger, id, StatusFailed, cause.Error()); err != nil {
		s.logger.Error("record ingestion failure",
			slog.String("process_id", id.String()),
			slog.String("error", err.Error()))
	}
}
