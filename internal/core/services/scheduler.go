package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/missedcalls/internal/core/domain"
	"github.com/custodia-labs/missedcalls/internal/core/ports/driven"
	"github.com/custodia-labs/missedcalls/internal/core/ports/driving"
	"github.com/custodia-labs/missedcalls/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// defaultTick is the longest the loop sleeps before looking for due tasks again.
const defaultTick = time.Minute

// Scheduler runs the missed-calls pipeline on a fixed interval.
type Scheduler struct {
	interval time.Duration
	tick     time.Duration
	store    driven.SchedulerStore
	onResult func(*domain.RunReport, error)

	pmu      sync.RWMutex
	pipeline driving.Pipeline

	mu       sync.Mutex
	running  bool
	inflight map[string]bool
	stopCh   chan struct{}
	wake     chan struct{}
	wg       sync.WaitGroup
}

// NewScheduler creates a scheduler. onResult, if non-nil, receives every run's
// report and error after the task state is saved.
func NewScheduler(
	interval time.Duration,
	store driven.SchedulerStore,
	pipeline driving.Pipeline,
	onResult func(*domain.RunReport, error),
) *Scheduler {
	tick := defaultTick
	if interval < tick {
		tick = interval
	}
	return &Scheduler{
		interval: interval,
		tick:     tick,
		store:    store,
		pipeline: pipeline,
		onResult: onResult,
		inflight: make(map[string]bool),
		wake:     make(chan struct{}, 1),
	}
}

// SetPipeline replaces the pipeline used by subsequent runs.
// Used to apply a reloaded configuration without restarting.
func (s *Scheduler) SetPipeline(p driving.Pipeline) {
	s.pmu.Lock()
	defer s.pmu.Unlock()
	s.pipeline = p
}

func (s *Scheduler) currentPipeline() driving.Pipeline {
	s.pmu.RLock()
	defer s.pmu.RUnlock()
	return s.pipeline
}

// Start begins the scheduler loop. This method blocks until Stop is called
// or the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	if err := s.ensureTask(ctx); err != nil {
		logger.Error("scheduler: failed to initialise task: %v", err)
	}

	err := s.run(ctx)
	s.wg.Wait()
	return err
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	// Wait for running tasks to complete
	s.wg.Wait()

	return nil
}

// ensureTask creates the sync task, due immediately, or refreshes its interval.
func (s *Scheduler) ensureTask(ctx context.Context) error {
	task, err := s.store.GetTask(ctx, domain.TaskIDMissedCallsSync)
	if err != nil {
		return err
	}

	if task == nil {
		task = &domain.ScheduledTask{
			ID:       domain.TaskIDMissedCallsSync,
			Name:     "Missed Calls Sync",
			Interval: s.interval,
			Enabled:  true,
		}
	} else if task.Interval != s.interval {
		task.Interval = s.interval
		task.NextRun = time.Now().Add(s.interval)
	}

	return s.store.SaveTask(ctx, task)
}

// run is the main scheduler loop. It sleeps until the earliest NextRun,
// and re-plans whenever a run finishes.
func (s *Scheduler) run(ctx context.Context) error {
	// Check for due tasks immediately on startup
	s.checkAndRunDueTasks(ctx)

	timer := time.NewTimer(s.untilNextRun(ctx))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-timer.C:
			s.checkAndRunDueTasks(ctx)
		case <-s.wake:
		}
		timer.Reset(s.untilNextRun(ctx))
	}
}

// untilNextRun returns how long to sleep before the next task is due,
// capped at the tick. Tasks still running are ignored until they finish.
func (s *Scheduler) untilNextRun(ctx context.Context) time.Duration {
	wait := s.tick

	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return wait
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, task := range tasks {
		if !task.Enabled || s.inflight[task.ID] {
			continue
		}
		if d := time.Until(task.NextRun); d < wait {
			wait = max(d, 0)
		}
	}
	return wait
}

// checkAndRunDueTasks finds and executes tasks that are due.
func (s *Scheduler) checkAndRunDueTasks(ctx context.Context) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		logger.Error("scheduler: failed to list tasks: %v", err)
		return
	}

	now := time.Now()
	for i := range tasks {
		task := &tasks[i]
		if !task.Enabled {
			continue
		}
		if task.NextRun.IsZero() || !task.NextRun.After(now) {
			s.runTask(ctx, task)
		}
	}
}

// runTask executes a single task unless a previous run of it is still going.
func (s *Scheduler) runTask(ctx context.Context, task *domain.ScheduledTask) {
	s.mu.Lock()
	if s.inflight[task.ID] {
		s.mu.Unlock()
		return
	}
	s.inflight[task.ID] = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.inflight, task.ID)
			s.mu.Unlock()
		}()

		result := &domain.TaskResult{
			TaskID:    task.ID,
			StartedAt: time.Now(),
		}

		var (
			report *domain.RunReport
			err    error
		)
		switch task.ID {
		case domain.TaskIDMissedCallsSync:
			report, err = s.currentPipeline().Run(ctx, driving.RunOptions{})
		default:
			logger.Warn("scheduler: unknown task ID: %s", task.ID)
			return
		}

		result.EndedAt = time.Now()
		if report != nil {
			result.RunID = report.RunID
			for _, sheet := range report.Sheets {
				if sheet.Err == nil && !sheet.Skipped {
					result.ItemsProcessed += sheet.Rows
				}
			}
		}
		if err != nil {
			result.Success = false
			result.Error = err.Error()
			task.LastError = err.Error()
		} else {
			result.Success = true
			task.LastError = ""
			task.LastSuccess = result.EndedAt
		}

		// Update task state
		task.LastRun = result.StartedAt
		task.NextRun = result.EndedAt.Add(task.Interval)

		if saveErr := s.store.SaveTask(ctx, task); saveErr != nil {
			logger.Error("scheduler: failed to save task %s: %v", task.ID, saveErr)
		}

		// Record result for history
		if recordErr := s.store.RecordResult(ctx, result); recordErr != nil {
			logger.Error("scheduler: failed to record result for %s: %v", task.ID, recordErr)
		}

		if pruneErr := s.store.PruneHistory(ctx, domain.HistoryLimit); pruneErr != nil {
			logger.Error("scheduler: failed to prune history: %v", pruneErr)
		}

		s.mu.Lock()
		delete(s.inflight, task.ID)
		s.mu.Unlock()
		select {
		case s.wake <- struct{}{}:
		default:
		}

		if s.onResult != nil {
			s.onResult(report, err)
		}
	}()
}
