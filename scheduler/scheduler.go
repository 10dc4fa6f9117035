package scheduler

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TaskFn is a scheduled unit of work. ctx is cancelled when the task is
// removed or the scheduler stops.
type TaskFn func(ctx context.Context)

// Scheduler runs named periodic and one-shot background jobs.
type Scheduler struct {
	mu     sync.Mutex
	tasks  map[string]*task
	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type task struct {
	cancel   context.CancelFunc
	interval time.Duration // zero for one-shot
}

// New creates a Scheduler. Stop must be called to release its goroutines.
func New(logger *zap.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		tasks:  make(map[string]*task),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddTicker runs fn every interval until removed. A task with the same name
// is replaced.
func (s *Scheduler) AddTicker(name string, interval time.Duration, fn TaskFn) {
	ctx := s.register(name, interval)
	if ctx == nil {
		return
	}
	go func() {
		defer s.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				s.run(ctx, name, fn)
			case <-ctx.Done():
				return
			}
		}
	}()
	s.logger.Info("scheduler task registered", zap.String("name", name), zap.Duration("interval", interval))
}

// AddDelay runs fn once after delay unless removed first.
func (s *Scheduler) AddDelay(name string, delay time.Duration, fn TaskFn) {
	ctx := s.register(name, 0)
	if ctx == nil {
		return
	}
	go func() {
		defer s.wg.Done()
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-t.C:
			s.run(ctx, name, fn)
			s.forget(name, ctx)
		case <-ctx.Done():
		}
	}()
}

// register replaces any task called name and returns the new task's
// context, or nil when the scheduler is stopped.
func (s *Scheduler) register(name string, interval time.Duration) context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return nil
	}
	if old, ok := s.tasks[name]; ok {
		old.cancel()
	}
	ctx, cancel := context.WithCancel(s.ctx)
	s.tasks[name] = &task{cancel: cancel, interval: interval}
	s.wg.Add(1)
	return ctx
}

func (s *Scheduler) forget(name string, ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// A replacement registered under the same name has a different context.
	if t, ok := s.tasks[name]; ok && ctx.Err() == nil {
		t.cancel()
		delete(s.tasks, name)
	}
}

func (s *Scheduler) run(ctx context.Context, name string, fn TaskFn) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduler task panicked",
				zap.String("task", name),
				zap.Any("recover", r))
		}
	}()
	fn(ctx)
}

// Remove cancels a ticker or pending delay by name.
func (s *Scheduler) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tasks[name]; ok {
		t.cancel()
		delete(s.tasks, name)
	}
}

// Stop cancels every task and waits for running ones to return. Safe to
// call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.cancel()
	s.tasks = make(map[string]*task)
	s.mu.Unlock()
	s.wg.Wait()
}

// ListTickers returns the sorted names of registered periodic tasks.
func (s *Scheduler) ListTickers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.tasks))
	for name, t := range s.tasks {
		if t.interval > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
