package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Task is a named function run on a fixed interval
type Task struct {
	Name     string
	Interval time.Duration
	Fn       func(context.Context) error
}

// Scheduler runs background maintenance tasks, one goroutine per task
type Scheduler struct {
	mu      sync.Mutex
	tasks   []*Task
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	log     zerolog.Logger
}

// New creates an empty scheduler
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		log: log.With().Str("component", "scheduler").Logger(),
	}
}

// AddTask registers a task. Tasks added after Start are ignored until
// the next Start.
func (s *Scheduler) AddTask(name string, interval time.Duration, fn func(context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, &Task{Name: name, Interval: interval, Fn: fn})
}

// Start launches every registered task
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.running = true

	for _, task := range s.tasks {
		s.wg.Add(1)
		go s.runTask(ctx, task)
	}
	s.log.Info().Int("tasks", len(s.tasks)).Msg("scheduler started")
}

// Stop cancels all tasks and waits for them to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) runTask(ctx context.Context, task *Task) {
	defer s.wg.Done()

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := task.Fn(ctx); err != nil {
				s.log.Error().Err(err).Str("task", task.Name).Msg("task failed")
			}
		case <-ctx.Done():
			return
		}
	}
}
