package batch

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nfoedit/nfoedit/internal/domain"
)

// DefaultTaskTTL is how long a task stays reachable after creation
const DefaultTaskTTL = 30 * time.Minute

// Store is the in-memory registry of batch tasks. The store-wide lock
// guards only the id -> task map; each task's counters have their own
// lock, so workers of one task never contend with another task's
// bookkeeping. Construct one Store per process and pass it explicitly;
// there is no package-level instance.
type Store struct {
	mu    sync.RWMutex
	tasks map[string]*domain.BatchTask
	ttl   time.Duration

	sweeper *cron.Cron
}

// NewStore creates a store with the given TTL; zero means DefaultTaskTTL
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTaskTTL
	}
	return &Store{
		tasks: make(map[string]*domain.BatchTask),
		ttl:   ttl,
	}
}

// Add registers a task under its ID
func (s *Store) Add(task *domain.BatchTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task
}

// Get returns the task for an ID, false if absent or already evicted
func (s *Store) Get(taskID string) (*domain.BatchTask, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[taskID]
	return task, ok
}

// Delete removes a task. Returns true if it existed.
func (s *Store) Delete(taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[taskID]; !ok {
		return false
	}
	delete(s.tasks, taskID)
	return true
}

// ListAll returns every registered task
func (s *Store) ListAll() []*domain.BatchTask {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tasks := make([]*domain.BatchTask, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t)
	}
	return tasks
}

// CleanupExpired evicts tasks older than the TTL regardless of status.
// A Running task can be evicted too: its workers hold their own reference
// and finish safely, but the task becomes unreachable by ID. Returns the
// number of evicted tasks.
func (s *Store) CleanupExpired() int {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, task := range s.tasks {
		if task.CreatedAt.Before(cutoff) {
			delete(s.tasks, id)
			n++
		}
	}
	return n
}

// StartSweeper schedules CleanupExpired on the given cron spec
// (e.g. "@every 1m"). Call StopSweeper on shutdown.
func (s *Store) StartSweeper(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { s.CleanupExpired() }); err != nil {
		return err
	}
	c.Start()
	s.sweeper = c
	return nil
}

// StopSweeper stops the background sweep, if one was started
func (s *Store) StopSweeper() {
	if s.sweeper != nil {
		s.sweeper.Stop()
	}
}
