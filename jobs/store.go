package jobs

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/use-agent/seoaudit/models"
)

// Store is an in-memory store of audit jobs. It is safe for concurrent use.
// Readers always get copies; jobs are mutated only through Update.
type Store struct {
	mu         sync.RWMutex
	jobs       map[string]*models.AuditJob
	maxEntries int
	ttl        time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

// New creates a Store holding at most maxEntries jobs. A background goroutine
// evicts jobs older than ttl every 5 minutes until Close is called.
func New(maxEntries int, ttl time.Duration) *Store {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	s := &Store{
		jobs:       make(map[string]*models.AuditJob),
		maxEntries: maxEntries,
		ttl:        ttl,
		stop:       make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

// NewID generates a job ID.
func NewID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return "audit-" + hex.EncodeToString(b)
}

// Put stores job. At capacity, the oldest job is evicted to make room.
func (s *Store) Put(job *models.AuditJob) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; !exists && len(s.jobs) >= s.maxEntries {
		var oldestID string
		var oldest int64
		for id, j := range s.jobs {
			if oldestID == "" || j.CreatedAt < oldest {
				oldestID, oldest = id, j.CreatedAt
			}
		}
		delete(s.jobs, oldestID)
	}
	s.jobs[job.ID] = job.Clone()
}

// Get returns a copy of the job.
func (s *Store) Get(id string) (*models.AuditJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, false
	}
	return j.Clone(), true
}

// Update applies fn to the stored job under the write lock. It reports
// whether the job still exists.
func (s *Store) Update(id string, fn func(*models.AuditJob)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return false
	}
	fn(j)
	return true
}

// Len returns the number of stored jobs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// Close stops the cleanup goroutine.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Store) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.evictBefore(time.Now().Add(-s.ttl))
		case <-s.stop:
			return
		}
	}
}

// evictBefore removes jobs created before cutoff.
func (s *Store) evictBefore(cutoff time.Time) int {
	c := cutoff.Unix()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, j := range s.jobs {
		if j.CreatedAt < c {
			delete(s.jobs, id)
			n++
		}
	}
	return n
}
