package realtime

import (
	"sync"

	"go.uber.org/zap"

	"classroom-backend/internal/models"
)

// CourseLoader fetches the course snapshot for a session being created. It
// runs at most once per course, on the caller that wins the race.
type CourseLoader func(courseID uint) (*models.Course, error)

// Registry maps course ids to live sessions. It is built once in main and
// injected everywhere; there is no ambient instance. Entries are never
// evicted in-process.
type Registry struct {
	log *zap.Logger

	mu      sync.RWMutex
	entries map[uint]*registryEntry
}

// registryEntry decouples session creation from the registry-wide lock. The
// course load runs under the entry's own lock, so a slow first connect for
// one course never stalls lookups or broadcasts for the others.
type registryEntry struct {
	mu   sync.Mutex
	done bool
	sess *Session
	err  error
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{log: log, entries: make(map[uint]*registryEntry)}
}

func (r *Registry) Get(courseID uint) (*Session, bool) {
	r.mu.RLock()
	e, ok := r.entries[courseID]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.done || e.err != nil {
		return nil, false
	}
	return e.sess, true
}

// GetOrCreate returns the course's session, creating it if needed. The
// entry is claimed under the registry lock but loaded under its own lock,
// so concurrent first joins observe exactly one session, the loader runs
// once, and unrelated courses never wait on it.
func (r *Registry) GetOrCreate(courseID uint, load CourseLoader) (*Session, error) {
	r.mu.RLock()
	e, ok := r.entries[courseID]
	r.mu.RUnlock()

	if !ok {
		r.mu.Lock()
		e, ok = r.entries[courseID]
		if !ok {
			e = &registryEntry{}
			r.entries[courseID] = e
		}
		r.mu.Unlock()
	}

	e.mu.Lock()
	if !e.done {
		e.done = true
		course, err := load(courseID)
		if err != nil {
			e.err = err
		} else {
			e.sess = newSession(courseID, course, r.log)
			r.log.Info("realtime session created", zap.Uint("course_id", courseID))
		}
	}
	sess, err := e.sess, e.err
	e.mu.Unlock()

	if err != nil {
		// A failed create leaves no entry behind, so the next call retries.
		r.mu.Lock()
		if r.entries[courseID] == e {
			delete(r.entries, courseID)
		}
		r.mu.Unlock()
		return nil, err
	}
	return sess, nil
}

// Broadcast delivers the event to the course's session if one exists. No
// session means no one is listening; the event is silently dropped.
func (r *Registry) Broadcast(courseID uint, event Event) {
	if s, ok := r.Get(courseID); ok {
		s.Broadcast(event)
	}
}
