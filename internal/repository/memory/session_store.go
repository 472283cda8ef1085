package memory

import (
	"sync"
	"time"

	"real-estate-be/pkg/store"
)

// Config bounds the in-memory session store.
type Config struct {
	Capacity      int           // max live sessions; oldest-inserted evicted first
	MaxHistory    int           // max retained turns per session
	IdleTimeout   time.Duration // idle sessions older than this are swept
	SweepInterval time.Duration // janitor period
}

func DefaultConfig() Config {
	return Config{
		Capacity:      1000,
		MaxHistory:    20,
		IdleTimeout:   30 * time.Minute,
		SweepInterval: 5 * time.Minute,
	}
}

// SessionStore keeps assistant sessions in process memory with TTL-based
// eviction, in the spirit of a go-cache janitor but with an insertion-order
// capacity bound that a plain expiring cache cannot express.
type SessionStore struct {
	cfg      Config
	mu       sync.Mutex
	sessions map[string]*store.Session
	order    []string // insertion order, oldest first
	done     chan struct{}
}

var _ store.SessionStore = (*SessionStore)(nil)

func NewSessionStore(cfg Config) *SessionStore {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultConfig().Capacity
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = DefaultConfig().MaxHistory
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultConfig().IdleTimeout
	}

	s := &SessionStore{
		cfg:      cfg,
		sessions: make(map[string]*store.Session),
		done:     make(chan struct{}),
	}

	if cfg.SweepInterval > 0 {
		go s.janitor()
	}
	return s
}

// Close stops the background sweeper.
func (s *SessionStore) Close() {
	close(s.done)
}

func (s *SessionStore) GetOrCreate(id string) *store.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.LastActivity = time.Now()
		return clone(sess)
	}
	return clone(s.createLocked(id))
}

func (s *SessionStore) Update(id string, update store.SessionUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		// The session may have been swept mid-request; recreate rather
		// than fail the update.
		sess = s.createLocked(id)
	}

	sess.History = append(sess.History, update.Turns...)
	if overflow := len(sess.History) - s.cfg.MaxHistory; overflow > 0 {
		sess.History = append([]store.Turn(nil), sess.History[overflow:]...)
	}
	if update.Intent != "" {
		sess.LastIntent = update.Intent
	}
	if update.Location != "" {
		sess.LastLocation = update.Location
	}
	if update.Preferences != nil {
		sess.Preferences.Merge(*update.Preferences)
	}
	sess.LastActivity = time.Now()
}

func (s *SessionStore) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
}

func (s *SessionStore) Describe(id string) (*store.SessionInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	info := &store.SessionInfo{
		CreatedAt:    sess.CreatedAt,
		LastActivity: sess.LastActivity,
		MessageCount: len(sess.History),
		Preferences:  sess.Preferences,
	}
	info.Preferences.Locations = append([]string(nil), sess.Preferences.Locations...)
	return info, true
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) createLocked(id string) *store.Session {
	if len(s.sessions) >= s.cfg.Capacity && len(s.order) > 0 {
		s.removeLocked(s.order[0])
	}
	now := time.Now()
	sess := &store.Session{
		ID:           id,
		CreatedAt:    now,
		LastActivity: now,
	}
	s.sessions[id] = sess
	s.order = append(s.order, id)
	return sess
}

func (s *SessionStore) removeLocked(id string) {
	if _, ok := s.sessions[id]; !ok {
		return
	}
	delete(s.sessions, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *SessionStore) janitor() {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.done:
			return
		}
	}
}

// Sweep removes every session idle longer than the configured timeout.
func (s *SessionStore) Sweep() {
	cutoff := time.Now().Add(-s.cfg.IdleTimeout)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if sess.LastActivity.Before(cutoff) {
			s.removeLocked(id)
		}
	}
}

// clone returns a detached copy so callers never hold a reference into the
// store's mutable state.
func clone(sess *store.Session) *store.Session {
	cp := *sess
	cp.History = append([]store.Turn(nil), sess.History...)
	cp.Preferences.Locations = append([]string(nil), sess.Preferences.Locations...)
	return &cp
}
