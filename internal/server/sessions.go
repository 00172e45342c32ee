package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/citylink/pkg/dashboard"
	"github.com/matzehuels/citylink/pkg/errors"
)

// session is one coordinator. Its mutex serializes every event, so the
// dashboard itself stays single-threaded.
type session struct {
	mu       sync.Mutex
	id       string
	d        *dashboard.Dashboard
	lastUsed time.Time
}

// sessions holds live sessions and evicts idle ones.
type sessions struct {
	mu    sync.Mutex
	byID  map[string]*session
	ttl   time.Duration
	limit int
	now   func() time.Time

	onChange func(n int)
}

func newSessions(ttl time.Duration, limit int) *sessions {
	return &sessions{
		byID:     make(map[string]*session),
		ttl:      ttl,
		limit:    limit,
		now:      time.Now,
		onChange: func(int) {},
	}
}

// add stores d under a new id. Expired sessions are evicted first; when the
// store is still full the least recently used session is dropped.
func (s *sessions) add(d *dashboard.Dashboard) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked()
	if s.limit > 0 && len(s.byID) >= s.limit {
		var oldest *session
		for _, ss := range s.byID {
			if oldest == nil || ss.lastUsed.Before(oldest.lastUsed) {
				oldest = ss
			}
		}
		delete(s.byID, oldest.id)
	}

	ss := &session{id: uuid.NewString(), d: d, lastUsed: s.now()}
	s.byID[ss.id] = ss
	s.onChange(len(s.byID))
	return ss
}

// get returns the session with id and marks it used.
func (s *sessions) get(id string) (*session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid session id: %q", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ss, ok := s.byID[id]
	if !ok || s.expired(ss) {
		if ok {
			delete(s.byID, id)
			s.onChange(len(s.byID))
		}
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session not found: %s", id)
	}
	ss.lastUsed = s.now()
	return ss, nil
}

func (s *sessions) remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return errors.New(errors.ErrCodeSessionNotFound, "session not found: %s", id)
	}
	delete(s.byID, id)
	s.onChange(len(s.byID))
	return nil
}

func (s *sessions) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

func (s *sessions) expired(ss *session) bool {
	return s.ttl > 0 && s.now().Sub(ss.lastUsed) > s.ttl
}

func (s *sessions) evictLocked() {
	for id, ss := range s.byID {
		if s.expired(ss) {
			delete(s.byID, id)
		}
	}
}
