package usecase

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"acapulcoWs/internal/modules/ordering/domain"
)

// Session owns one cart and at most one open side interaction. Its mutex
// serializes every request made on behalf of the session.
type Session struct {
	ID string

	mu          sync.Mutex
	cart        *domain.Cart
	interaction *sideInteraction
	generation  uint64
	lastSeen    atomic.Int64
}

type sideInteraction struct {
	generation    uint64
	dish          domain.Dish
	replaceLineID string
	selection     *domain.SideSelection
	catalog       []domain.SideCatalogEntry
	loaded        bool
}

func (s *Session) touch(at time.Time) {
	s.lastSeen.Store(at.UnixNano())
}

func (s *Session) idleSince() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) openInteraction(dish domain.Dish, replaceLineID string, prices domain.ExtraPrices) uint64 {
	s.generation++
	s.interaction = &sideInteraction{
		generation:    s.generation,
		dish:          dish,
		replaceLineID: replaceLineID,
		selection:     domain.NewSideSelection(dish.Portion, dish.FreeCount(), prices),
	}
	return s.generation
}

// current returns the interaction only while generation is still the open one.
func (s *Session) current(generation uint64) *sideInteraction {
	if s.interaction == nil || s.interaction.generation != generation {
		return nil
	}
	return s.interaction
}

func (s *Session) closeInteraction() {
	s.interaction = nil
	s.generation++
}

// SessionStore keeps ordering sessions in memory.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
	newID    func() string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Create registers a new session with an empty cart.
func (st *SessionStore) Create() *Session {
	session := &Session{ID: st.newID(), cart: domain.NewCart()}
	session.touch(st.now())
	st.mu.Lock()
	st.sessions[session.ID] = session
	st.mu.Unlock()
	return session
}

// Get returns the session and refreshes its idle timer.
func (st *SessionStore) Get(id string) (*Session, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false
	}
	st.mu.RLock()
	session, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, false
	}
	session.touch(st.now())
	return session, true
}

func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep drops sessions idle for longer than maxIdle and returns how many were removed.
func (st *SessionStore) Sweep(maxIdle time.Duration) int {
	cutoff := st.now().Add(-maxIdle)

	st.mu.RLock()
	stale := make([]string, 0)
	for id, session := range st.sessions {
		if session.idleSince().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	st.mu.RUnlock()

	if len(stale) == 0 {
		return 0
	}
	st.mu.Lock()
	for _, id := range stale {
		delete(st.sessions, id)
	}
	st.mu.Unlock()
	return len(stale)
}
