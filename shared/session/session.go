package session

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/dracory/gestor/shared/viewstate"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "wb_sid"
	// SessionIDLength is the length of the session ID in bytes
	SessionIDLength = 32
)

// Session is one browser's view: its controller and the notices waiting to
// be shown on the next page render.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	lastUsed   time.Time
	notices    []viewstate.Notice
	controller *viewstate.Controller
}

// Notify queues a notice until TakeNotices is called.
func (s *Session) Notify(n viewstate.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, n)
}

// TakeNotices returns the queued notices and empties the queue.
func (s *Session) TakeNotices() []viewstate.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notices
	s.notices = nil
	return out
}

// LastUsed reports when the session was last looked up.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

// ControllerFactory builds the controller for a new session. Notices from
// the controller must go to n.
type ControllerFactory func(n viewstate.Notifier) *viewstate.Controller

// Store keeps sessions in memory, keyed by the cookie value.
type Store struct {
	newController ControllerFactory
	secure        bool

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty store. secure forces the Secure cookie flag even
// on plain HTTP requests (for TLS terminated upstream).
func NewStore(factory ControllerFactory, secure bool) *Store {
	return &Store{
		newController: factory,
		secure:        secure,
		sessions:      map[string]*Session{},
	}
}

// newRandomID generates a new random ID for sessions
func newRandomID() string {
	b := make([]byte, SessionIDLength/2)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

// Ensure returns the session named by the request cookie or creates a new
// one and sets its cookie on w.
func (st *Store) Ensure(w http.ResponseWriter, r *http.Request) *Session {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		if s, ok := st.Get(c.Value); ok {
			return s
		}
	}

	now := time.Now()
	s := &Session{ID: newRandomID(), CreatedAt: now, lastUsed: now}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   st.secure || r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	return s
}

// Get retrieves an existing session by ID
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if ok {
		s.touch(time.Now())
	}
	return s, ok
}

// Sweep removes sessions idle for longer than maxIdle and returns how many
// were removed.
func (st *Store) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, s := range st.sessions {
		if s.LastUsed().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// controller returns the session's controller, building it on first use.
func (st *Store) controller(s *Session) *viewstate.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.controller == nil {
		s.controller = st.newController(s)
	}
	return s.controller
}

// Attach returns the request's session and its controller without fetching
// anything. Handlers that fetch on their own use it.
func (st *Store) Attach(w http.ResponseWriter, r *http.Request) (*Session, *viewstate.Controller) {
	s := st.Ensure(w, r)
	return s, st.controller(s)
}

// Resolve is Attach for handlers that only read or edit state: a controller
// that has never fetched is loaded with the rows of its table first.
func (st *Store) Resolve(w http.ResponseWriter, r *http.Request) (*Session, *viewstate.Controller) {
	s, ctrl := st.Attach(w, r)
	if !ctrl.Loaded() {
		_ = ctrl.Refresh(r.Context())
	}
	return s, ctrl
}
