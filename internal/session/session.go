// internal/session/session.go
//
// Per-client session store: flash data, CSRF tokens, and the admin flag.
//
// Context
// -------
// The admin create/edit flows depend on redirect-after-post: validation
// errors, the submitted form data, and one-time status messages must
// survive exactly one redirect and then disappear.  This package keeps that
// state in an in-memory store keyed by a session-identifier cookie, and
// hands each request a Session handle scoped to that client.
//
// Flash values are read-once: GetOnce returns and clears atomically under
// the store lock, so there is no hidden cross-request coupling beyond the
// sid cookie itself.  CSRF tokens are per-namespace and single-use — a
// successful validation consumes the token.
//
// Workflow
// --------
//	sess := manager.Load(w, r)          // reads or sets the sid cookie
//	sess.Set("errors", errs)            // survives the next redirect
//	errs := sess.GetOnce("errors", nil) // read-and-clear
//
// Notes
// -----
// • The store is process-local; a multi-instance deployment needs sticky
//   sessions or a shared store behind the same API.
// • Oxford commas, two spaces after periods.

package session

import (
	"crypto/hmac"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"
)

const cookieName = "skiff_session"

// Flash keys shared by the admin controllers.
const (
	KeyFormData   = "form_data"
	KeyErrors     = "errors"
	KeySuccessMsg = "success_message"
	KeyErrorMsg   = "error_message"
)

type entry struct {
	values   map[string]any
	tokens   map[string]string // CSRF namespace → pending token
	loggedIn bool
	username string
	lastSeen time.Time
}

// Manager owns every live session.  Construct with NewManager.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
}

// NewManager returns a store whose sessions idle out after ttl.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{sessions: make(map[string]*entry), ttl: ttl}
}

// Load resolves the request's session, creating one (and setting the
// cookie) when the client has none or the old one expired.
func (m *Manager) Load(w http.ResponseWriter, r *http.Request) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, err := r.Cookie(cookieName); err == nil {
		if e, ok := m.sessions[c.Value]; ok && time.Since(e.lastSeen) <= m.ttl {
			e.lastSeen = time.Now()
			return &Session{m: m, id: c.Value}
		}
	}

	id := newID()
	m.sessions[id] = &entry{
		values:   make(map[string]any),
		tokens:   make(map[string]string),
		lastSeen: time.Now(),
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return &Session{m: m, id: id}
}

// Sweep drops idle sessions.  Run it from a janitor loop.
func (m *Manager) Sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.sessions {
		if time.Since(e.lastSeen) > m.ttl {
			delete(m.sessions, id)
		}
	}
}

// Janitor sweeps every interval until stop is closed.
func (m *Manager) Janitor(stop <-chan struct{}, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			m.Sweep()
		case <-stop:
			return
		}
	}
}

// Session is the request-scoped handle controllers use.  Cross-request
// access is guarded by the manager lock.
type Session struct {
	m  *Manager
	id string
}

// entry looks up the backing state.  Caller must hold s.m.mu.
func (s *Session) entry() *entry {
	return s.m.sessions[s.id]
}

// Set stores a value until read or swept.
func (s *Session) Set(key string, v any) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if e := s.entry(); e != nil {
		e.values[key] = v
	}
}

// GetOnce returns the stored value and clears it in one step, or def when
// the key is absent.
func (s *Session) GetOnce(key string, def any) any {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	e := s.entry()
	if e == nil {
		return def
	}
	v, ok := e.values[key]
	if !ok {
		return def
	}
	delete(e.values, key)
	return v
}

// OnceString is GetOnce for string flash values.
func (s *Session) OnceString(key string) string {
	v, _ := s.GetOnce(key, "").(string)
	return v
}

// GenerateToken issues a fresh CSRF token for the namespace, replacing any
// pending one.
func (s *Session) GenerateToken(namespace string) string {
	tok := newID()
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if e := s.entry(); e != nil {
		e.tokens[namespace] = tok
	}
	return tok
}

// ValidateToken compares in constant time and consumes the token on
// success, so each issued token validates at most once.
func (s *Session) ValidateToken(namespace, token string) bool {
	if token == "" {
		return false
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	e := s.entry()
	if e == nil {
		return false
	}
	stored, ok := e.tokens[namespace]
	if !ok || !hmac.Equal([]byte(stored), []byte(token)) {
		return false
	}
	delete(e.tokens, namespace)
	return true
}

// Login marks the session as an authenticated admin.
func (s *Session) Login(username string) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if e := s.entry(); e != nil {
		e.loggedIn = true
		e.username = username
	}
}

// Logout clears the admin flag and all session state.
func (s *Session) Logout() {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if e := s.entry(); e != nil {
		e.loggedIn = false
		e.username = ""
		e.values = make(map[string]any)
		e.tokens = make(map[string]string)
	}
}

// LoggedIn reports whether the client authenticated as admin.
func (s *Session) LoggedIn() bool {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	e := s.entry()
	return e != nil && e.loggedIn
}

// Username returns the authenticated name, or "".
func (s *Session) Username() string {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	e := s.entry()
	if e == nil {
		return ""
	}
	return e.username
}

func newID() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
