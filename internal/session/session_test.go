// internal/session/session_test.go
//
// Unit-tests for session identity, flash read-once semantics, and the
// single-use CSRF tokens.

package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newSession(t *testing.T, m *Manager) (*Session, *http.Cookie) {
	t.Helper()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	s := m.Load(w, r)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies set = %d, want 1", len(cookies))
	}
	return s, cookies[0]
}

func TestLoad_ReusesSessionAcrossRequests(t *testing.T) {
	m := NewManager(time.Hour)
	s1, cookie := newSession(t, m)
	s1.Set("k", "v")

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)
	s2 := m.Load(httptest.NewRecorder(), r)

	if got := s2.GetOnce("k", nil); got != "v" {
		t.Fatalf("value across requests = %v, want v", got)
	}
}

func TestGetOnce_ReadsExactlyOnce(t *testing.T) {
	m := NewManager(time.Hour)
	s, _ := newSession(t, m)

	s.Set(KeyErrors, map[string][]string{"title": {"required"}})
	if v := s.GetOnce(KeyErrors, nil); v == nil {
		t.Fatal("first read returned nothing")
	}
	if v := s.GetOnce(KeyErrors, nil); v != nil {
		t.Fatalf("second read returned %v, want nil", v)
	}
	if v := s.GetOnce("absent", "fallback"); v != "fallback" {
		t.Fatalf("default = %v, want fallback", v)
	}
}

func TestValidateToken_SingleUse(t *testing.T) {
	m := NewManager(time.Hour)
	s, _ := newSession(t, m)

	tok := s.GenerateToken("page_admin")
	if tok == "" {
		t.Fatal("empty token issued")
	}

	if !s.ValidateToken("page_admin", tok) {
		t.Fatal("fresh token rejected")
	}
	if s.ValidateToken("page_admin", tok) {
		t.Fatal("token validated twice")
	}
}

func TestValidateToken_NamespaceAndValueChecked(t *testing.T) {
	m := NewManager(time.Hour)
	s, _ := newSession(t, m)

	tok := s.GenerateToken("page_admin")
	if s.ValidateToken("file", tok) {
		t.Fatal("token accepted under the wrong namespace")
	}
	if s.ValidateToken("page_admin", "forged") {
		t.Fatal("forged token accepted")
	}
	if s.ValidateToken("page_admin", "") {
		t.Fatal("empty token accepted")
	}
	// The forged attempts must not have consumed the real token.
	if !s.ValidateToken("page_admin", tok) {
		t.Fatal("real token was consumed by a failed validation")
	}
}

func TestGenerateToken_ReplacesPending(t *testing.T) {
	m := NewManager(time.Hour)
	s, _ := newSession(t, m)

	old := s.GenerateToken("file")
	fresh := s.GenerateToken("file")
	if s.ValidateToken("file", old) {
		t.Fatal("stale token still validates")
	}
	if !s.ValidateToken("file", fresh) {
		t.Fatal("fresh token rejected")
	}
}

func TestLogout_ClearsEverything(t *testing.T) {
	m := NewManager(time.Hour)
	s, _ := newSession(t, m)

	s.Login("admin")
	s.Set(KeySuccessMsg, "saved")
	tok := s.GenerateToken("page_admin")

	s.Logout()
	if s.LoggedIn() {
		t.Fatal("still logged in after Logout")
	}
	if got := s.OnceString(KeySuccessMsg); got != "" {
		t.Fatalf("flash survived logout: %q", got)
	}
	if s.ValidateToken("page_admin", tok) {
		t.Fatal("token survived logout")
	}
}

func TestSweep_DropsIdleSessions(t *testing.T) {
	m := NewManager(time.Millisecond)
	s, _ := newSession(t, m)
	s.Login("admin")

	time.Sleep(5 * time.Millisecond)
	m.Sweep()

	if s.LoggedIn() {
		t.Fatal("swept session still authenticated")
	}
}
