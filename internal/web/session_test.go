package web

import (
	"testing"
	"time"
)

func TestSessionLifecycle(t *testing.T) {
	st := NewSessionStore(time.Hour)

	token, expiresAt := st.Create("company-1234", "admin@example.com")
	if token == "" {
		t.Fatal("expected a token")
	}
	if !expiresAt.After(time.Now()) {
		t.Error("expiry should be in the future")
	}

	sess, ok := st.Lookup(token)
	if !ok {
		t.Fatal("session should resolve")
	}
	if sess.CompanyID != "company-1234" || sess.Email != "admin@example.com" {
		t.Errorf("unexpected session: %+v", sess)
	}

	st.Delete(token)
	if _, ok := st.Lookup(token); ok {
		t.Error("deleted session should not resolve")
	}
}

func TestSessionExpiry(t *testing.T) {
	st := NewSessionStore(10 * time.Millisecond)

	token, _ := st.Create("company-1234", "admin@example.com")
	time.Sleep(30 * time.Millisecond)

	if _, ok := st.Lookup(token); ok {
		t.Error("expired session should not resolve")
	}
}

func TestSessionTokensAreUnique(t *testing.T) {
	st := NewSessionStore(time.Hour)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, _ := st.Create("company-1234", "admin@example.com")
		if seen[token] {
			t.Fatalf("duplicate token after %d sessions", i)
		}
		seen[token] = true
	}
}
