package session

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestManagerEstablishAndResolve(t *testing.T) {
	m := NewManager(NewMemoryStore(), "secret", time.Hour)

	cookie, err := m.Establish(context.Background(), 42)
	if err != nil {
		t.Fatalf("establish: %v", err)
	}

	userID, ok := m.UserID(context.Background(), cookie)
	if !ok {
		t.Fatal("expected valid session")
	}
	if userID != 42 {
		t.Errorf("expected user 42, got %d", userID)
	}
}

func TestManagerRejectsTamperedCookie(t *testing.T) {
	m := NewManager(NewMemoryStore(), "secret", time.Hour)

	cookie, err := m.Establish(context.Background(), 42)
	if err != nil {
		t.Fatalf("establish: %v", err)
	}

	tampered := strings.Replace(cookie, cookie[:1], "z", 1)
	if _, ok := m.UserID(context.Background(), tampered); ok {
		t.Error("tampered sid must be rejected")
	}
	if _, ok := m.UserID(context.Background(), cookie+"x"); ok {
		t.Error("tampered signature must be rejected")
	}
	if _, ok := m.UserID(context.Background(), "no-dot-value"); ok {
		t.Error("malformed cookie must be rejected")
	}
}

func TestManagerRejectsForeignSecret(t *testing.T) {
	a := NewManager(NewMemoryStore(), "secret-a", time.Hour)
	b := NewManager(NewMemoryStore(), "secret-b", time.Hour)

	cookie, err := a.Establish(context.Background(), 7)
	if err != nil {
		t.Fatalf("establish: %v", err)
	}
	if _, ok := b.UserID(context.Background(), cookie); ok {
		t.Error("cookie signed with another secret must be rejected")
	}
}

func TestManagerClear(t *testing.T) {
	m := NewManager(NewMemoryStore(), "secret", time.Hour)

	cookie, err := m.Establish(context.Background(), 42)
	if err != nil {
		t.Fatalf("establish: %v", err)
	}
	if err := m.Clear(context.Background(), cookie); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := m.UserID(context.Background(), cookie); ok {
		t.Error("cleared session must not resolve")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()

	if err := store.Set(context.Background(), "sid", 1, time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := store.Get(context.Background(), "sid"); err != ErrNoSession {
		t.Errorf("expected ErrNoSession after expiry, got %v", err)
	}
}
