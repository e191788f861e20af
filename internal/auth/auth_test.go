package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stanblog/stanblog/internal/model"
	"github.com/stanblog/stanblog/internal/store"
	"github.com/stanblog/stanblog/internal/store/sqlite"
)

func newTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	st, err := sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewService(st, NewTokens([]byte("test-secret"), ttl))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret" {
		t.Fatalf("hash equals plaintext")
	}
	if !CheckPassword(hash, "secret") {
		t.Fatalf("expected password to verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatalf("expected wrong password to fail")
	}

	// Salting makes two hashes of the same input differ.
	other, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == other {
		t.Fatalf("expected distinct salted hashes")
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	svc := newTestService(t, 0)

	user, err := svc.Register(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected id")
	}
	if user.PasswordHash == "secret" || user.PasswordHash == "" {
		t.Fatalf("plaintext stored")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc := newTestService(t, 0)

	if _, err := svc.Register(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(context.Background(), "alice", "other")
	if !errors.Is(err, store.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	svc := newTestService(t, 0)

	if _, err := svc.Register(context.Background(), "", "secret"); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "alice", ""); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestLoginFlow(t *testing.T) {
	svc := newTestService(t, 0)

	registered, err := svc.Register(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, token, err := svc.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("expected id %d, got %d", registered.ID, user.ID)
	}
	if token == "" {
		t.Fatalf("expected token")
	}

	identity, err := svc.Profile(token)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if identity.UserID != registered.ID || identity.Username != "alice" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestLoginFailures(t *testing.T) {
	svc := newTestService(t, 0)

	if _, err := svc.Register(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "alice", "wrong"); !errors.Is(err, ErrWrongCredentials) {
		t.Fatalf("expected ErrWrongCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody", "x"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokens([]byte("s1"), 0)

	token, err := tokens.Issue(model.Identity{UserID: 7, Username: "alice"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	identity, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity.UserID != 7 || identity.Username != "alice" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokens([]byte("s1"), 0).Issue(model.Identity{UserID: 7, Username: "alice"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewTokens([]byte("s2"), 0).Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenMissing(t *testing.T) {
	if _, err := NewTokens([]byte("s1"), 0).Verify(""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	if _, err := NewTokens([]byte("s1"), 0).Verify("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenExpiry(t *testing.T) {
	tokens := NewTokens([]byte("s1"), -1*time.Second)

	token, err := tokens.Issue(model.Identity{UserID: 7, Username: "alice"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := tokens.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to be invalid, got %v", err)
	}
}
