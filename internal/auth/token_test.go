package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenIssueVerify_Success(t *testing.T) {
	t.Parallel()

	svc := NewTokenService([]byte("super-secret"), time.Hour)
	userID := "user-123"

	tok, err := svc.Issue(userID)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	got, err := svc.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if got != userID {
		t.Fatalf("subject mismatch: got %q want %q", got, userID)
	}
}

func TestTokenVerify_Expired(t *testing.T) {
	t.Parallel()

	svc := NewTokenService([]byte("secret"), time.Hour)
	tok, err := svc.Issue("u1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// сдвигаем часы за срок действия
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = svc.Verify(tok)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenService([]byte("right-secret"), time.Hour).Issue("u2")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = NewTokenService([]byte("wrong-secret"), time.Hour).Verify(tok)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered signature, got %v", err)
	}
}

func TestTokenVerify_Malformed(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService([]byte("k"), time.Hour).Verify("not.a.jwt")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for malformed token, got %v", err)
	}
}
