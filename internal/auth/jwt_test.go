package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/ssRohan-32/link-organizer/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken("user-123", secret, time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	userID, err := UserIDFromToken(token, secret)
	if err != nil {
		t.Fatalf("UserIDFromToken returned error: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("expected user-123, got %q", userID)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("user-123", []byte("right-secret"), time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if _, err := UserIDFromToken(token, []byte("wrong-secret")); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestTokenExpired(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken("user-123", secret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if _, err := UserIDFromToken(token, secret); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	if _, err := UserIDFromToken("not-a-token", []byte("secret")); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}
