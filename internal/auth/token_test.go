package auth

import (
	"errors"
	"testing"
	"time"

	"loom/internal/domain"
	"loom/internal/domain/models"
)

func testTokenUser() *models.User {
	return &models.User{
		ID:    "u1",
		Email: "alice@example.com",
		Role:  models.RoleMember,
	}
}

// TestTokenRoundTrip verifies an issued token verifies back to the same
// identity.
func TestTokenRoundTrip(t *testing.T) {
	mgr, err := NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager failed: %v", err)
	}

	token, err := mgr.Issue(testTokenUser())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	ident, err := mgr.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if ident.UserID != "u1" {
		t.Errorf("expected user u1, got %s", ident.UserID)
	}
	if ident.Email != "alice@example.com" {
		t.Errorf("expected subject email, got %s", ident.Email)
	}
	if ident.Role != models.RoleMember {
		t.Errorf("expected MEMBER role, got %s", ident.Role)
	}
}

// TestVerify_WrongSecret verifies a token signed with another key is rejected.
func TestVerify_WrongSecret(t *testing.T) {
	issuer, _ := NewTokenManager("secret-a", time.Hour)
	verifier, _ := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Issue(testTokenUser())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

// TestVerify_Expired verifies an expired token is rejected.
func TestVerify_Expired(t *testing.T) {
	mgr, _ := NewTokenManager("test-secret", time.Nanosecond)

	token, err := mgr.Issue(testTokenUser())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := mgr.Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired token, got %v", err)
	}
}

// TestVerify_Garbage verifies malformed input is rejected.
func TestVerify_Garbage(t *testing.T) {
	mgr, _ := NewTokenManager("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := mgr.Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("token %q: expected ErrUnauthorized, got %v", token, err)
		}
	}
}

// TestNewTokenManager_EmptySecret verifies the secret is mandatory.
func TestNewTokenManager_EmptySecret(t *testing.T) {
	if _, err := NewTokenManager("", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

// TestNewTokenManager_DefaultTTL verifies a non-positive TTL falls back to a
// usable default instead of issuing pre-expired tokens.
func TestNewTokenManager_DefaultTTL(t *testing.T) {
	mgr, err := NewTokenManager("test-secret", 0)
	if err != nil {
		t.Fatalf("NewTokenManager failed: %v", err)
	}

	token, err := mgr.Issue(testTokenUser())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := mgr.Verify(token); err != nil {
		t.Fatalf("token with default TTL should verify: %v", err)
	}
}
