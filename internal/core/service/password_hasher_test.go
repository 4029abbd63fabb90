package service

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/campusdesk/classroom-auth/internal/core/domain"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "secret123" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected a bcrypt hash, got %q", hash)
	}

	ok, err := h.Verify("secret123", hash)
	if err != nil || !ok {
		t.Fatalf("expected matching password to verify, got ok=%v err=%v", ok, err)
	}

	ok, err = h.Verify("secret124", hash)
	if err != nil {
		t.Fatalf("wrong password must not error, got %v", err)
	}
	if ok {
		t.Fatalf("wrong password verified")
	}
}

func TestBcryptHasher_SaltIsFreshPerCall(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	first, err := h.Hash("same-input")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := h.Hash("same-input")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatalf("two hashes of the same input must differ")
	}

	for _, hash := range []string{first, second} {
		if ok, err := h.Verify("same-input", hash); err != nil || !ok {
			t.Fatalf("hash %q did not verify: ok=%v err=%v", hash, ok, err)
		}
	}
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	ok, err := h.Verify("secret123", "not-a-bcrypt-hash")
	if ok {
		t.Fatalf("malformed hash must not verify")
	}
	if !errors.Is(err, domain.ErrHashing) {
		t.Fatalf("expected ErrHashing, got %v", err)
	}
}

func TestBcryptHasher_PasswordTooLong(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	if _, err := h.Hash(strings.Repeat("x", 73)); !errors.Is(err, domain.ErrHashing) {
		t.Fatalf("expected ErrHashing for over-long password, got %v", err)
	}
}

func TestNewBcryptHasher_Cost(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, DefaultBcryptCost},
		{-3, DefaultBcryptCost},
		{2, bcrypt.MinCost},
		{10, 10},
		{99, bcrypt.MaxCost},
	}
	for _, tt := range tests {
		if got := NewBcryptHasher(tt.in).Cost(); got != tt.want {
			t.Fatalf("NewBcryptHasher(%d).Cost() = %d, want %d", tt.in, got, tt.want)
		}
	}
}
