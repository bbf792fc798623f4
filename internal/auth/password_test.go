package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// All tests use bcrypt.MinCost (4) — the logic is identical at every cost,
// and cost 12 would make this file take seconds instead of milliseconds.
func newTestPasswordService() *PasswordService {
	return NewPasswordServiceForTest(bcrypt.MinCost)
}

func TestHash_ProducesBcryptHash(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	// bcrypt hashes start with the version marker
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("Hash() = %q, doesn't look like a bcrypt hash", hash)
	}
}

func TestHash_SamePasswordDifferentHashes(t *testing.T) {
	ps := newTestPasswordService()

	// The random salt means two hashes of the same password must differ
	h1, _ := ps.Hash("hunter2")
	h2, _ := ps.Hash("hunter2")

	if h1 == h2 {
		t.Error("Hash() produced identical hashes — salt is not being applied")
	}
}

func TestHash_RejectsOverlongPassword(t *testing.T) {
	ps := newTestPasswordService()

	_, err := ps.Hash(strings.Repeat("x", 73))
	if err == nil {
		t.Fatal("Hash() should reject passwords longer than 72 bytes")
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("s3cret-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if err := ps.Verify(hash, "s3cret-password"); err != nil {
		t.Errorf("Verify() should accept the correct password, got %v", err)
	}
	if err := ps.Verify(hash, "wrong-password"); err == nil {
		t.Error("Verify() should reject a wrong password")
	}
}

func TestVerify_EmptyHashAlwaysFails(t *testing.T) {
	ps := newTestPasswordService()

	// GitHub-only accounts have an empty PasswordHash — password login must
	// fail for them no matter what plaintext is supplied.
	if err := ps.Verify("", "anything"); err == nil {
		t.Fatal("Verify() should fail against an empty stored hash")
	}
	if err := ps.Verify("", ""); err == nil {
		t.Fatal("Verify() should fail against an empty stored hash even with empty input")
	}
}
