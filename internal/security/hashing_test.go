package security

import (
	"errors"
	"strings"
	"testing"
)

// testHasherParams keeps argon2 cheap in tests.
func testHasherParams() HasherParams {
	return HasherParams{Memory: 8, Time: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}
}

func TestHasher_HashAndVerify(t *testing.T) {
	h, err := NewHasher(testHasherParams())
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	hash, err := h.Hash("password123")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("hash %q missing argon2id PHC prefix", hash)
	}

	ok, err := h.Verify(hash, "password123")
	if err != nil || !ok {
		t.Fatalf("Verify(correct) = (%v, %v), want (true, nil)", ok, err)
	}
	ok, err = h.Verify(hash, "wrongpassword")
	if err != nil {
		t.Fatalf("Verify(wrong) err = %v, want nil", err)
	}
	if ok {
		t.Fatal("Verify(wrong) = true")
	}
}

func TestHasher_FreshSaltPerHash(t *testing.T) {
	h, _ := NewHasher(testHasherParams())
	a, _ := h.Hash("password123")
	b, _ := h.Hash("password123")
	if a == b {
		t.Fatal("two hashes of the same password are identical; salt is not fresh")
	}
}

func TestHasher_VerifyUsesEmbeddedParams(t *testing.T) {
	// Hash with one parameter set, verify with another: the embedded PHC
	// parameters must win.
	h1, _ := NewHasher(HasherParams{Memory: 16, Time: 2, Parallelism: 1, SaltLength: 8, KeyLength: 16})
	hash, err := h1.Hash("password123")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	h2, _ := NewHasher(testHasherParams())
	ok, err := h2.Verify(hash, "password123")
	if err != nil || !ok {
		t.Fatalf("Verify across parameter sets = (%v, %v), want (true, nil)", ok, err)
	}
}

func TestHasher_MalformedHash(t *testing.T) {
	h, _ := NewHasher(testHasherParams())
	for _, bad := range []string{
		"",
		"not-a-hash",
		"$bcrypt$v=19$m=8,t=1,p=1$AAAA$BBBB",
		"$argon2id$v=19$m=8,t=1,p=1$!!!$BBBB",
	} {
		if _, err := h.Verify(bad, "password123"); !errors.Is(err, ErrInvalidHash) {
			t.Errorf("Verify(%q) err = %v, want ErrInvalidHash", bad, err)
		}
	}
}

func TestNewHasher_RejectsWeakParams(t *testing.T) {
	if _, err := NewHasher(HasherParams{Memory: 1, Time: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}); err == nil {
		t.Fatal("NewHasher accepted too-low memory")
	}
	if _, err := NewHasher(HasherParams{Memory: 8, Time: 1, Parallelism: 1, SaltLength: 2, KeyLength: 16}); err == nil {
		t.Fatal("NewHasher accepted too-short salt")
	}
}
