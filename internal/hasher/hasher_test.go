package hasher_test

import (
	"strings"
	"testing"

	"github.com/ErlanBelekov/classroom/internal/hasher"
	"golang.org/x/crypto/bcrypt"
)

func TestBcrypt_HashAndMatch(t *testing.T) {
	h := hasher.NewBcrypt(bcrypt.MinCost)

	digest, err := h.Hash("Abcdef1!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if digest == "Abcdef1!" || !strings.HasPrefix(digest, "$2a$") {
		t.Fatalf("digest = %q, want a bcrypt digest", digest)
	}
	if !h.Matches("Abcdef1!", digest) {
		t.Error("expected the original secret to match")
	}
	if h.Matches("abcdef1!", digest) {
		t.Error("a different secret must not match")
	}
}

func TestBcrypt_SaltsEachHash(t *testing.T) {
	h := hasher.NewBcrypt(bcrypt.MinCost)
	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Error("two hashes of the same secret should differ")
	}
}

func TestBcrypt_MalformedDigestIsMismatch(t *testing.T) {
	h := hasher.NewBcrypt(bcrypt.MinCost)
	if h.Matches("anything", "not-a-digest") {
		t.Error("malformed digest must not match")
	}
	if h.Matches("", "") {
		t.Error("empty digest must not match")
	}
}

func TestBcrypt_CostFromConfig(t *testing.T) {
	digest, err := hasher.NewBcrypt(bcrypt.MinCost + 1).Hash("x")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(digest))
	if err != nil || cost != bcrypt.MinCost+1 {
		t.Errorf("cost = %d (%v), want %d", cost, err, bcrypt.MinCost+1)
	}
}

func TestBcrypt_RejectsOverlongSecret(t *testing.T) {
	if _, err := hasher.NewBcrypt(bcrypt.MinCost).Hash(strings.Repeat("a", 73)); err == nil {
		t.Error("expected error for secrets over 72 bytes")
	}
}
