package password

import (
	"strings"
	"testing"
)

func newTestHasher(t *testing.T) *PBKDF2 {
	t.Helper()

	h, err := NewPBKDF2(Config{
		Iterations: 100_000,
		KeyLength:  32,
		Salt:       []byte("test-service-secret"),
	})
	if err != nil {
		t.Fatalf("NewPBKDF2 failed: %v", err)
	}
	return h
}

func TestHashDeterministic(t *testing.T) {
	h := newTestHasher(t)

	a := h.Hash("password123$")
	b := h.Hash("password123$")
	if a != b {
		t.Fatalf("expected identical digests for identical input, got %q and %q", a, b)
	}
	if a == "" {
		t.Fatal("expected non-empty digest")
	}
}

func TestHashDependsOnSalt(t *testing.T) {
	h1 := newTestHasher(t)

	h2, err := NewPBKDF2(Config{
		Iterations: 100_000,
		KeyLength:  32,
		Salt:       []byte("another-service-secret"),
	})
	if err != nil {
		t.Fatalf("NewPBKDF2 failed: %v", err)
	}

	if h1.Hash("password123$") == h2.Hash("password123$") {
		t.Fatal("expected different salts to produce different digests")
	}
}

func TestVerify(t *testing.T) {
	h := newTestHasher(t)

	digest := h.Hash("correct-horse")

	if !h.Verify("correct-horse", digest) {
		t.Fatal("expected Verify to succeed for matching secret")
	}
	if h.Verify("correct-horsf", digest) {
		t.Fatal("expected Verify to fail for non-matching secret")
	}
	if h.Verify("", digest) {
		t.Fatal("expected Verify to fail for empty secret")
	}
	if h.Verify("correct-horse", "") {
		t.Fatal("expected Verify to fail for empty digest")
	}
}

func TestVerifyNeverComparesPlaintext(t *testing.T) {
	h := newTestHasher(t)

	// The digest of a secret must never equal the secret itself, so a
	// plaintext stored by mistake can never verify.
	secret := "plaintext-stored-by-mistake"
	if h.Verify(secret, secret) {
		t.Fatal("expected Verify against a plaintext value to fail")
	}
}

func TestDigestLengthMatchesKeyLength(t *testing.T) {
	h := newTestHasher(t)

	digest := h.Hash("secret-value-1")
	// 32 raw bytes -> 44 chars of padded base64.
	if len(digest) != 44 || !strings.HasSuffix(digest, "=") {
		t.Fatalf("unexpected digest encoding %q (len %d)", digest, len(digest))
	}
}

func TestConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"low iterations", Config{Iterations: 1000, KeyLength: 32, Salt: []byte("k")}},
		{"short key", Config{Iterations: 100_000, KeyLength: 8, Salt: []byte("k")}},
		{"empty salt", Config{Iterations: 100_000, KeyLength: 32}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewPBKDF2(tc.cfg); err == nil {
				t.Fatalf("expected config %+v to be rejected", tc.cfg)
			}
		})
	}
}

func TestSaltCopiedOnConstruction(t *testing.T) {
	salt := []byte("mutable-secret")
	h, err := NewPBKDF2(Config{Iterations: 100_000, KeyLength: 32, Salt: salt})
	if err != nil {
		t.Fatalf("NewPBKDF2 failed: %v", err)
	}

	before := h.Hash("pw")
	salt[0] = 'X'
	after := h.Hash("pw")

	if before != after {
		t.Fatal("expected hasher to be immune to caller mutating the salt slice")
	}
}
