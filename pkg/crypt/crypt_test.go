package crypt_test

import (
	"errors"
	"testing"

	"github.com/nikhilverma/shopline/pkg/crypt"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	for _, plain := range []string{"", "card_tok_4242", "longer payload with spaces and ünïcode"} {
		enc, err := crypt.Encrypt(plain)
		if err != nil {
			t.Fatalf("Encrypt(%q): %v", plain, err)
		}
		if enc == plain && plain != "" {
			t.Errorf("ciphertext equals plaintext for %q", plain)
		}

		dec, err := crypt.Decrypt(enc)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if dec != plain {
			t.Errorf("round trip: got %q, want %q", dec, plain)
		}
	}
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	a, err := crypt.Encrypt("same input")
	if err != nil {
		t.Fatal(err)
	}
	b, err := crypt.Encrypt("same input")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two encryptions produced identical ciphertext")
	}
}

func TestDecryptRejectsTampering(t *testing.T) {
	enc, err := crypt.Encrypt("payload")
	if err != nil {
		t.Fatal(err)
	}

	// Flip a character in the base64 payload.
	tampered := []byte(enc)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	if _, err := crypt.Decrypt(string(tampered)); !errors.Is(err, crypt.ErrDecrypt) {
		t.Errorf("got %v, want ErrDecrypt", err)
	}

	if _, err := crypt.Decrypt("not-base64!!!"); !errors.Is(err, crypt.ErrDecrypt) {
		t.Errorf("garbage input: got %v, want ErrDecrypt", err)
	}
}

func TestHashIsStable(t *testing.T) {
	if crypt.Hash("a") != crypt.Hash("a") {
		t.Error("hash not deterministic")
	}
	if crypt.Hash("a") == crypt.Hash("b") {
		t.Error("distinct inputs collided")
	}
}
