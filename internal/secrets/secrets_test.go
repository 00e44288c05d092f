package secrets

import (
	"errors"
	"testing"
)

func TestCodec(t *testing.T) {
	t.Run("round-trips a secret", func(t *testing.T) {
		key, err := GenerateKey()
		if err != nil {
			t.Fatalf("GenerateKey() returned unexpected error: %v", err)
		}

		codec, err := NewCodec(key)
		if err != nil {
			t.Fatalf("NewCodec() returned unexpected error: %v", err)
		}

		token, err := codec.Encrypt("super-secret-api-key")
		if err != nil {
			t.Fatalf("Encrypt() returned unexpected error: %v", err)
		}
		if token == "super-secret-api-key" {
			t.Error("Expected ciphertext to differ from plaintext")
		}

		plaintext, err := codec.Decrypt(token)
		if err != nil {
			t.Fatalf("Decrypt() returned unexpected error: %v", err)
		}
		if plaintext != "super-secret-api-key" {
			t.Errorf("Expected round-trip to return the original secret, got %q", plaintext)
		}
	})

	t.Run("rejects tokens from another key", func(t *testing.T) {
		keyA, _ := GenerateKey()
		keyB, _ := GenerateKey()
		codecA, _ := NewCodec(keyA)
		codecB, _ := NewCodec(keyB)

		token, err := codecA.Encrypt("secret")
		if err != nil {
			t.Fatalf("Encrypt() returned unexpected error: %v", err)
		}

		if _, err := codecB.Decrypt(token); err == nil {
			t.Error("Expected decryption with a different key to fail")
		}
	})

	t.Run("empty key defers the error until use", func(t *testing.T) {
		codec, err := NewCodec("")
		if err != nil {
			t.Fatalf("NewCodec(\"\") returned unexpected error: %v", err)
		}

		if _, err := codec.Encrypt("secret"); !errors.Is(err, ErrNoKey) {
			t.Errorf("Expected ErrNoKey from Encrypt, got %v", err)
		}
		if _, err := codec.Decrypt("token"); !errors.Is(err, ErrNoKey) {
			t.Errorf("Expected ErrNoKey from Decrypt, got %v", err)
		}
	})

	t.Run("rejects a malformed key", func(t *testing.T) {
		if _, err := NewCodec("not-a-key"); err == nil {
			t.Error("Expected error for malformed key")
		}
	})
}
