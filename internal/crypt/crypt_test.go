package crypt

import (
	"errors"
	"strings"
	"testing"
)

func TestCipherDisabledPassthrough(t *testing.T) {
	c, err := New(false, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, s := range []string{"", "hello", "<b>中文</b>"} {
		enc, err := c.Encrypt(s)
		if err != nil {
			t.Fatalf("Encrypt(%q): %v", s, err)
		}
		if enc != s {
			t.Errorf("Encrypt(%q) = %q, want passthrough", s, enc)
		}
		dec, err := c.Decrypt(s)
		if err != nil {
			t.Fatalf("Decrypt(%q): %v", s, err)
		}
		if dec != s {
			t.Errorf("Decrypt(%q) = %q, want passthrough", s, dec)
		}
	}
}

func TestCipherRoundTrip(t *testing.T) {
	c, err := New(true, "test-secret")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cases := []string{"", "short", strings.Repeat("long content ", 1000), "多语言 content"}
	for _, plain := range cases {
		enc, err := c.Encrypt(plain)
		if err != nil {
			t.Fatalf("Encrypt: %v", err)
		}
		if plain != "" && enc == plain {
			t.Errorf("ciphertext equals plaintext for %q", plain)
		}
		dec, err := c.Decrypt(enc)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if dec != plain {
			t.Errorf("round trip mismatch: got %q want %q", dec, plain)
		}
	}
}

func TestCipherNonDeterministicNonce(t *testing.T) {
	c, err := New(true, "test-secret")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a, _ := c.Encrypt("same input")
	b, _ := c.Encrypt("same input")
	if a == b {
		t.Error("two encryptions of the same input produced identical ciphertext")
	}
}

func TestCipherRejectsGarbage(t *testing.T) {
	c, err := New(true, "test-secret")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, bad := range []string{"not base64 !!!", "aGVsbG8=", "AAAA"} {
		if _, err := c.Decrypt(bad); !errors.Is(err, ErrCipherText) {
			t.Errorf("Decrypt(%q) err = %v, want ErrCipherText", bad, err)
		}
	}
}

func TestCipherWrongKey(t *testing.T) {
	a, _ := New(true, "secret-a")
	b, _ := New(true, "secret-b")
	enc, err := a.Encrypt("payload")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := b.Decrypt(enc); err == nil {
		t.Error("decrypt with wrong key succeeded")
	}
}

func TestNewRequiresSecret(t *testing.T) {
	if _, err := New(true, ""); err == nil {
		t.Error("New(true, \"\") should fail")
	}
}
