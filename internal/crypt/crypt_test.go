package crypt

import (
	"bytes"
	"errors"
	"testing"
)

func TestDecryptingEncryptedReturnsOriginal(t *testing.T) {
	msg := []byte("A message to keep secure.")
	passwd := []byte("Very secure passwd")

	ct, err := Encrypt(msg, passwd)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	got, err := Decrypt(ct, passwd)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(got, msg) {
		t.Fatalf("got %q, want %q", got, msg)
	}
}

func TestEncryptingSameMessageYieldsDifferentCiphertexts(t *testing.T) {
	msg := []byte("A message to keep secure.")
	passwd := []byte("Very secure passwd")

	a, err := Encrypt(msg, passwd)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	b, err := Encrypt(msg, passwd)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatalf("two encryptions produced identical ciphertexts")
	}
}

func TestDecryptingWithWrongPasswordFails(t *testing.T) {
	ct, err := Encrypt([]byte("A message to keep secure."), []byte("Very secure passwd"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := Decrypt(ct, []byte("Incorrect passwd")); !errors.Is(err, ErrDecrypt) {
		t.Fatalf("got %v, want ErrDecrypt", err)
	}
}

func TestDecryptingTamperedCiphertextFails(t *testing.T) {
	passwd := []byte("Very secure passwd")
	ct, err := Encrypt([]byte("A message to keep secure."), passwd)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	tampered := append(append([]byte(nil), ct...), 14, 36, 122)
	if _, err := Decrypt(tampered, passwd); !errors.Is(err, ErrDecrypt) {
		t.Fatalf("appended bytes: got %v, want ErrDecrypt", err)
	}

	if _, err := Decrypt(ct[:10], passwd); !errors.Is(err, ErrDecrypt) {
		t.Fatalf("truncated header: got %v, want ErrDecrypt", err)
	}
}
