// Package crypt provides the password-based codec used to protect sync
// traffic. Messages are sealed with AES-256-GCM under a key derived from the
// shared password with Argon2id. Session ids are layered on top of this by
// the network protocol; crypt itself only guarantees confidentiality and
// integrity of a single message.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	saltSize  = 16
	nonceSize = 12
	keySize   = 32

	// Argon2id cost parameters (19 MiB, two passes, one lane).
	argonTime    = 2
	argonMemory  = 19456
	argonThreads = 1
)

// ErrDecrypt indicates that a ciphertext could not be decrypted. The two
// common causes are an incorrect password and tampered bytes.
var ErrDecrypt = errors.New("decrypting data failed")

// Encrypt seals msg under passwd. The key-derivation salt and the nonce are
// freshly random for every call, so encrypting the same message twice never
// yields the same ciphertext. Output layout: salt ‖ nonce ‖ sealed.
func Encrypt(msg, passwd []byte) ([]byte, error) {
	var salt [saltSize]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return nil, fmt.Errorf("encrypting data failed: %w", err)
	}
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("encrypting data failed: %w", err)
	}

	aead, err := newAEAD(passwd, salt[:])
	if err != nil {
		return nil, fmt.Errorf("encrypting data failed: %w", err)
	}

	out := make([]byte, 0, saltSize+nonceSize+len(msg)+aead.Overhead())
	out = append(out, salt[:]...)
	out = append(out, nonce[:]...)
	return aead.Seal(out, nonce[:], msg, nil), nil
}

// Decrypt opens a ciphertext produced by Encrypt with the same password.
// Returns ErrDecrypt when the input is too short to carry the salt+nonce
// header or when authentication fails.
func Decrypt(ciphertext, passwd []byte) ([]byte, error) {
	if len(ciphertext) < saltSize+nonceSize {
		return nil, ErrDecrypt
	}
	salt := ciphertext[:saltSize]
	nonce := ciphertext[saltSize : saltSize+nonceSize]

	aead, err := newAEAD(passwd, salt)
	if err != nil {
		return nil, ErrDecrypt
	}
	msg, err := aead.Open(nil, nonce, ciphertext[saltSize+nonceSize:], nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return msg, nil
}

func newAEAD(passwd, salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey(passwd, salt, argonTime, argonMemory, argonThreads, keySize)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
