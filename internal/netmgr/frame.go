// Package netmgr implements the encrypted sync protocol between a client
// replica and a long-running server replica over a TCP connection.
//
// Every message on the wire is one frame: a 4-byte little-endian length
// header followed by that many bytes of ciphertext from the crypt codec.
// Decrypted payloads are either a raw challenge or an 8-byte session id
// followed by a command ("read"), a serialized replica, or a confirmation
// ("ok"). The challenge/session-id round trip is a lightweight mutual
// authentication: only a holder of the shared password can produce a
// decryptable response, and the session id scopes every later message to one
// exchange.
package netmgr

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"mtd-cli/internal/crypt"
)

const (
	sessionIDSize = 8
	challengeSize = 8

	// maxFrameSize bounds a length header before any allocation happens. A
	// replica JSON document is far below this; anything larger is a corrupt
	// or hostile peer.
	maxFrameSize = 16 << 20
)

var (
	// ErrAuth indicates that the peer failed authentication: a challenge or
	// session-id mismatch, or a message that did not decrypt.
	ErrAuth = errors.New("authentication failed")

	// ErrServerWrite indicates that the server did not confirm storing the
	// synced replica.
	ErrServerWrite = errors.New("writing data to server failed")
)

// writeFrame encrypts payload with passwd and writes it as one framed
// message.
func writeFrame(w io.Writer, payload, passwd []byte) error {
	ct, err := crypt.Encrypt(payload, passwd)
	if err != nil {
		return err
	}
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(ct)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err = w.Write(ct)
	return err
}

// readFrame reads one framed message and decrypts it with passwd.
func readFrame(r io.Reader, passwd []byte) ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint32(hdr[:])
	if n > maxFrameSize {
		return nil, fmt.Errorf("frame of %d bytes exceeds limit", n)
	}
	ct := make([]byte, n)
	if _, err := io.ReadFull(r, ct); err != nil {
		return nil, err
	}
	return crypt.Decrypt(ct, passwd)
}
