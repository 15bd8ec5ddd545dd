package tdlist

import (
	"crypto/rand"
	"encoding/binary"
)

// ItemState is the per-item change marker tracking what happened to an item
// locally since the last sync.
type ItemState string

const (
	// StateNew marks an item created locally and never seen by the peer.
	StateNew ItemState = "new"
	// StateChanged marks an item mutated locally since the last sync.
	StateChanged ItemState = "changed"
	// StateUnchanged marks an item untouched since the last sync.
	StateUnchanged ItemState = "unchanged"
	// StateRemoved marks an item for deletion. Server-role lists drop removed
	// items immediately; client-role lists keep them as tombstones until the
	// next successful sync.
	StateRemoved ItemState = "removed"
)

// syncItem is the capability surface the merge engine needs from an item.
// Positional ids are not identities — SyncID is the only value that correlates
// the same logical item across two replicas.
type syncItem[T any] interface {
	*T
	ID() uint64
	setID(uint64)
	SyncID() uint64
	marker() ItemState
	setMarker(ItemState)
	// valueEqual compares the mutable fields only (never id/syncID/marker).
	valueEqual(*T) bool
	// copyValuesFrom overwrites the mutable fields from src, leaving
	// identity fields untouched.
	copyValuesFrom(src *T)
	// clone returns a deep copy, safe to insert into another list.
	clone() T
}

// newSyncID returns a fresh random 64-bit item identity. Generated once per
// item and persisted; never recomputed, never reused.
func newSyncID() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		panic(err)
	}
	return binary.LittleEndian.Uint64(b[:])
}
