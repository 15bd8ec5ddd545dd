package tdlist

// syncList is one reconciliation-managed collection of items. The merge
// engine is written once against the syncItem capability interface and is
// instantiated for Todos and Tasks.
//
// Invariant: after every normalize sweep, each live item's id equals its
// 0-based position in the list.
type syncList[T any, P syncItem[T]] struct {
	items  []T
	server bool
}

func newSyncList[T any, P syncItem[T]](server bool) syncList[T, P] {
	return syncList[T, P]{server: server}
}

// add appends an item as brand new. Ids are assigned by the caller or by the
// next normalize sweep.
func (l *syncList[T, P]) add(item T) {
	P(&item).setMarker(StateNew)
	l.items = append(l.items, item)
}

// live returns pointers to the items not marked removed, in order.
func (l *syncList[T, P]) live() []P {
	out := make([]P, 0, len(l.items))
	for i := range l.items {
		if P(&l.items[i]).marker() != StateRemoved {
			out = append(out, P(&l.items[i]))
		}
	}
	return out
}

// get returns a mutable handle by positional id, including tombstoned items.
func (l *syncList[T, P]) get(id uint64) P {
	if id >= uint64(len(l.items)) {
		var none P
		return none
	}
	return P(&l.items[id])
}

// markRemoved tombstones the item with the given positional id. It reports
// false when the id is out of range or the item is already removed. On a
// server-role list the tombstone collapses immediately.
func (l *syncList[T, P]) markRemoved(id uint64) bool {
	if id >= uint64(len(l.items)) {
		return false
	}
	item := P(&l.items[id])
	if item.marker() == StateRemoved {
		return false
	}
	item.setMarker(StateRemoved)
	if l.server {
		l.dropRemoved()
		l.renumber()
	}
	return true
}

func (l *syncList[T, P]) bySyncID(syncID uint64) P {
	for i := range l.items {
		if P(&l.items[i]).SyncID() == syncID {
			return P(&l.items[i])
		}
	}
	var none P
	return none
}

func (l *syncList[T, P]) dropRemoved() {
	kept := make([]T, 0, len(l.items))
	for i := range l.items {
		if P(&l.items[i]).marker() != StateRemoved {
			kept = append(kept, l.items[i])
		}
	}
	l.items = kept
}

func (l *syncList[T, P]) renumber() {
	for i := range l.items {
		P(&l.items[i]).setID(uint64(i))
	}
}

// syncSelf is the normalize sweep: drop tombstones, renumber ids to match
// positions, and reset every surviving item's marker to unchanged. It is also
// the degenerate self-merge used to commit tombstones without a peer.
func (l *syncList[T, P]) syncSelf() {
	l.dropRemoved()
	l.renumber()
	for i := range l.items {
		P(&l.items[i]).setMarker(StateUnchanged)
	}
}

// sync merges l with other. Exactly one of the two lists must have the server
// role; violating that is a programming error, not a data condition.
//
// The merge always runs from the client's perspective, whichever argument the
// client happens to be. When both sides changed the same logical item since
// the last sync, whichever side reports "changed" wins; if both do, the side
// designated client here wins. Callers must invoke the merge once per pair,
// never once in each direction.
func (l *syncList[T, P]) sync(other *syncList[T, P]) {
	if l.server && other.server {
		panic("tdlist: sync between two server lists")
	}
	if !l.server && !other.server {
		panic("tdlist: sync between two client lists")
	}

	server, client := l, other
	if other.server {
		server, client = other, l
	}

	for i := range client.items {
		item := P(&client.items[i])
		switch item.marker() {
		case StateNew:
			server.add(item.clone())
		case StateRemoved:
			if s := server.bySyncID(item.SyncID()); s != nil {
				s.setMarker(StateRemoved)
			}
			// Already gone from the server: nothing to do.
		case StateUnchanged:
			if s := server.bySyncID(item.SyncID()); s != nil {
				if !s.valueEqual(&client.items[i]) {
					// Modified on the server while untouched here:
					// the server's copy wins.
					item.copyValuesFrom((*T)(s))
				}
			} else {
				// Deleted on the server since the last sync.
				item.setMarker(StateRemoved)
			}
		case StateChanged:
			if s := server.bySyncID(item.SyncID()); s != nil {
				// The client's edit wins over the stale server copy.
				s.copyValuesFrom(&client.items[i])
			} else {
				// Edited here but gone from the server: recreate it.
				server.add(item.clone())
			}
		}
	}

	// Anything live on the server without a client counterpart is a
	// server-originated item the client has never seen.
	for i := range server.items {
		item := P(&server.items[i])
		if item.marker() == StateRemoved {
			continue
		}
		if client.bySyncID(item.SyncID()) == nil {
			client.add(item.clone())
		}
	}

	client.syncSelf()
	server.syncSelf()
}
