// Package keyset provides the ordered, immutable public Key Set described in
// spec.md §2 and §9. It models key-by-id selection and the implicit
// default-to-first-key fallback as two distinct operations, rather than
// conflating them the way a single "find key, or use some default" function
// would.
package keyset

import (
	"crypto"
	"sync"
)

// Key is a single entry in the set: a key id paired with the public key
// material used for signature verification.
type Key struct {
	ID        string
	PublicKey crypto.PublicKey
}

// Set is an ordered, in-memory collection of public keys. Implementations
// must be safe for concurrent read access: Static is immutable after
// construction and reads it without locking; Refreshable's contents can be
// replaced, so it guards reads with a RWMutex.
type Set interface {
	// ByID returns the key with the given id, if present.
	ByID(kid string) (Key, bool)

	// Default returns the first key in the set, used when a token's header
	// carries no kid. Returns false if the set is empty.
	Default() (Key, bool)
}

// Static is a fixed, ordered Set built directly from a slice of Keys — the
// common case for tests and for configuration that embeds its own JWKS
// document rather than fetching one remotely.
type Static struct {
	keys []Key
	byID map[string]int
}

// NewStatic builds a Static key set, preserving the input order (the first
// entry is the implicit default).
func NewStatic(keys []Key) *Static {
	byID := make(map[string]int, len(keys))
	for i, k := range keys {
		if k.ID == "" {
			continue
		}
		if _, exists := byID[k.ID]; !exists {
			byID[k.ID] = i
		}
	}
	return &Static{keys: keys, byID: byID}
}

func (s *Static) ByID(kid string) (Key, bool) {
	if s == nil || kid == "" {
		return Key{}, false
	}
	i, ok := s.byID[kid]
	if !ok {
		return Key{}, false
	}
	return s.keys[i], true
}

func (s *Static) Default() (Key, bool) {
	if s == nil || len(s.keys) == 0 {
		return Key{}, false
	}
	return s.keys[0], true
}

// Refreshable wraps a Set whose contents may change over time (the remote
// JWKS path in fetch.go), guarding reads with a RWMutex since the
// background refresh goroutine writes concurrently with request-handling
// reads.
type Refreshable struct {
	mu  sync.RWMutex
	cur *Static
}

// NewRefreshable creates a Refreshable seeded with an empty key set; Update
// must be called (typically by a background refresher) before it serves any
// key.
func NewRefreshable() *Refreshable {
	return &Refreshable{cur: NewStatic(nil)}
}

// Update atomically replaces the current key set.
func (r *Refreshable) Update(keys []Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cur = NewStatic(keys)
}

func (r *Refreshable) ByID(kid string) (Key, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cur.ByID(kid)
}

func (r *Refreshable) Default() (Key, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cur.Default()
}
