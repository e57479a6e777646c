// Package store implements the cached, bbolt-backed stores the consensus
// core shares across goroutines: single- and set-valued cached access,
// level-sharded relations/children, statuses, and the UTXO-multiset
// store, all behind a shared Writer abstraction and an LRU read cache.
package store

import "errors"

// Store error sentinels. Callers compare with errors.Is; store
// implementations never wrap these behind a different message so
// errors.Is keeps working across the kvstore %w-wrapping boundary.
var (
	// ErrKeyNotFound is returned by reads that miss both cache and KV.
	ErrKeyNotFound = errors.New("store: key not found")
	// ErrHashAlreadyExists is returned by inserts where absence was
	// expected (e.g. UtxoMultisetStore.Insert on a hash already stored).
	ErrHashAlreadyExists = errors.New("store: hash already exists")
)
