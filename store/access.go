package store

import (
	bolt "go.etcd.io/bbolt"

	lru "github.com/hashicorp/golang-lru/v2"

	"rubin.dev/node/hashes"
	"rubin.dev/node/kvstore"
)

// CachedAccess is single-valued cached access over one bucket: key →
// value. Reads fall through to the KV engine on a cache miss and
// populate the cache on hit; the cache itself is internally
// synchronised (golang-lru/v2's Cache is safe for concurrent use), so
// CachedAccess needs no additional locking of its own.
type CachedAccess[V any] struct {
	db     *kvstore.DB
	bucket []byte
	cache  *lru.Cache[hashes.Hash, V]
	encode func(V) ([]byte, error)
	decode func([]byte) (V, error)
}

// NewCachedAccess builds a CachedAccess over bucket, backed by db, with an
// LRU cache of the given capacity and the caller-supplied codec.
func NewCachedAccess[V any](db *kvstore.DB, bucket []byte, cacheSize int, encode func(V) ([]byte, error), decode func([]byte) (V, error)) (*CachedAccess[V], error) {
	if cacheSize <= 0 {
		cacheSize = 1
	}
	c, err := lru.New[hashes.Hash, V](cacheSize)
	if err != nil {
		return nil, err
	}
	return &CachedAccess[V]{db: db, bucket: bucket, cache: c, encode: encode, decode: decode}, nil
}

// Read returns the value stored at k, or ErrKeyNotFound if absent.
func (a *CachedAccess[V]) Read(k hashes.Hash) (V, error) {
	if v, ok := a.cache.Get(k); ok {
		return v, nil
	}
	var zero V
	var raw []byte
	err := a.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(a.bucket)
		if b == nil {
			return nil
		}
		if v := b.Get(k[:]); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return zero, err
	}
	if raw == nil {
		return zero, ErrKeyNotFound
	}
	v, err := a.decode(raw)
	if err != nil {
		return zero, err
	}
	a.cache.Add(k, v)
	return v, nil
}

// Has reports whether k is present, without materialising the value.
func (a *CachedAccess[V]) Has(k hashes.Hash) (bool, error) {
	if a.cache.Contains(k) {
		return true, nil
	}
	found := false
	err := a.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(a.bucket)
		if b == nil {
			return nil
		}
		found = b.Get(k[:]) != nil
		return nil
	})
	return found, err
}

// Write stores v at k through writer and refreshes the cache.
func (a *CachedAccess[V]) Write(writer Writer, k hashes.Hash, v V) error {
	raw, err := a.encode(v)
	if err != nil {
		return err
	}
	if err := writer.Put(a.bucket, k[:], raw); err != nil {
		return err
	}
	a.cache.Add(k, v)
	return nil
}

// Delete removes k through writer and evicts it from the cache.
func (a *CachedAccess[V]) Delete(writer Writer, k hashes.Hash) error {
	if err := writer.Delete(a.bucket, k[:]); err != nil {
		return err
	}
	a.cache.Remove(k)
	return nil
}
