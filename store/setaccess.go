package store

import (
	"bytes"

	bolt "go.etcd.io/bbolt"

	lru "github.com/hashicorp/golang-lru/v2"

	"rubin.dev/node/hashes"
	"rubin.dev/node/kvstore"
)

// CachedSetAccess is set-valued cached access over one bucket: key → set
// of hashes, implemented as a single flat bucket keyed by key||member
// (the bucket-per-parent shape the children store needs, realised as a
// key prefix rather than a literal nested bbolt bucket so every member
// write goes through the same flat Writer interface as CachedAccess).
// Read returns a defensive copy of the set, a consistent snapshot that
// does not leak a lock across the API boundary.
type CachedSetAccess struct {
	db     *kvstore.DB
	bucket []byte
	cache  *lru.Cache[hashes.Hash, hashes.HashSet]
}

// NewCachedSetAccess builds a CachedSetAccess over bucket.
func NewCachedSetAccess(db *kvstore.DB, bucket []byte, cacheSize int) (*CachedSetAccess, error) {
	if cacheSize <= 0 {
		cacheSize = 1
	}
	c, err := lru.New[hashes.Hash, hashes.HashSet](cacheSize)
	if err != nil {
		return nil, err
	}
	return &CachedSetAccess{db: db, bucket: bucket, cache: c}, nil
}

// Read returns a snapshot of the set stored at k (empty, not an error, if
// k has no bucket yet).
func (a *CachedSetAccess) Read(k hashes.Hash) (hashes.HashSet, error) {
	if v, ok := a.cache.Get(k); ok {
		return v.Clone(), nil
	}
	set := hashes.HashSet{}
	prefix := k[:]
	err := a.db.View(func(tx *bolt.Tx) error {
		top := tx.Bucket(a.bucket)
		if top == nil {
			return nil
		}
		c := top.Cursor()
		for key, _ := c.Seek(prefix); key != nil && bytes.HasPrefix(key, prefix); key, _ = c.Next() {
			if len(key) != 64 {
				continue
			}
			h, ok := hashes.HashFromBytes(key[32:])
			if !ok {
				continue
			}
			set.Add(h)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	a.cache.Add(k, set)
	return set.Clone(), nil
}

// Write idempotently adds v to the set stored at k.
func (a *CachedSetAccess) Write(writer Writer, k, v hashes.Hash) error {
	key := setMemberKey(k, v)
	if err := writer.Put(a.bucket, key, []byte{}); err != nil {
		return err
	}
	a.updateCache(k, func(set hashes.HashSet) { set.Add(v) })
	return nil
}

// Delete removes v from the set stored at k, if present.
func (a *CachedSetAccess) Delete(writer Writer, k, v hashes.Hash) error {
	key := setMemberKey(k, v)
	if err := writer.Delete(a.bucket, key); err != nil {
		return err
	}
	a.updateCache(k, func(set hashes.HashSet) { set.Remove(v) })
	return nil
}

// DeleteBucket removes every member of the set at k in one call. Pruning
// a block deletes its bucket before removing the entry itself.
func (a *CachedSetAccess) DeleteBucket(writer Writer, k hashes.Hash) error {
	members, err := a.Read(k)
	if err != nil {
		return err
	}
	for member := range members {
		if err := writer.Delete(a.bucket, setMemberKey(k, member)); err != nil {
			return err
		}
	}
	a.cache.Remove(k)
	return nil
}

func (a *CachedSetAccess) updateCache(k hashes.Hash, mutate func(hashes.HashSet)) {
	set, ok := a.cache.Get(k)
	if !ok {
		return
	}
	mutate(set)
	a.cache.Add(k, set)
}

// setMemberKey composes the key||member encoding a set-valued store uses
// under the hood.
func setMemberKey(k, member hashes.Hash) []byte {
	out := make([]byte, 0, 64)
	out = append(out, k[:]...)
	out = append(out, member[:]...)
	return out
}
