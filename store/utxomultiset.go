package store

import (
	"rubin.dev/node/hashes"
	"rubin.dev/node/kvstore"
)

const utxoMultisetCacheSize = 1 << 14

// UtxoMultisetStore maps block hash → finalised MuHash commitment
// (hashes.Uint3072). Insert rejects a hash that is already present.
type UtxoMultisetStore struct {
	access *CachedAccess[hashes.Uint3072]
}

// NewUtxoMultisetStore builds a UtxoMultisetStore backed by db.
func NewUtxoMultisetStore(db *kvstore.DB) (*UtxoMultisetStore, error) {
	access, err := NewCachedAccess[hashes.Uint3072](
		db, []byte(kvstore.PrefixUtxoMultisets), utxoMultisetCacheSize,
		func(u hashes.Uint3072) ([]byte, error) { return append([]byte(nil), u[:]...), nil },
		func(b []byte) (hashes.Uint3072, error) {
			var u hashes.Uint3072
			if len(b) != len(u) {
				return u, ErrKeyNotFound
			}
			copy(u[:], b)
			return u, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return &UtxoMultisetStore{access: access}, nil
}

// Get returns the multiset finalised at hash.
func (s *UtxoMultisetStore) Get(hash hashes.Hash) (hashes.Uint3072, error) {
	return s.access.Read(hash)
}

// Insert stores m at hash, failing with ErrHashAlreadyExists if a value
// is already stored there.
func (s *UtxoMultisetStore) Insert(writer Writer, hash hashes.Hash, m hashes.Uint3072) error {
	if ok, err := s.access.Has(hash); err != nil {
		return err
	} else if ok {
		return ErrHashAlreadyExists
	}
	return s.access.Write(writer, hash, m)
}

// Delete removes the multiset stored at hash.
func (s *UtxoMultisetStore) Delete(writer Writer, hash hashes.Hash) error {
	return s.access.Delete(writer, hash)
}

// InsertBatch inserts every (hash, multiset) pair in entries through a
// single BatchWriter, failing fast (before any Flush) on the first
// already-present hash.
func (s *UtxoMultisetStore) InsertBatch(writer *BatchWriter, entries map[hashes.Hash]hashes.Uint3072) error {
	for hash, m := range entries {
		if err := s.Insert(writer, hash, m); err != nil {
			return err
		}
	}
	return nil
}

// DeleteBatch deletes every hash in hashes through a single BatchWriter.
func (s *UtxoMultisetStore) DeleteBatch(writer *BatchWriter, hashesToDelete []hashes.Hash) error {
	for _, h := range hashesToDelete {
		if err := s.Delete(writer, h); err != nil {
			return err
		}
	}
	return nil
}
