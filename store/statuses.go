package store

import (
	"rubin.dev/node/consensus"
	"rubin.dev/node/hashes"
	"rubin.dev/node/kvstore"
)

const statusesCacheSize = 1 << 16

// StatusesStore maps block hash → BlockStatus. It satisfies
// consensus.StatusesReader directly, so HeaderProcessor can consult it
// without an adaptor.
type StatusesStore struct {
	access *CachedAccess[consensus.BlockStatus]
}

// NewStatusesStore builds a StatusesStore backed by db.
func NewStatusesStore(db *kvstore.DB) (*StatusesStore, error) {
	access, err := NewCachedAccess[consensus.BlockStatus](
		db, []byte(kvstore.PrefixStatuses), statusesCacheSize,
		func(s consensus.BlockStatus) ([]byte, error) { return []byte{byte(s)}, nil },
		func(b []byte) (consensus.BlockStatus, error) {
			if len(b) != 1 {
				return 0, ErrKeyNotFound
			}
			return consensus.BlockStatus(b[0]), nil
		},
	)
	if err != nil {
		return nil, err
	}
	return &StatusesStore{access: access}, nil
}

// Get satisfies consensus.StatusesReader: (status, found, err).
func (s *StatusesStore) Get(hash hashes.Hash) (consensus.BlockStatus, bool, error) {
	status, err := s.access.Read(hash)
	if err == ErrKeyNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return status, true, nil
}

// Has reports whether hash has a recorded status.
func (s *StatusesStore) Has(hash hashes.Hash) (bool, error) {
	return s.access.Has(hash)
}

// Write records hash's status through writer.
func (s *StatusesStore) Write(writer Writer, hash hashes.Hash, status consensus.BlockStatus) error {
	return s.access.Write(writer, hash, status)
}

var _ consensus.StatusesReader = (*StatusesStore)(nil)
