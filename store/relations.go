package store

import (
	"encoding/binary"
	"fmt"
	"sync"

	bolt "go.etcd.io/bbolt"

	"rubin.dev/node/hashes"
	"rubin.dev/node/kvstore"
)

// relationsCacheSize is the default LRU capacity for a single level's
// parents/children caches. Sized generously since a header-only entry is
// cheap; every level uses this same capacity.
const relationsCacheSize = 1 << 16

// levelRelationsStore is one level's parents + children stores, guarded by
// its own RWMutex: many concurrent readers, one writer.
type levelRelationsStore struct {
	mu       sync.RWMutex
	parents  *CachedAccess[[]hashes.Hash]
	children *CachedSetAccess
}

// RelationsStore is logically (level, block) → (parents, children),
// sharded per level: level 0 is the real DAG, levels ≥ 1 the sparser
// higher-difficulty DAGs pruning proofs are built from. Each level's
// store is independently lockable.
type RelationsStore struct {
	db *kvstore.DB

	levelsMu sync.Mutex
	levels   []*levelRelationsStore
}

// NewRelationsStore constructs an empty RelationsStore with no levels
// registered yet; a level's buckets are registered lazily the first time
// any method touches that level.
func NewRelationsStore(db *kvstore.DB) *RelationsStore {
	return &RelationsStore{db: db}
}

func parentsBucketName(level hashes.BlockLevel) []byte {
	return append([]byte(kvstore.PrefixRelationsParents), byte(level))
}

func childrenBucketName(level hashes.BlockLevel) []byte {
	return append([]byte(kvstore.PrefixRelationsChildren), byte(level))
}

func encodeHashSlice(hs []hashes.Hash) ([]byte, error) {
	out := make([]byte, 4, 4+len(hs)*32)
	binary.LittleEndian.PutUint32(out, uint32(len(hs)))
	for _, h := range hs {
		out = append(out, h[:]...)
	}
	return out, nil
}

func decodeHashSlice(b []byte) ([]hashes.Hash, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("store: truncated hash slice")
	}
	n := binary.LittleEndian.Uint32(b[0:4])
	want := 4 + int(n)*32
	if len(b) != want {
		return nil, fmt.Errorf("store: hash slice length mismatch")
	}
	out := make([]hashes.Hash, n)
	for i := range out {
		off := 4 + i*32
		copy(out[i][:], b[off:off+32])
	}
	return out, nil
}

// ensureLevel lazily registers level's buckets and returns its store.
func (s *RelationsStore) ensureLevel(level hashes.BlockLevel) (*levelRelationsStore, error) {
	s.levelsMu.Lock()
	defer s.levelsMu.Unlock()
	for len(s.levels) <= int(level) {
		s.levels = append(s.levels, nil)
	}
	if s.levels[level] != nil {
		return s.levels[level], nil
	}
	if err := s.db.EnsureBucket(parentsBucketName(level)); err != nil {
		return nil, err
	}
	if err := s.db.EnsureBucket(childrenBucketName(level)); err != nil {
		return nil, err
	}
	parents, err := NewCachedAccess[[]hashes.Hash](s.db, parentsBucketName(level), relationsCacheSize, encodeHashSlice, decodeHashSlice)
	if err != nil {
		return nil, err
	}
	children, err := NewCachedSetAccess(s.db, childrenBucketName(level), relationsCacheSize)
	if err != nil {
		return nil, err
	}
	l := &levelRelationsStore{parents: parents, children: children}
	s.levels[level] = l
	return l, nil
}

// GetParents returns h's ordered direct parents at level.
func (s *RelationsStore) GetParents(level hashes.BlockLevel, h hashes.Hash) ([]hashes.Hash, error) {
	l, err := s.ensureLevel(level)
	if err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.parents.Read(h)
}

// GetChildren returns a snapshot of h's children at level.
func (s *RelationsStore) GetChildren(level hashes.BlockLevel, h hashes.Hash) (hashes.HashSet, error) {
	l, err := s.ensureLevel(level)
	if err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.children.Read(h)
}

// Has reports whether h has a parents entry at level.
func (s *RelationsStore) Has(level hashes.BlockLevel, h hashes.Hash) (bool, error) {
	l, err := s.ensureLevel(level)
	if err != nil {
		return false, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.parents.Has(h)
}

// Counts returns (num_entries, num_children_edges) at level, a linear scan
// used only for diagnostics/tests, not the hot header path.
func (s *RelationsStore) Counts(level hashes.BlockLevel) (entries int, edges int, err error) {
	l, err := s.ensureLevel(level)
	if err != nil {
		return 0, 0, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	err = s.db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket(parentsBucketName(level)); b != nil {
			entries = b.Stats().KeyN
		}
		if b := tx.Bucket(childrenBucketName(level)); b != nil {
			edges = b.Stats().KeyN
		}
		return nil
	})
	return entries, edges, err
}

// StageBlock writes h's parents at level and registers h as a child of
// each of them, all through the same writer so the edge invariant
// (child ∈ children(p) ⇔ p ∈ parents(c)) is established atomically
// within writer's eventual commit.
func (s *RelationsStore) StageBlock(writer Writer, level hashes.BlockLevel, h hashes.Hash, parents []hashes.Hash) error {
	l, err := s.ensureLevel(level)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.parents.Write(writer, h, parents); err != nil {
		return err
	}
	for _, p := range parents {
		if err := l.children.Write(writer, p, h); err != nil {
			return err
		}
	}
	return nil
}

// InsertChild registers child as a child of parent at level.
func (s *RelationsStore) InsertChild(writer Writer, level hashes.BlockLevel, parent, child hashes.Hash) error {
	l, err := s.ensureLevel(level)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.children.Write(writer, parent, child)
}

// DeleteChild removes child from parent's children at level.
func (s *RelationsStore) DeleteChild(writer Writer, level hashes.BlockLevel, parent, child hashes.Hash) error {
	l, err := s.ensureLevel(level)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.children.Delete(writer, parent, child)
}

// DeleteBlock deletes h's children bucket before its parents entry; the
// bucket must go first so no orphaned members survive a partial delete.
// h is also removed from each of its parents' children sets, so the edge
// invariant holds once writer commits.
func (s *RelationsStore) DeleteBlock(writer Writer, level hashes.BlockLevel, h hashes.Hash) error {
	l, err := s.ensureLevel(level)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.children.DeleteBucket(writer, h); err != nil {
		return err
	}
	parents, err := l.parents.Read(h)
	if err != nil && err != ErrKeyNotFound {
		return err
	}
	for _, p := range parents {
		if err := l.children.Delete(writer, p, h); err != nil {
			return err
		}
	}
	return l.parents.Delete(writer, h)
}
