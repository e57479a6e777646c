// Package kvstore is a thin bbolt wrapper: one on-disk database file,
// one top-level bucket per registered prefix, opened once and shared by
// every consensus-core store.
package kvstore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Prefix names a top-level bucket. Level-sharded stores (relations,
// children) concatenate a one-byte level tag onto the prefix's bucket name
// themselves; kvstore only owns bucket creation and transactions.
type Prefix string

const (
	PrefixRelationsParents  Prefix = "relations_parents"
	PrefixRelationsChildren Prefix = "relations_children"
	PrefixStatuses          Prefix = "statuses"
	PrefixUtxoMultisets     Prefix = "utxo_multisets"
	PrefixReachabilityTree  Prefix = "reachability_tree"
)

// DB is the consensus core's single bbolt handle. Every store borrows it
// rather than opening its own file.
type DB struct {
	path string
	bdb  *bolt.DB
}

// Open opens (creating if necessary) the bbolt file at datadir/consensus.db
// and ensures a bucket exists for every registered prefix.
func Open(datadir string, prefixes ...Prefix) (*DB, error) {
	if datadir == "" {
		return nil, fmt.Errorf("kvstore: datadir required")
	}
	if err := os.MkdirAll(datadir, 0o750); err != nil {
		return nil, fmt.Errorf("kvstore: mkdir %s: %w", datadir, err)
	}
	path := filepath.Join(datadir, "consensus.db")
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("kvstore: open bbolt: %w", err)
	}
	d := &DB{path: path, bdb: bdb}
	if err := d.bdb.Update(func(tx *bolt.Tx) error {
		for _, p := range prefixes {
			if _, err := tx.CreateBucketIfNotExists([]byte(p)); err != nil {
				return fmt.Errorf("kvstore: create bucket %s: %w", p, err)
			}
		}
		return nil
	}); err != nil {
		_ = bdb.Close()
		return nil, err
	}
	return d, nil
}

// EnsureBucket creates name (a derived, level-tagged bucket name) if it
// does not already exist. Level-sharded stores call this lazily the first
// time a given level is touched.
func (d *DB) EnsureBucket(name []byte) error {
	return d.bdb.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(name)
		return err
	})
}

func (d *DB) Close() error {
	if d == nil || d.bdb == nil {
		return nil
	}
	return d.bdb.Close()
}

func (d *DB) Path() string { return d.path }

// View runs fn inside a read-only bbolt transaction.
func (d *DB) View(fn func(tx *bolt.Tx) error) error {
	return d.bdb.View(fn)
}

// Update runs fn inside a read-write bbolt transaction, used both for
// single-key direct writes and for flushing an accumulated batch.
func (d *DB) Update(fn func(tx *bolt.Tx) error) error {
	return d.bdb.Update(fn)
}
