package kvstore

import (
	"testing"

	bolt "go.etcd.io/bbolt"
)

func TestOpen_CreatesRegisteredBuckets(t *testing.T) {
	datadir := t.TempDir()
	db, err := Open(datadir, PrefixStatuses, PrefixUtxoMultisets)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if db.Path() == "" {
		t.Fatalf("expected non-empty path")
	}

	err = db.View(func(tx *bolt.Tx) error {
		for _, p := range []Prefix{PrefixStatuses, PrefixUtxoMultisets} {
			if tx.Bucket([]byte(p)) == nil {
				t.Fatalf("bucket %s not created", p)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
}

func TestOpen_RejectsEmptyDataDir(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatalf("expected error for empty datadir")
	}
}

func TestEnsureBucket(t *testing.T) {
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	name := []byte("relations_parents\x01")
	if err := db.EnsureBucket(name); err != nil {
		t.Fatalf("EnsureBucket: %v", err)
	}
	err = db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(name) == nil {
			t.Fatalf("bucket not created")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
}

func TestUpdate_PersistsAcrossReopen(t *testing.T) {
	datadir := t.TempDir()
	db, err := Open(datadir, PrefixStatuses)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(PrefixStatuses)).Put([]byte("k"), []byte("v"))
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db2, err := Open(datadir, PrefixStatuses)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = db2.Close() })
	err = db2.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(PrefixStatuses)).Get([]byte("k"))
		if string(v) != "v" {
			t.Fatalf("got %q, want %q", v, "v")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
}
