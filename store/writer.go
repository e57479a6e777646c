package store

import (
	"fmt"

	bolt "go.etcd.io/bbolt"

	"rubin.dev/node/kvstore"
)

// Writer abstracts a write's destination. A DirectWriter commits each
// Put/Delete in its own bbolt transaction; a BatchWriter accumulates
// operations and commits them all atomically when the caller flushes it,
// so every store touched for one block updates as a unit.
type Writer interface {
	Put(bucket, key, value []byte) error
	Delete(bucket, key []byte) error
}

// DirectWriter writes straight through to the KV engine, fsync-bounded by
// bbolt's own Update commit.
type DirectWriter struct {
	db *kvstore.DB
}

// NewDirectWriter wraps db for single, independently-committed writes.
func NewDirectWriter(db *kvstore.DB) *DirectWriter {
	return &DirectWriter{db: db}
}

func (w *DirectWriter) Put(bucket, key, value []byte) error {
	return w.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return fmt.Errorf("store: bucket %q not registered", bucket)
		}
		return b.Put(key, value)
	})
}

func (w *DirectWriter) Delete(bucket, key []byte) error {
	return w.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return fmt.Errorf("store: bucket %q not registered", bucket)
		}
		return b.Delete(key)
	})
}

type batchOp struct {
	bucket   []byte
	key      []byte
	value    []byte
	isDelete bool
}

// BatchWriter accumulates puts/deletes across one or more stores and
// commits them all in a single bbolt transaction on Flush, giving readers
// an all-or-nothing view of a block's stores update.
type BatchWriter struct {
	ops []batchOp
}

// NewBatchWriter returns an empty batch.
func NewBatchWriter() *BatchWriter {
	return &BatchWriter{}
}

func (w *BatchWriter) Put(bucket, key, value []byte) error {
	w.ops = append(w.ops, batchOp{
		bucket: append([]byte(nil), bucket...),
		key:    append([]byte(nil), key...),
		value:  append([]byte(nil), value...),
	})
	return nil
}

func (w *BatchWriter) Delete(bucket, key []byte) error {
	w.ops = append(w.ops, batchOp{
		bucket:   append([]byte(nil), bucket...),
		key:      append([]byte(nil), key...),
		isDelete: true,
	})
	return nil
}

// Flush commits every accumulated operation in one bbolt transaction. The
// batch is empty afterwards; Flush on an empty batch is a no-op.
func (w *BatchWriter) Flush(db *kvstore.DB) error {
	if len(w.ops) == 0 {
		return nil
	}
	err := db.Update(func(tx *bolt.Tx) error {
		for _, op := range w.ops {
			b := tx.Bucket(op.bucket)
			if b == nil {
				return fmt.Errorf("store: bucket %q not registered", op.bucket)
			}
			if op.isDelete {
				if err := b.Delete(op.key); err != nil {
					return err
				}
				continue
			}
			if err := b.Put(op.key, op.value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	w.ops = w.ops[:0]
	return nil
}
