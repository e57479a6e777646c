package mempool

import (
	"testing"

	"rubin.dev/node/consensus"
	"rubin.dev/node/hashes"
)

func newHash(b byte) hashes.Hash {
	var h hashes.Hash
	h[0] = b
	return h
}

func txWithOutputs(values ...uint64) consensus.Transaction {
	tx := consensus.Transaction{Version: 1}
	for _, v := range values {
		tx.Outputs = append(tx.Outputs, consensus.TxOutput{Value: v, ScriptPublicKey: []byte("script")})
	}
	return tx
}

func TestPopulateMempoolEntries_ResolvesFromPool(t *testing.T) {
	pool := NewPool()
	parent := txWithOutputs(10, 20)
	parentID := pool.Insert(parent)

	child := consensus.Transaction{
		Inputs: []consensus.TxInput{
			{PreviousOutpoint: consensus.TxOutPoint{TransactionID: parentID, Index: 1}},
		},
	}
	mtx := NewMutableTransaction(child)
	PopulateMempoolEntries(pool, mtx)

	if len(mtx.Entries) != 1 || mtx.Entries[0] == nil {
		t.Fatalf("expected one populated entry, got %v", mtx.Entries)
	}
	if mtx.Entries[0].Amount != 20 {
		t.Fatalf("expected amount 20, got %d", mtx.Entries[0].Amount)
	}
	if mtx.Entries[0].BlockDAAScore != consensus.UnacceptedDAAScore {
		t.Fatalf("expected UnacceptedDAAScore, got %d", mtx.Entries[0].BlockDAAScore)
	}
}

func TestPopulateMempoolEntries_UnknownParentLeavesEntryNil(t *testing.T) {
	pool := NewPool()
	child := consensus.Transaction{
		Inputs: []consensus.TxInput{
			{PreviousOutpoint: consensus.TxOutPoint{TransactionID: newHash(99), Index: 0}},
		},
	}
	mtx := NewMutableTransaction(child)
	PopulateMempoolEntries(pool, mtx)

	if len(mtx.Entries) != 1 || mtx.Entries[0] != nil {
		t.Fatalf("expected a single nil entry for an unresolved input, got %v", mtx.Entries)
	}
}

func TestPopulateMempoolEntries_OutOfBoundsIndexLeavesEntryNil(t *testing.T) {
	pool := NewPool()
	parentID := pool.Insert(txWithOutputs(5))

	child := consensus.Transaction{
		Inputs: []consensus.TxInput{
			{PreviousOutpoint: consensus.TxOutPoint{TransactionID: parentID, Index: 3}},
		},
	}
	mtx := NewMutableTransaction(child)
	PopulateMempoolEntries(pool, mtx)

	if mtx.Entries[0] != nil {
		t.Fatalf("expected nil entry for out-of-bounds output index, got %v", mtx.Entries[0])
	}
}
