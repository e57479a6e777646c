// Package mempool bridges the in-memory transaction pool to the
// consensus validator: it populates tentative transactions with UTXO
// entries synthesised from pool-resident parents, then delegates
// validation to the consensus API, translating errors and preserving
// input order and length.
package mempool

import (
	"rubin.dev/node/consensus"
	"rubin.dev/node/hashes"
)

// MutableTransaction pairs a transaction with the per-input UTXO entries
// the mempool has managed to resolve so far (nil entries are left for the
// consensus pass to fill from the UTXO store or reject).
type MutableTransaction struct {
	Tx      consensus.Transaction
	Entries []*consensus.UtxoEntry
}

// NewMutableTransaction wraps tx with an empty entries slice sized to its
// inputs.
func NewMutableTransaction(tx consensus.Transaction) *MutableTransaction {
	return &MutableTransaction{Tx: tx, Entries: make([]*consensus.UtxoEntry, len(tx.Inputs))}
}

// PoolReader is the narrow read contract PopulateMempoolEntries needs from
// the in-memory transaction pool.
type PoolReader interface {
	// Get returns the pool-resident transaction with the given id, if any.
	Get(id hashes.Hash) (consensus.Transaction, bool)
}

// PopulateMempoolEntries synthesises, for each input whose previous
// outpoint names a transaction present in pool, a UtxoEntry from that
// parent's referenced output. Entries for inputs that don't resolve from
// the pool are left untouched (nil).
func PopulateMempoolEntries(pool PoolReader, tx *MutableTransaction) {
	for i, in := range tx.Tx.Inputs {
		parent, ok := pool.Get(in.PreviousOutpoint.TransactionID)
		if !ok {
			continue
		}
		idx := int(in.PreviousOutpoint.Index)
		if idx < 0 || idx >= len(parent.Outputs) {
			continue
		}
		out := parent.Outputs[idx]
		tx.Entries[i] = &consensus.UtxoEntry{
			Amount:          out.Value,
			ScriptPublicKey: out.ScriptPublicKey,
			BlockDAAScore:   consensus.UnacceptedDAAScore,
			IsCoinbase:      false,
		}
	}
}
