// Package consensus implements the block-DAG consensus core: header
// validation in isolation and against parents, the DAG data model, and the
// reader contracts the rest of the node's stores satisfy.
package consensus

import "rubin.dev/node/hashes"

// SubnetworkID identifies the subnetwork a transaction belongs to.
type SubnetworkID [20]byte

// SubnetworkCoinbase is the reserved subnetwork for coinbase transactions.
var SubnetworkCoinbase = SubnetworkID{}

// TxOutPoint references a specific output of a prior transaction.
type TxOutPoint struct {
	TransactionID hashes.Hash
	Index         uint32
}

// TxInput spends a prior output.
type TxInput struct {
	PreviousOutpoint TxOutPoint
	SignatureScript  []byte
	Sequence         uint64
}

// TxOutput is a single spendable output.
type TxOutput struct {
	Value           uint64
	ScriptPublicKey []byte
}

// Transaction is the DAG-shaped transaction record. The first transaction
// of every Block is the coinbase: subnetwork SubnetworkCoinbase, no inputs.
type Transaction struct {
	Version      uint16
	Inputs       []TxInput
	Outputs      []TxOutput
	LockTime     uint64
	SubnetworkID SubnetworkID
	Gas          uint64
	Payload      []byte
}

// IsCoinbase reports whether tx is shaped like a coinbase transaction
// (subnetwork SubnetworkCoinbase, zero inputs).
func (tx Transaction) IsCoinbase() bool {
	return tx.SubnetworkID == SubnetworkCoinbase && len(tx.Inputs) == 0
}

// UtxoEntry is a single unspent output as tracked by the UTXO view.
type UtxoEntry struct {
	Amount          uint64
	ScriptPublicKey []byte
	BlockDAAScore   uint64
	IsCoinbase      bool
}

// UnacceptedDAAScore marks a UtxoEntry synthesized from a still-pending
// mempool transaction, as opposed to one accepted into the DAG.
const UnacceptedDAAScore = ^uint64(0)

// Header is the fixed consensus header record. ParentsByLevel[0]
// are the block's direct parents; ParentsByLevel[i] for i>=1 are the
// sparser upper-DAG parents used by pruning proofs.
type Header struct {
	Version              uint16
	ParentsByLevel       [][]hashes.Hash
	HashMerkleRoot       hashes.Hash
	AcceptedIDMerkleRoot hashes.Hash
	UTXOCommitment       hashes.Hash
	Timestamp            uint64 // ms since epoch
	Bits                 uint32
	Nonce                uint64
	DAAScore             uint64
	BlueWork             hashes.BlueWork
	BlueScore            uint64
	PruningPoint         hashes.Hash
}

// DirectParents returns the header's level-0 parents, or nil if it has
// none recorded (which ValidateHeaderInIsolation rejects).
func (h Header) DirectParents() []hashes.Hash {
	if len(h.ParentsByLevel) == 0 {
		return nil
	}
	return h.ParentsByLevel[0]
}

// ParentsAtLevel returns the header's parents at the given level, or nil
// if the header does not record that level.
func (h Header) ParentsAtLevel(level hashes.BlockLevel) []hashes.Hash {
	if int(level) >= len(h.ParentsByLevel) {
		return nil
	}
	return h.ParentsByLevel[level]
}

// Block is a Header plus its ordered transactions; Transactions[0] must be
// the coinbase.
type Block struct {
	Header       Header
	Transactions []Transaction
}
