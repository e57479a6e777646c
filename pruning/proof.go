// Package pruning implements the pruning-proof data model and its
// validator: verifying that a received proof is well-formed, covers the
// expected levels, and exceeds the local blue work, so a new node can
// bootstrap without replaying full history.
package pruning

import (
	"rubin.dev/node/consensus"
	"rubin.dev/node/hashes"
)

// Proof is a pruning proof: a sequence indexed by block level, each
// holding the ordered headers proving that level's contribution to the
// pruning point's accumulated blue work.
type Proof struct {
	Headers [][]consensus.Header
	// ClaimedBlueWork is the blue work the proof asserts for its pruning
	// point, compared against the local DAG's blue work (clause 6).
	ClaimedBlueWork hashes.BlueWork
}

// TrustedBlock is a header-only block handed alongside the proof, whose
// presence in the pruning point's past must be independently verifiable
// via local reachability (clause 9).
type TrustedBlock struct {
	Hash hashes.Hash
}

// PruningPointImport bundles the new pruning point's block, the UTXO set
// imported alongside it, and the multiset commitment the import claims
// (clauses 10/11).
type PruningPointImport struct {
	Block                consensus.Block
	ImportedUTXO         map[consensus.TxOutPoint]consensus.UtxoEntry
	ExpectedMultisetHash hashes.Hash
}

// State names the pruning-proof validator's state machine:
// Start → LevelsChecked → HeadersLinked → TipsValidated →
// BlueWorkValidated → TxValidated → MultisetValidated → Accepted.
type State int

const (
	StateStart State = iota
	StateLevelsChecked
	StateHeadersLinked
	StateTipsValidated
	StateBlueWorkValidated
	StateTxValidated
	StateMultisetValidated
	StateAccepted
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "Start"
	case StateLevelsChecked:
		return "LevelsChecked"
	case StateHeadersLinked:
		return "HeadersLinked"
	case StateTipsValidated:
		return "TipsValidated"
	case StateBlueWorkValidated:
		return "BlueWorkValidated"
	case StateTxValidated:
		return "TxValidated"
	case StateMultisetValidated:
		return "MultisetValidated"
	case StateAccepted:
		return "Accepted"
	default:
		return "Unknown"
	}
}
