package mempool

// ConsensusAPI is the narrow surface of the consensus layer the mempool
// adaptor delegates to. A real Daemon-backed implementation runs full
// UTXO-aware validation; tests substitute a stub.
type ConsensusAPI interface {
	ValidateMempoolTransaction(tx *MutableTransaction) error
	PopulateMempoolTransaction(tx *MutableTransaction) error
}

// ValidateMempoolTransaction delegates a single transaction to consensus,
// mapping its error into the mempool's RuleError surface.
func ValidateMempoolTransaction(consensus ConsensusAPI, tx *MutableTransaction) error {
	if err := consensus.ValidateMempoolTransaction(tx); err != nil {
		return FromConsensusError(err)
	}
	return nil
}
