package pruning

import (
	"encoding/binary"

	"rubin.dev/node/consensus"
	"rubin.dev/node/dagcfg"
	"rubin.dev/node/hashes"
	"rubin.dev/node/muhash"
)

// ReachabilityReader is the narrow reachability surface clauses 5 and 9
// need: DAG-ancestor queries over already-registered blocks.
type ReachabilityReader interface {
	IsDAGAncestorOf(a, b hashes.Hash) (bool, error)
}

// Validator runs the pruning-proof state machine. A proof is accepted
// iff every clause below holds:
//
//  1. the proof covers exactly the expected number of levels
//  2. every header links to a level-local parent seen earlier, or is the
//     level's genesis
//  3. every header's PoW-derived block level is at least its declared level
//  4. the block at depth m below each level's selected tip reappears in
//     the level below
//  5. the highest level's selected tip is, or directly parents, the
//     pruning point
//  6. the proof's claimed blue work strictly exceeds the local blue work
//  7. the proof carries enough headers to reconstruct the local overlap
//  8. no block appears twice at the same level
//  9. every trusted block is in the pruning point's past
//  10. the pruning point's transactions validate against the imported UTXO set
//  11. the imported UTXO set recommits to the expected multiset hash
//  12. a requested shutdown aborts cooperatively at level boundaries
//
// The Validator is deliberately parameterized over the consensus
// parameters and local state it compares the proof against, rather than
// owning a Daemon, so it can be exercised in isolation.
type Validator struct {
	Params *dagcfg.Params

	// Reachability answers DAG-ancestor queries against the locally known
	// DAG (clauses 5, 9).
	Reachability ReachabilityReader

	// PruningPointHash is the local node's candidate new pruning point,
	// the block the proof must justify (clauses 5, 9).
	PruningPointHash hashes.Hash

	// LocalBlueWork is the blue work accumulated by the local DAG's
	// selected tip, which the proof's claimed blue work must exceed
	// (clause 6).
	LocalBlueWork hashes.BlueWork

	// KnownHeaders reports whether a header hash is already known to the
	// local node (clause 7).
	KnownHeaders func(hashes.Hash) bool

	// ValidateTx runs full consensus validation of a single pruning-point
	// transaction against ImportedUTXO (clause 10).
	ValidateTx func(tx consensus.Transaction, utxo map[consensus.TxOutPoint]consensus.UtxoEntry) error

	// AbortCh, if non-nil, is polled at each level boundary; a ready
	// receive aborts validation with ErrValidationInterrupted (clause 12).
	AbortCh <-chan struct{}
}

// Validate runs all 12 clauses against proof and imp in order, returning the
// state reached (StateAccepted on success) and the first error encountered.
func (v *Validator) Validate(proof *Proof, trusted []TrustedBlock, imp *PruningPointImport) (State, error) {
	state := StateStart

	if err := v.checkAbort(); err != nil {
		return state, err
	}

	// Clause 1-2: level count and per-header block level / parent-chain
	// linkage within each level.
	if err := v.checkLevels(proof); err != nil {
		return state, err
	}
	state = StateLevelsChecked

	if err := v.checkHeaderLinkage(proof); err != nil {
		return state, err
	}
	state = StateHeadersLinked

	if err := v.checkAbort(); err != nil {
		return state, err
	}

	// Clause 5: selected-tip identity against the local pruning point.
	if err := v.checkSelectedTip(proof); err != nil {
		return state, err
	}
	state = StateTipsValidated

	// Clause 6: blue work dominance.
	if !proof.ClaimedBlueWork.GreaterThan(v.LocalBlueWork) {
		return state, errInsufficientBlueWork()
	}
	state = StateBlueWorkValidated

	// Clause 7: header coverage, and clause 9: trusted-block reachability.
	if err := v.checkHeaderCoverage(proof); err != nil {
		return state, err
	}
	if err := v.checkTrustedBlocks(trusted); err != nil {
		return state, err
	}

	if err := v.checkAbort(); err != nil {
		return state, err
	}

	// Clause 10: pruning-point transaction validity and UTXO coverage.
	if err := v.checkPruningPointTransactions(imp); err != nil {
		return state, err
	}
	state = StateTxValidated

	// Clause 11: imported multiset agreement.
	if err := v.checkImportedMultiset(imp); err != nil {
		return state, err
	}
	state = StateMultisetValidated

	state = StateAccepted
	return state, nil
}

func (v *Validator) checkAbort() error {
	if v.AbortCh == nil {
		return nil
	}
	select {
	case <-v.AbortCh:
		return ErrValidationInterrupted()
	default:
		return nil
	}
}

// checkLevels implements clause 1 (level count), clause 3 (each header's
// PoW-derived level must be at least the level it appears at) and clause 8
// (no header appears twice within a level), polling for an abort
// (clause 12) before each level.
func (v *Validator) checkLevels(proof *Proof) error {
	expectedLevels := v.Params.PruningProofExpectedLevels
	if len(proof.Headers) != expectedLevels {
		return errNotEnoughLevels()
	}

	for level, headers := range proof.Headers {
		if err := v.checkAbort(); err != nil {
			return err
		}
		seen := make(map[hashes.Hash]bool, len(headers))
		for _, h := range headers {
			hash := consensus.BlockHeaderHash(h)
			if seen[hash] {
				return errDuplicateHeaderAtLevel(hash, hashes.BlockLevel(level))
			}
			seen[hash] = true

			gotLevel, err := consensus.ComputeBlockLevel(h, v.Params.MaxBlockLevel, v.Params.SkipProofOfWork)
			if err != nil {
				return errWrongBlockLevel(hash, 0, hashes.BlockLevel(level))
			}
			if int(gotLevel) < level {
				return errWrongBlockLevel(hash, gotLevel, hashes.BlockLevel(level))
			}
		}
	}
	return nil
}

// checkHeaderLinkage implements clause 2 (every non-genesis header at level
// ℓ must declare at least one level-ℓ parent already present earlier in
// that level's sequence) and clause 4 (the block at depth m below each
// level's selected tip must reappear in the level below it).
func (v *Validator) checkHeaderLinkage(proof *Proof) error {
	for level, headers := range proof.Headers {
		seenBefore := make(map[hashes.Hash]bool, len(headers))
		for _, h := range headers {
			hash := consensus.BlockHeaderHash(h)
			parents := h.ParentsAtLevel(hashes.BlockLevel(level))
			if len(parents) == 0 {
				seenBefore[hash] = true
				continue
			}
			linked := false
			for _, p := range parents {
				if seenBefore[p] {
					linked = true
					break
				}
			}
			if !linked {
				return errHeaderWithNoKnownParents(hash, hashes.BlockLevel(level))
			}
			seenBefore[hash] = true
		}
	}

	m := v.Params.PruningProofM
	for level := 0; level+1 < len(proof.Headers); level++ {
		upper := proof.Headers[level+1]
		if len(upper) == 0 {
			continue
		}
		depthHash, ok := selectedParentChainBack(upper, hashes.BlockLevel(level+1), m)
		if !ok {
			continue
		}
		if !containsHeaderHash(proof.Headers[level], depthHash) {
			return errMissingBlockAtDepthMFromNextLevel(hashes.BlockLevel(level), hashes.BlockLevel(level+1))
		}
	}
	return nil
}

// checkSelectedTip implements clause 5: the highest covered level's
// selected tip must be the local pruning point, or directly parent it.
func (v *Validator) checkSelectedTip(proof *Proof) error {
	highest := len(proof.Headers) - 1
	if highest < 0 {
		return nil
	}
	tipHeaders := proof.Headers[highest]
	if len(tipHeaders) == 0 {
		return errMissesBlocksBelowPruningPoint(hashes.ZeroHash, hashes.BlockLevel(highest))
	}
	tip := tipHeaders[len(tipHeaders)-1]
	tipHash := consensus.BlockHeaderHash(tip)

	if tipHash == v.PruningPointHash {
		return nil
	}
	parents := tip.ParentsAtLevel(hashes.BlockLevel(highest))
	if len(parents) == 0 {
		// A tip with no level-local parents claims to be the level's
		// genesis, so it can only stand in for the pruning point itself.
		return errSelectedTipIsNotThePruningPoint(tipHash, hashes.BlockLevel(highest))
	}
	for _, p := range parents {
		if p == v.PruningPointHash {
			return nil
		}
	}
	return errSelectedTipNotParentOfPruningPoint(tipHash, hashes.BlockLevel(highest))
}

// checkHeaderCoverage implements clause 7: if none of the proof's headers
// are already known locally, the proof must carry enough headers to
// reconstruct the overlap with the local DAG's existing levels.
func (v *Validator) checkHeaderCoverage(proof *Proof) error {
	if v.KnownHeaders == nil {
		return nil
	}
	total := 0
	anyKnown := false
	for _, headers := range proof.Headers {
		total += len(headers)
		for _, h := range headers {
			if v.KnownHeaders(consensus.BlockHeaderHash(h)) {
				anyKnown = true
			}
		}
	}
	if !anyKnown && total < len(proof.Headers) {
		return errNotEnoughHeaders()
	}
	return nil
}

// checkTrustedBlocks implements clause 9: every trusted (header-only)
// block handed alongside the proof must be reachable from the pruning
// point candidate's past.
func (v *Validator) checkTrustedBlocks(trusted []TrustedBlock) error {
	if v.Reachability == nil {
		return nil
	}
	for _, t := range trusted {
		ok, err := v.Reachability.IsDAGAncestorOf(t.Hash, v.PruningPointHash)
		if err != nil || !ok {
			return errPastMissingReachability(t.Hash)
		}
	}
	return nil
}

// checkPruningPointTransactions implements clause 10: every transaction in
// the new pruning point's block must validate individually against the
// imported UTXO set, every input must resolve to an imported entry, and the
// block as a whole must not contain duplicate transactions.
func (v *Validator) checkPruningPointTransactions(imp *PruningPointImport) error {
	if imp == nil || v.ValidateTx == nil {
		return nil
	}

	seenTxIDs := make(map[hashes.Hash]bool, len(imp.Block.Transactions))
	var collective []*Error
	for _, tx := range imp.Block.Transactions {
		txID := consensus.TransactionID(tx)
		if seenTxIDs[txID] {
			collective = append(collective, NewPruningPointTxError(txID, nil))
			continue
		}
		seenTxIDs[txID] = true

		if !tx.IsCoinbase() {
			for _, in := range tx.Inputs {
				if _, ok := imp.ImportedUTXO[in.PreviousOutpoint]; !ok {
					return NewPruningPointTxMissingUTXOEntry(txID)
				}
			}
		}

		if err := v.ValidateTx(tx, imp.ImportedUTXO); err != nil {
			return NewPruningPointTxError(txID, err)
		}
	}
	if len(collective) > 0 {
		return NewPruningPointTxErrors(collective)
	}
	return nil
}

// checkImportedMultiset implements clause 11: the multiset built from the
// imported UTXO set must commit to the hash the import claims.
func (v *Validator) checkImportedMultiset(imp *PruningPointImport) error {
	if imp == nil {
		return nil
	}
	m := muhash.EmptyMuHash()
	for op, entry := range imp.ImportedUTXO {
		m.AddElement(utxoMultisetElement(op, entry))
	}
	actual := muhash.CommitmentHash(m.Finalize())
	if actual != imp.ExpectedMultisetHash {
		return errImportedMultisetHashMismatch(imp.ExpectedMultisetHash, actual)
	}
	return nil
}

// utxoMultisetElement encodes an outpoint/entry pair into the canonical
// bytes folded into the UTXO multiset, mirroring store.CachedAccess's
// fixed-width encoding convention elsewhere in this module.
func utxoMultisetElement(op consensus.TxOutPoint, entry consensus.UtxoEntry) []byte {
	buf := make([]byte, 0, 32+4+8+8+1+len(entry.ScriptPublicKey))
	buf = append(buf, op.TransactionID[:]...)
	var tmp4 [4]byte
	binary.LittleEndian.PutUint32(tmp4[:], op.Index)
	buf = append(buf, tmp4[:]...)
	var tmp8 [8]byte
	binary.LittleEndian.PutUint64(tmp8[:], entry.Amount)
	buf = append(buf, tmp8[:]...)
	binary.LittleEndian.PutUint64(tmp8[:], entry.BlockDAAScore)
	buf = append(buf, tmp8[:]...)
	if entry.IsCoinbase {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = append(buf, entry.ScriptPublicKey...)
	return buf
}

// selectedParentChainBack walks level-local selected-parent links (each
// header's first parent at that level) m steps back from the level's tip,
// returning the hash reached. It returns ok=false only when the level has
// no headers; walking off the known set simply stops at the farthest
// reachable ancestor, since proof levels are sparse by construction.
func selectedParentChainBack(levelHeaders []consensus.Header, level hashes.BlockLevel, m uint64) (hashes.Hash, bool) {
	if len(levelHeaders) == 0 {
		return hashes.Hash{}, false
	}
	byHash := make(map[hashes.Hash]consensus.Header, len(levelHeaders))
	for _, h := range levelHeaders {
		byHash[consensus.BlockHeaderHash(h)] = h
	}

	cur := levelHeaders[len(levelHeaders)-1]
	curHash := consensus.BlockHeaderHash(cur)
	for i := uint64(0); i < m; i++ {
		parents := cur.ParentsAtLevel(level)
		if len(parents) == 0 {
			return curHash, true
		}
		next, ok := byHash[parents[0]]
		if !ok {
			return parents[0], true
		}
		cur = next
		curHash = parents[0]
	}
	return curHash, true
}

func containsHeaderHash(headers []consensus.Header, target hashes.Hash) bool {
	for _, h := range headers {
		if consensus.BlockHeaderHash(h) == target {
			return true
		}
	}
	return false
}
