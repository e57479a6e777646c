package rubinnode

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"rubin.dev/node/consensus"
	"rubin.dev/node/dagcfg"
	"rubin.dev/node/hashes"
	"rubin.dev/node/kvstore"
	"rubin.dev/node/mempool"
	"rubin.dev/node/pruning"
	"rubin.dev/node/reachability"
	"rubin.dev/node/store"
)

// Daemon owns the full consensus-core stack for one network and exposes
// the two operations the rest of the node drives it through: ingesting a
// new header and verifying an incoming pruning proof.
type Daemon struct {
	Params dagcfg.Params
	DB     *kvstore.DB

	Relations     *store.RelationsStore
	Statuses      *store.StatusesStore
	UtxoMultisets *store.UtxoMultisetStore
	Reachability  *reachability.Service
	Processor     *consensus.HeaderProcessor

	Mempool *mempool.Pool
	Logger  *slog.Logger

	pruningValidator *pruning.Validator
}

// NewDaemon opens the on-disk stores under cfg.DataDir, seeds genesis
// state on a fresh data directory, and wires every component together.
func NewDaemon(cfg Config, params dagcfg.Params) (*Daemon, error) {
	db, err := kvstore.Open(cfg.DataDir,
		kvstore.PrefixRelationsParents,
		kvstore.PrefixRelationsChildren,
		kvstore.PrefixStatuses,
		kvstore.PrefixUtxoMultisets,
	)
	if err != nil {
		return nil, fmt.Errorf("open consensus store: %w", err)
	}

	statuses, err := store.NewStatusesStore(db)
	if err != nil {
		return nil, fmt.Errorf("open statuses store: %w", err)
	}
	utxoMultisets, err := store.NewUtxoMultisetStore(db)
	if err != nil {
		return nil, fmt.Errorf("open utxo multiset store: %w", err)
	}

	d := &Daemon{
		Params:        params,
		DB:            db,
		Relations:     store.NewRelationsStore(db),
		Statuses:      statuses,
		UtxoMultisets: utxoMultisets,
		Reachability:  reachability.New(),
		Mempool:       mempool.NewPool(),
		Logger:        slog.New(slog.NewTextHandler(os.Stderr, nil)).With("network", params.Name),
	}
	d.Processor = &consensus.HeaderProcessor{
		Params:       params.HeaderProcessorParams(),
		Statuses:     statuses,
		Reachability: d.Reachability,
		Now:          func() uint64 { return uint64(time.Now().UnixMilli()) },
	}
	d.pruningValidator = &pruning.Validator{
		Params:       &d.Params,
		Reachability: d.Reachability,
		KnownHeaders: func(h hashes.Hash) bool {
			_, found, err := statuses.Get(h)
			return err == nil && found
		},
		ValidateTx: validatePruningPointTransaction,
	}

	if err := d.ensureGenesis(); err != nil {
		return nil, err
	}
	return d, nil
}

// ensureGenesis registers the network's genesis block as the DAG's root,
// seeding a fresh store with the genesis record before any header is
// accepted. The in-memory reachability root is registered on every
// startup; the status write only happens once.
func (d *Daemon) ensureGenesis() error {
	genesisHash := d.Params.Genesis.Hash()
	if err := d.Reachability.AddBlock(genesisHash, hashes.Origin); err != nil {
		return err
	}
	if _, found, err := d.Statuses.Get(genesisHash); err != nil {
		return err
	} else if found {
		return nil
	}

	writer := store.NewBatchWriter()
	if err := d.Statuses.Write(writer, genesisHash, consensus.StatusValid); err != nil {
		return err
	}
	if err := writer.Flush(d.DB); err != nil {
		return err
	}
	return nil
}

// Close releases the daemon's on-disk resources.
func (d *Daemon) Close() error {
	return d.DB.Close()
}

// IngestHeader runs a header through in-isolation validation, parent
// relations validation, and, on success, stages its relations and status
// under a single batch writer before registering it with reachability,
// so observers see either the complete update or none of it.
func (d *Daemon) IngestHeader(h consensus.Header) error {
	hash := consensus.BlockHeaderHash(h)

	if _, found, err := d.Statuses.Get(hash); err != nil {
		return err
	} else if found {
		return nil
	}

	if _, err := d.Processor.ValidateHeaderInIsolation(h); err != nil {
		return err
	}
	if err := d.Processor.ValidateParentRelations(h); err != nil {
		return err
	}

	writer := store.NewBatchWriter()
	for level := 0; level < len(h.ParentsByLevel); level++ {
		if err := d.Relations.StageBlock(writer, hashes.BlockLevel(level), hash, h.ParentsByLevel[level]); err != nil {
			return err
		}
	}
	if err := d.Statuses.Write(writer, hash, consensus.StatusHeaderOnly); err != nil {
		return err
	}
	if err := writer.Flush(d.DB); err != nil {
		return err
	}

	parents := h.DirectParents()
	selectedParent := parents[0]
	otherParents := parents[1:]
	if err := d.Reachability.AddBlock(hash, selectedParent, otherParents...); err != nil {
		return err
	}
	d.Logger.Debug("ingested header", "hash", hash, "level0parents", len(parents))
	return nil
}

// VerifyPruningProof runs proof, trusted, and imp through the
// pruning-proof state machine against this daemon's locally known DAG.
func (d *Daemon) VerifyPruningProof(proof *pruning.Proof, trusted []pruning.TrustedBlock, imp *pruning.PruningPointImport) (pruning.State, error) {
	if imp != nil {
		d.pruningValidator.PruningPointHash = consensus.BlockHeaderHash(imp.Block.Header)
	} else if n := len(proof.Headers); n > 0 {
		if top := proof.Headers[n-1]; len(top) > 0 {
			d.pruningValidator.PruningPointHash = consensus.BlockHeaderHash(top[len(top)-1])
		}
	}
	d.pruningValidator.LocalBlueWork = d.localBlueWork()
	state, err := d.pruningValidator.Validate(proof, trusted, imp)
	if err != nil {
		d.Logger.Warn("pruning proof rejected", "state", state, "error", err)
	} else {
		d.Logger.Info("pruning proof accepted", "state", state)
	}
	return state, err
}

// localBlueWork reports the genesis's zero blue work until a real selected
// chain tip is tracked; the pruning proof's blue-work dominance check
// (clause 6) compares against whatever this returns.
func (d *Daemon) localBlueWork() hashes.BlueWork {
	return hashes.ZeroBlueWork()
}

// validatePruningPointTransaction performs the value-balance check on an
// imported pruning-point transaction: non-coinbase transactions must not
// create value. Script and maturity validation belong to the wallet and
// body-validation layers, not this core.
func validatePruningPointTransaction(tx consensus.Transaction, utxo map[consensus.TxOutPoint]consensus.UtxoEntry) error {
	if tx.IsCoinbase() {
		return nil
	}
	var inputSum, outputSum uint64
	for _, in := range tx.Inputs {
		entry, ok := utxo[in.PreviousOutpoint]
		if !ok {
			return fmt.Errorf("missing utxo entry for input %s:%d", in.PreviousOutpoint.TransactionID, in.PreviousOutpoint.Index)
		}
		inputSum += entry.Amount
	}
	for _, out := range tx.Outputs {
		outputSum += out.Value
	}
	if outputSum > inputSum {
		return fmt.Errorf("transaction spends more than its inputs: outputs %d > inputs %d", outputSum, inputSum)
	}
	return nil
}
