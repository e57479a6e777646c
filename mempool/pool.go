package mempool

import (
	"sync"

	"rubin.dev/node/consensus"
	"rubin.dev/node/hashes"
)

// Pool is a minimal in-memory transaction pool supplying exactly the
// shape PopulateMempoolEntries needs to be exercised end-to-end: insert,
// lookup by id, removal.
type Pool struct {
	mu  sync.RWMutex
	txs map[hashes.Hash]consensus.Transaction
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{txs: make(map[hashes.Hash]consensus.Transaction)}
}

// Insert adds tx to the pool, keyed by its transaction id.
func (p *Pool) Insert(tx consensus.Transaction) hashes.Hash {
	id := consensus.TransactionID(tx)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.txs[id] = tx
	return id
}

// Get satisfies PoolReader.
func (p *Pool) Get(id hashes.Hash) (consensus.Transaction, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	tx, ok := p.txs[id]
	return tx, ok
}

// Remove evicts id from the pool, if present.
func (p *Pool) Remove(id hashes.Hash) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.txs, id)
}

// Len reports the pool's current size.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.txs)
}

var _ PoolReader = (*Pool)(nil)

// TopologicalOrder orders ids so that every transaction appears after
// the pool-resident parents its inputs reference. A dependency cycle is
// unreachable in a well-formed pool, but possible if callers hand-build
// conflicting fixtures; it yields ErrRejectCycleInMempoolTransactions.
func (p *Pool) TopologicalOrder(ids []hashes.Hash) ([]hashes.Hash, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	inSet := make(map[hashes.Hash]bool, len(ids))
	for _, id := range ids {
		inSet[id] = true
	}

	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)
	state := make(map[hashes.Hash]int, len(ids))
	order := make([]hashes.Hash, 0, len(ids))

	var visit func(id hashes.Hash) error
	visit = func(id hashes.Hash) error {
		switch state[id] {
		case visited:
			return nil
		case visiting:
			return ErrRejectCycleInMempoolTransactions()
		}
		state[id] = visiting
		if tx, ok := p.txs[id]; ok {
			for _, in := range tx.Inputs {
				parentID := in.PreviousOutpoint.TransactionID
				if !inSet[parentID] {
					continue
				}
				if err := visit(parentID); err != nil {
					return err
				}
			}
		}
		state[id] = visited
		order = append(order, id)
		return nil
	}

	for _, id := range ids {
		if err := visit(id); err != nil {
			return nil, err
		}
	}
	return order, nil
}
