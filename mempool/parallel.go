package mempool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// parallelWorkers bounds the worker pool's concurrency: generous enough
// to saturate typical multi-core hosts without unbounded goroutine
// growth.
const parallelWorkers = 16

// ValidateMempoolTransactionsInParallel dispatches each transaction's
// validation onto a worker pool and returns a same-length,
// positionally-corresponding result slice. No transaction's failure
// short-circuits the others.
func ValidateMempoolTransactionsInParallel(consensus ConsensusAPI, txs []*MutableTransaction) []error {
	results := make([]error, len(txs))
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(parallelWorkers)
	for i, tx := range txs {
		i, tx := i, tx
		g.Go(func() error {
			results[i] = ValidateMempoolTransaction(consensus, tx)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// PopulateMempoolTransactionsInParallel is the populate-from-UTXO-store
// analogue of ValidateMempoolTransactionsInParallel.
func PopulateMempoolTransactionsInParallel(consensus ConsensusAPI, txs []*MutableTransaction) []error {
	results := make([]error, len(txs))
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(parallelWorkers)
	for i, tx := range txs {
		i, tx := i, tx
		g.Go(func() error {
			if err := consensus.PopulateMempoolTransaction(tx); err != nil {
				results[i] = FromConsensusError(err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
